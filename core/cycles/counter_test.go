package cycles

import (
	"testing"

	"github.com/evfleet/packhealth/core/model"
)

func series(socs ...int) []model.SocSample {
	samples := make([]model.SocSample, len(socs))
	for i, s := range socs {
		samples[i] = model.SocSample{Soc: s}
	}
	return samples
}

func TestCountEmptyAndSingle(t *testing.T) {
	for _, samples := range [][]model.SocSample{nil, series(), series(50)} {
		stats := Count(samples)
		if stats.EquivalentFullCycles != 0 || stats.DeepCycles != 0 {
			t.Errorf("expected zero stats for %d samples, got %+v", len(samples), stats)
		}
	}
}

func TestCountEquivalentAndDeepCycles(t *testing.T) {
	// Deltas 77 + 70 + 63 = 210 percentage points of movement.
	stats := Count(series(95, 18, 88, 25))
	if stats.EquivalentFullCycles != 2.1 {
		t.Errorf("expected 2.1 equivalent cycles got %v", stats.EquivalentFullCycles)
	}
	// Only 95->18 qualifies; 88->25 starts below 90.
	if stats.DeepCycles != 1 {
		t.Errorf("expected 1 deep cycle got %d", stats.DeepCycles)
	}
}

// A high and a low reading separated by an intermediate sample do not
// count as a deep discharge.
func TestDeepCycleRequiresConsecutivePair(t *testing.T) {
	stats := Count(series(95, 55, 18))
	if stats.DeepCycles != 0 {
		t.Errorf("expected 0 deep cycles got %d", stats.DeepCycles)
	}
}

func TestDeepCycleBoundaries(t *testing.T) {
	if got := Count(series(90, 20)).DeepCycles; got != 1 {
		t.Errorf("90->20 should count, got %d", got)
	}
	if got := Count(series(89, 20)).DeepCycles; got != 0 {
		t.Errorf("89->20 should not count, got %d", got)
	}
	if got := Count(series(90, 21)).DeepCycles; got != 0 {
		t.Errorf("90->21 should not count, got %d", got)
	}
}

func TestCountChargeAndDischargeBothCount(t *testing.T) {
	stats := Count(series(20, 80, 20))
	if stats.EquivalentFullCycles != 1.2 {
		t.Errorf("expected 1.2 got %v", stats.EquivalentFullCycles)
	}
}
