package cycles

import (
	"math"

	"github.com/evfleet/packhealth/core/model"
)

// A deep discharge is a single consecutive-pair transition from at least
// deepStartSoc down to at most deepEndSoc.
const (
	deepStartSoc = 90
	deepEndSoc   = 20
)

// Count derives cycle statistics from a chronological SoC series. One
// equivalent full cycle equals 100 percentage points of cumulative SoC
// movement, charge and discharge excursions both counted. Fewer than two
// samples yield zero counts.
func Count(samples []model.SocSample) model.CycleStats {
	if len(samples) < 2 {
		return model.CycleStats{}
	}
	var totalDelta float64
	deep := 0
	for i := 1; i < len(samples); i++ {
		prev, cur := samples[i-1].Soc, samples[i].Soc
		totalDelta += math.Abs(float64(cur - prev))
		if prev >= deepStartSoc && cur <= deepEndSoc {
			deep++
		}
	}
	return model.CycleStats{
		EquivalentFullCycles: round2(totalDelta / 100),
		DeepCycles:           deep,
	}
}

func round2(v float64) float64 { return math.Round(v*100) / 100 }
