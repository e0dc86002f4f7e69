package report

import (
	"fmt"
	"time"

	"github.com/evfleet/packhealth/core/anomaly"
	"github.com/evfleet/packhealth/core/cycles"
	"github.com/evfleet/packhealth/core/model"
	"github.com/evfleet/packhealth/core/soh"
)

// UnknownVehicleID is substituted when the snapshot carries no vehicle id.
const UnknownVehicleID = "Unknown"

// Composer assembles health reports from diagnostic snapshots. It holds
// no state between calls; the clock is the only non-deterministic input.
type Composer struct {
	now func() time.Time
}

// New returns a Composer stamping reports with the UTC wall clock.
func New() *Composer {
	return &Composer{now: func() time.Time { return time.Now().UTC() }}
}

// NewWithClock returns a Composer using the given clock. Intended for tests.
func NewWithClock(now func() time.Time) *Composer {
	return &Composer{now: now}
}

// Generate derives the full health report for one snapshot. The three
// derivations are independent of each other; the report is a pure
// function of the snapshot apart from the generated_at stamp. The
// snapshot is not mutated.
func (c *Composer) Generate(snap model.DiagnosticSnapshot) (model.HealthReport, error) {
	estimate, err := soh.Estimate(snap)
	if err != nil {
		return model.HealthReport{}, err
	}
	cycleStats := cycles.Count(snap.SocTimeseries)
	anomalies := anomaly.Detect(snap)

	id := snap.VehicleID
	if id == "" {
		id = UnknownVehicleID
	}
	explanation := fmt.Sprintf(
		"Battery SOH is %v%% (calculated via %s). Total equivalent cycles: %v. Detected %d anomalies.",
		estimate.SohPercent, estimate.Method, cycleStats.EquivalentFullCycles, len(anomalies),
	)

	return model.HealthReport{
		VehicleID:   id,
		GeneratedAt: c.now(),
		SOH:         estimate,
		Cycles:      cycleStats,
		Anomalies:   anomalies,
		Explanation: explanation,
	}, nil
}
