package model

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
)

// CellReading is one series cell measurement taken during diagnostics.
type CellReading struct {
	ID      int     `json:"id"`
	Voltage float64 `json:"voltage"`
	TempC   float64 `json:"temp_c"`
}

// SocSample is a timestamped state-of-charge reading. Samples arrive in
// chronological order; consecutive deltas drive cycle counting.
type SocSample struct {
	TS  time.Time `json:"ts"`
	Soc int       `json:"soc" validate:"gte=0,lte=100"`
}

// CycleRecord summarises one past charge/discharge cycle.
type CycleRecord struct {
	StartSoc  int     `json:"start_soc"`
	EndSoc    int     `json:"end_soc"`
	EnergyKWh float64 `json:"energy_kwh" validate:"gte=0"`
	DurationH float64 `json:"duration_h"`
}

// DiagnosticSnapshot is the input record for report generation: one
// diagnostic dump from a battery pack. It is decoded from JSON at the
// transport boundary; unknown fields are ignored, and the optional fields
// (measured capacity, cycle history) drive the estimator's degradation
// path when absent.
type DiagnosticSnapshot struct {
	VehicleID           string        `json:"vehicle_id"`
	Timestamp           time.Time     `json:"timestamp"`
	NominalCapacityKWh  float64       `json:"nominal_capacity_kwh" validate:"gt=0"`
	MeasuredCapacityKWh *float64      `json:"measured_capacity_kwh,omitempty" validate:"omitempty,gt=0"`
	PackVoltage         float64       `json:"pack_voltage" validate:"gt=0"`
	CellCount           int           `json:"cell_count" validate:"gte=0"`
	Cells               []CellReading `json:"cells"`
	SocTimeseries       []SocSample   `json:"soc_timeseries" validate:"dive"`
	CycleHistory        []CycleRecord `json:"cycle_history,omitempty" validate:"dive"`
}

var validate = validator.New()

// Validate checks the snapshot against the wire schema. The transport
// boundary must call it before handing the snapshot to the core so that
// unrecoverable faults (such as a non-positive nominal capacity) are
// rejected up front.
func (s DiagnosticSnapshot) Validate() error {
	if err := validate.Struct(s); err != nil {
		return fmt.Errorf("invalid snapshot: %w", err)
	}
	return nil
}
