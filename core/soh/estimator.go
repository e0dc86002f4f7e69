package soh

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/evfleet/packhealth/core/model"
)

// ErrNonPositiveNominalCapacity is returned when the selected method
// would divide by a nominal capacity that is zero or negative. Input
// validation at the transport boundary is expected to prevent this.
var ErrNonPositiveNominalCapacity = errors.New("nominal capacity must be positive")

// Voltage heuristic mapping: mean cell voltage in [vLow, vHigh] maps
// linearly onto [sohLow, sohHigh] percent, extrapolating without clamping
// outside the range.
const (
	vLow    = 3.2
	vHigh   = 4.2
	sohLow  = 30.0
	sohHigh = 100.0
)

// method is one guarded estimation strategy in the priority chain.
type method struct {
	applies  func(model.DiagnosticSnapshot) bool
	estimate func(model.DiagnosticSnapshot) (model.SOHEstimate, error)
}

var chain = []method{
	{applies: hasMeasuredCapacity, estimate: fromMeasuredCapacity},
	{applies: hasCycleHistory, estimate: fromCycleHistory},
	{applies: hasCells, estimate: fromCellVoltages},
}

// Estimate derives the state of health using the first applicable method
// in strict priority order: measured capacity, cycle history, then the
// cell-voltage heuristic. With no usable data it reports 0% with no
// confidence.
func Estimate(snap model.DiagnosticSnapshot) (model.SOHEstimate, error) {
	for _, m := range chain {
		if m.applies(snap) {
			return m.estimate(snap)
		}
	}
	return model.SOHEstimate{Method: model.MethodUnknown, Confidence: model.ConfidenceNone}, nil
}

func hasMeasuredCapacity(s model.DiagnosticSnapshot) bool { return s.MeasuredCapacityKWh != nil }
func hasCycleHistory(s model.DiagnosticSnapshot) bool     { return len(s.CycleHistory) > 0 }
func hasCells(s model.DiagnosticSnapshot) bool            { return len(s.Cells) > 0 }

func fromMeasuredCapacity(s model.DiagnosticSnapshot) (model.SOHEstimate, error) {
	if s.NominalCapacityKWh <= 0 {
		return model.SOHEstimate{}, ErrNonPositiveNominalCapacity
	}
	pct := *s.MeasuredCapacityKWh / s.NominalCapacityKWh * 100
	return model.SOHEstimate{
		SohPercent: round2(pct),
		Method:     model.MethodMeasuredCapacity,
		Confidence: model.ConfidenceHigh,
	}, nil
}

func fromCycleHistory(s model.DiagnosticSnapshot) (model.SOHEstimate, error) {
	if s.NominalCapacityKWh <= 0 {
		return model.SOHEstimate{}, ErrNonPositiveNominalCapacity
	}
	energies := make([]float64, len(s.CycleHistory))
	for i, c := range s.CycleHistory {
		energies[i] = c.EnergyKWh
	}
	pct := stat.Mean(energies, nil) / s.NominalCapacityKWh * 100
	return model.SOHEstimate{
		SohPercent: round2(pct),
		Method:     model.MethodCycleHistory,
		Confidence: model.ConfidenceMedium,
	}, nil
}

func fromCellVoltages(s model.DiagnosticSnapshot) (model.SOHEstimate, error) {
	voltages := make([]float64, len(s.Cells))
	for i, c := range s.Cells {
		voltages[i] = c.Voltage
	}
	mean := stat.Mean(voltages, nil)
	pct := sohLow + (mean-vLow)/(vHigh-vLow)*(sohHigh-sohLow)
	return model.SOHEstimate{
		SohPercent: round2(pct),
		Method:     model.MethodVoltageHeuristic,
		Confidence: model.ConfidenceLow,
	}, nil
}

func round2(v float64) float64 { return math.Round(v*100) / 100 }
