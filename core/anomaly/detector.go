package anomaly

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/evfleet/packhealth/core/model"
)

// Detection thresholds.
const (
	imbalanceMajorV   = 0.10
	imbalanceMinorV   = 0.05
	overheatCriticalC = 60.0
	overheatWarningC  = 45.0
	cellVoltageMinV   = 2.5
	cellVoltageMaxV   = 4.5
)

// Detect scans cell and pack readings for out-of-range conditions. The
// checks are independent and each contributes at most one entry, appended
// in fixed order: voltage imbalance, overheating, pack-voltage mismatch.
// The returned slice is never nil.
func Detect(snap model.DiagnosticSnapshot) []model.Anomaly {
	anomalies := []model.Anomaly{}
	if len(snap.Cells) > 0 {
		voltages := make([]float64, len(snap.Cells))
		temps := make([]float64, len(snap.Cells))
		for i, c := range snap.Cells {
			voltages[i] = c.Voltage
			temps[i] = c.TempC
		}

		spread := floats.Max(voltages) - floats.Min(voltages)
		switch {
		case spread >= imbalanceMajorV:
			anomalies = append(anomalies, model.Anomaly{
				Type:     model.AnomalyVoltageImbalance,
				Severity: model.SeverityMajor,
				Value:    round3(spread),
			})
		case spread >= imbalanceMinorV:
			anomalies = append(anomalies, model.Anomaly{
				Type:     model.AnomalyVoltageImbalance,
				Severity: model.SeverityMinor,
				Value:    round3(spread),
			})
		}

		maxTemp := floats.Max(temps)
		switch {
		case maxTemp >= overheatCriticalC:
			anomalies = append(anomalies, model.Anomaly{
				Type:     model.AnomalyOverheating,
				Severity: model.SeverityCritical,
				Value:    maxTemp,
			})
		case maxTemp >= overheatWarningC:
			anomalies = append(anomalies, model.Anomaly{
				Type:     model.AnomalyOverheating,
				Severity: model.SeverityWarning,
				Value:    maxTemp,
			})
		}
	}

	if snap.CellCount > 0 {
		impliedCellV := snap.PackVoltage / float64(snap.CellCount)
		if impliedCellV < cellVoltageMinV || impliedCellV > cellVoltageMaxV {
			anomalies = append(anomalies, model.Anomaly{
				Type:     model.AnomalyPackVoltageMismatch,
				Severity: model.SeverityWarning,
				Value:    round2(impliedCellV),
			})
		}
	}
	return anomalies
}

func round2(v float64) float64 { return math.Round(v*100) / 100 }

func round3(v float64) float64 { return math.Round(v*1000) / 1000 }
