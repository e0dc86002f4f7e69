package model

import "time"

// SOHMethod identifies which estimation method produced the SOH figure.
type SOHMethod string

const (
	MethodMeasuredCapacity SOHMethod = "measured_capacity"
	MethodCycleHistory     SOHMethod = "cycle_history_estimate"
	MethodVoltageHeuristic SOHMethod = "voltage_heuristic"
	MethodUnknown          SOHMethod = "unknown"
)

// Confidence ranks how much trust to place in an SOH estimate.
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
	ConfidenceNone   Confidence = "none"
)

// AnomalyType tags the kind of out-of-range condition detected.
type AnomalyType string

const (
	AnomalyVoltageImbalance    AnomalyType = "voltage_imbalance"
	AnomalyOverheating         AnomalyType = "overheating"
	AnomalyPackVoltageMismatch AnomalyType = "pack_voltage_mismatch"
)

// Severity grades an anomaly.
type Severity string

const (
	SeverityMinor    Severity = "minor"
	SeverityMajor    Severity = "major"
	SeverityWarning  Severity = "warning"
	SeverityCritical Severity = "critical"
)

// SOHEstimate is the state-of-health result of the estimator chain.
type SOHEstimate struct {
	SohPercent float64    `json:"soh_percent"`
	Method     SOHMethod  `json:"method"`
	Confidence Confidence `json:"confidence"`
}

// CycleStats holds the counts derived from the SoC time series.
type CycleStats struct {
	EquivalentFullCycles float64 `json:"equivalent_full_cycles"`
	DeepCycles           int     `json:"deep_cycles"`
}

// Anomaly is one detected out-of-range condition with its measured value.
type Anomaly struct {
	Type     AnomalyType `json:"type"`
	Severity Severity    `json:"severity"`
	Value    float64     `json:"value"`
}

// HealthReport is the output record, constructed fresh for every
// snapshot. Anomalies is always non-nil so it marshals as [] rather
// than null.
type HealthReport struct {
	VehicleID   string      `json:"vehicle_id"`
	GeneratedAt time.Time   `json:"generated_at"`
	SOH         SOHEstimate `json:"soh"`
	Cycles      CycleStats  `json:"cycles"`
	Anomalies   []Anomaly   `json:"anomalies"`
	Explanation string      `json:"explanation"`
}
