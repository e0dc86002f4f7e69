package metrics

import (
	"time"

	"github.com/evfleet/packhealth/core/model"
)

// ReportEvent captures one generated health report for observability
// sinks. It carries everything a sink needs so that sinks never reach
// back into the pipeline.
type ReportEvent struct {
	VehicleID            string
	Method               model.SOHMethod
	Confidence           model.Confidence
	SohPercent           float64
	EquivalentFullCycles float64
	DeepCycles           int
	Anomalies            []model.Anomaly
	Duration             time.Duration
	Time                 time.Time
}

// MetricsSink records report events for observability purposes.
type MetricsSink interface {
	RecordReport(ev ReportEvent) error
}

// NopSink implements MetricsSink with no-op methods.
type NopSink struct{}

func (NopSink) RecordReport(ReportEvent) error { return nil }
