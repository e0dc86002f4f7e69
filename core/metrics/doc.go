// Package metrics defines the observability contract for report
// generation: the ReportEvent emitted per generated report, the
// MetricsSink interface, and the factory turning sink configuration
// into concrete sinks. Implementations live in infra/metrics.
package metrics
