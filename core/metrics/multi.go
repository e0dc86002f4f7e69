package metrics

// MultiSink fans report events out to multiple sinks.
type MultiSink struct {
	Sinks []MetricsSink
}

// NewMultiSink creates a MultiSink with the provided sinks.
func NewMultiSink(sinks ...MetricsSink) *MultiSink {
	return &MultiSink{Sinks: sinks}
}

// RecordReport forwards the event to all sinks, returning the first
// error encountered.
func (m *MultiSink) RecordReport(ev ReportEvent) error {
	for _, s := range m.Sinks {
		if err := s.RecordReport(ev); err != nil {
			return err
		}
	}
	return nil
}
