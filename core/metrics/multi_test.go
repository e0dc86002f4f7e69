package metrics

import "testing"

type countingSink struct {
	count int
}

func (s *countingSink) RecordReport(ReportEvent) error {
	s.count++
	return nil
}

func TestMultiSink(t *testing.T) {
	s1 := &countingSink{}
	s2 := &countingSink{}
	m := NewMultiSink(s1, s2)
	if err := m.RecordReport(ReportEvent{VehicleID: "EV-1"}); err != nil {
		t.Fatalf("record: %v", err)
	}
	if s1.count != 1 || s2.count != 1 {
		t.Fatalf("event not forwarded: %d %d", s1.count, s2.count)
	}
}

func TestNewMetricsSinkEmpty(t *testing.T) {
	sink, err := NewMetricsSink(nil)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, ok := sink.(NopSink); !ok {
		t.Fatalf("expected NopSink got %T", sink)
	}
}
