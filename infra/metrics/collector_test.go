package metrics

import (
	"context"
	"sync"
	"testing"
	"time"

	coremetrics "github.com/evfleet/packhealth/core/metrics"
	"github.com/evfleet/packhealth/infra/logger"
	"github.com/evfleet/packhealth/internal/eventbus"
)

type capturingSink struct {
	mu     sync.Mutex
	events []coremetrics.ReportEvent
}

func (s *capturingSink) RecordReport(ev coremetrics.ReportEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, ev)
	return nil
}

func (s *capturingSink) len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.events)
}

func TestEventCollectorForwardsEvents(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	bus := eventbus.New()
	sink := &capturingSink{}
	StartEventCollector(ctx, bus, sink, logger.NopLogger{})

	// Subscription happens before StartEventCollector returns, so the
	// event cannot be lost.
	bus.Publish(coremetrics.ReportEvent{VehicleID: "EV-1"})

	deadline := time.After(time.Second)
	for sink.len() == 0 {
		select {
		case <-deadline:
			t.Fatal("event not forwarded to sink")
		case <-time.After(5 * time.Millisecond):
		}
	}
}

func TestEventCollectorNilArgs(t *testing.T) {
	// Must be a no-op, not a panic.
	StartEventCollector(context.Background(), nil, nil, nil)
	StartEventCollector(context.Background(), eventbus.New(), nil, nil)
}
