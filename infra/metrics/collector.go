package metrics

import (
	"context"

	coremetrics "github.com/evfleet/packhealth/core/metrics"
	"github.com/evfleet/packhealth/infra/logger"
	"github.com/evfleet/packhealth/internal/eventbus"
)

// StartEventCollector subscribes to the event bus and forwards report
// events to the sink, keeping the request path free of sink latency.
// It stops when the context is canceled.
func StartEventCollector(ctx context.Context, bus eventbus.EventBus, sink coremetrics.MetricsSink, log logger.Logger) {
	if bus == nil || sink == nil {
		return
	}
	if log == nil {
		log = logger.NopLogger{}
	}
	sub := bus.Subscribe()
	go func() {
		defer bus.Unsubscribe(sub)
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-sub:
				if !ok {
					return
				}
				if err := sink.RecordReport(ev); err != nil {
					log.Errorf("record report event: %v", err)
				}
			}
		}
	}()
}
