package metrics

import (
	"context"
	"math"
	"net/http"
	"strings"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/influxdata/influxdb-client-go/v2/api/write"

	coremetrics "github.com/evfleet/packhealth/core/metrics"
	"github.com/evfleet/packhealth/infra/logger"
)

// InfluxSink writes report events to an InfluxDB instance using the
// official client.
type InfluxSink struct {
	client   influxdb2.Client
	writeAPI api.WriteAPIBlocking
	log      logger.Logger
}

// NewInfluxSink creates a new sink configured for the given InfluxDB endpoint.
func NewInfluxSink(url, token, org, bucket string) *InfluxSink {
	base := strings.TrimSuffix(url, "/api/v2/write")
	client := influxdb2.NewClientWithOptions(base, token,
		influxdb2.DefaultOptions().SetHTTPClient(&http.Client{Timeout: 5 * time.Second}))
	return &InfluxSink{
		client:   client,
		writeAPI: client.WriteAPIBlocking(org, bucket),
		log:      logger.New("influx-sink"),
	}
}

// NewInfluxSinkWithFallback tries to ping the InfluxDB instance and
// returns a NopSink if the health check fails.
func NewInfluxSinkWithFallback(url, token, org, bucket string) coremetrics.MetricsSink {
	sink := NewInfluxSink(url, token, org, bucket)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	health, err := sink.client.Health(ctx)
	if err != nil || health.Status != "pass" {
		if err != nil {
			sink.log.Errorf("influx health check error: %v", err)
		} else {
			sink.log.Errorf("influx health status: %s", health.Status)
		}
		sink.client.Close()
		return coremetrics.NopSink{}
	}
	return sink
}

// RecordReport writes one report event as a battery_report point, plus a
// battery_anomaly point per detected anomaly.
func (s *InfluxSink) RecordReport(ev coremetrics.ReportEvent) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	p := write.NewPointWithMeasurement("battery_report").
		AddTag("vehicle_id", ev.VehicleID).
		AddTag("method", string(ev.Method)).
		AddTag("confidence", string(ev.Confidence)).
		AddField("soh_percent", round3(ev.SohPercent)).
		AddField("equivalent_full_cycles", round3(ev.EquivalentFullCycles)).
		AddField("deep_cycles", ev.DeepCycles).
		AddField("anomaly_count", len(ev.Anomalies)).
		AddField("duration_seconds", ev.Duration.Seconds()).
		SetTime(ev.Time)
	if err := s.writeAPI.WritePoint(ctx, p); err != nil {
		return err
	}
	for _, a := range ev.Anomalies {
		ap := write.NewPointWithMeasurement("battery_anomaly").
			AddTag("vehicle_id", ev.VehicleID).
			AddTag("type", string(a.Type)).
			AddTag("severity", string(a.Severity)).
			AddField("value", round3(a.Value)).
			SetTime(ev.Time)
		if err := s.writeAPI.WritePoint(ctx, ap); err != nil {
			return err
		}
	}
	return nil
}

// Close releases the underlying client.
func (s *InfluxSink) Close() { s.client.Close() }

func round3(v float64) float64 { return math.Round(v*1000) / 1000 }
