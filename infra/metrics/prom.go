package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	coremetrics "github.com/evfleet/packhealth/core/metrics"
)

// PromSink records report events in Prometheus metrics.
type PromSink struct {
	reports   *prometheus.CounterVec
	anomalies *prometheus.CounterVec
	soh       *prometheus.GaugeVec
	duration  prometheus.Histogram
}

// NewPromSink registers report metrics on the default Prometheus
// registerer. The /metrics server is started separately from
// Config.PrometheusAddr.
func NewPromSink() (coremetrics.MetricsSink, error) {
	return NewPromSinkWithRegistry(prometheus.DefaultRegisterer)
}

// NewPromSinkWithRegistry registers metrics on the provided registerer.
// A nil registerer defaults to the global Prometheus registerer.
func NewPromSinkWithRegistry(reg prometheus.Registerer) (coremetrics.MetricsSink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reports := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "battery_reports_total",
		Help: "Total number of health reports generated",
	}, []string{"method", "confidence"})
	anomalies := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "battery_anomalies_total",
		Help: "Total number of anomalies detected in generated reports",
	}, []string{"type", "severity"})
	soh := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "battery_soh_percent",
		Help: "Last reported state of health per vehicle",
	}, []string{"vehicle_id"})
	duration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "battery_report_duration_seconds",
		Help:    "Time spent generating a health report",
		Buckets: prometheus.ExponentialBuckets(1e-6, 10, 8),
	})

	if err := reg.Register(reports); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			reports = are.ExistingCollector.(*prometheus.CounterVec)
		} else {
			return nil, err
		}
	}
	if err := reg.Register(anomalies); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			anomalies = are.ExistingCollector.(*prometheus.CounterVec)
		} else {
			return nil, err
		}
	}
	if err := reg.Register(soh); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			soh = are.ExistingCollector.(*prometheus.GaugeVec)
		} else {
			return nil, err
		}
	}
	if err := reg.Register(duration); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			duration = are.ExistingCollector.(prometheus.Histogram)
		} else {
			return nil, err
		}
	}

	return &PromSink{reports: reports, anomalies: anomalies, soh: soh, duration: duration}, nil
}

// RecordReport updates all report metrics for one event.
func (s *PromSink) RecordReport(ev coremetrics.ReportEvent) error {
	s.reports.WithLabelValues(string(ev.Method), string(ev.Confidence)).Inc()
	for _, a := range ev.Anomalies {
		s.anomalies.WithLabelValues(string(a.Type), string(a.Severity)).Inc()
	}
	s.soh.WithLabelValues(ev.VehicleID).Set(ev.SohPercent)
	s.duration.Observe(ev.Duration.Seconds())
	return nil
}
