package metrics

import "github.com/evfleet/packhealth/core/factory"

// Config defines settings for metrics sinks. PrometheusAddr, when set,
// starts a dedicated /metrics server on that address.
type Config struct {
	Sinks          []factory.ModuleConfig `json:"sinks"`
	PrometheusAddr string                 `json:"prometheus_addr"`
}
