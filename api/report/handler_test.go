package report

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/evfleet/packhealth/core/model"
	corereport "github.com/evfleet/packhealth/core/report"
	"github.com/evfleet/packhealth/infra/logger"
	"github.com/evfleet/packhealth/internal/eventbus"
)

const validBody = `{
	"vehicle_id": "EV-4711",
	"nominal_capacity_kwh": 75.0,
	"measured_capacity_kwh": 53.25,
	"pack_voltage": 200,
	"cell_count": 96,
	"cells": [
		{"id": 1, "voltage": 3.60, "temp_c": 30},
		{"id": 2, "voltage": 3.71, "temp_c": 46},
		{"id": 3, "voltage": 3.65, "temp_c": 62}
	],
	"soc_timeseries": [
		{"ts": "2025-05-31T06:00:00Z", "soc": 95},
		{"ts": "2025-05-31T18:00:00Z", "soc": 18},
		{"ts": "2025-06-01T02:00:00Z", "soc": 88},
		{"ts": "2025-06-01T08:00:00Z", "soc": 25}
	]
}`

func newTestHandler() http.Handler {
	now := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	composer := corereport.NewWithClock(func() time.Time { return now })
	return NewHandler(composer, nil, logger.NopLogger{})
}

func TestHandlerGeneratesReport(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/reports", strings.NewReader(validBody))
	rec := httptest.NewRecorder()
	newTestHandler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var rep model.HealthReport
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &rep))
	assert.Equal(t, "EV-4711", rep.VehicleID)
	assert.Equal(t, 71.0, rep.SOH.SohPercent)
	assert.Equal(t, model.MethodMeasuredCapacity, rep.SOH.Method)
	assert.Equal(t, 2.1, rep.Cycles.EquivalentFullCycles)
	assert.Equal(t, 1, rep.Cycles.DeepCycles)
	assert.Len(t, rep.Anomalies, 3)
	assert.Contains(t, rep.Explanation, "measured_capacity")
}

func TestHandlerPublishesEvent(t *testing.T) {
	bus := eventbus.New()
	sub := bus.Subscribe()
	composer := corereport.New()
	h := NewHandler(composer, bus, logger.NopLogger{})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/reports", strings.NewReader(validBody))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	select {
	case ev := <-sub:
		assert.Equal(t, "EV-4711", ev.VehicleID)
		assert.Equal(t, model.MethodMeasuredCapacity, ev.Method)
		assert.Len(t, ev.Anomalies, 3)
	case <-time.After(time.Second):
		t.Fatal("no event published")
	}
}

func TestHandlerRejectsMalformedJSON(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/reports", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()
	newTestHandler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	var body struct {
		Error string `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Contains(t, body.Error, "invalid JSON")
}

func TestHandlerRejectsInvalidSnapshot(t *testing.T) {
	payload := `{"vehicle_id": "EV-1", "nominal_capacity_kwh": 0, "pack_voltage": 360, "cell_count": 96}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/reports", strings.NewReader(payload))
	rec := httptest.NewRecorder()
	newTestHandler().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandlerIgnoresUnknownFields(t *testing.T) {
	payload := `{
		"vehicle_id": "EV-1",
		"nominal_capacity_kwh": 80,
		"pack_voltage": 360,
		"cell_count": 96,
		"telemetry_source": "obd",
		"cells": [{"id": 1, "voltage": 3.8, "temp_c": 30}]
	}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/reports", strings.NewReader(payload))
	rec := httptest.NewRecorder()
	newTestHandler().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestHandlerMethodNotAllowed(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/reports", nil)
	rec := httptest.NewRecorder()
	newTestHandler().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestHealthzHandler(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	NewHealthzHandler().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}
