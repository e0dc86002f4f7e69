package report

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"

	corelogger "github.com/evfleet/packhealth/core/logger"
	coremetrics "github.com/evfleet/packhealth/core/metrics"
	"github.com/evfleet/packhealth/core/model"
	corereport "github.com/evfleet/packhealth/core/report"
	"github.com/evfleet/packhealth/core/soh"
	"github.com/evfleet/packhealth/internal/eventbus"
)

type errorBody struct {
	Error string `json:"error"`
}

// NewHandler returns the HTTP handler for POST /api/v1/reports. It decodes
// and validates a diagnostic snapshot, generates the health report and
// returns it as JSON. The bus is optional; when set, every generated
// report is published for the metrics collector.
func NewHandler(composer *corereport.Composer, bus eventbus.EventBus, log corelogger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reqID := uuid.NewString()
		w.Header().Set("X-Request-ID", reqID)
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}
		var snap model.DiagnosticSnapshot
		if err := json.NewDecoder(r.Body).Decode(&snap); err != nil {
			log.Debugw("rejected malformed body", map[string]any{"request_id": reqID, "error": err.Error()})
			writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
			return
		}
		if err := snap.Validate(); err != nil {
			log.Debugw("rejected invalid snapshot", map[string]any{"request_id": reqID, "error": err.Error()})
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		start := time.Now()
		rep, err := composer.Generate(snap)
		if err != nil {
			status := http.StatusInternalServerError
			if errors.Is(err, soh.ErrNonPositiveNominalCapacity) {
				status = http.StatusBadRequest
			}
			log.Errorf("report generation failed (request %s): %v", reqID, err)
			writeError(w, status, err.Error())
			return
		}
		elapsed := time.Since(start)
		if bus != nil {
			bus.Publish(newReportEvent(rep, elapsed))
		}
		log.Infof("report generated for %s in %s (request %s)", rep.VehicleID, elapsed, reqID)

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(rep); err != nil {
			log.Errorf("encode report: %v", err)
		}
	})
}

// NewHealthzHandler returns a trivial liveness handler.
func NewHealthzHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
}

func newReportEvent(rep model.HealthReport, d time.Duration) coremetrics.ReportEvent {
	return coremetrics.ReportEvent{
		VehicleID:            rep.VehicleID,
		Method:               rep.SOH.Method,
		Confidence:           rep.SOH.Confidence,
		SohPercent:           rep.SOH.SohPercent,
		EquivalentFullCycles: rep.Cycles.EquivalentFullCycles,
		DeepCycles:           rep.Cycles.DeepCycles,
		Anomalies:            rep.Anomalies,
		Duration:             d,
		Time:                 rep.GeneratedAt,
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(errorBody{Error: msg})
}
