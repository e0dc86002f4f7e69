package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	apireport "github.com/evfleet/packhealth/api/report"
	"github.com/evfleet/packhealth/config"
	corelogger "github.com/evfleet/packhealth/core/logger"
	coremetrics "github.com/evfleet/packhealth/core/metrics"
	corereport "github.com/evfleet/packhealth/core/report"
	"github.com/evfleet/packhealth/infra/logger"
	"github.com/evfleet/packhealth/infra/metrics"
	"github.com/evfleet/packhealth/internal/eventbus"
)

// Service wires the report pipeline behind the HTTP transport.
type Service struct {
	srv      *http.Server
	bus      *eventbus.Bus
	sink     coremetrics.MetricsSink
	log      corelogger.Logger
	promAddr string
}

// New creates a Service from the configuration.
func New(cfg *config.Config) (*Service, error) {
	logger.Configure(cfg.Logging.Level)
	logg := logger.New("service")

	sink, err := coremetrics.NewMetricsSink(cfg.Metrics.Sinks)
	if err != nil {
		return nil, fmt.Errorf("metrics sink: %w", err)
	}

	bus := eventbus.New()
	composer := corereport.New()

	mux := http.NewServeMux()
	mux.Handle("/api/v1/reports", apireport.NewHandler(composer, bus, logger.New("api")))
	mux.Handle("/healthz", apireport.NewHealthzHandler())

	srv := &http.Server{
		Addr:         cfg.API.Address,
		Handler:      mux,
		ReadTimeout:  time.Duration(cfg.API.ReadTimeoutSeconds) * time.Second,
		WriteTimeout: time.Duration(cfg.API.WriteTimeoutSeconds) * time.Second,
	}
	return &Service{
		srv:      srv,
		bus:      bus,
		sink:     sink,
		log:      logg,
		promAddr: cfg.Metrics.PrometheusAddr,
	}, nil
}

// Run starts the HTTP server and blocks until the context is cancelled
// or the listener fails.
func (s *Service) Run(ctx context.Context) error {
	metrics.StartEventCollector(ctx, s.bus, s.sink, s.log)
	if s.promAddr != "" {
		go func() {
			if err := metrics.StartPromServer(ctx, s.promAddr); err != nil {
				s.log.Errorf("prom server: %v", err)
			}
		}()
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Infof("listening on %s", s.srv.Addr)
		if err := s.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.srv.Shutdown(shutdownCtx)
}

// Close releases resources held by the service.
func (s *Service) Close() error {
	s.bus.Close()
	return nil
}
