package logicanalyzer

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"

	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/immunIT/owfmodules.logic.logic-analyzer/internal/adapters/csvsink"
	"github.com/immunIT/owfmodules.logic.logic-analyzer/internal/adapters/journal"
	"github.com/immunIT/owfmodules.logic.logic-analyzer/internal/adapters/observability"
	"github.com/immunIT/owfmodules.logic.logic-analyzer/internal/adapters/octowire"
	"github.com/immunIT/owfmodules.logic.logic-analyzer/internal/app/capture"
	"github.com/immunIT/owfmodules.logic.logic-analyzer/internal/ports"
)

// Option customizes the dependencies used by Runtime.
type Option func(*overrides)

type overrides struct {
	driver        ports.Driver
	encoder       ports.Encoder
	journal       ports.Journal
	observability ports.Observability
}

// WithDriver injects a custom acquisition driver (simulators, replay files,
// other hardware).
func WithDriver(d ports.Driver) Option {
	return func(o *overrides) {
		o.driver = d
	}
}

// WithEncoder swaps the CSV sink for a caller-provided output format.
func WithEncoder(e ports.Encoder) Option {
	return func(o *overrides) {
		o.encoder = e
	}
}

// WithJournal lets callers bring their own capture journal backend.
func WithJournal(j ports.Journal) Option {
	return func(o *overrides) {
		o.journal = j
	}
}

// WithObservability plugs in a custom diagnostics/metrics backend.
func WithObservability(obs ports.Observability) Option {
	return func(o *overrides) {
		o.observability = obs
	}
}

// Runtime wires the validate → acquire → encode pipeline behind a small
// lifecycle so the capture module can be embedded in any Go host.
type Runtime struct {
	cfg        *Config
	orch       *capture.Orchestrator
	obs        ports.Observability
	driver     ports.Driver
	db         *sql.DB
	metricsSrv *http.Server
}

// NewRuntime bootstraps the default adapters: serial Octowire driver, CSV
// sink, Prometheus observability, and — when configured — the Postgres
// capture journal. Options override any of them.
func NewRuntime(cfg *Config, opts ...Option) (*Runtime, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}

	var ov overrides
	for _, opt := range opts {
		if opt != nil {
			opt(&ov)
		}
	}

	obs := ov.observability
	if obs == nil {
		obs = observability.NewPromObs(nil)
	}

	driver := ov.driver
	if driver == nil {
		d, err := octowire.Open(cfg.Serial)
		if err != nil {
			return nil, err
		}
		driver = d
	}

	encoder := ov.encoder
	if encoder == nil {
		encoder = csvsink.New()
	}

	var (
		db   *sql.DB
		jrnl = ov.journal
	)
	if jrnl == nil && cfg.Journal.ConnString != "" {
		var err error
		db, err = sql.Open("postgres", cfg.Journal.ConnString)
		if err != nil {
			return nil, fmt.Errorf("open journal database: %w", err)
		}
		jrnl = journal.New(db, cfg.Journal.Table)
	}

	limits := capture.Limits{
		MaxSamples:   cfg.Device.MaxSamples,
		AllowedRates: cfg.Device.AllowedRates,
	}

	return &Runtime{
		cfg:    cfg,
		orch:   capture.NewOrchestrator(limits, driver, encoder, jrnl, obs),
		obs:    obs,
		driver: driver,
		db:     db,
	}, nil
}

// Capture runs one request to completion and returns the terminal state.
// Failures are reported through the diagnostic channel, never returned.
func (r *Runtime) Capture(ctx context.Context, req CaptureRequest) State {
	return r.orch.Run(ctx, req)
}

// DefaultRequest builds a request from the configured capture defaults.
func (r *Runtime) DefaultRequest() CaptureRequest {
	return r.cfg.Request()
}

// StartMetrics exposes /metrics and /healthz on the configured address.
// Useful during long trigger waits to watch the capture from outside.
func (r *Runtime) StartMetrics() {
	if r.metricsSrv != nil {
		return
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.metricsSrv = &http.Server{
		Addr:    r.cfg.Metrics.Addr,
		Handler: mux,
	}

	go func() {
		if err := r.metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("metrics server exited: %v", err)
		}
	}()
}

// Close releases the serial port, the journal database, and the metrics
// server.
func (r *Runtime) Close(ctx context.Context) error {
	var errs []error

	if r.metricsSrv != nil {
		if err := r.metricsSrv.Shutdown(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errs = append(errs, err)
		}
	}

	if closer, ok := r.driver.(io.Closer); ok {
		if err := closer.Close(); err != nil {
			errs = append(errs, err)
		}
	}

	if r.db != nil {
		if err := r.db.Close(); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}
