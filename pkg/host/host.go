// Package host wires configuration, logging, metrics, and the health engine
// into a runnable service host. It is the composition root: main() loads
// configuration, constructs a Host, registers probes, and calls Run.
//
// Example usage:
//
//	cfg := config.MustLoad("config.yaml", "MYAPP")
//	h, err := host.New(cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	h.RegisterProbe(probes.NewRedisProbeFromAddr("localhost:6379"), nil)
//
//	if err := h.Run(context.Background()); err != nil {
//	    log.Fatal(err)
//	}
package host

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"github.com/google/uuid"

	"github.com/castlegate-io/hostkit/pkg/config"
	"github.com/castlegate-io/hostkit/pkg/health"
	"github.com/castlegate-io/hostkit/pkg/logging"
	"github.com/castlegate-io/hostkit/pkg/metrics"
	"github.com/castlegate-io/hostkit/pkg/service"
)

// Host owns the lifecycle of a hostkit service: it resolves probe options,
// runs the startup gate, starts background evaluation, and serves the
// liveness, readiness, and metrics endpoints.
//
// Host implements service.Service, so it composes with the shutdown helpers
// like any other service.
type Host struct {
	cfg        *config.Config
	logger     *logging.Logger
	instanceID string

	registry *health.Registry
	exporter *metrics.Exporter
	cleanup  *service.CleanupHandler

	mu        sync.Mutex
	pending   []pendingProbe
	evaluator *health.Evaluator
	httpSvc   *service.HTTPService
	started   bool
}

type pendingProbe struct {
	probe    health.Probe
	override *health.Overrides
}

// Option is a functional option for configuring a Host.
type Option func(*Host)

// WithLogger replaces the logger built from configuration. Useful in tests.
func WithLogger(logger *logging.Logger) Option {
	return func(h *Host) {
		h.logger = logger
	}
}

// New creates a Host from the provided configuration. The configuration must
// already be validated, which config.Load guarantees.
func New(cfg *config.Config, opts ...Option) (*Host, error) {
	exporter, err := metrics.NewExporter(cfg.Metrics)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize metrics: %w", err)
	}

	h := &Host{
		cfg:        cfg,
		instanceID: uuid.NewString(),
		registry:   health.NewRegistry(),
		exporter:   exporter,
		cleanup:    service.NewCleanupHandler(),
	}
	for _, opt := range opts {
		opt(h)
	}

	if h.logger == nil {
		h.logger = logging.New(cfg.Log).
			WithServiceName(cfg.Service.Name).
			WithFields(map[string]interface{}{logging.InstanceID: h.instanceID})
	}

	return h, nil
}

// RegisterProbe queues a probe for registration when the host starts. The
// override, if non-nil, takes precedence over both configuration and the
// probe's compiled-in defaults. Probes registered after Start are ignored.
func (h *Host) RegisterProbe(probe health.Probe, override *health.Overrides) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.pending = append(h.pending, pendingProbe{probe: probe, override: override})
}

// AddCleanup registers a cleanup function executed during Stop, after the
// evaluator and servers have stopped. LIFO order.
func (h *Host) AddCleanup(fn service.CleanupFunc) {
	h.cleanup.Register(fn)
}

// Registry returns the health registry, for snapshot inspection.
func (h *Host) Registry() *health.Registry {
	return h.registry
}

// InstanceID returns the unique identifier of this host instance.
func (h *Host) InstanceID() string {
	return h.instanceID
}

// Logger returns the host's logger.
func (h *Host) Logger() *logging.Logger {
	return h.logger
}

// Start brings the host up: probe options are resolved and validated, the
// startup gate runs once, background evaluation begins, and the HTTP and
// metrics servers start. A configuration error or a failing blocking probe
// aborts startup and is returned as-is.
func (h *Host) Start(ctx context.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.started {
		return fmt.Errorf("host %s already started", h.cfg.Service.Name)
	}

	h.logger.Info().
		Str("version", h.cfg.Service.Version).
		Str("env", h.cfg.Service.Env).
		Msg("service starting")

	registered, err := h.resolveProbes()
	if err != nil {
		return err
	}

	h.exporter.Start()
	collector, err := metrics.NewHealthCollector(h.exporter.Registry(), h.cfg.Metrics.Namespace)
	if err != nil {
		return err
	}

	gate := health.NewGate(h.registry, registered,
		health.WithGateLogger(h.logger.WithComponent("health.gate").Raw()))
	if err := gate.Run(ctx); err != nil {
		return fmt.Errorf("startup gate failed: %w", err)
	}

	h.evaluator = health.NewEvaluator(h.registry, registered,
		health.WithLogger(h.logger.WithComponent("health.evaluator").Raw()),
		health.WithObserver(collector))
	if err := h.evaluator.Start(ctx); err != nil {
		return err
	}

	h.httpSvc = h.buildHTTPService()
	if err := h.httpSvc.Start(ctx); err != nil {
		h.evaluator.Stop()
		return err
	}

	h.started = true
	h.logger.Info().
		Int("port", h.cfg.Server.HTTPPort).
		Int("probes", len(registered)).
		Msg("service started")
	return nil
}

// resolveProbes binds configuration options into each pending probe and
// resolves its effective engine options. Every probe is registered in the
// registry before Start proceeds, so snapshots enumerate the full probe set
// even if startup later fails.
func (h *Host) resolveProbes() ([]health.RegisteredProbe, error) {
	configOverrides, err := h.cfg.Health.Overrides()
	if err != nil {
		return nil, err
	}
	resolver := health.NewResolver(h.cfg.Health.Interval, configOverrides)

	registered := make([]health.RegisteredProbe, 0, len(h.pending))
	for _, pp := range h.pending {
		name := pp.probe.Name()

		if binder, ok := pp.probe.(health.OptionsBinder); ok {
			if pc, found := h.cfg.Health.Probes[name]; found {
				if err := binder.BindOptions(pc.DecodeOptions); err != nil {
					return nil, fmt.Errorf("failed to bind options for probe %q: %w", name, err)
				}
			}
		}

		opts, err := resolver.Resolve(pp.probe, pp.override)
		if err != nil {
			return nil, err
		}

		h.registry.Register(name, opts)
		registered = append(registered, health.RegisteredProbe{Probe: pp.probe, Options: opts})
	}
	return registered, nil
}

// buildHTTPService assembles the probe endpoint server.
func (h *Host) buildHTTPService() *service.HTTPService {
	handler := health.NewHandler(h.registry)

	mux := http.NewServeMux()
	mux.HandleFunc("/health/live", handler.LivenessHandler())
	mux.HandleFunc("/health/ready", handler.ReadinessHandler())

	wrapped := logging.HTTPMiddleware(h.logger.WithComponent("http"))(mux)

	return service.NewHTTPService(
		h.cfg.Service.Name,
		fmt.Sprintf(":%d", h.cfg.Server.HTTPPort),
		wrapped,
		service.WithReadTimeout(h.cfg.Server.ReadTimeout),
		service.WithWriteTimeout(h.cfg.Server.WriteTimeout),
		service.WithShutdownTimeout(h.cfg.Server.ShutdownTimeout),
		service.WithMaxHeaderBytes(h.cfg.Server.MaxHeaderBytes),
	)
}

// Stop shuts the host down in reverse start order: background evaluation
// stops first so no further registry writes happen, then the HTTP and metrics
// servers drain, then registered cleanup functions run.
func (h *Host) Stop(ctx context.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if !h.started {
		return nil
	}

	h.evaluator.Stop()

	var firstErr error
	if err := h.httpSvc.Stop(ctx); err != nil {
		firstErr = err
	}
	if err := h.exporter.Shutdown(ctx); err != nil && firstErr == nil {
		firstErr = err
	}
	if err := h.cleanup.Execute(ctx); err != nil && firstErr == nil {
		firstErr = err
	}

	h.started = false
	h.logger.Info().Msg("service stopped")
	return firstErr
}

// Name returns the configured service name.
func (h *Host) Name() string {
	return h.cfg.Service.Name
}

// Health reports whether the host is running.
func (h *Host) Health() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if !h.started {
		return fmt.Errorf("host %s not running", h.cfg.Service.Name)
	}
	return nil
}

// Run starts the host and blocks until a shutdown signal arrives, then stops
// it gracefully. It is the one-call entrypoint for main().
func (h *Host) Run(ctx context.Context) error {
	if err := h.Start(ctx); err != nil {
		return err
	}
	service.WaitForShutdownWithConfig(ctx, service.ShutdownConfig{
		Timeout: h.cfg.Server.ShutdownTimeout,
	}, h.logger, h)
	return nil
}
