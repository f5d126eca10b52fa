// Package metrics provides Prometheus metrics for hostkit services: an
// exporter serving the /metrics endpoint and a collector that exports the
// health engine's per-probe evaluation results as gauges.
//
// Example usage:
//
//	exporter, err := metrics.NewExporter(cfg.Metrics)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	exporter.Start()
//	defer exporter.Shutdown(context.Background())
//
//	collector, err := metrics.NewHealthCollector(exporter.Registry(), cfg.Metrics.Namespace)
//	evaluator := health.NewEvaluator(registry, probes, health.WithObserver(collector))
package metrics

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/castlegate-io/hostkit/pkg/config"
)

// Exporter owns a Prometheus registry and the HTTP server exposing it.
// A disabled exporter still carries a registry so collectors can register
// unconditionally; it just never serves it.
type Exporter struct {
	cfg      config.MetricsConfig
	registry *prometheus.Registry

	mu     sync.Mutex
	server *http.Server
}

// NewExporter creates an exporter from the provided configuration.
// Go runtime metrics (goroutines, memory, GC) and process metrics (CPU,
// memory, file descriptors) are registered up front.
func NewExporter(cfg config.MetricsConfig) (*Exporter, error) {
	registry := prometheus.NewRegistry()

	if cfg.Enabled {
		if cfg.Port == 0 {
			return nil, fmt.Errorf("metrics port is required when metrics are enabled")
		}
		registry.MustRegister(collectors.NewGoCollector())
		registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	}

	return &Exporter{
		cfg:      cfg,
		registry: registry,
	}, nil
}

// Registry returns the exporter's Prometheus registry for custom metric
// registration.
func (e *Exporter) Registry() *prometheus.Registry {
	return e.registry
}

// Start begins serving the metrics endpoint in the background. It is a no-op
// when metrics are disabled. Server errors are non-fatal: metrics are an
// observability aid, not a dependency of the service itself.
func (e *Exporter) Start() {
	if !e.cfg.Enabled {
		return
	}

	path := e.cfg.Path
	if path == "" {
		path = "/metrics"
	}

	mux := http.NewServeMux()
	mux.Handle(path, promhttp.HandlerFor(e.registry, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
	}))

	e.mu.Lock()
	e.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", e.cfg.Port),
		Handler:      mux,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
	srv := e.server
	e.mu.Unlock()

	go func() {
		_ = srv.ListenAndServe()
	}()
}

// Shutdown gracefully shuts down the metrics HTTP server.
// It waits for up to the context deadline for in-flight requests to complete.
func (e *Exporter) Shutdown(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.server == nil {
		return nil
	}
	return e.server.Shutdown(ctx)
}
