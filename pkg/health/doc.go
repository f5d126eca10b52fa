// Package health implements the host's health-check evaluation and
// readiness-gating engine: pluggable probes are evaluated on independent
// periodic schedules, per-probe pass/fail history is tracked with
// configurable hysteresis, and the derived readiness verdict feeds the
// orchestration liveness/readiness endpoints.
//
// Example usage:
//
//	registry := health.NewRegistry()
//	resolver := health.NewResolver(30*time.Second, configOverrides)
//
//	probe := probes.NewRedisProbe(client)
//	opts, err := resolver.Resolve(probe, nil)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	registry.Register(probe.Name(), opts)
//	registered := []health.RegisteredProbe{{Probe: probe, Options: opts}}
//
//	// One-shot startup pass: a blocking probe that fails aborts startup.
//	gate := health.NewGate(registry, registered)
//	if err := gate.Run(ctx); err != nil {
//	    log.Fatal(err)
//	}
//
//	// Background evaluation for the lifetime of the process.
//	evaluator := health.NewEvaluator(registry, registered)
//	evaluator.Start(ctx)
//	defer evaluator.Stop()
//
//	handler := health.NewHandler(registry)
//	http.HandleFunc("/health/live", handler.LivenessHandler())
//	http.HandleFunc("/health/ready", handler.ReadinessHandler())
//
// A probe's effective options resolve from three layers with defined
// precedence: the probe's compiled-in defaults (lowest), the external
// configuration section keyed by the probe's name, and an explicit
// programmatic override supplied at registration (highest).
//
// Hysteresis: the readiness verdict flips to failing only after
// FailureThreshold consecutive failing evaluations, and back to passing only
// after SuccessThreshold consecutive passing ones, so a single lucky or
// unlucky tick never flaps the readiness signal.
//
// The engine never retries a failed evaluation - the next scheduled tick is
// the implicit retry - and it never computes more than the per-probe verdict;
// aggregation across probes belongs to the readiness endpoint.
package health
