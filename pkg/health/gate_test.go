package health

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

// TestGateHealthyBlockingProbe verifies a healthy blocking probe lets
// startup proceed.
func TestGateHealthyBlockingProbe(t *testing.T) {
	registry := NewRegistry()
	opts := defaultOptions()
	opts.BlockStartup = true

	probe := NewProbeFunc("db", func(ctx context.Context) (Status, error) {
		return StatusHealthy, nil
	})
	registry.Register("db", opts)

	gate := NewGate(registry, []RegisteredProbe{{Probe: probe, Options: opts}})
	if err := gate.Run(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	s, _ := registry.Snapshot("db")
	if s.Status != StatusHealthy {
		t.Errorf("startup result must be recorded: got %v", s.Status)
	}
}

// TestGateUnhealthyBlockingProbe verifies a failing blocking probe aborts
// startup with an error naming the probe and its status.
func TestGateUnhealthyBlockingProbe(t *testing.T) {
	registry := NewRegistry()
	opts := defaultOptions()
	opts.BlockStartup = true

	probe := NewProbeFunc("db", func(ctx context.Context) (Status, error) {
		return StatusUnhealthy, errors.New("connection refused")
	})
	registry.Register("db", opts)

	gate := NewGate(registry, []RegisteredProbe{{Probe: probe, Options: opts}})
	err := gate.Run(context.Background())
	if err == nil {
		t.Fatal("expected startup failure")
	}

	var startupErr *StartupError
	if !errors.As(err, &startupErr) {
		t.Fatalf("expected a StartupError, got %T", err)
	}
	if startupErr.Probe != "db" {
		t.Errorf("expected probe name db, got %q", startupErr.Probe)
	}
	if !strings.Contains(err.Error(), "Unhealthy during startup") {
		t.Errorf("error must name the status and phase: %q", err.Error())
	}
	if !strings.Contains(err.Error(), "connection refused") {
		t.Errorf("error must carry the cause: %q", err.Error())
	}
}

// TestGateNonBlockingFailureIsSoft verifies a failing non-blocking probe is
// recorded but does not abort startup.
func TestGateNonBlockingFailureIsSoft(t *testing.T) {
	registry := NewRegistry()
	opts := defaultOptions()

	probe := NewProbeFunc("cache", func(ctx context.Context) (Status, error) {
		return StatusUnhealthy, errors.New("down")
	})
	registry.Register("cache", opts)

	gate := NewGate(registry, []RegisteredProbe{{Probe: probe, Options: opts}})
	if err := gate.Run(context.Background()); err != nil {
		t.Fatalf("non-blocking failure must not abort startup: %v", err)
	}

	s, _ := registry.Snapshot("cache")
	if s.Status != StatusUnhealthy {
		t.Errorf("failure must still be recorded: got %v", s.Status)
	}
	if s.Passing {
		t.Error("failure threshold 1 must drop the verdict")
	}
}

// TestGateEvaluatesAllProbes verifies every probe runs even when an early
// blocking probe fails, so the startup log shows the full picture.
func TestGateEvaluatesAllProbes(t *testing.T) {
	registry := NewRegistry()
	blockOpts := defaultOptions()
	blockOpts.BlockStartup = true

	failing := NewProbeFunc("db", func(ctx context.Context) (Status, error) {
		return StatusUnhealthy, errors.New("down")
	})
	var laterEvaluated atomic.Bool
	later := NewProbeFunc("cache", func(ctx context.Context) (Status, error) {
		laterEvaluated.Store(true)
		return StatusHealthy, nil
	})
	registry.Register("db", blockOpts)
	registry.Register("cache", defaultOptions())

	gate := NewGate(registry, []RegisteredProbe{
		{Probe: failing, Options: blockOpts},
		{Probe: later, Options: defaultOptions()},
	})
	if err := gate.Run(context.Background()); err == nil {
		t.Fatal("expected startup failure")
	}

	if !laterEvaluated.Load() {
		t.Error("probes after a blocking failure must still be evaluated")
	}
	s, _ := registry.Snapshot("cache")
	if s.Status != StatusHealthy {
		t.Errorf("later probe's result must be recorded: got %v", s.Status)
	}
}

// TestGateJoinsMultipleFailures verifies all blocking failures are reported,
// not just the first.
func TestGateJoinsMultipleFailures(t *testing.T) {
	registry := NewRegistry()
	opts := defaultOptions()
	opts.BlockStartup = true

	a := NewProbeFunc("a", func(ctx context.Context) (Status, error) {
		return StatusUnhealthy, errors.New("a down")
	})
	b := NewProbeFunc("b", func(ctx context.Context) (Status, error) {
		return StatusUnhealthy, errors.New("b down")
	})
	registry.Register("a", opts)
	registry.Register("b", opts)

	gate := NewGate(registry, []RegisteredProbe{
		{Probe: a, Options: opts},
		{Probe: b, Options: opts},
	})
	err := gate.Run(context.Background())
	if err == nil {
		t.Fatal("expected startup failure")
	}
	if !strings.Contains(err.Error(), "a down") || !strings.Contains(err.Error(), "b down") {
		t.Errorf("expected both failures in the joined error: %q", err.Error())
	}
}

// TestGateDegradedUnderStrictThreshold verifies a Degraded result fails a
// blocking probe configured to require Healthy.
func TestGateDegradedUnderStrictThreshold(t *testing.T) {
	registry := NewRegistry()
	opts := defaultOptions()
	opts.BlockStartup = true
	opts.ReadinessThreshold = ReadinessHealthy

	probe := NewProbeFunc("db", func(ctx context.Context) (Status, error) {
		return StatusDegraded, nil
	})
	registry.Register("db", opts)

	gate := NewGate(registry, []RegisteredProbe{{Probe: probe, Options: opts}})
	err := gate.Run(context.Background())
	if err == nil {
		t.Fatal("degraded must fail a blocking probe under ReadinessHealthy")
	}
	if !strings.Contains(err.Error(), "Degraded during startup") {
		t.Errorf("error must name the Degraded status: %q", err.Error())
	}
}

// TestGateRunsOnce verifies the gate refuses a second run.
func TestGateRunsOnce(t *testing.T) {
	registry := NewRegistry()
	gate := NewGate(registry, nil)

	if err := gate.Run(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := gate.Run(context.Background()); err == nil {
		t.Error("second Run must fail")
	}
}

// TestGateTimeoutIsFatalForBlockingProbe verifies a blocking probe that
// times out aborts startup quickly.
func TestGateTimeoutIsFatalForBlockingProbe(t *testing.T) {
	registry := NewRegistry()
	opts := defaultOptions()
	opts.BlockStartup = true
	opts.Timeout = 50 * time.Millisecond

	probe := NewProbeFunc("db", func(ctx context.Context) (Status, error) {
		<-ctx.Done()
		return StatusUnhealthy, ctx.Err()
	})
	registry.Register("db", opts)

	gate := NewGate(registry, []RegisteredProbe{{Probe: probe, Options: opts}})
	start := time.Now()
	err := gate.Run(context.Background())
	if err == nil {
		t.Fatal("expected startup failure")
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Errorf("gate took %v, should fail shortly after the 50ms timeout", elapsed)
	}
	if !strings.Contains(err.Error(), "timed out") {
		t.Errorf("expected a timeout cause: %q", err.Error())
	}
}
