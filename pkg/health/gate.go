package health

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"
)

// StartupError reports a probe that was configured to block startup and
// failed the one-shot startup pass. The host's startup sequence must treat it
// as fatal, never as a soft warning.
type StartupError struct {
	// Probe is the name of the failing probe.
	Probe string
	// Status is the status the evaluation yielded.
	Status Status
	// Cause is the underlying evaluation error, if any.
	Cause error
}

func (e *StartupError) Error() string {
	msg := fmt.Sprintf("probe %q %s during startup", e.Probe, e.Status)
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *StartupError) Unwrap() error {
	return e.Cause
}

type gateState int

const (
	gateNotStarted gateState = iota
	gateEvaluating
	gateCompleted
	gateFailed
)

// Gate is the one-shot startup synchronization point. It evaluates every
// registered probe exactly once, records each result in the registry, and
// applies blocking semantics: a blocking probe that fails makes the whole
// startup pass fail. Probes run independently - a blocking failure still lets
// every other probe be evaluated and recorded before the error propagates, so
// operators see the full picture in logs and snapshots rather than just the
// first failure.
type Gate struct {
	registry *Registry
	probes   []RegisteredProbe
	logger   zerolog.Logger

	mu    sync.Mutex
	state gateState
}

// GateOption configures a Gate.
type GateOption func(*Gate)

// WithGateLogger sets the logger used for startup pass log events.
func WithGateLogger(logger zerolog.Logger) GateOption {
	return func(g *Gate) {
		g.logger = logger
	}
}

// NewGate creates a startup gate over the given registered probes. The probes
// must already be registered in the registry.
func NewGate(registry *Registry, probes []RegisteredProbe, opts ...GateOption) *Gate {
	g := &Gate{
		registry: registry,
		probes:   probes,
		logger:   zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Run executes the startup pass. It can be run at most once; the gate is a
// finite sequence, not a long-lived state machine. The returned error joins
// one StartupError per failing blocking probe.
func (g *Gate) Run(ctx context.Context) error {
	g.mu.Lock()
	if g.state != gateNotStarted {
		g.mu.Unlock()
		return fmt.Errorf("startup gate has already run")
	}
	g.state = gateEvaluating
	g.mu.Unlock()

	var failures []error
	for _, rp := range g.probes {
		name := rp.Probe.Name()
		status, duration, err := runCheck(ctx, rp.Probe, rp.Options.Timeout)
		g.registry.UpdateAndRecompute(name, status, duration, err)

		passing := rp.Options.ReadinessThreshold.passes(status)

		event := g.logger.Info()
		if !passing {
			event = g.logger.Error().Err(err)
		}
		event.
			Str("probe", name).
			Stringer("status", status).
			Dur("duration", duration).
			Bool("blocking", rp.Options.BlockStartup).
			Msg("startup health check")

		if rp.Options.BlockStartup && !passing {
			failures = append(failures, &StartupError{
				Probe:  name,
				Status: status,
				Cause:  err,
			})
		}
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	if len(failures) > 0 {
		g.state = gateFailed
		return errors.Join(failures...)
	}
	g.state = gateCompleted
	return nil
}
