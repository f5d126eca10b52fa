package health

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Observer receives every recorded evaluation result. The metrics package
// provides an implementation that exports per-probe gauges; a nil observer
// disables the hook.
type Observer interface {
	ObserveCheck(name string, status Status, duration time.Duration)
}

// Evaluator is the long-running engine: one independent periodic schedule per
// registered probe. Each tick races the probe's Check against its timeout and
// feeds the result into the registry, so one probe's failure never halts,
// delays, or corrupts another probe's schedule. Within a single probe's
// schedule evaluations are strictly sequential; across probes there is no
// ordering guarantee and none is required.
type Evaluator struct {
	registry *Registry
	probes   []RegisteredProbe
	logger   zerolog.Logger
	observer Observer

	mu      sync.Mutex
	cancel  context.CancelFunc
	started bool
	wg      sync.WaitGroup
}

// EvaluatorOption configures an Evaluator.
type EvaluatorOption func(*Evaluator)

// WithLogger sets the logger used for per-evaluation structured log events.
func WithLogger(logger zerolog.Logger) EvaluatorOption {
	return func(e *Evaluator) {
		e.logger = logger
	}
}

// WithObserver sets the observer notified of every recorded result.
func WithObserver(observer Observer) EvaluatorOption {
	return func(e *Evaluator) {
		e.observer = observer
	}
}

// NewEvaluator creates an evaluator for the given registered probes. The
// probes must already be registered in the registry.
func NewEvaluator(registry *Registry, probes []RegisteredProbe, opts ...EvaluatorOption) *Evaluator {
	e := &Evaluator{
		registry: registry,
		probes:   probes,
		logger:   zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Start launches one evaluation loop per probe. Each loop performs an eager
// first evaluation immediately, so a freshly started process has a
// non-Unknown readiness signal as soon as possible, then ticks on the probe's
// resolved interval. Cancelling ctx stops the scheduling of new ticks; an
// in-flight evaluation is not aborted beyond its own timeout.
func (e *Evaluator) Start(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.started {
		return fmt.Errorf("health evaluator already started")
	}
	e.started = true

	ctx, e.cancel = context.WithCancel(ctx)
	for _, rp := range e.probes {
		e.wg.Add(1)
		go e.loop(ctx, rp)
	}
	return nil
}

// Stop cancels scheduling and waits for every loop to finish its in-flight
// evaluation. After Stop returns the evaluator performs no further registry
// writes.
func (e *Evaluator) Stop() {
	e.mu.Lock()
	cancel := e.cancel
	e.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	e.wg.Wait()
}

func (e *Evaluator) loop(ctx context.Context, rp RegisteredProbe) {
	defer e.wg.Done()

	interval := rp.Options.Interval
	if interval <= 0 {
		interval = DefaultInterval
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	e.evaluate(ctx, rp)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			e.evaluate(ctx, rp)
		}
	}
}

// evaluate runs one tick and records the result. Every outcome - success,
// timeout, or probe error - goes through UpdateAndRecompute.
func (e *Evaluator) evaluate(ctx context.Context, rp RegisteredProbe) {
	name := rp.Probe.Name()
	status, duration, err := runCheck(ctx, rp.Probe, rp.Options.Timeout)

	e.registry.UpdateAndRecompute(name, status, duration, err)
	if e.observer != nil {
		e.observer.ObserveCheck(name, status, duration)
	}

	event := e.logger.Debug()
	if err != nil {
		event = e.logger.Warn().Err(err)
	}
	event.
		Str("probe", name).
		Stringer("status", status).
		Dur("duration", duration).
		Msg("health check evaluated")
}
