package health

import (
	"sync"
	"time"
)

// Registry is the thread-safe store of per-probe check state. It holds pure
// data and derivation logic: no I/O, no scheduling. All access is guarded by
// a single reader/writer lock over the whole map - per-probe state is small
// and updates are interval-bounded, so the coarse lock keeps correctness
// simple without a measurable contention cost.
type Registry struct {
	mu     sync.RWMutex
	states map[string]*checkState
}

// checkState is the mutable per-probe record. It is owned exclusively by the
// Registry; the evaluator and startup gate mutate it only through
// UpdateAndRecompute, and readers only ever see copies.
type checkState struct {
	opts Options

	status        Status
	lastCheckedAt time.Time
	duration      time.Duration
	lastErr       string

	consecutiveSuccesses int
	consecutiveFailures  int
	passing              bool
}

// Snapshot is an immutable copy of a probe's check state. It never aliases
// live registry state, so callers can hold it across evaluator ticks without
// torn reads. The resolved threshold fields are copied in at registration
// time for snapshot completeness.
type Snapshot struct {
	Name          string
	Status        Status
	LastCheckedAt time.Time // zero means the probe has never been evaluated
	Duration      time.Duration
	Error         string

	ConsecutiveSuccesses int
	ConsecutiveFailures  int

	// Passing is the hysteresis-derived readiness verdict.
	Passing bool

	FailureThreshold   int
	SuccessThreshold   int
	ReadinessThreshold ReadinessThreshold
	AffectsReadiness   bool
}

// NewRegistry creates an empty check registry.
func NewRegistry() *Registry {
	return &Registry{
		states: make(map[string]*checkState),
	}
}

// Register inserts a fresh check state for the probe with Status Unknown and
// a passing readiness verdict - a never-evaluated probe must not block
// readiness. Re-registering the same name overwrites the prior state; callers
// register each probe exactly once before evaluation begins.
func (r *Registry) Register(name string, opts Options) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.states[name] = &checkState{
		opts:    opts,
		status:  StatusUnknown,
		passing: true,
	}
}

// UpdateAndRecompute records an evaluation result for the named probe and
// recomputes its readiness verdict under the hysteresis rule. Updates for
// unregistered names are silently dropped so a racing evaluator tick can
// never corrupt the registry or create phantom state.
func (r *Registry) UpdateAndRecompute(name string, status Status, duration time.Duration, checkErr error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.states[name]
	if !ok {
		return
	}

	s.status = status
	s.lastCheckedAt = time.Now()
	s.duration = duration
	s.lastErr = ""
	if checkErr != nil {
		s.lastErr = checkErr.Error()
	}

	if s.opts.ReadinessThreshold.passes(status) {
		// Reset the failure counter before the threshold comparison so the
		// verdict never reflects a half-updated counter pair.
		s.consecutiveFailures = 0
		s.consecutiveSuccesses++
		if !s.passing && s.consecutiveSuccesses >= s.opts.SuccessThreshold {
			s.passing = true
		}
	} else {
		s.consecutiveSuccesses = 0
		s.consecutiveFailures++
		// The verdict flips the instant the threshold is reached, not one
		// tick late.
		s.passing = s.consecutiveFailures < s.opts.FailureThreshold
	}
}

// Snapshots returns an immutable copy of every registered probe's state, in
// no particular order.
func (r *Registry) Snapshots() []Snapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()

	snapshots := make([]Snapshot, 0, len(r.states))
	for name, s := range r.states {
		snapshots = append(snapshots, s.snapshot(name))
	}
	return snapshots
}

// Snapshot returns the state copy for a single probe. The second return value
// reports whether the probe is registered.
func (r *Registry) Snapshot(name string) (Snapshot, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.states[name]
	if !ok {
		return Snapshot{}, false
	}
	return s.snapshot(name), true
}

func (s *checkState) snapshot(name string) Snapshot {
	return Snapshot{
		Name:          name,
		Status:        s.status,
		LastCheckedAt: s.lastCheckedAt,
		Duration:      s.duration,
		Error:         s.lastErr,

		ConsecutiveSuccesses: s.consecutiveSuccesses,
		ConsecutiveFailures:  s.consecutiveFailures,
		Passing:              s.passing,

		FailureThreshold:   s.opts.FailureThreshold,
		SuccessThreshold:   s.opts.SuccessThreshold,
		ReadinessThreshold: s.opts.ReadinessThreshold,
		AffectsReadiness:   s.opts.AffectsReadiness,
	}
}
