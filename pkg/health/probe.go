package health

import (
	"context"
)

// Probe is the contract every health probe must satisfy. Implementations are
// plain values registered explicitly with the host; the engine never discovers
// probes through ambient state.
type Probe interface {
	// Name returns the stable, unique name of the probe. The name keys the
	// probe's configuration section and its entry in readiness snapshots.
	Name() string

	// ApplyDefaults lets the probe supply its compiled-in option defaults.
	// It is invoked on a fresh Options value carrying the engine-wide
	// defaults; configuration and programmatic overrides are layered on top
	// of whatever the probe sets here.
	ApplyDefaults(opts *Options)

	// Check evaluates the probe's dependency once. The supplied context
	// carries the probe's configured timeout; implementations must respect
	// it. Returning a non-nil error with a zero (Unknown) status records the
	// probe as Unhealthy. The engine never retries a failed check - the next
	// scheduled tick is the implicit retry.
	Check(ctx context.Context) (Status, error)
}

// OptionsBinder is implemented by probes that accept typed options from the
// per-probe "options" configuration sub-section. The host invokes BindOptions
// before the startup gate runs, passing a decode function that unmarshals the
// sub-section into the probe's own options struct.
type OptionsBinder interface {
	BindOptions(decode func(out any) error) error
}

// RegisteredProbe pairs a probe with its resolved effective options. The
// startup gate and background evaluator operate on these pairs.
type RegisteredProbe struct {
	Probe   Probe
	Options Options
}

// ProbeFunc adapts an ordinary function to the Probe interface. It is mainly
// useful for inline probes and tests.
type ProbeFunc struct {
	name     string
	defaults func(*Options)
	check    func(context.Context) (Status, error)
}

// NewProbeFunc creates a probe from a name and a check function.
func NewProbeFunc(name string, check func(ctx context.Context) (Status, error)) *ProbeFunc {
	return &ProbeFunc{name: name, check: check}
}

// WithDefaults sets the probe's compiled-in default options callback.
func (p *ProbeFunc) WithDefaults(fn func(*Options)) *ProbeFunc {
	p.defaults = fn
	return p
}

// Name returns the probe name.
func (p *ProbeFunc) Name() string {
	return p.name
}

// ApplyDefaults invokes the defaults callback, if any.
func (p *ProbeFunc) ApplyDefaults(opts *Options) {
	if p.defaults != nil {
		p.defaults(opts)
	}
}

// Check invokes the wrapped function.
func (p *ProbeFunc) Check(ctx context.Context) (Status, error) {
	return p.check(ctx)
}
