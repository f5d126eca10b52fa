package health

import (
	"fmt"
	"time"

	"github.com/castlegate-io/hostkit/pkg/errors"
)

// Engine-wide option defaults. They seed the options value before the probe's
// own ApplyDefaults runs, so a probe that sets nothing still gets a working
// configuration.
const (
	// DefaultInterval is the evaluation interval used when neither the probe,
	// the configuration, nor the caller supplies one.
	DefaultInterval = 30 * time.Second
	// DefaultTimeout is the hard cap on a single evaluation attempt.
	DefaultTimeout = 30 * time.Second
)

// Options are the effective evaluation options for a single probe, resolved
// once at startup from three layers: the probe's compiled-in defaults, the
// external configuration section keyed by the probe's name, and an explicit
// programmatic override supplied at registration time.
type Options struct {
	// Interval is how often the background evaluator re-evaluates the probe.
	// Zero means "use the resolver's global default".
	Interval time.Duration

	// Timeout is the hard cap on a single evaluation attempt. An evaluation
	// that exceeds it is recorded as Unhealthy with a timeout error.
	Timeout time.Duration

	// FailureThreshold is the number of consecutive failing evaluations
	// required before the readiness verdict flips to failing. Must be >= 1.
	FailureThreshold int

	// SuccessThreshold is the number of consecutive passing evaluations
	// required to flip back to passing after a failure. Must be >= 1.
	SuccessThreshold int

	// ReadinessThreshold determines whether a Degraded result counts as
	// passing.
	ReadinessThreshold ReadinessThreshold

	// AffectsReadiness controls whether the probe participates in the
	// aggregate readiness verdict served by the readiness endpoint.
	AffectsReadiness bool

	// BlockStartup makes a failing evaluation during the one-shot startup
	// pass fatal: the host aborts startup instead of advertising
	// readiness=false.
	BlockStartup bool
}

// Overrides is a partial Options value. Nil fields leave the lower layers
// untouched, so a configuration file or a caller only overrides what it
// explicitly sets. The same type serves both the configuration layer and the
// programmatic registration layer.
type Overrides struct {
	Interval           *time.Duration
	Timeout            *time.Duration
	FailureThreshold   *int
	SuccessThreshold   *int
	ReadinessThreshold *ReadinessThreshold
	AffectsReadiness   *bool
	BlockStartup       *bool
}

// apply overlays the set fields onto opts.
func (o *Overrides) apply(opts *Options) {
	if o == nil {
		return
	}
	if o.Interval != nil {
		opts.Interval = *o.Interval
	}
	if o.Timeout != nil {
		opts.Timeout = *o.Timeout
	}
	if o.FailureThreshold != nil {
		opts.FailureThreshold = *o.FailureThreshold
	}
	if o.SuccessThreshold != nil {
		opts.SuccessThreshold = *o.SuccessThreshold
	}
	if o.ReadinessThreshold != nil {
		opts.ReadinessThreshold = *o.ReadinessThreshold
	}
	if o.AffectsReadiness != nil {
		opts.AffectsReadiness = *o.AffectsReadiness
	}
	if o.BlockStartup != nil {
		opts.BlockStartup = *o.BlockStartup
	}
}

// Resolver computes the effective options for each probe by merging the
// probe's compiled-in defaults, the external configuration section keyed by
// the probe's name, and an explicit programmatic override. Precedence is
// programmatic > configuration > probe defaults > engine defaults.
type Resolver struct {
	defaultInterval time.Duration
	config          map[string]Overrides
}

// NewResolver creates a resolver. defaultInterval is the global fallback
// evaluation interval (zero selects DefaultInterval); config holds the parsed
// per-probe configuration overrides keyed by probe name and may be nil - no
// probe is required to have a configuration section.
func NewResolver(defaultInterval time.Duration, config map[string]Overrides) *Resolver {
	if defaultInterval <= 0 {
		defaultInterval = DefaultInterval
	}
	return &Resolver{
		defaultInterval: defaultInterval,
		config:          config,
	}
}

// Resolve computes the effective options for the probe, applying the optional
// programmatic override on top of the configuration and compiled-in layers.
// It returns a ConfigError if the merged result is invalid.
func (r *Resolver) Resolve(probe Probe, override *Overrides) (Options, error) {
	opts := Options{
		Timeout:            DefaultTimeout,
		FailureThreshold:   1,
		SuccessThreshold:   1,
		ReadinessThreshold: ReadinessDegraded,
		AffectsReadiness:   true,
	}

	probe.ApplyDefaults(&opts)

	if cfg, ok := r.config[probe.Name()]; ok {
		cfg.apply(&opts)
	}

	override.apply(&opts)

	if opts.Interval <= 0 {
		opts.Interval = r.defaultInterval
	}

	if err := r.validate(probe.Name(), opts); err != nil {
		return Options{}, err
	}
	return opts, nil
}

func (r *Resolver) validate(name string, opts Options) error {
	field := func(f string) string {
		return fmt.Sprintf("health.probes.%s.%s", name, f)
	}
	if opts.Timeout <= 0 {
		return errors.NewConfig(field("timeout"), "must be greater than zero")
	}
	if opts.FailureThreshold < 1 {
		return errors.NewConfig(field("failure_threshold"), "must be >= 1")
	}
	if opts.SuccessThreshold < 1 {
		return errors.NewConfig(field("success_threshold"), "must be >= 1")
	}
	return nil
}
