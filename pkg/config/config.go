// Package config provides configuration management for hostkit-based
// services. It supports loading configuration from YAML files, JSON files,
// and environment variables with validation and default value application.
//
// Example usage:
//
//	cfg, err := config.Load("config.yaml", "MYAPP")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	// Or panic on error:
//	cfg := config.MustLoad("config.yaml", "MYAPP")
package config

import (
	"fmt"
	"time"

	"github.com/mitchellh/mapstructure"

	"github.com/castlegate-io/hostkit/pkg/errors"
	"github.com/castlegate-io/hostkit/pkg/health"
)

// Config represents the complete configuration for a hostkit-based service.
type Config struct {
	Service ServiceConfig `mapstructure:"service"`
	Server  ServerConfig  `mapstructure:"server"`
	Log     LogConfig     `mapstructure:"log"`
	Metrics MetricsConfig `mapstructure:"metrics"`
	Health  HealthConfig  `mapstructure:"health"`
}

// ServiceConfig contains general service information.
type ServiceConfig struct {
	Name    string `mapstructure:"name"`
	Version string `mapstructure:"version"`
	Env     string `mapstructure:"env"` // development, staging, production
}

// ServerConfig contains the HTTP server configuration for the readiness and
// liveness endpoints.
type ServerConfig struct {
	HTTPPort        int           `mapstructure:"http_port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	MaxHeaderBytes  int           `mapstructure:"max_header_bytes"`
}

// LogConfig contains structured logging configuration.
type LogConfig struct {
	Level  string `mapstructure:"level"`  // debug, info, warn, error
	Format string `mapstructure:"format"` // json, console
	Output string `mapstructure:"output"` // stdout, stderr
}

// MetricsConfig contains Prometheus metrics configuration.
type MetricsConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	Port      int    `mapstructure:"port"`
	Path      string `mapstructure:"path"`
	Namespace string `mapstructure:"namespace"` // metric prefix
}

// HealthConfig configures the health engine.
type HealthConfig struct {
	// Interval is the global default evaluation interval for probes that do
	// not set their own.
	Interval time.Duration `mapstructure:"interval"`

	// Probes holds the per-probe configuration sections, keyed by probe name.
	Probes map[string]ProbeConfig `mapstructure:"probes"`
}

// ProbeConfig is the per-probe configuration section. Pointer fields
// distinguish "absent" from zero, so only keys actually present in the
// configuration override the probe's compiled-in defaults.
type ProbeConfig struct {
	Interval           *time.Duration `mapstructure:"interval"`
	Timeout            *time.Duration `mapstructure:"timeout"`
	FailureThreshold   *int           `mapstructure:"failure_threshold"`
	SuccessThreshold   *int           `mapstructure:"success_threshold"`
	ReadinessThreshold *string        `mapstructure:"readiness_threshold"`

	// Options is the probe-specific sub-section, bound into the probe's own
	// typed options struct via DecodeOptions.
	Options map[string]any `mapstructure:"options"`
}

// DecodeOptions binds the probe-specific "options" sub-section into out,
// which must be a pointer to the probe's options struct. Duration strings
// ("250ms", "5s") decode into time.Duration fields. A missing sub-section
// leaves out untouched.
func (p ProbeConfig) DecodeOptions(out any) error {
	if p.Options == nil {
		return nil
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		DecodeHook:       mapstructure.StringToTimeDurationHookFunc(),
		WeaklyTypedInput: true,
	})
	if err != nil {
		return err
	}
	return decoder.Decode(p.Options)
}

// Overrides converts the parsed health section into engine overrides keyed by
// probe name, ready to hand to health.NewResolver. A malformed
// readiness_threshold surfaces here as a field-level ConfigError.
func (h HealthConfig) Overrides() (map[string]health.Overrides, error) {
	overrides := make(map[string]health.Overrides, len(h.Probes))
	for name, probe := range h.Probes {
		o := health.Overrides{
			Interval:         probe.Interval,
			Timeout:          probe.Timeout,
			FailureThreshold: probe.FailureThreshold,
			SuccessThreshold: probe.SuccessThreshold,
		}
		if probe.ReadinessThreshold != nil {
			threshold, err := health.ParseReadinessThreshold(*probe.ReadinessThreshold)
			if err != nil {
				field := fmt.Sprintf("health.probes.%s.readiness_threshold", name)
				return nil, errors.NewConfigWithCause(field, "is invalid", err)
			}
			o.ReadinessThreshold = &threshold
		}
		overrides[name] = o
	}
	return overrides, nil
}
