package config

import (
	"time"

	"github.com/castlegate-io/hostkit/pkg/errors"
	"github.com/castlegate-io/hostkit/pkg/health"
)

// Validate validates the configuration and returns an error if any required
// fields are missing or have invalid values. Health threshold values are
// validated again, per probe, when the engine resolves effective options;
// this pass catches what can be caught before any probe is registered.
func Validate(cfg *Config) error {
	if cfg.Server.HTTPPort <= 0 || cfg.Server.HTTPPort > 65535 {
		return errors.NewConfig("server.http_port", "must be between 1 and 65535")
	}

	switch cfg.Log.Level {
	case "", "debug", "info", "warn", "error":
	default:
		return errors.NewConfig("log.level", "must be one of debug, info, warn, error")
	}
	switch cfg.Log.Format {
	case "", "json", "console":
	default:
		return errors.NewConfig("log.format", "must be json or console")
	}

	if cfg.Metrics.Enabled && cfg.Metrics.Port == 0 {
		return errors.NewConfig("metrics.port", "is required when metrics are enabled")
	}

	if cfg.Health.Interval < 0 {
		return errors.NewConfig("health.interval", "must not be negative")
	}
	for name, probe := range cfg.Health.Probes {
		if err := validateProbe(name, probe); err != nil {
			return err
		}
	}

	return nil
}

func validateProbe(name string, probe ProbeConfig) error {
	field := func(key string) string {
		return "health.probes." + name + "." + key
	}

	if probe.Interval != nil && *probe.Interval <= 0 {
		return errors.NewConfig(field("interval"), "must be positive")
	}
	if probe.Timeout != nil && *probe.Timeout <= 0 {
		return errors.NewConfig(field("timeout"), "must be positive")
	}
	if probe.FailureThreshold != nil && *probe.FailureThreshold < 1 {
		return errors.NewConfig(field("failure_threshold"), "must be at least 1")
	}
	if probe.SuccessThreshold != nil && *probe.SuccessThreshold < 1 {
		return errors.NewConfig(field("success_threshold"), "must be at least 1")
	}
	if probe.ReadinessThreshold != nil {
		if _, err := health.ParseReadinessThreshold(*probe.ReadinessThreshold); err != nil {
			return errors.NewConfigWithCause(field("readiness_threshold"), "is invalid", err)
		}
	}
	return nil
}

// applyDefaults applies default values to the configuration where values are not set.
func applyDefaults(cfg *Config) {
	// Service defaults
	if cfg.Service.Env == "" {
		cfg.Service.Env = "development"
	}

	// Server defaults
	if cfg.Server.HTTPPort == 0 {
		cfg.Server.HTTPPort = 8080
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = 30 * time.Second
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = 30 * time.Second
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = 15 * time.Second
	}
	if cfg.Server.MaxHeaderBytes == 0 {
		cfg.Server.MaxHeaderBytes = 1 << 20 // 1 MB
	}

	// Log defaults
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "json"
	}
	if cfg.Log.Output == "" {
		cfg.Log.Output = "stdout"
	}

	// Metrics defaults
	if cfg.Metrics.Enabled {
		if cfg.Metrics.Port == 0 {
			cfg.Metrics.Port = 9090
		}
		if cfg.Metrics.Path == "" {
			cfg.Metrics.Path = "/metrics"
		}
	}

	// Health defaults: the engine's option resolver owns per-probe defaults;
	// only the global evaluation interval is defaulted here.
	if cfg.Health.Interval == 0 {
		cfg.Health.Interval = 30 * time.Second
	}
}
