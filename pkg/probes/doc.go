// Package probes provides ready-made health probes for common service
// dependencies: HTTP endpoints, PostgreSQL, Redis, and NATS.
//
// Each probe implements health.Probe and carries compiled-in defaults suited
// to its dependency class; the engine's option resolver lets external
// configuration and programmatic overrides refine them. Probes that take
// endpoint settings from configuration also implement health.OptionsBinder,
// so the per-probe "options" section binds into the probe's typed options.
package probes
