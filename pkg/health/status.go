package health

import (
	"fmt"
	"strings"
)

// Status represents the tri-state outcome of a probe evaluation, plus the
// Unknown state a probe holds before its first evaluation completes.
type Status int

const (
	// StatusUnknown means the probe has not been evaluated yet.
	StatusUnknown Status = iota
	// StatusHealthy means the probe's dependency is fully functional.
	StatusHealthy
	// StatusDegraded means the dependency is functional but impaired
	// (slow responses, reconnecting, close to resource limits).
	StatusDegraded
	// StatusUnhealthy means the dependency is not functional.
	StatusUnhealthy
)

// String returns the string representation of the status.
func (s Status) String() string {
	switch s {
	case StatusUnknown:
		return "Unknown"
	case StatusHealthy:
		return "Healthy"
	case StatusDegraded:
		return "Degraded"
	case StatusUnhealthy:
		return "Unhealthy"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// MarshalText implements encoding.TextMarshaler so statuses render as strings
// in JSON snapshots.
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// ReadinessThreshold determines which statuses count as passing when the
// registry recomputes a probe's readiness verdict.
type ReadinessThreshold int

const (
	// ReadinessDegraded treats both Healthy and Degraded results as passing.
	// This is the default: a degraded dependency can usually still serve.
	ReadinessDegraded ReadinessThreshold = iota
	// ReadinessHealthy requires a fully Healthy result; Degraded counts as a
	// failure for hysteresis purposes.
	ReadinessHealthy
)

// String returns the string representation of the threshold.
func (t ReadinessThreshold) String() string {
	if t == ReadinessHealthy {
		return "Healthy"
	}
	return "Degraded"
}

// MarshalText implements encoding.TextMarshaler.
func (t ReadinessThreshold) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// ParseReadinessThreshold parses "Degraded" or "Healthy" (case-insensitive).
func ParseReadinessThreshold(s string) (ReadinessThreshold, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "degraded":
		return ReadinessDegraded, nil
	case "healthy":
		return ReadinessHealthy, nil
	default:
		return ReadinessDegraded, fmt.Errorf("unknown readiness threshold %q (expected \"Degraded\" or \"Healthy\")", s)
	}
}

// passes reports whether a status counts as passing under the threshold.
// Healthy always passes, Degraded passes only under ReadinessDegraded, and
// Unknown or Unhealthy never pass.
func (t ReadinessThreshold) passes(s Status) bool {
	switch s {
	case StatusHealthy:
		return true
	case StatusDegraded:
		return t == ReadinessDegraded
	default:
		return false
	}
}
