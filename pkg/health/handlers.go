package health

import (
	"encoding/json"
	"net/http"
	"time"
)

// Handler serves the orchestration-facing liveness and readiness endpoints
// from registry snapshots. It is a stateless read-only facade: it never
// mutates probe state, and the aggregate readiness verdict is computed here,
// in the caller of the engine, so the aggregation policy stays outside the
// engine's responsibility.
type Handler struct {
	registry *Registry
}

// NewHandler creates a handler over the registry.
func NewHandler(registry *Registry) *Handler {
	return &Handler{registry: registry}
}

// Snapshots returns a point-in-time copy of every probe's state. It delegates
// to the registry and is safe to call concurrently with evaluation.
func (h *Handler) Snapshots() []Snapshot {
	return h.registry.Snapshots()
}

// Ready reports the aggregate readiness verdict: every snapshot with
// AffectsReadiness set must be passing. Probes that do not affect readiness
// are reported but never gate traffic.
func Ready(snapshots []Snapshot) bool {
	for _, s := range snapshots {
		if s.AffectsReadiness && !s.Passing {
			return false
		}
	}
	return true
}

// checkJSON is the wire representation of a single probe snapshot.
type checkJSON struct {
	Name                 string             `json:"name"`
	Status               Status             `json:"status"`
	LastCheckedAt        *time.Time         `json:"lastCheckedAt,omitempty"`
	DurationMS           int64              `json:"durationMs"`
	Error                string             `json:"error,omitempty"`
	AffectsReadiness     bool               `json:"affectsReadiness"`
	ReadinessThreshold   ReadinessThreshold `json:"readinessThreshold"`
	ConsecutiveFailures  int                `json:"consecutiveFailures"`
	ConsecutiveSuccesses int                `json:"consecutiveSuccesses"`
	Passing              bool               `json:"isPassingForReadiness"`
}

type readinessJSON struct {
	Status string      `json:"status"` // "ready" or "not_ready"
	Checks []checkJSON `json:"checks"`
}

// LivenessHandler returns an HTTP handler that responds to liveness probes.
// It always returns 200 OK with no dependency checks: liveness only asserts
// the process is running and responsive. Kubernetes restarts the pod if this
// fails, so failing dependencies must never leak into it.
func (h *Handler) LivenessHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(map[string]string{"status": "alive"})
	}
}

// ReadinessHandler returns an HTTP handler that responds to readiness probes.
// It returns 200 OK when every readiness-affecting probe is passing and
// 503 Service Unavailable otherwise, with a JSON body enumerating every
// probe's snapshot so operators can see exactly which dependency is failing
// and how deep into its failure threshold it is.
func (h *Handler) ReadinessHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		snapshots := h.registry.Snapshots()

		body := readinessJSON{
			Status: "ready",
			Checks: make([]checkJSON, 0, len(snapshots)),
		}
		if !Ready(snapshots) {
			body.Status = "not_ready"
		}
		for _, s := range snapshots {
			body.Checks = append(body.Checks, toCheckJSON(s))
		}

		w.Header().Set("Content-Type", "application/json")
		if body.Status == "ready" {
			w.WriteHeader(http.StatusOK)
		} else {
			w.WriteHeader(http.StatusServiceUnavailable)
		}
		_ = json.NewEncoder(w).Encode(body)
	}
}

func toCheckJSON(s Snapshot) checkJSON {
	c := checkJSON{
		Name:                 s.Name,
		Status:               s.Status,
		DurationMS:           s.Duration.Milliseconds(),
		Error:                s.Error,
		AffectsReadiness:     s.AffectsReadiness,
		ReadinessThreshold:   s.ReadinessThreshold,
		ConsecutiveFailures:  s.ConsecutiveFailures,
		ConsecutiveSuccesses: s.ConsecutiveSuccesses,
		Passing:              s.Passing,
	}
	if !s.LastCheckedAt.IsZero() {
		t := s.LastCheckedAt
		c.LastCheckedAt = &t
	}
	return c
}
