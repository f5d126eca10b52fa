package health

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

// TestLivenessAlwaysOK verifies liveness ignores dependency state entirely.
func TestLivenessAlwaysOK(t *testing.T) {
	registry := NewRegistry()
	registry.Register("db", defaultOptions())
	registry.UpdateAndRecompute("db", StatusUnhealthy, time.Millisecond, errors.New("down"))

	handler := NewHandler(registry)
	rec := httptest.NewRecorder()
	handler.LivenessHandler()(rec, httptest.NewRequest(http.MethodGet, "/health/live", nil))

	if rec.Code != http.StatusOK {
		t.Errorf("liveness must always return 200, got %d", rec.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON body: %v", err)
	}
	if body["status"] != "alive" {
		t.Errorf("expected status alive, got %q", body["status"])
	}
}

// TestReadinessReady verifies a passing probe set yields 200 with a full
// check listing.
func TestReadinessReady(t *testing.T) {
	registry := NewRegistry()
	registry.Register("db", defaultOptions())
	registry.UpdateAndRecompute("db", StatusHealthy, 3*time.Millisecond, nil)

	handler := NewHandler(registry)
	rec := httptest.NewRecorder()
	handler.ReadinessHandler()(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var body struct {
		Status string `json:"status"`
		Checks []struct {
			Name                string `json:"name"`
			Status              string `json:"status"`
			Passing             bool   `json:"isPassingForReadiness"`
			ConsecutiveFailures int    `json:"consecutiveFailures"`
		} `json:"checks"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON body: %v", err)
	}
	if body.Status != "ready" {
		t.Errorf("expected status ready, got %q", body.Status)
	}
	if len(body.Checks) != 1 || body.Checks[0].Name != "db" {
		t.Fatalf("expected one db check, got %+v", body.Checks)
	}
	if body.Checks[0].Status != "Healthy" || !body.Checks[0].Passing {
		t.Errorf("unexpected check payload: %+v", body.Checks[0])
	}
}

// TestReadinessNotReady verifies a failing readiness-affecting probe yields
// 503 and names the failing check.
func TestReadinessNotReady(t *testing.T) {
	registry := NewRegistry()
	registry.Register("db", defaultOptions())
	registry.UpdateAndRecompute("db", StatusUnhealthy, time.Millisecond, errors.New("connection refused"))

	handler := NewHandler(registry)
	rec := httptest.NewRecorder()
	handler.ReadinessHandler()(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}

	var body struct {
		Status string `json:"status"`
		Checks []struct {
			Error string `json:"error"`
		} `json:"checks"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON body: %v", err)
	}
	if body.Status != "not_ready" {
		t.Errorf("expected status not_ready, got %q", body.Status)
	}
	if len(body.Checks) != 1 || body.Checks[0].Error != "connection refused" {
		t.Errorf("expected the failing check's error in the body: %+v", body.Checks)
	}
}

// TestReadinessIgnoresNonAffectingProbes verifies probes with
// AffectsReadiness false are reported but never gate traffic.
func TestReadinessIgnoresNonAffectingProbes(t *testing.T) {
	registry := NewRegistry()
	opts := defaultOptions()
	opts.AffectsReadiness = false
	registry.Register("optional", opts)
	registry.UpdateAndRecompute("optional", StatusUnhealthy, time.Millisecond, errors.New("down"))

	handler := NewHandler(registry)
	rec := httptest.NewRecorder()
	handler.ReadinessHandler()(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))

	if rec.Code != http.StatusOK {
		t.Errorf("non-affecting probe must not gate readiness, got %d", rec.Code)
	}
}

// TestReadinessUnknownProbePasses verifies a never-evaluated probe does not
// block readiness.
func TestReadinessUnknownProbePasses(t *testing.T) {
	registry := NewRegistry()
	registry.Register("pending", defaultOptions())

	if !Ready(registry.Snapshots()) {
		t.Error("a never-evaluated probe must count as passing")
	}
}

// TestReadyAggregation verifies the aggregation helper over mixed snapshots.
func TestReadyAggregation(t *testing.T) {
	tests := []struct {
		name      string
		snapshots []Snapshot
		ready     bool
	}{
		{"empty set is ready", nil, true},
		{"all passing", []Snapshot{{Passing: true, AffectsReadiness: true}}, true},
		{"one failing", []Snapshot{
			{Passing: true, AffectsReadiness: true},
			{Passing: false, AffectsReadiness: true},
		}, false},
		{"failing but non-affecting", []Snapshot{{Passing: false}}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Ready(tt.snapshots); got != tt.ready {
				t.Errorf("Ready() = %v, want %v", got, tt.ready)
			}
		})
	}
}
