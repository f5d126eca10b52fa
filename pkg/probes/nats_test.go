package probes

import (
	"context"
	"testing"

	"github.com/nats-io/nats.go"

	"github.com/castlegate-io/hostkit/pkg/health"
)

type fakeConn struct {
	status nats.Status
}

func (f *fakeConn) Status() nats.Status { return f.status }

// TestNATSProbeStates verifies the connection-state grading table.
func TestNATSProbeStates(t *testing.T) {
	tests := []struct {
		name    string
		conn    nats.Status
		status  health.Status
		wantErr bool
	}{
		{"connected is healthy", nats.CONNECTED, health.StatusHealthy, false},
		{"reconnecting is degraded", nats.RECONNECTING, health.StatusDegraded, true},
		{"closed is unhealthy", nats.CLOSED, health.StatusUnhealthy, true},
		{"disconnected is unhealthy", nats.DISCONNECTED, health.StatusUnhealthy, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			probe := NewNATSProbe(&fakeConn{status: tt.conn})
			status, err := probe.Check(context.Background())
			if status != tt.status {
				t.Errorf("expected %v, got %v", tt.status, status)
			}
			if (err != nil) != tt.wantErr {
				t.Errorf("unexpected error state: %v", err)
			}
		})
	}
}

// TestNATSProbeApplyDefaults verifies the tight local-inspection schedule.
func TestNATSProbeApplyDefaults(t *testing.T) {
	var opts health.Options
	NewNATSProbe(&fakeConn{}).ApplyDefaults(&opts)

	if opts.Interval == 0 || opts.Timeout == 0 {
		t.Error("expected compiled-in interval and timeout")
	}
	if opts.BlockStartup {
		t.Error("the broker must not block startup by default")
	}
}
