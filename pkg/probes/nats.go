package probes

import (
	"context"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/castlegate-io/hostkit/pkg/health"
)

// NATSConn is the subset of nats.Conn the probe needs. It exists so tests
// can substitute a fake connection.
type NATSConn interface {
	Status() nats.Status
}

// NATSProbe checks the state of a NATS connection. The client library manages
// reconnection itself, so the probe only inspects the connection state:
// CONNECTED is Healthy, RECONNECTING is Degraded since buffered publishes
// still work, and everything else is Unhealthy.
type NATSProbe struct {
	name string
	conn NATSConn
}

// NewNATSProbe creates a probe over an established connection.
func NewNATSProbe(conn NATSConn) *NATSProbe {
	return &NATSProbe{name: "nats", conn: conn}
}

// Name returns the probe's registry name.
func (p *NATSProbe) Name() string {
	return p.name
}

// ApplyDefaults sets the probe's compiled-in option defaults. The state
// inspection is local and cheap, so it runs on a tight schedule.
func (p *NATSProbe) ApplyDefaults(o *health.Options) {
	o.Interval = 10 * time.Second
	o.Timeout = time.Second
	o.FailureThreshold = 3
}

// Check inspects the connection state.
func (p *NATSProbe) Check(ctx context.Context) (health.Status, error) {
	switch status := p.conn.Status(); status {
	case nats.CONNECTED:
		return health.StatusHealthy, nil
	case nats.RECONNECTING:
		return health.StatusDegraded, fmt.Errorf("connection is reconnecting")
	default:
		return health.StatusUnhealthy, fmt.Errorf("connection is %s", status)
	}
}
