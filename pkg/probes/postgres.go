package probes

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/castlegate-io/hostkit/pkg/health"
	"github.com/castlegate-io/hostkit/pkg/retry"
)

// PostgresPool is the subset of pgxpool.Pool the probe needs. It exists so
// tests can substitute a fake pool.
type PostgresPool interface {
	Ping(ctx context.Context) error
	Stat() *pgxpool.Stat
}

// PostgresOptions configures a Postgres probe. Fields bind from the probe's
// "options" configuration section.
type PostgresOptions struct {
	// DSN is the connection string used when the probe owns its pool.
	// Ignored when a pool was supplied at construction.
	DSN string `mapstructure:"dsn"`
}

// PostgresProbe checks PostgreSQL connectivity via the connection pool.
// A successful ping is Healthy; a ping that succeeds while the pool is
// exhausted is Degraded, since the database answers but the service cannot
// get a connection for real work. A failed ping is Unhealthy.
type PostgresProbe struct {
	name    string
	options PostgresOptions

	mu   sync.Mutex
	pool PostgresPool
}

// NewPostgresProbe creates a probe over an existing pool.
func NewPostgresProbe(pool PostgresPool) *PostgresProbe {
	return &PostgresProbe{name: "postgres", pool: pool}
}

// NewPostgresProbeFromDSN creates a probe that establishes its own pool
// lazily on first check. Connection establishment is retried with backoff
// within the check's timeout; once established the pool is reused.
func NewPostgresProbeFromDSN(dsn string) *PostgresProbe {
	return &PostgresProbe{name: "postgres", options: PostgresOptions{DSN: dsn}}
}

// Name returns the probe's registry name.
func (p *PostgresProbe) Name() string {
	return p.name
}

// ApplyDefaults sets the probe's compiled-in option defaults. The database is
// assumed to be a hard dependency: startup blocks on it and a failed check
// drops readiness quickly.
func (p *PostgresProbe) ApplyDefaults(o *health.Options) {
	o.Timeout = 5 * time.Second
	o.FailureThreshold = 3
	o.SuccessThreshold = 2
	o.BlockStartup = true
}

// BindOptions binds the probe's configuration options section.
func (p *PostgresProbe) BindOptions(decode func(out any) error) error {
	return decode(&p.options)
}

// Check pings the database and inspects pool saturation.
func (p *PostgresProbe) Check(ctx context.Context) (health.Status, error) {
	pool, err := p.acquirePool(ctx)
	if err != nil {
		return health.StatusUnhealthy, fmt.Errorf("failed to connect: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		return health.StatusUnhealthy, fmt.Errorf("ping failed: %w", err)
	}

	if stat := pool.Stat(); stat != nil {
		if stat.AcquireCount() > 0 && stat.IdleConns() == 0 && stat.TotalConns() == stat.MaxConns() {
			return health.StatusDegraded, fmt.Errorf("connection pool exhausted: %d/%d connections in use",
				stat.TotalConns(), stat.MaxConns())
		}
	}
	return health.StatusHealthy, nil
}

// acquirePool returns the existing pool or establishes one from the DSN.
func (p *PostgresProbe) acquirePool(ctx context.Context) (PostgresPool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.pool != nil {
		return p.pool, nil
	}
	if p.options.DSN == "" {
		return nil, fmt.Errorf("postgres probe has no pool and no dsn configured")
	}

	pool, err := retry.DoWithData(ctx, retry.Config{
		MaxAttempts:  3,
		InitialDelay: 100 * time.Millisecond,
		Policy:       retry.PolicyAll,
	}, func() (*pgxpool.Pool, error) {
		return pgxpool.New(ctx, p.options.DSN)
	})
	if err != nil {
		return nil, err
	}
	p.pool = pool
	return pool, nil
}
