package probes

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/castlegate-io/hostkit/pkg/health"
)

// RedisOptions configures a Redis probe. Fields bind from the probe's
// "options" configuration section.
type RedisOptions struct {
	// Addr is the host:port used when the probe owns its client.
	// Ignored when a client was supplied at construction.
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`

	// SlowAfter marks the cache Degraded when PING succeeds but takes longer
	// than this. Zero disables latency grading.
	SlowAfter time.Duration `mapstructure:"slow_after"`
}

// RedisProbe checks Redis connectivity using the PING command. A fast PONG is
// Healthy, a slow one is Degraded, and a failure is Unhealthy. A cache is
// usually a soft dependency, so the compiled-in defaults do not block startup.
type RedisProbe struct {
	name    string
	options RedisOptions

	mu     sync.Mutex
	client redis.UniversalClient
}

// NewRedisProbe creates a probe over an existing client.
func NewRedisProbe(client redis.UniversalClient) *RedisProbe {
	return &RedisProbe{name: "redis", client: client}
}

// NewRedisProbeFromAddr creates a probe that builds its own client from the
// configured address on first check.
func NewRedisProbeFromAddr(addr string) *RedisProbe {
	return &RedisProbe{name: "redis", options: RedisOptions{Addr: addr}}
}

// Name returns the probe's registry name.
func (p *RedisProbe) Name() string {
	return p.name
}

// ApplyDefaults sets the probe's compiled-in option defaults.
func (p *RedisProbe) ApplyDefaults(o *health.Options) {
	o.Timeout = 2 * time.Second
	o.FailureThreshold = 3
}

// BindOptions binds the probe's configuration options section.
func (p *RedisProbe) BindOptions(decode func(out any) error) error {
	return decode(&p.options)
}

// Check sends PING and grades the round-trip latency.
func (p *RedisProbe) Check(ctx context.Context) (health.Status, error) {
	client, err := p.acquireClient()
	if err != nil {
		return health.StatusUnhealthy, err
	}

	start := time.Now()
	if err := client.Ping(ctx).Err(); err != nil {
		return health.StatusUnhealthy, fmt.Errorf("ping failed: %w", err)
	}
	elapsed := time.Since(start)

	if p.options.SlowAfter > 0 && elapsed > p.options.SlowAfter {
		return health.StatusDegraded, nil
	}
	return health.StatusHealthy, nil
}

func (p *RedisProbe) acquireClient() (redis.UniversalClient, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.client != nil {
		return p.client, nil
	}
	if p.options.Addr == "" {
		return nil, fmt.Errorf("redis probe has no client and no addr configured")
	}
	p.client = redis.NewClient(&redis.Options{
		Addr:     p.options.Addr,
		Password: p.options.Password,
		DB:       p.options.DB,
	})
	return p.client, nil
}
