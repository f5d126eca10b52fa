package probes

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/castlegate-io/hostkit/pkg/health"
)

// HTTPOptions configures an HTTP probe. Fields bind from the probe's
// "options" configuration section.
type HTTPOptions struct {
	// URL is the endpoint to request.
	URL string `mapstructure:"url"`

	// Method is the HTTP method to use. Defaults to GET.
	Method string `mapstructure:"method"`

	// ExpectedStatus is the status code considered healthy. Defaults to 200.
	ExpectedStatus int `mapstructure:"expected_status"`

	// DegradedAfter marks the dependency Degraded when the request succeeds
	// but takes longer than this. Zero disables latency grading.
	DegradedAfter time.Duration `mapstructure:"degraded_after"`
}

// HTTPProbe checks an HTTP endpoint. A response with the expected status code
// is Healthy, a slow response is Degraded, and any other outcome is
// Unhealthy. The probe never sets its own request timeout; the engine races
// Check against the resolved timeout.
type HTTPProbe struct {
	name    string
	client  *http.Client
	options HTTPOptions
}

// NewHTTPProbe creates an HTTP probe with the given name and endpoint URL.
// The URL may be left empty and supplied via configuration instead.
func NewHTTPProbe(name, url string) *HTTPProbe {
	return &HTTPProbe{
		name:    name,
		client:  &http.Client{},
		options: HTTPOptions{URL: url},
	}
}

// Name returns the probe's registry name.
func (p *HTTPProbe) Name() string {
	return p.name
}

// ApplyDefaults sets the probe's compiled-in option defaults. HTTP endpoints
// answer fast when they answer at all, so the timeout is short and a few
// consecutive failures are tolerated before readiness drops.
func (p *HTTPProbe) ApplyDefaults(o *health.Options) {
	o.Timeout = 5 * time.Second
	o.FailureThreshold = 3
}

// BindOptions binds the probe's configuration options section.
func (p *HTTPProbe) BindOptions(decode func(out any) error) error {
	return decode(&p.options)
}

// Check performs one request against the configured endpoint.
func (p *HTTPProbe) Check(ctx context.Context) (health.Status, error) {
	if p.options.URL == "" {
		return health.StatusUnhealthy, fmt.Errorf("http probe %q has no url configured", p.name)
	}

	method := p.options.Method
	if method == "" {
		method = http.MethodGet
	}
	expected := p.options.ExpectedStatus
	if expected == 0 {
		expected = http.StatusOK
	}

	req, err := http.NewRequestWithContext(ctx, method, p.options.URL, nil)
	if err != nil {
		return health.StatusUnhealthy, fmt.Errorf("failed to build request: %w", err)
	}

	start := time.Now()
	resp, err := p.client.Do(req)
	if err != nil {
		return health.StatusUnhealthy, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()
	elapsed := time.Since(start)

	if resp.StatusCode != expected {
		return health.StatusUnhealthy, fmt.Errorf("unexpected status %d, want %d", resp.StatusCode, expected)
	}
	if p.options.DegradedAfter > 0 && elapsed > p.options.DegradedAfter {
		return health.StatusDegraded, nil
	}
	return health.StatusHealthy, nil
}
