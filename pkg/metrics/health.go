package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/castlegate-io/hostkit/pkg/health"
)

// HealthCollector exports health evaluation results as Prometheus gauges.
// It implements health.Observer, so wiring it into the evaluator via
// health.WithObserver is all that is needed.
//
// Exported series, all labelled by probe name:
//
//	{namespace}_health_check_status       current status code (0 unknown, 1 healthy, 2 degraded, 3 unhealthy)
//	{namespace}_health_check_duration_seconds  duration of the most recent evaluation
//	{namespace}_health_checks_total       evaluations performed, labelled by status
type HealthCollector struct {
	status   *prometheus.GaugeVec
	duration *prometheus.GaugeVec
	total    *prometheus.CounterVec
}

// NewHealthCollector creates the collector and registers its metrics with the
// given registry.
func NewHealthCollector(registry *prometheus.Registry, namespace string) (*HealthCollector, error) {
	c := &HealthCollector{
		status: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "health",
			Name:      "check_status",
			Help:      "Current status of a health check (0=unknown, 1=healthy, 2=degraded, 3=unhealthy).",
		}, []string{"probe"}),
		duration: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "health",
			Name:      "check_duration_seconds",
			Help:      "Duration of the most recent evaluation of a health check.",
		}, []string{"probe"}),
		total: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "health",
			Name:      "checks_total",
			Help:      "Total number of health check evaluations performed.",
		}, []string{"probe", "status"}),
	}

	for _, collector := range []prometheus.Collector{c.status, c.duration, c.total} {
		if err := registry.Register(collector); err != nil {
			return nil, fmt.Errorf("failed to register health metrics: %w", err)
		}
	}
	return c, nil
}

// ObserveCheck records one evaluation result. Called by the evaluator after
// every tick.
func (c *HealthCollector) ObserveCheck(name string, status health.Status, duration time.Duration) {
	c.status.WithLabelValues(name).Set(float64(status))
	c.duration.WithLabelValues(name).Set(duration.Seconds())
	c.total.WithLabelValues(name, status.String()).Inc()
}
