package orchestrator

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	outcomeSuccess = "success"
	outcomeFailure = "failure"
	outcomeSkipped = "skipped"
)

type metrics struct {
	registry *prometheus.Registry
	steps    *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

func newMetrics() *metrics {
	steps := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "hts_demo",
		Name:      "steps_total",
		Help:      "Pipeline steps by outcome.",
	}, []string{"step", "outcome"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "hts_demo",
		Name:      "step_duration_seconds",
		Help:      "Wall time of each pipeline step, including ledger finality.",
		Buckets:   []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60},
	}, []string{"step"})

	registry := prometheus.NewRegistry()
	registry.MustRegister(steps, duration)

	return &metrics{
		registry: registry,
		steps:    steps,
		duration: duration,
	}
}

func (m *metrics) observe(step string, outcome string, elapsed time.Duration) {
	m.steps.WithLabelValues(step, outcome).Inc()
	if outcome != outcomeSkipped {
		m.duration.WithLabelValues(step).Observe(elapsed.Seconds())
	}
}
