package pipeline

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	Steps        *prometheus.CounterVec
	StepDuration *prometheus.HistogramVec
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)
	return &Metrics{
		Steps: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "ecohubs_pipeline_sink_total",
			Help: "Submission sink outcomes by sink and status",
		}, []string{"sink", "status"}),
		StepDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "ecohubs_pipeline_sink_duration_seconds",
			Help:    "Submission sink latency",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}, []string{"sink"}),
	}
}

func (m *Metrics) RecordStep(name string, status Status, d time.Duration) {
	m.Steps.WithLabelValues(name, string(status)).Inc()
	m.StepDuration.WithLabelValues(name).Observe(d.Seconds())
}
