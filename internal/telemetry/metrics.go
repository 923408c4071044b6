package telemetry

import (
	"strconv"
	"time"

	"github.com/born-ml/vgg/internal/nn"
	"github.com/born-ml/vgg/internal/tensor"
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "vgg"

// Metrics records feature stack activity as Prometheus metrics.
// It implements nn.Observer.
type Metrics struct {
	StageExecutions *prometheus.CounterVec
	StageDuration   *prometheus.HistogramVec
	ForwardDuration prometheus.Histogram
	ForwardDepth    prometheus.Gauge
}

var _ nn.Observer = (*Metrics)(nil)

// NewMetrics creates the metrics and registers them on reg.
// A nil reg leaves them unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		StageExecutions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "stage_executions_total",
			Help:      "Number of executed feature stack stages",
		}, []string{"stage"}),
		StageDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "stage_duration_seconds",
			Help:      "Time spent in one stage, superblock and pooling",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 2, 14),
		}, []string{"stage"}),
		ForwardDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "forward_duration_seconds",
			Help:      "Time spent in one full forward pass",
			Buckets:   prometheus.ExponentialBuckets(0.001, 2, 14),
		}),
		ForwardDepth: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "forward_depth",
			Help:      "Number of stages executed by the last forward pass",
		}),
	}

	if reg != nil {
		reg.MustRegister(m.StageExecutions, m.StageDuration, m.ForwardDuration, m.ForwardDepth)
	}
	return m
}

// ObserveStage implements nn.Observer.
func (m *Metrics) ObserveStage(stage int, _, _ tensor.Shape, d time.Duration) {
	label := strconv.Itoa(stage)
	m.StageExecutions.WithLabelValues(label).Inc()
	m.StageDuration.WithLabelValues(label).Observe(d.Seconds())
}

// ObserveForward implements nn.Observer.
func (m *Metrics) ObserveForward(stages int, d time.Duration) {
	m.ForwardDuration.Observe(d.Seconds())
	m.ForwardDepth.Set(float64(stages))
}
