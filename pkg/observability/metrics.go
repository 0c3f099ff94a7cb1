package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Generation modes used as the mode label
const (
	ModeSequential = "sequential"
	ModeParallel   = "parallel"
)

// Artifact kinds used as the kind label
const (
	KindNewFile   = "file"
	KindInsertion = "insertion"
)

// Metrics holds the Prometheus metrics of generation runs.
// A nil *Metrics records nothing.
type Metrics struct {
	MessagesTotal  prometheus.Counter
	ArtifactsTotal *prometheus.CounterVec
	ErrorsTotal    *prometheus.CounterVec
	RunDuration    *prometheus.HistogramVec

	registry *prometheus.Registry
}

// NewMetrics creates and registers the generation metrics
func NewMetrics(registry *prometheus.Registry) *Metrics {
	m := &Metrics{
		MessagesTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "spine_mc_messages_total",
				Help: "Total number of message types processed",
			},
		),
		ArtifactsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "spine_mc_artifacts_total",
				Help: "Total number of artifacts emitted",
			},
			[]string{"task", "kind"},
		),
		ErrorsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "spine_mc_errors_total",
				Help: "Total number of generation errors",
			},
			[]string{"task"},
		),
		RunDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "spine_mc_run_duration_seconds",
				Help:    "Generation pass duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"mode"},
		),
		registry: registry,
	}

	if registry != nil {
		registry.MustRegister(
			m.MessagesTotal,
			m.ArtifactsTotal,
			m.ErrorsTotal,
			m.RunDuration,
		)
	}
	return m
}

// AddMessages counts processed message types
func (m *Metrics) AddMessages(n int) {
	if m == nil {
		return
	}
	m.MessagesTotal.Add(float64(n))
}

// AddArtifact counts an artifact emitted by a task
func (m *Metrics) AddArtifact(task string, newFile bool) {
	if m == nil {
		return
	}
	kind := KindInsertion
	if newFile {
		kind = KindNewFile
	}
	m.ArtifactsTotal.WithLabelValues(task, kind).Inc()
}

// RecordError counts a failed task
func (m *Metrics) RecordError(task string) {
	if m == nil {
		return
	}
	m.ErrorsTotal.WithLabelValues(task).Inc()
}

// ObserveRun records the duration of a generation pass
func (m *Metrics) ObserveRun(mode string, d time.Duration) {
	if m == nil {
		return
	}
	m.RunDuration.WithLabelValues(mode).Observe(d.Seconds())
}

// WriteTextfile writes the registered metrics in the node exporter textfile format
func (m *Metrics) WriteTextfile(path string) error {
	if m == nil || m.registry == nil {
		return nil
	}
	return prometheus.WriteToTextfile(path, m.registry)
}
