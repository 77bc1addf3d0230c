package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Pipeline path labels
const (
	PathStructured  = "structured"
	PathSynthesized = "synthesized"
	PathUnavailable = "unavailable"
)

// Metrics holds the pipeline's Prometheus collectors
type Metrics struct {
	pipelineRuns   *prometheus.CounterVec
	fetchDuration  *prometheus.HistogramVec
	staleDiscarded prometheus.Counter
}

// NewMetrics creates and registers the pipeline metrics
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		pipelineRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "recall",
			Subsystem: "graph",
			Name:      "pipeline_runs_total",
			Help:      "Pipeline runs by data path taken",
		}, []string{"path"}),
		fetchDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "recall",
			Subsystem: "memorystore",
			Name:      "fetch_duration_seconds",
			Help:      "Latency of memory store fetches by endpoint",
			Buckets:   prometheus.DefBuckets,
		}, []string{"endpoint"}),
		staleDiscarded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "recall",
			Subsystem: "graph",
			Name:      "stale_completions_discarded_total",
			Help:      "Pipeline completions discarded because their scope was superseded",
		}),
	}

	reg.MustRegister(m.pipelineRuns, m.fetchDuration, m.staleDiscarded)
	return m
}

// NewNopMetrics creates metrics backed by a private registry, for tests
func NewNopMetrics() *Metrics {
	return NewMetrics(prometheus.NewRegistry())
}

// PipelineRun records one pipeline run on the given data path
func (m *Metrics) PipelineRun(path string) {
	m.pipelineRuns.WithLabelValues(path).Inc()
}

// ObserveFetch records the latency of one memory store call
func (m *Metrics) ObserveFetch(endpoint string, d time.Duration) {
	m.fetchDuration.WithLabelValues(endpoint).Observe(d.Seconds())
}

// StaleDiscarded records a completion dropped by the scope guard
func (m *Metrics) StaleDiscarded() {
	m.staleDiscarded.Inc()
}
