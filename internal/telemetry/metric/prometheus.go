package metric

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "snipkit"

// Edit session outcomes.
const (
	OutcomeSaved     = "saved"
	OutcomeUnchanged = "unchanged"
	OutcomeDiscarded = "discarded"
)

// Registry holds all application metrics.
type Registry struct {
	registry *prometheus.Registry

	// Store metrics
	StoreReads        prometheus.Counter
	StoreWrites       prometheus.Counter
	StoreErrors       *prometheus.CounterVec
	StoreSnippets     prometheus.Gauge
	OperationDuration *prometheus.HistogramVec

	// Usage metrics
	SnippetCopies prometheus.Counter
	EditSessions  *prometheus.CounterVec
}

var (
	globalRegistry *Registry
	globalOnce     sync.Once
)

// NewRegistry creates a new metrics registry with all metrics registered.
func NewRegistry() *Registry {
	reg := prometheus.NewRegistry()

	r := &Registry{
		registry: reg,

		StoreReads: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "store",
			Name:      "reads_total",
			Help:      "Total number of full document reads",
		}),
		StoreWrites: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "store",
			Name:      "writes_total",
			Help:      "Total number of full document writes",
		}),
		StoreErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "store",
			Name:      "errors_total",
			Help:      "Total number of failed store operations by operation",
		}, []string{"op"}),
		StoreSnippets: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "store",
			Name:      "snippets",
			Help:      "Number of snippets seen in the last document read or write",
		}),
		OperationDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "store",
			Name:      "operation_duration_seconds",
			Help:      "Store operation latency in seconds",
			Buckets:   []float64{.0005, .001, .0025, .005, .01, .025, .05, .1, .25, .5, 1},
		}, []string{"op"}),

		SnippetCopies: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "snippet",
			Name:      "copies_total",
			Help:      "Total number of files copied to the clipboard",
		}),
		EditSessions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "edit_sessions_total",
			Help:      "Total number of finished edit sessions by outcome",
		}, []string{"outcome"}),
	}

	reg.MustRegister(
		r.StoreReads,
		r.StoreWrites,
		r.StoreErrors,
		r.StoreSnippets,
		r.OperationDuration,
		r.SnippetCopies,
		r.EditSessions,
	)

	return r
}

// Global returns the process-wide registry.
func Global() *Registry {
	globalOnce.Do(func() {
		globalRegistry = NewRegistry()
	})
	return globalRegistry
}

// Register adds an extra collector to the registry.
func (r *Registry) Register(c prometheus.Collector) error {
	return r.registry.Register(c)
}

// Gatherer exposes the underlying registry for export and tests.
func (r *Registry) Gatherer() prometheus.Gatherer {
	return r.registry
}

// WriteTextfile writes all metrics to path in the Prometheus text format.
// The file is replaced atomically.
func (r *Registry) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, r.registry)
}

// ============================================================================
// Store metrics helpers
// ============================================================================

// RecordRead records a full document read of n snippets.
func (r *Registry) RecordRead(n int) {
	r.StoreReads.Inc()
	r.StoreSnippets.Set(float64(n))
}

// RecordWrite records a full document write of n snippets.
func (r *Registry) RecordWrite(n int) {
	r.StoreWrites.Inc()
	r.StoreSnippets.Set(float64(n))
}

// RecordError records a failed store operation.
func (r *Registry) RecordError(op string) {
	r.StoreErrors.WithLabelValues(op).Inc()
}

// ObserveOperation records the duration of a store operation.
func (r *Registry) ObserveOperation(op string, seconds float64) {
	r.OperationDuration.WithLabelValues(op).Observe(seconds)
}

// ============================================================================
// Usage metrics helpers
// ============================================================================

// IncCopies increments the clipboard copy counter.
func (r *Registry) IncCopies() {
	r.SnippetCopies.Inc()
}

// RecordEditSession records how an edit session ended.
func (r *Registry) RecordEditSession(outcome string) {
	r.EditSessions.WithLabelValues(outcome).Inc()
}
