package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	LedgerWrites       *prometheus.CounterVec
	IndexWriteFailures *prometheus.CounterVec
	ActionDuration     *prometheus.HistogramVec
	FetchDuration      *prometheus.HistogramVec
	StaleFetches       prometheus.Counter
	RequestDuration    *prometheus.HistogramVec
}

var durationBuckets = []float64{0.005, 0.025, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30}

// New creates and registers all metrics on the default registry.
func New() *Metrics {
	return NewWithRegistry(prometheus.DefaultRegisterer)
}

// NewWithRegistry registers on reg. Tests pass a fresh prometheus.NewRegistry().
func NewWithRegistry(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		LedgerWrites: f.NewCounterVec(prometheus.CounterOpts{
			Name: "landregistry_ledger_writes_total",
			Help: "Ledger transactions by operation and outcome",
		}, []string{"operation", "outcome"}),
		IndexWriteFailures: f.NewCounterVec(prometheus.CounterOpts{
			Name: "landregistry_index_write_failures_total",
			Help: "Index mirror writes that failed after a successful ledger write",
		}, []string{"operation"}),
		ActionDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "landregistry_action_duration_seconds",
			Help:    "Duration of register and transfer actions including receipt wait",
			Buckets: durationBuckets,
		}, []string{"operation"}),
		FetchDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "landregistry_fetch_duration_seconds",
			Help:    "Duration of index fetches by view mode",
			Buckets: durationBuckets,
		}, []string{"mode"}),
		StaleFetches: f.NewCounter(prometheus.CounterOpts{
			Name: "landregistry_stale_fetches_discarded_total",
			Help: "Fetch results dropped because a newer view was requested",
		}),
		RequestDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "landregistry_http_request_duration_seconds",
			Help:    "HTTP request latency by route pattern",
			Buckets: durationBuckets,
		}, []string{"method", "route"}),
	}
}

// RecordLedgerWrite counts a ledger transaction outcome ("success", "duplicate", "unauthorized", ...).
func (m *Metrics) RecordLedgerWrite(operation, outcome string) {
	if m == nil {
		return
	}
	m.LedgerWrites.WithLabelValues(operation, outcome).Inc()
}

func (m *Metrics) RecordIndexWriteFailure(operation string) {
	if m == nil {
		return
	}
	m.IndexWriteFailures.WithLabelValues(operation).Inc()
}

// ObserveAction records an action duration. Call with time.Now() taken at the start.
func (m *Metrics) ObserveAction(operation string, start time.Time) {
	if m == nil {
		return
	}
	m.ActionDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
}

func (m *Metrics) ObserveFetch(mode string, start time.Time) {
	if m == nil {
		return
	}
	m.FetchDuration.WithLabelValues(mode).Observe(time.Since(start).Seconds())
}

func (m *Metrics) IncrementStaleFetches() {
	if m == nil {
		return
	}
	m.StaleFetches.Inc()
}

func (m *Metrics) ObserveRequest(method, route string, start time.Time) {
	if m == nil {
		return
	}
	m.RequestDuration.WithLabelValues(method, route).Observe(time.Since(start).Seconds())
}
