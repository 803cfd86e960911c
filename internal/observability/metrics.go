package observability

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the editor's prometheus collectors on a private registry.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	fetches          *prometheus.CounterVec
	submits          *prometheus.CounterVec
	submittedRecords prometheus.Counter
	storeRequests    *prometheus.HistogramVec
}

// NewMetrics creates and registers all collectors.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		fetches: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "procat_editor_fetches_total",
				Help: "Product list fetches by result",
			},
			[]string{"result"},
		),
		submits: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "procat_editor_submits_total",
				Help: "Title submissions by outcome",
			},
			[]string{"outcome"},
		),
		submittedRecords: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "procat_editor_submitted_records_total",
				Help: "Records accepted by the record store",
			},
		),
		storeRequests: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "procat_editor_record_store_request_seconds",
				Help:    "Record store request latency",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation", "result"},
		),
	}

	m.registry.MustRegister(
		m.fetches,
		m.submits,
		m.submittedRecords,
		m.storeRequests,
		collectors.NewGoCollector(),
	)
	return m
}

// ObserveFetch counts a product list fetch.
func (m *Metrics) ObserveFetch(result string) {
	if m == nil {
		return
	}
	m.fetches.WithLabelValues(result).Inc()
}

// ObserveSubmit counts a submission; records is added only for accepted ones.
func (m *Metrics) ObserveSubmit(outcome string, records int, accepted bool) {
	if m == nil {
		return
	}
	m.submits.WithLabelValues(outcome).Inc()
	if accepted {
		m.submittedRecords.Add(float64(records))
	}
}

// ObserveStoreRequest records one record store round trip.
func (m *Metrics) ObserveStoreRequest(operation, result string, d time.Duration) {
	if m == nil {
		return
	}
	m.storeRequests.WithLabelValues(operation, result).Observe(d.Seconds())
}

// Registry exposes the registry for tests and custom exporters.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
