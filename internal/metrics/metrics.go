// Package metrics holds the Prometheus collectors of the service.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics groups the collectors. A nil *Metrics records nothing.
type Metrics struct {
	registry       *prometheus.Registry
	recalcs        *prometheus.CounterVec
	recalcDuration prometheus.Histogram
	importedRows   *prometheus.CounterVec
	httpRequests   *prometheus.CounterVec
	httpLatency    *prometheus.HistogramVec
}

// New registers the collectors on a fresh registry, alongside the Go and
// process collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	f := promauto.With(reg)

	return &Metrics{
		registry: reg,
		recalcs: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "caterbase",
			Name:      "estimate_recalculations_total",
			Help:      "Estimate total recalculations by trigger.",
		}, []string{"trigger"}),
		recalcDuration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: "caterbase",
			Name:      "estimate_recalculation_seconds",
			Help:      "Time spent loading, pricing and storing estimate totals.",
			Buckets:   prometheus.DefBuckets,
		}),
		importedRows: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "caterbase",
			Name:      "catalog_import_rows_total",
			Help:      "Catalog rows imported from CSV by kind.",
		}, []string{"kind"}),
		httpRequests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "caterbase",
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route and status code.",
		}, []string{"method", "route", "code"}),
		httpLatency: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "caterbase",
			Name:      "http_request_seconds",
			Help:      "HTTP request latency by route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route"}),
	}
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// ObserveRecalc records one recalculation started at start.
func (m *Metrics) ObserveRecalc(trigger string, start time.Time) {
	if m == nil {
		return
	}
	m.recalcs.WithLabelValues(trigger).Inc()
	m.recalcDuration.Observe(time.Since(start).Seconds())
}

// AddImported counts imported catalog rows of one kind.
func (m *Metrics) AddImported(kind string, n int) {
	if m == nil || n == 0 {
		return
	}
	m.importedRows.WithLabelValues(kind).Add(float64(n))
}

// ObserveRequest records one finished HTTP request.
func (m *Metrics) ObserveRequest(method, route string, code int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(code)).Inc()
	m.httpLatency.WithLabelValues(route).Observe(elapsed.Seconds())
}
