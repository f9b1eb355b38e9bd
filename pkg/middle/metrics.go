package middle

import (
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the service's Prometheus collectors. A nil *Metrics records
// nothing.
type Metrics struct {
	registry        *prometheus.Registry
	handler         http.Handler
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
	downloads       *prometheus.CounterVec
	lapisDuration   *prometheus.HistogramVec
}

func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()

	requestDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route", "status"})

	requestTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "route", "status"})

	downloads := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "seqportal_downloads_generated_total",
		Help: "Download requests generated, by organism, data type and HTTP method",
	}, []string{"organism", "data_type", "method"})

	lapisDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "seqportal_lapis_request_duration_seconds",
		Help:    "Duration of LAPIS queries",
		Buckets: prometheus.DefBuckets,
	}, []string{"endpoint", "outcome"})

	registry.MustRegister(
		requestDuration, requestTotal, downloads, lapisDuration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return &Metrics{
		registry:        registry,
		handler:         promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestDuration: requestDuration,
		requestTotal:    requestTotal,
		downloads:       downloads,
		lapisDuration:   lapisDuration,
	}
}

// Handler exposes the Prometheus HTTP handler.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

func (m *Metrics) ObserveHTTPRequest(method, route string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	labelStatus := fmt.Sprintf("%d", status)
	m.requestDuration.WithLabelValues(method, route, labelStatus).Observe(duration.Seconds())
	m.requestTotal.WithLabelValues(method, route, labelStatus).Inc()
}

func (m *Metrics) RecordDownload(organism, dataType, method string) {
	if m == nil {
		return
	}
	m.downloads.WithLabelValues(organism, dataType, method).Inc()
}

func (m *Metrics) ObserveLapis(endpoint string, err error, duration time.Duration) {
	if m == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.lapisDuration.WithLabelValues(endpoint, outcome).Observe(duration.Seconds())
}

// MetricsMiddleware records every request under its ServeMux pattern, so
// path parameters do not multiply label values.
func MetricsMiddleware(m *Metrics, mux *http.ServeMux) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			wrapped := wrapResponseWriter(w)
			route := "unmatched"
			if mux != nil {
				if _, pattern := mux.Handler(r); pattern != "" {
					route = pattern
				}
			}
			defer func() {
				m.ObserveHTTPRequest(r.Method, route, wrapped.Status(), time.Since(start))
			}()
			next.ServeHTTP(wrapped, r)
		})
	}
}
