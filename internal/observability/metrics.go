package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	dto "github.com/prometheus/client_model/go"
)

// Metrics holds the Prometheus metrics of the API server.
type Metrics struct {
	// Registry owns these metrics. A private registry lets tests create as
	// many Metrics as they like.
	Registry *prometheus.Registry

	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	quotesTotal     *prometheus.CounterVec
}

// NewMetrics creates a dedicated registry and registers all metrics in it.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		Registry: reg,

		requestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "affordability_requests_total",
				Help: "Total HTTP requests by endpoint and status code.",
			},
			[]string{"endpoint", "status"},
		),
		requestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "affordability_request_duration_seconds",
				Help:    "Duration of HTTP requests by endpoint.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"endpoint"},
		),
		quotesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "affordability_quotes_total",
				Help: "Total quotes evaluated by principal formula.",
			},
			[]string{"principal_mode"},
		),
	}
}

// RecordRequest counts one request and observes its duration.
func (m *Metrics) RecordRequest(endpoint string, status int, d time.Duration) {
	m.requestsTotal.WithLabelValues(endpoint, strconv.Itoa(status)).Inc()
	m.requestDuration.WithLabelValues(endpoint).Observe(d.Seconds())
}

// IncrQuote counts one evaluated quote.
func (m *Metrics) IncrQuote(principalMode string) {
	m.quotesTotal.WithLabelValues(principalMode).Inc()
}

// Quotes returns the number of quotes evaluated with principalMode.
func (m *Metrics) Quotes(principalMode string) float64 {
	return getCounterValue(m.quotesTotal, principalMode)
}

// Requests returns the number of requests to endpoint that ended with status.
func (m *Metrics) Requests(endpoint string, status int) float64 {
	return getCounterValue(m.requestsTotal, endpoint, strconv.Itoa(status))
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{Registry: m.Registry})
}

// getCounterValue extracts the current value of a CounterVec child.
func getCounterValue(cv *prometheus.CounterVec, labels ...string) float64 {
	counter := cv.WithLabelValues(labels...)
	metric := &dto.Metric{}
	if err := counter.(prometheus.Metric).Write(metric); err != nil {
		return 0
	}
	if metric.Counter != nil && metric.Counter.Value != nil {
		return *metric.Counter.Value
	}
	return 0
}
