package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the Prometheus instruments of one server. Each Metrics owns
// its registry, so several servers (or tests) never collide on registration.
type Metrics struct {
	registry            *prometheus.Registry
	handler             http.Handler
	requestsTotal       *prometheus.CounterVec
	activeRequests      prometheus.Gauge
	calculationDuration *prometheus.HistogramVec
	overflowsTotal      *prometheus.CounterVec
}

// NewMetrics creates and registers the quickfib_* instruments together with
// the Go runtime and process collectors.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		requestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "quickfib_requests_total",
			Help: "HTTP requests by endpoint and status code.",
		}, []string{"endpoint", "status"}),
		activeRequests: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "quickfib_active_requests",
			Help: "Requests currently being served.",
		}),
		calculationDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "quickfib_calculation_duration_seconds",
			Help:    "Time spent evaluating Fibonacci numbers, by backend.",
			Buckets: prometheus.ExponentialBuckets(1e-6, 10, 9),
		}, []string{"type"}),
		overflowsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "quickfib_overflows_total",
			Help: "Results that wrapped around or faulted, by backend.",
		}, []string{"type"}),
	}
	reg.MustRegister(
		m.requestsTotal,
		m.activeRequests,
		m.calculationDuration,
		m.overflowsTotal,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m.handler = promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg})
	return m
}

func (m *Metrics) IncrementActiveRequests() { m.activeRequests.Inc() }
func (m *Metrics) DecrementActiveRequests() { m.activeRequests.Dec() }

// RecordRequest counts one finished request.
func (m *Metrics) RecordRequest(endpoint string, status int) {
	m.requestsTotal.WithLabelValues(endpoint, strconv.Itoa(status)).Inc()
}

// ObserveCalculation records the duration of one evaluation.
func (m *Metrics) ObserveCalculation(backend string, d time.Duration, overflowed bool) {
	m.calculationDuration.WithLabelValues(backend).Observe(d.Seconds())
	if overflowed {
		m.overflowsTotal.WithLabelValues(backend).Inc()
	}
}

// WritePrometheus serves the text exposition format.
func (m *Metrics) WritePrometheus(w http.ResponseWriter, r *http.Request) {
	m.handler.ServeHTTP(w, r)
}
