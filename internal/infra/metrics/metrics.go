// internal/infra/metrics/metrics.go
package metrics

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "shopcart"

// Metrics holds the shop's collectors on its own registry.
type Metrics struct {
	registry *prometheus.Registry

	Purchases     *prometheus.CounterVec
	PurchaseLines prometheus.Histogram
	Requests      *prometheus.CounterVec
	LatencyMS     *prometheus.HistogramVec
}

func New() *Metrics {
	reg := prometheus.NewRegistry()

	purchases := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "purchases_total",
		Help:      "Buy attempts by outcome.",
	}, []string{"outcome"})
	lines := prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "purchase_lines",
		Help:      "Cart lines per buy attempt.",
		Buckets:   []float64{0, 1, 2, 5, 10, 25, 50},
	})
	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "Total number of HTTP requests.",
	}, []string{"route", "method", "status"})
	latency := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "http",
		Name:      "request_duration_ms",
		Help:      "HTTP request latency in milliseconds.",
		Buckets:   []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000, 2500},
	}, []string{"route"})

	reg.MustRegister(
		purchases, lines, requests, latency,
		prometheus.NewGoCollector(),
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
	)

	return &Metrics{
		registry:      reg,
		Purchases:     purchases,
		PurchaseLines: lines,
		Requests:      requests,
		LatencyMS:     latency,
	}
}

// ObservePurchase records one Buy outcome.
func (m *Metrics) ObservePurchase(outcome string, lines int) {
	if m == nil {
		return
	}
	m.Purchases.WithLabelValues(outcome).Inc()
	m.PurchaseLines.Observe(float64(lines))
}

// ObserveRequest records one HTTP request.
func (m *Metrics) ObserveRequest(route, method string, status int, ms float64) {
	if m == nil {
		return
	}
	m.Requests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	m.LatencyMS.WithLabelValues(route).Observe(ms)
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
