package metrics

import (
	// Go Internal Packages
	"net/http"
	"strconv"
	"time"

	// External Packages
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/twmb/franz-go/plugin/kprom"
)

// Metrics holds every collector the process exposes on /metrics. The kafka
// client metrics share the same registry, so they appear once a producer is
// built. All methods are safe to call on a nil *Metrics.
type Metrics struct {
	Registry *prometheus.Registry
	Kafka    *kprom.Metrics

	httpRequests   *prometheus.CounterVec
	httpDuration   *prometheus.HistogramVec
	payments       *prometheus.CounterVec
	reconciliation *prometheus.CounterVec
}

func New(namespace string) *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		Registry: reg,
		Kafka:    kprom.NewMetrics(namespace, kprom.Registry(reg)),
		httpRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total HTTP requests by route, method and status code",
			},
			[]string{"route", "method", "code"},
		),
		httpDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request latency by route",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"route"},
		),
		payments: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "payments_initiated_total",
				Help:      "Top-up submissions by outcome",
			},
			[]string{"outcome"},
		),
		reconciliation: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "reconciliation_lookups_total",
				Help:      "Status lookups made by the reconciler, by outcome",
			},
			[]string{"outcome"},
		),
	}
}

// Handler serves the registry in the prometheus text format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})
}

func (m *Metrics) ObserveRequest(route, method string, code int, took time.Duration) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(route, method, strconv.Itoa(code)).Inc()
	m.httpDuration.WithLabelValues(route).Observe(took.Seconds())
}

// ObservePayment counts a top-up outcome, the error kind name on failure
func (m *Metrics) ObservePayment(outcome string) {
	if m == nil {
		return
	}
	m.payments.WithLabelValues(outcome).Inc()
}

// ObserveLookups adds one pass worth of reconciler lookups
func (m *Metrics) ObserveLookups(updated, unchanged, failed int) {
	if m == nil {
		return
	}
	m.reconciliation.WithLabelValues("updated").Add(float64(updated))
	m.reconciliation.WithLabelValues("unchanged").Add(float64(unchanged))
	m.reconciliation.WithLabelValues("failed").Add(float64(failed))
}
