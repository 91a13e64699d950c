package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type ServerMetrics struct {
	Requests      *prometheus.CounterVec
	LatencyMS     *prometheus.HistogramVec
	OrdersCreated prometheus.Counter
	Transitions   *prometheus.CounterVec
	RateLimited   prometheus.Counter

	registry *prometheus.Registry
}

// NewServerMetrics registers the collectors on a private registry so that
// several servers can live in one process (tests).
func NewServerMetrics(service string) *ServerMetrics {
	reg := prometheus.NewRegistry()
	m := &ServerMetrics{
		Requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "farmconnect",
			Subsystem: service,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests.",
		}, []string{"handler", "status"}),
		LatencyMS: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "farmconnect",
			Subsystem: service,
			Name:      "http_request_duration_ms",
			Help:      "HTTP request latency in milliseconds.",
			Buckets:   []float64{5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000},
		}, []string{"handler"}),
		OrdersCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "farmconnect",
			Subsystem: service,
			Name:      "orders_created_total",
			Help:      "Orders created by successful checkouts.",
		}),
		Transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "farmconnect",
			Subsystem: service,
			Name:      "order_status_transitions_total",
			Help:      "Applied order status transitions.",
		}, []string{"to"}),
		RateLimited: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "farmconnect",
			Subsystem: service,
			Name:      "rate_limited_total",
			Help:      "Requests rejected by the rate limiter.",
		}),
		registry: reg,
	}
	reg.MustRegister(m.Requests, m.LatencyMS, m.OrdersCreated, m.Transitions, m.RateLimited,
		collectors.NewGoCollector())
	return m
}

func (m *ServerMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
