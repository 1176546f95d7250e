// Package metrics holds the Prometheus collectors for the donation service.
// All methods are safe on a nil *Metrics so components can run uninstrumented.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "donation"

type Metrics struct {
	httpRequests       *prometheus.CounterVec
	httpLatency        *prometheus.HistogramVec
	initiations        *prometheus.CounterVec
	callbacks          *prometheus.CounterVec
	deliveries         *prometheus.CounterVec
	activeConnections  prometheus.Gauge
	expiredTransaction prometheus.Counter
}

// New registers every collector on reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		httpRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests.",
			},
			[]string{"method", "path", "status"},
		),
		httpLatency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "Duration of HTTP requests in seconds.",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),
		initiations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "initiations_total",
				Help:      "Donation initiations by result.",
			},
			[]string{"result"},
		),
		callbacks: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "callbacks_total",
				Help:      "Gateway callbacks by reconciliation outcome.",
			},
			[]string{"outcome"},
		),
		deliveries: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "realtime_deliveries_total",
				Help:      "Real-time message deliveries by result.",
			},
			[]string{"result"},
		),
		activeConnections: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "realtime_active_connections",
			Help:      "Currently registered real-time connections.",
		}),
		expiredTransaction: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "expired_transactions_total",
			Help:      "Pending transactions failed by the expiry sweep.",
		}),
	}

	reg.MustRegister(
		m.httpRequests,
		m.httpLatency,
		m.initiations,
		m.callbacks,
		m.deliveries,
		m.activeConnections,
		m.expiredTransaction,
	)

	return m
}

func (m *Metrics) ObserveHTTP(method, path, status string, seconds float64) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(method, path, status).Inc()
	m.httpLatency.WithLabelValues(method, path).Observe(seconds)
}

func (m *Metrics) IncInitiation(result string) {
	if m == nil {
		return
	}
	m.initiations.WithLabelValues(result).Inc()
}

func (m *Metrics) IncCallback(outcome string) {
	if m == nil {
		return
	}
	m.callbacks.WithLabelValues(outcome).Inc()
}

func (m *Metrics) IncDelivery(result string) {
	if m == nil {
		return
	}
	m.deliveries.WithLabelValues(result).Inc()
}

func (m *Metrics) SetActiveConnections(n int) {
	if m == nil {
		return
	}
	m.activeConnections.Set(float64(n))
}

func (m *Metrics) AddExpired(n int64) {
	if m == nil || n <= 0 {
		return
	}
	m.expiredTransaction.Add(float64(n))
}
