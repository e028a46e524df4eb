// Package metrics exposes Prometheus collectors for the assistant.
//
// All methods are safe to call on a nil *Metrics, which records nothing.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "ayesha"

type Metrics struct {
	// AskRequests counts /ask outcomes. Labels: outcome (ok or an error kind).
	AskRequests *prometheus.CounterVec

	// GatewayDuration measures completion calls. Labels: provider, status (ok, error).
	GatewayDuration *prometheus.HistogramVec

	// OrderReferences counts detected order ids. Labels: known (true, false).
	OrderReferences *prometheus.CounterVec
}

// New creates the collectors and registers them on reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		AskRequests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ask_requests_total",
			Help:      "Customer messages handled, by outcome.",
		}, []string{"outcome"}),
		GatewayDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "gateway_duration_seconds",
			Help:      "Latency of completion gateway calls.",
			Buckets:   []float64{0.25, 0.5, 1, 2, 4, 8, 16, 32, 60},
		}, []string{"provider", "status"}),
		OrderReferences: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "order_references_total",
			Help:      "Order ids detected in customer messages.",
		}, []string{"known"}),
	}
}

func (m *Metrics) ObserveAsk(outcome string) {
	if m == nil {
		return
	}
	m.AskRequests.WithLabelValues(outcome).Inc()
}

func (m *Metrics) ObserveGateway(provider string, err error, d time.Duration) {
	if m == nil {
		return
	}
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.GatewayDuration.WithLabelValues(provider, status).Observe(d.Seconds())
}

func (m *Metrics) ObserveOrderReference(known bool) {
	if m == nil {
		return
	}
	m.OrderReferences.WithLabelValues(strconv.FormatBool(known)).Inc()
}
