package tpos

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Delivery directions.
const (
	directionRequest  = "request"
	directionResponse = "response"
)

// Metrics counts deliveries and times completed interactions.
type Metrics struct {
	Deliveries *prometheus.CounterVec
	// Seconds between a successful request delivery and its response.
	ResponseLatency *prometheus.HistogramVec
}

// NewMetrics creates the collectors and registers them with reg. A nil reg
// leaves them unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	deliveries := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "tpos",
		Name:      "deliveries_total",
		Help:      "Deep-link deliveries by direction and outcome.",
	}, []string{"direction", "outcome"})
	latency := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "tpos",
		Name:      "response_latency_seconds",
		Help:      "Time from request delivery until the response arrived.",
		Buckets:   []float64{1, 5, 15, 30, 60, 120, 300, 600},
	}, []string{"status"})

	if reg != nil {
		reg.MustRegister(deliveries, latency)
	}
	return &Metrics{Deliveries: deliveries, ResponseLatency: latency}
}

func (m *Metrics) delivered(direction string, err error) {
	if m == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		if kind, ok := KindOf(err); ok {
			outcome = string(kind)
		} else {
			outcome = "error"
		}
	}
	m.Deliveries.WithLabelValues(direction, outcome).Inc()
}

func (m *Metrics) responded(status ResponseStatus, seconds float64) {
	if m == nil {
		return
	}
	m.ResponseLatency.WithLabelValues(string(status)).Observe(seconds)
}
