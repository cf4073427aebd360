package email

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics counts delivery outcomes per template.
type Metrics struct {
	sent    *prometheus.CounterVec
	failed  *prometheus.CounterVec
	retried *prometheus.CounterVec
}

// NewMetrics registers the delivery counters on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		sent: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "rbnotify",
			Subsystem: "email",
			Name:      "sent_total",
			Help:      "Emails handed to the transport.",
		}, []string{"template"}),
		failed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "rbnotify",
			Subsystem: "email",
			Name:      "failed_total",
			Help:      "Emails dropped after the last delivery attempt.",
		}, []string{"template"}),
		retried: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "rbnotify",
			Subsystem: "email",
			Name:      "retried_total",
			Help:      "Emails put back in the outbox after a failed attempt.",
		}, []string{"template"}),
	}
	if reg != nil {
		reg.MustRegister(m.sent, m.failed, m.retried)
	}
	return m
}
