package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the service counters on a private registry.
type Metrics struct {
	SweepRuns         prometheus.Counter
	SweepTransitions  *prometheus.CounterVec
	NotificationsSent *prometheus.CounterVec
	registry          *prometheus.Registry
}

func New() *Metrics {
	registry := prometheus.NewRegistry()

	sweepRuns := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "locker_sweep_runs_total",
		Help: "Deadline sweep executions",
	})
	sweepTransitions := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "locker_sweep_transitions_total",
			Help: "Request transitions made by the deadline sweep",
		},
		[]string{"to"},
	)
	notificationsSent := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "locker_notifications_total",
			Help: "Notification delivery attempts",
		},
		[]string{"outcome"},
	)

	registry.MustRegister(sweepRuns, sweepTransitions, notificationsSent)

	return &Metrics{
		SweepRuns:         sweepRuns,
		SweepTransitions:  sweepTransitions,
		NotificationsSent: notificationsSent,
		registry:          registry,
	}
}

// Handler serves the private registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
