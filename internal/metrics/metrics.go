// Package metrics holds the Prometheus collectors recorded by the services.
// A nil *Metrics records nothing.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/Gopher0727/StudyGroup/internal/domain"
)

const namespace = "studygroup"

// Outcome labels.
const (
	OutcomeOK       = "ok"
	OutcomeRejected = "rejected"
	OutcomeError    = "error"
)

type Metrics struct {
	Operations     *prometheus.CounterVec
	MessagesStored *prometheus.CounterVec
	NotifyFailures prometheus.Counter
}

// New creates the collectors and registers them on reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "operations_total",
			Help:      "Facade operations by name and outcome.",
		}, []string{"op", "outcome"}),
		MessagesStored: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "messages_stored_total",
			Help:      "Messages stored by kind.",
		}, []string{"kind"}),
		NotifyFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "notify_failures_total",
			Help:      "Messages the notifier failed to publish.",
		}),
	}
	reg.MustRegister(m.Operations, m.MessagesStored, m.NotifyFailures)
	return m
}

// Observe counts one run of op classified by err.
func (m *Metrics) Observe(op string, err error) {
	if m == nil {
		return
	}
	m.Operations.WithLabelValues(op, outcome(err)).Inc()
}

// MessageStored counts a persisted message by kind.
func (m *Metrics) MessageStored(kind domain.MessageKind) {
	if m == nil {
		return
	}
	m.MessagesStored.WithLabelValues(string(kind)).Inc()
}

// NotifyFailed counts a notification that could not be published.
func (m *Metrics) NotifyFailed() {
	if m == nil {
		return
	}
	m.NotifyFailures.Inc()
}

func outcome(err error) string {
	switch {
	case err == nil:
		return OutcomeOK
	case domain.IsRejection(err):
		return OutcomeRejected
	default:
		return OutcomeError
	}
}
