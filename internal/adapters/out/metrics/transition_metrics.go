// Package metrics exports order transition outcomes to Prometheus.
package metrics

import (
	"errors"

	"cardorders/internal/core/application/usecases/commands"
	"cardorders/internal/core/domain/model/order"
	"cardorders/internal/pkg/errs"

	"github.com/prometheus/client_golang/prometheus"
)

// Outcome label values.
const (
	OutcomeAccepted = "accepted"
	OutcomeDenied   = "denied"
	OutcomeConflict = "conflict"
	OutcomeNotFound = "not_found"
	OutcomeError    = "error"
)

// TransitionMetrics implements ports.TransitionMetrics with a counter labelled
// by source state, target state, trigger and outcome.
type TransitionMetrics struct {
	transitions *prometheus.CounterVec
}

// NewTransitionMetrics creates the counter and registers it with reg.
func NewTransitionMetrics(reg prometheus.Registerer) (*TransitionMetrics, error) {
	transitions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "cardorders",
		Name:      "order_transitions_total",
		Help:      "Requested order transitions by source state, target state, trigger and outcome.",
	}, []string{"from", "to", "trigger", "outcome"})

	if err := reg.Register(transitions); err != nil {
		return nil, err
	}

	return &TransitionMetrics{transitions: transitions}, nil
}

// ObserveTransition counts one requested transition.
func (m *TransitionMetrics) ObserveTransition(from, to order.State, trigger order.Trigger, err error) {
	trig := trigger.String()
	if trig == "" {
		trig = "none"
	}
	m.transitions.WithLabelValues(from.String(), to.String(), trig, Outcome(err)).Inc()
}

// Outcome classifies the result of a transition.
func Outcome(err error) string {
	switch {
	case err == nil:
		return OutcomeAccepted
	case errors.Is(err, errs.ErrVersionIsInvalid):
		return OutcomeConflict
	case errors.Is(err, order.ErrInvalidTransition):
		return OutcomeDenied
	case errors.Is(err, errs.ErrObjectNotFound),
		errors.Is(err, commands.ErrNoMatchingOrder),
		errors.Is(err, commands.ErrNoOrdersFound):
		return OutcomeNotFound
	default:
		return OutcomeError
	}
}
