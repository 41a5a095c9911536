package ports

import (
	"cardorders/internal/core/domain/model/order"
)

// TransitionMetrics observes the outcome of every requested transition.
// A nil err means the transition was committed.
type TransitionMetrics interface {
	ObserveTransition(from, to order.State, trigger order.Trigger, err error)
}
