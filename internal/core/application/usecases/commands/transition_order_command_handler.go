package commands

import (
	"context"

	"cardorders/internal/core/domain/model/order"
	"cardorders/internal/core/domain/services"
	"cardorders/internal/core/ports"
)

// TransitionOrderCommandHandler moves a single order along the policy graph.
// The order update and its event are committed together or not at all.
//
// Example:
//
//	handler := NewTransitionOrderCommandHandler(uowFactory, machine, metrics)
//	updated, err := handler.Handle(ctx, cmd)
//	switch {
//	case errors.Is(err, order.ErrInvalidTransition):
//	    // not an edge of the policy, or another writer changed the order first
//	case errors.Is(err, ErrNoMatchingOrder):
//	    // unknown order
//	}
type TransitionOrderCommandHandler struct {
	transitioner transitioner
}

// NewTransitionOrderCommandHandler creates a handler for single-order transitions.
// metrics may be nil.
func NewTransitionOrderCommandHandler(
	uowFactory UoWFactory,
	machine services.OrderStateMachine,
	metrics ports.TransitionMetrics,
) TransitionOrderCommandHandler {
	return TransitionOrderCommandHandler{
		transitioner: transitioner{uowFactory: uowFactory, machine: machine, metrics: metrics},
	}
}

// Handle loads the order, checks the edge and persists the result.
// Returns order.ErrInvalidTransition when the edge is denied or lost to a
// concurrent writer, and ErrNoMatchingOrder when the order does not exist.
func (h TransitionOrderCommandHandler) Handle(ctx context.Context, cmd TransitionOrderCommand) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	return h.transitioner.transition(ctx, cmd.OrderID(), cmd.FutureState(), cmd.Trigger(), nil, nil)
}
