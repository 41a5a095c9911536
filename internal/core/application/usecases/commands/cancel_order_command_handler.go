package commands

import (
	"context"

	"cardorders/internal/core/domain/model/order"
	"cardorders/internal/core/domain/services"
	"cardorders/internal/core/ports"
)

// CancelOrderCommandHandler cancels an order on behalf of its owner with the
// User trigger. An order owned by someone else is reported exactly like an
// unknown order.
type CancelOrderCommandHandler struct {
	transitioner transitioner
}

// NewCancelOrderCommandHandler creates a handler for end-user cancellations.
// metrics may be nil.
func NewCancelOrderCommandHandler(
	uowFactory UoWFactory,
	machine services.OrderStateMachine,
	metrics ports.TransitionMetrics,
) CancelOrderCommandHandler {
	return CancelOrderCommandHandler{
		transitioner: transitioner{uowFactory: uowFactory, machine: machine, metrics: metrics},
	}
}

// Handle returns ErrNoMatchingOrder when the order does not exist or is not
// owned by the user, and order.ErrInvalidTransition when it can no longer be canceled.
func (h CancelOrderCommandHandler) Handle(ctx context.Context, cmd CancelOrderCommand) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	return h.transitioner.transition(ctx, cmd.OrderID(), order.Canceled, order.UserTrigger, nil,
		func(o *order.Order) error {
			if !o.IsOwnedBy(cmd.UserID()) {
				return ErrNoMatchingOrder
			}
			return nil
		},
	)
}
