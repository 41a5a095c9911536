package commands

import (
	"context"

	"cardorders/internal/core/domain/model/order"
	"cardorders/internal/core/domain/services"
	"cardorders/internal/core/ports"
)

// CompleteCheckoutCommandHandler applies the payment webhook. The Captured →
// Paid edge only accepts the Payment trigger, so a replayed or late webhook
// against an order that already moved on is rejected with
// order.ErrInvalidTransition and nothing is written.
type CompleteCheckoutCommandHandler struct {
	transitioner transitioner
}

// NewCompleteCheckoutCommandHandler creates a handler for payment webhooks.
// metrics may be nil.
func NewCompleteCheckoutCommandHandler(
	uowFactory UoWFactory,
	machine services.OrderStateMachine,
	metrics ports.TransitionMetrics,
) CompleteCheckoutCommandHandler {
	return CompleteCheckoutCommandHandler{
		transitioner: transitioner{uowFactory: uowFactory, machine: machine, metrics: metrics},
	}
}

// Handle marks the order Paid and merges the checkout details.
func (h CompleteCheckoutCommandHandler) Handle(ctx context.Context, cmd CompleteCheckoutCommand) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	details := cmd.Details()
	return h.transitioner.transition(ctx, cmd.OrderID(), order.Paid, order.PaymentTrigger, &details, nil)
}
