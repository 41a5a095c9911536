package commands

import (
	"errors"

	"cardorders/internal/core/domain/model/kernel"
	"cardorders/internal/core/domain/model/order"
	"cardorders/internal/pkg/guard"
)

var ErrCompleteCheckoutCommandIsNotConstructed = errors.New(
	"CompleteCheckoutCommand must be created via NewCompleteCheckoutCommand constructor",
)

// CompleteCheckoutCommand carries a successful payment webhook: the order is
// marked Paid with the Payment trigger and the settled amounts and any shipping
// details are merged in the same unit of work.
//
// Example:
//
//	cmd, err := NewCompleteCheckoutCommand(orderID, order.CheckoutDetails{
//	    Tax: 427, Shipping: 0, Total: 5427,
//	    ShippingAddress: "1 Infinite Loop", ShippingName: "Ada Lovelace",
//	})
type CompleteCheckoutCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.ID
	details order.CheckoutDetails

	guard guard.ConstructorGuard
}

// NewCompleteCheckoutCommand validates the identifier and the payload.
func NewCompleteCheckoutCommand(orderID kernel.ID, details order.CheckoutDetails) (CompleteCheckoutCommand, error) {
	cmd := CompleteCheckoutCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		orderID.ValidatePrefix(kernel.OrderPrefix),
		details.Validate(),
	); err != nil {
		return CompleteCheckoutCommand{}, err
	}

	cmd.orderID = orderID
	cmd.details = details
	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c CompleteCheckoutCommand) Validate() error {
	return c.guard.Validate(ErrCompleteCheckoutCommandIsNotConstructed)
}

func (c CompleteCheckoutCommand) OrderID() kernel.ID             { return c.orderID }
func (c CompleteCheckoutCommand) Details() order.CheckoutDetails { return c.details }
