package commands

import (
	"errors"

	"cardorders/internal/core/domain/model/kernel"
	"cardorders/internal/core/domain/model/order"
	"cardorders/internal/pkg/errs"
	"cardorders/internal/pkg/guard"
)

var ErrUpdateFulfillmentCommandIsNotConstructed = errors.New(
	"UpdateFulfillmentCommand must be created via NewUpdateFulfillmentCommand constructor",
)

// UpdateFulfillmentCommand records production and shipping artifacts of an
// order (tracking number, label URL, print spec URL) without a transition.
type UpdateFulfillmentCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.ID
	update  order.FulfillmentUpdate

	guard guard.ConstructorGuard
}

// NewUpdateFulfillmentCommand requires at least one field to be set.
func NewUpdateFulfillmentCommand(orderID kernel.ID, update order.FulfillmentUpdate) (UpdateFulfillmentCommand, error) {
	cmd := UpdateFulfillmentCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := orderID.ValidatePrefix(kernel.OrderPrefix); err != nil {
		return UpdateFulfillmentCommand{}, err
	}
	if update.IsEmpty() {
		return UpdateFulfillmentCommand{}, errs.NewValueIsRequiredError("fulfillment update")
	}

	cmd.orderID = orderID
	cmd.update = update
	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c UpdateFulfillmentCommand) Validate() error {
	return c.guard.Validate(ErrUpdateFulfillmentCommandIsNotConstructed)
}

func (c UpdateFulfillmentCommand) OrderID() kernel.ID              { return c.orderID }
func (c UpdateFulfillmentCommand) Update() order.FulfillmentUpdate { return c.update }
