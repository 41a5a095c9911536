package commands

import (
	"errors"
	"math"

	"cardorders/internal/core/domain/model/kernel"
	"cardorders/internal/core/domain/model/order"
	"cardorders/internal/pkg/errs"
	"cardorders/internal/pkg/guard"
)

var ErrCreateOrderCommandIsNotConstructed = errors.New(
	"CreateOrderCommand must be created via NewCreateOrderCommand constructor",
)

// CreateOrderCommand represents order intake: a user orders a quantity of a
// specific card version at a price computed upstream.
//
// Example:
//
//	orderID := kernel.NewID(kernel.OrderPrefix)
//	cmd, err := NewCreateOrderCommand(orderID, userID, cardVersionID, 250, price,
//	    order.Initialized, order.UserTrigger)
//	if err != nil {
//	    return fmt.Errorf("invalid order data: %w", err)
//	}
type CreateOrderCommand struct { //nolint:recvcheck //using for validation
	orderID       kernel.ID
	userID        kernel.ID
	cardVersionID kernel.ID
	quantity      int
	price         order.Price
	initialState  order.State
	trigger       order.Trigger

	guard guard.ConstructorGuard
}

// NewCreateOrderCommand validates the intake request. The initial state must
// be Initialized or Captured.
func NewCreateOrderCommand(
	orderID, userID, cardVersionID kernel.ID,
	quantity int,
	price order.Price,
	initialState order.State,
	trigger order.Trigger,
) (CreateOrderCommand, error) {
	cmd := CreateOrderCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setIDs(orderID, userID, cardVersionID),
		cmd.setQuantity(quantity),
		cmd.setInitialState(initialState),
		trigger.Validate(),
	); err != nil {
		return CreateOrderCommand{}, err
	}
	cmd.price = price
	cmd.trigger = trigger

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c CreateOrderCommand) Validate() error {
	return c.guard.Validate(ErrCreateOrderCommandIsNotConstructed)
}

func (c CreateOrderCommand) OrderID() kernel.ID         { return c.orderID }
func (c CreateOrderCommand) UserID() kernel.ID          { return c.userID }
func (c CreateOrderCommand) CardVersionID() kernel.ID   { return c.cardVersionID }
func (c CreateOrderCommand) Quantity() int              { return c.quantity }
func (c CreateOrderCommand) Price() order.Price         { return c.price }
func (c CreateOrderCommand) InitialState() order.State { return c.initialState }
func (c CreateOrderCommand) Trigger() order.Trigger     { return c.trigger }

func (c *CreateOrderCommand) setIDs(orderID, userID, cardVersionID kernel.ID) error {
	if userID.IsZero() {
		return ErrNoUserSpecified
	}
	if err := errors.Join(
		orderID.ValidatePrefix(kernel.OrderPrefix),
		userID.ValidatePrefix(kernel.UserPrefix),
		cardVersionID.ValidatePrefix(kernel.CardVersionPrefix),
	); err != nil {
		return err
	}

	c.orderID = orderID
	c.userID = userID
	c.cardVersionID = cardVersionID
	return nil
}

func (c *CreateOrderCommand) setQuantity(quantity int) error {
	if quantity <= 0 {
		return errs.NewValueIsOutOfRangeError("quantity", quantity, 1, math.MaxInt32)
	}

	c.quantity = quantity
	return nil
}

func (c *CreateOrderCommand) setInitialState(state order.State) error {
	if !state.IsInitial() {
		return errs.NewValueIsInvalidError("initialState")
	}

	c.initialState = state
	return nil
}
