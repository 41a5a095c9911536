package commands

import (
	"errors"

	"cardorders/internal/core/domain/model/kernel"
	"cardorders/internal/pkg/guard"
)

var ErrCancelOrderCommandIsNotConstructed = errors.New(
	"CancelOrderCommand must be created via NewCancelOrderCommand constructor",
)

// CancelOrderCommand is an end user's request to cancel one of their orders.
//
// Example:
//
//	cmd, err := NewCancelOrderCommand(orderID, userID)
//	if errors.Is(err, ErrNoUserSpecified) {
//	    return echo.ErrUnauthorized
//	}
type CancelOrderCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.ID
	userID  kernel.ID

	guard guard.ConstructorGuard
}

// NewCancelOrderCommand requires both identifiers. A zero userID yields ErrNoUserSpecified.
func NewCancelOrderCommand(orderID, userID kernel.ID) (CancelOrderCommand, error) {
	cmd := CancelOrderCommand{
		guard: guard.NewConstructorGuard(),
	}

	if userID.IsZero() {
		return CancelOrderCommand{}, ErrNoUserSpecified
	}
	if err := errors.Join(
		orderID.ValidatePrefix(kernel.OrderPrefix),
		userID.ValidatePrefix(kernel.UserPrefix),
	); err != nil {
		return CancelOrderCommand{}, err
	}

	cmd.orderID = orderID
	cmd.userID = userID
	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c CancelOrderCommand) Validate() error {
	return c.guard.Validate(ErrCancelOrderCommandIsNotConstructed)
}

func (c CancelOrderCommand) OrderID() kernel.ID { return c.orderID }
func (c CancelOrderCommand) UserID() kernel.ID  { return c.userID }
