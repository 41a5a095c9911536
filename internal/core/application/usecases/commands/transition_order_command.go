package commands

import (
	"errors"

	"cardorders/internal/core/domain/model/kernel"
	"cardorders/internal/core/domain/model/order"
	"cardorders/internal/pkg/guard"
)

var ErrTransitionOrderCommandIsNotConstructed = errors.New(
	"TransitionOrderCommand must be created via NewTransitionOrderCommand constructor",
)

// TransitionOrderCommand asks to move one order to a future state on behalf of a trigger.
//
// Example:
//
//	cmd, err := NewTransitionOrderCommand(orderID, order.Reviewed, order.InternalTrigger)
//	if err != nil {
//	    return fmt.Errorf("invalid transition request: %w", err)
//	}
//	updated, err := handler.Handle(ctx, cmd)
type TransitionOrderCommand struct { //nolint:recvcheck //using for validation
	orderID     kernel.ID
	futureState order.State
	trigger     order.Trigger

	guard guard.ConstructorGuard
}

// NewTransitionOrderCommand validates the identifier, state and trigger. The
// Payment trigger is refused with ErrPaymentTriggerReserved.
func NewTransitionOrderCommand(
	orderID kernel.ID,
	futureState order.State,
	trigger order.Trigger,
) (TransitionOrderCommand, error) {
	cmd := TransitionOrderCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setFutureState(futureState),
		cmd.setTrigger(trigger),
	); err != nil {
		return TransitionOrderCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c TransitionOrderCommand) Validate() error {
	return c.guard.Validate(ErrTransitionOrderCommandIsNotConstructed)
}

func (c TransitionOrderCommand) OrderID() kernel.ID        { return c.orderID }
func (c TransitionOrderCommand) FutureState() order.State { return c.futureState }
func (c TransitionOrderCommand) Trigger() order.Trigger   { return c.trigger }

func (c *TransitionOrderCommand) setOrderID(orderID kernel.ID) error {
	if err := orderID.ValidatePrefix(kernel.OrderPrefix); err != nil {
		return err
	}
	c.orderID = orderID
	return nil
}

func (c *TransitionOrderCommand) setFutureState(state order.State) error {
	if err := state.Validate(); err != nil {
		return err
	}
	c.futureState = state
	return nil
}

func (c *TransitionOrderCommand) setTrigger(trigger order.Trigger) error {
	if err := validateRequestedTrigger(trigger); err != nil {
		return err
	}
	c.trigger = trigger
	return nil
}
