package commands

import (
	"errors"
	"fmt"

	"cardorders/internal/core/domain/model/kernel"
	"cardorders/internal/core/domain/model/order"
	"cardorders/internal/pkg/errs"
	"cardorders/internal/pkg/guard"
)

var ErrBatchTransitionOrdersCommandIsNotConstructed = errors.New(
	"BatchTransitionOrdersCommand must be created via NewBatchTransitionOrdersCommand constructor",
)

// BatchTransitionOrdersCommand asks to move a set of orders to the same
// future state. The set is applied all-or-nothing.
//
// Example:
//
//	cmd, err := NewBatchTransitionOrdersCommand(ids, order.Creating, order.InternalTrigger)
//	if errors.Is(err, ErrNoOrdersFound) {
//	    // empty selection
//	}
type BatchTransitionOrdersCommand struct { //nolint:recvcheck //using for validation
	orderIDs    []kernel.ID
	futureState order.State
	trigger     order.Trigger

	guard guard.ConstructorGuard
}

// NewBatchTransitionOrdersCommand validates the selection. An empty selection
// yields ErrNoOrdersFound; a repeated identifier or the Payment trigger is a
// ValueIsInvalidError.
func NewBatchTransitionOrdersCommand(
	orderIDs []kernel.ID,
	futureState order.State,
	trigger order.Trigger,
) (BatchTransitionOrdersCommand, error) {
	cmd := BatchTransitionOrdersCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrderIDs(orderIDs),
		futureState.Validate(),
		validateRequestedTrigger(trigger),
	); err != nil {
		return BatchTransitionOrdersCommand{}, err
	}
	cmd.futureState = futureState
	cmd.trigger = trigger

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c BatchTransitionOrdersCommand) Validate() error {
	return c.guard.Validate(ErrBatchTransitionOrdersCommandIsNotConstructed)
}

// OrderIDs returns a copy of the selection in the caller's order.
func (c BatchTransitionOrdersCommand) OrderIDs() []kernel.ID {
	ids := make([]kernel.ID, len(c.orderIDs))
	copy(ids, c.orderIDs)
	return ids
}

func (c BatchTransitionOrdersCommand) FutureState() order.State { return c.futureState }
func (c BatchTransitionOrdersCommand) Trigger() order.Trigger   { return c.trigger }

func (c *BatchTransitionOrdersCommand) setOrderIDs(orderIDs []kernel.ID) error {
	if len(orderIDs) == 0 {
		return ErrNoOrdersFound
	}

	seen := make(map[kernel.ID]struct{}, len(orderIDs))
	for _, id := range orderIDs {
		if err := id.ValidatePrefix(kernel.OrderPrefix); err != nil {
			return err
		}
		if _, ok := seen[id]; ok {
			return errs.NewValueIsInvalidErrorWithCause("orderIDs", fmt.Errorf("%s is listed more than once", id))
		}
		seen[id] = struct{}{}
	}

	c.orderIDs = make([]kernel.ID, len(orderIDs))
	copy(c.orderIDs, orderIDs)
	return nil
}
