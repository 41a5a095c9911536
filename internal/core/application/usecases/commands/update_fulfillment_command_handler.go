package commands

import (
	"context"

	"cardorders/internal/core/domain/model/order"
	"cardorders/internal/core/domain/services"
)

// UpdateFulfillmentCommandHandler writes fulfillment artifacts. The write is
// still conditional on the order version but appends no event.
type UpdateFulfillmentCommandHandler struct {
	uowFactory UoWFactory
	machine    services.OrderStateMachine
}

// NewUpdateFulfillmentCommandHandler creates a handler for fulfillment updates.
// The state machine only supplies the clock.
func NewUpdateFulfillmentCommandHandler(uowFactory UoWFactory, machine services.OrderStateMachine) UpdateFulfillmentCommandHandler {
	return UpdateFulfillmentCommandHandler{
		uowFactory: uowFactory,
		machine:    machine,
	}
}

// Handle returns ErrNoMatchingOrder for unknown orders and
// order.ErrInvalidTransition when a concurrent writer changed the order first.
func (h UpdateFulfillmentCommandHandler) Handle(ctx context.Context, cmd UpdateFulfillmentCommand) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	var updated *order.Order
	err := inUnitOfWork(ctx, h.uowFactory, func(uow UoW) error {
		orderRepo := uow.OrderRepository()

		o, err := orderRepo.Get(ctx, cmd.OrderID())
		if err != nil {
			return err
		}
		if err = o.UpdateFulfillment(cmd.Update(), h.machine.Now()); err != nil {
			return err
		}
		if err = orderRepo.Update(ctx, o); err != nil {
			return err
		}

		updated = o
		return nil
	})
	if err = translateStoreError(err, ErrNoMatchingOrder); err != nil {
		return nil, err
	}

	return updated, nil
}
