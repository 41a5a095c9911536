package commands

import (
	"context"

	"cardorders/internal/core/domain/model/order"
	"cardorders/internal/core/domain/services"
)

// CreateOrderCommandHandler handles order intake. The order and its creation
// event are written in one unit of work so replay always starts from the ledger.
//
// Example:
//
//	handler := NewCreateOrderCommandHandler(uowFactory, machine)
//	created, err := handler.Handle(ctx, cmd)
//	if err != nil {
//	    return fmt.Errorf("order creation failed: %w", err)
//	}
type CreateOrderCommandHandler struct {
	uowFactory UoWFactory
	machine    services.OrderStateMachine
}

// NewCreateOrderCommandHandler creates a handler for order intake.
func NewCreateOrderCommandHandler(uowFactory UoWFactory, machine services.OrderStateMachine) CreateOrderCommandHandler {
	return CreateOrderCommandHandler{
		uowFactory: uowFactory,
		machine:    machine,
	}
}

// Handle creates the order in its initial state and appends the creation event.
func (h CreateOrderCommandHandler) Handle(ctx context.Context, cmd CreateOrderCommand) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	o, created, err := order.NewOrder(
		cmd.OrderID(),
		cmd.UserID(),
		cmd.CardVersionID(),
		cmd.Quantity(),
		cmd.Price(),
		cmd.InitialState(),
		cmd.Trigger(),
		h.machine.Now(),
	)
	if err != nil {
		return nil, err
	}

	err = inUnitOfWork(ctx, h.uowFactory, func(uow UoW) error {
		if err := uow.OrderRepository().Add(ctx, o); err != nil {
			return err
		}
		return uow.OrderEventRepository().Append(ctx, created)
	})
	if err != nil {
		return nil, err
	}

	return o, nil
}
