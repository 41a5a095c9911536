package commands

import (
	"context"

	"cardorders/internal/core/domain/model/kernel"
	"cardorders/internal/core/domain/model/order"
	"cardorders/internal/core/domain/services"
	"cardorders/internal/core/ports"
)

// transitioner is the single-order write path shared by the transition,
// cancellation and checkout handlers: load, authorize, transition, then
// update the order and append its event in one unit of work.
type transitioner struct {
	uowFactory UoWFactory
	machine    services.OrderStateMachine
	metrics    ports.TransitionMetrics
}

type authorizeFunc func(o *order.Order) error

func (t transitioner) transition(
	ctx context.Context,
	orderID kernel.ID,
	futureState order.State,
	trigger order.Trigger,
	details *order.CheckoutDetails,
	authorize authorizeFunc,
) (*order.Order, error) {
	var (
		updated *order.Order
		from    = order.Unknown
	)

	err := inUnitOfWork(ctx, t.uowFactory, func(uow UoW) error {
		orderRepo := uow.OrderRepository()
		eventRepo := uow.OrderEventRepository()

		o, err := orderRepo.Get(ctx, orderID)
		if err != nil {
			return err
		}
		if authorize != nil {
			if err = authorize(o); err != nil {
				return err
			}
		}

		from = o.State()
		event, err := t.machine.Transition(o, futureState, trigger, details)
		if err != nil {
			return err
		}

		if err = orderRepo.Update(ctx, o); err != nil {
			return err
		}
		if err = eventRepo.Append(ctx, event); err != nil {
			return err
		}

		updated = o
		return nil
	})
	err = translateStoreError(err, ErrNoMatchingOrder)

	if from != order.Unknown {
		observe(t.metrics, from, futureState, trigger, err)
	}
	if err != nil {
		return nil, err
	}

	return updated, nil
}
