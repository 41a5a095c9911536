package commands

import (
	"context"
	"slices"
	"strings"

	"cardorders/internal/core/domain/model/kernel"
	"cardorders/internal/core/domain/model/order"
	"cardorders/internal/core/domain/services"
	"cardorders/internal/core/ports"
)

// BatchTransitionOrdersCommandHandler drives the state machine over a set of
// orders inside one unit of work. Every identifier is resolved before any
// transition is attempted, and a single denial aborts the whole batch.
//
// Example:
//
//	handler := NewBatchTransitionOrdersCommandHandler(uowFactory, machine, metrics)
//	orders, err := handler.Handle(ctx, cmd)
//	switch {
//	case errors.Is(err, ErrNoOrdersFound):
//	    // at least one identifier did not resolve; nothing was written
//	case errors.Is(err, order.ErrInvalidTransition):
//	    // at least one order cannot take the edge; nothing was written
//	}
type BatchTransitionOrdersCommandHandler struct {
	uowFactory UoWFactory
	machine    services.OrderStateMachine
	metrics    ports.TransitionMetrics
}

// NewBatchTransitionOrdersCommandHandler creates a handler for bulk transitions.
// metrics may be nil.
func NewBatchTransitionOrdersCommandHandler(
	uowFactory UoWFactory,
	machine services.OrderStateMachine,
	metrics ports.TransitionMetrics,
) BatchTransitionOrdersCommandHandler {
	return BatchTransitionOrdersCommandHandler{
		uowFactory: uowFactory,
		machine:    machine,
		metrics:    metrics,
	}
}

// Handle transitions every selected order or none of them. On success the
// updated orders are returned in the order the caller listed them.
func (h BatchTransitionOrdersCommandHandler) Handle(
	ctx context.Context,
	cmd BatchTransitionOrdersCommand,
) ([]*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	ids := cmd.OrderIDs()
	var (
		updated []*order.Order
		from    = make([]order.State, 0, len(ids))
	)

	err := inUnitOfWork(ctx, h.uowFactory, func(uow UoW) error {
		orderRepo := uow.OrderRepository()
		eventRepo := uow.OrderEventRepository()

		found, err := orderRepo.GetMany(ctx, ids)
		if err != nil {
			return err
		}
		byID := make(map[kernel.ID]*order.Order, len(found))
		for _, o := range found {
			byID[o.ID()] = o
		}

		ordered := make([]*order.Order, 0, len(ids))
		for _, id := range ids {
			o, ok := byID[id]
			if !ok {
				return ErrNoOrdersFound
			}
			ordered = append(ordered, o)
		}

		events := make([]*order.Event, 0, len(ordered))
		for _, o := range ordered {
			from = append(from, o.State())
			event, err := h.machine.Transition(o, cmd.FutureState(), cmd.Trigger(), nil)
			if err != nil {
				return err
			}
			events = append(events, event)
		}

		// Rows are written in key order so concurrent batches lock them alike.
		writes := slices.Clone(ordered)
		slices.SortFunc(writes, func(a, b *order.Order) int {
			return strings.Compare(a.ID().String(), b.ID().String())
		})
		for _, o := range writes {
			if err = orderRepo.Update(ctx, o); err != nil {
				return err
			}
		}
		if err = eventRepo.Append(ctx, events...); err != nil {
			return err
		}

		updated = ordered
		return nil
	})
	err = translateStoreError(err, ErrNoOrdersFound)

	for _, state := range from {
		observe(h.metrics, state, cmd.FutureState(), cmd.Trigger(), err)
	}
	if err != nil {
		return nil, err
	}

	return updated, nil
}
