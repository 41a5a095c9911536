package queries

import (
	"context"

	"cardorders/internal/core/domain/model/order"
	"cardorders/internal/core/ports"
)

// GetOrderHistoryQueryHandler loads an order with its ledger, replays the
// ledger and audits it against the current transition policy.
//
// Stores implementing ports.SnapshotReader serve both reads from one
// snapshot. Other stores read the order and the ledger separately, so a
// transition committing in between, or a lagging index, can report a
// mismatch that a later read does not show; Snapshot tells the two apart.
//
// Example:
//
//	handler := NewGetOrderHistoryQueryHandler(readerFactory, policy)
//	history, err := handler.Handle(ctx, query)
//	if err == nil && !history.Consistent {
//	    log.Printf("ledger of %s diverges: %s", history.OrderID, history.ReplayError)
//	}
type GetOrderHistoryQueryHandler struct {
	readerFactory ReaderFactory
	policy        order.TransitionPolicy
}

// NewGetOrderHistoryQueryHandler creates a handler for history reads.
func NewGetOrderHistoryQueryHandler(readerFactory ReaderFactory, policy order.TransitionPolicy) GetOrderHistoryQueryHandler {
	return GetOrderHistoryQueryHandler{readerFactory: readerFactory, policy: policy}
}

// Handle returns errs.ObjectNotFoundError when the order does not exist. Replay
// and audit findings are reported in the response, not as errors.
func (h GetOrderHistoryQueryHandler) Handle(
	ctx context.Context,
	query GetOrderHistoryQuery,
) (GetOrderHistoryQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetOrderHistoryQueryResponse{}, err
	}

	reader := h.readerFactory.Create()

	var (
		o      *order.Order
		events []*order.Event
	)
	load := func(orders ports.OrderRepository, ledger ports.OrderEventRepository) error {
		var err error
		if o, err = orders.Get(ctx, query.OrderID()); err != nil {
			return err
		}
		events, err = ledger.ListForOrder(ctx, query.OrderID())
		return err
	}

	snapshot, isSnapshot := reader.(ports.SnapshotReader)
	var err error
	if isSnapshot {
		err = snapshot.ReadSnapshot(ctx, load)
	} else {
		err = load(reader.OrderRepository(), reader.OrderEventRepository())
	}
	if err != nil {
		return GetOrderHistoryQueryResponse{}, err
	}

	response := GetOrderHistoryQueryResponse{
		OrderID:  o.ID(),
		State:    o.State(),
		Events:   make([]OrderEventResponse, 0, len(events)),
		Snapshot: isSnapshot,
	}
	for _, event := range events {
		response.Events = append(response.Events, OrderEventResponse{
			ID:          event.ID(),
			Trigger:     event.Trigger(),
			State:       event.State(),
			CreatedAt:   event.CreatedAt(),
			PublishedAt: event.PublishedAt(),
		})
	}

	replayed, err := order.ReplayState(events)
	if err != nil {
		response.ReplayError = err.Error()
		return response, nil
	}
	response.ReplayedState = replayed
	response.Consistent = replayed == o.State()

	if err := order.AuditHistory(h.policy, events); err != nil {
		response.PolicyError = err.Error()
	}

	return response, nil
}
