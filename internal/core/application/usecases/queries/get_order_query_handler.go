package queries

import (
	"context"
)

// GetOrderQueryHandler reads one order through the repository port, so it
// works against every configured store.
type GetOrderQueryHandler struct {
	readerFactory ReaderFactory
}

// NewGetOrderQueryHandler creates a handler for single-order reads.
func NewGetOrderQueryHandler(readerFactory ReaderFactory) GetOrderQueryHandler {
	return GetOrderQueryHandler{readerFactory: readerFactory}
}

// Handle returns errs.ObjectNotFoundError when the order does not exist.
func (h GetOrderQueryHandler) Handle(ctx context.Context, query GetOrderQuery) (GetOrderQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetOrderQueryResponse{}, err
	}

	o, err := h.readerFactory.Create().OrderRepository().Get(ctx, query.OrderID())
	if err != nil {
		return GetOrderQueryResponse{}, err
	}

	return NewGetOrderQueryResponse(o), nil
}
