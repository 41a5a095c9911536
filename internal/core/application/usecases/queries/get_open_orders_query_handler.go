package queries

import (
	"context"
	"time"

	"cardorders/internal/core/domain/model/kernel"
	"cardorders/internal/core/domain/model/order"

	"gorm.io/gorm"
)

// GetOpenOrdersQueryHandler reads open orders straight from the relational
// store with a hand-written projection.
//
// Example:
//
//	handler := NewGetOpenOrdersQueryHandler(db)
//	query, _ := NewGetOpenOrdersQuery(order.Unknown, 50)
//
//	pending, err := handler.Handle(ctx, query)
//	if err != nil {
//	    log.Printf("Failed to list open orders: %v", err)
//	    return err
//	}
type GetOpenOrdersQueryHandler struct {
	db *gorm.DB
}

// NewGetOpenOrdersQueryHandler creates a handler for open order listings.
// Requires a GORM database connection for query execution.
func NewGetOpenOrdersQueryHandler(db *gorm.DB) GetOpenOrdersQueryHandler {
	return GetOpenOrdersQueryHandler{db: db}
}

// Handle returns at most query.Limit() open orders ordered by last update, then id.
func (h GetOpenOrdersQueryHandler) Handle(
	ctx context.Context,
	query GetOpenOrdersQuery,
) ([]GetOpenOrdersQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	states := make([]string, 0, len(order.States()))
	for _, state := range order.States() {
		if state.IsTerminal() {
			continue
		}
		if query.State() != order.Unknown && state != query.State() {
			continue
		}
		states = append(states, state.String())
	}

	orders := make([]GetOpenOrdersQueryResponse, 0)

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			user_id,
			state,
			quantity,
			total,
			updated_at
		FROM orders
		WHERE state IN ?
		ORDER BY updated_at, id
		LIMIT ?
	`, states, query.Limit()).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			orderResp             GetOpenOrdersQueryResponse
			rawID, rawUser, rawSt string
			updatedAt             time.Time
		)

		err = rows.Scan(
			&rawID,
			&rawUser,
			&rawSt,
			&orderResp.Quantity,
			&orderResp.Total,
			&updatedAt,
		)
		if err != nil {
			return nil, err
		}

		if orderResp.ID, err = kernel.ParseID(kernel.OrderPrefix, rawID); err != nil {
			return nil, err
		}
		if orderResp.UserID, err = kernel.ParseID(kernel.UserPrefix, rawUser); err != nil {
			return nil, err
		}
		if orderResp.State, err = order.ParseState(rawSt); err != nil {
			return nil, err
		}
		orderResp.UpdatedAt = updatedAt.UTC()

		orders = append(orders, orderResp)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return orders, nil
}
