package queries

import (
	"errors"
	"fmt"
	"time"

	"cardorders/internal/core/domain/model/kernel"
	"cardorders/internal/core/domain/model/order"
	"cardorders/internal/pkg/errs"
	"cardorders/internal/pkg/guard"
)

var ErrGetOpenOrdersQueryIsNotConstructed = errors.New(
	"GetOpenOrdersQuery must be created via NewGetOpenOrdersQuery constructor",
)

const maxOpenOrdersLimit = 500

// GetOpenOrdersQuery lists orders that have not reached a terminal state,
// oldest update first. It backs the admin tooling that selects batches.
//
// Example:
//
//	query, _ := NewGetOpenOrdersQuery(order.Reviewed, 100)
//	orders, err := handler.Handle(ctx, query)
//	if err != nil {
//	    return fmt.Errorf("failed to list reviewed orders: %w", err)
//	}
type GetOpenOrdersQuery struct {
	state order.State
	limit int

	guard guard.ConstructorGuard
}

// NewGetOpenOrdersQuery filters by state when state is not Unknown. Terminal
// states are rejected; limit must be between 1 and 500.
func NewGetOpenOrdersQuery(state order.State, limit int) (GetOpenOrdersQuery, error) {
	if state != order.Unknown {
		if err := state.Validate(); err != nil {
			return GetOpenOrdersQuery{}, err
		}
		if state.IsTerminal() {
			return GetOpenOrdersQuery{}, errs.NewValueIsInvalidErrorWithCause("state",
				fmt.Errorf("%s is terminal", state))
		}
	}
	if limit < 1 || limit > maxOpenOrdersLimit {
		return GetOpenOrdersQuery{}, errs.NewValueIsOutOfRangeError("limit", limit, 1, maxOpenOrdersLimit)
	}

	return GetOpenOrdersQuery{state: state, limit: limit, guard: guard.NewConstructorGuard()}, nil
}

// Validate ensures the query was created through the constructor.
func (q GetOpenOrdersQuery) Validate() error {
	return q.guard.Validate(ErrGetOpenOrdersQueryIsNotConstructed)
}

func (q GetOpenOrdersQuery) State() order.State { return q.state }
func (q GetOpenOrdersQuery) Limit() int          { return q.limit }

// GetOpenOrdersQueryResponse is a compact row for listing.
type GetOpenOrdersQueryResponse struct {
	ID        kernel.ID
	UserID    kernel.ID
	State     order.State
	Quantity  int
	Total     int64
	UpdatedAt time.Time
}
