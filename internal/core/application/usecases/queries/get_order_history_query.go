package queries

import (
	"errors"
	"time"

	"cardorders/internal/core/domain/model/kernel"
	"cardorders/internal/core/domain/model/order"
	"cardorders/internal/pkg/guard"
)

var ErrGetOrderHistoryQueryIsNotConstructed = errors.New(
	"GetOrderHistoryQuery must be created via NewGetOrderHistoryQuery constructor",
)

// GetOrderHistoryQuery retrieves the ledger of one order and checks that
// replaying it through the policy reproduces the order's current state.
type GetOrderHistoryQuery struct {
	orderID kernel.ID

	guard guard.ConstructorGuard
}

// NewGetOrderHistoryQuery creates a history query for the given order.
func NewGetOrderHistoryQuery(orderID kernel.ID) (GetOrderHistoryQuery, error) {
	if err := orderID.ValidatePrefix(kernel.OrderPrefix); err != nil {
		return GetOrderHistoryQuery{}, err
	}
	return GetOrderHistoryQuery{orderID: orderID, guard: guard.NewConstructorGuard()}, nil
}

// Validate ensures the query was created through the constructor.
func (q GetOrderHistoryQuery) Validate() error {
	return q.guard.Validate(ErrGetOrderHistoryQueryIsNotConstructed)
}

func (q GetOrderHistoryQuery) OrderID() kernel.ID { return q.orderID }

// OrderEventResponse is one ledger entry.
type OrderEventResponse struct {
	ID          kernel.ID
	Trigger     order.Trigger
	State       order.State
	CreatedAt   time.Time
	PublishedAt *time.Time
}

// GetOrderHistoryQueryResponse carries the ledger oldest first and the replay verdict.
// Consistent is true when the replay succeeded and ended in State. PolicyError
// names a step the current policy would deny; histories written under an
// earlier configuration can carry one and still be consistent. Snapshot is
// true when the order and the ledger were read from one consistent view.
type GetOrderHistoryQueryResponse struct {
	OrderID       kernel.ID
	State         order.State
	Events        []OrderEventResponse
	ReplayedState order.State
	ReplayError   string
	PolicyError   string
	Consistent    bool
	Snapshot      bool
}
