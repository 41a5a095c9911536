package queries

import (
	"errors"
	"time"

	"cardorders/internal/core/domain/model/kernel"
	"cardorders/internal/core/domain/model/order"
	"cardorders/internal/pkg/guard"
)

var ErrGetOrderQueryIsNotConstructed = errors.New(
	"GetOrderQuery must be created via NewGetOrderQuery constructor",
)

// GetOrderQuery retrieves the current view of one order.
//
// Example:
//
//	query, err := NewGetOrderQuery(orderID)
//	if err != nil {
//	    return err
//	}
//	view, err := handler.Handle(ctx, query)
//	if errors.Is(err, errs.ErrObjectNotFound) {
//	    // unknown order
//	}
type GetOrderQuery struct {
	orderID kernel.ID

	guard guard.ConstructorGuard
}

// NewGetOrderQuery creates a query for the given order.
func NewGetOrderQuery(orderID kernel.ID) (GetOrderQuery, error) {
	if err := orderID.ValidatePrefix(kernel.OrderPrefix); err != nil {
		return GetOrderQuery{}, err
	}
	return GetOrderQuery{orderID: orderID, guard: guard.NewConstructorGuard()}, nil
}

// Validate ensures the query was created through the constructor.
func (q GetOrderQuery) Validate() error {
	return q.guard.Validate(ErrGetOrderQueryIsNotConstructed)
}

func (q GetOrderQuery) OrderID() kernel.ID { return q.orderID }

// GetOrderQueryResponse is the flat read model of an order.
type GetOrderQueryResponse struct {
	ID               kernel.ID
	UserID           kernel.ID
	CardVersionID    kernel.ID
	State            order.State
	Quantity         int
	Subtotal         int64
	Tax              int64
	Shipping         int64
	Discount         int64
	Total            int64
	ShippingAddress  string
	ShippingName     string
	TrackingNumber   string
	ShippingLabelURL string
	PrintSpecURL     string
	CreatedAt        time.Time
	UpdatedAt        time.Time
	Version          int64
}

// NewGetOrderQueryResponse builds the read model from an aggregate.
func NewGetOrderQueryResponse(o *order.Order) GetOrderQueryResponse {
	return GetOrderQueryResponse{
		ID:               o.ID(),
		UserID:           o.UserID(),
		CardVersionID:    o.CardVersionID(),
		State:            o.State(),
		Quantity:         o.Quantity(),
		Subtotal:         o.Price().Subtotal(),
		Tax:              o.Price().Tax(),
		Shipping:         o.Price().Shipping(),
		Discount:         o.Price().Discount(),
		Total:            o.Price().Total(),
		ShippingAddress:  o.ShippingAddress(),
		ShippingName:     o.ShippingName(),
		TrackingNumber:   o.TrackingNumber(),
		ShippingLabelURL: o.ShippingLabelURL(),
		PrintSpecURL:     o.PrintSpecURL(),
		CreatedAt:        o.CreatedAt(),
		UpdatedAt:        o.UpdatedAt(),
		Version:          o.Version(),
	}
}
