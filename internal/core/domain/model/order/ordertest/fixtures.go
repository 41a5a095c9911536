// Package ordertest builds Order aggregates in arbitrary states for tests of
// the layers above the domain model.
package ordertest

import (
	"testing"
	"time"

	"cardorders/internal/core/domain/model/kernel"
	"cardorders/internal/core/domain/model/order"

	"github.com/stretchr/testify/require"
)

// Epoch is the fixed creation time of fixture orders.
var Epoch = time.Date(2024, time.March, 1, 9, 0, 0, 0, time.UTC)

// Price returns a consistent price: 5000 + 0 tax + 0 shipping - 0 discount.
func Price(t testing.TB) order.Price {
	t.Helper()
	price, err := order.NewPrice(5000, 0, 0, 0, 5000)
	require.NoError(t, err)
	return price
}

// NewOrder creates a fresh Initialized order owned by a random user.
func NewOrder(t testing.TB) *order.Order {
	t.Helper()
	return NewOrderFor(t, kernel.NewID(kernel.UserPrefix))
}

// NewOrderFor creates a fresh Initialized order owned by userID.
func NewOrderFor(t testing.TB, userID kernel.ID) *order.Order {
	t.Helper()
	o, _, err := order.NewOrder(
		kernel.NewID(kernel.OrderPrefix),
		userID,
		kernel.NewID(kernel.CardVersionPrefix),
		250,
		Price(t),
		order.Initialized,
		order.InternalTrigger,
		Epoch,
	)
	require.NoError(t, err)
	return o
}

// InState returns a persisted-looking order (version 3) sitting in state.
func InState(t testing.TB, state order.State) *order.Order {
	t.Helper()
	return InStateFor(t, state, kernel.NewID(kernel.UserPrefix))
}

// InStateFor is InState for an order owned by userID.
func InStateFor(t testing.TB, state order.State, userID kernel.ID) *order.Order {
	t.Helper()
	o, err := order.RestoreOrder(order.Snapshot{
		ID:            kernel.NewID(kernel.OrderPrefix).String(),
		UserID:        userID.String(),
		CardVersionID: kernel.NewID(kernel.CardVersionPrefix).String(),
		State:         state,
		Quantity:      250,
		Subtotal:      5000,
		Total:         5000,
		CreatedAt:     Epoch,
		UpdatedAt:     Epoch,
		Version:       3,
	})
	require.NoError(t, err)
	return o
}

// Checkout returns the webhook payload used throughout the tests: 427 tax,
// free shipping and a 5427 total.
func Checkout() order.CheckoutDetails {
	return order.CheckoutDetails{
		Tax:             427,
		Shipping:        0,
		Total:           5427,
		ShippingAddress: "1 Infinite Loop, Cupertino, CA 95014",
		ShippingName:    "Ada Lovelace",
	}
}
