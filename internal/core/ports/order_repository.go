// Package ports defines the contracts between the order lifecycle core and
// its infrastructure: persistence, the event ledger, publishing and metrics.
// These interfaces enable dependency inversion and testability.
package ports

import (
	"context"

	"cardorders/internal/core/domain/model/kernel"
	"cardorders/internal/core/domain/model/order"
)

// OrderRepository defines the persistence contract for order aggregates.
type OrderRepository interface {
	// Add persists a new order aggregate.
	// The order must be valid and not already exist in the repository.
	Add(ctx context.Context, aggregate *order.Order) error

	// Update persists changes to an existing order aggregate.
	// The write is conditional on the version the order was loaded with
	// (order.PersistedVersion). When another writer got there first the
	// repository returns an errs.VersionIsInvalidError and writes nothing.
	Update(ctx context.Context, aggregate *order.Order) error

	// Get retrieves an order aggregate by its identifier.
	// Returns errs.ObjectNotFoundError when no such order exists.
	Get(ctx context.Context, id kernel.ID) (*order.Order, error)

	// GetMany retrieves every order whose identifier is listed. Unknown
	// identifiers are omitted from the result; the order of the result is
	// unspecified.
	//
	// Example:
	//   orders, err := repo.GetMany(ctx, ids)
	//   if err != nil {
	//       return fmt.Errorf("failed to load orders: %w", err)
	//   }
	//   if len(orders) != len(ids) {
	//       // at least one identifier did not resolve
	//   }
	GetMany(ctx context.Context, ids []kernel.ID) ([]*order.Order, error)
}
