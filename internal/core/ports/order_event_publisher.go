package ports

import (
	"context"

	"cardorders/internal/core/domain/model/order"
)

// OrderEventPublisher hands ledger entries to downstream consumers.
// Delivery is at least once: the relay may publish an event again if marking
// it as published fails.
type OrderEventPublisher interface {
	Publish(ctx context.Context, events []*order.Event) error
}
