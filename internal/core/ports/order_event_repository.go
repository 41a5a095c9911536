package ports

import (
	"context"
	"time"

	"cardorders/internal/core/domain/model/kernel"
	"cardorders/internal/core/domain/model/order"
)

// OrderEventRepository is the append-only ledger of order transitions.
// Ledger content is never updated or deleted; only the outbox marker
// (PublishedAt) is written after insert.
type OrderEventRepository interface {
	// Append inserts events. An identifier that already exists is an error.
	Append(ctx context.Context, events ...*order.Event) error

	// ListForOrder returns the events of one order oldest first. Events with
	// equal creation times keep their insertion order.
	ListForOrder(ctx context.Context, orderID kernel.ID) ([]*order.Event, error)

	// ListUnpublished returns up to limit events not yet handed to the broker,
	// oldest first.
	ListUnpublished(ctx context.Context, limit int) ([]*order.Event, error)

	// MarkPublished stamps the given events as published at the given time.
	MarkPublished(ctx context.Context, ids []kernel.ID, at time.Time) error
}
