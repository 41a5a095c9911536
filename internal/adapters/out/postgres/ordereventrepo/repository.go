package ordereventrepo

import (
	"context"
	"time"

	"cardorders/internal/core/domain/model/kernel"
	"cardorders/internal/core/domain/model/order"
	"cardorders/internal/pkg/errs"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormOrderEventRepository implements OrderEventRepository using GORM.
// Ledger columns are only ever inserted; published_at is the single column
// written afterwards.
type GormOrderEventRepository struct {
	db *gorm.DB
}

// NewGormOrderEventRepository creates a new GORM ledger repository.
func NewGormOrderEventRepository(db *gorm.DB) *GormOrderEventRepository {
	return &GormOrderEventRepository{db: db}
}

// Append inserts the events in the given order.
func (r *GormOrderEventRepository) Append(ctx context.Context, events ...*order.Event) error {
	if len(events) == 0 {
		return nil
	}

	dtos := make([]OrderEventDTO, 0, len(events))
	for _, event := range events {
		if err := event.Validate(); err != nil {
			return err
		}
		dtos = append(dtos, fromDomain(event))
	}

	return r.db.WithContext(ctx).Create(&dtos).Error
}

// ListForOrder returns the ledger of one order ordered by creation time, then insertion.
func (r *GormOrderEventRepository) ListForOrder(ctx context.Context, orderID kernel.ID) ([]*order.Event, error) {
	if err := orderID.ValidatePrefix(kernel.OrderPrefix); err != nil {
		return nil, err
	}

	var dtos []OrderEventDTO
	if err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID.String()).
		Order("created_at, seq").
		Find(&dtos).Error; err != nil {
		return nil, err
	}

	return toDomainList(dtos)
}

// ListUnpublished returns the oldest unpublished events. Inside a transaction
// the rows stay locked until commit and concurrent relays skip them.
func (r *GormOrderEventRepository) ListUnpublished(ctx context.Context, limit int) ([]*order.Event, error) {
	if limit < 1 {
		return nil, errs.NewValueIsOutOfRangeError("limit", limit, 1, "unbounded")
	}

	var dtos []OrderEventDTO
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE", Options: "SKIP LOCKED"}).
		Where("published_at IS NULL").
		Order("seq").
		Limit(limit).
		Find(&dtos).Error; err != nil {
		return nil, err
	}

	return toDomainList(dtos)
}

// MarkPublished stamps the events. Events already published keep their first stamp.
func (r *GormOrderEventRepository) MarkPublished(ctx context.Context, ids []kernel.ID, at time.Time) error {
	if len(ids) == 0 {
		return nil
	}

	keys := make([]string, 0, len(ids))
	for _, id := range ids {
		if err := id.ValidatePrefix(kernel.OrderEventPrefix); err != nil {
			return err
		}
		keys = append(keys, id.String())
	}

	return r.db.WithContext(ctx).
		Model(&OrderEventDTO{}).
		Where("id IN ? AND published_at IS NULL", keys).
		Update("published_at", at.UTC()).Error
}
