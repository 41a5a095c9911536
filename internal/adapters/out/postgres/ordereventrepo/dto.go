// Package ordereventrepo persists the append-only ledger of order transitions.
package ordereventrepo

import (
	"time"

	"cardorders/internal/core/domain/model/order"
)

// OrderEventDTO is one row of the ledger. Seq is the insertion sequence that
// breaks ties between events created at the same instant.
type OrderEventDTO struct {
	Seq         int64      `gorm:"primaryKey;autoIncrement"`
	ID          string     `gorm:"type:varchar(64);not null;uniqueIndex"`
	OrderID     string     `gorm:"type:varchar(64);not null;index:idx_order_events_order_created,priority:1"`
	TriggeredBy string     `gorm:"type:varchar(16);not null"`
	State       string     `gorm:"type:varchar(16);not null"`
	CreatedAt   time.Time  `gorm:"not null;autoCreateTime:false;index:idx_order_events_order_created,priority:2"`
	PublishedAt *time.Time `gorm:"index"`
}

// TableName specifies the database table name for ledger entries.
func (OrderEventDTO) TableName() string {
	return "order_events"
}

func fromDomain(event *order.Event) OrderEventDTO {
	return OrderEventDTO{
		ID:          event.ID().String(),
		OrderID:     event.OrderID().String(),
		TriggeredBy: event.Trigger().String(),
		State:       event.State().String(),
		CreatedAt:   event.CreatedAt(),
		PublishedAt: event.PublishedAt(),
	}
}

func toDomain(dto OrderEventDTO) (*order.Event, error) {
	trigger, err := order.ParseTrigger(dto.TriggeredBy)
	if err != nil {
		return nil, err
	}
	state, err := order.ParseState(dto.State)
	if err != nil {
		return nil, err
	}

	return order.RestoreEvent(dto.ID, dto.OrderID, trigger, state, dto.CreatedAt, dto.PublishedAt)
}

func toDomainList(dtos []OrderEventDTO) ([]*order.Event, error) {
	events := make([]*order.Event, 0, len(dtos))
	for _, dto := range dtos {
		event, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		events = append(events, event)
	}
	return events, nil
}
