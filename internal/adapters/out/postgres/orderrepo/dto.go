// Package orderrepo provides data transfer objects and mapping functions for order persistence.
// This package implements the repository pattern for the order aggregate, handling
// the conversion between domain entities and database representations.
package orderrepo

import (
	"time"

	"cardorders/internal/core/domain/model/order"
)

// OrderDTO represents the database structure for persisting order aggregates.
// State is stored by name; Version carries the optimistic concurrency token.
type OrderDTO struct {
	ID               string    `gorm:"type:varchar(64);primaryKey"`
	UserID           string    `gorm:"type:varchar(64);not null;index"`
	CardVersionID    string    `gorm:"type:varchar(64);not null"`
	State            string    `gorm:"type:varchar(16);not null;index"`
	Quantity         int       `gorm:"not null"`
	Price            PriceDTO  `gorm:"embedded"`
	ShippingAddress  string    `gorm:"type:text"`
	ShippingName     string    `gorm:"type:text"`
	TrackingNumber   string    `gorm:"type:varchar(128)"`
	ShippingLabelURL string    `gorm:"column:shipping_label_url;type:text"`
	PrintSpecURL     string    `gorm:"column:print_spec_url;type:text"`
	CreatedAt        time.Time `gorm:"not null;autoCreateTime:false"`
	UpdatedAt        time.Time `gorm:"not null;autoUpdateTime:false;index"`
	Version          int64     `gorm:"not null"`
}

// TableName specifies the database table name for order entities.
// Overrides GORM's default naming convention to use "orders".
func (OrderDTO) TableName() string {
	return "orders"
}

// PriceDTO represents the embedded monetary breakdown in minor units.
type PriceDTO struct {
	Subtotal int64 `gorm:"not null"`
	Tax      int64 `gorm:"not null"`
	Shipping int64 `gorm:"not null"`
	Discount int64 `gorm:"not null"`
	Total    int64 `gorm:"not null"`
}

func fromDomain(aggregate *order.Order) OrderDTO {
	s := aggregate.Snapshot()
	return OrderDTO{
		ID:            s.ID,
		UserID:        s.UserID,
		CardVersionID: s.CardVersionID,
		State:         s.State.String(),
		Quantity:      s.Quantity,
		Price: PriceDTO{
			Subtotal: s.Subtotal,
			Tax:      s.Tax,
			Shipping: s.Shipping,
			Discount: s.Discount,
			Total:    s.Total,
		},
		ShippingAddress:  s.ShippingAddress,
		ShippingName:     s.ShippingName,
		TrackingNumber:   s.TrackingNumber,
		ShippingLabelURL: s.ShippingLabelURL,
		PrintSpecURL:     s.PrintSpecURL,
		CreatedAt:        s.CreatedAt,
		UpdatedAt:        s.UpdatedAt,
		Version:          s.Version,
	}
}

func toDomain(dto OrderDTO) (*order.Order, error) {
	state, err := order.ParseState(dto.State)
	if err != nil {
		return nil, err
	}

	return order.RestoreOrder(order.Snapshot{
		ID:               dto.ID,
		UserID:           dto.UserID,
		CardVersionID:    dto.CardVersionID,
		State:            state,
		Quantity:         dto.Quantity,
		Subtotal:         dto.Price.Subtotal,
		Tax:              dto.Price.Tax,
		Shipping:         dto.Price.Shipping,
		Discount:         dto.Price.Discount,
		Total:            dto.Price.Total,
		ShippingAddress:  dto.ShippingAddress,
		ShippingName:     dto.ShippingName,
		TrackingNumber:   dto.TrackingNumber,
		ShippingLabelURL: dto.ShippingLabelURL,
		PrintSpecURL:     dto.PrintSpecURL,
		CreatedAt:        dto.CreatedAt,
		UpdatedAt:        dto.UpdatedAt,
		Version:          dto.Version,
	})
}
