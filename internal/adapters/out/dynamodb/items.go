package dynamodb

import (
	"time"

	"cardorders/internal/core/domain/model/order"
)

// orderItem is the stored form of an order.
type orderItem struct {
	OrderID          string    `dynamodbav:"order_id"`
	UserID           string    `dynamodbav:"user_id"`
	CardVersionID    string    `dynamodbav:"card_version_id"`
	State            string    `dynamodbav:"state"`
	Quantity         int       `dynamodbav:"quantity"`
	Subtotal         int64     `dynamodbav:"subtotal"`
	Tax              int64     `dynamodbav:"tax"`
	Shipping         int64     `dynamodbav:"shipping"`
	Discount         int64     `dynamodbav:"discount"`
	Total            int64     `dynamodbav:"total"`
	ShippingAddress  string    `dynamodbav:"shipping_address,omitempty"`
	ShippingName     string    `dynamodbav:"shipping_name,omitempty"`
	TrackingNumber   string    `dynamodbav:"tracking_number,omitempty"`
	ShippingLabelURL string    `dynamodbav:"shipping_label_url,omitempty"`
	PrintSpecURL     string    `dynamodbav:"print_spec_url,omitempty"`
	CreatedAt        time.Time `dynamodbav:"created_at"`
	UpdatedAt        time.Time `dynamodbav:"updated_at"`
	Version          int64     `dynamodbav:"version"`
}

func orderToItem(o *order.Order) orderItem {
	s := o.Snapshot()
	return orderItem{
		OrderID:          s.ID,
		UserID:           s.UserID,
		CardVersionID:    s.CardVersionID,
		State:            s.State.String(),
		Quantity:         s.Quantity,
		Subtotal:         s.Subtotal,
		Tax:              s.Tax,
		Shipping:         s.Shipping,
		Discount:         s.Discount,
		Total:            s.Total,
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

func itemToOrder(item orderItem) (*order.Order, error) {
	state, err := order.ParseState(item.State)
	if err != nil {
		return nil, err
	}

	return order.RestoreOrder(order.Snapshot{
		ID:               item.OrderID,
		UserID:           item.UserID,
		CardVersionID:    item.CardVersionID,
		State:            state,
		Quantity:         item.Quantity,
		Subtotal:         item.Subtotal,
		Tax:              item.Tax,
		Shipping:         item.Shipping,
		Discount:         item.Discount,
		Total:            item.Total,
		ShippingAddress:  item.ShippingAddress,
		ShippingName:     item.ShippingName,
		TrackingNumber:   item.TrackingNumber,
		ShippingLabelURL: item.ShippingLabelURL,
		PrintSpecURL:     item.PrintSpecURL,
		CreatedAt:        item.CreatedAt,
		UpdatedAt:        item.UpdatedAt,
		Version:          item.Version,
	})
}

// eventItem is the stored form of a ledger entry. Seq breaks ties between
// events with equal creation times in append order.
type eventItem struct {
	EventID     string     `dynamodbav:"event_id"`
	OrderID     string     `dynamodbav:"order_id"`
	TriggeredBy string     `dynamodbav:"triggered_by"`
	State       string     `dynamodbav:"state"`
	CreatedAt   time.Time  `dynamodbav:"created_at"`
	Seq         int64      `dynamodbav:"seq"`
	PublishedAt *time.Time `dynamodbav:"published_at,omitempty"`
}

func eventToItem(e *order.Event, seq int64) eventItem {
	return eventItem{
		EventID:     e.ID().String(),
		OrderID:     e.OrderID().String(),
		TriggeredBy: e.Trigger().String(),
		State:       e.State().String(),
		CreatedAt:   e.CreatedAt(),
		Seq:         seq,
		PublishedAt: e.PublishedAt(),
	}
}

func itemToEvent(item eventItem) (*order.Event, error) {
	trigger, err := order.ParseTrigger(item.TriggeredBy)
	if err != nil {
		return nil, err
	}
	state, err := order.ParseState(item.State)
	if err != nil {
		return nil, err
	}

	return order.RestoreEvent(item.EventID, item.OrderID, trigger, state, item.CreatedAt, item.PublishedAt)
}
