package http

import (
	"time"

	"cardorders/internal/core/application/usecases/queries"
	"cardorders/internal/core/domain/model/order"
)

// ErrorResponse is the body of every non-2xx response. Error carries the
// stable identifier (e.g. invalid-transition).
type ErrorResponse struct {
	Code    int               `json:"code"`
	Error   string            `json:"error"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

type OrderResponse struct {
	ID               string    `json:"id"`
	UserID           string    `json:"userId"`
	CardVersionID    string    `json:"cardVersionId"`
	State            string    `json:"state"`
	Quantity         int       `json:"quantity"`
	Subtotal         int64     `json:"subtotal"`
	Tax              int64     `json:"tax"`
	Shipping         int64     `json:"shipping"`
	Discount         int64     `json:"discount"`
	Total            int64     `json:"total"`
	ShippingAddress  string    `json:"shippingAddress,omitempty"`
	ShippingName     string    `json:"shippingName,omitempty"`
	TrackingNumber   string    `json:"trackingNumber,omitempty"`
	ShippingLabelURL string    `json:"shippingLabelUrl,omitempty"`
	PrintSpecURL     string    `json:"printSpecUrl,omitempty"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
	Version          int64     `json:"version"`
}

type OrderEventResponse struct {
	ID          string     `json:"id"`
	Trigger     string     `json:"trigger,omitempty"`
	State       string     `json:"state"`
	CreatedAt   time.Time  `json:"createdAt"`
	PublishedAt *time.Time `json:"publishedAt,omitempty"`
}

type OrderHistoryResponse struct {
	OrderID       string               `json:"orderId"`
	State         string               `json:"state"`
	Events        []OrderEventResponse `json:"events"`
	ReplayedState string               `json:"replayedState"`
	ReplayError   string               `json:"replayError,omitempty"`
	PolicyError   string               `json:"policyError,omitempty"`
	Consistent    bool                 `json:"consistent"`
	Snapshot      bool                 `json:"snapshot"`
}

type OpenOrderResponse struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	State     string    `json:"state"`
	Quantity  int       `json:"quantity"`
	Total     int64     `json:"total"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func newOrderResponse(o *order.Order) OrderResponse {
	return fromOrderView(queries.NewGetOrderQueryResponse(o))
}

func fromOrderView(v queries.GetOrderQueryResponse) OrderResponse {
	return OrderResponse{
		ID:               v.ID.String(),
		UserID:           v.UserID.String(),
		CardVersionID:    v.CardVersionID.String(),
		State:            v.State.String(),
		Quantity:         v.Quantity,
		Subtotal:         v.Subtotal,
		Tax:              v.Tax,
		Shipping:         v.Shipping,
		Discount:         v.Discount,
		Total:            v.Total,
		ShippingAddress:  v.ShippingAddress,
		ShippingName:     v.ShippingName,
		TrackingNumber:   v.TrackingNumber,
		ShippingLabelURL: v.ShippingLabelURL,
		PrintSpecURL:     v.PrintSpecURL,
		CreatedAt:        v.CreatedAt,
		UpdatedAt:        v.UpdatedAt,
		Version:          v.Version,
	}
}

func fromHistory(h queries.GetOrderHistoryQueryResponse) OrderHistoryResponse {
	events := make([]OrderEventResponse, 0, len(h.Events))
	for _, e := range h.Events {
		events = append(events, OrderEventResponse{
			ID:          e.ID.String(),
			Trigger:     e.Trigger.String(),
			State:       e.State.String(),
			CreatedAt:   e.CreatedAt,
			PublishedAt: e.PublishedAt,
		})
	}

	return OrderHistoryResponse{
		OrderID:       h.OrderID.String(),
		State:         h.State.String(),
		Events:        events,
		ReplayedState: h.ReplayedState.String(),
		ReplayError:   h.ReplayError,
		PolicyError:   h.PolicyError,
		Consistent:    h.Consistent,
		Snapshot:      h.Snapshot,
	}
}

func fromOpenOrders(rows []queries.GetOpenOrdersQueryResponse) []OpenOrderResponse {
	out := make([]OpenOrderResponse, 0, len(rows))
	for _, r := range rows {
		out = append(out, OpenOrderResponse{
			ID:        r.ID.String(),
			UserID:    r.UserID.String(),
			State:     r.State.String(),
			Quantity:  r.Quantity,
			Total:     r.Total,
			UpdatedAt: r.UpdatedAt,
		})
	}
	return out
}
