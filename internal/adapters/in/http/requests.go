package http

import (
	"cardorders/internal/core/domain/model/order"

	validatorv10 "github.com/go-playground/validator/v10"
)

// TransitionRequest is the body of POST /api/v1/orders/:id/transitions.
type TransitionRequest struct {
	State   string `json:"state" validate:"required,order_state"`
	Trigger string `json:"trigger" validate:"omitempty,order_trigger"`
}

// BatchTransitionRequest is the body of POST /api/v1/orders/transitions.
type BatchTransitionRequest struct {
	OrderIDs []string `json:"orderIds" validate:"required,min=1,max=100,dive,required"`
	State    string   `json:"state" validate:"required,order_state"`
	Trigger  string   `json:"trigger" validate:"omitempty,order_trigger"`
}

// CheckoutWebhookRequest is the payment provider's checkout-completed payload.
type CheckoutWebhookRequest struct {
	OrderID         string `json:"orderId" validate:"required"`
	Tax             int64  `json:"tax" validate:"min=0"`
	Shipping        int64  `json:"shipping" validate:"min=0"`
	Total           int64  `json:"total" validate:"min=0"`
	ShippingAddress string `json:"shippingAddress" validate:"omitempty,max=512"`
	ShippingName    string `json:"shippingName" validate:"omitempty,max=256"`
}

// CreateOrderRequest is the body of POST /api/v1/orders.
type CreateOrderRequest struct {
	UserID        string `json:"userId" validate:"required"`
	CardVersionID string `json:"cardVersionId" validate:"required"`
	Quantity      int    `json:"quantity" validate:"required,min=1"`
	Subtotal      int64  `json:"subtotal" validate:"min=0"`
	Tax           int64  `json:"tax" validate:"min=0"`
	Shipping      int64  `json:"shipping" validate:"min=0"`
	Discount      int64  `json:"discount" validate:"min=0"`
	Total         int64  `json:"total" validate:"min=0"`
	InitialState  string `json:"initialState" validate:"omitempty,oneof=Initialized Captured"`
	Trigger       string `json:"trigger" validate:"omitempty,order_trigger"`
}

// FulfillmentRequest is the body of PATCH /api/v1/orders/:id/fulfillment.
// Omitted fields are left unchanged; at least one must be present.
type FulfillmentRequest struct {
	TrackingNumber   *string `json:"trackingNumber"`
	ShippingLabelURL *string `json:"shippingLabelUrl" validate:"omitempty,url"`
	PrintSpecURL     *string `json:"printSpecUrl" validate:"omitempty,url"`
}

// RequestValidator plugs validator/v10 into echo.
type RequestValidator struct {
	validate *validatorv10.Validate
}

// NewRequestValidator registers the order_state and order_trigger tags and
// the struct-level rule for fulfillment updates.
func NewRequestValidator() *RequestValidator {
	v := validatorv10.New()

	_ = v.RegisterValidation("order_state", func(fl validatorv10.FieldLevel) bool {
		_, err := order.ParseState(fl.Field().String())
		return err == nil
	})
	_ = v.RegisterValidation("order_trigger", func(fl validatorv10.FieldLevel) bool {
		_, err := order.ParseTrigger(fl.Field().String())
		return err == nil
	})
	v.RegisterStructValidation(fulfillmentStructValidation, FulfillmentRequest{})

	return &RequestValidator{validate: v}
}

// Validate implements echo.Validator.
func (rv *RequestValidator) Validate(i any) error {
	return rv.validate.Struct(i)
}

func fulfillmentStructValidation(sl validatorv10.StructLevel) {
	req := sl.Current().Interface().(FulfillmentRequest)
	if req.TrackingNumber == nil && req.ShippingLabelURL == nil && req.PrintSpecURL == nil {
		sl.ReportError(req, "fulfillment", "FulfillmentRequest", "fulfillment_not_empty", "")
	}
}

// validationDetails flattens validator errors into field -> rule.
func validationDetails(err error) map[string]string {
	out := map[string]string{}
	if ve, ok := err.(validatorv10.ValidationErrors); ok {
		for _, fe := range ve {
			out[fe.Field()] = fe.Tag()
		}
		return out
	}
	out["body"] = err.Error()
	return out
}
