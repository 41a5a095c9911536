// Package http exposes the order lifecycle over a small JSON API built on echo.
// The routes are a thin convenience over the command and query handlers.
package http

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"cardorders/internal/core/application/usecases/commands"
	"cardorders/internal/core/application/usecases/queries"
	"cardorders/internal/core/domain/model/kernel"
	"cardorders/internal/core/domain/model/order"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// UserIDHeader carries the authenticated end user on cancellation requests.
const UserIDHeader = "X-User-ID"

const defaultOpenOrdersLimit = 100

type (
	TransitionOrderHandler interface {
		Handle(ctx context.Context, cmd commands.TransitionOrderCommand) (*order.Order, error)
	}
	BatchTransitionOrdersHandler interface {
		Handle(ctx context.Context, cmd commands.BatchTransitionOrdersCommand) ([]*order.Order, error)
	}
	CancelOrderHandler interface {
		Handle(ctx context.Context, cmd commands.CancelOrderCommand) (*order.Order, error)
	}
	CompleteCheckoutHandler interface {
		Handle(ctx context.Context, cmd commands.CompleteCheckoutCommand) (*order.Order, error)
	}
	CreateOrderHandler interface {
		Handle(ctx context.Context, cmd commands.CreateOrderCommand) (*order.Order, error)
	}
	UpdateFulfillmentHandler interface {
		Handle(ctx context.Context, cmd commands.UpdateFulfillmentCommand) (*order.Order, error)
	}
	GetOrderHandler interface {
		Handle(ctx context.Context, query queries.GetOrderQuery) (queries.GetOrderQueryResponse, error)
	}
	GetOrderHistoryHandler interface {
		Handle(ctx context.Context, query queries.GetOrderHistoryQuery) (queries.GetOrderHistoryQueryResponse, error)
	}
	GetOpenOrdersHandler interface {
		Handle(ctx context.Context, query queries.GetOpenOrdersQuery) ([]queries.GetOpenOrdersQueryResponse, error)
	}
)

// Handlers groups the use cases served over HTTP. OpenOrders may be nil when
// the store cannot list orders; the route then answers 501.
type Handlers struct {
	Transition      TransitionOrderHandler
	BatchTransition BatchTransitionOrdersHandler
	Cancel          CancelOrderHandler
	Checkout        CompleteCheckoutHandler
	Create          CreateOrderHandler
	Fulfillment     UpdateFulfillmentHandler
	GetOrder        GetOrderHandler
	History         GetOrderHistoryHandler
	OpenOrders      GetOpenOrdersHandler
}

// Server translates HTTP requests into commands and queries.
type Server struct {
	handlers Handlers
	gatherer prometheus.Gatherer
	logger   *slog.Logger
}

// NewServer creates a server. gatherer backs /metrics.
func NewServer(handlers Handlers, gatherer prometheus.Gatherer, logger *slog.Logger) *Server {
	return &Server{
		handlers: handlers,
		gatherer: gatherer,
		logger:   logger.With("component", "http"),
	}
}

// Register mounts every route on e and installs the request validator.
func (s *Server) Register(e *echo.Echo) {
	e.Validator = NewRequestValidator()

	e.GET("/health", func(c echo.Context) error {
		return c.String(http.StatusOK, "Healthy")
	})
	e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{})))

	v1 := e.Group("/api/v1")
	v1.POST("/orders", s.CreateOrder)
	v1.GET("/orders", s.GetOpenOrders)
	v1.POST("/orders/transitions", s.BatchTransitionOrders)
	v1.GET("/orders/:id", s.GetOrder)
	v1.GET("/orders/:id/history", s.GetOrderHistory)
	v1.POST("/orders/:id/transitions", s.TransitionOrder)
	v1.POST("/orders/:id/cancel", s.CancelOrder)
	v1.PATCH("/orders/:id/fulfillment", s.UpdateFulfillment)
	v1.POST("/webhooks/checkout", s.CompleteCheckout)
}

// TransitionOrder handles POST /api/v1/orders/:id/transitions.
func (s *Server) TransitionOrder(c echo.Context) error {
	orderID, err := kernel.ParseID(kernel.OrderPrefix, c.Param("id"))
	if err != nil {
		return s.fail(c, err)
	}

	var req TransitionRequest
	if resp := s.bind(c, &req); resp != nil {
		return c.JSON(resp.Code, resp)
	}

	state, trigger, err := parseTarget(req.State, req.Trigger)
	if err != nil {
		return s.fail(c, err)
	}

	cmd, err := commands.NewTransitionOrderCommand(orderID, state, trigger)
	if err != nil {
		return s.fail(c, err)
	}

	updated, err := s.handlers.Transition.Handle(c.Request().Context(), cmd)
	if err != nil {
		return s.fail(c, err)
	}

	return c.JSON(http.StatusOK, newOrderResponse(updated))
}

// BatchTransitionOrders handles POST /api/v1/orders/transitions.
func (s *Server) BatchTransitionOrders(c echo.Context) error {
	var req BatchTransitionRequest
	if resp := s.bind(c, &req); resp != nil {
		return c.JSON(resp.Code, resp)
	}

	ids := make([]kernel.ID, 0, len(req.OrderIDs))
	for _, raw := range req.OrderIDs {
		id, err := kernel.ParseID(kernel.OrderPrefix, raw)
		if err != nil {
			return s.fail(c, err)
		}
		ids = append(ids, id)
	}

	state, trigger, err := parseTarget(req.State, req.Trigger)
	if err != nil {
		return s.fail(c, err)
	}

	cmd, err := commands.NewBatchTransitionOrdersCommand(ids, state, trigger)
	if err != nil {
		return s.fail(c, err)
	}

	updated, err := s.handlers.BatchTransition.Handle(c.Request().Context(), cmd)
	if err != nil {
		return s.fail(c, err)
	}

	response := make([]OrderResponse, 0, len(updated))
	for _, o := range updated {
		response = append(response, newOrderResponse(o))
	}
	return c.JSON(http.StatusOK, response)
}

// CancelOrder handles POST /api/v1/orders/:id/cancel on behalf of the user in UserIDHeader.
func (s *Server) CancelOrder(c echo.Context) error {
	orderID, err := kernel.ParseID(kernel.OrderPrefix, c.Param("id"))
	if err != nil {
		return s.fail(c, err)
	}

	var userID kernel.ID
	if raw := c.Request().Header.Get(UserIDHeader); raw != "" {
		if userID, err = kernel.ParseID(kernel.UserPrefix, raw); err != nil {
			return s.fail(c, err)
		}
	}

	cmd, err := commands.NewCancelOrderCommand(orderID, userID)
	if err != nil {
		return s.fail(c, err)
	}

	updated, err := s.handlers.Cancel.Handle(c.Request().Context(), cmd)
	if err != nil {
		return s.fail(c, err)
	}

	return c.JSON(http.StatusOK, newOrderResponse(updated))
}

// CompleteCheckout handles the payment provider's checkout-completed webhook.
func (s *Server) CompleteCheckout(c echo.Context) error {
	var req CheckoutWebhookRequest
	if resp := s.bind(c, &req); resp != nil {
		return c.JSON(resp.Code, resp)
	}

	orderID, err := kernel.ParseID(kernel.OrderPrefix, req.OrderID)
	if err != nil {
		return s.fail(c, err)
	}

	cmd, err := commands.NewCompleteCheckoutCommand(orderID, order.CheckoutDetails{
		Tax:             req.Tax,
		Shipping:        req.Shipping,
		Total:           req.Total,
		ShippingAddress: req.ShippingAddress,
		ShippingName:    req.ShippingName,
	})
	if err != nil {
		return s.fail(c, err)
	}

	updated, err := s.handlers.Checkout.Handle(c.Request().Context(), cmd)
	if err != nil {
		return s.fail(c, err)
	}

	return c.JSON(http.StatusOK, newOrderResponse(updated))
}

// CreateOrder handles POST /api/v1/orders.
func (s *Server) CreateOrder(c echo.Context) error {
	var req CreateOrderRequest
	if resp := s.bind(c, &req); resp != nil {
		return c.JSON(resp.Code, resp)
	}

	userID, err := kernel.ParseID(kernel.UserPrefix, req.UserID)
	if err != nil {
		return s.fail(c, err)
	}
	cardVersionID, err := kernel.ParseID(kernel.CardVersionPrefix, req.CardVersionID)
	if err != nil {
		return s.fail(c, err)
	}
	price, err := order.NewPrice(req.Subtotal, req.Tax, req.Shipping, req.Discount, req.Total)
	if err != nil {
		return s.fail(c, err)
	}

	initial := order.Initialized
	if req.InitialState != "" {
		if initial, err = order.ParseState(req.InitialState); err != nil {
			return s.fail(c, err)
		}
	}
	trigger := order.UserTrigger
	if req.Trigger != "" {
		if trigger, err = order.ParseTrigger(req.Trigger); err != nil {
			return s.fail(c, err)
		}
	}

	cmd, err := commands.NewCreateOrderCommand(
		kernel.NewID(kernel.OrderPrefix), userID, cardVersionID, req.Quantity, price, initial, trigger,
	)
	if err != nil {
		return s.fail(c, err)
	}

	created, err := s.handlers.Create.Handle(c.Request().Context(), cmd)
	if err != nil {
		return s.fail(c, err)
	}

	return c.JSON(http.StatusCreated, newOrderResponse(created))
}

// UpdateFulfillment handles PATCH /api/v1/orders/:id/fulfillment.
func (s *Server) UpdateFulfillment(c echo.Context) error {
	orderID, err := kernel.ParseID(kernel.OrderPrefix, c.Param("id"))
	if err != nil {
		return s.fail(c, err)
	}

	var req FulfillmentRequest
	if resp := s.bind(c, &req); resp != nil {
		return c.JSON(resp.Code, resp)
	}

	cmd, err := commands.NewUpdateFulfillmentCommand(orderID, order.FulfillmentUpdate{
		TrackingNumber:   req.TrackingNumber,
		ShippingLabelURL: req.ShippingLabelURL,
		PrintSpecURL:     req.PrintSpecURL,
	})
	if err != nil {
		return s.fail(c, err)
	}

	updated, err := s.handlers.Fulfillment.Handle(c.Request().Context(), cmd)
	if err != nil {
		return s.fail(c, err)
	}

	return c.JSON(http.StatusOK, newOrderResponse(updated))
}

// GetOrder handles GET /api/v1/orders/:id.
func (s *Server) GetOrder(c echo.Context) error {
	orderID, err := kernel.ParseID(kernel.OrderPrefix, c.Param("id"))
	if err != nil {
		return s.fail(c, err)
	}

	query, err := queries.NewGetOrderQuery(orderID)
	if err != nil {
		return s.fail(c, err)
	}

	view, err := s.handlers.GetOrder.Handle(c.Request().Context(), query)
	if err != nil {
		return s.fail(c, err)
	}

	return c.JSON(http.StatusOK, fromOrderView(view))
}

// GetOrderHistory handles GET /api/v1/orders/:id/history.
func (s *Server) GetOrderHistory(c echo.Context) error {
	orderID, err := kernel.ParseID(kernel.OrderPrefix, c.Param("id"))
	if err != nil {
		return s.fail(c, err)
	}

	query, err := queries.NewGetOrderHistoryQuery(orderID)
	if err != nil {
		return s.fail(c, err)
	}

	history, err := s.handlers.History.Handle(c.Request().Context(), query)
	if err != nil {
		return s.fail(c, err)
	}

	return c.JSON(http.StatusOK, fromHistory(history))
}

// GetOpenOrders handles GET /api/v1/orders?state=Reviewed&limit=50.
func (s *Server) GetOpenOrders(c echo.Context) error {
	if s.handlers.OpenOrders == nil {
		return c.JSON(http.StatusNotImplemented, ErrorResponse{
			Code:    http.StatusNotImplemented,
			Error:   errNotImplemented,
			Message: "listing open orders is not supported by the configured store",
		})
	}

	state := order.Unknown
	if raw := c.QueryParam("state"); raw != "" {
		parsed, err := order.ParseState(raw)
		if err != nil {
			return s.fail(c, err)
		}
		state = parsed
	}

	limit := defaultOpenOrdersLimit
	if raw := c.QueryParam("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			return c.JSON(http.StatusBadRequest, ErrorResponse{
				Code:    http.StatusBadRequest,
				Error:   errInvalidInput,
				Message: "limit must be an integer",
			})
		}
		limit = parsed
	}

	query, err := queries.NewGetOpenOrdersQuery(state, limit)
	if err != nil {
		return s.fail(c, err)
	}

	rows, err := s.handlers.OpenOrders.Handle(c.Request().Context(), query)
	if err != nil {
		return s.fail(c, err)
	}

	return c.JSON(http.StatusOK, fromOpenOrders(rows))
}

// bind decodes and validates the body. A non-nil result is the 400 response to send.
func (s *Server) bind(c echo.Context, req any) *ErrorResponse {
	if err := c.Bind(req); err != nil {
		return &ErrorResponse{
			Code:    http.StatusBadRequest,
			Error:   errInvalidInput,
			Message: "invalid request body",
		}
	}
	if err := c.Validate(req); err != nil {
		return &ErrorResponse{
			Code:    http.StatusBadRequest,
			Error:   errInvalidInput,
			Message: "validation failed",
			Fields:  validationDetails(err),
		}
	}
	return nil
}

// fail writes the error response for err.
func (s *Server) fail(c echo.Context, err error) error {
	status, identifier := statusFor(err)

	message := err.Error()
	if status == http.StatusInternalServerError {
		s.logger.ErrorContext(c.Request().Context(), "request failed",
			"method", c.Request().Method, "path", c.Path(), "error", err)
		message = "internal error"
	}

	return c.JSON(status, ErrorResponse{Code: status, Error: identifier, Message: message})
}

func parseTarget(rawState, rawTrigger string) (order.State, order.Trigger, error) {
	state, err := order.ParseState(rawState)
	if err != nil {
		return order.Unknown, order.NoTrigger, err
	}

	trigger := order.InternalTrigger
	if rawTrigger != "" {
		if trigger, err = order.ParseTrigger(rawTrigger); err != nil {
			return order.Unknown, order.NoTrigger, err
		}
	}
	return state, trigger, nil
}
