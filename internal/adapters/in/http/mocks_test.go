package http

import (
	"context"

	"cardorders/internal/core/application/usecases/commands"
	"cardorders/internal/core/application/usecases/queries"
	"cardorders/internal/core/domain/model/order"

	"github.com/stretchr/testify/mock"
)

type MockTransitionHandler struct{ mock.Mock }

func (m *MockTransitionHandler) Handle(ctx context.Context, cmd commands.TransitionOrderCommand) (*order.Order, error) {
	args := m.Called(ctx, cmd)
	o, _ := args.Get(0).(*order.Order)
	return o, args.Error(1)
}

type MockBatchHandler struct{ mock.Mock }

func (m *MockBatchHandler) Handle(ctx context.Context, cmd commands.BatchTransitionOrdersCommand) ([]*order.Order, error) {
	args := m.Called(ctx, cmd)
	orders, _ := args.Get(0).([]*order.Order)
	return orders, args.Error(1)
}

type MockCancelHandler struct{ mock.Mock }

func (m *MockCancelHandler) Handle(ctx context.Context, cmd commands.CancelOrderCommand) (*order.Order, error) {
	args := m.Called(ctx, cmd)
	o, _ := args.Get(0).(*order.Order)
	return o, args.Error(1)
}

type MockCheckoutHandler struct{ mock.Mock }

func (m *MockCheckoutHandler) Handle(ctx context.Context, cmd commands.CompleteCheckoutCommand) (*order.Order, error) {
	args := m.Called(ctx, cmd)
	o, _ := args.Get(0).(*order.Order)
	return o, args.Error(1)
}

type MockCreateHandler struct{ mock.Mock }

func (m *MockCreateHandler) Handle(ctx context.Context, cmd commands.CreateOrderCommand) (*order.Order, error) {
	args := m.Called(ctx, cmd)
	o, _ := args.Get(0).(*order.Order)
	return o, args.Error(1)
}

type MockFulfillmentHandler struct{ mock.Mock }

func (m *MockFulfillmentHandler) Handle(ctx context.Context, cmd commands.UpdateFulfillmentCommand) (*order.Order, error) {
	args := m.Called(ctx, cmd)
	o, _ := args.Get(0).(*order.Order)
	return o, args.Error(1)
}

type MockGetOrderHandler struct{ mock.Mock }

func (m *MockGetOrderHandler) Handle(ctx context.Context, query queries.GetOrderQuery) (queries.GetOrderQueryResponse, error) {
	args := m.Called(ctx, query)
	return args.Get(0).(queries.GetOrderQueryResponse), args.Error(1)
}

type MockHistoryHandler struct{ mock.Mock }

func (m *MockHistoryHandler) Handle(ctx context.Context, query queries.GetOrderHistoryQuery) (queries.GetOrderHistoryQueryResponse, error) {
	args := m.Called(ctx, query)
	return args.Get(0).(queries.GetOrderHistoryQueryResponse), args.Error(1)
}

type MockOpenOrdersHandler struct{ mock.Mock }

func (m *MockOpenOrdersHandler) Handle(ctx context.Context, query queries.GetOpenOrdersQuery) ([]queries.GetOpenOrdersQueryResponse, error) {
	args := m.Called(ctx, query)
	rows, _ := args.Get(0).([]queries.GetOpenOrdersQueryResponse)
	return rows, args.Error(1)
}
