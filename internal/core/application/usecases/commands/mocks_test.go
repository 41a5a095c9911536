package commands_test

import (
	"context"
	"time"

	"cardorders/internal/core/application/usecases/commands"
	"cardorders/internal/core/domain/model/kernel"
	"cardorders/internal/core/domain/model/order"
	"cardorders/internal/core/domain/model/order/ordertest"
	"cardorders/internal/core/domain/services"
	"cardorders/internal/core/ports"

	"github.com/stretchr/testify/mock"
)

type MockOrderRepository struct{ mock.Mock }

func (m *MockOrderRepository) Add(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) Update(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) Get(ctx context.Context, id kernel.ID) (*order.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderRepository) GetMany(ctx context.Context, ids []kernel.ID) ([]*order.Order, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*order.Order), args.Error(1)
}

type MockOrderEventRepository struct{ mock.Mock }

func (m *MockOrderEventRepository) Append(ctx context.Context, events ...*order.Event) error {
	args := m.Called(ctx, events)
	return args.Error(0)
}

func (m *MockOrderEventRepository) ListForOrder(ctx context.Context, orderID kernel.ID) ([]*order.Event, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*order.Event), args.Error(1)
}

func (m *MockOrderEventRepository) ListUnpublished(ctx context.Context, limit int) ([]*order.Event, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*order.Event), args.Error(1)
}

func (m *MockOrderEventRepository) MarkPublished(ctx context.Context, ids []kernel.ID, at time.Time) error {
	args := m.Called(ctx, ids, at)
	return args.Error(0)
}

type MockUoW struct{ mock.Mock }

func (m *MockUoW) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) OrderRepository() ports.OrderRepository {
	args := m.Called()
	return args.Get(0).(ports.OrderRepository)
}

func (m *MockUoW) OrderEventRepository() ports.OrderEventRepository {
	args := m.Called()
	return args.Get(0).(ports.OrderEventRepository)
}

type MockUoWFactory struct{ mock.Mock }

func (m *MockUoWFactory) Create() commands.UoW {
	args := m.Called()
	return args.Get(0).(commands.UoW)
}

type MockTransitionMetrics struct{ mock.Mock }

func (m *MockTransitionMetrics) ObserveTransition(from, to order.State, trigger order.Trigger, err error) {
	m.Called(from, to, trigger, err)
}

type MockOrderEventPublisher struct{ mock.Mock }

func (m *MockOrderEventPublisher) Publish(ctx context.Context, events []*order.Event) error {
	args := m.Called(ctx, events)
	return args.Error(0)
}

// fixedMachine is the default state machine with its clock pinned one hour after the fixture epoch.
func fixedMachine() services.OrderStateMachine {
	return services.NewOrderStateMachine(
		order.MustDefaultTransitionPolicy(),
		services.WithClock(func() time.Time { return ordertest.Epoch.Add(time.Hour) }),
	)
}

func singleEvent(state order.State, trigger order.Trigger) any {
	return mock.MatchedBy(func(events []*order.Event) bool {
		return len(events) == 1 && events[0].State() == state && events[0].Trigger() == trigger
	})
}
