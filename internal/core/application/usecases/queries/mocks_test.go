package queries_test

import (
	"context"
	"time"

	"cardorders/internal/core/application/usecases/queries"
	"cardorders/internal/core/domain/model/kernel"
	"cardorders/internal/core/domain/model/order"
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

type MockReader struct {
	orders *MockOrderRepository
	events *MockOrderEventRepository
}

func (r MockReader) OrderRepository() ports.OrderRepository           { return r.orders }
func (r MockReader) OrderEventRepository() ports.OrderEventRepository { return r.events }

// MockSnapshotReader serves reads through ReadSnapshot.
type MockSnapshotReader struct {
	MockReader
	mock.Mock
}

func (r *MockSnapshotReader) ReadSnapshot(
	ctx context.Context,
	fn func(orders ports.OrderRepository, events ports.OrderEventRepository) error,
) error {
	r.Called(ctx)
	return fn(r.orders, r.events)
}

type MockReaderFactory struct{ mock.Mock }

func (m *MockReaderFactory) Create() queries.Reader {
	args := m.Called()
	return args.Get(0).(queries.Reader)
}
