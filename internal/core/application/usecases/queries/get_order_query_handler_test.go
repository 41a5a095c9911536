package queries_test

import (
	"testing"

	"cardorders/internal/core/application/usecases/queries"
	"cardorders/internal/core/domain/model/kernel"
	"cardorders/internal/core/domain/model/order"
	"cardorders/internal/core/domain/model/order/ordertest"
	"cardorders/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetOrderQueryHandler_Handle_ReturnsReadModel(t *testing.T) {
	ctx := t.Context()
	testOrder := ordertest.InState(t, order.Reviewed)
	orders := new(MockOrderRepository)
	orders.On("Get", ctx, testOrder.ID()).Return(testOrder, nil).Once()
	factory := new(MockReaderFactory)
	factory.On("Create").Return(MockReader{orders: orders}).Once()

	query, err := queries.NewGetOrderQuery(testOrder.ID())
	require.NoError(t, err)
	response, err := queries.NewGetOrderQueryHandler(factory).Handle(ctx, query)

	require.NoError(t, err)
	assert.Equal(t, testOrder.ID(), response.ID)
	assert.Equal(t, order.Reviewed, response.State)
	assert.Equal(t, 250, response.Quantity)
	assert.Equal(t, int64(5000), response.Total)
	assert.Equal(t, int64(3), response.Version)
	orders.AssertExpectations(t)
}

func TestGetOrderQueryHandler_Handle_NotFound(t *testing.T) {
	ctx := t.Context()
	id := kernel.NewID(kernel.OrderPrefix)
	orders := new(MockOrderRepository)
	orders.On("Get", ctx, id).Return(nil, errs.NewObjectNotFoundError("order", id.String())).Once()
	factory := new(MockReaderFactory)
	factory.On("Create").Return(MockReader{orders: orders}).Once()

	query, err := queries.NewGetOrderQuery(id)
	require.NoError(t, err)
	_, err = queries.NewGetOrderQueryHandler(factory).Handle(ctx, query)

	require.ErrorIs(t, err, errs.ErrObjectNotFound)
}

func TestGetOrderQueryHandler_Handle_ValidationError(t *testing.T) {
	factory := new(MockReaderFactory)

	_, err := queries.NewGetOrderQueryHandler(factory).Handle(t.Context(), queries.GetOrderQuery{})

	require.ErrorIs(t, err, queries.ErrGetOrderQueryIsNotConstructed)
	factory.AssertNotCalled(t, "Create")
}

func TestNewGetOrderQuery_RejectsForeignPrefix(t *testing.T) {
	_, err := queries.NewGetOrderQuery(kernel.NewID(kernel.OrderEventPrefix))

	require.ErrorIs(t, err, errs.ErrValueIsInvalid)
}
