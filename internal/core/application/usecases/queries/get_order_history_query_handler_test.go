package queries_test

import (
	"testing"
	"time"

	"cardorders/internal/core/application/usecases/queries"
	"cardorders/internal/core/domain/model/kernel"
	"cardorders/internal/core/domain/model/order"
	"cardorders/internal/core/domain/model/order/ordertest"
	"cardorders/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func historyFor(t *testing.T, orderID kernel.ID, steps ...order.State) []*order.Event {
	t.Helper()
	events := make([]*order.Event, 0, len(steps))
	for i, state := range steps {
		trigger := order.InternalTrigger
		if state == order.Paid {
			trigger = order.PaymentTrigger
		}
		event, err := order.NewEvent(orderID, trigger, state, ordertest.Epoch.Add(time.Duration(i)*time.Minute))
		require.NoError(t, err)
		events = append(events, event)
	}
	return events
}

func runHistory(
	t *testing.T,
	policy order.TransitionPolicy,
	testOrder *order.Order,
	events []*order.Event,
) queries.GetOrderHistoryQueryResponse {
	t.Helper()
	ctx := t.Context()
	orders := new(MockOrderRepository)
	orders.On("Get", ctx, testOrder.ID()).Return(testOrder, nil).Once()
	ledger := new(MockOrderEventRepository)
	ledger.On("ListForOrder", ctx, testOrder.ID()).Return(events, nil).Once()
	factory := new(MockReaderFactory)
	factory.On("Create").Return(MockReader{orders: orders, events: ledger}).Once()

	query, err := queries.NewGetOrderHistoryQuery(testOrder.ID())
	require.NoError(t, err)
	response, err := queries.NewGetOrderHistoryQueryHandler(factory, policy).Handle(ctx, query)
	require.NoError(t, err)
	return response
}

func TestGetOrderHistoryQueryHandler_Handle_ConsistentLedger(t *testing.T) {
	testOrder := ordertest.InState(t, order.Actionable)
	events := historyFor(t, testOrder.ID(), order.Initialized, order.Captured, order.Paid, order.Actionable)

	response := runHistory(t, order.MustDefaultTransitionPolicy(), testOrder, events)

	assert.True(t, response.Consistent)
	assert.Equal(t, order.Actionable, response.ReplayedState)
	assert.Empty(t, response.ReplayError)
	require.Len(t, response.Events, 4)
	assert.Equal(t, order.PaymentTrigger, response.Events[2].Trigger)
}

func TestGetOrderHistoryQueryHandler_Handle_LedgerBehindOrder(t *testing.T) {
	testOrder := ordertest.InState(t, order.Reviewed)
	events := historyFor(t, testOrder.ID(), order.Initialized, order.Captured)

	response := runHistory(t, order.MustDefaultTransitionPolicy(), testOrder, events)

	assert.False(t, response.Consistent)
	assert.Equal(t, order.Captured, response.ReplayedState)
}

func TestGetOrderHistoryQueryHandler_Handle_PolicyViolationReported(t *testing.T) {
	testOrder := ordertest.InState(t, order.Reviewed)
	events := historyFor(t, testOrder.ID(), order.Initialized, order.Reviewed)

	response := runHistory(t, order.MustDefaultTransitionPolicy(), testOrder, events)

	assert.True(t, response.Consistent)
	assert.Equal(t, order.Reviewed, response.ReplayedState)
	assert.Empty(t, response.ReplayError)
	assert.Contains(t, response.PolicyError, "invalid-transition")
}

func TestGetOrderHistoryQueryHandler_Handle_HistoryOlderThanPolicy(t *testing.T) {
	testOrder := ordertest.InState(t, order.Canceled)
	events := historyFor(t, testOrder.ID(), order.Initialized, order.Captured, order.Paid, order.Canceled)
	stricter := order.MustDefaultTransitionPolicy(order.WithoutCancellationFrom(order.Paid))

	response := runHistory(t, stricter, testOrder, events)

	assert.True(t, response.Consistent, "a later policy change must not break old histories")
	assert.Equal(t, order.Canceled, response.ReplayedState)
	assert.Contains(t, response.PolicyError, "Paid -> Canceled")
}

func TestGetOrderHistoryQueryHandler_Handle_BrokenLedgerReported(t *testing.T) {
	testOrder := ordertest.InState(t, order.Reviewed)
	events := historyFor(t, testOrder.ID(), order.Actionable, order.Reviewed)

	response := runHistory(t, order.MustDefaultTransitionPolicy(), testOrder, events)

	assert.False(t, response.Consistent)
	assert.Contains(t, response.ReplayError, "not an initial state")
	assert.Equal(t, order.Unknown, response.ReplayedState)
	assert.False(t, response.Snapshot)
}

func TestGetOrderHistoryQueryHandler_Handle_ReadsFromSnapshot(t *testing.T) {
	ctx := t.Context()
	testOrder := ordertest.InState(t, order.Actionable)
	orders := new(MockOrderRepository)
	orders.On("Get", ctx, testOrder.ID()).Return(testOrder, nil).Once()
	ledger := new(MockOrderEventRepository)
	ledger.On("ListForOrder", ctx, testOrder.ID()).
		Return(historyFor(t, testOrder.ID(), order.Initialized, order.Captured, order.Paid, order.Actionable), nil).Once()
	reader := &MockSnapshotReader{MockReader: MockReader{orders: orders, events: ledger}}
	reader.On("ReadSnapshot", ctx).Once()
	factory := new(MockReaderFactory)
	factory.On("Create").Return(reader).Once()

	query, err := queries.NewGetOrderHistoryQuery(testOrder.ID())
	require.NoError(t, err)
	response, err := queries.NewGetOrderHistoryQueryHandler(factory, order.MustDefaultTransitionPolicy()).Handle(ctx, query)

	require.NoError(t, err)
	assert.True(t, response.Snapshot)
	assert.True(t, response.Consistent)
	reader.AssertExpectations(t)
	orders.AssertExpectations(t)
	ledger.AssertExpectations(t)
}

func TestGetOrderHistoryQueryHandler_Handle_SnapshotReadFailure(t *testing.T) {
	ctx := t.Context()
	testOrder := ordertest.InState(t, order.Actionable)
	orders := new(MockOrderRepository)
	orders.On("Get", ctx, testOrder.ID()).Return(nil, errs.NewObjectNotFoundError("order", testOrder.ID())).Once()
	reader := &MockSnapshotReader{MockReader: MockReader{orders: orders, events: new(MockOrderEventRepository)}}
	reader.On("ReadSnapshot", ctx).Once()
	factory := new(MockReaderFactory)
	factory.On("Create").Return(reader).Once()

	query, err := queries.NewGetOrderHistoryQuery(testOrder.ID())
	require.NoError(t, err)
	_, err = queries.NewGetOrderHistoryQueryHandler(factory, order.MustDefaultTransitionPolicy()).Handle(ctx, query)

	require.ErrorIs(t, err, errs.ErrObjectNotFound)
}

func TestGetOrderHistoryQueryHandler_Handle_ValidationError(t *testing.T) {
	factory := new(MockReaderFactory)
	handler := queries.NewGetOrderHistoryQueryHandler(factory, order.MustDefaultTransitionPolicy())

	_, err := handler.Handle(t.Context(), queries.GetOrderHistoryQuery{})

	require.ErrorIs(t, err, queries.ErrGetOrderHistoryQueryIsNotConstructed)
	factory.AssertNotCalled(t, "Create")
}
