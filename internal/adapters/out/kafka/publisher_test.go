package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"cardorders/internal/core/domain/model/kernel"
	"cardorders/internal/core/domain/model/order"
	"cardorders/internal/core/domain/model/order/ordertest"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockMessageWriter struct {
	mock.Mock
}

func (m *MockMessageWriter) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	args := m.Called(ctx, msgs)
	return args.Error(0)
}

func (m *MockMessageWriter) Close() error {
	args := m.Called()
	return args.Error(0)
}

func TestOrderEventPublisher_Publish(t *testing.T) {
	ctx := context.Background()
	orderID := kernel.NewID(kernel.OrderPrefix)

	captured, err := order.NewEvent(orderID, order.UserTrigger, order.Captured, ordertest.Epoch)
	require.NoError(t, err)
	paid, err := order.NewEvent(orderID, order.PaymentTrigger, order.Paid, ordertest.Epoch.Add(time.Minute))
	require.NoError(t, err)

	writer := &MockMessageWriter{}
	var written []kafka.Message
	writer.On("WriteMessages", ctx, mock.Anything).
		Run(func(args mock.Arguments) { written = args.Get(1).([]kafka.Message) }).
		Return(nil).Once()

	require.NoError(t, NewOrderEventPublisher(writer).Publish(ctx, []*order.Event{captured, paid}))
	writer.AssertExpectations(t)

	require.Len(t, written, 2)
	for i, event := range []*order.Event{captured, paid} {
		assert.Equal(t, orderID.String(), string(written[i].Key), "messages are keyed by order")

		var value OrderChanged
		require.NoError(t, json.Unmarshal(written[i].Value, &value))
		assert.Equal(t, event.ID().String(), value.EventID)
		assert.Equal(t, event.State().String(), value.State)
		assert.Equal(t, event.Trigger().String(), value.Trigger)
		assert.True(t, event.CreatedAt().Equal(value.CreatedAt))
	}
}

func TestOrderEventPublisher_NothingToPublish(t *testing.T) {
	writer := &MockMessageWriter{}

	require.NoError(t, NewOrderEventPublisher(writer).Publish(context.Background(), nil))
	writer.AssertNotCalled(t, "WriteMessages", mock.Anything, mock.Anything)
}

func TestOrderEventPublisher_WriteFailure(t *testing.T) {
	ctx := context.Background()
	event, err := order.NewEvent(kernel.NewID(kernel.OrderPrefix), order.InternalTrigger, order.Actionable, ordertest.Epoch)
	require.NoError(t, err)

	brokerDown := errors.New("broker down")
	writer := &MockMessageWriter{}
	writer.On("WriteMessages", ctx, mock.Anything).Return(brokerDown).Once()

	err = NewOrderEventPublisher(writer).Publish(ctx, []*order.Event{event})
	assert.ErrorIs(t, err, brokerDown)
	assert.Contains(t, err.Error(), "write 1 order events")
}

func TestOrderEventPublisher_RejectsUnconstructedEvent(t *testing.T) {
	writer := &MockMessageWriter{}

	err := NewOrderEventPublisher(writer).Publish(context.Background(), []*order.Event{{}})
	assert.ErrorIs(t, err, order.ErrEventIsNotConstructed)
	writer.AssertNotCalled(t, "WriteMessages", mock.Anything, mock.Anything)
}

func TestNewWriter(t *testing.T) {
	w := NewWriter("kafka-1:9092,kafka-2:9092", "order-changed")

	assert.Equal(t, "order-changed", w.Topic)
	assert.NotNil(t, w.Addr)
	assert.Equal(t, kafka.RequireAll, w.RequiredAcks)
	assert.IsType(t, &kafka.Hash{}, w.Balancer)
}
