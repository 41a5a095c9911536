package jobs

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"cardorders/internal/core/application/usecases/commands"
	"cardorders/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockEventRelayHandler struct {
	mock.Mock
}

func (m *MockEventRelayHandler) Handle(ctx context.Context, cmd commands.PublishOrderEventsCommand) (int, error) {
	args := m.Called(ctx, cmd)
	return args.Int(0), args.Error(1)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestNewOrderEventRelayJob(t *testing.T) {
	t.Run("default schedule", func(t *testing.T) {
		job, err := NewOrderEventRelayJob(&MockEventRelayHandler{}, "", 50, discardLogger())
		require.NoError(t, err)
		assert.Equal(t, DefaultRelaySchedule, job.schedule)
		assert.Equal(t, 50, job.cmd.BatchSize())
	})

	t.Run("batch size out of range", func(t *testing.T) {
		_, err := NewOrderEventRelayJob(&MockEventRelayHandler{}, "", 0, discardLogger())
		var outOfRange *errs.ValueIsOutOfRangeError
		assert.ErrorAs(t, err, &outOfRange)
	})
}

func TestOrderEventRelayJob_RunOnce(t *testing.T) {
	ctx := context.Background()

	t.Run("published", func(t *testing.T) {
		handler := &MockEventRelayHandler{}
		handler.On("Handle", ctx, mock.MatchedBy(func(cmd commands.PublishOrderEventsCommand) bool {
			return cmd.BatchSize() == 25
		})).Return(3, nil).Once()

		job, err := NewOrderEventRelayJob(handler, "", 25, discardLogger())
		require.NoError(t, err)

		assert.Equal(t, 3, job.RunOnce(ctx))
		handler.AssertExpectations(t)
	})

	t.Run("failure is swallowed until the next tick", func(t *testing.T) {
		handler := &MockEventRelayHandler{}
		handler.On("Handle", ctx, mock.Anything).Return(0, errors.New("broker down")).Once()

		job, err := NewOrderEventRelayJob(handler, "", 25, discardLogger())
		require.NoError(t, err)

		assert.Equal(t, 0, job.RunOnce(ctx))
		handler.AssertExpectations(t)
	})
}

func TestOrderEventRelayJob_StartRunsOnSchedule(t *testing.T) {
	handler := &MockEventRelayHandler{}
	ran := make(chan struct{}, 1)
	handler.On("Handle", mock.Anything, mock.Anything).
		Run(func(mock.Arguments) {
			select {
			case ran <- struct{}{}:
			default:
			}
		}).
		Return(0, nil)

	job, err := NewOrderEventRelayJob(handler, "* * * * * *", 10, discardLogger())
	require.NoError(t, err)
	require.NoError(t, job.Start())
	defer job.Stop()

	select {
	case <-ran:
	case <-time.After(3 * time.Second):
		t.Fatal("relay did not run")
	}
}

func TestOrderEventRelayJob_InvalidSchedule(t *testing.T) {
	job, err := NewOrderEventRelayJob(&MockEventRelayHandler{}, "every minute", 10, discardLogger())
	require.NoError(t, err)

	assert.Error(t, job.Start())
}
