package commands_test

import (
	"errors"
	"testing"
	"time"

	"cardorders/internal/core/application/usecases/commands"
	"cardorders/internal/core/domain/model/kernel"
	"cardorders/internal/core/domain/model/order"
	"cardorders/internal/core/domain/model/order/ordertest"
	"cardorders/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newCreateOrderCommand(t *testing.T, state order.State) commands.CreateOrderCommand {
	t.Helper()
	cmd, err := commands.NewCreateOrderCommand(
		kernel.NewID(kernel.OrderPrefix),
		kernel.NewID(kernel.UserPrefix),
		kernel.NewID(kernel.CardVersionPrefix),
		500,
		ordertest.Price(t),
		state,
		order.UserTrigger,
	)
	require.NoError(t, err)
	return cmd
}

func TestCreateOrderCommandHandler_Handle_Success(t *testing.T) {
	ctx := t.Context()
	cmd := newCreateOrderCommand(t, order.Captured)

	orderRepo := new(MockOrderRepository)
	eventRepo := new(MockOrderEventRepository)
	uow := new(MockUoW)

	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(orderRepo).Once(),
		orderRepo.On("Add", ctx, mock.AnythingOfType("*order.Order")).Return(nil).Once(),
		uow.On("OrderEventRepository").Return(eventRepo).Once(),
		eventRepo.On("Append", ctx, singleEvent(order.Captured, order.UserTrigger)).Return(nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockUoWFactory)
	factory.On("Create").Return(uow).Once()

	handler := commands.NewCreateOrderCommandHandler(factory, fixedMachine())
	created, err := handler.Handle(ctx, cmd)

	require.NoError(t, err)
	assert.Equal(t, cmd.OrderID(), created.ID())
	assert.Equal(t, cmd.UserID(), created.UserID())
	assert.Equal(t, order.Captured, created.State())
	assert.Equal(t, 500, created.Quantity())
	assert.Equal(t, ordertest.Epoch.Add(time.Hour), created.CreatedAt())
	uow.AssertExpectations(t)
	eventRepo.AssertExpectations(t)
}

func TestCreateOrderCommandHandler_Handle_AddError(t *testing.T) {
	ctx := t.Context()
	cmd := newCreateOrderCommand(t, order.Initialized)

	orderRepo := new(MockOrderRepository)
	uow := new(MockUoW)

	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(orderRepo).Once(),
		orderRepo.On("Add", ctx, mock.Anything).Return(errors.New("duplicate key")).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockUoWFactory)
	factory.On("Create").Return(uow).Once()

	handler := commands.NewCreateOrderCommandHandler(factory, fixedMachine())
	created, err := handler.Handle(ctx, cmd)

	require.EqualError(t, err, "duplicate key")
	assert.Nil(t, created)
	uow.AssertNotCalled(t, "OrderEventRepository")
	uow.AssertNotCalled(t, "Commit", mock.Anything)
}

func TestCreateOrderCommandHandler_Handle_ValidationError(t *testing.T) {
	factory := new(MockUoWFactory)
	handler := commands.NewCreateOrderCommandHandler(factory, fixedMachine())

	_, err := handler.Handle(t.Context(), commands.CreateOrderCommand{})

	require.ErrorIs(t, err, commands.ErrCreateOrderCommandIsNotConstructed)
	factory.AssertNotCalled(t, "Create")
}

func TestNewCreateOrderCommand_InvalidInput(t *testing.T) {
	price := ordertest.Price(t)
	orderID := kernel.NewID(kernel.OrderPrefix)
	userID := kernel.NewID(kernel.UserPrefix)
	cardVersionID := kernel.NewID(kernel.CardVersionPrefix)

	tests := []struct {
		name   string
		build  func() (commands.CreateOrderCommand, error)
		expect error
	}{
		{
			name: "no user",
			build: func() (commands.CreateOrderCommand, error) {
				return commands.NewCreateOrderCommand(orderID, kernel.ID{}, cardVersionID, 1, price, order.Initialized, order.UserTrigger)
			},
			expect: commands.ErrNoUserSpecified,
		},
		{
			name: "zero quantity",
			build: func() (commands.CreateOrderCommand, error) {
				return commands.NewCreateOrderCommand(orderID, userID, cardVersionID, 0, price, order.Initialized, order.UserTrigger)
			},
			expect: errs.ErrValueIsOutOfRange,
		},
		{
			name: "non-initial state",
			build: func() (commands.CreateOrderCommand, error) {
				return commands.NewCreateOrderCommand(orderID, userID, cardVersionID, 1, price, order.Paid, order.UserTrigger)
			},
			expect: errs.ErrValueIsInvalid,
		},
		{
			name: "card version in the order slot",
			build: func() (commands.CreateOrderCommand, error) {
				return commands.NewCreateOrderCommand(cardVersionID, userID, cardVersionID, 1, price, order.Initialized, order.UserTrigger)
			},
			expect: errs.ErrValueIsInvalid,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.build()
			require.ErrorIs(t, err, tt.expect)
		})
	}
}
