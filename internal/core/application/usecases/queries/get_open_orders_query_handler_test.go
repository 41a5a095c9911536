package queries_test

import (
	"context"
	"testing"
	"time"

	postgres_adapter "cardorders/internal/adapters/out/postgres"
	"cardorders/internal/core/application/usecases/queries"
	"cardorders/internal/core/domain/model/kernel"
	"cardorders/internal/core/domain/model/order"
	"cardorders/internal/core/domain/model/order/ordertest"
	"cardorders/internal/pkg/errs"

	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	gorm_postgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type GetOpenOrdersQueryHandlerTestSuite struct {
	suite.Suite
	container *postgres.PostgresContainer
	db        *gorm.DB
	handler   queries.GetOpenOrdersQueryHandler
	factory   *postgres_adapter.GormUnitOfWorkFactory
}

func (suite *GetOpenOrdersQueryHandlerTestSuite) SetupSuite() {
	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	suite.Require().NoError(err)
	suite.container = container

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	suite.Require().NoError(err)

	db, err := gorm.Open(gorm_postgres.Open(dsn), &gorm.Config{})
	suite.Require().NoError(err)
	suite.db = db

	suite.Require().NoError(postgres_adapter.Migrate(db))

	suite.handler = queries.NewGetOpenOrdersQueryHandler(db)
	suite.factory = postgres_adapter.NewGormUnitOfWorkFactory(db)
}

func (suite *GetOpenOrdersQueryHandlerTestSuite) TearDownSuite() {
	if suite.container != nil {
		err := suite.container.Terminate(context.Background())
		suite.Require().NoError(err)
	}
}

func (suite *GetOpenOrdersQueryHandlerTestSuite) SetupTest() {
	err := suite.db.Exec("TRUNCATE TABLE orders").Error
	suite.Require().NoError(err)
}

func (suite *GetOpenOrdersQueryHandlerTestSuite) TestHandle_EmptyDatabase() {
	query, err := queries.NewGetOpenOrdersQuery(order.Unknown, 10)
	suite.Require().NoError(err)

	result, err := suite.handler.Handle(context.Background(), query)

	suite.Require().NoError(err)
	suite.Empty(result)
}

func (suite *GetOpenOrdersQueryHandlerTestSuite) TestHandle_ExcludesTerminalOrders() {
	reviewed := suite.seed(order.Reviewed, 0)
	paid := suite.seed(order.Paid, time.Minute)
	suite.seed(order.Fulfilled, 2*time.Minute)
	suite.seed(order.Canceled, 3*time.Minute)

	query, err := queries.NewGetOpenOrdersQuery(order.Unknown, 10)
	suite.Require().NoError(err)
	result, err := suite.handler.Handle(context.Background(), query)

	suite.Require().NoError(err)
	suite.Require().Len(result, 2)
	suite.Equal(reviewed.ID(), result[0].ID)
	suite.Equal(paid.ID(), result[1].ID)
	suite.Equal(order.Paid, result[1].State)
	suite.Equal(int64(5000), result[1].Total)
	suite.Equal(paid.UserID(), result[1].UserID)
}

func (suite *GetOpenOrdersQueryHandlerTestSuite) TestHandle_FiltersByStateAndLimit() {
	first := suite.seed(order.Reviewed, 0)
	suite.seed(order.Reviewed, time.Minute)
	suite.seed(order.Creating, 2*time.Minute)

	query, err := queries.NewGetOpenOrdersQuery(order.Reviewed, 1)
	suite.Require().NoError(err)
	result, err := suite.handler.Handle(context.Background(), query)

	suite.Require().NoError(err)
	suite.Require().Len(result, 1)
	suite.Equal(first.ID(), result[0].ID)
}

func (suite *GetOpenOrdersQueryHandlerTestSuite) TestNewQuery_RejectsTerminalStateAndBadLimit() {
	_, err := queries.NewGetOpenOrdersQuery(order.Canceled, 10)
	suite.Require().ErrorIs(err, errs.ErrValueIsInvalid)

	_, err = queries.NewGetOpenOrdersQuery(order.Unknown, 501)
	suite.Require().ErrorIs(err, errs.ErrValueIsOutOfRange)
}

func (suite *GetOpenOrdersQueryHandlerTestSuite) seed(state order.State, age time.Duration) *order.Order {
	o, err := order.RestoreOrder(order.Snapshot{
		ID:            kernel.NewID(kernel.OrderPrefix).String(),
		UserID:        kernel.NewID(kernel.UserPrefix).String(),
		CardVersionID: kernel.NewID(kernel.CardVersionPrefix).String(),
		State:         state,
		Quantity:      100,
		Subtotal:      5000,
		Total:         5000,
		CreatedAt:     ordertest.Epoch,
		UpdatedAt:     ordertest.Epoch.Add(age),
		Version:       1,
	})
	suite.Require().NoError(err)
	suite.Require().NoError(suite.factory.Create().OrderRepository().Add(context.Background(), o))
	return o
}

func TestGetOpenOrdersQueryHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(GetOpenOrdersQueryHandlerTestSuite))
}
