// Package postgres provides GORM-based implementation of the Unit of Work pattern.
// The Unit of Work maintains the orders and ledger rows written by one business
// transaction and commits them together.
//
// Key Features:
//   - One database transaction spanning the order and event repositories
//   - Conditional order updates keyed on the optimistic concurrency version
//   - Aggregate tracking so committed orders learn their new persisted version
//   - Repository factory pattern for consistent database connections
//
// Usage Patterns:
//
// Basic Transaction Management:
//
//	factory := NewGormUnitOfWorkFactory(db)
//	uow := factory.Create()
//
//	if err := uow.Begin(ctx); err != nil {
//	    return err
//	}
//	defer func() {
//	    _ = uow.Rollback(ctx)
//	}()
//
//	if err := uow.OrderRepository().Update(ctx, o); err != nil {
//	    return err
//	}
//	if err := uow.OrderEventRepository().Append(ctx, event); err != nil {
//	    return err
//	}
//
//	return uow.Commit(ctx)
//
// Concurrency Considerations:
//   - Each UnitOfWork instance provides an isolated transaction
//   - Multiple goroutines should use separate UnitOfWork instances
//   - ReadSnapshot serves history reads from one REPEATABLE READ snapshot
//   - A conditional update that loses to a concurrent writer blocks until the
//     winner commits, then affects no row and reports errs.VersionIsInvalidError
package postgres

import (
	"context"
	"database/sql"

	"cardorders/internal/adapters/out/postgres/ordereventrepo"
	"cardorders/internal/adapters/out/postgres/orderrepo"
	"cardorders/internal/core/domain/model/kernel"
	"cardorders/internal/core/ports"

	"gorm.io/gorm"
)

// trackedAggregate represents an aggregate modified during the unit of work.
type trackedAggregate struct {
	ID        kernel.ID
	Aggregate any
}

// persistable is implemented by aggregates that carry a pending-changes marker.
type persistable interface {
	MarkPersisted()
}

// Migrate creates or updates the orders and order_events tables.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&orderrepo.OrderDTO{}, &ordereventrepo.OrderEventDTO{})
}

// GormUnitOfWorkFactory creates UnitOfWork instances using GORM database connections.
// Factory ensures each business operation gets a fresh unit of work instance
// with proper isolation from other concurrent operations.
type GormUnitOfWorkFactory struct {
	db *gorm.DB
}

// NewGormUnitOfWorkFactory creates a factory for GORM-based unit of work instances.
// The provided database connection will be used for all created unit of work instances.
//
// Example:
//
//	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
//	if err != nil {
//	    log.Fatal("failed to connect database")
//	}
//	factory := NewGormUnitOfWorkFactory(db)
func NewGormUnitOfWorkFactory(db *gorm.DB) *GormUnitOfWorkFactory {
	return &GormUnitOfWorkFactory{db: db}
}

// Create produces a new UnitOfWork instance ready for business transaction management.
func (f *GormUnitOfWorkFactory) Create() ports.UnitOfWork {
	return f.CreateGorm()
}

// CreateGorm is Create returning the concrete type.
func (f *GormUnitOfWorkFactory) CreateGorm() *GormUnitOfWork {
	return &GormUnitOfWork{
		db:                f.db,
		trackedAggregates: make([]trackedAggregate, 0),
	}
}

// GormUnitOfWork coordinates database transactions and tracks aggregate changes
// for business operations. Implements the Unit of Work pattern using GORM's
// transaction capabilities to ensure data consistency and proper rollback handling.
type GormUnitOfWork struct {
	db                *gorm.DB
	tx                *gorm.DB
	trackedAggregates []trackedAggregate
}

// Begin initiates a new database transaction for the unit of work.
// Subsequent repository operations will execute within this transaction context.
// Multiple calls to Begin on the same instance are safe and will not create nested transactions.
func (uow *GormUnitOfWork) Begin(ctx context.Context) error {
	if uow.tx != nil {
		return nil
	}

	uow.tx = uow.db.WithContext(ctx).Begin()
	if uow.tx.Error != nil {
		err := uow.tx.Error
		uow.tx = nil
		return err
	}

	return nil
}

// Commit finalizes all changes made within the current transaction. Tracked
// aggregates are marked persisted once the commit succeeded.
//
// Returns error if no active transaction exists or if the commit operation fails.
func (uow *GormUnitOfWork) Commit(_ context.Context) error {
	if uow.tx == nil {
		return gorm.ErrInvalidTransaction
	}

	err := uow.tx.Commit().Error
	uow.tx = nil
	if err != nil {
		uow.trackedAggregates = uow.trackedAggregates[:0]
		return err
	}

	for _, tracked := range uow.trackedAggregates {
		if p, ok := tracked.Aggregate.(persistable); ok {
			p.MarkPersisted()
		}
	}
	uow.trackedAggregates = uow.trackedAggregates[:0]
	return nil
}

// Rollback discards all changes made within the current transaction.
//
// Returns error if no active transaction exists or if the rollback operation fails.
func (uow *GormUnitOfWork) Rollback(_ context.Context) error {
	if uow.tx == nil {
		return gorm.ErrInvalidTransaction
	}

	err := uow.tx.Rollback().Error
	uow.tx = nil
	uow.trackedAggregates = uow.trackedAggregates[:0]
	return err
}

// OrderRepository provides access to order persistence operations within the unit of work.
// Repository operations will execute within the current transaction if one is active,
// otherwise they use the main database connection for immediate execution.
func (uow *GormUnitOfWork) OrderRepository() ports.OrderRepository {
	return orderrepo.NewGormOrderRepository(uow.conn(), uow)
}

// OrderEventRepository provides access to the ledger within the unit of work.
func (uow *GormUnitOfWork) OrderEventRepository() ports.OrderEventRepository {
	return ordereventrepo.NewGormOrderEventRepository(uow.conn())
}

// TrackAggregate registers a domain aggregate as modified within this unit of work.
// Repositories call it after every successful write. Without a transaction
// the write is already durable and the aggregate is marked at once.
func (uow *GormUnitOfWork) TrackAggregate(id kernel.ID, aggregate any) {
	if uow.tx == nil {
		if p, ok := aggregate.(persistable); ok {
			p.MarkPersisted()
		}
		return
	}
	uow.trackedAggregates = append(uow.trackedAggregates, trackedAggregate{
		ID:        id,
		Aggregate: aggregate,
	})
}

// TrackedAggregates returns the identifiers written since Begin.
func (uow *GormUnitOfWork) TrackedAggregates() []kernel.ID {
	ids := make([]kernel.ID, 0, len(uow.trackedAggregates))
	for _, tracked := range uow.trackedAggregates {
		ids = append(ids, tracked.ID)
	}
	return ids
}

// ReadSnapshot runs fn in a read-only REPEATABLE READ transaction, so every
// read fn makes sees the database as of its first statement.
func (uow *GormUnitOfWork) ReadSnapshot(
	ctx context.Context,
	fn func(orders ports.OrderRepository, events ports.OrderEventRepository) error,
) error {
	return uow.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(orderrepo.NewGormOrderRepository(tx, uow), ordereventrepo.NewGormOrderEventRepository(tx))
	}, &sql.TxOptions{Isolation: sql.LevelRepeatableRead, ReadOnly: true})
}

func (uow *GormUnitOfWork) conn() *gorm.DB {
	if uow.tx != nil {
		return uow.tx
	}
	return uow.db
}
