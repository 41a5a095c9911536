package dynamodb

import (
	"context"
	"errors"
	"fmt"

	"cardorders/internal/core/domain/model/kernel"
	"cardorders/internal/core/ports"
	"cardorders/internal/pkg/errs"

	dyn "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/aws/smithy-go"
)

// ErrNoActiveTransaction is returned by Commit and Rollback without a preceding Begin.
var ErrNoActiveTransaction = errors.New("no active transaction")

type writeKind int

const (
	addOrder writeKind = iota + 1
	updateOrder
	appendEvent
	markEvent
)

// pendingWrite remembers what a buffered transaction item stands for, so a
// cancellation reason can be reported against the right aggregate.
type pendingWrite struct {
	kind writeKind
	id   string
	item types.TransactWriteItem
}

type trackedAggregate struct {
	ID        kernel.ID
	Aggregate any
}

type persistable interface {
	MarkPersisted()
}

// UnitOfWorkFactory creates DynamoDB units of work sharing one client.
type UnitOfWorkFactory struct {
	client DynamoDBAPI
	tables Tables
}

// NewUnitOfWorkFactory creates a factory for the given client and tables.
func NewUnitOfWorkFactory(client DynamoDBAPI, tables Tables) *UnitOfWorkFactory {
	return &UnitOfWorkFactory{client: client, tables: tables}
}

// Create produces a new unit of work.
func (f *UnitOfWorkFactory) Create() ports.UnitOfWork {
	return f.CreateDynamo()
}

// CreateDynamo is Create returning the concrete type.
func (f *UnitOfWorkFactory) CreateDynamo() *UnitOfWork {
	return &UnitOfWork{client: f.client, tables: f.tables}
}

// UnitOfWork buffers writes between Begin and Commit and sends them as one
// TransactWriteItems call. Reads go to the table directly and do not see
// buffered writes. Without Begin every write is sent immediately.
type UnitOfWork struct {
	client  DynamoDBAPI
	tables  Tables
	active  bool
	pending []pendingWrite
	tracked []trackedAggregate
}

// Begin starts buffering. Calling it twice is a no-op.
func (uow *UnitOfWork) Begin(_ context.Context) error {
	uow.active = true
	return nil
}

// Commit sends the buffered writes. A failed condition on an order update
// is reported as errs.VersionIsInvalidError, or errs.ObjectNotFoundError
// when the order does not exist.
func (uow *UnitOfWork) Commit(ctx context.Context) error {
	if !uow.active {
		return ErrNoActiveTransaction
	}

	pending, tracked := uow.pending, uow.tracked
	uow.reset()

	if err := uow.flush(ctx, pending); err != nil {
		return err
	}
	for _, t := range tracked {
		if p, ok := t.Aggregate.(persistable); ok {
			p.MarkPersisted()
		}
	}
	return nil
}

// Rollback drops the buffered writes.
func (uow *UnitOfWork) Rollback(_ context.Context) error {
	if !uow.active {
		return ErrNoActiveTransaction
	}
	uow.reset()
	return nil
}

// OrderRepository returns an order repository bound to this unit of work.
func (uow *UnitOfWork) OrderRepository() ports.OrderRepository {
	return &OrderRepository{client: uow.client, table: uow.tables.Orders, uow: uow}
}

// OrderEventRepository returns a ledger repository bound to this unit of work.
func (uow *UnitOfWork) OrderEventRepository() ports.OrderEventRepository {
	return &OrderEventRepository{client: uow.client, table: uow.tables.Events, uow: uow}
}

// TrackAggregate registers an aggregate written in this unit of work. Outside
// a transaction the write already happened and the aggregate is marked at once.
func (uow *UnitOfWork) TrackAggregate(id kernel.ID, aggregate any) {
	if !uow.active {
		if p, ok := aggregate.(persistable); ok {
			p.MarkPersisted()
		}
		return
	}
	uow.tracked = append(uow.tracked, trackedAggregate{ID: id, Aggregate: aggregate})
}

// TrackedAggregates lists the aggregates waiting for commit.
func (uow *UnitOfWork) TrackedAggregates() []kernel.ID {
	ids := make([]kernel.ID, 0, len(uow.tracked))
	for _, t := range uow.tracked {
		ids = append(ids, t.ID)
	}
	return ids
}

func (uow *UnitOfWork) reset() {
	uow.active = false
	uow.pending = nil
	uow.tracked = nil
}

// write buffers w, or sends it at once outside a transaction.
func (uow *UnitOfWork) write(ctx context.Context, writes ...pendingWrite) error {
	if uow.active {
		if len(uow.pending)+len(writes) > maxTransactItems {
			return errs.NewValueIsOutOfRangeError("transaction items", len(uow.pending)+len(writes), 1, maxTransactItems)
		}
		uow.pending = append(uow.pending, writes...)
		return nil
	}
	return uow.flush(ctx, writes)
}

func (uow *UnitOfWork) flush(ctx context.Context, writes []pendingWrite) error {
	if len(writes) == 0 {
		return nil
	}

	items := make([]types.TransactWriteItem, 0, len(writes))
	for _, w := range writes {
		items = append(items, w.item)
	}

	_, err := uow.client.TransactWriteItems(ctx, &dyn.TransactWriteItemsInput{
		TransactItems: items,
	})
	if err == nil {
		return nil
	}

	var tce *types.TransactionCanceledException
	if errors.As(err, &tce) {
		return cancellationError(writes, tce)
	}

	// Another transaction held one of the items; report it like a stale version.
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) && apiErr.ErrorCode() == "TransactionConflictException" {
		return errs.NewVersionIsInvalidErrorWithCause("order", err)
	}
	return fmt.Errorf("transact write: %w", err)
}

// cancellationError maps the first failed condition onto the domain errors.
func cancellationError(writes []pendingWrite, tce *types.TransactionCanceledException) error {
	for i, reason := range tce.CancellationReasons {
		if reason.Code == nil || *reason.Code != "ConditionalCheckFailed" || i >= len(writes) {
			continue
		}

		w := writes[i]
		switch w.kind {
		case updateOrder:
			if len(reason.Item) == 0 {
				return errs.NewObjectNotFoundErrorWithCause("order", w.id, tce)
			}
			return errs.NewVersionIsInvalidErrorWithCause("order", tce)
		case addOrder:
			return errs.NewValueIsInvalidErrorWithCause("order", fmt.Errorf("%s already exists: %w", w.id, tce))
		case appendEvent:
			return errs.NewValueIsInvalidErrorWithCause("event", fmt.Errorf("%s already exists: %w", w.id, tce))
		case markEvent:
			return errs.NewObjectNotFoundErrorWithCause("event", w.id, tce)
		}
	}

	return fmt.Errorf("transaction canceled: %w", tce)
}
