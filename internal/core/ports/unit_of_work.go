package ports

import (
	"context"
)

// UnitOfWorkFactory creates new UnitOfWork instances for each request/command.
// This ensures proper isolation between concurrent operations.
type UnitOfWorkFactory interface {
	Create() UnitOfWork
}

// UnitOfWork represents a business transaction boundary.
// Everything written through its repositories between Begin and Commit is
// applied atomically or not at all. Repositories obtained without Begin read
// and write outside of any transaction.
type UnitOfWork interface {
	// Begin starts a new transaction. Calling it twice is a no-op.
	Begin(ctx context.Context) error

	// Commit applies the transaction.
	// Returns error if no active transaction or commit fails; a lost
	// conditional write surfaces as errs.VersionIsInvalidError.
	Commit(ctx context.Context) error

	// Rollback discards the transaction.
	// Returns error if no active transaction or rollback fails.
	Rollback(ctx context.Context) error

	// OrderRepository returns an OrderRepository bound to the current transaction.
	OrderRepository() OrderRepository

	// OrderEventRepository returns an OrderEventRepository bound to the current transaction.
	OrderEventRepository() OrderEventRepository
}

// SnapshotReader is implemented by stores that can serve several reads from
// one consistent view. Readers without it see each read at its own time.
type SnapshotReader interface {
	ReadSnapshot(ctx context.Context, fn func(orders OrderRepository, events OrderEventRepository) error) error
}
