package ports

import (
	"context"
)

// UnitOfWorkFactory creates a fresh UnitOfWork per operation.
type UnitOfWorkFactory interface {
	Create() UnitOfWork
}

// UnitOfWork is a transaction boundary over the baggage and flight stores.
// Repositories obtained after Begin run inside the transaction; before Begin
// they read and write directly.
type UnitOfWork interface {
	// Begin starts a transaction. Calling it twice is a no-op.
	Begin(ctx context.Context) error

	// Commit makes the transaction durable.
	// Returns an error if no transaction is active or the commit fails.
	Commit(ctx context.Context) error

	// Rollback discards the transaction.
	// Returns an error if no transaction is active.
	Rollback(ctx context.Context) error

	// BaggageRepository returns a repository bound to the current transaction.
	BaggageRepository() BaggageRepository

	// FlightRepository returns a repository bound to the current transaction.
	FlightRepository() FlightRepository
}

// SnapshotInvalidator is told which baggage records changed once a unit of work commits.
type SnapshotInvalidator interface {
	Invalidate(ctx context.Context, trackingNumbers ...string) error
}
