// Package postgres provides the GORM implementation of the unit of work over the
// baggage, baggage_history and flights tables.
//
// A unit of work wraps one database transaction. Repositories obtained after Begin
// run inside it; repositories obtained before Begin use the plain connection and
// write immediately. Every aggregate a repository writes is tracked, and after a
// successful Commit the tracking numbers of tracked baggage records are handed to
// the snapshot invalidator, if one is configured.
//
// Usage:
//
//	factory := NewGormUnitOfWorkFactory(db, cache)
//	uow := factory.Create()
//
//	if err := uow.Begin(ctx); err != nil {
//	    return err
//	}
//	defer func() { _ = uow.Rollback(ctx) }()
//
//	if err := uow.BaggageRepository().Update(ctx, bag); err != nil {
//	    return err
//	}
//
//	return uow.Commit(ctx)
//
// Concurrency Considerations:
//   - A UnitOfWork is not safe for concurrent use; create one per operation
//   - Concurrent drop-offs of one tracking number are decided by the unique index on
//     baggage.tracking_number; the loser gets errs.ErrObjectAlreadyExists
//   - Concurrent appends to one ledger are decided by the unique index on
//     (baggage_id, sequence) and the stale-ledger check in the baggage repository
package postgres

import (
	"context"

	"baggage/internal/adapters/out/postgres/baggagerepo"
	"baggage/internal/adapters/out/postgres/flightrepo"
	"baggage/internal/core/domain/model/baggage"
	"baggage/internal/core/domain/model/kernel"
	"baggage/internal/core/ports"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// trackedAggregate is an aggregate written during the unit of work.
type trackedAggregate struct {
	ID        kernel.UUID
	Aggregate any
}

// GormUnitOfWorkFactory creates a fresh GormUnitOfWork per operation.
type GormUnitOfWorkFactory struct {
	db          *gorm.DB
	invalidator ports.SnapshotInvalidator
	logger      *zap.Logger
}

// NewGormUnitOfWorkFactory creates a factory. invalidator may be nil.
//
// Example:
//
//	db, err := Open(cfg.DSN())
//	if err != nil {
//	    return err
//	}
//	factory := NewGormUnitOfWorkFactory(db, nil)
func NewGormUnitOfWorkFactory(db *gorm.DB, invalidator ports.SnapshotInvalidator) *GormUnitOfWorkFactory {
	return &GormUnitOfWorkFactory{
		db:          db,
		invalidator: invalidator,
		logger:      zap.NewNop(),
	}
}

// WithLogger sets the logger used to report failed invalidations.
func (f *GormUnitOfWorkFactory) WithLogger(logger *zap.Logger) *GormUnitOfWorkFactory {
	f.logger = logger.With(zap.String("component", "unit_of_work"))
	return f
}

func (f *GormUnitOfWorkFactory) Create() ports.UnitOfWork {
	return &GormUnitOfWork{
		db:                f.db,
		invalidator:       f.invalidator,
		logger:            f.logger,
		trackedAggregates: make([]trackedAggregate, 0),
	}
}

// GormUnitOfWork coordinates one database transaction and tracks the aggregates
// written in it.
type GormUnitOfWork struct {
	db                *gorm.DB
	tx                *gorm.DB
	invalidator       ports.SnapshotInvalidator
	logger            *zap.Logger
	trackedAggregates []trackedAggregate
}

// Begin starts a transaction. Calling Begin again while one is active does nothing.
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

	uow.trackedAggregates = uow.trackedAggregates[:0]
	return nil
}

// Commit makes the transaction durable and then invalidates cached snapshots of
// every baggage record written in it.
//
// Returns gorm.ErrInvalidTransaction if no transaction is active.
func (uow *GormUnitOfWork) Commit(ctx context.Context) error {
	if uow.tx == nil {
		return gorm.ErrInvalidTransaction
	}

	err := uow.tx.Commit().Error
	uow.tx = nil
	if err != nil {
		return err
	}

	uow.invalidate(ctx)
	return nil
}

// Rollback discards the transaction.
//
// Returns gorm.ErrInvalidTransaction if no transaction is active, which is what a
// deferred Rollback after a successful Commit sees.
func (uow *GormUnitOfWork) Rollback(_ context.Context) error {
	if uow.tx == nil {
		return gorm.ErrInvalidTransaction
	}

	err := uow.tx.Rollback().Error
	uow.tx = nil
	uow.trackedAggregates = uow.trackedAggregates[:0]
	return err
}

func (uow *GormUnitOfWork) BaggageRepository() ports.BaggageRepository {
	return baggagerepo.NewGormBaggageRepository(uow.conn(), uow)
}

func (uow *GormUnitOfWork) FlightRepository() ports.FlightRepository {
	return flightrepo.NewGormFlightRepository(uow.conn(), uow)
}

// TrackAggregate registers an aggregate written within this unit of work.
// Outside a transaction the write is already durable, so invalidation happens at once.
func (uow *GormUnitOfWork) TrackAggregate(id kernel.UUID, aggregate any) {
	uow.trackedAggregates = append(uow.trackedAggregates, trackedAggregate{
		ID:        id,
		Aggregate: aggregate,
	})

	if uow.tx == nil {
		uow.invalidate(context.Background())
	}
}

func (uow *GormUnitOfWork) conn() *gorm.DB {
	if uow.tx != nil {
		return uow.tx
	}
	return uow.db
}

func (uow *GormUnitOfWork) invalidate(ctx context.Context) {
	tracked := uow.trackedAggregates
	uow.trackedAggregates = uow.trackedAggregates[:0]
	if uow.invalidator == nil {
		return
	}

	seen := make(map[string]struct{}, len(tracked))
	numbers := make([]string, 0, len(tracked))
	for _, t := range tracked {
		b, ok := t.Aggregate.(*baggage.Baggage)
		if !ok {
			continue
		}
		if _, dup := seen[b.TrackingNumber()]; dup {
			continue
		}
		seen[b.TrackingNumber()] = struct{}{}
		numbers = append(numbers, b.TrackingNumber())
	}
	if len(numbers) == 0 {
		return
	}

	if err := uow.invalidator.Invalidate(ctx, numbers...); err != nil {
		uow.logger.Warn("snapshot invalidation failed", zap.Strings("trackingNumbers", numbers), zap.Error(err))
	}
}
