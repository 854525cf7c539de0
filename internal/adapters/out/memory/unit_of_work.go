package memory

import (
	"context"
	"errors"

	"baggage/internal/core/ports"
)

// ErrNoTransaction is returned by Commit and Rollback outside a transaction.
var ErrNoTransaction = errors.New("no active transaction")

// UnitOfWorkFactory creates units of work over one shared Store.
type UnitOfWorkFactory struct {
	store       *Store
	invalidator ports.SnapshotInvalidator
}

// NewUnitOfWorkFactory creates a factory. invalidator may be nil.
func NewUnitOfWorkFactory(store *Store, invalidator ports.SnapshotInvalidator) *UnitOfWorkFactory {
	return &UnitOfWorkFactory{store: store, invalidator: invalidator}
}

func (f *UnitOfWorkFactory) Create() ports.UnitOfWork {
	return &UnitOfWork{store: f.store, invalidator: f.invalidator}
}

// UnitOfWork journals writes between Begin and Commit.
// Outside a transaction every write is committed immediately.
// A UnitOfWork is not safe for concurrent use; create one per operation.
type UnitOfWork struct {
	store       *Store
	invalidator ports.SnapshotInvalidator
	active      bool
	journal     []mutation
}

func (uow *UnitOfWork) Begin(_ context.Context) error {
	if uow.active {
		return nil
	}
	uow.active = true
	uow.journal = nil
	return nil
}

func (uow *UnitOfWork) Commit(ctx context.Context) error {
	if !uow.active {
		return ErrNoTransaction
	}

	journal := uow.journal
	uow.active = false
	uow.journal = nil

	if err := uow.store.commit(journal); err != nil {
		return err
	}

	uow.invalidate(ctx, journal)
	return nil
}

func (uow *UnitOfWork) Rollback(_ context.Context) error {
	if !uow.active {
		return ErrNoTransaction
	}
	uow.active = false
	uow.journal = nil
	return nil
}

func (uow *UnitOfWork) BaggageRepository() ports.BaggageRepository {
	return &BaggageRepository{uow: uow}
}

func (uow *UnitOfWork) FlightRepository() ports.FlightRepository {
	return &FlightRepository{uow: uow}
}

// write journals m inside a transaction and commits it at once otherwise.
func (uow *UnitOfWork) write(ctx context.Context, m mutation) error {
	if uow.active {
		// Fail early on conflicts visible now; commit checks again.
		if _, err := uow.store.view(append(uow.journal[:len(uow.journal):len(uow.journal)], m)); err != nil {
			return err
		}
		uow.journal = append(uow.journal, m)
		return nil
	}

	if err := uow.store.commit([]mutation{m}); err != nil {
		return err
	}
	uow.invalidate(ctx, []mutation{m})
	return nil
}

func (uow *UnitOfWork) read() (*state, error) {
	if uow.active {
		return uow.store.view(uow.journal)
	}
	return uow.store.view(nil)
}

func (uow *UnitOfWork) invalidate(ctx context.Context, journal []mutation) {
	if uow.invalidator == nil {
		return
	}

	seen := make(map[string]struct{}, len(journal))
	numbers := make([]string, 0, len(journal))
	for _, m := range journal {
		tn := m.trackingNumber()
		if tn == "" {
			continue
		}
		if _, ok := seen[tn]; ok {
			continue
		}
		seen[tn] = struct{}{}
		numbers = append(numbers, tn)
	}
	if len(numbers) == 0 {
		return
	}

	// Entries expire on their own; a failed invalidation only delays freshness.
	_ = uow.invalidator.Invalidate(ctx, numbers...)
}
