// Package commands contains the operations that change baggage and flight state.
// Every handler validates its command, opens a unit of work, mutates aggregates
// through their methods and commits. Pipeline stages are committed one per unit of work
// by PipelineDriver.
package commands

import (
	"context"

	"baggage/internal/core/ports"
)

// Unit of Work interfaces scoped to what each handler touches.
type (
	// TxManager handles database transaction lifecycle.
	TxManager interface {
		Begin(ctx context.Context) error
		Commit(ctx context.Context) error
		Rollback(ctx context.Context) error
	}

	// BaggageRepoFactory provides the baggage store within a transaction.
	BaggageRepoFactory interface {
		BaggageRepository() ports.BaggageRepository
	}

	// FlightRepoFactory provides the flight store within a transaction.
	FlightRepoFactory interface {
		FlightRepository() ports.FlightRepository
	}

	// BaggageUoW manages transactions that touch baggage records only.
	BaggageUoW interface {
		TxManager
		BaggageRepoFactory
	}

	// BaggageUoWFactory creates baggage-only units of work.
	BaggageUoWFactory interface {
		Create() BaggageUoW
	}

	// FlightUoW manages transactions that touch flights only.
	FlightUoW interface {
		TxManager
		FlightRepoFactory
	}

	// FlightUoWFactory creates flight-only units of work.
	FlightUoWFactory interface {
		Create() FlightUoW
	}

	// UoW spans baggage records and the flights they reference.
	//
	// Example:
	//   uow := factory.Create()
	//   if err := uow.Begin(ctx); err != nil {
	//       return err
	//   }
	//   defer func() { _ = uow.Rollback(ctx) }()
	//
	//   f, err := uow.FlightRepository().Get(ctx, flightID)
	//   // ...
	//   err = uow.BaggageRepository().Add(ctx, bag)
	//   // ...
	//   err = uow.Commit(ctx)
	UoW interface {
		TxManager
		BaggageRepoFactory
		FlightRepoFactory
	}

	// UoWFactory creates units of work spanning baggage and flights.
	UoWFactory interface {
		Create() UoW
	}
)
