package ports

import (
	"context"

	"baggage/internal/core/domain/model/flight"
	"baggage/internal/core/domain/model/kernel"
)

// FlightRepository stores the flights that baggage may reference.
type FlightRepository interface {
	// Add persists a new flight. A duplicate number wraps errs.ErrObjectAlreadyExists.
	Add(ctx context.Context, aggregate *flight.Flight) error

	// Get loads a flight by ID. Unknown IDs wrap errs.ErrObjectNotFound.
	Get(ctx context.Context, id kernel.UUID) (*flight.Flight, error)

	// GetAll loads every flight ordered by departure time.
	GetAll(ctx context.Context) ([]*flight.Flight, error)
}
