package memory

import (
	"context"

	"baggage/internal/core/domain/model/flight"
	"baggage/internal/core/domain/model/kernel"
	"baggage/internal/pkg/errs"
)

type FlightRepository struct {
	uow *UnitOfWork
}

func (r *FlightRepository) Add(ctx context.Context, aggregate *flight.Flight) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}
	return r.uow.write(ctx, addFlight{row: flightToRow(aggregate)})
}

func (r *FlightRepository) Get(_ context.Context, id kernel.UUID) (*flight.Flight, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	v, err := r.uow.read()
	if err != nil {
		return nil, err
	}

	row, ok := v.flights[id]
	if !ok {
		return nil, errs.NewObjectNotFoundError("flight", id.String())
	}
	return rowToFlight(row)
}

func (r *FlightRepository) GetAll(_ context.Context) ([]*flight.Flight, error) {
	v, err := r.uow.read()
	if err != nil {
		return nil, err
	}

	rows := v.sortedFlights()
	result := make([]*flight.Flight, 0, len(rows))
	for _, row := range rows {
		f, err := rowToFlight(row)
		if err != nil {
			return nil, err
		}
		result = append(result, f)
	}
	return result, nil
}
