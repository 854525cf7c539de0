package commands

import (
	"context"
	"errors"
	"fmt"

	"baggage/internal/core/domain/model/baggage"
	"baggage/internal/core/domain/model/flight"
	"baggage/internal/core/domain/model/kernel"
	"baggage/internal/core/ports"
	"baggage/internal/pkg/errs"
)

var (
	// ErrBaggageNotFound is returned for unknown tracking numbers. It wraps errs.ErrObjectNotFound.
	ErrBaggageNotFound = baggage.ErrBaggageNotFound
	// ErrFlightNotFound is returned when the referenced flight is not registered.
	ErrFlightNotFound = flight.ErrFlightNotFound
	// ErrProcessingInterrupted wraps a pipeline failure after the triggering change was committed.
	// The record stays at its last committed stage and a later StartBaggageProcessing resumes it.
	ErrProcessingInterrupted = errors.New("baggage processing interrupted")
	// ErrPipelineCycle is returned when a drive takes more steps than the transition table has rows.
	ErrPipelineCycle = errors.New("ground pipeline did not settle")
	// ErrFlightAlreadyRegistered is returned when a flight number or ID is already in use.
	ErrFlightAlreadyRegistered = errors.New("flight already registered")
)

func persistenceFailure(operation string, err error) error {
	if errors.Is(err, errs.ErrPersistenceFailure) {
		return err
	}
	return errs.NewPersistenceFailureError(operation, err)
}

func loadBaggage(ctx context.Context, repo ports.BaggageRepository, trackingNumber string) (*baggage.Baggage, error) {
	b, err := repo.GetByTrackingNumber(ctx, trackingNumber)
	if errors.Is(err, errs.ErrObjectNotFound) {
		return nil, fmt.Errorf("%w: %w", baggage.ErrBaggageNotFound, err)
	}
	if err != nil {
		return nil, persistenceFailure("load baggage", err)
	}
	return b, nil
}

func loadFlight(ctx context.Context, repo ports.FlightRepository, id kernel.UUID) (*flight.Flight, error) {
	f, err := repo.Get(ctx, id)
	if errors.Is(err, errs.ErrObjectNotFound) {
		return nil, fmt.Errorf("%w: %w", flight.ErrFlightNotFound, err)
	}
	if err != nil {
		return nil, persistenceFailure("load flight", err)
	}
	return f, nil
}

func isValidation(err error) bool {
	return errors.Is(err, errs.ErrValueIsInvalid) ||
		errors.Is(err, errs.ErrValueIsRequired) ||
		errors.Is(err, errs.ErrValueIsOutOfRange)
}
