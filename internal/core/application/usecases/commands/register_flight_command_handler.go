package commands

import (
	"context"
	"errors"
	"fmt"

	"baggage/internal/core/domain/model/flight"
	"baggage/internal/pkg/errs"
)

// RegisterFlightCommandHandler persists a new flight.
// A duplicate ID or flight number returns an error wrapping ErrFlightAlreadyRegistered.
type RegisterFlightCommandHandler struct {
	uowFactory FlightUoWFactory
}

func NewRegisterFlightCommandHandler(uowFactory FlightUoWFactory) RegisterFlightCommandHandler {
	return RegisterFlightCommandHandler{
		uowFactory: uowFactory,
	}
}

func (h *RegisterFlightCommandHandler) Handle(ctx context.Context, cmd RegisterFlightCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	f, err := flight.NewFlight(cmd.FlightID(), cmd.Number(), cmd.Origin(), cmd.Destination(), cmd.DepartureAt())
	if err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return persistenceFailure("begin flight registration", err)
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err = uow.FlightRepository().Add(ctx, f); err != nil {
		return registrationFailure("add flight", err)
	}

	if err = uow.Commit(ctx); err != nil {
		return registrationFailure("commit flight registration", err)
	}

	return nil
}

func registrationFailure(operation string, err error) error {
	if errors.Is(err, errs.ErrObjectAlreadyExists) {
		return fmt.Errorf("%w: %w", ErrFlightAlreadyRegistered, err)
	}
	return persistenceFailure(operation, err)
}
