package commands

import (
	"errors"
	"time"

	"baggage/internal/core/domain/model/flight"
	"baggage/internal/core/domain/model/kernel"
	"baggage/internal/pkg/guard"
)

var ErrRegisterFlightCommandIsNotConstructed = errors.New(
	"RegisterFlightCommand must be created via NewRegisterFlightCommand constructor",
)

// RegisterFlightCommand adds a flight that dropped-off baggage can reference.
// The flight fields are validated by building the aggregate up front, so an accepted
// command always produces a valid flight.
//
// Example:
//
//	cmd, err := NewRegisterFlightCommand(kernel.NewUUID(), "LH123", "FRA", "JFK", departure)
//	if err != nil {
//	    return err
//	}
//	if err := handler.Handle(ctx, cmd); errors.Is(err, ErrFlightAlreadyRegistered) {
//	    // number already taken
//	}
type RegisterFlightCommand struct { //nolint:recvcheck //using for validation
	flight *flight.Flight

	guard guard.ConstructorGuard
}

func NewRegisterFlightCommand(
	flightID kernel.UUID,
	number, origin, destination string,
	departureAt time.Time,
) (RegisterFlightCommand, error) {
	f, err := flight.NewFlight(flightID, number, origin, destination, departureAt)
	if err != nil {
		return RegisterFlightCommand{}, err
	}

	return RegisterFlightCommand{
		flight: f,
		guard:  guard.NewConstructorGuard(),
	}, nil
}

func (c RegisterFlightCommand) Validate() error {
	return c.guard.Validate(ErrRegisterFlightCommandIsNotConstructed)
}

func (c RegisterFlightCommand) FlightID() kernel.UUID {
	return c.flight.ID()
}

func (c RegisterFlightCommand) Number() string {
	return c.flight.Number()
}

func (c RegisterFlightCommand) Origin() string {
	return c.flight.Origin()
}

func (c RegisterFlightCommand) Destination() string {
	return c.flight.Destination()
}

func (c RegisterFlightCommand) DepartureAt() time.Time {
	return c.flight.DepartureAt()
}
