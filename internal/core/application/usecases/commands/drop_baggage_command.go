package commands

import (
	"errors"
	"fmt"
	"strings"

	"baggage/internal/core/domain/model/baggage"
	"baggage/internal/core/domain/model/kernel"
	"baggage/internal/pkg/errs"
	"baggage/internal/pkg/guard"
)

var ErrDropBaggageCommandIsNotConstructed = errors.New(
	"DropBaggageCommand must be created via NewDropBaggageCommand constructor",
)

// DropBaggageCommand represents a check-in desk handing an item over to ground handling.
//
// Example:
//
//	cmd, err := NewDropBaggageCommand("AB12345", 20.5, flightID)
//	if err != nil {
//	    return fmt.Errorf("invalid drop-off: %w", err)
//	}
//	result, err := handler.Handle(ctx, cmd)
type DropBaggageCommand struct { //nolint:recvcheck //using for validation
	trackingNumber string
	weightKg       float64
	flightID       kernel.UUID

	guard guard.ConstructorGuard
}

// NewDropBaggageCommand validates the tracking number only.
// Weight and flight are checked by NewRecord, since a drop of a known tracking number
// returns the stored record whatever else the request carries.
func NewDropBaggageCommand(trackingNumber string, weightKg float64, flightID kernel.UUID) (DropBaggageCommand, error) {
	cmd := DropBaggageCommand{
		weightKg: weightKg,
		flightID: flightID,
		guard:    guard.NewConstructorGuard(),
	}

	if err := cmd.setTrackingNumber(trackingNumber); err != nil {
		return DropBaggageCommand{}, err
	}

	return cmd, nil
}

func (c DropBaggageCommand) Validate() error {
	return c.guard.Validate(ErrDropBaggageCommandIsNotConstructed)
}

func (c DropBaggageCommand) TrackingNumber() string {
	return c.trackingNumber
}

// WeightKg is the weight as requested, not yet validated.
func (c DropBaggageCommand) WeightKg() float64 {
	return c.weightKg
}

func (c DropBaggageCommand) FlightID() kernel.UUID {
	return c.flightID
}

func (c *DropBaggageCommand) setTrackingNumber(trackingNumber string) error {
	trackingNumber = strings.TrimSpace(trackingNumber)
	if trackingNumber == "" {
		return baggage.ErrTrackingNumberIsRequired
	}

	c.trackingNumber = trackingNumber
	return nil
}

// NewRecord validates the fields a new record needs and returns its weight.
// Both failures are returned together.
func (c DropBaggageCommand) NewRecord() (kernel.Weight, error) {
	weight, weightErr := kernel.NewWeight(c.weightKg)

	var flightErr error
	if err := c.flightID.Validate(); err != nil {
		flightErr = fmt.Errorf("%w: %w", errs.NewValueIsRequiredError("flightId"), err)
	}

	if err := errors.Join(weightErr, flightErr); err != nil {
		return kernel.Weight{}, err
	}
	return weight, nil
}
