package commands

import (
	"errors"
	"strings"

	"baggage/internal/core/domain/model/baggage"
	"baggage/internal/pkg/guard"
)

var ErrSetBaggageHoldCommandIsNotConstructed = errors.New(
	"SetBaggageHoldCommand must be created via NewSetBaggageHoldCommand constructor",
)

// SetBaggageHoldCommand places a record on inspection hold or releases it.
//
// Example:
//
//	hold, _ := NewSetBaggageHoldCommand("AB12345", true)
//	if err := handler.Handle(ctx, hold); err != nil {
//	    return err
//	}
type SetBaggageHoldCommand struct { //nolint:recvcheck //using for validation
	trackingNumber string
	hold           bool

	guard guard.ConstructorGuard
}

func NewSetBaggageHoldCommand(trackingNumber string, hold bool) (SetBaggageHoldCommand, error) {
	cmd := SetBaggageHoldCommand{
		hold:  hold,
		guard: guard.NewConstructorGuard(),
	}

	if err := cmd.setTrackingNumber(trackingNumber); err != nil {
		return SetBaggageHoldCommand{}, err
	}

	return cmd, nil
}

func (c SetBaggageHoldCommand) Validate() error {
	return c.guard.Validate(ErrSetBaggageHoldCommandIsNotConstructed)
}

func (c SetBaggageHoldCommand) TrackingNumber() string {
	return c.trackingNumber
}

// Hold is true to place the hold and false to release it.
func (c SetBaggageHoldCommand) Hold() bool {
	return c.hold
}

func (c *SetBaggageHoldCommand) setTrackingNumber(trackingNumber string) error {
	trackingNumber = strings.TrimSpace(trackingNumber)
	if trackingNumber == "" {
		return baggage.ErrTrackingNumberIsRequired
	}

	c.trackingNumber = trackingNumber
	return nil
}
