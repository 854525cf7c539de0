package commands

import (
	"errors"
	"strings"

	"baggage/internal/core/domain/model/baggage"
	"baggage/internal/pkg/guard"
)

var ErrStartBaggageProcessingCommandIsNotConstructed = errors.New(
	"StartBaggageProcessingCommand must be created via NewStartBaggageProcessingCommand constructor",
)

// StartBaggageProcessingCommand asks the ground pipeline to advance one record as far as it can.
// It is the re-entry point for records left at an intermediate stage.
type StartBaggageProcessingCommand struct { //nolint:recvcheck //using for validation
	trackingNumber string

	guard guard.ConstructorGuard
}

func NewStartBaggageProcessingCommand(trackingNumber string) (StartBaggageProcessingCommand, error) {
	cmd := StartBaggageProcessingCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := cmd.setTrackingNumber(trackingNumber); err != nil {
		return StartBaggageProcessingCommand{}, err
	}

	return cmd, nil
}

func (c StartBaggageProcessingCommand) Validate() error {
	return c.guard.Validate(ErrStartBaggageProcessingCommandIsNotConstructed)
}

func (c StartBaggageProcessingCommand) TrackingNumber() string {
	return c.trackingNumber
}

func (c *StartBaggageProcessingCommand) setTrackingNumber(trackingNumber string) error {
	trackingNumber = strings.TrimSpace(trackingNumber)
	if trackingNumber == "" {
		return baggage.ErrTrackingNumberIsRequired
	}

	c.trackingNumber = trackingNumber
	return nil
}
