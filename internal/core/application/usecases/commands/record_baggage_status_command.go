package commands

import (
	"errors"
	"strings"

	"baggage/internal/core/domain/model/baggage"
	"baggage/internal/pkg/guard"
)

var ErrRecordBaggageStatusCommandIsNotConstructed = errors.New(
	"RecordBaggageStatusCommand must be created via NewRecordBaggageStatusCommand or NewUpdateBaggageStatusCommand",
)

// RecordBaggageStatusCommand is a manual status override.
//
// NewRecordBaggageStatusCommand keeps details as given, so recording the current status
// with empty details is a no-op. NewUpdateBaggageStatusCommand always writes
// baggage.DetailsManualUpdate and therefore always appends an entry.
//
// Example:
//
//	lost, _ := NewUpdateBaggageStatusCommand("AB12345", baggage.Lost)
//	snapshot, err := handler.Handle(ctx, lost)
type RecordBaggageStatusCommand struct { //nolint:recvcheck //using for validation
	trackingNumber string
	status         baggage.Status
	details        string

	guard guard.ConstructorGuard
}

func NewRecordBaggageStatusCommand(
	trackingNumber string,
	status baggage.Status,
	details string,
) (RecordBaggageStatusCommand, error) {
	cmd := RecordBaggageStatusCommand{
		details: details,
		guard:   guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setTrackingNumber(trackingNumber),
		cmd.setStatus(status),
	); err != nil {
		return RecordBaggageStatusCommand{}, err
	}

	return cmd, nil
}

func NewUpdateBaggageStatusCommand(trackingNumber string, status baggage.Status) (RecordBaggageStatusCommand, error) {
	return NewRecordBaggageStatusCommand(trackingNumber, status, baggage.DetailsManualUpdate)
}

func (c RecordBaggageStatusCommand) Validate() error {
	return c.guard.Validate(ErrRecordBaggageStatusCommandIsNotConstructed)
}

func (c RecordBaggageStatusCommand) TrackingNumber() string {
	return c.trackingNumber
}

func (c RecordBaggageStatusCommand) Status() baggage.Status {
	return c.status
}

func (c RecordBaggageStatusCommand) Details() string {
	return c.details
}

func (c *RecordBaggageStatusCommand) setTrackingNumber(trackingNumber string) error {
	trackingNumber = strings.TrimSpace(trackingNumber)
	if trackingNumber == "" {
		return baggage.ErrTrackingNumberIsRequired
	}

	c.trackingNumber = trackingNumber
	return nil
}

func (c *RecordBaggageStatusCommand) setStatus(status baggage.Status) error {
	if err := status.Validate(); err != nil {
		return err
	}

	c.status = status
	return nil
}
