// Package queries contains the read operations over baggage records and flights.
// Handlers read through the repository ports and return detached snapshots, so
// callers never hold references into stored state.
package queries

import (
	"errors"
	"strings"

	"baggage/internal/core/domain/model/baggage"
	"baggage/internal/pkg/guard"
)

var (
	ErrGetBaggageByNumberQueryIsNotConstructed = errors.New(
		"GetBaggageByNumberQuery must be created via NewGetBaggageByNumberQuery constructor",
	)
	// ErrBaggageNotFound is returned for unknown tracking numbers. It wraps errs.ErrObjectNotFound.
	ErrBaggageNotFound = baggage.ErrBaggageNotFound
)

// GetBaggageByNumberQuery looks up one record with its full ordered history.
//
// Example:
//
//	query, err := NewGetBaggageByNumberQuery("AB12345")
//	if err != nil {
//	    return err
//	}
//	snapshot, err := handler.Handle(ctx, query)
//	if errors.Is(err, ErrBaggageNotFound) {
//	    return echo.ErrNotFound
//	}
type GetBaggageByNumberQuery struct {
	trackingNumber string

	guard guard.ConstructorGuard
}

func NewGetBaggageByNumberQuery(trackingNumber string) (GetBaggageByNumberQuery, error) {
	trackingNumber = strings.TrimSpace(trackingNumber)
	if trackingNumber == "" {
		return GetBaggageByNumberQuery{}, baggage.ErrTrackingNumberIsRequired
	}

	return GetBaggageByNumberQuery{
		trackingNumber: trackingNumber,
		guard:          guard.NewConstructorGuard(),
	}, nil
}

func (q GetBaggageByNumberQuery) Validate() error {
	return q.guard.Validate(ErrGetBaggageByNumberQueryIsNotConstructed)
}

func (q GetBaggageByNumberQuery) TrackingNumber() string {
	return q.trackingNumber
}
