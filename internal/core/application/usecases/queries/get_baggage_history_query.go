package queries

import (
	"errors"

	"baggage/internal/pkg/guard"
)

var ErrGetBaggageHistoryQueryIsNotConstructed = errors.New(
	"GetBaggageHistoryQuery must be created via NewGetBaggageHistoryQuery constructor",
)

// GetBaggageHistoryQuery reads the ledger of one record.
// Any tracking number is accepted; unknown and empty ones simply have no history.
type GetBaggageHistoryQuery struct {
	trackingNumber string

	guard guard.ConstructorGuard
}

func NewGetBaggageHistoryQuery(trackingNumber string) GetBaggageHistoryQuery {
	return GetBaggageHistoryQuery{
		trackingNumber: trackingNumber,
		guard:          guard.NewConstructorGuard(),
	}
}

func (q GetBaggageHistoryQuery) Validate() error {
	return q.guard.Validate(ErrGetBaggageHistoryQueryIsNotConstructed)
}

func (q GetBaggageHistoryQuery) TrackingNumber() string {
	return q.trackingNumber
}
