package queries

import (
	"errors"
	"time"

	"baggage/internal/core/domain/model/kernel"
	"baggage/internal/pkg/guard"
)

var ErrGetAllFlightsQueryIsNotConstructed = errors.New(
	"GetAllFlightsQuery must be created via NewGetAllFlightsQuery constructor",
)

// GetAllFlightsQuery lists registered flights by departure time.
type GetAllFlightsQuery struct {
	guard guard.ConstructorGuard
}

func NewGetAllFlightsQuery() GetAllFlightsQuery {
	return GetAllFlightsQuery{guard: guard.NewConstructorGuard()}
}

func (q GetAllFlightsQuery) Validate() error {
	return q.guard.Validate(ErrGetAllFlightsQueryIsNotConstructed)
}

// GetAllFlightsQueryResponse is the read model of a registered flight.
type GetAllFlightsQueryResponse struct {
	ID          kernel.UUID `json:"id"`
	Number      string      `json:"number"`
	Origin      string      `json:"origin"`
	Destination string      `json:"destination"`
	DepartureAt time.Time   `json:"departureAt"`
}
