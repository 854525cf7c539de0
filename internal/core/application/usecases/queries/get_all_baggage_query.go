package queries

import (
	"errors"

	"baggage/internal/pkg/guard"
)

var ErrGetAllBaggageQueryIsNotConstructed = errors.New(
	"GetAllBaggageQuery must be created via NewGetAllBaggageQuery constructor",
)

// GetAllBaggageQuery lists every record ordered by tracking number.
type GetAllBaggageQuery struct {
	guard guard.ConstructorGuard
}

func NewGetAllBaggageQuery() GetAllBaggageQuery {
	return GetAllBaggageQuery{guard: guard.NewConstructorGuard()}
}

func (q GetAllBaggageQuery) Validate() error {
	return q.guard.Validate(ErrGetAllBaggageQueryIsNotConstructed)
}
