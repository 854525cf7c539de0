package queries

import (
	"context"

	"baggage/internal/core/ports"
	"baggage/internal/pkg/errs"
)

type GetAllFlightsQueryHandler struct {
	uowFactory ports.UnitOfWorkFactory
}

func NewGetAllFlightsQueryHandler(uowFactory ports.UnitOfWorkFactory) GetAllFlightsQueryHandler {
	return GetAllFlightsQueryHandler{uowFactory: uowFactory}
}

func (h GetAllFlightsQueryHandler) Handle(
	ctx context.Context,
	query GetAllFlightsQuery,
) ([]GetAllFlightsQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	flights, err := h.uowFactory.Create().FlightRepository().GetAll(ctx)
	if err != nil {
		return nil, errs.NewPersistenceFailureError("list flights", err)
	}

	result := make([]GetAllFlightsQueryResponse, 0, len(flights))
	for _, f := range flights {
		result = append(result, GetAllFlightsQueryResponse{
			ID:          f.ID(),
			Number:      f.Number(),
			Origin:      f.Origin(),
			Destination: f.Destination(),
			DepartureAt: f.DepartureAt(),
		})
	}
	return result, nil
}
