package queries

import (
	"context"

	"baggage/internal/core/domain/model/baggage"
	"baggage/internal/core/ports"
	"baggage/internal/pkg/errs"
)

type GetAllBaggageQueryHandler struct {
	uowFactory ports.UnitOfWorkFactory
}

func NewGetAllBaggageQueryHandler(uowFactory ports.UnitOfWorkFactory) GetAllBaggageQueryHandler {
	return GetAllBaggageQueryHandler{uowFactory: uowFactory}
}

func (h GetAllBaggageQueryHandler) Handle(ctx context.Context, query GetAllBaggageQuery) ([]baggage.Snapshot, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	all, err := h.uowFactory.Create().BaggageRepository().GetAll(ctx)
	if err != nil {
		return nil, errs.NewPersistenceFailureError("list baggage", err)
	}

	result := make([]baggage.Snapshot, 0, len(all))
	for _, b := range all {
		result = append(result, b.Snapshot())
	}
	return result, nil
}
