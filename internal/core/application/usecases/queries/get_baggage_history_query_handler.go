package queries

import (
	"context"
	"strings"

	"baggage/internal/core/domain/model/baggage"
	"baggage/internal/core/ports"
	"baggage/internal/pkg/errs"
)

type GetBaggageHistoryQueryHandler struct {
	uowFactory ports.UnitOfWorkFactory
}

func NewGetBaggageHistoryQueryHandler(uowFactory ports.UnitOfWorkFactory) GetBaggageHistoryQueryHandler {
	return GetBaggageHistoryQueryHandler{uowFactory: uowFactory}
}

// Handle returns the ledger oldest first. It never returns nil and never reports
// an unknown tracking number as an error.
func (h GetBaggageHistoryQueryHandler) Handle(
	ctx context.Context,
	query GetBaggageHistoryQuery,
) ([]baggage.EntrySnapshot, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	result := make([]baggage.EntrySnapshot, 0)
	trackingNumber := strings.TrimSpace(query.TrackingNumber())
	if trackingNumber == "" {
		return result, nil
	}

	entries, err := h.uowFactory.Create().BaggageRepository().GetHistory(ctx, trackingNumber)
	if err != nil {
		return nil, errs.NewPersistenceFailureError("load history", err)
	}

	for _, e := range entries {
		result = append(result, baggage.EntrySnapshot{
			Sequence:   e.Sequence(),
			Status:     e.Status(),
			StatusName: e.Status().DisplayName(),
			RecordedAt: e.RecordedAt(),
			Details:    e.Details(),
		})
	}

	return result, nil
}
