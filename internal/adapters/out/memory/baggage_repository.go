package memory

import (
	"context"
	"fmt"
	"time"

	"baggage/internal/core/domain/model/baggage"
	"baggage/internal/pkg/errs"
)

// BaggageRepository reads through its unit of work, so uncommitted writes of the
// same unit of work are visible.
type BaggageRepository struct {
	uow *UnitOfWork
}

func (r *BaggageRepository) Add(ctx context.Context, aggregate *baggage.Baggage) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}
	return r.uow.write(ctx, addBaggage{row: baggageToRow(aggregate)})
}

func (r *BaggageRepository) Update(ctx context.Context, aggregate *baggage.Baggage) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	v, err := r.uow.read()
	if err != nil {
		return err
	}
	stored, ok := v.baggage[aggregate.ID()]
	if !ok {
		return errs.NewObjectNotFoundError("baggage", aggregate.ID().String())
	}

	base := len(stored.history)
	if err = checkLedgerBase(stored, aggregate); err != nil {
		return err
	}

	return r.uow.write(ctx, updateBaggage{
		id:                aggregate.ID(),
		number:            aggregate.TrackingNumber(),
		status:            aggregate.Status(),
		heldForInspection: aggregate.IsHeldForInspection(),
		base:              base,
		entries:           entriesToRows(aggregate.EntriesAfter(base)),
	})
}

// checkLedgerBase rejects an aggregate that was loaded before another writer appended.
func checkLedgerBase(stored baggageRow, aggregate *baggage.Baggage) error {
	base := len(stored.history)
	if base == 0 {
		return nil
	}

	history := aggregate.History()
	last := stored.history[base-1]
	if len(history) < base ||
		history[base-1].Status() != last.status ||
		!history[base-1].RecordedAt().Equal(last.recordedAt) {
		return errs.NewObjectAlreadyExistsErrorWithCause("sequence", base,
			fmt.Errorf("ledger of %s changed since it was loaded", stored.trackingNumber))
	}
	return nil
}

func (r *BaggageRepository) GetByTrackingNumber(_ context.Context, trackingNumber string) (*baggage.Baggage, error) {
	v, err := r.uow.read()
	if err != nil {
		return nil, err
	}

	row, ok := v.findBaggage(trackingNumber)
	if !ok {
		return nil, errs.NewObjectNotFoundError("trackingNumber", trackingNumber)
	}
	return rowToBaggage(row)
}

func (r *BaggageRepository) GetAll(_ context.Context) ([]*baggage.Baggage, error) {
	v, err := r.uow.read()
	if err != nil {
		return nil, err
	}

	rows := v.sortedBaggage()
	result := make([]*baggage.Baggage, 0, len(rows))
	for _, row := range rows {
		b, err := rowToBaggage(row)
		if err != nil {
			return nil, err
		}
		result = append(result, b)
	}
	return result, nil
}

func (r *BaggageRepository) GetHistory(_ context.Context, trackingNumber string) ([]baggage.HistoryEntry, error) {
	v, err := r.uow.read()
	if err != nil {
		return nil, err
	}

	row, ok := v.findBaggage(trackingNumber)
	if !ok {
		return []baggage.HistoryEntry{}, nil
	}
	return rowsToEntries(row.id, row.history)
}

func (r *BaggageRepository) GetIdleTrackingNumbers(
	_ context.Context,
	statuses []baggage.Status,
	idleSince time.Time,
) ([]string, error) {
	v, err := r.uow.read()
	if err != nil {
		return nil, err
	}

	wanted := make(map[baggage.Status]struct{}, len(statuses))
	for _, s := range statuses {
		wanted[s] = struct{}{}
	}

	numbers := make([]string, 0)
	for _, row := range v.sortedBaggage() {
		if _, ok := wanted[row.status]; !ok || len(row.history) == 0 {
			continue
		}
		if row.history[len(row.history)-1].recordedAt.After(idleSince) {
			continue
		}
		numbers = append(numbers, row.trackingNumber)
	}
	return numbers, nil
}
