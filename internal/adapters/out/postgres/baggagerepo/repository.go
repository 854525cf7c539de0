package baggagerepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"baggage/internal/core/domain/model/baggage"
	"baggage/internal/core/domain/model/kernel"
	"baggage/internal/pkg/errs"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const historyOrder = "recorded_at ASC, sequence ASC"

// GormBaggageRepository implements ports.BaggageRepository using GORM.
// The connection must be opened with gorm.Config{TranslateError: true} so unique and
// foreign key violations arrive as gorm.ErrDuplicatedKey and gorm.ErrForeignKeyViolated.
type GormBaggageRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

func NewGormBaggageRepository(db *gorm.DB, tracker aggregateTracker) *GormBaggageRepository {
	return &GormBaggageRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add inserts the record and its whole ledger.
func (r *GormBaggageRepository) Add(ctx context.Context, aggregate *baggage.Baggage) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return translate(err, aggregate)
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Update writes the current status and inserts the entries the stored ledger lacks.
// The row update takes the row lock first, so concurrent writers to one record are
// serialised and the later one finds a ledger it did not load.
func (r *GormBaggageRepository) Update(ctx context.Context, aggregate *baggage.Baggage) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	db := r.db.WithContext(ctx)
	id := aggregate.ID().Bytes()

	result := db.Model(&BaggageDTO{}).Where("id = ?", id).Updates(map[string]any{
		"status":              aggregate.Status().String(),
		"held_for_inspection": aggregate.IsHeldForInspection(),
		"updated_at":          aggregate.LastEntry().RecordedAt(),
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("baggage", aggregate.ID().String())
	}

	var last HistoryEntryDTO
	err := db.Where("baggage_id = ?", id).Order("sequence DESC").Limit(1).Find(&last).Error
	if err != nil {
		return err
	}

	if err = checkLedgerBase(last, aggregate); err != nil {
		return err
	}

	pending := entriesFromDomain(id, aggregate.EntriesAfter(last.Sequence))
	if len(pending) > 0 {
		if err = db.Omit(clause.Associations).Create(&pending).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return errs.NewObjectAlreadyExistsErrorWithCause("sequence", pending[0].Sequence, err)
			}
			return err
		}
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

func (r *GormBaggageRepository) GetByTrackingNumber(ctx context.Context, trackingNumber string) (*baggage.Baggage, error) {
	var dto BaggageDTO
	err := r.db.WithContext(ctx).
		Preload("History", func(db *gorm.DB) *gorm.DB { return db.Order(historyOrder) }).
		First(&dto, "tracking_number = ?", trackingNumber).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errs.NewObjectNotFoundError("trackingNumber", trackingNumber)
	}
	if err != nil {
		return nil, err
	}

	return toDomain(dto)
}

func (r *GormBaggageRepository) GetAll(ctx context.Context) ([]*baggage.Baggage, error) {
	var dtos []BaggageDTO
	err := r.db.WithContext(ctx).
		Preload("History", func(db *gorm.DB) *gorm.DB { return db.Order(historyOrder) }).
		Order("tracking_number").
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}

	result := make([]*baggage.Baggage, 0, len(dtos))
	for _, dto := range dtos {
		b, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		result = append(result, b)
	}
	return result, nil
}

func (r *GormBaggageRepository) GetHistory(ctx context.Context, trackingNumber string) ([]baggage.HistoryEntry, error) {
	var dtos []HistoryEntryDTO
	err := r.db.WithContext(ctx).
		Joins("JOIN baggage ON baggage.id = baggage_history.baggage_id").
		Where("baggage.tracking_number = ?", trackingNumber).
		Order("baggage_history.recorded_at ASC, baggage_history.sequence ASC").
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}
	if len(dtos) == 0 {
		return []baggage.HistoryEntry{}, nil
	}

	baggageID, err := kernel.UUIDFromBytes(dtos[0].BaggageID[:])
	if err != nil {
		return nil, err
	}
	return entriesToDomain(baggageID, dtos)
}

// GetIdleTrackingNumbers uses updated_at, which always equals the time of the last entry.
func (r *GormBaggageRepository) GetIdleTrackingNumbers(
	ctx context.Context,
	statuses []baggage.Status,
	idleSince time.Time,
) ([]string, error) {
	if len(statuses) == 0 {
		return []string{}, nil
	}

	codes := make([]string, 0, len(statuses))
	for _, s := range statuses {
		codes = append(codes, s.String())
	}

	numbers := make([]string, 0)
	err := r.db.WithContext(ctx).
		Model(&BaggageDTO{}).
		Where("status IN ? AND updated_at <= ?", codes, idleSince).
		Order("tracking_number").
		Pluck("tracking_number", &numbers).Error
	if err != nil {
		return nil, err
	}
	return numbers, nil
}

// checkLedgerBase rejects an aggregate whose copy of the last stored entry differs from
// what is stored, which means another writer appended after it was loaded.
func checkLedgerBase(last HistoryEntryDTO, aggregate *baggage.Baggage) error {
	if last.Sequence == 0 {
		return nil
	}

	history := aggregate.History()
	if len(history) >= last.Sequence {
		mine := history[last.Sequence-1]
		if mine.Status().String() == last.Status && mine.RecordedAt().Equal(last.RecordedAt) {
			return nil
		}
	}

	return errs.NewObjectAlreadyExistsErrorWithCause("sequence", last.Sequence,
		fmt.Errorf("ledger of %s changed since it was loaded", aggregate.TrackingNumber()))
}

func translate(err error, aggregate *baggage.Baggage) error {
	switch {
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return errs.NewObjectAlreadyExistsErrorWithCause("trackingNumber", aggregate.TrackingNumber(), err)
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return errs.NewObjectNotFoundErrorWithCause("flight", aggregate.FlightID().String(), err)
	default:
		return err
	}
}
