package flightrepo

import (
	"context"
	"errors"

	"baggage/internal/core/domain/model/flight"
	"baggage/internal/core/domain/model/kernel"
	"baggage/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormFlightRepository implements ports.FlightRepository using GORM.
type GormFlightRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

func NewGormFlightRepository(db *gorm.DB, tracker aggregateTracker) *GormFlightRepository {
	return &GormFlightRepository{
		db:      db,
		tracker: tracker,
	}
}

func (r *GormFlightRepository) Add(ctx context.Context, aggregate *flight.Flight) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return errs.NewObjectAlreadyExistsErrorWithCause("number", aggregate.Number(), err)
		}
		return err
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

func (r *GormFlightRepository) Get(ctx context.Context, id kernel.UUID) (*flight.Flight, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto FlightDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("flight", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

func (r *GormFlightRepository) GetAll(ctx context.Context) ([]*flight.Flight, error) {
	var dtos []FlightDTO
	if err := r.db.WithContext(ctx).Order("departure_at, number").Find(&dtos).Error; err != nil {
		return nil, err
	}

	flights := make([]*flight.Flight, 0, len(dtos))
	for _, dto := range dtos {
		f, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		flights = append(flights, f)
	}

	return flights, nil
}
