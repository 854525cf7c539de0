// Package flightrepo maps flights onto the "flights" table.
package flightrepo

import (
	"time"

	"baggage/internal/core/domain/model/flight"
	"baggage/internal/core/domain/model/kernel"

	"github.com/google/uuid"
)

type FlightDTO struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	Number      string    `gorm:"type:varchar(8);not null;uniqueIndex"`
	Origin      string    `gorm:"type:char(3);not null"`
	Destination string    `gorm:"type:char(3);not null"`
	DepartureAt time.Time `gorm:"type:timestamptz;not null;index"`
}

func (FlightDTO) TableName() string {
	return "flights"
}

func fromDomain(f *flight.Flight) FlightDTO {
	return FlightDTO{
		ID:          f.ID().Bytes(),
		Number:      f.Number(),
		Origin:      f.Origin(),
		Destination: f.Destination(),
		DepartureAt: f.DepartureAt(),
	}
}

func toDomain(dto FlightDTO) (*flight.Flight, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	return flight.RestoreFlight(id, dto.Number, dto.Origin, dto.Destination, dto.DepartureAt)
}
