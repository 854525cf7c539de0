// Package baggagerepo maps baggage records and their history ledger onto the
// "baggage" and "baggage_history" tables.
package baggagerepo

import (
	"time"

	"baggage/internal/core/domain/model/baggage"
	"baggage/internal/core/domain/model/kernel"

	"github.com/google/uuid"
)

// BaggageDTO is one row of the baggage table. Status is stored as its code.
// The flight_id foreign key is created by postgres.Migrate.
type BaggageDTO struct {
	ID                uuid.UUID         `gorm:"type:uuid;primaryKey"`
	TrackingNumber    string            `gorm:"type:text;not null;uniqueIndex"`
	WeightKg          float64           `gorm:"type:double precision;not null"`
	FlightID          uuid.UUID         `gorm:"type:uuid;not null;index"`
	Status            string            `gorm:"type:varchar(32);not null;index"`
	HeldForInspection bool              `gorm:"not null;default:false"`
	UpdatedAt         time.Time         `gorm:"not null;autoUpdateTime:false"`
	History           []HistoryEntryDTO `gorm:"foreignKey:BaggageID;constraint:OnDelete:CASCADE"`
}

func (BaggageDTO) TableName() string {
	return "baggage"
}

// HistoryEntryDTO is one ledger entry. (baggage_id, sequence) is unique, so two writers
// appending to the same ledger cannot both succeed.
type HistoryEntryDTO struct {
	ID         uint      `gorm:"primaryKey;autoIncrement"`
	BaggageID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_history_baggage_sequence,priority:1"`
	Sequence   int       `gorm:"not null;uniqueIndex:idx_history_baggage_sequence,priority:2"`
	Status     string    `gorm:"type:varchar(32);not null"`
	RecordedAt time.Time `gorm:"type:timestamptz;not null;index"`
	Details    string    `gorm:"type:text;not null;default:''"`
}

func (HistoryEntryDTO) TableName() string {
	return "baggage_history"
}

func fromDomain(b *baggage.Baggage) BaggageDTO {
	id := b.ID().Bytes()
	return BaggageDTO{
		ID:                id,
		TrackingNumber:    b.TrackingNumber(),
		WeightKg:          b.Weight().Kg(),
		FlightID:          b.FlightID().Bytes(),
		Status:            b.Status().String(),
		HeldForInspection: b.IsHeldForInspection(),
		UpdatedAt:         b.LastEntry().RecordedAt(),
		History:           entriesFromDomain(id, b.History()),
	}
}

func entriesFromDomain(baggageID uuid.UUID, entries []baggage.HistoryEntry) []HistoryEntryDTO {
	dtos := make([]HistoryEntryDTO, 0, len(entries))
	for _, e := range entries {
		dtos = append(dtos, HistoryEntryDTO{
			BaggageID:  baggageID,
			Sequence:   e.Sequence(),
			Status:     e.Status().String(),
			RecordedAt: e.RecordedAt(),
			Details:    e.Details(),
		})
	}
	return dtos
}

func toDomain(dto BaggageDTO) (*baggage.Baggage, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	flightID, err := kernel.UUIDFromBytes(dto.FlightID[:])
	if err != nil {
		return nil, err
	}

	weight, err := kernel.NewWeight(dto.WeightKg)
	if err != nil {
		return nil, err
	}

	status, err := baggage.ParseStatus(dto.Status)
	if err != nil {
		return nil, err
	}

	history, err := entriesToDomain(id, dto.History)
	if err != nil {
		return nil, err
	}

	return baggage.RestoreBaggage(id, dto.TrackingNumber, weight, flightID, status, history)
}

func entriesToDomain(baggageID kernel.UUID, dtos []HistoryEntryDTO) ([]baggage.HistoryEntry, error) {
	entries := make([]baggage.HistoryEntry, 0, len(dtos))
	for _, dto := range dtos {
		status, err := baggage.ParseStatus(dto.Status)
		if err != nil {
			return nil, err
		}

		e, err := baggage.RestoreHistoryEntry(baggageID, dto.Sequence, status, dto.RecordedAt, dto.Details)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, nil
}
