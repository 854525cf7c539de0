package baggage

import (
	"time"

	"baggage/internal/core/domain/model/kernel"
)

// Snapshot is a detached, read-only copy of a Baggage record.
// Changing it never affects stored state.
type Snapshot struct {
	ID                kernel.UUID     `json:"id"`
	TrackingNumber    string          `json:"trackingNumber"`
	WeightKg          float64         `json:"weightKg"`
	FlightID          kernel.UUID     `json:"flightId"`
	Status            Status          `json:"status"`
	StatusName        string          `json:"statusName"`
	HeldForInspection bool            `json:"heldForInspection"`
	History           []EntrySnapshot `json:"history"`
}

// EntrySnapshot is the detached form of a HistoryEntry.
type EntrySnapshot struct {
	Sequence   int       `json:"sequence"`
	Status     Status    `json:"status"`
	StatusName string    `json:"statusName"`
	RecordedAt time.Time `json:"recordedAt"`
	Details    string    `json:"details"`
}
