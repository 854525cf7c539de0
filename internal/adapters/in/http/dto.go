package http

import (
	"time"

	"baggage/internal/core/application/usecases/commands"
	"baggage/internal/core/domain/model/baggage"
	"baggage/internal/core/domain/model/kernel"
)

// Error is the body of every non-2xx response.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type DropBaggageRequest struct {
	TrackingNumber string      `json:"trackingNumber"`
	WeightKg       float64     `json:"weightKg"`
	FlightID       kernel.UUID `json:"flightId"`
}

// RecordStatusRequest carries a status override. A missing details field means a
// manual update with the standard note; an explicit empty string records no note.
type RecordStatusRequest struct {
	Status  string  `json:"status"`
	Details *string `json:"details,omitempty"`
}

type SetHoldRequest struct {
	Hold *bool `json:"hold"`
}

type RegisterFlightRequest struct {
	Number      string    `json:"number"`
	Origin      string    `json:"origin"`
	Destination string    `json:"destination"`
	DepartureAt time.Time `json:"departureAt"`
}

type RegisterFlightResponse struct {
	ID kernel.UUID `json:"id"`
}

type Processing struct {
	Steps   int    `json:"steps"`
	Outcome string `json:"outcome"`
}

type DropBaggageResponse struct {
	Baggage    baggage.Snapshot `json:"baggage"`
	Created    bool             `json:"created"`
	Processing Processing       `json:"processing"`
	Warning    string           `json:"warning,omitempty"`
}

func processingFrom(report commands.ProcessingReport) Processing {
	return Processing{
		Steps:   report.Steps,
		Outcome: report.Outcome.String(),
	}
}
