package services

import (
	"fmt"
	"slices"

	"baggage/internal/core/domain/model/baggage"
)

// Outcome tells the driver what to do with a record in a given status.
type Outcome int

const (
	// OutcomeUnknown is never returned for a valid status.
	OutcomeUnknown Outcome = iota
	// OutcomeAdvance means a stage transition is defined for the status.
	OutcomeAdvance
	// OutcomePaused means the record is held for inspection.
	OutcomePaused
	// OutcomeComplete means automated ground handling has finished.
	OutcomeComplete
	// OutcomeNoStep means the status is outside automated processing.
	OutcomeNoStep
)

func (o Outcome) String() string {
	switch o {
	case OutcomeAdvance:
		return "advance"
	case OutcomePaused:
		return "paused"
	case OutcomeComplete:
		return "complete"
	case OutcomeNoStep:
		return "no_step"
	default:
		return "unknown"
	}
}

// Stage is one row of the ground-handling transition table.
type Stage struct {
	From     baggage.Status
	To       baggage.Status
	describe func(flightNumber string) string
}

// Details renders the ledger note for this stage.
func (s Stage) Details(flightNumber string) string {
	return s.describe(flightNumber)
}

// GroundPipeline is the transition table of automated ground handling:
//
//	DROPPED_OFF -> SECURITY_CLEARED -> SORTED -> CBR_READY -> LOADED
//
// Statuses without a row are classified by the resting table: held items are paused,
// loaded and post-ground items are complete, irregularities have no step.
// The table is data; adding a stage does not change the driver loop.
//
// Example:
//
//	pipeline := services.NewGroundPipeline()
//	stage, outcome := pipeline.Next(bag.Status())
//	if outcome == services.OutcomeAdvance {
//	    _, err := bag.Append(stage.To, stage.Details(flight.Number()), time.Now())
//	}
type GroundPipeline struct {
	stages  map[baggage.Status]Stage
	resting map[baggage.Status]Outcome
}

// NewGroundPipeline returns the standard ground-handling table.
func NewGroundPipeline() GroundPipeline {
	stages := []Stage{
		{
			From:     baggage.DroppedOff,
			To:       baggage.SecurityCleared,
			describe: func(string) string { return "Cleared by X-ray scan." },
		},
		{
			From: baggage.SecurityCleared,
			To:   baggage.Sorted,
			describe: func(flightNumber string) string {
				return fmt.Sprintf("Sorted to gate conveyor for flight %s.", flightNumber)
			},
		},
		{
			From:     baggage.Sorted,
			To:       baggage.CBRReady,
			describe: func(string) string { return "Ready for container/cart/bag loading." },
		},
		{
			From: baggage.CBRReady,
			To:   baggage.Loaded,
			describe: func(flightNumber string) string {
				return fmt.Sprintf("Loaded onto flight %s.", flightNumber)
			},
		},
	}

	p := GroundPipeline{
		stages: make(map[baggage.Status]Stage, len(stages)),
		resting: map[baggage.Status]Outcome{
			baggage.HeldForInspection: OutcomePaused,
			baggage.Loaded:            OutcomeComplete,
			baggage.Transit:           OutcomeComplete,
			baggage.Arrived:           OutcomeComplete,
			baggage.Delivered:         OutcomeComplete,
			baggage.Lost:              OutcomeNoStep,
			baggage.Damaged:           OutcomeNoStep,
			baggage.Misrouted:         OutcomeNoStep,
		},
	}
	for _, s := range stages {
		p.stages[s.From] = s
	}
	return p
}

// Next returns the stage to run for status. The Stage is only meaningful for OutcomeAdvance.
func (p GroundPipeline) Next(status baggage.Status) (Stage, Outcome) {
	if stage, ok := p.stages[status]; ok {
		return stage, OutcomeAdvance
	}
	if outcome, ok := p.resting[status]; ok {
		return Stage{}, outcome
	}
	return Stage{}, OutcomeUnknown
}

// MaxSteps bounds a single drive; a run longer than the table means the table has a cycle.
func (p GroundPipeline) MaxSteps() int {
	return len(p.stages)
}

// ResumableStatuses lists the statuses from which a drive would make progress, in stage order.
func (p GroundPipeline) ResumableStatuses() []baggage.Status {
	result := make([]baggage.Status, 0, len(p.stages))
	for status := range p.stages {
		result = append(result, status)
	}
	slices.Sort(result)
	return result
}
