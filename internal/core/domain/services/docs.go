// Package services holds domain logic that is data rather than state.
//
// GroundPipeline is the transition table of automated baggage handling. It maps the
// current status of a record to the next stage and its ledger note, and classifies
// statuses without a stage as paused, complete or outside automation. Executing the
// stages (loading records, committing each step) belongs to the application layer.
package services
