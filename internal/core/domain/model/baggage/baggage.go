package baggage

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"baggage/internal/core/domain/model/kernel"
	"baggage/internal/pkg/errs"
	"baggage/internal/pkg/guard"
)

// Details written by the aggregate itself.
const (
	DetailsInitialDropOff = "Baggage initially dropped off."
	DetailsHeld           = "Held by administrator."
	DetailsReleased       = "Released by administrator."
	DetailsManualUpdate   = "Status manually updated."
)

var (
	// ErrBaggageIsNotConstructed is returned when a zero-value Baggage is used.
	ErrBaggageIsNotConstructed = errors.New("Baggage must be created via NewBaggage or RestoreBaggage")
	// ErrTrackingNumberIsRequired is returned for an empty or blank tracking number.
	ErrTrackingNumberIsRequired = errs.NewValueIsRequiredError("trackingNumber")
	// ErrHistoryIsRequired is returned when restoring a record without ledger entries.
	ErrHistoryIsRequired = errs.NewValueIsRequiredError("history")
	// ErrBaggageNotFound reports an unknown tracking number.
	ErrBaggageNotFound = errors.New("baggage not found")
)

// Baggage is the aggregate root for one checked item and its history ledger.
//
// Invariants:
//   - the ledger is never empty; NewBaggage appends the initial DROPPED_OFF entry
//   - Status always equals the status of the last ledger entry
//   - IsHeldForInspection is true exactly when Status is HELD_FOR_INSPECTION
//   - ledger timestamps strictly increase and sequences run 1..n without gaps
//
// Every mutation goes through Append, including Hold and Release.
//
// Example:
//
//	weight, _ := kernel.NewWeight(20.5)
//	bag, err := baggage.NewBaggage(kernel.NewUUID(), "AB12345", weight, flightID, time.Now())
//	if err != nil {
//	    return err
//	}
//	_, err = bag.Append(baggage.SecurityCleared, "Cleared by X-ray scan.", time.Now())
type Baggage struct {
	id                kernel.UUID
	trackingNumber    string
	weight            kernel.Weight
	flightID          kernel.UUID
	status            Status
	heldForInspection bool
	history           []HistoryEntry
	guard             guard.ConstructorGuard
}

// NewBaggage creates a DROPPED_OFF record and appends its initial ledger entry at the given time.
func NewBaggage(
	id kernel.UUID,
	trackingNumber string,
	weight kernel.Weight,
	flightID kernel.UUID,
	droppedOffAt time.Time,
) (*Baggage, error) {
	b := &Baggage{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		b.setID(id),
		b.setTrackingNumber(trackingNumber),
		b.setWeight(weight),
		b.setFlightID(flightID),
	); err != nil {
		return nil, err
	}

	if _, err := b.Append(DroppedOff, DetailsInitialDropOff, droppedOffAt); err != nil {
		return nil, err
	}

	return b, nil
}

// RestoreBaggage rebuilds a record loaded from storage.
// The stored status must match the last ledger entry and the ledger must be ordered by sequence.
func RestoreBaggage(
	id kernel.UUID,
	trackingNumber string,
	weight kernel.Weight,
	flightID kernel.UUID,
	status Status,
	history []HistoryEntry,
) (*Baggage, error) {
	b := &Baggage{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		b.setID(id),
		b.setTrackingNumber(trackingNumber),
		b.setWeight(weight),
		b.setFlightID(flightID),
		b.setHistory(history),
	); err != nil {
		return nil, err
	}

	if b.status != status {
		return nil, errs.NewValueIsInvalidErrorWithCause("status",
			fmt.Errorf("stored status %s differs from last ledger entry %s", status, b.status))
	}

	return b, nil
}

// Validate reports whether the record was built by a constructor.
func (b *Baggage) Validate() error {
	return b.guard.Validate(ErrBaggageIsNotConstructed)
}

// IsEqual compares records by identity.
func (b *Baggage) IsEqual(other *Baggage) bool {
	if other == nil {
		return false
	}
	return b.id.IsEqual(other.id)
}

// ID returns the record identity.
func (b *Baggage) ID() kernel.UUID {
	return b.id
}

// TrackingNumber returns the tag number printed on the item.
func (b *Baggage) TrackingNumber() string {
	return b.trackingNumber
}

// Weight returns the checked weight.
func (b *Baggage) Weight() kernel.Weight {
	return b.weight
}

// FlightID returns the referenced flight.
func (b *Baggage) FlightID() kernel.UUID {
	return b.flightID
}

// Status returns the current stage.
func (b *Baggage) Status() Status {
	return b.status
}

// IsHeldForInspection reports whether automated processing is paused.
func (b *Baggage) IsHeldForInspection() bool {
	return b.heldForInspection
}

// History returns a copy of the ledger in append order.
func (b *Baggage) History() []HistoryEntry {
	history := make([]HistoryEntry, len(b.history))
	copy(history, b.history)
	return history
}

// LastEntry returns the most recent ledger entry.
func (b *Baggage) LastEntry() HistoryEntry {
	return b.history[len(b.history)-1]
}

// Append records a transition to status and makes it the current status.
// It returns false without touching the ledger when status equals the current
// status and details is empty. Timestamps are truncated to microseconds and nudged
// forward so that they strictly increase within the ledger.
func (b *Baggage) Append(status Status, details string, at time.Time) (bool, error) {
	if err := b.Validate(); err != nil {
		return false, err
	}
	if err := status.Validate(); err != nil {
		return false, err
	}
	if at.IsZero() {
		return false, errs.NewValueIsRequiredError("recordedAt")
	}

	if len(b.history) > 0 && status == b.status && details == "" {
		return false, nil
	}

	recordedAt := at.UTC().Truncate(time.Microsecond)
	if len(b.history) > 0 {
		if last := b.LastEntry().RecordedAt(); !recordedAt.After(last) {
			recordedAt = last.Add(time.Microsecond)
		}
	}

	entry, err := RestoreHistoryEntry(b.id, len(b.history)+1, status, recordedAt, details)
	if err != nil {
		return false, err
	}

	b.history = append(b.history, entry)
	b.status = status
	b.heldForInspection = status == HeldForInspection
	return true, nil
}

// Hold pauses automated processing. Holding a held item is a no-op.
func (b *Baggage) Hold(at time.Time) (bool, error) {
	if b.status == HeldForInspection {
		return false, nil
	}
	return b.Append(HeldForInspection, DetailsHeld, at)
}

// Release moves a held item back to DROPPED_OFF so that automated processing restarts
// from the first stage. Releasing an item that is not held is a no-op.
func (b *Baggage) Release(at time.Time) (bool, error) {
	if b.status != HeldForInspection {
		return false, nil
	}
	return b.Append(DroppedOff, DetailsReleased, at)
}

// EntriesAfter returns the ledger entries with a sequence greater than sequence.
// Repositories use it to persist only what was appended since the last save.
func (b *Baggage) EntriesAfter(sequence int) []HistoryEntry {
	if sequence < 0 {
		sequence = 0
	}
	if sequence >= len(b.history) {
		return nil
	}
	pending := make([]HistoryEntry, len(b.history)-sequence)
	copy(pending, b.history[sequence:])
	return pending
}

// Snapshot returns an independent copy of the record for callers outside the aggregate.
func (b *Baggage) Snapshot() Snapshot {
	entries := make([]EntrySnapshot, 0, len(b.history))
	for _, e := range b.history {
		entries = append(entries, EntrySnapshot{
			Sequence:   e.Sequence(),
			Status:     e.Status(),
			StatusName: e.Status().DisplayName(),
			RecordedAt: e.RecordedAt(),
			Details:    e.Details(),
		})
	}

	return Snapshot{
		ID:                b.id,
		TrackingNumber:    b.trackingNumber,
		WeightKg:          b.weight.Kg(),
		FlightID:          b.flightID,
		Status:            b.status,
		StatusName:        b.status.DisplayName(),
		HeldForInspection: b.heldForInspection,
		History:           entries,
	}
}

func (b *Baggage) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	b.id = id
	return nil
}

func (b *Baggage) setTrackingNumber(trackingNumber string) error {
	if strings.TrimSpace(trackingNumber) == "" {
		return ErrTrackingNumberIsRequired
	}
	if strings.TrimSpace(trackingNumber) != trackingNumber {
		return errs.NewValueIsInvalidErrorWithCause("trackingNumber",
			errors.New("must not start or end with whitespace"))
	}
	b.trackingNumber = trackingNumber
	return nil
}

func (b *Baggage) setWeight(weight kernel.Weight) error {
	if err := weight.Validate(); err != nil {
		return err
	}
	b.weight = weight
	return nil
}

func (b *Baggage) setFlightID(flightID kernel.UUID) error {
	if err := flightID.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("flightID", err)
	}
	b.flightID = flightID
	return nil
}

func (b *Baggage) setHistory(history []HistoryEntry) error {
	if len(history) == 0 {
		return ErrHistoryIsRequired
	}

	restored := make([]HistoryEntry, len(history))
	copy(restored, history)
	for i, e := range restored {
		if err := e.Validate(); err != nil {
			return err
		}
		if e.Sequence() != i+1 {
			return errs.NewValueIsInvalidErrorWithCause("history",
				fmt.Errorf("entry %d has sequence %d", i+1, e.Sequence()))
		}
		if !e.BaggageID().IsEqual(b.id) {
			return errs.NewValueIsInvalidErrorWithCause("history",
				fmt.Errorf("entry %d belongs to baggage %s", i+1, e.BaggageID()))
		}
	}

	b.history = restored
	last := restored[len(restored)-1].Status()
	b.status = last
	b.heldForInspection = last == HeldForInspection
	return nil
}
