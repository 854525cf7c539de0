package baggage

import (
	"errors"
	"fmt"
	"time"

	"baggage/internal/core/domain/model/kernel"
	"baggage/internal/pkg/errs"
	"baggage/internal/pkg/guard"
)

// ErrHistoryEntryIsNotConstructed is returned when a zero-value HistoryEntry is used.
var ErrHistoryEntryIsNotConstructed = errors.New("HistoryEntry must be created via RestoreHistoryEntry or Baggage.Append")

// HistoryEntry is one immutable line of a baggage item's ledger.
// Sequence is the 1-based position inside the ledger; together with RecordedAt it
// fixes the retrieval order.
type HistoryEntry struct { //nolint:recvcheck //using for validation
	baggageID  kernel.UUID
	sequence   int
	status     Status
	recordedAt time.Time
	details    string
	guard      guard.ConstructorGuard
}

// RestoreHistoryEntry rebuilds an entry loaded from storage.
func RestoreHistoryEntry(
	baggageID kernel.UUID,
	sequence int,
	status Status,
	recordedAt time.Time,
	details string,
) (HistoryEntry, error) {
	entry := HistoryEntry{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		entry.setBaggageID(baggageID),
		entry.setSequence(sequence),
		entry.setStatus(status),
		entry.setRecordedAt(recordedAt),
	); err != nil {
		return HistoryEntry{}, err
	}
	entry.details = details

	return entry, nil
}

// Validate reports whether the entry was built by a constructor.
func (e HistoryEntry) Validate() error {
	return e.guard.Validate(ErrHistoryEntryIsNotConstructed)
}

// BaggageID returns the owning record's identifier.
func (e HistoryEntry) BaggageID() kernel.UUID {
	return e.baggageID
}

// Sequence returns the 1-based ledger position.
func (e HistoryEntry) Sequence() int {
	return e.sequence
}

// Status returns the recorded stage.
func (e HistoryEntry) Status() Status {
	return e.status
}

// RecordedAt returns the UTC time of the append.
func (e HistoryEntry) RecordedAt() time.Time {
	return e.recordedAt
}

// Details returns the free-text note attached to the transition.
func (e HistoryEntry) Details() string {
	return e.details
}

func (e HistoryEntry) String() string {
	return fmt.Sprintf("#%d %s at %s: %s", e.sequence, e.status, e.recordedAt.Format(time.RFC3339Nano), e.details)
}

func (e *HistoryEntry) setBaggageID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	e.baggageID = id
	return nil
}

func (e *HistoryEntry) setSequence(sequence int) error {
	if sequence < 1 {
		return errs.NewValueIsOutOfRangeError("sequence", sequence, 1, "unbounded")
	}
	e.sequence = sequence
	return nil
}

func (e *HistoryEntry) setStatus(status Status) error {
	if err := status.Validate(); err != nil {
		return err
	}
	e.status = status
	return nil
}

func (e *HistoryEntry) setRecordedAt(at time.Time) error {
	if at.IsZero() {
		return errs.NewValueIsRequiredError("recordedAt")
	}
	e.recordedAt = at.UTC()
	return nil
}
