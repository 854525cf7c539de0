package ports

import (
	"context"
	"time"

	"baggage/internal/core/domain/model/baggage"
)

// BaggageRepository is the Baggage Record Store.
// Implementations enforce tracking-number uniqueness and never delete ledger entries.
type BaggageRepository interface {
	// Add persists a new record with its whole ledger.
	// A tracking-number collision returns an error wrapping errs.ErrObjectAlreadyExists,
	// possibly only at commit time.
	Add(ctx context.Context, aggregate *baggage.Baggage) error

	// Update stores the current status and appends the ledger entries that are not yet stored.
	// Stored entries are never rewritten.
	Update(ctx context.Context, aggregate *baggage.Baggage) error

	// GetByTrackingNumber loads a record with its ordered ledger.
	// Unknown numbers return an error wrapping errs.ErrObjectNotFound.
	GetByTrackingNumber(ctx context.Context, trackingNumber string) (*baggage.Baggage, error)

	// GetAll loads every record ordered by tracking number.
	GetAll(ctx context.Context) ([]*baggage.Baggage, error)

	// GetHistory returns the ledger of a record ordered by time.
	// Unknown numbers yield an empty slice and no error.
	GetHistory(ctx context.Context, trackingNumber string) ([]baggage.HistoryEntry, error)

	// GetIdleTrackingNumbers returns records in one of statuses whose last transition
	// happened at or before idleSince, ordered by tracking number.
	GetIdleTrackingNumbers(ctx context.Context, statuses []baggage.Status, idleSince time.Time) ([]string, error)
}
