package ports

import (
	"context"

	"baggage/internal/core/domain/model/baggage"
)

// SnapshotLookup is the result of a cache read.
// After a miss, Fence must be handed back to Fill together with the snapshot read from the store.
type SnapshotLookup struct {
	Snapshot baggage.Snapshot
	Found    bool
	Fence    string
}

// SnapshotCache keeps recently read baggage snapshots.
// A miss returns Found == false and a nil error.
//
// Fill stores a snapshot only if the record was not invalidated since the miss that
// produced fence, so a reader that loaded an older state never overwrites a newer commit.
type SnapshotCache interface {
	SnapshotInvalidator

	Get(ctx context.Context, trackingNumber string) (SnapshotLookup, error)
	Fill(ctx context.Context, snapshot baggage.Snapshot, fence string) (stored bool, err error)
}
