package queries

import (
	"context"
	"errors"
	"fmt"

	"baggage/internal/core/domain/model/baggage"
	"baggage/internal/core/ports"
	"baggage/internal/pkg/errs"

	"go.uber.org/zap"
)

// GetBaggageByNumberQueryHandler reads one record, going through the snapshot cache when
// one is configured. Cache failures are logged and fall back to the store; after a failed
// cache read the cache is not filled.
type GetBaggageByNumberQueryHandler struct {
	uowFactory ports.UnitOfWorkFactory
	cache      ports.SnapshotCache
	logger     *zap.Logger
	observe    func(hit bool)
}

// NewGetBaggageByNumberQueryHandler creates the handler. cache may be nil.
func NewGetBaggageByNumberQueryHandler(
	uowFactory ports.UnitOfWorkFactory,
	cache ports.SnapshotCache,
	logger *zap.Logger,
) GetBaggageByNumberQueryHandler {
	return GetBaggageByNumberQueryHandler{
		uowFactory: uowFactory,
		cache:      cache,
		logger:     logger.With(zap.String("component", "baggage_lookup")),
		observe:    func(bool) {},
	}
}

// WithCacheObserver reports every cache lookup as a hit or a miss.
func (h GetBaggageByNumberQueryHandler) WithCacheObserver(observe func(hit bool)) GetBaggageByNumberQueryHandler {
	h.observe = observe
	return h
}

func (h GetBaggageByNumberQueryHandler) Handle(
	ctx context.Context,
	query GetBaggageByNumberQuery,
) (baggage.Snapshot, error) {
	if err := query.Validate(); err != nil {
		return baggage.Snapshot{}, err
	}

	fillable := false
	var fence string
	if h.cache != nil {
		lookup, err := h.cache.Get(ctx, query.TrackingNumber())
		if err != nil {
			h.logger.Warn("snapshot cache read failed", zap.Error(err))
		}
		h.observe(lookup.Found)
		if lookup.Found {
			return lookup.Snapshot, nil
		}
		fillable, fence = err == nil, lookup.Fence
	}

	b, err := h.uowFactory.Create().BaggageRepository().GetByTrackingNumber(ctx, query.TrackingNumber())
	if errors.Is(err, errs.ErrObjectNotFound) {
		return baggage.Snapshot{}, fmt.Errorf("%w: %w", ErrBaggageNotFound, err)
	}
	if err != nil {
		return baggage.Snapshot{}, errs.NewPersistenceFailureError("load baggage", err)
	}

	snapshot := b.Snapshot()
	if fillable {
		stored, err := h.cache.Fill(ctx, snapshot, fence)
		if err != nil {
			h.logger.Warn("snapshot cache write failed", zap.Error(err))
		} else if !stored {
			h.logger.Debug("snapshot changed while loading, cache not filled",
				zap.String("trackingNumber", snapshot.TrackingNumber))
		}
	}

	return snapshot, nil
}
