package memory_test

import (
	"testing"
	"time"

	"baggage/internal/adapters/out/memory"
	"baggage/internal/core/domain/model/baggage"
	"baggage/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBaggageRepository_UpdateAppendsOnlyNewEntries(t *testing.T) {
	ctx := t.Context()
	factory := memory.NewUnitOfWorkFactory(memory.NewStore(), nil)
	f := seedFlight(t, factory, "LH400")
	repo := factory.Create().BaggageRepository()

	b := newBaggage(t, "AB100", f)
	require.NoError(t, repo.Add(ctx, b))

	_, err := b.Append(baggage.SecurityCleared, "Cleared by X-ray scan.", dropTime.Add(time.Minute))
	require.NoError(t, err)
	require.NoError(t, repo.Update(ctx, b))
	_, err = b.Append(baggage.Sorted, "Sorted to gate conveyor for flight LH400.", dropTime.Add(2*time.Minute))
	require.NoError(t, err)
	require.NoError(t, repo.Update(ctx, b))

	history, err := repo.GetHistory(ctx, "AB100")
	require.NoError(t, err)
	require.Len(t, history, 3)
	assert.Equal(t, baggage.DroppedOff, history[0].Status())
	assert.Equal(t, baggage.SecurityCleared, history[1].Status())
	assert.Equal(t, baggage.Sorted, history[2].Status())
	assert.Equal(t, 3, history[2].Sequence())
}

func TestBaggageRepository_GetHistoryUnknownIsEmpty(t *testing.T) {
	repo := memory.NewUnitOfWorkFactory(memory.NewStore(), nil).Create().BaggageRepository()

	history, err := repo.GetHistory(t.Context(), "NOPE")
	require.NoError(t, err)
	assert.NotNil(t, history)
	assert.Empty(t, history)
}

func TestBaggageRepository_GetByTrackingNumberNotFound(t *testing.T) {
	repo := memory.NewUnitOfWorkFactory(memory.NewStore(), nil).Create().BaggageRepository()

	_, err := repo.GetByTrackingNumber(t.Context(), "NOPE")
	require.ErrorIs(t, err, errs.ErrObjectNotFound)
}

func TestBaggageRepository_ReadsAreIndependentCopies(t *testing.T) {
	ctx := t.Context()
	factory := memory.NewUnitOfWorkFactory(memory.NewStore(), nil)
	f := seedFlight(t, factory, "LH400")
	repo := factory.Create().BaggageRepository()
	require.NoError(t, repo.Add(ctx, newBaggage(t, "AB100", f)))

	loaded, err := repo.GetByTrackingNumber(ctx, "AB100")
	require.NoError(t, err)
	_, err = loaded.Append(baggage.Lost, "", dropTime.Add(time.Minute))
	require.NoError(t, err)

	again, err := repo.GetByTrackingNumber(ctx, "AB100")
	require.NoError(t, err)
	assert.Equal(t, baggage.DroppedOff, again.Status())
}

func TestBaggageRepository_GetAllOrderedByTrackingNumber(t *testing.T) {
	ctx := t.Context()
	factory := memory.NewUnitOfWorkFactory(memory.NewStore(), nil)
	f := seedFlight(t, factory, "LH400")
	repo := factory.Create().BaggageRepository()

	for _, tn := range []string{"CC300", "AA100", "BB200"} {
		require.NoError(t, repo.Add(ctx, newBaggage(t, tn, f)))
	}

	all, err := repo.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "AA100", all[0].TrackingNumber())
	assert.Equal(t, "BB200", all[1].TrackingNumber())
	assert.Equal(t, "CC300", all[2].TrackingNumber())
}

func TestBaggageRepository_GetIdleTrackingNumbers(t *testing.T) {
	ctx := t.Context()
	factory := memory.NewUnitOfWorkFactory(memory.NewStore(), nil)
	f := seedFlight(t, factory, "LH400")
	repo := factory.Create().BaggageRepository()

	parked := newBaggage(t, "AA100", f)
	require.NoError(t, repo.Add(ctx, parked))

	recent := newBaggage(t, "BB200", f)
	require.NoError(t, repo.Add(ctx, recent))
	_, err := recent.Append(baggage.Sorted, "", dropTime.Add(time.Hour))
	require.NoError(t, err)
	require.NoError(t, repo.Update(ctx, recent))

	lost := newBaggage(t, "CC300", f)
	require.NoError(t, repo.Add(ctx, lost))
	_, err = lost.Append(baggage.Lost, "", dropTime.Add(time.Minute))
	require.NoError(t, err)
	require.NoError(t, repo.Update(ctx, lost))

	statuses := []baggage.Status{baggage.DroppedOff, baggage.SecurityCleared, baggage.Sorted, baggage.CBRReady}
	numbers, err := repo.GetIdleTrackingNumbers(ctx, statuses, dropTime.Add(30*time.Minute))
	require.NoError(t, err)
	assert.Equal(t, []string{"AA100"}, numbers)
}
