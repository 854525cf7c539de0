package commands_test

import (
	"math"
	"testing"
	"time"

	"baggage/internal/adapters/out/memory"
	"baggage/internal/core/application/usecases/commands"
	"baggage/internal/core/domain/model/baggage"
	"baggage/internal/core/domain/model/kernel"
	"baggage/internal/core/domain/services"
	"baggage/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func statuses(entries []baggage.EntrySnapshot) []baggage.Status {
	result := make([]baggage.Status, 0, len(entries))
	for _, e := range entries {
		result = append(result, e.Status)
	}
	return result
}

func historyOf(t *testing.T, env *testEnv, trackingNumber string) []baggage.HistoryEntry {
	t.Helper()
	history, err := env.factory.Create().BaggageRepository().GetHistory(t.Context(), trackingNumber)
	require.NoError(t, err)
	return history
}

func TestDropBaggage_RunsFullPipeline(t *testing.T) {
	env := newTestEnv(t)

	result := env.dropOff(t, "AB12345")

	assert.True(t, result.Created)
	assert.Equal(t, baggage.Loaded, result.Baggage.Status)
	assert.Equal(t, 4, result.Processing.Steps)
	assert.Equal(t, services.OutcomeComplete, result.Processing.Outcome)
	assert.Equal(t, []baggage.Status{
		baggage.DroppedOff,
		baggage.SecurityCleared,
		baggage.Sorted,
		baggage.CBRReady,
		baggage.Loaded,
	}, statuses(result.Baggage.History))

	details := make([]string, 0, len(result.Baggage.History))
	for _, e := range result.Baggage.History {
		details = append(details, e.Details)
	}
	assert.Equal(t, []string{
		"Baggage initially dropped off.",
		"Cleared by X-ray scan.",
		"Sorted to gate conveyor for flight LH400.",
		"Ready for container/cart/bag loading.",
		"Loaded onto flight LH400.",
	}, details)

	stored := historyOf(t, env, "AB12345")
	require.Len(t, stored, 5)
	for i := 1; i < len(stored); i++ {
		assert.True(t, stored[i].RecordedAt().After(stored[i-1].RecordedAt()))
	}
}

func TestDropBaggage_DuplicateReturnsExisting(t *testing.T) {
	env := newTestEnv(t)
	first := env.dropOff(t, "AB12345")

	other, err := commands.NewDropBaggageCommand("AB12345", 5, env.flight.ID())
	require.NoError(t, err)
	second, err := env.drop.Handle(t.Context(), other)
	require.NoError(t, err)

	assert.False(t, second.Created)
	assert.Equal(t, first.Baggage.ID, second.Baggage.ID)
	assert.InDelta(t, 20.5, second.Baggage.WeightKg, 0.001)
	assert.Zero(t, second.Processing.Steps)
	assert.Len(t, historyOf(t, env, "AB12345"), 5)

	all, err := env.factory.Create().BaggageRepository().GetAll(t.Context())
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestDropBaggage_DuplicateIgnoresFlightAndWeight(t *testing.T) {
	env := newTestEnv(t)
	first := env.dropOff(t, "AB12345")

	otherFlight, err := commands.NewRegisterFlightCommand(kernel.NewUUID(), "BA117", "LHR", "JFK", time.Now().Add(6*time.Hour))
	require.NoError(t, err)
	require.NoError(t, env.flights.Handle(t.Context(), otherFlight))

	tests := []struct {
		name     string
		weightKg float64
		flightID kernel.UUID
	}{
		{"different known flight", 31, otherFlight.FlightID()},
		{"unknown flight", 31, kernel.NewUUID()},
		{"missing flight", 31, kernel.UUID{}},
		{"invalid weight", -4, env.flight.ID()},
		{"weight is not a number", math.NaN(), kernel.NewUUID()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd, err := commands.NewDropBaggageCommand("AB12345", tt.weightKg, tt.flightID)
			require.NoError(t, err)

			result, err := env.drop.Handle(t.Context(), cmd)

			require.NoError(t, err)
			assert.False(t, result.Created)
			assert.Equal(t, first.Baggage.ID, result.Baggage.ID)
			assert.InDelta(t, 20.5, result.Baggage.WeightKg, 0.001)
			assert.Equal(t, env.flight.ID(), result.Baggage.FlightID)
			assert.Equal(t, baggage.Loaded, result.Baggage.Status)
			assert.Len(t, historyOf(t, env, "AB12345"), 5)
		})
	}
}

func TestDropBaggage_InvalidWeightForNewRecord(t *testing.T) {
	env := newTestEnv(t)

	cmd, err := commands.NewDropBaggageCommand("AB12345", 0, env.flight.ID())
	require.NoError(t, err)
	_, err = env.drop.Handle(t.Context(), cmd)

	require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	_, err = env.factory.Create().BaggageRepository().GetByTrackingNumber(t.Context(), "AB12345")
	require.ErrorIs(t, err, errs.ErrObjectNotFound)
}

func TestDropBaggage_UnknownFlight(t *testing.T) {
	env := newTestEnv(t)

	cmd, err := commands.NewDropBaggageCommand("AB12345", 12, kernel.NewUUID())
	require.NoError(t, err)
	_, err = env.drop.Handle(t.Context(), cmd)

	require.ErrorIs(t, err, commands.ErrFlightNotFound)
	_, err = env.factory.Create().BaggageRepository().GetByTrackingNumber(t.Context(), "AB12345")
	require.ErrorIs(t, err, errs.ErrObjectNotFound)
}

func TestDropBaggage_InterruptedPipelineKeepsRecord(t *testing.T) {
	store := memory.NewUnitOfWorkFactory(memory.NewStore(), nil)
	commits := 0
	// the drop-off and the first stage commit, the second stage fails
	env := newTestEnvWith(t, store, failingUoWFactory{inner: store, failAfter: 2, commits: &commits})

	cmd, err := commands.NewDropBaggageCommand("AB12345", 12, env.flight.ID())
	require.NoError(t, err)
	result, err := env.drop.Handle(t.Context(), cmd)

	require.ErrorIs(t, err, commands.ErrProcessingInterrupted)
	require.ErrorIs(t, err, errs.ErrPersistenceFailure)
	assert.True(t, result.Created)
	assert.Equal(t, 1, result.Processing.Steps)
	assert.Equal(t, baggage.SecurityCleared, result.Baggage.Status)
	assert.Len(t, historyOf(t, env, "AB12345"), 2)
}

func TestStartBaggageProcessing_ResumesInterruptedRecord(t *testing.T) {
	store := memory.NewUnitOfWorkFactory(memory.NewStore(), nil)
	commits := 0
	broken := newTestEnvWith(t, store, failingUoWFactory{inner: store, failAfter: 2, commits: &commits})

	cmd, err := commands.NewDropBaggageCommand("AB12345", 12, broken.flight.ID())
	require.NoError(t, err)
	_, err = broken.drop.Handle(t.Context(), cmd)
	require.ErrorIs(t, err, commands.ErrProcessingInterrupted)

	healthy := commands.NewStartBaggageProcessingCommandHandler(
		uowFactory{inner: store},
		commands.NewPipelineDriver(uowFactory{inner: store}, zapNop(), nil),
	)
	start, err := commands.NewStartBaggageProcessingCommand("AB12345")
	require.NoError(t, err)
	report, err := healthy.Handle(t.Context(), start)
	require.NoError(t, err)

	assert.Equal(t, 3, report.Steps)
	assert.Equal(t, services.OutcomeComplete, report.Outcome)
	assert.Len(t, historyOf(t, broken, "AB12345"), 5)
}

func TestStartBaggageProcessing_UnknownTrackingNumber(t *testing.T) {
	env := newTestEnv(t)

	cmd, err := commands.NewStartBaggageProcessingCommand("NOPE")
	require.NoError(t, err)
	_, err = env.start.Handle(t.Context(), cmd)

	require.ErrorIs(t, err, commands.ErrBaggageNotFound)
	require.ErrorIs(t, err, errs.ErrObjectNotFound)
}

func TestStartBaggageProcessing_CompletedRecordDoesNothing(t *testing.T) {
	env := newTestEnv(t)
	env.dropOff(t, "AB12345")

	cmd, err := commands.NewStartBaggageProcessingCommand("AB12345")
	require.NoError(t, err)
	report, err := env.start.Handle(t.Context(), cmd)
	require.NoError(t, err)

	assert.Zero(t, report.Steps)
	assert.Equal(t, services.OutcomeComplete, report.Outcome)
	assert.Len(t, historyOf(t, env, "AB12345"), 5)
}

func TestSetBaggageHold_HoldFreezesProgress(t *testing.T) {
	env := newTestEnv(t)
	env.dropOff(t, "AB12345")

	// move back into the automated range so a drive would otherwise advance
	back, err := commands.NewUpdateBaggageStatusCommand("AB12345", baggage.Sorted)
	require.NoError(t, err)
	_, err = env.record.Handle(t.Context(), back)
	require.NoError(t, err)

	hold, err := commands.NewSetBaggageHoldCommand("AB12345", true)
	require.NoError(t, err)
	require.NoError(t, env.hold.Handle(t.Context(), hold))

	start, err := commands.NewStartBaggageProcessingCommand("AB12345")
	require.NoError(t, err)
	report, err := env.start.Handle(t.Context(), start)
	require.NoError(t, err)

	assert.Zero(t, report.Steps)
	assert.Equal(t, services.OutcomePaused, report.Outcome)

	stored, err := env.factory.Create().BaggageRepository().GetByTrackingNumber(t.Context(), "AB12345")
	require.NoError(t, err)
	assert.Equal(t, baggage.HeldForInspection, stored.Status())
	assert.True(t, stored.IsHeldForInspection())
	assert.Len(t, stored.History(), 7)
	assert.Equal(t, baggage.DetailsHeld, stored.LastEntry().Details())
}

func TestSetBaggageHold_HoldTwiceIsNoop(t *testing.T) {
	env := newTestEnv(t)
	env.dropOff(t, "AB12345")

	hold, err := commands.NewSetBaggageHoldCommand("AB12345", true)
	require.NoError(t, err)
	require.NoError(t, env.hold.Handle(t.Context(), hold))
	require.NoError(t, env.hold.Handle(t.Context(), hold))

	assert.Len(t, historyOf(t, env, "AB12345"), 6)
}

func TestSetBaggageHold_ReleaseOfUnheldIsNoop(t *testing.T) {
	env := newTestEnv(t)
	env.dropOff(t, "AB12345")

	release, err := commands.NewSetBaggageHoldCommand("AB12345", false)
	require.NoError(t, err)
	require.NoError(t, env.hold.Handle(t.Context(), release))

	assert.Len(t, historyOf(t, env, "AB12345"), 5)
}

func TestSetBaggageHold_ReleaseRestartsFromDropOff(t *testing.T) {
	env := newTestEnv(t)

	// park the record at SORTED and hold it there
	env.dropOff(t, "AB12345")
	back, err := commands.NewUpdateBaggageStatusCommand("AB12345", baggage.Sorted)
	require.NoError(t, err)
	_, err = env.record.Handle(t.Context(), back)
	require.NoError(t, err)

	hold, err := commands.NewSetBaggageHoldCommand("AB12345", true)
	require.NoError(t, err)
	require.NoError(t, env.hold.Handle(t.Context(), hold))

	release, err := commands.NewSetBaggageHoldCommand("AB12345", false)
	require.NoError(t, err)
	require.NoError(t, env.hold.Handle(t.Context(), release))

	history := historyOf(t, env, "AB12345")
	got := make([]baggage.Status, 0, len(history))
	for _, e := range history {
		got = append(got, e.Status())
	}
	assert.Equal(t, []baggage.Status{
		baggage.DroppedOff,
		baggage.SecurityCleared,
		baggage.Sorted,
		baggage.CBRReady,
		baggage.Loaded,
		baggage.Sorted,
		baggage.HeldForInspection,
		baggage.DroppedOff,
		baggage.SecurityCleared,
		baggage.Sorted,
		baggage.CBRReady,
		baggage.Loaded,
	}, got)
	assert.Equal(t, baggage.DetailsReleased, history[7].Details())
}

func TestSetBaggageHold_UnknownTrackingNumber(t *testing.T) {
	env := newTestEnv(t)

	hold, err := commands.NewSetBaggageHoldCommand("NOPE", true)
	require.NoError(t, err)

	require.ErrorIs(t, env.hold.Handle(t.Context(), hold), commands.ErrBaggageNotFound)
}

func TestRecordBaggageStatus_SameStatusWithoutDetailsIsNoop(t *testing.T) {
	env := newTestEnv(t)
	env.dropOff(t, "AB12345")

	cmd, err := commands.NewRecordBaggageStatusCommand("AB12345", baggage.Loaded, "")
	require.NoError(t, err)
	snapshot, err := env.record.Handle(t.Context(), cmd)
	require.NoError(t, err)

	assert.Len(t, snapshot.History, 5)
	assert.Len(t, historyOf(t, env, "AB12345"), 5)
}

func TestRecordBaggageStatus_SameStatusWithDetailsAppends(t *testing.T) {
	env := newTestEnv(t)
	env.dropOff(t, "AB12345")

	cmd, err := commands.NewRecordBaggageStatusCommand("AB12345", baggage.Loaded, "Recounted at gate.")
	require.NoError(t, err)
	snapshot, err := env.record.Handle(t.Context(), cmd)
	require.NoError(t, err)

	require.Len(t, snapshot.History, 6)
	assert.Equal(t, "Recounted at gate.", snapshot.History[5].Details)
}

func TestRecordBaggageStatus_ManualUpdateDoesNotChain(t *testing.T) {
	env := newTestEnv(t)
	env.dropOff(t, "AB12345")

	cmd, err := commands.NewUpdateBaggageStatusCommand("AB12345", baggage.DroppedOff)
	require.NoError(t, err)
	snapshot, err := env.record.Handle(t.Context(), cmd)
	require.NoError(t, err)

	assert.Equal(t, baggage.DroppedOff, snapshot.Status)
	assert.Equal(t, baggage.DetailsManualUpdate, snapshot.History[len(snapshot.History)-1].Details)
	assert.Len(t, historyOf(t, env, "AB12345"), 6)
}

func TestRecordBaggageStatus_UnknownTrackingNumber(t *testing.T) {
	env := newTestEnv(t)

	cmd, err := commands.NewUpdateBaggageStatusCommand("NOPE", baggage.Lost)
	require.NoError(t, err)
	_, err = env.record.Handle(t.Context(), cmd)

	require.ErrorIs(t, err, commands.ErrBaggageNotFound)
}

func TestRegisterFlight_DuplicateNumber(t *testing.T) {
	env := newTestEnv(t)

	cmd, err := commands.NewRegisterFlightCommand(kernel.NewUUID(), "lh400", "MUC", "LHR", env.flight.DepartureAt())
	require.NoError(t, err)

	err = env.flights.Handle(t.Context(), cmd)
	require.ErrorIs(t, err, commands.ErrFlightAlreadyRegistered)
	require.ErrorIs(t, err, errs.ErrObjectAlreadyExists)
}
