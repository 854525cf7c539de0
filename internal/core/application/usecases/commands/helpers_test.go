package commands_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"baggage/internal/adapters/out/memory"
	"baggage/internal/core/application/usecases/commands"
	"baggage/internal/core/domain/model/flight"
	"baggage/internal/core/domain/model/kernel"
	"baggage/internal/core/ports"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type uowFactory struct{ inner ports.UnitOfWorkFactory }

func (f uowFactory) Create() commands.UoW { return f.inner.Create() }

type baggageUoWFactory struct{ inner ports.UnitOfWorkFactory }

func (f baggageUoWFactory) Create() commands.BaggageUoW { return f.inner.Create() }

// failingUoWFactory hands out units of work whose commits fail once failAfter
// commits have succeeded.
type failingUoWFactory struct {
	inner     ports.UnitOfWorkFactory
	failAfter int
	commits   *int
}

func (f failingUoWFactory) Create() commands.UoW {
	return &failingUoW{UnitOfWork: f.inner.Create(), factory: f}
}

type failingUoW struct {
	ports.UnitOfWork
	factory failingUoWFactory
}

func (u *failingUoW) Commit(ctx context.Context) error {
	if *u.factory.commits >= u.factory.failAfter {
		_ = u.UnitOfWork.Rollback(ctx)
		return errStoreDown
	}
	*u.factory.commits++
	return u.UnitOfWork.Commit(ctx)
}

// testEnv wires every handler over one in-memory store.
type testEnv struct {
	factory ports.UnitOfWorkFactory
	driver  *commands.PipelineDriver
	flight  *flight.Flight

	drop    commands.DropBaggageCommandHandler
	start   commands.StartBaggageProcessingCommandHandler
	hold    commands.SetBaggageHoldCommandHandler
	record  commands.RecordBaggageStatusCommandHandler
	flights commands.RegisterFlightCommandHandler
	recover commands.RecoverIdleBaggageCommandHandler
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	factory := memory.NewUnitOfWorkFactory(memory.NewStore(), nil)
	return newTestEnvWith(t, factory, uowFactory{inner: factory})
}

func newTestEnvWith(t *testing.T, store ports.UnitOfWorkFactory, uows commands.UoWFactory) *testEnv {
	t.Helper()

	logger := zap.NewNop()
	driver := commands.NewPipelineDriver(uows, logger, nil)
	env := &testEnv{
		factory: store,
		driver:  driver,
		drop:    commands.NewDropBaggageCommandHandler(uows, driver, logger, nil),
		start:   commands.NewStartBaggageProcessingCommandHandler(uows, driver),
		hold:    commands.NewSetBaggageHoldCommandHandler(uows, driver, logger, nil),
		record:  commands.NewRecordBaggageStatusCommandHandler(baggageUoWFactory{inner: store}, logger, nil),
		flights: commands.NewRegisterFlightCommandHandler(flightUoWFactory{inner: store}),
		recover: commands.NewRecoverIdleBaggageCommandHandler(uows, driver, logger, nil),
	}

	cmd, err := commands.NewRegisterFlightCommand(kernel.NewUUID(), "LH400", "FRA", "JFK", time.Now().Add(4*time.Hour))
	require.NoError(t, err)
	require.NoError(t, env.flights.Handle(t.Context(), cmd))

	f, err := store.Create().FlightRepository().Get(t.Context(), cmd.FlightID())
	require.NoError(t, err)
	env.flight = f

	return env
}

type flightUoWFactory struct{ inner ports.UnitOfWorkFactory }

func (f flightUoWFactory) Create() commands.FlightUoW { return f.inner.Create() }

func (e *testEnv) dropOff(t *testing.T, trackingNumber string) commands.DropBaggageResult {
	t.Helper()

	cmd, err := commands.NewDropBaggageCommand(trackingNumber, 20.5, e.flight.ID())
	require.NoError(t, err)
	result, err := e.drop.Handle(t.Context(), cmd)
	require.NoError(t, err)
	return result
}

var errStoreDown = errors.New("store unavailable")

func zapNop() *zap.Logger { return zap.NewNop() }
