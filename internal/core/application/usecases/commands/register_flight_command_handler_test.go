package commands_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"baggage/internal/core/application/usecases/commands"
	"baggage/internal/core/domain/model/flight"
	"baggage/internal/core/domain/model/kernel"
	"baggage/internal/core/ports"
	"baggage/internal/pkg/errs"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockFlightRepository struct{ mock.Mock }

func (m *MockFlightRepository) Add(ctx context.Context, f *flight.Flight) error {
	args := m.Called(ctx, f)
	return args.Error(0)
}
func (m *MockFlightRepository) Get(_ context.Context, _ kernel.UUID) (*flight.Flight, error) {
	return nil, errors.New("not implemented in mock")
}
func (m *MockFlightRepository) GetAll(_ context.Context) ([]*flight.Flight, error) {
	return nil, errors.New("not implemented in mock")
}

type MockFlightUoW struct{ mock.Mock }

func (m *MockFlightUoW) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
func (m *MockFlightUoW) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
func (m *MockFlightUoW) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockFlightUoW) FlightRepository() ports.FlightRepository {
	args := m.Called()
	return args.Get(0).(ports.FlightRepository)
}

type MockFlightUoWFactory struct{ mock.Mock }

func (m *MockFlightUoWFactory) Create() commands.FlightUoW {
	args := m.Called()
	return args.Get(0).(commands.FlightUoW)
}

func newRegisterFlightCommand(t *testing.T) commands.RegisterFlightCommand {
	t.Helper()
	cmd, err := commands.NewRegisterFlightCommand(kernel.NewUUID(), "LH400", "FRA", "JFK", time.Now().Add(time.Hour))
	require.NoError(t, err)
	return cmd
}

func TestRegisterFlightCommandHandler_Handle_Success(t *testing.T) {
	ctx := t.Context()
	cmd := newRegisterFlightCommand(t)

	repo := new(MockFlightRepository)
	uow := new(MockFlightUoW)
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("FlightRepository").Return(repo).Once(),
		repo.On("Add", mock.Anything, mock.AnythingOfType("*flight.Flight")).Return(nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockFlightUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewRegisterFlightCommandHandler(factory)
	err := h.Handle(ctx, cmd)
	require.NoError(t, err)
	repo.AssertExpectations(t)
	uow.AssertExpectations(t)
	factory.AssertExpectations(t)
}

func TestRegisterFlightCommandHandler_Handle_ValidationError(t *testing.T) {
	factory := new(MockFlightUoWFactory)
	h := commands.NewRegisterFlightCommandHandler(factory)

	err := h.Handle(t.Context(), commands.RegisterFlightCommand{})
	require.ErrorIs(t, err, commands.ErrRegisterFlightCommandIsNotConstructed)
	factory.AssertNotCalled(t, "Create")
}

func TestRegisterFlightCommandHandler_Handle_BeginError(t *testing.T) {
	ctx := t.Context()
	cmd := newRegisterFlightCommand(t)

	uow := new(MockFlightUoW)
	factory := new(MockFlightUoWFactory)
	mock.InOrder(
		factory.On("Create").Return(uow).Once(),
		uow.On("Begin", ctx).Return(errors.New("begin error")).Once(),
	)

	h := commands.NewRegisterFlightCommandHandler(factory)
	err := h.Handle(ctx, cmd)
	require.ErrorIs(t, err, errs.ErrPersistenceFailure)
}

func TestRegisterFlightCommandHandler_Handle_DuplicateAtCommit(t *testing.T) {
	ctx := t.Context()
	cmd := newRegisterFlightCommand(t)

	repo := new(MockFlightRepository)
	uow := new(MockFlightUoW)
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("FlightRepository").Return(repo).Once(),
		repo.On("Add", mock.Anything, mock.AnythingOfType("*flight.Flight")).Return(nil).Once(),
		uow.On("Commit", ctx).Return(errs.NewObjectAlreadyExistsError("number", "LH400")).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockFlightUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewRegisterFlightCommandHandler(factory)
	err := h.Handle(ctx, cmd)
	require.ErrorIs(t, err, commands.ErrFlightAlreadyRegistered)
	uow.AssertExpectations(t)
}

func TestRegisterFlightCommandHandler_Handle_AddError(t *testing.T) {
	ctx := t.Context()
	cmd := newRegisterFlightCommand(t)

	repo := new(MockFlightRepository)
	uow := new(MockFlightUoW)
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("FlightRepository").Return(repo).Once(),
		repo.On("Add", mock.Anything, mock.AnythingOfType("*flight.Flight")).Return(errors.New("add error")).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockFlightUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewRegisterFlightCommandHandler(factory)
	err := h.Handle(ctx, cmd)
	require.ErrorIs(t, err, errs.ErrPersistenceFailure)
	require.NotErrorIs(t, err, commands.ErrFlightAlreadyRegistered)
	repo.AssertExpectations(t)
	uow.AssertExpectations(t)
}
