package flightrepo_test

import (
	"context"
	"testing"
	"time"

	postgres_adapter "baggage/internal/adapters/out/postgres"
	"baggage/internal/adapters/out/postgres/flightrepo"
	"baggage/internal/core/domain/model/flight"
	"baggage/internal/core/domain/model/kernel"
	"baggage/internal/pkg/errs"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/gorm"
)

type MockAggregateTracker struct {
	mock.Mock
}

func (m *MockAggregateTracker) TrackAggregate(id kernel.UUID, aggregate any) {
	m.Called(id, aggregate)
}

type FlightRepositoryIntegrationTestSuite struct {
	suite.Suite
	container  *postgres.PostgresContainer
	db         *gorm.DB
	tracker    *MockAggregateTracker
	repository *flightrepo.GormFlightRepository
}

func (suite *FlightRepositoryIntegrationTestSuite) SetupSuite() {
	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	suite.Require().NoError(err)
	suite.container = container

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	suite.Require().NoError(err)

	db, err := postgres_adapter.Open(connStr)
	suite.Require().NoError(err)
	suite.db = db

	suite.Require().NoError(postgres_adapter.Migrate(db))
}

func (suite *FlightRepositoryIntegrationTestSuite) SetupTest() {
	suite.Require().NoError(suite.db.Exec("TRUNCATE TABLE baggage_history, baggage, flights").Error)

	suite.tracker = &MockAggregateTracker{}
	suite.tracker.On("TrackAggregate", mock.Anything, mock.Anything).Return()
	suite.repository = flightrepo.NewGormFlightRepository(suite.db, suite.tracker)
}

func (suite *FlightRepositoryIntegrationTestSuite) TearDownSuite() {
	if suite.container != nil {
		suite.Require().NoError(suite.container.Terminate(context.Background()))
	}
}

func (suite *FlightRepositoryIntegrationTestSuite) newFlight(number string, departureAt time.Time) *flight.Flight {
	f, err := flight.NewFlight(kernel.NewUUID(), number, "AMS", "CDG", departureAt)
	suite.Require().NoError(err)
	return f
}

func (suite *FlightRepositoryIntegrationTestSuite) TestAdd_AndGet() {
	ctx := context.Background()
	departure := time.Date(2026, 6, 1, 9, 30, 0, 0, time.UTC)
	f := suite.newFlight("KL1223", departure)

	suite.Require().NoError(suite.repository.Add(ctx, f))
	suite.tracker.AssertCalled(suite.T(), "TrackAggregate", f.ID(), f)

	loaded, err := suite.repository.Get(ctx, f.ID())
	suite.Require().NoError(err)
	suite.True(loaded.ID().IsEqual(f.ID()))
	suite.Equal("KL1223", loaded.Number())
	suite.Equal("AMS", loaded.Origin())
	suite.Equal("CDG", loaded.Destination())
	suite.True(departure.Equal(loaded.DepartureAt()))
}

func (suite *FlightRepositoryIntegrationTestSuite) TestAdd_DuplicateNumber() {
	ctx := context.Background()
	departure := time.Date(2026, 6, 1, 9, 30, 0, 0, time.UTC)
	suite.Require().NoError(suite.repository.Add(ctx, suite.newFlight("KL1223", departure)))

	err := suite.repository.Add(ctx, suite.newFlight("KL1223", departure.Add(24*time.Hour)))
	suite.Require().ErrorIs(err, errs.ErrObjectAlreadyExists)
}

func (suite *FlightRepositoryIntegrationTestSuite) TestGet_Unknown() {
	_, err := suite.repository.Get(context.Background(), kernel.NewUUID())
	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)
}

func (suite *FlightRepositoryIntegrationTestSuite) TestGetAll_OrderedByDeparture() {
	ctx := context.Background()
	departure := time.Date(2026, 6, 1, 9, 30, 0, 0, time.UTC)
	suite.Require().NoError(suite.repository.Add(ctx, suite.newFlight("KL3", departure.Add(2*time.Hour))))
	suite.Require().NoError(suite.repository.Add(ctx, suite.newFlight("KL1", departure)))
	suite.Require().NoError(suite.repository.Add(ctx, suite.newFlight("KL2", departure.Add(time.Hour))))

	flights, err := suite.repository.GetAll(ctx)
	suite.Require().NoError(err)
	suite.Require().Len(flights, 3)
	suite.Equal("KL1", flights[0].Number())
	suite.Equal("KL2", flights[1].Number())
	suite.Equal("KL3", flights[2].Number())
}

func TestFlightRepositoryIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(FlightRepositoryIntegrationTestSuite))
}
