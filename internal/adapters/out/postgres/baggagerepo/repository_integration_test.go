package baggagerepo_test

import (
	"context"
	"testing"
	"time"

	postgres_adapter "baggage/internal/adapters/out/postgres"
	"baggage/internal/adapters/out/postgres/baggagerepo"
	"baggage/internal/adapters/out/postgres/flightrepo"
	"baggage/internal/core/domain/model/baggage"
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

// BaggageRepositoryIntegrationTestSuite checks the ledger mapping against PostgreSQL.
type BaggageRepositoryIntegrationTestSuite struct {
	suite.Suite
	container  *postgres.PostgresContainer
	db         *gorm.DB
	tracker    *MockAggregateTracker
	repository *baggagerepo.GormBaggageRepository
	flight     *flight.Flight
	base       time.Time
}

func (suite *BaggageRepositoryIntegrationTestSuite) SetupSuite() {
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

func (suite *BaggageRepositoryIntegrationTestSuite) SetupTest() {
	suite.Require().NoError(suite.db.Exec("TRUNCATE TABLE baggage_history, baggage, flights").Error)

	suite.tracker = &MockAggregateTracker{}
	suite.tracker.On("TrackAggregate", mock.Anything, mock.Anything).Return()
	suite.repository = baggagerepo.NewGormBaggageRepository(suite.db, suite.tracker)
	suite.base = time.Date(2026, 5, 1, 8, 0, 0, 0, time.UTC)

	f, err := flight.NewFlight(kernel.NewUUID(), "BA117", "LHR", "JFK", suite.base.Add(4*time.Hour))
	suite.Require().NoError(err)
	suite.Require().NoError(flightrepo.NewGormFlightRepository(suite.db, suite.tracker).Add(context.Background(), f))
	suite.flight = f
}

func (suite *BaggageRepositoryIntegrationTestSuite) TearDownSuite() {
	if suite.container != nil {
		suite.Require().NoError(suite.container.Terminate(context.Background()))
	}
}

func (suite *BaggageRepositoryIntegrationTestSuite) newBaggage(trackingNumber string, at time.Time) *baggage.Baggage {
	w, err := kernel.NewWeight(21.4)
	suite.Require().NoError(err)
	b, err := baggage.NewBaggage(kernel.NewUUID(), trackingNumber, w, suite.flight.ID(), at)
	suite.Require().NoError(err)
	return b
}

func (suite *BaggageRepositoryIntegrationTestSuite) TestAdd_RoundTrip() {
	ctx := context.Background()
	b := suite.newBaggage("BA0001", suite.base)

	suite.Require().NoError(suite.repository.Add(ctx, b))
	suite.tracker.AssertCalled(suite.T(), "TrackAggregate", b.ID(), b)

	loaded, err := suite.repository.GetByTrackingNumber(ctx, "BA0001")
	suite.Require().NoError(err)
	suite.True(b.IsEqual(loaded))
	suite.Equal(baggage.DroppedOff, loaded.Status())
	suite.InDelta(21.4, loaded.Weight().Kg(), 1e-9)
	suite.True(loaded.FlightID().IsEqual(suite.flight.ID()))
	suite.Require().Len(loaded.History(), 1)
	suite.Equal(baggage.DetailsInitialDropOff, loaded.History()[0].Details())
	suite.True(suite.base.Equal(loaded.History()[0].RecordedAt()))
}

func (suite *BaggageRepositoryIntegrationTestSuite) TestAdd_DuplicateTrackingNumber() {
	ctx := context.Background()
	suite.Require().NoError(suite.repository.Add(ctx, suite.newBaggage("BA0001", suite.base)))

	err := suite.repository.Add(ctx, suite.newBaggage("BA0001", suite.base))
	suite.Require().ErrorIs(err, errs.ErrObjectAlreadyExists)
}

func (suite *BaggageRepositoryIntegrationTestSuite) TestAdd_UnknownFlight() {
	w, err := kernel.NewWeight(5)
	suite.Require().NoError(err)
	b, err := baggage.NewBaggage(kernel.NewUUID(), "BA0002", w, kernel.NewUUID(), suite.base)
	suite.Require().NoError(err)

	err = suite.repository.Add(context.Background(), b)
	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)
}

func (suite *BaggageRepositoryIntegrationTestSuite) TestUpdate_AppendsOnlyNewEntries() {
	ctx := context.Background()
	b := suite.newBaggage("BA0001", suite.base)
	suite.Require().NoError(suite.repository.Add(ctx, b))

	_, err := b.Append(baggage.SecurityCleared, "Cleared by X-ray scan.", suite.base.Add(time.Minute))
	suite.Require().NoError(err)
	_, err = b.Hold(suite.base.Add(2 * time.Minute))
	suite.Require().NoError(err)
	suite.Require().NoError(suite.repository.Update(ctx, b))

	// a second save with nothing new is harmless
	suite.Require().NoError(suite.repository.Update(ctx, b))

	loaded, err := suite.repository.GetByTrackingNumber(ctx, "BA0001")
	suite.Require().NoError(err)
	suite.Equal(baggage.HeldForInspection, loaded.Status())
	suite.True(loaded.IsHeldForInspection())
	suite.Require().Len(loaded.History(), 3)
	suite.Equal(baggage.SecurityCleared, loaded.History()[1].Status())
	suite.Equal(3, loaded.History()[2].Sequence())
}

func (suite *BaggageRepositoryIntegrationTestSuite) TestUpdate_UnknownRecord() {
	err := suite.repository.Update(context.Background(), suite.newBaggage("BA0404", suite.base))
	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)
}

func (suite *BaggageRepositoryIntegrationTestSuite) TestUpdate_StaleCopyIsRejected() {
	ctx := context.Background()
	suite.Require().NoError(suite.repository.Add(ctx, suite.newBaggage("BA0001", suite.base)))

	first, err := suite.repository.GetByTrackingNumber(ctx, "BA0001")
	suite.Require().NoError(err)
	second, err := suite.repository.GetByTrackingNumber(ctx, "BA0001")
	suite.Require().NoError(err)

	_, err = first.Append(baggage.SecurityCleared, "", suite.base.Add(time.Minute))
	suite.Require().NoError(err)
	suite.Require().NoError(suite.repository.Update(ctx, first))

	_, err = second.Append(baggage.Lost, "", suite.base.Add(2*time.Minute))
	suite.Require().NoError(err)
	err = suite.repository.Update(ctx, second)
	suite.Require().ErrorIs(err, errs.ErrObjectAlreadyExists)

	history, err := suite.repository.GetHistory(ctx, "BA0001")
	suite.Require().NoError(err)
	suite.Require().Len(history, 2)
	suite.Equal(baggage.SecurityCleared, history[1].Status())
}

func (suite *BaggageRepositoryIntegrationTestSuite) TestGetHistory_UnknownNumberIsEmpty() {
	history, err := suite.repository.GetHistory(context.Background(), "NOPE")
	suite.Require().NoError(err)
	suite.NotNil(history)
	suite.Empty(history)
}

func (suite *BaggageRepositoryIntegrationTestSuite) TestGetAll_OrderedByTrackingNumber() {
	ctx := context.Background()
	for _, n := range []string{"CC3", "AA1", "BB2"} {
		suite.Require().NoError(suite.repository.Add(ctx, suite.newBaggage(n, suite.base)))
	}

	all, err := suite.repository.GetAll(ctx)
	suite.Require().NoError(err)
	suite.Require().Len(all, 3)
	suite.Equal("AA1", all[0].TrackingNumber())
	suite.Equal("BB2", all[1].TrackingNumber())
	suite.Equal("CC3", all[2].TrackingNumber())
}

func (suite *BaggageRepositoryIntegrationTestSuite) TestGetIdleTrackingNumbers() {
	ctx := context.Background()

	stale := suite.newBaggage("OLD1", suite.base)
	suite.Require().NoError(suite.repository.Add(ctx, stale))

	fresh := suite.newBaggage("NEW1", suite.base.Add(time.Hour))
	suite.Require().NoError(suite.repository.Add(ctx, fresh))

	held := suite.newBaggage("HLD1", suite.base)
	_, err := held.Hold(suite.base.Add(time.Second))
	suite.Require().NoError(err)
	suite.Require().NoError(suite.repository.Add(ctx, held))

	numbers, err := suite.repository.GetIdleTrackingNumbers(ctx,
		[]baggage.Status{baggage.DroppedOff, baggage.SecurityCleared},
		suite.base.Add(30*time.Minute))
	suite.Require().NoError(err)
	suite.Equal([]string{"OLD1"}, numbers)

	none, err := suite.repository.GetIdleTrackingNumbers(ctx, nil, suite.base.Add(time.Hour))
	suite.Require().NoError(err)
	suite.Empty(none)
}

func TestBaggageRepositoryIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(BaggageRepositoryIntegrationTestSuite))
}
