package cmd

import (
	"context"
	"fmt"

	httpin "baggage/internal/adapters/in/http"
	"baggage/internal/adapters/out/memory"
	"baggage/internal/adapters/out/postgres"
	"baggage/internal/adapters/out/rediscache"
	"baggage/internal/core/application/usecases/commands"
	"baggage/internal/core/application/usecases/queries"
	"baggage/internal/core/ports"
	"baggage/internal/jobs"
	"baggage/internal/pkg/metrics"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// CompositionRoot owns the process-wide dependencies and builds handlers on demand.
type CompositionRoot struct {
	cfg        Config
	logger     *zap.Logger
	gormDB     *gorm.DB
	cache      *rediscache.SnapshotCache
	registry   *prometheus.Registry
	metrics    *metrics.Metrics
	uowFactory ports.UnitOfWorkFactory
	driver     *commands.PipelineDriver
}

// NewCompositionRoot connects the configured store and cache.
// Call Close when done.
func NewCompositionRoot(cfg Config, logger *zap.Logger) (*CompositionRoot, error) {
	c := &CompositionRoot{
		cfg:      cfg,
		logger:   logger,
		registry: prometheus.NewRegistry(),
	}

	c.registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	c.metrics = metrics.NewMetrics(cfg.MetricsNamespace, c.registry)

	var invalidator ports.SnapshotInvalidator
	if cfg.Cache.RedisURL != "" {
		cache, err := rediscache.NewSnapshotCache(cfg.Cache.RedisURL, cfg.Cache.TTL)
		if err != nil {
			return nil, err
		}
		c.cache = cache
		invalidator = cache
	}

	switch cfg.StoreDriver {
	case StoreDriverMemory:
		c.uowFactory = memory.NewUnitOfWorkFactory(memory.NewStore(), invalidator)
	case StoreDriverPostgres:
		db, err := postgres.Open(cfg.Database.DSN())
		if err != nil {
			c.Close()
			return nil, fmt.Errorf("connect to postgres: %w", err)
		}
		c.gormDB = db
		c.uowFactory = postgres.NewGormUnitOfWorkFactory(db, invalidator).WithLogger(logger)
	default:
		c.Close()
		return nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
	}

	c.driver = commands.NewPipelineDriver(c.uoWFactory(), logger, c.metrics)
	return c, nil
}

// Migrate creates or updates the database schema. The memory store needs none.
func (c *CompositionRoot) Migrate() error {
	if c.gormDB == nil {
		return nil
	}
	return postgres.Migrate(c.gormDB)
}

func (c *CompositionRoot) Close() {
	if c.cache != nil {
		if err := c.cache.Close(); err != nil {
			c.logger.Warn("closing redis failed", zap.Error(err))
		}
	}
	if c.gormDB != nil {
		if sqlDB, err := c.gormDB.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
}

func (c *CompositionRoot) CreateDropBaggageCommandHandler() commands.DropBaggageCommandHandler {
	return commands.NewDropBaggageCommandHandler(c.uoWFactory(), c.driver, c.logger, c.metrics)
}

func (c *CompositionRoot) CreateStartBaggageProcessingCommandHandler() commands.StartBaggageProcessingCommandHandler {
	return commands.NewStartBaggageProcessingCommandHandler(c.uoWFactory(), c.driver)
}

func (c *CompositionRoot) CreateSetBaggageHoldCommandHandler() commands.SetBaggageHoldCommandHandler {
	return commands.NewSetBaggageHoldCommandHandler(c.uoWFactory(), c.driver, c.logger, c.metrics)
}

func (c *CompositionRoot) CreateRecordBaggageStatusCommandHandler() commands.RecordBaggageStatusCommandHandler {
	var f commands.BaggageUoWFactory = FuncBaggageUoWFactory(func() commands.BaggageUoW {
		return c.uowFactory.Create()
	})
	return commands.NewRecordBaggageStatusCommandHandler(f, c.logger, c.metrics)
}

func (c *CompositionRoot) CreateRegisterFlightCommandHandler() commands.RegisterFlightCommandHandler {
	var f commands.FlightUoWFactory = FuncFlightUoWFactory(func() commands.FlightUoW {
		return c.uowFactory.Create()
	})
	return commands.NewRegisterFlightCommandHandler(f)
}

func (c *CompositionRoot) CreateRecoverIdleBaggageCommandHandler() commands.RecoverIdleBaggageCommandHandler {
	return commands.NewRecoverIdleBaggageCommandHandler(c.uoWFactory(), c.driver, c.logger, c.metrics)
}

func (c *CompositionRoot) CreateGetBaggageByNumberQueryHandler() queries.GetBaggageByNumberQueryHandler {
	var cache ports.SnapshotCache
	if c.cache != nil {
		cache = c.cache
	}
	return queries.NewGetBaggageByNumberQueryHandler(c.uowFactory, cache, c.logger).
		WithCacheObserver(c.metrics.SnapshotCacheRead)
}

func (c *CompositionRoot) CreateGetBaggageHistoryQueryHandler() queries.GetBaggageHistoryQueryHandler {
	return queries.NewGetBaggageHistoryQueryHandler(c.uowFactory)
}

func (c *CompositionRoot) CreateGetAllBaggageQueryHandler() queries.GetAllBaggageQueryHandler {
	return queries.NewGetAllBaggageQueryHandler(c.uowFactory)
}

func (c *CompositionRoot) CreateGetAllFlightsQueryHandler() queries.GetAllFlightsQueryHandler {
	return queries.NewGetAllFlightsQueryHandler(c.uowFactory)
}

// CreateRouter builds the HTTP API with /health and /metrics.
func (c *CompositionRoot) CreateRouter() *echo.Echo {
	server := httpin.NewServer(httpin.Handlers{
		DropBaggage:       c.CreateDropBaggageCommandHandler(),
		StartProcessing:   c.CreateStartBaggageProcessingCommandHandler(),
		SetHold:           c.CreateSetBaggageHoldCommandHandler(),
		RecordStatus:      c.CreateRecordBaggageStatusCommandHandler(),
		RegisterFlight:    c.CreateRegisterFlightCommandHandler(),
		GetBaggage:        c.CreateGetBaggageByNumberQueryHandler(),
		GetBaggageHistory: c.CreateGetBaggageHistoryQueryHandler(),
		GetAllBaggage:     c.CreateGetAllBaggageQueryHandler(),
		GetAllFlights:     c.CreateGetAllFlightsQueryHandler(),
	}, c.logger)

	return httpin.NewRouter(server, c.registry, c.healthChecks(), c.logger)
}

// CreateJobManager builds the background jobs. An empty recovery schedule leaves it empty.
func (c *CompositionRoot) CreateJobManager() *jobs.JobManager {
	var scheduled []jobs.Job
	if c.cfg.Recovery.Schedule != "" {
		handler := c.CreateRecoverIdleBaggageCommandHandler()
		scheduled = append(scheduled,
			jobs.NewPipelineRecoveryJob(&handler, c.cfg.Recovery.Schedule, c.cfg.Recovery.IdleAfter, c.logger))
	}
	return jobs.NewJobManager(c.logger, scheduled...)
}

func (c *CompositionRoot) healthChecks() map[string]httpin.HealthCheck {
	checks := map[string]httpin.HealthCheck{}
	if c.gormDB != nil {
		checks["postgres"] = func(ctx context.Context) error {
			sqlDB, err := c.gormDB.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		}
	}
	if c.cache != nil {
		checks["redis"] = c.cache.Ping
	}
	return checks
}

func (c *CompositionRoot) uoWFactory() commands.UoWFactory {
	return FuncUoWFactory(func() commands.UoW {
		return c.uowFactory.Create()
	})
}

type FuncBaggageUoWFactory func() commands.BaggageUoW

func (f FuncBaggageUoWFactory) Create() commands.BaggageUoW {
	return f()
}

type FuncFlightUoWFactory func() commands.FlightUoW

func (f FuncFlightUoWFactory) Create() commands.FlightUoW {
	return f()
}

type FuncUoWFactory func() commands.UoW

func (f FuncUoWFactory) Create() commands.UoW {
	return f()
}
