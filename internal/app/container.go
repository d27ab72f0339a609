package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	sharedDomain "github.com/felixgeelhaar/therapytrack/internal/shared/domain"
	"github.com/felixgeelhaar/therapytrack/internal/shared/infrastructure/cache"
	"github.com/felixgeelhaar/therapytrack/internal/shared/infrastructure/database"
	_ "github.com/felixgeelhaar/therapytrack/internal/shared/infrastructure/database/postgres" // Register PostgreSQL driver
	_ "github.com/felixgeelhaar/therapytrack/internal/shared/infrastructure/database/sqlite"   // Register SQLite driver
	"github.com/felixgeelhaar/therapytrack/internal/shared/infrastructure/eventbus"
	"github.com/felixgeelhaar/therapytrack/internal/shared/infrastructure/migrations"
	"github.com/felixgeelhaar/therapytrack/internal/shared/infrastructure/resilience"
	"github.com/felixgeelhaar/therapytrack/internal/tracking/application/commands"
	"github.com/felixgeelhaar/therapytrack/internal/tracking/application/queries"
	"github.com/felixgeelhaar/therapytrack/internal/tracking/application/services"
	"github.com/felixgeelhaar/therapytrack/internal/tracking/domain"
	"github.com/felixgeelhaar/therapytrack/pkg/config"
	"github.com/felixgeelhaar/therapytrack/pkg/observability"
	"github.com/redis/go-redis/v9"
)

// Container holds all application dependencies.
type Container struct {
	Config  *config.Config
	Logger  *slog.Logger
	Metrics observability.Metrics
	Health  *observability.HealthRegistry
	Clock   sharedDomain.Clock
	Policy  domain.BoundaryPolicy

	// Database
	DBConn   database.Connection
	DBDriver database.Driver

	// Redis
	RedisClient *redis.Client

	// Patient list cache
	Cache cache.Cache

	// Publishers. Bus is set when events are delivered in process.
	EventPublisher eventbus.Publisher
	Bus            *eventbus.InProcessBus

	// EventHandlers react to published events.
	EventHandlers []eventbus.Handler

	// Repositories
	LogEntryRepo   domain.LogEntryRepository
	GoalConfigRepo domain.GoalConfigRepository
	CareTeamRepo   domain.CareTeamRepository

	// Unit of Work
	UnitOfWork database.UnitOfWork

	// Command Handlers
	LogEntryHandler   *commands.LogEntryHandler
	AssignGoalHandler *commands.AssignGoalHandler
	AddPatientHandler *commands.AddPatientHandler

	// Query Handlers
	GetGoalHandler          *queries.GetGoalHandler
	GetMonthCalendarHandler *queries.GetMonthCalendarHandler
	GetWeekProgressHandler  *queries.GetWeekProgressHandler
	GetStatsHandler         *queries.GetStatsHandler
	GetDayEntriesHandler    *queries.GetDayEntriesHandler
	ListPatientsHandler     *queries.ListPatientsHandler
}

// NewContainer creates and wires all dependencies against PostgreSQL,
// Redis and RabbitMQ.
func NewContainer(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Container, error) {
	c, err := newBaseContainer(cfg, logger)
	if err != nil {
		return nil, err
	}

	// Connect to PostgreSQL
	conn, err := database.Open(ctx, database.Config{
		Driver: database.Driver(cfg.DatabaseDriver),
		URL:    cfg.DatabaseURL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := c.useConnection(ctx, conn); err != nil {
		_ = conn.Close()
		return nil, err
	}
	c.Logger.Info("connected to database", "driver", conn.Driver())

	// Connect to Redis (optional in development)
	var store cache.Cache = cache.NewMemoryCache(c.Clock)
	if cfg.RedisURL != "" {
		client, err := connectRedis(ctx, cfg.RedisURL)
		switch {
		case err == nil:
			c.RedisClient = client
			store = cache.NewRedisCache(client, c.Clock, cache.DefaultRetention)
			c.Health.Register("redis", observability.PingChecker("redis", observability.HealthStatusDegraded, func(ctx context.Context) error {
				return client.Ping(ctx).Err()
			}))
			c.Logger.Info("connected to Redis")
		case cfg.IsDevelopment():
			c.Logger.Warn("Redis not available, patient lists will be cached in memory", "error", err)
		default:
			c.Close()
			return nil, fmt.Errorf("failed to connect to Redis: %w", err)
		}
	}
	c.Cache = cache.NewBreakerCache(store, c.breakerConfig("redis"), c.Logger)

	// Create event publisher
	publisher, err := eventbus.NewRabbitMQPublisher(cfg.RabbitMQURL, c.Logger)
	switch {
	case err == nil:
		breaker := eventbus.NewBreakerPublisher(publisher, c.breakerConfig("rabbitmq"), c.Logger)
		c.EventPublisher = breaker
		c.Health.Register("rabbitmq", observability.PingChecker("rabbitmq", observability.HealthStatusDegraded, func(context.Context) error {
			if breaker.State() == "open" {
				return resilience.ErrCircuitOpen
			}
			return nil
		}))
	case cfg.IsDevelopment():
		// Fall back to in-process delivery in development
		c.Logger.Warn("RabbitMQ not available, delivering events in process", "error", err)
		c.Bus = eventbus.NewInProcessBus(c.Logger)
		c.EventPublisher = c.Bus
	default:
		c.Close()
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	if err := c.wire(); err != nil {
		c.Close()
		return nil, err
	}
	return c, nil
}

// NewLocalContainer creates a container for local mode with SQLite.
// It needs no PostgreSQL, Redis or RabbitMQ: the cache lives in memory and
// events are delivered in process.
func NewLocalContainer(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Container, error) {
	c, err := newBaseContainer(cfg, logger)
	if err != nil {
		return nil, err
	}

	path := cfg.SQLitePath
	if path == "" {
		path = database.DefaultSQLitePath()
	}
	conn, err := database.Open(ctx, database.Config{Driver: database.DriverSQLite, SQLitePath: path})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize SQLite: %w", err)
	}
	if err := c.useConnection(ctx, conn); err != nil {
		_ = conn.Close()
		return nil, err
	}
	c.Logger.Debug("opened local database", "path", path)

	c.Cache = cache.NewMemoryCache(c.Clock)
	c.Bus = eventbus.NewInProcessBus(c.Logger)
	c.EventPublisher = c.Bus

	if err := c.wire(); err != nil {
		c.Close()
		return nil, err
	}
	return c, nil
}

// Open picks the local or remote container from the configuration.
func Open(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Container, error) {
	if cfg.IsLocalMode() {
		return NewLocalContainer(ctx, cfg, logger)
	}
	return NewContainer(ctx, cfg, logger)
}

func newBaseContainer(cfg *config.Config, logger *slog.Logger) (*Container, error) {
	if logger == nil {
		logger = slog.Default()
	}
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}
	return &Container{
		Config:  cfg,
		Logger:  logger,
		Metrics: observability.NewInMemoryMetrics(),
		Health:  observability.NewHealthRegistry(),
		Clock:   sharedDomain.SystemClock{},
		Policy:  domain.NewBoundaryPolicy(loc, cfg.LookbackDays),
	}, nil
}

// useConnection applies migrations and registers the database health check.
func (c *Container) useConnection(ctx context.Context, conn database.Connection) error {
	applied, err := migrations.Run(ctx, conn)
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	if len(applied) > 0 {
		c.Logger.Info("applied migrations", "versions", applied)
	}

	c.DBConn = conn
	c.DBDriver = conn.Driver()
	c.Health.Register("database", observability.PingChecker("database", observability.HealthStatusUnhealthy, conn.Ping))
	return nil
}

func (c *Container) breakerConfig(name string) resilience.BreakerConfig {
	cfg := resilience.DefaultBreakerConfig(name)
	if c.Config.BreakerFailureThreshold > 0 {
		cfg.FailureThreshold = uint32(c.Config.BreakerFailureThreshold)
	}
	if c.Config.BreakerTimeout > 0 {
		cfg.Timeout = c.Config.BreakerTimeout
	}
	return cfg
}

// wire creates repositories and handlers once the connection, cache and
// publisher are in place.
func (c *Container) wire() error {
	factory := NewRepositoryFactory(c.DBConn)

	var err error
	if c.LogEntryRepo, err = factory.LogEntryRepository(); err != nil {
		return err
	}
	if c.GoalConfigRepo, err = factory.GoalConfigRepository(); err != nil {
		return err
	}
	if c.CareTeamRepo, err = factory.CareTeamRepository(); err != nil {
		return err
	}
	c.UnitOfWork = factory.UnitOfWork()

	c.EventHandlers = []eventbus.Handler{
		services.NewPatientCacheInvalidator(c.Cache, c.Logger),
		services.NewGoalAchievedNotifier(c.Metrics, c.Logger),
	}
	if c.Bus != nil {
		for _, h := range c.EventHandlers {
			c.Bus.Subscribe(h)
		}
	}

	// Create command handlers
	c.LogEntryHandler = commands.NewLogEntryHandler(
		c.LogEntryRepo, c.GoalConfigRepo, c.UnitOfWork, c.EventPublisher,
		c.Policy, c.Clock, c.Metrics, c.Logger,
	)
	c.AssignGoalHandler = commands.NewAssignGoalHandler(
		c.GoalConfigRepo, c.CareTeamRepo, c.UnitOfWork, c.EventPublisher, c.Clock, c.Logger,
	)
	c.AddPatientHandler = commands.NewAddPatientHandler(
		c.CareTeamRepo, c.Cache, c.EventPublisher, c.Clock, c.Logger,
	)

	// Create query handlers
	c.GetGoalHandler = queries.NewGetGoalHandler(c.GoalConfigRepo, c.CareTeamRepo, c.Clock)
	c.GetMonthCalendarHandler = queries.NewGetMonthCalendarHandler(c.LogEntryRepo, c.GoalConfigRepo, c.CareTeamRepo, c.Policy, c.Clock)
	c.GetWeekProgressHandler = queries.NewGetWeekProgressHandler(c.LogEntryRepo, c.GoalConfigRepo, c.CareTeamRepo, c.Policy, c.Clock)
	c.GetStatsHandler = queries.NewGetStatsHandler(c.LogEntryRepo, c.GoalConfigRepo, c.CareTeamRepo, c.Policy, c.Clock)
	c.GetDayEntriesHandler = queries.NewGetDayEntriesHandler(c.LogEntryRepo, c.GoalConfigRepo, c.CareTeamRepo, c.Policy, c.Clock)
	c.ListPatientsHandler = queries.NewListPatientsHandler(
		c.CareTeamRepo, c.LogEntryRepo, c.Cache, c.Config.PatientCacheTTL,
		c.Policy, c.Clock, c.Metrics, c.Logger,
	)

	return nil
}

// NewEventSubscriber connects a RabbitMQ consumer with the container's
// event handlers bound. It fails in process mode, where handlers already
// run on publish.
func (c *Container) NewEventSubscriber() (*eventbus.RabbitMQSubscriber, error) {
	if c.Bus != nil {
		return nil, errors.New("events are delivered in process")
	}
	sub, err := eventbus.NewRabbitMQSubscriber(c.Config.RabbitMQURL, c.Config.RabbitMQQueue, c.Logger)
	if err != nil {
		return nil, err
	}
	for _, h := range c.EventHandlers {
		if err := sub.Subscribe(h); err != nil {
			_ = sub.Close()
			return nil, err
		}
	}
	return sub, nil
}

// Close cleans up all resources.
func (c *Container) Close() {
	if c.EventPublisher != nil {
		if err := c.EventPublisher.Close(); err != nil {
			c.Logger.Warn("error closing event publisher", "error", err)
		}
	}

	if c.RedisClient != nil {
		if err := c.RedisClient.Close(); err != nil {
			c.Logger.Warn("error closing Redis connection", "error", err)
		} else {
			c.Logger.Info("Redis connection closed")
		}
	}

	if c.DBConn != nil {
		if err := c.DBConn.Close(); err != nil {
			c.Logger.Warn("error closing database connection", "error", err, "driver", c.DBDriver)
		} else {
			c.Logger.Debug("database connection closed", "driver", c.DBDriver)
		}
	}
}

func connectRedis(ctx context.Context, url string) (*redis.Client, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse Redis URL: %w", err)
	}
	client := redis.NewClient(opt)

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}
	return client, nil
}
