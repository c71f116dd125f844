package appServer

import (
	"context"
	"database/sql"
	"fmt"

	goredis "github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/ds124wfegd/tennis-courts/config"
	repository "github.com/ds124wfegd/tennis-courts/internal/database/postgres"
	cache "github.com/ds124wfegd/tennis-courts/internal/database/redis"
	"github.com/ds124wfegd/tennis-courts/internal/service"
	"github.com/ds124wfegd/tennis-courts/internal/transport"
	"github.com/ds124wfegd/tennis-courts/internal/worker"
	"github.com/ds124wfegd/tennis-courts/pkg/kafka"
	"github.com/ds124wfegd/tennis-courts/pkg/postgres"
	"github.com/ds124wfegd/tennis-courts/pkg/rabbitMQ"
	"github.com/ds124wfegd/tennis-courts/pkg/redis"
)

// App holds the wired dependencies shared by the server and the CLI commands.
type App struct {
	DB                 *sql.DB
	Redis              *goredis.Client
	ReservationService service.ReservationService
	Worker             *worker.NoShowWorker
	HealthChecks       map[string]transport.HealthCheck

	closers []func() error
}

func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	app := &App{HealthChecks: make(map[string]transport.HealthCheck)}

	settings, err := service.NewBookingSettings(cfg.Booking.Fee, cfg.Booking.CurrencyScale)
	if err != nil {
		return nil, err
	}

	// Initialize database
	db, err := postgres.NewPostgresDB(&cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	app.DB = db
	app.closers = append(app.closers, db.Close)
	app.HealthChecks["postgres"] = db.PingContext

	if err := postgres.RunMigrations(ctx, db); err != nil {
		app.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	// Initialize repositories
	reservationRepo := repository.NewReservationRepository(db)
	guestRepo := repository.NewGuestRepository(db)
	var scheduleRepo repository.ScheduleRepository = repository.NewScheduleRepository(db)

	var locker worker.Locker
	if cfg.Redis.Enabled {
		client, err := redis.NewRedisClient(&cfg.Redis)
		if err != nil {
			logrus.Errorf("Failed to initialize Redis: %v. Continuing without cache and sweep lock...", err)
		} else {
			app.Redis = client
			app.closers = append(app.closers, client.Close)
			app.HealthChecks["redis"] = func(ctx context.Context) error {
				return client.Ping(ctx).Err()
			}
			scheduleRepo = cache.NewScheduleCache(client, scheduleRepo, cfg.Cache.ScheduleTTL)
			locker = cache.NewSweepLock(client, cfg.Worker.LockKey, cfg.Worker.LockTTL)
		}
	}

	publisher, err := app.newEventPublisher(cfg.Events)
	if err != nil {
		app.Close()
		return nil, err
	}

	app.ReservationService = service.NewReservationService(
		reservationRepo,
		scheduleRepo,
		guestRepo,
		publisher,
		service.SystemClock{},
		settings,
	)
	app.Worker = worker.NewNoShowWorker(app.ReservationService, locker, cfg.Worker.NoShowInterval)

	return app, nil
}

func (a *App) newEventPublisher(cfg config.EventsConfig) (service.EventPublisher, error) {
	switch cfg.Driver {
	case "":
		logrus.Warn("Event driver not configured, reservation events disabled")
		return nil, nil

	case "rabbitmq":
		queue, err := rabbitMQ.NewRabbitMQ(rabbitMQ.RabbitMQConfig{
			URL:          cfg.RabbitMQ.URL,
			QueueName:    cfg.RabbitMQ.QueueName,
			ExchangeName: cfg.RabbitMQ.ExchangeName,
			RetryCount:   cfg.RabbitMQ.RetryCount,
		})
		if err != nil {
			logrus.Errorf("Failed to initialize RabbitMQ: %v. Continuing without events...", err)
			return nil, nil
		}
		a.closers = append(a.closers, queue.Close)
		a.HealthChecks["rabbitmq"] = func(context.Context) error {
			return queue.HealthCheck()
		}
		return service.NewQueueAdapter(queue), nil

	case "kafka":
		producer := kafka.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.Topic)
		a.closers = append(a.closers, producer.Close)
		return service.NewStreamAdapter(producer), nil

	default:
		return nil, fmt.Errorf("unknown events driver %q", cfg.Driver)
	}
}

// Close releases resources in reverse order of acquisition.
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			logrus.Warnf("Failed to close resource: %v", err)
		}
	}
	a.closers = nil
}

// Migrate applies the schema without starting the rest of the application.
func Migrate(ctx context.Context, cfg *config.Config) error {
	db, err := postgres.NewPostgresDB(&cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close()

	return postgres.RunMigrations(ctx, db)
}
