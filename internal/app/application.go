// Package app composes the infrastructure, repositories and services of the
// backend. The server, worker and admin CLI all build their process from an
// Application so the wiring lives in one place.
package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	gameapp "github.com/kkambbaki/backend/internal/application/game"
	identityapp "github.com/kkambbaki/backend/internal/application/identity"
	reportapp "github.com/kkambbaki/backend/internal/application/report"
	"github.com/kkambbaki/backend/internal/domain/shared"
	"github.com/kkambbaki/backend/internal/infrastructure/auth"
	"github.com/kkambbaki/backend/internal/infrastructure/cache"
	"github.com/kkambbaki/backend/internal/infrastructure/config"
	"github.com/kkambbaki/backend/internal/infrastructure/event"
	"github.com/kkambbaki/backend/internal/infrastructure/logger"
	"github.com/kkambbaki/backend/internal/infrastructure/persistence"
	"github.com/kkambbaki/backend/internal/infrastructure/printing"
	"github.com/kkambbaki/backend/internal/infrastructure/scheduler"
	"github.com/kkambbaki/backend/internal/infrastructure/storage"
	"github.com/kkambbaki/backend/internal/infrastructure/telemetry"
)

// Application holds every long-lived component of a process
type Application struct {
	Config    *config.Config
	Logger    *zap.Logger
	Telemetry *telemetry.Providers

	DB    *persistence.Database
	Redis *redis.Client // nil with the memory task backend

	JWT       *auth.JWTService
	Blacklist auth.TokenBlacklist
	EventBus  *event.InMemoryEventBus
	Scheduler *scheduler.Scheduler
	Cron      *scheduler.CronRunner
	PDFs      *printing.PDFService

	Repos Repositories

	Auth        *identityapp.AuthService
	Users       *identityapp.UserService
	BotTokens   *identityapp.BotTokenService
	Sessions    *gameapp.SessionService
	Rankings    *gameapp.RankingService
	Reports     *reportapp.Service
	ReportTasks *reportapp.Tasks
	Mailer      *reportapp.Mailer

	closers []func(context.Context) error
}

// Repositories are the GORM repositories bound to the main connection
type Repositories struct {
	Users       *persistence.GormUserRepository
	Children    *persistence.GormChildRepository
	BotTokens   *persistence.GormBotTokenRepository
	Games       *persistence.GormGameRepository
	Sessions    *persistence.GormSessionRepository
	Results     *persistence.GormResultRepository
	Rankings    *persistence.GormRankingRepository
	Reports     *persistence.GormReportRepository
	GameReports *persistence.GormGameReportRepository
	Advices     *persistence.GormAdviceRepository
	Pins        *persistence.GormPinRepository
}

// NewLogger builds the process logger from the log section
func NewLogger(cfg *config.Config) (*zap.Logger, error) {
	return logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
}

// New connects to every backing service and wires the application.
// Components created before a failure are released.
func New(ctx context.Context, cfg *config.Config, log *zap.Logger) (a *Application, err error) {
	a = &Application{Config: cfg, Logger: log}
	defer func() {
		if err != nil {
			_ = a.Close(context.Background())
			a = nil
		}
	}()

	if err = a.setupTelemetry(ctx); err != nil {
		return nil, err
	}
	if err = a.setupDatabase(); err != nil {
		return nil, err
	}
	if err = a.setupRedis(ctx); err != nil {
		return nil, err
	}
	if err = a.setupPDF(); err != nil {
		return nil, err
	}
	a.setupRepositories()
	a.setupScheduler()
	if err = a.setupServices(ctx); err != nil {
		return nil, err
	}
	return a, nil
}

func (a *Application) onClose(fn func(context.Context) error) {
	a.closers = append(a.closers, fn)
}

// Close releases resources in reverse creation order
func (a *Application) Close(ctx context.Context) error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		errs = append(errs, a.closers[i](ctx))
	}
	a.closers = nil
	return errors.Join(errs...)
}

func (a *Application) setupTelemetry(ctx context.Context) error {
	providers, err := telemetry.Setup(ctx, a.Config.Telemetry, a.Logger)
	if err != nil {
		return fmt.Errorf("telemetry: %w", err)
	}
	a.Telemetry = providers
	a.Logger = providers.Logger
	a.onClose(providers.Shutdown)
	return nil
}

func (a *Application) setupDatabase() error {
	gormLog := logger.NewGormLogger(a.Logger, logger.MapGormLogLevel(a.Config.Log.Level),
		logger.WithSlowThreshold(a.Config.Telemetry.DBSlowQueryThresh),
		logger.WithIgnoreRecordNotFoundError(true),
	)
	db, err := persistence.NewDatabase(&a.Config.Database, persistence.WithLogger(gormLog))
	if err != nil {
		return err
	}
	a.DB = db
	a.onClose(func(context.Context) error { return db.Close() })

	if err := telemetry.RegisterDBTracing(db.DB, a.Config.Telemetry, a.Logger); err != nil {
		return fmt.Errorf("db tracing: %w", err)
	}
	a.Logger.Info("Database connected",
		zap.String("host", a.Config.Database.Host),
		zap.String("db", a.Config.Database.DBName),
	)
	return nil
}

// setupRedis connects only for the redis task backend. The token blacklist
// and event deduplication follow the same choice.
func (a *Application) setupRedis(ctx context.Context) error {
	if a.Config.Tasks.Backend != "redis" {
		a.Blacklist = auth.NewInMemoryTokenBlacklist()
		return nil
	}
	client, err := cache.NewRedisClient(ctx, &a.Config.Redis)
	if err != nil {
		return err
	}
	a.Redis = client
	a.Blacklist = auth.NewRedisTokenBlacklist(client)
	a.onClose(func(context.Context) error { return client.Close() })
	a.Logger.Info("Redis connected", zap.String("addr", a.Config.Redis.Addr()))
	return nil
}

func (a *Application) setupPDF() error {
	store, err := storage.New(&a.Config.Storage, a.Logger)
	if err != nil {
		return fmt.Errorf("storage: %w", err)
	}
	renderer, err := printing.NewChromedpRenderer(&printing.ChromedpConfig{
		RemoteURL:      a.Config.PDF.ChromeURL,
		NoSandbox:      a.Config.PDF.NoSandbox,
		RenderWait:     a.Config.PDF.RenderWait,
		RenderTimeout:  a.Config.PDF.RenderTimeout,
		ViewportWidth:  a.Config.PDF.ViewportWidth,
		ViewportHeight: a.Config.PDF.ViewportHeight,
		Logger:         a.Logger,
	})
	if err != nil {
		return fmt.Errorf("pdf renderer: %w", err)
	}
	a.onClose(func(context.Context) error { return renderer.Close() })
	a.PDFs = printing.NewPDFService(renderer, store, a.Config.PDF.ExpiryDays, a.Logger)
	return nil
}

func (a *Application) setupRepositories() {
	db := a.DB.DB
	a.Repos = Repositories{
		Users:       persistence.NewGormUserRepository(db),
		Children:    persistence.NewGormChildRepository(db),
		BotTokens:   persistence.NewGormBotTokenRepository(db),
		Games:       persistence.NewGormGameRepository(db),
		Sessions:    persistence.NewGormSessionRepository(db),
		Results:     persistence.NewGormResultRepository(db),
		Rankings:    persistence.NewGormRankingRepository(db),
		Reports:     persistence.NewGormReportRepository(db),
		GameReports: persistence.NewGormGameReportRepository(db),
		Advices:     persistence.NewGormAdviceRepository(db),
		Pins:        persistence.NewGormPinRepository(db),
	}
}

func (a *Application) setupScheduler() {
	var queue scheduler.Queue
	if a.Redis != nil {
		queue = scheduler.NewRedisQueue(a.Redis, a.Config.Tasks.QueueName)
	} else {
		queue = scheduler.NewMemoryQueue(256)
		a.Logger.Warn("Using the in-process task queue; tasks only run when this process runs the worker")
	}
	a.onClose(func(context.Context) error { return queue.Close() })

	a.Scheduler = scheduler.New(scheduler.Config{
		Concurrency: a.Config.Tasks.Concurrency,
		JobTimeout:  a.Config.Tasks.JobTimeout,
		MaxRetries:  a.Config.Tasks.MaxRetries,
		RetryDelay:  a.Config.Tasks.RetryDelay,
	}, queue, a.Logger)
	a.Scheduler.Observe(a.Telemetry.Metrics.TaskProcessed)
	a.Cron = scheduler.NewCronRunner(a.Logger)
}

// idempotencyStore dedupes event delivery across processes when Redis is available
func (a *Application) idempotencyStore() shared.IdempotencyStore {
	if a.Redis != nil {
		return cache.NewRedisStore(a.Redis, "")
	}
	store := cache.NewMemoryStore(0)
	a.onClose(func(context.Context) error { return store.Close() })
	return store
}
