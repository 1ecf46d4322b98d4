package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/FACorreiaa/statement-processor/internal/domain/statement/handler"
	"github.com/FACorreiaa/statement-processor/internal/domain/statement/notifier"
	"github.com/FACorreiaa/statement-processor/internal/domain/statement/repository"
	"github.com/FACorreiaa/statement-processor/internal/domain/statement/service"

	"github.com/FACorreiaa/statement-processor/pkg/config"
	"github.com/FACorreiaa/statement-processor/pkg/cron"
	"github.com/FACorreiaa/statement-processor/pkg/db"
	"github.com/FACorreiaa/statement-processor/pkg/push"
	"github.com/FACorreiaa/statement-processor/pkg/storage"
)

// purgeTimeout bounds a single upload purge run
const purgeTimeout = 2 * time.Minute

// Dependencies holds all application dependencies
type Dependencies struct {
	Config *config.Config
	DB     *db.DB
	Logger *slog.Logger

	// Repositories
	RunRepo repository.Repository

	// Services
	Notifier         notifier.Notifier
	FileStorage      storage.Storage
	StatementService *service.StatementService
	Scheduler        *cron.Scheduler

	// Handlers
	StatementHandler *handler.StatementHandler
	Router           http.Handler
}

// InitDependencies initializes all application dependencies
func InitDependencies(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Dependencies, error) {
	deps := &Dependencies{
		Config: cfg,
		Logger: logger,
	}

	if err := deps.initDatabase(); err != nil {
		return nil, fmt.Errorf("failed to init database: %w", err)
	}

	if err := deps.initRepositories(); err != nil {
		return nil, fmt.Errorf("failed to init repositories: %w", err)
	}

	if err := deps.initServices(ctx); err != nil {
		return nil, fmt.Errorf("failed to init services: %w", err)
	}

	if err := deps.initHandlers(); err != nil {
		return nil, fmt.Errorf("failed to init handlers: %w", err)
	}

	if err := deps.initScheduler(); err != nil {
		return nil, fmt.Errorf("failed to init scheduler: %w", err)
	}

	logger.Info("all dependencies initialized successfully")

	return deps, nil
}

// initDatabase connects to Postgres and runs migrations when run history is enabled
func (d *Dependencies) initDatabase() error {
	if !d.Config.Database.Enabled {
		d.Logger.Info("database disabled, run history will not be stored")
		return nil
	}

	database, err := db.New(db.Config{
		DSN:             d.Config.Database.DSN(),
		MaxConns:        25,
		MinConns:        5,
		MaxConnLifetime: 5 * time.Minute,
		MaxConnIdleTime: 10 * time.Minute,
	}, d.Logger)
	if err != nil {
		return err
	}

	d.DB = database

	if err := d.DB.RunMigrations(); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	d.Logger.Info("database connected and migrations completed successfully")
	return nil
}

func (d *Dependencies) initRepositories() error {
	if d.DB != nil {
		d.RunRepo = repository.NewRunStore(d.DB.Pool)
	}

	d.Logger.Info("repositories initialized")
	return nil
}

func (d *Dependencies) initServices(ctx context.Context) error {
	n, err := d.newNotifier(ctx)
	if err != nil {
		return err
	}
	d.Notifier = n

	fileStorage, err := storage.NewLocalStorage(d.Config.Storage.UploadDir)
	if err != nil {
		return fmt.Errorf("failed to init file storage: %w", err)
	}
	d.FileStorage = fileStorage

	d.StatementService = service.NewStatementService(d.Notifier, d.Logger).
		WithStorage(d.FileStorage).
		WithFetchTimeout(d.Config.Server.FetchTimeout).
		WithMaxBytes(d.Config.Server.MaxUploadBytes)
	if d.RunRepo != nil {
		d.StatementService.WithRepository(d.RunRepo)
	}

	d.Logger.Info("services initialized", slog.String("notifier", d.Config.Notifier.Type))
	return nil
}

// newNotifier builds the configured unsupported bank notifier
func (d *Dependencies) newNotifier(ctx context.Context) (notifier.Notifier, error) {
	nc := d.Config.Notifier
	switch nc.Type {
	case config.NotifierSQS:
		n, err := notifier.NewSQSNotifier(ctx, nc.SQSRegion, nc.SQSQueueURL, d.Logger)
		if err != nil {
			return nil, fmt.Errorf("failed to init sqs notifier: %w", err)
		}
		return n, nil
	case config.NotifierEmail:
		return notifier.NewEmailNotifier(nc.ResendKey, nc.EmailFrom, nc.EmailTo, d.Logger), nil
	case config.NotifierWebhook:
		return notifier.NewWebhookNotifier(push.NewService(d.Logger), nc.WebhookURL), nil
	default:
		return notifier.NewLogNotifier(d.Logger), nil
	}
}

func (d *Dependencies) initHandlers() error {
	d.StatementHandler = handler.NewStatementHandler(d.StatementService, d.Config.Server.MaxUploadBytes, d.Logger)
	d.Router = handler.NewRouter(d.StatementHandler, handler.RouterConfig{
		AllowedOrigins:     d.Config.Server.AllowedOrigins,
		RateLimitPerSecond: d.Config.Server.RateLimitPerSecond,
		RateLimitBurst:     d.Config.Server.RateLimitBurst,
		MetricsEnabled:     d.Config.Observability.MetricsEnabled,
		JWTSecret:          []byte(d.Config.Server.JWTSecret),
	}, d.Logger)

	d.Logger.Info("handlers initialized")
	return nil
}

// initScheduler registers the upload retention purge
func (d *Dependencies) initScheduler() error {
	d.Scheduler = cron.NewScheduler(d.Logger)
	job := cron.UploadPurgeJob(d.FileStorage, d.Config.Storage.Retention, d.Logger)
	if err := d.Scheduler.AddJob(d.Config.Storage.PurgeSchedule, cron.UploadPurgeJobName, purgeTimeout, job); err != nil {
		return err
	}
	return nil
}

// Cleanup closes all resources
func (d *Dependencies) Cleanup() {
	if d.Scheduler != nil {
		<-d.Scheduler.Stop().Done()
	}
	if d.StatementService != nil {
		d.StatementService.Wait()
	}
	if d.DB != nil {
		d.DB.Close()
	}
	d.Logger.Info("cleanup completed")
}
