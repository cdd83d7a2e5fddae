package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	apiMiddleware "github.com/Shreytangani17/Task-Mangement-System/internal/api/middleware"
	"github.com/Shreytangani17/Task-Mangement-System/internal/config"
	"github.com/Shreytangani17/Task-Mangement-System/internal/events"
	"github.com/Shreytangani17/Task-Mangement-System/internal/notify"
	"github.com/Shreytangani17/Task-Mangement-System/internal/platform/mail"
	"github.com/Shreytangani17/Task-Mangement-System/internal/platform/postgres"
	"github.com/Shreytangani17/Task-Mangement-System/internal/service"
	"github.com/Shreytangani17/Task-Mangement-System/internal/service/auth"
	"github.com/Shreytangani17/Task-Mangement-System/internal/store"
	"github.com/Shreytangani17/Task-Mangement-System/internal/task"
)

// appStores groups the persistence the application runs on.
type appStores struct {
	users         store.UserStore
	tasks         store.TaskStore
	notifications store.NotificationStore
}

// application holds the shared dependencies and owns their shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	stores appStores

	// Credential verification
	hasher       *auth.BcryptHasher
	jwtService   auth.JWTService
	sessionCache *auth.SessionCache
	rehasher     *auth.RehashScheduler
	verifier     *auth.Verifier

	// Background work
	taskQueue  *task.TaskQueue
	workerPool *task.WorkerPool
	dispatcher *notify.Dispatcher

	eventEmitter *events.InMemoryEventEmitter

	userService    service.UserService
	taskService    service.TaskService
	authMiddleware *apiMiddleware.AuthMiddleware
}

// newApplication wires the application against PostgreSQL.
func newApplication(cfg *config.Config, logger *slog.Logger, db *sql.DB) (*application, error) {
	stores := appStores{
		users:         postgres.NewPostgresUserStore(db, logger),
		tasks:         postgres.NewPostgresTaskStore(db, logger),
		notifications: postgres.NewPostgresNotificationStore(db, logger),
	}

	app, err := buildApplication(cfg, logger, stores)
	if err != nil {
		return nil, err
	}
	app.db = db
	return app, nil
}

// buildApplication creates every component on top of stores and starts the
// worker pool. The caller must call cleanup once done.
func buildApplication(cfg *config.Config, logger *slog.Logger, stores appStores) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
		stores: stores,
	}

	var err error
	app.hasher, err = auth.NewBcryptHasher(cfg.Auth.BcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize password hasher: %w", err)
	}

	app.jwtService, err = auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize JWT service: %w", err)
	}
	logger.Info("JWT authentication service initialized",
		"token_lifetime_minutes", cfg.Auth.TokenLifetimeMinutes)

	transport, err := newTransport(cfg, logger)
	if err != nil {
		return nil, err
	}

	// Background work: one bounded queue shared by rehashing and delivery.
	app.taskQueue = task.NewTaskQueue(cfg.Task.QueueSize, logger)
	app.workerPool = task.NewWorkerPool(app.taskQueue, task.WorkerPoolConfig{
		WorkerCount: cfg.Task.WorkerCount,
		TaskTimeout: cfg.Task.TaskTimeout,
		StopTimeout: cfg.Task.StopTimeout,
	}, logger)

	app.sessionCache = auth.NewSessionCache(cfg.Auth.LoginCacheTTL)
	app.rehasher = auth.NewRehashScheduler(
		app.hasher,
		stores.users,
		app.sessionCache,
		app.taskQueue,
		cfg.Auth.RehashTimeout,
		logger,
	)
	app.verifier = auth.NewVerifier(
		app.sessionCache,
		stores.users,
		app.hasher,
		app.jwtService,
		app.rehasher,
		auth.VerifierConfig{
			CacheTTL:     cfg.Auth.LoginCacheTTL,
			StoreTimeout: cfg.Auth.StoreTimeout,
		},
		logger,
	)

	app.dispatcher = notify.NewDispatcher(
		stores.notifications,
		stores.users,
		transport,
		app.taskQueue,
		notify.Config{DeliveryTimeout: cfg.Notify.DeliveryTimeout},
		logger,
	)

	app.authMiddleware = apiMiddleware.NewAuthMiddleware(
		app.jwtService,
		stores.users,
		cfg.Auth.PrincipalCacheTTL,
		logger,
	)

	// Password and role changes must not be served from either cache.
	app.eventEmitter = events.NewInMemoryEventEmitter(logger)
	app.eventEmitter.RegisterHandler(events.UserChangedHandler(func(ctx context.Context, change events.UserChanged) {
		app.verifier.ClearCache(change.Email)
		app.authMiddleware.Evict(change.UserID)
	}))

	app.userService = service.NewUserService(stores.users, app.hasher, app.eventEmitter, logger)
	app.taskService = service.NewTaskService(stores.tasks, stores.users, app.dispatcher, logger)

	app.workerPool.Start()

	logger.Info("Application initialized successfully",
		"worker_count", cfg.Task.WorkerCount,
		"queue_size", cfg.Task.QueueSize)
	return app, nil
}

// newTransport returns the SMTP transport when mail is configured and a
// logging transport otherwise.
func newTransport(cfg *config.Config, logger *slog.Logger) (notify.Transport, error) {
	if !cfg.Mail.Enabled() {
		logger.Info("Mail host not configured, notifications will be logged only")
		return notify.NewLogTransport(logger), nil
	}

	t, err := mail.NewSMTPTransport(cfg.Mail, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize mail transport: %w", err)
	}
	logger.Info("SMTP transport initialized", "host", cfg.Mail.Host, "port", cfg.Mail.Port)
	return t, nil
}

// Run serves the API until ctx is cancelled or the process is signalled.
func (app *application) Run(ctx context.Context) error {
	router := app.setupRouter()

	if err := app.startHTTPServer(ctx, router); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// cleanup stops background work and releases the database.
func (app *application) cleanup() {
	if app.taskQueue != nil {
		app.taskQueue.Close()
	}
	if app.workerPool != nil {
		app.workerPool.Stop()
	}

	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("Error closing database connection", "error", err)
		}
	}

	app.logger.Info("Application shutdown completed")
}
