package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/brightpath/progress-api/internal/catalog"
	"github.com/brightpath/progress-api/internal/config"
	"github.com/brightpath/progress-api/internal/domain/srs"
	"github.com/brightpath/progress-api/internal/events"
	"github.com/brightpath/progress-api/internal/platform/postgres"
	"github.com/brightpath/progress-api/internal/service/progress"
	"github.com/brightpath/progress-api/internal/service/review"
	"github.com/brightpath/progress-api/internal/store"
	"github.com/brightpath/progress-api/internal/task"
)

// application holds all the shared application dependencies to simplify
// management and ensure proper cleanup on shutdown.
type application struct {
	// Configuration
	config *config.Config

	// Core services
	logger *slog.Logger
	db     *sql.DB

	// Stores (using interfaces for proper abstraction)
	completionStore  store.CompletionStore
	metricsStore     store.StudentMetricsStore
	reviewItemStore  store.ReviewItemStore
	achievementStore store.AchievementStore

	// Service interfaces
	catalog         catalog.Catalog
	srsService      srs.Service
	progressService progress.Service
	reviewService   review.Service

	// Event system
	eventEmitter events.Emitter

	// Task handling
	taskRunner *task.Runner
}

// newApplication creates a new application instance with all dependencies
// initialized. It accepts core dependencies like configuration, logger, and
// database connection that must be established before application
// initialization.
func newApplication(
	ctx context.Context,
	cfg *config.Config,
	logger *slog.Logger,
	db *sql.DB,
) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
		db:     db,
	}

	// Initialize stores
	app.completionStore = postgres.NewPostgresCompletionStore(db, logger)
	app.metricsStore = postgres.NewPostgresStudentMetricsStore(db, logger)
	app.reviewItemStore = postgres.NewPostgresReviewItemStore(db, logger)
	app.achievementStore = postgres.NewPostgresAchievementStore(db, logger)

	// Catalog lookups back every completion and add-item write
	app.catalog = catalog.NewPostgresCatalog(db, logger)

	// Initialize event emitter; achievement unlocks are delivered to the
	// logging handler until a notification service consumes them.
	emitter := events.NewInMemoryEmitter(logger)
	emitter.RegisterHandler(events.NewLoggingHandler(logger))
	app.eventEmitter = emitter

	// Initialize SRS service
	app.srsService = srs.NewDefaultService()

	// Initialize progress service
	app.progressService = progress.NewService(
		store.NewSQLTxRunner(db),
		app.completionStore,
		app.metricsStore,
		app.achievementStore,
		app.catalog,
		app.eventEmitter,
		logger,
	)

	// Initialize review service
	app.reviewService = review.NewService(
		app.reviewItemStore,
		app.catalog,
		app.srsService,
		logger,
	)

	// Initialize and start the background task runner
	app.taskRunner = task.NewRunner(task.RunnerConfig{
		WorkerCount: cfg.Task.WorkerCount,
		QueueSize:   cfg.Task.QueueSize,
	}, logger)
	app.taskRunner.Start()

	logger.Info("Application initialized successfully")
	return app, nil
}

// Run starts the application server, handling lifecycle and cleanup.
// It returns an error if the server fails to start or encounters problems.
func (app *application) Run(ctx context.Context) error {
	router := app.setupRouter()

	if err := app.startHTTPServer(ctx, router); err != nil {
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}

// cleanup handles graceful shutdown of application resources.
func (app *application) cleanup() {
	if app.taskRunner != nil {
		app.taskRunner.Stop()
	}

	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("Error closing database connection", "error", err)
		}
	}

	app.logger.Info("Application shutdown completed")
}
