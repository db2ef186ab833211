package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/brightpath/progress-api/internal/api"
	apiMiddleware "github.com/brightpath/progress-api/internal/api/middleware"
	"github.com/brightpath/progress-api/internal/api/shared"
	"github.com/brightpath/progress-api/internal/task"
)

// setupRouter creates and configures the application router with all routes
// and middleware. Returns the configured router.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	// Apply standard middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.TraceMiddleware)

	// Create API handlers using the application's services
	progressHandler := api.NewProgressHandler(app.progressService, app.logger)
	reviewHandler := api.NewReviewHandler(app.reviewService, app.logger)

	// Register routes
	r.Route("/api", func(r chi.Router) {
		// Student-scoped routes; identity is forwarded by the gateway
		r.Group(func(r chi.Router) {
			r.Use(apiMiddleware.StudentContext)

			// Progress endpoints
			r.Post("/completions", progressHandler.RecordCompletion)
			r.Get("/metrics", progressHandler.GetMetrics)
			r.Get("/achievements", progressHandler.ListAchievements)

			// Review scheduling endpoints
			r.Post("/review-items", reviewHandler.AddItem)
			r.Post("/review-items/{cardID}/grade", reviewHandler.GradeReview)
			r.Get("/review-items/due", reviewHandler.DueItems)
			r.Get("/review-items/stats", reviewHandler.Stats)
		})

		// Catalog changes shift every student's denominator; the refresh
		// runs in the background and the endpoint just acknowledges.
		r.Post("/admin/recompute", app.handleRecomputeAll)
	})

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, err := w.Write([]byte("OK"))
		if err != nil {
			app.logger.Error("Failed to write health check response", "error", err)
		}
	})

	return r
}

// handleRecomputeAll submits a catalog refresh task to the background runner.
func (app *application) handleRecomputeAll(w http.ResponseWriter, r *http.Request) {
	refreshTask := task.NewCatalogRefreshTask(app.progressService, app.logger)

	if err := app.taskRunner.Submit(refreshTask); err != nil {
		shared.RespondWithErrorAndLog(w, r,
			http.StatusServiceUnavailable, "Recompute queue is full, try again later", err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusAccepted, map[string]string{
		"task_id": refreshTask.ID().String(),
		"status":  "queued",
	})
}
