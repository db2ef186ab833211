// Package api provides HTTP handlers for the API.
package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/brightpath/progress-api/internal/api/shared"
	"github.com/brightpath/progress-api/internal/domain"
	"github.com/brightpath/progress-api/internal/platform/logger"
	"github.com/brightpath/progress-api/internal/service/progress"
)

// RecordCompletionRequest represents the request body for recording a lesson completion
type RecordCompletionRequest struct {
	ItemID           string `json:"item_id"            validate:"required,min=1,max=255"`
	Score            int    `json:"score"              validate:"gte=0,lte=100"`
	TimeSpentSeconds int    `json:"time_spent_seconds" validate:"gte=0"`
}

// CompletionResponse represents the stored completion event
type CompletionResponse struct {
	StudentID        string    `json:"student_id"`
	ItemID           string    `json:"item_id"`
	Score            int       `json:"score"`
	TimeSpentSeconds int       `json:"time_spent_seconds"`
	Attempts         int       `json:"attempts"`
	CompletedAt      time.Time `json:"completed_at"`
}

// MetricsResponse represents the derived metrics for a student
type MetricsResponse struct {
	StudentID        string    `json:"student_id"`
	LessonsCompleted int       `json:"lessons_completed"`
	TotalLessons     int       `json:"total_lessons"`
	OverallProgress  float64   `json:"overall_progress"`
	TimeSpentTotal   int       `json:"time_spent_total"`
	LastActive       time.Time `json:"last_active"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// RecordCompletionResponse combines the stored event with the metrics the
// write produced, so clients can refresh dashboards without a second call.
type RecordCompletionResponse struct {
	Completion CompletionResponse `json:"completion"`
	Metrics    MetricsResponse    `json:"metrics"`
}

// AchievementResponse represents an earned achievement
type AchievementResponse struct {
	StudentID     string    `json:"student_id"`
	AchievementID string    `json:"achievement_id"`
	EarnedAt      time.Time `json:"earned_at"`
}

// ProgressHandler handles completion, metrics and achievement HTTP requests
type ProgressHandler struct {
	progressService progress.Service
	validator       *validator.Validate
	logger          *slog.Logger
}

// NewProgressHandler creates a new ProgressHandler
func NewProgressHandler(progressService progress.Service, log *slog.Logger) *ProgressHandler {
	if progressService == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("progressService cannot be nil for ProgressHandler")
	}
	if log == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for ProgressHandler")
	}

	return &ProgressHandler{
		progressService: progressService,
		validator:       validator.New(),
		logger:          log.With(slog.String("component", "progress_handler")),
	}
}

// RecordCompletion handles POST /api/completions requests
func (h *ProgressHandler) RecordCompletion(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	studentID, ok := shared.GetStudentID(r.Context())
	if !ok || studentID == uuid.Nil {
		log.Warn("student ID not found or invalid in request context")
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Student ID not found or invalid")
		return
	}

	var req RecordCompletionRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	result, err := h.progressService.RecordCompletion(
		r.Context(),
		studentID,
		req.ItemID,
		req.Score,
		req.TimeSpentSeconds,
	)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r,
			MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	response := RecordCompletionResponse{
		Completion: completionToDTO(result.Event),
		Metrics:    metricsToDTO(result.Metrics),
	}

	shared.RespondWithJSON(w, r, http.StatusOK, response)
}

// GetMetrics handles GET /api/metrics requests
func (h *ProgressHandler) GetMetrics(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	studentID, ok := shared.GetStudentID(r.Context())
	if !ok || studentID == uuid.Nil {
		log.Warn("student ID not found or invalid in request context")
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Student ID not found or invalid")
		return
	}

	metrics, err := h.progressService.GetMetrics(r.Context(), studentID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r,
			MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, metricsToDTO(metrics))
}

// ListAchievements handles GET /api/achievements requests
func (h *ProgressHandler) ListAchievements(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	studentID, ok := shared.GetStudentID(r.Context())
	if !ok || studentID == uuid.Nil {
		log.Warn("student ID not found or invalid in request context")
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Student ID not found or invalid")
		return
	}

	achievements, err := h.progressService.ListAchievements(r.Context(), studentID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r,
			MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	response := make([]AchievementResponse, 0, len(achievements))
	for _, a := range achievements {
		response = append(response, AchievementResponse{
			StudentID:     a.StudentID.String(),
			AchievementID: a.AchievementID,
			EarnedAt:      a.EarnedAt,
		})
	}

	shared.RespondWithJSON(w, r, http.StatusOK, response)
}

// completionToDTO converts a domain.CompletionEvent to a CompletionResponse
func completionToDTO(event *domain.CompletionEvent) CompletionResponse {
	return CompletionResponse{
		StudentID:        event.StudentID.String(),
		ItemID:           event.ItemID,
		Score:            event.Score,
		TimeSpentSeconds: event.TimeSpentSeconds,
		Attempts:         event.Attempts,
		CompletedAt:      event.CompletedAt,
	}
}

// metricsToDTO converts a domain.StudentMetrics to a MetricsResponse
func metricsToDTO(metrics *domain.StudentMetrics) MetricsResponse {
	return MetricsResponse{
		StudentID:        metrics.StudentID.String(),
		LessonsCompleted: metrics.LessonsCompleted,
		TotalLessons:     metrics.TotalLessons,
		OverallProgress:  metrics.OverallProgress,
		TimeSpentTotal:   metrics.TimeSpentTotal,
		LastActive:       metrics.LastActive,
		UpdatedAt:        metrics.UpdatedAt,
	}
}
