package api

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/brightpath/progress-api/internal/api/shared"
	"github.com/brightpath/progress-api/internal/domain"
	"github.com/brightpath/progress-api/internal/platform/logger"
	"github.com/brightpath/progress-api/internal/service/review"
)

// AddReviewItemRequest represents the request body for adding a card to the
// review rotation
type AddReviewItemRequest struct {
	CardID  string `json:"card_id" validate:"required,min=1,max=255"`
	Front   string `json:"front"   validate:"required,min=1"`
	Back    string `json:"back"    validate:"required,min=1"`
	Example string `json:"example"`
}

// GradeReviewRequest represents the request body for grading a review
type GradeReviewRequest struct {
	Quality int `json:"quality" validate:"gte=0,lte=5"`
}

// ReviewItemResponse represents the scheduling state of one review item
type ReviewItemResponse struct {
	StudentID      string     `json:"student_id"`
	CardID         string     `json:"card_id"`
	Front          string     `json:"front"`
	Back           string     `json:"back"`
	Example        string     `json:"example,omitempty"`
	EaseFactor     float64    `json:"ease_factor"`
	IntervalDays   int        `json:"interval_days"`
	Repetitions    int        `json:"repetitions"`
	Bucket         string     `json:"bucket"`
	DueAt          time.Time  `json:"due_at"`
	LastReviewedAt *time.Time `json:"last_reviewed_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// ReviewStatsResponse represents the dashboard counters for a student
type ReviewStatsResponse struct {
	TotalItems    int `json:"total_items"`
	DueItems      int `json:"due_items"`
	NewItems      int `json:"new_items"`
	LearningItems int `json:"learning_items"`
	MatureItems   int `json:"mature_items"`
}

// ReviewHandler handles review-item HTTP requests
type ReviewHandler struct {
	reviewService review.Service
	validator     *validator.Validate
	logger        *slog.Logger
}

// NewReviewHandler creates a new ReviewHandler
func NewReviewHandler(reviewService review.Service, log *slog.Logger) *ReviewHandler {
	if reviewService == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("reviewService cannot be nil for ReviewHandler")
	}
	if log == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for ReviewHandler")
	}

	return &ReviewHandler{
		reviewService: reviewService,
		validator:     validator.New(),
		logger:        log.With(slog.String("component", "review_handler")),
	}
}

// AddItem handles POST /api/review-items requests
func (h *ReviewHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	studentID, ok := shared.GetStudentID(r.Context())
	if !ok || studentID == uuid.Nil {
		log.Warn("student ID not found or invalid in request context")
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Student ID not found or invalid")
		return
	}

	var req AddReviewItemRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	item, err := h.reviewService.AddItem(
		r.Context(),
		studentID,
		req.CardID,
		req.Front,
		req.Back,
		req.Example,
	)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r,
			MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, reviewItemToDTO(item))
}

// GradeReview handles POST /api/review-items/{cardID}/grade requests
func (h *ReviewHandler) GradeReview(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	studentID, ok := shared.GetStudentID(r.Context())
	if !ok || studentID == uuid.Nil {
		log.Warn("student ID not found or invalid in request context")
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Student ID not found or invalid")
		return
	}

	cardID := chi.URLParam(r, "cardID")
	if cardID == "" {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Card ID is required")
		return
	}

	var req GradeReviewRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	item, err := h.reviewService.GradeReview(r.Context(), studentID, cardID, req.Quality)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r,
			MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, reviewItemToDTO(item))
}

// DueItems handles GET /api/review-items/due requests.
// Optional query parameters: limit (positive int) and as_of (RFC 3339).
func (h *ReviewHandler) DueItems(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	studentID, ok := shared.GetStudentID(r.Context())
	if !ok || studentID == uuid.Nil {
		log.Warn("student ID not found or invalid in request context")
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Student ID not found or invalid")
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid limit parameter")
			return
		}
		limit = parsed
	}

	var asOf time.Time
	if raw := r.URL.Query().Get("as_of"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid as_of parameter")
			return
		}
		asOf = parsed
	}

	items, err := h.reviewService.DueItems(r.Context(), studentID, asOf, limit)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r,
			MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	response := make([]ReviewItemResponse, 0, len(items))
	for _, item := range items {
		response = append(response, reviewItemToDTO(item))
	}

	shared.RespondWithJSON(w, r, http.StatusOK, response)
}

// Stats handles GET /api/review-items/stats requests
func (h *ReviewHandler) Stats(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	studentID, ok := shared.GetStudentID(r.Context())
	if !ok || studentID == uuid.Nil {
		log.Warn("student ID not found or invalid in request context")
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Student ID not found or invalid")
		return
	}

	stats, err := h.reviewService.Stats(r.Context(), studentID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r,
			MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, ReviewStatsResponse{
		TotalItems:    stats.TotalItems,
		DueItems:      stats.DueItems,
		NewItems:      stats.NewItems,
		LearningItems: stats.LearningItems,
		MatureItems:   stats.MatureItems,
	})
}

// reviewItemToDTO converts a domain.ReviewItem to a ReviewItemResponse
func reviewItemToDTO(item *domain.ReviewItem) ReviewItemResponse {
	response := ReviewItemResponse{
		StudentID:    item.StudentID.String(),
		CardID:       item.CardID,
		Front:        item.Front,
		Back:         item.Back,
		Example:      item.Example,
		EaseFactor:   item.EaseFactor,
		IntervalDays: item.IntervalDays,
		Repetitions:  item.Repetitions,
		Bucket:       string(item.Bucket),
		DueAt:        item.DueAt,
		CreatedAt:    item.CreatedAt,
		UpdatedAt:    item.UpdatedAt,
	}

	if !item.LastReviewedAt.IsZero() {
		t := item.LastReviewedAt
		response.LastReviewedAt = &t
	}

	return response
}
