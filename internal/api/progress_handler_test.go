package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/brightpath/progress-api/internal/api/shared"
	"github.com/brightpath/progress-api/internal/domain"
	"github.com/brightpath/progress-api/internal/mocks"
	"github.com/brightpath/progress-api/internal/service/progress"
	"github.com/brightpath/progress-api/internal/store"
)

// newAuthenticatedRequest builds a request whose context carries a student
// identity, as the gateway middleware would.
func newAuthenticatedRequest(
	t *testing.T,
	method, target string,
	studentID uuid.UUID,
	body interface{},
) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, target, &buf)
	ctx := shared.SetStudentID(req.Context(), studentID)
	return req.WithContext(ctx)
}

func TestRecordCompletionHandler(t *testing.T) {
	t.Parallel()
	studentID := uuid.New()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	service := new(mocks.MockProgressService)
	handler := NewProgressHandler(service, slog.Default())

	result := &progress.RecordCompletionResult{
		Event: &domain.CompletionEvent{
			StudentID: studentID, ItemID: "lesson-3", Score: 88,
			TimeSpentSeconds: 540, Attempts: 1, CompletedAt: now,
		},
		Metrics: &domain.StudentMetrics{
			StudentID: studentID, LessonsCompleted: 1, TotalLessons: 12,
			OverallProgress: 8.33, TimeSpentTotal: 540, LastActive: now, UpdatedAt: now,
		},
	}
	service.On("RecordCompletion", mock.Anything, studentID, "lesson-3", 88, 540).
		Return(result, nil)

	req := newAuthenticatedRequest(t, http.MethodPost, "/api/completions", studentID,
		RecordCompletionRequest{ItemID: "lesson-3", Score: 88, TimeSpentSeconds: 540})
	rec := httptest.NewRecorder()

	handler.RecordCompletion(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp RecordCompletionResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "lesson-3", resp.Completion.ItemID)
	assert.Equal(t, 1, resp.Completion.Attempts)
	assert.Equal(t, 1, resp.Metrics.LessonsCompleted)
	assert.Equal(t, 12, resp.Metrics.TotalLessons)

	service.AssertExpectations(t)
}

func TestRecordCompletionHandlerValidation(t *testing.T) {
	t.Parallel()
	service := new(mocks.MockProgressService)
	handler := NewProgressHandler(service, slog.Default())

	testCases := []struct {
		name string
		body RecordCompletionRequest
	}{
		{
			name: "Missing item ID",
			body: RecordCompletionRequest{Score: 50, TimeSpentSeconds: 60},
		},
		{
			name: "Score above range",
			body: RecordCompletionRequest{ItemID: "lesson-1", Score: 101},
		},
		{
			name: "Negative time spent",
			body: RecordCompletionRequest{ItemID: "lesson-1", Score: 50, TimeSpentSeconds: -1},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			req := newAuthenticatedRequest(t, http.MethodPost, "/api/completions", uuid.New(), tc.body)
			rec := httptest.NewRecorder()

			handler.RecordCompletion(rec, req)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}

	service.AssertNotCalled(t, "RecordCompletion",
		mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestRecordCompletionHandlerMissingIdentity(t *testing.T) {
	t.Parallel()
	service := new(mocks.MockProgressService)
	handler := NewProgressHandler(service, slog.Default())

	req := httptest.NewRequest(http.MethodPost, "/api/completions", bytes.NewBufferString("{}"))
	rec := httptest.NewRecorder()

	handler.RecordCompletion(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRecordCompletionHandlerUnknownLesson(t *testing.T) {
	t.Parallel()
	studentID := uuid.New()
	service := new(mocks.MockProgressService)
	handler := NewProgressHandler(service, slog.Default())

	service.On("RecordCompletion", mock.Anything, studentID, "lesson-99", 50, 60).
		Return(nil, store.ErrLessonNotFound)

	req := newAuthenticatedRequest(t, http.MethodPost, "/api/completions", studentID,
		RecordCompletionRequest{ItemID: "lesson-99", Score: 50, TimeSpentSeconds: 60})
	rec := httptest.NewRecorder()

	handler.RecordCompletion(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)

	var resp shared.ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "Lesson not found", resp.Error)
}

func TestGetMetricsHandler(t *testing.T) {
	t.Parallel()
	studentID := uuid.New()
	now := time.Now().UTC()

	service := new(mocks.MockProgressService)
	handler := NewProgressHandler(service, slog.Default())

	service.On("GetMetrics", mock.Anything, studentID).
		Return(&domain.StudentMetrics{
			StudentID: studentID, LessonsCompleted: 4, TotalLessons: 12,
			OverallProgress: 33.33, TimeSpentTotal: 3000, LastActive: now, UpdatedAt: now,
		}, nil)

	req := newAuthenticatedRequest(t, http.MethodGet, "/api/metrics", studentID, nil)
	rec := httptest.NewRecorder()

	handler.GetMetrics(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp MetricsResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, 4, resp.LessonsCompleted)
	assert.InDelta(t, 33.33, resp.OverallProgress, 0.001)
}

func TestGetMetricsHandlerNotFound(t *testing.T) {
	t.Parallel()
	studentID := uuid.New()
	service := new(mocks.MockProgressService)
	handler := NewProgressHandler(service, slog.Default())

	service.On("GetMetrics", mock.Anything, studentID).
		Return(nil, store.ErrStudentMetricsNotFound)

	req := newAuthenticatedRequest(t, http.MethodGet, "/api/metrics", studentID, nil)
	rec := httptest.NewRecorder()

	handler.GetMetrics(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListAchievementsHandler(t *testing.T) {
	t.Parallel()
	studentID := uuid.New()
	now := time.Now().UTC()

	service := new(mocks.MockProgressService)
	handler := NewProgressHandler(service, slog.Default())

	service.On("ListAchievements", mock.Anything, studentID).
		Return([]*domain.Achievement{
			{StudentID: studentID, AchievementID: domain.AchievementFirstCompletion, EarnedAt: now},
		}, nil)

	req := newAuthenticatedRequest(t, http.MethodGet, "/api/achievements", studentID, nil)
	rec := httptest.NewRecorder()

	handler.ListAchievements(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp []AchievementResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.Len(t, resp, 1)
	assert.Equal(t, domain.AchievementFirstCompletion, resp[0].AchievementID)
}

func TestHandlerHidesInternalErrors(t *testing.T) {
	t.Parallel()
	studentID := uuid.New()
	service := new(mocks.MockProgressService)
	handler := NewProgressHandler(service, slog.Default())

	internal := errors.New("pq: connection refused host=db.internal port=5432")
	service.On("GetMetrics", mock.Anything, studentID).Return(nil, internal)

	req := newAuthenticatedRequest(t, http.MethodGet, "/api/metrics", studentID, nil)
	req = req.WithContext(shared.SetTraceID(req.Context()))
	rec := httptest.NewRecorder()

	handler.GetMetrics(rec, req)

	require.Equal(t, http.StatusInternalServerError, rec.Code)

	var resp shared.ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "An unexpected error occurred", resp.Error)
	assert.NotContains(t, rec.Body.String(), "db.internal")
	assert.NotEmpty(t, resp.TraceID)
}
