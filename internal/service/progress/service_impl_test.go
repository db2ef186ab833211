package progress_test

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/brightpath/progress-api/internal/catalog"
	"github.com/brightpath/progress-api/internal/domain"
	"github.com/brightpath/progress-api/internal/events"
	"github.com/brightpath/progress-api/internal/mocks"
	"github.com/brightpath/progress-api/internal/service/progress"
	"github.com/brightpath/progress-api/internal/store"
)

// recordingHandler collects achievement events for assertions.
type recordingHandler struct {
	mu     sync.Mutex
	events []*events.AchievementUnlockedEvent
}

func (h *recordingHandler) HandleEvent(_ context.Context, event *events.AchievementUnlockedEvent) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.events = append(h.events, event)
	return nil
}

func (h *recordingHandler) achievementIDs() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	ids := make([]string, 0, len(h.events))
	for _, e := range h.events {
		ids = append(ids, e.AchievementID)
	}
	return ids
}

type testFixture struct {
	tx           *mocks.MockTxRunner
	completions  *mocks.MockCompletionStore
	metrics      *mocks.MockStudentMetricsStore
	achievements *mocks.MockAchievementStore
	catalog      *catalog.StaticCatalog
	handler      *recordingHandler
	service      progress.Service
	now          time.Time
}

func newTestFixture(t *testing.T, lessons []string) *testFixture {
	t.Helper()

	f := &testFixture{
		tx:           &mocks.MockTxRunner{},
		completions:  new(mocks.MockCompletionStore),
		metrics:      new(mocks.MockStudentMetricsStore),
		achievements: new(mocks.MockAchievementStore),
		catalog:      &catalog.StaticCatalog{Lessons: lessons},
		handler:      &recordingHandler{},
		now:          time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}

	emitter := events.NewInMemoryEmitter(slog.Default())
	emitter.RegisterHandler(f.handler)

	f.service = progress.NewService(
		f.tx,
		f.completions,
		f.metrics,
		f.achievements,
		f.catalog,
		emitter,
		slog.Default(),
		progress.WithClock(func() time.Time { return f.now }),
	)

	return f
}

func TestRecordCompletionFirstSubmission(t *testing.T) {
	t.Parallel()
	studentID := uuid.New()
	f := newTestFixture(t, []string{"lesson-1", "lesson-2", "lesson-3"})

	stored := &domain.CompletionEvent{
		StudentID:        studentID,
		ItemID:           "lesson-1",
		Score:            88,
		TimeSpentSeconds: 540,
		Attempts:         1,
		CompletedAt:      f.now,
	}

	f.completions.On("Upsert", mock.Anything, mock.AnythingOfType("*domain.CompletionEvent")).
		Return(stored, nil)
	f.completions.On("ListByStudent", mock.Anything, studentID).
		Return([]*domain.CompletionEvent{stored}, nil)
	f.metrics.On("Upsert", mock.Anything, mock.AnythingOfType("*domain.StudentMetrics")).
		Return(nil)
	f.achievements.On("InsertIfAbsent", mock.Anything, mock.AnythingOfType("*domain.Achievement")).
		Return(true, nil)

	result, err := f.service.RecordCompletion(context.Background(), studentID, "lesson-1", 88, 540)
	require.NoError(t, err)

	assert.Equal(t, 1, result.Event.Attempts)
	assert.Equal(t, 1, result.Metrics.LessonsCompleted)
	assert.Equal(t, 3, result.Metrics.TotalLessons)
	assert.InDelta(t, 33.3333, result.Metrics.OverallProgress, 0.001)
	assert.Equal(t, 540, result.Metrics.TimeSpentTotal)

	// One lesson completed unlocks exactly first_completion.
	assert.Equal(t, []string{domain.AchievementFirstCompletion}, f.handler.achievementIDs())

	f.completions.AssertExpectations(t)
	f.metrics.AssertExpectations(t)
}

func TestRecordCompletionRejectsInvalidInput(t *testing.T) {
	t.Parallel()
	f := newTestFixture(t, []string{"lesson-1"})

	_, err := f.service.RecordCompletion(context.Background(), uuid.New(), "lesson-1", 101, 0)
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = f.service.RecordCompletion(context.Background(), uuid.Nil, "lesson-1", 50, 0)
	assert.ErrorIs(t, err, domain.ErrValidation)

	f.completions.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
}

func TestRecordCompletionUnknownLesson(t *testing.T) {
	t.Parallel()
	f := newTestFixture(t, []string{"lesson-1"})

	_, err := f.service.RecordCompletion(context.Background(), uuid.New(), "lesson-99", 50, 60)
	assert.ErrorIs(t, err, store.ErrLessonNotFound)

	f.completions.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
}

// TestRecordCompletionTransactionFailure verifies the write path aborts
// before touching any store when the transaction cannot be opened.
func TestRecordCompletionTransactionFailure(t *testing.T) {
	t.Parallel()
	f := newTestFixture(t, []string{"lesson-1"})
	f.tx.Err = errors.New("failed to begin transaction: pool exhausted")

	_, err := f.service.RecordCompletion(context.Background(), uuid.New(), "lesson-1", 70, 90)
	assert.Error(t, err)

	f.completions.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
	f.metrics.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
}

// TestRecordCompletionMetricsFailureAbortsWrite verifies the event upsert
// and the metrics recompute commit or fail together: a metrics failure
// surfaces as an error and no achievement work runs.
func TestRecordCompletionMetricsFailureAbortsWrite(t *testing.T) {
	t.Parallel()
	studentID := uuid.New()
	f := newTestFixture(t, []string{"lesson-1"})

	stored := &domain.CompletionEvent{
		StudentID:        studentID,
		ItemID:           "lesson-1",
		Score:            70,
		TimeSpentSeconds: 90,
		Attempts:         1,
		CompletedAt:      f.now,
	}

	f.completions.On("Upsert", mock.Anything, mock.Anything).Return(stored, nil)
	f.completions.On("ListByStudent", mock.Anything, studentID).
		Return([]*domain.CompletionEvent{stored}, nil)
	f.metrics.On("Upsert", mock.Anything, mock.Anything).
		Return(errors.New("connection reset"))

	_, err := f.service.RecordCompletion(context.Background(), studentID, "lesson-1", 70, 90)
	assert.Error(t, err)

	f.achievements.AssertNotCalled(t, "InsertIfAbsent", mock.Anything, mock.Anything)
	assert.Empty(t, f.handler.achievementIDs())
}

// TestRecordCompletionResubmission verifies the metrics returned after a
// repeat submission still count the lesson once while reflecting the latest
// score and time.
func TestRecordCompletionResubmission(t *testing.T) {
	t.Parallel()
	studentID := uuid.New()
	f := newTestFixture(t, []string{"lesson-1", "lesson-2"})

	stored := &domain.CompletionEvent{
		StudentID:        studentID,
		ItemID:           "lesson-1",
		Score:            95,
		TimeSpentSeconds: 300,
		Attempts:         2,
		CompletedAt:      f.now,
	}

	f.completions.On("Upsert", mock.Anything, mock.AnythingOfType("*domain.CompletionEvent")).
		Return(stored, nil)
	f.completions.On("ListByStudent", mock.Anything, studentID).
		Return([]*domain.CompletionEvent{stored}, nil)
	f.metrics.On("Upsert", mock.Anything, mock.AnythingOfType("*domain.StudentMetrics")).
		Return(nil)
	f.achievements.On("InsertIfAbsent", mock.Anything, mock.AnythingOfType("*domain.Achievement")).
		Return(false, nil)

	result, err := f.service.RecordCompletion(context.Background(), studentID, "lesson-1", 95, 300)
	require.NoError(t, err)

	assert.Equal(t, 2, result.Event.Attempts)
	assert.Equal(t, 1, result.Metrics.LessonsCompleted, "resubmission does not double count")
	assert.Equal(t, 300, result.Metrics.TimeSpentTotal, "latest time replaces the previous value")

	// Already-earned achievements insert as no-ops and emit nothing.
	assert.Empty(t, f.handler.achievementIDs())
}

func TestRecordCompletionPerfectScoreUnlock(t *testing.T) {
	t.Parallel()
	studentID := uuid.New()
	f := newTestFixture(t, []string{"lesson-1"})

	stored := &domain.CompletionEvent{
		StudentID:        studentID,
		ItemID:           "lesson-1",
		Score:            100,
		TimeSpentSeconds: 120,
		Attempts:         1,
		CompletedAt:      f.now,
	}

	f.completions.On("Upsert", mock.Anything, mock.Anything).Return(stored, nil)
	f.completions.On("ListByStudent", mock.Anything, studentID).
		Return([]*domain.CompletionEvent{stored}, nil)
	f.metrics.On("Upsert", mock.Anything, mock.Anything).Return(nil)
	f.achievements.On("InsertIfAbsent", mock.Anything, mock.Anything).Return(true, nil)

	_, err := f.service.RecordCompletion(context.Background(), studentID, "lesson-1", 100, 120)
	require.NoError(t, err)

	assert.Contains(t, f.handler.achievementIDs(), domain.AchievementPerfectScore)
	assert.Contains(t, f.handler.achievementIDs(), domain.AchievementFirstCompletion)
}

// TestRecomputeForStudentRetriesPerfectScore verifies batch recomputes
// unlock a stored perfect score, so an unlock that failed to persist on
// the triggering submission is picked up later.
func TestRecomputeForStudentRetriesPerfectScore(t *testing.T) {
	t.Parallel()
	studentID := uuid.New()
	f := newTestFixture(t, []string{"lesson-1", "lesson-2"})

	stored := &domain.CompletionEvent{
		StudentID:        studentID,
		ItemID:           "lesson-1",
		Score:            100,
		TimeSpentSeconds: 200,
		Attempts:         1,
		CompletedAt:      f.now,
	}

	f.completions.On("ListByStudent", mock.Anything, studentID).
		Return([]*domain.CompletionEvent{stored}, nil)
	f.metrics.On("Upsert", mock.Anything, mock.Anything).Return(nil)
	f.achievements.On("InsertIfAbsent", mock.Anything, mock.Anything).Return(true, nil)

	_, err := f.service.RecomputeForStudent(context.Background(), studentID)
	require.NoError(t, err)

	assert.Contains(t, f.handler.achievementIDs(), domain.AchievementPerfectScore)
}

func TestRecomputeForStudentAchievementFailureIsNotFatal(t *testing.T) {
	t.Parallel()
	studentID := uuid.New()
	f := newTestFixture(t, []string{"lesson-1", "lesson-2"})

	event := &domain.CompletionEvent{
		StudentID: studentID, ItemID: "lesson-1", Score: 80,
		TimeSpentSeconds: 60, Attempts: 1, CompletedAt: f.now,
	}

	f.completions.On("ListByStudent", mock.Anything, studentID).
		Return([]*domain.CompletionEvent{event}, nil)
	f.metrics.On("Upsert", mock.Anything, mock.Anything).Return(nil)
	f.achievements.On("InsertIfAbsent", mock.Anything, mock.Anything).
		Return(false, errors.New("achievements table unavailable"))

	metrics, err := f.service.RecomputeForStudent(context.Background(), studentID)
	require.NoError(t, err, "metrics write succeeded; achievement failure is retried next recompute")
	assert.Equal(t, 1, metrics.LessonsCompleted)
}

func TestRecomputeForStudentMetricsFailure(t *testing.T) {
	t.Parallel()
	studentID := uuid.New()
	f := newTestFixture(t, []string{"lesson-1"})

	f.completions.On("ListByStudent", mock.Anything, studentID).
		Return([]*domain.CompletionEvent{}, nil)
	f.metrics.On("Upsert", mock.Anything, mock.Anything).
		Return(errors.New("connection reset"))

	_, err := f.service.RecomputeForStudent(context.Background(), studentID)
	assert.Error(t, err)
}

func TestRecomputeAllStudentsContinuesPastFailures(t *testing.T) {
	t.Parallel()
	f := newTestFixture(t, []string{"lesson-1"})

	good1 := uuid.New()
	bad := uuid.New()
	good2 := uuid.New()

	f.completions.On("ListStudentIDs", mock.Anything).
		Return([]uuid.UUID{good1, bad, good2}, nil)

	f.completions.On("ListByStudent", mock.Anything, good1).
		Return([]*domain.CompletionEvent{}, nil)
	f.completions.On("ListByStudent", mock.Anything, bad).
		Return(nil, errors.New("row corrupted"))
	f.completions.On("ListByStudent", mock.Anything, good2).
		Return([]*domain.CompletionEvent{}, nil)
	f.metrics.On("Upsert", mock.Anything, mock.Anything).Return(nil)

	result, err := f.service.RecomputeAllStudents(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, result.Processed)
	assert.Equal(t, []uuid.UUID{bad}, result.Failed)
}

func TestRecomputeAllStudentsHonorsCancellation(t *testing.T) {
	t.Parallel()
	f := newTestFixture(t, []string{"lesson-1"})

	f.completions.On("ListStudentIDs", mock.Anything).
		Return([]uuid.UUID{uuid.New(), uuid.New()}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := f.service.RecomputeAllStudents(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, result.Processed)
}

func TestGetMetricsNotFound(t *testing.T) {
	t.Parallel()
	studentID := uuid.New()
	f := newTestFixture(t, nil)

	f.metrics.On("Get", mock.Anything, studentID).
		Return(nil, store.ErrStudentMetricsNotFound)

	_, err := f.service.GetMetrics(context.Background(), studentID)
	assert.ErrorIs(t, err, store.ErrStudentMetricsNotFound)
}

func TestListAchievements(t *testing.T) {
	t.Parallel()
	studentID := uuid.New()
	f := newTestFixture(t, nil)

	earned := []*domain.Achievement{
		{StudentID: studentID, AchievementID: domain.AchievementFirstCompletion, EarnedAt: f.now},
		{StudentID: studentID, AchievementID: domain.AchievementFiveLessons, EarnedAt: f.now},
	}
	f.achievements.On("ListByStudent", mock.Anything, studentID).Return(earned, nil)

	got, err := f.service.ListAchievements(context.Background(), studentID)
	require.NoError(t, err)
	assert.Equal(t, earned, got)
}
