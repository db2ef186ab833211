package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestComputeStudentMetricsEmpty(t *testing.T) {
	t.Parallel()
	studentID := uuid.New()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	metrics := ComputeStudentMetrics(studentID, nil, 12, now)

	assert.Equal(t, studentID, metrics.StudentID)
	assert.Equal(t, 0, metrics.LessonsCompleted)
	assert.Equal(t, 12, metrics.TotalLessons)
	assert.Equal(t, 0.0, metrics.OverallProgress)
	assert.Equal(t, 0, metrics.TimeSpentTotal)
	assert.Equal(t, now, metrics.LastActive)
	assert.Equal(t, now, metrics.UpdatedAt)
}

// TestComputeStudentMetricsProgress checks the full derivation: distinct
// lesson count, time accumulation, latest activity and percentage progress
// over a twelve-lesson catalog with four completions.
func TestComputeStudentMetricsProgress(t *testing.T) {
	t.Parallel()
	studentID := uuid.New()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	events := []*CompletionEvent{
		{StudentID: studentID, ItemID: "lesson-1", Score: 90, TimeSpentSeconds: 600, Attempts: 1, CompletedAt: now.Add(-72 * time.Hour)},
		{StudentID: studentID, ItemID: "lesson-2", Score: 75, TimeSpentSeconds: 900, Attempts: 2, CompletedAt: now.Add(-48 * time.Hour)},
		{StudentID: studentID, ItemID: "lesson-3", Score: 100, TimeSpentSeconds: 300, Attempts: 1, CompletedAt: now.Add(-24 * time.Hour)},
		{StudentID: studentID, ItemID: "lesson-4", Score: 60, TimeSpentSeconds: 1200, Attempts: 3, CompletedAt: now.Add(-12 * time.Hour)},
	}

	metrics := ComputeStudentMetrics(studentID, events, 12, now)

	assert.Equal(t, 4, metrics.LessonsCompleted)
	assert.Equal(t, 3000, metrics.TimeSpentTotal)
	assert.InDelta(t, 33.3333, metrics.OverallProgress, 0.001)
	assert.Equal(t, now, metrics.LastActive, "now is later than every completion")
}

func TestComputeStudentMetricsLastActiveFromEvents(t *testing.T) {
	t.Parallel()
	studentID := uuid.New()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	future := now.Add(2 * time.Hour)

	// Clock skew can put a completion timestamp past the recompute time;
	// the later of the two wins.
	events := []*CompletionEvent{
		{StudentID: studentID, ItemID: "lesson-1", Score: 90, TimeSpentSeconds: 600, Attempts: 1, CompletedAt: future},
	}

	metrics := ComputeStudentMetrics(studentID, events, 10, now)

	assert.Equal(t, future, metrics.LastActive)
}

func TestComputeStudentMetricsZeroCatalog(t *testing.T) {
	t.Parallel()
	studentID := uuid.New()
	now := time.Now().UTC()

	events := []*CompletionEvent{
		{StudentID: studentID, ItemID: "lesson-1", Score: 90, TimeSpentSeconds: 600, Attempts: 1, CompletedAt: now},
	}

	metrics := ComputeStudentMetrics(studentID, events, 0, now)

	assert.Equal(t, 1, metrics.LessonsCompleted)
	assert.Equal(t, 0.0, metrics.OverallProgress, "empty catalog yields zero progress, not a division error")
}

func TestComputeStudentMetricsFullCompletion(t *testing.T) {
	t.Parallel()
	studentID := uuid.New()
	now := time.Now().UTC()

	events := []*CompletionEvent{
		{StudentID: studentID, ItemID: "lesson-1", Score: 90, TimeSpentSeconds: 100, Attempts: 1, CompletedAt: now},
		{StudentID: studentID, ItemID: "lesson-2", Score: 95, TimeSpentSeconds: 100, Attempts: 1, CompletedAt: now},
	}

	metrics := ComputeStudentMetrics(studentID, events, 2, now)

	assert.Equal(t, 100.0, metrics.OverallProgress)
}
