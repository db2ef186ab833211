package domain

import (
	"time"

	"github.com/google/uuid"
)

// StudentMetrics is the derived per-student progress summary. It is never
// authored directly: every value must equal a full recompute over the
// student's completion events, so concurrent recomputes converge on the
// same row instead of corrupting each other.
type StudentMetrics struct {
	StudentID        uuid.UUID `json:"student_id"`
	LessonsCompleted int       `json:"lessons_completed"` // Distinct completed items
	TotalLessons     int       `json:"total_lessons"`     // Published lesson count from the catalog
	OverallProgress  float64   `json:"overall_progress"`  // Percentage, 0-100
	TimeSpentTotal   int       `json:"time_spent_total"`  // Sum of reported seconds
	LastActive       time.Time `json:"last_active"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// ComputeStudentMetrics derives a metrics row from the full set of completion
// events for one student. totalLessons of zero yields zero progress rather
// than a division error.
func ComputeStudentMetrics(
	studentID uuid.UUID,
	events []*CompletionEvent,
	totalLessons int,
	now time.Time,
) *StudentMetrics {
	metrics := &StudentMetrics{
		StudentID:    studentID,
		TotalLessons: totalLessons,
		LastActive:   now,
		UpdatedAt:    now,
	}

	for _, event := range events {
		metrics.LessonsCompleted++
		metrics.TimeSpentTotal += event.TimeSpentSeconds
		if event.CompletedAt.After(metrics.LastActive) {
			metrics.LastActive = event.CompletedAt
		}
	}

	if totalLessons > 0 {
		metrics.OverallProgress = float64(metrics.LessonsCompleted) / float64(totalLessons) * 100
	}

	return metrics
}
