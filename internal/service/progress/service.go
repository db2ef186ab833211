// Package progress implements the completion-recording and aggregate-metrics
// side of the engine: idempotent ingest of completion events, full
// recomputation of derived student metrics, and achievement unlocking.
package progress

import (
	"context"

	"github.com/google/uuid"

	"github.com/brightpath/progress-api/internal/domain"
)

// Service defines the operations of the completion/metrics pipeline.
type Service interface {
	// RecordCompletion records a lesson submission idempotently and
	// synchronously recomputes the student's metrics, so the metrics a
	// caller reads immediately afterwards already reflect the submission.
	// A repeated submission for the same (student, item) increments the
	// attempt counter and overwrites the stored score and time spent with
	// the latest values. Safe to retry.
	RecordCompletion(
		ctx context.Context,
		studentID uuid.UUID,
		itemID string,
		score int,
		timeSpentSeconds int,
	) (*RecordCompletionResult, error)

	// RecomputeForStudent rebuilds the student's metrics row from the full
	// set of their completion events and evaluates achievement rules
	// against the result. Concurrent invocations for the same student
	// converge because each writes a complete freshly computed tuple.
	RecomputeForStudent(ctx context.Context, studentID uuid.UUID) (*domain.StudentMetrics, error)

	// RecomputeAllStudents re-derives metrics for every student with at
	// least one completion event. Intended for catalog changes that move
	// the total-lesson denominator. Students are processed independently:
	// a failure (or context cancellation) partway through leaves the
	// already-updated students correct and only the remainder pending.
	RecomputeAllStudents(ctx context.Context) (*RecomputeAllResult, error)

	// GetMetrics returns the student's current metrics row.
	GetMetrics(ctx context.Context, studentID uuid.UUID) (*domain.StudentMetrics, error)

	// ListAchievements returns the student's earned achievements in the
	// order they were unlocked.
	ListAchievements(ctx context.Context, studentID uuid.UUID) ([]*domain.Achievement, error)
}

// RecordCompletionResult is the combined outcome of a completion write and
// the recompute it triggered.
type RecordCompletionResult struct {
	Event   *domain.CompletionEvent
	Metrics *domain.StudentMetrics
}

// RecomputeAllResult summarizes a batch recompute. Failed holds the IDs of
// students whose recompute returned an error; their previous metrics rows
// are untouched and a re-run will pick them up again.
type RecomputeAllResult struct {
	Processed int
	Failed    []uuid.UUID
}
