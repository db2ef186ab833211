package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/brightpath/progress-api/internal/domain"
)

// CompletionStore defines the interface for completion event persistence.
type CompletionStore interface {
	// Upsert records a submission idempotently. If no row exists for the
	// event's (student, item) key it is created with attempts=1; otherwise
	// attempts is incremented and score, time spent and completed-at are
	// overwritten with the submitted values (last write wins). The returned
	// event reflects the stored row, including the accumulated attempts.
	Upsert(ctx context.Context, event *domain.CompletionEvent) (*domain.CompletionEvent, error)

	// Get retrieves the completion event for a (student, item) pair.
	// Returns ErrCompletionNotFound if the pair has never been recorded.
	Get(ctx context.Context, studentID uuid.UUID, itemID string) (*domain.CompletionEvent, error)

	// ListByStudent returns every completion event for the student. The
	// metrics maintainer recomputes aggregates from this full set rather
	// than patching the previous metrics row.
	ListByStudent(ctx context.Context, studentID uuid.UUID) ([]*domain.CompletionEvent, error)

	// ListStudentIDs returns the distinct IDs of every student with at
	// least one completion event, in a stable order. The catalog-refresh
	// recompute iterates this list so a failure partway through leaves the
	// already-processed prefix correct.
	ListStudentIDs(ctx context.Context) ([]uuid.UUID, error)

	// WithTx returns a CompletionStore bound to the provided transaction.
	WithTx(tx *sql.Tx) CompletionStore
}
