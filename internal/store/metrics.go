package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/brightpath/progress-api/internal/domain"
)

// StudentMetricsStore defines the interface for derived metrics persistence.
type StudentMetricsStore interface {
	// Upsert writes the freshly computed metrics tuple for a student as a
	// single atomic statement, replacing any existing row. Implementations
	// must never read-modify-write the stored row: overlapping recomputes
	// for the same student each write a complete tuple, so the last writer
	// leaves a consistent result.
	Upsert(ctx context.Context, metrics *domain.StudentMetrics) error

	// Get retrieves the metrics row for a student.
	// Returns ErrStudentMetricsNotFound if no recompute has run for them.
	Get(ctx context.Context, studentID uuid.UUID) (*domain.StudentMetrics, error)

	// WithTx returns a StudentMetricsStore bound to the provided transaction.
	WithTx(tx *sql.Tx) StudentMetricsStore
}
