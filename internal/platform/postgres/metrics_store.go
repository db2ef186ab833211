package postgres

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/google/uuid"

	"github.com/brightpath/progress-api/internal/domain"
	"github.com/brightpath/progress-api/internal/platform/logger"
	"github.com/brightpath/progress-api/internal/store"
)

// PostgresStudentMetricsStore implements the store.StudentMetricsStore
// interface using a PostgreSQL database as the storage backend.
type PostgresStudentMetricsStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresStudentMetricsStore creates a new PostgreSQL implementation of
// the StudentMetricsStore interface.
// If logger is nil, a default logger will be used.
func NewPostgresStudentMetricsStore(db store.DBTX, logger *slog.Logger) *PostgresStudentMetricsStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresStudentMetricsStore{
		db:     db,
		logger: logger.With(slog.String("component", "student_metrics_store")),
	}
}

// Ensure PostgresStudentMetricsStore implements store.StudentMetricsStore interface
var _ store.StudentMetricsStore = (*PostgresStudentMetricsStore)(nil)

// Upsert implements store.StudentMetricsStore.Upsert.
// The full tuple is written in one statement; overlapping recomputes for
// the same student each replace the whole row, so they converge instead of
// interleaving partial updates.
func (s *PostgresStudentMetricsStore) Upsert(
	ctx context.Context,
	metrics *domain.StudentMetrics,
) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		INSERT INTO student_metrics
			(student_id, lessons_completed, total_lessons, overall_progress, time_spent_total, last_active, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (student_id) DO UPDATE SET
			lessons_completed = EXCLUDED.lessons_completed,
			total_lessons = EXCLUDED.total_lessons,
			overall_progress = EXCLUDED.overall_progress,
			time_spent_total = EXCLUDED.time_spent_total,
			last_active = EXCLUDED.last_active,
			updated_at = EXCLUDED.updated_at
	`

	_, err := s.db.ExecContext(
		ctx,
		query,
		metrics.StudentID,
		metrics.LessonsCompleted,
		metrics.TotalLessons,
		metrics.OverallProgress,
		metrics.TimeSpentTotal,
		metrics.LastActive,
		metrics.UpdatedAt,
	)
	if err != nil {
		log.Error("failed to upsert student metrics",
			slog.String("error", err.Error()),
			slog.String("student_id", metrics.StudentID.String()))
		return mapError(err, store.ErrStudentMetricsNotFound)
	}

	log.Debug("student metrics upserted",
		slog.String("student_id", metrics.StudentID.String()),
		slog.Int("lessons_completed", metrics.LessonsCompleted),
		slog.Float64("overall_progress", metrics.OverallProgress))
	return nil
}

// Get implements store.StudentMetricsStore.Get.
// Returns store.ErrStudentMetricsNotFound if no recompute has run for the
// student.
func (s *PostgresStudentMetricsStore) Get(
	ctx context.Context,
	studentID uuid.UUID,
) (*domain.StudentMetrics, error) {
	query := `
		SELECT student_id, lessons_completed, total_lessons, overall_progress, time_spent_total, last_active, updated_at
		FROM student_metrics
		WHERE student_id = $1
	`

	var metrics domain.StudentMetrics
	err := s.db.QueryRowContext(ctx, query, studentID).Scan(
		&metrics.StudentID,
		&metrics.LessonsCompleted,
		&metrics.TotalLessons,
		&metrics.OverallProgress,
		&metrics.TimeSpentTotal,
		&metrics.LastActive,
		&metrics.UpdatedAt,
	)
	if err != nil {
		return nil, mapError(err, store.ErrStudentMetricsNotFound)
	}

	return &metrics, nil
}

// WithTx implements store.StudentMetricsStore.WithTx.
func (s *PostgresStudentMetricsStore) WithTx(tx *sql.Tx) store.StudentMetricsStore {
	return &PostgresStudentMetricsStore{
		db:     tx,
		logger: s.logger,
	}
}
