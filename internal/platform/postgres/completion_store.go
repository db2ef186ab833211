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

// PostgresCompletionStore implements the store.CompletionStore interface
// using a PostgreSQL database as the storage backend.
type PostgresCompletionStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresCompletionStore creates a new PostgreSQL implementation of the
// CompletionStore interface. It accepts a database connection or transaction
// that should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresCompletionStore(db store.DBTX, logger *slog.Logger) *PostgresCompletionStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresCompletionStore{
		db:     db,
		logger: logger.With(slog.String("component", "completion_store")),
	}
}

// Ensure PostgresCompletionStore implements store.CompletionStore interface
var _ store.CompletionStore = (*PostgresCompletionStore)(nil)

// Upsert implements store.CompletionStore.Upsert.
// The (student_id, item_id) primary key acts as the idempotency guard: the
// whole record-or-increment decision happens in one atomic statement, so
// concurrent submissions for the same pair serialize on the row instead of
// racing a read-modify-write in application code.
func (s *PostgresCompletionStore) Upsert(
	ctx context.Context,
	event *domain.CompletionEvent,
) (*domain.CompletionEvent, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := event.Validate(); err != nil {
		log.Warn("completion event validation failed during upsert",
			slog.String("error", err.Error()),
			slog.String("student_id", event.StudentID.String()),
			slog.String("item_id", event.ItemID))
		return nil, err
	}

	query := `
		INSERT INTO completion_events (student_id, item_id, score, time_spent_seconds, attempts, completed_at)
		VALUES ($1, $2, $3, $4, 1, $5)
		ON CONFLICT (student_id, item_id) DO UPDATE SET
			attempts = completion_events.attempts + 1,
			score = EXCLUDED.score,
			time_spent_seconds = EXCLUDED.time_spent_seconds,
			completed_at = EXCLUDED.completed_at
		RETURNING student_id, item_id, score, time_spent_seconds, attempts, completed_at
	`

	var stored domain.CompletionEvent
	err := s.db.QueryRowContext(
		ctx,
		query,
		event.StudentID,
		event.ItemID,
		event.Score,
		event.TimeSpentSeconds,
		event.CompletedAt,
	).Scan(
		&stored.StudentID,
		&stored.ItemID,
		&stored.Score,
		&stored.TimeSpentSeconds,
		&stored.Attempts,
		&stored.CompletedAt,
	)
	if err != nil {
		log.Error("failed to upsert completion event",
			slog.String("error", err.Error()),
			slog.String("student_id", event.StudentID.String()),
			slog.String("item_id", event.ItemID))
		return nil, mapError(err, store.ErrCompletionNotFound)
	}

	log.Debug("completion event upserted",
		slog.String("student_id", stored.StudentID.String()),
		slog.String("item_id", stored.ItemID),
		slog.Int("attempts", stored.Attempts))
	return &stored, nil
}

// Get implements store.CompletionStore.Get.
// Returns store.ErrCompletionNotFound if the pair has never been recorded.
func (s *PostgresCompletionStore) Get(
	ctx context.Context,
	studentID uuid.UUID,
	itemID string,
) (*domain.CompletionEvent, error) {
	query := `
		SELECT student_id, item_id, score, time_spent_seconds, attempts, completed_at
		FROM completion_events
		WHERE student_id = $1 AND item_id = $2
	`

	var event domain.CompletionEvent
	err := s.db.QueryRowContext(ctx, query, studentID, itemID).Scan(
		&event.StudentID,
		&event.ItemID,
		&event.Score,
		&event.TimeSpentSeconds,
		&event.Attempts,
		&event.CompletedAt,
	)
	if err != nil {
		return nil, mapError(err, store.ErrCompletionNotFound)
	}

	return &event, nil
}

// ListByStudent implements store.CompletionStore.ListByStudent.
func (s *PostgresCompletionStore) ListByStudent(
	ctx context.Context,
	studentID uuid.UUID,
) ([]*domain.CompletionEvent, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT student_id, item_id, score, time_spent_seconds, attempts, completed_at
		FROM completion_events
		WHERE student_id = $1
		ORDER BY item_id
	`

	rows, err := s.db.QueryContext(ctx, query, studentID)
	if err != nil {
		log.Error("failed to list completion events",
			slog.String("error", err.Error()),
			slog.String("student_id", studentID.String()))
		return nil, err
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			log.Warn("failed to close rows", slog.String("error", closeErr.Error()))
		}
	}()

	var events []*domain.CompletionEvent
	for rows.Next() {
		var event domain.CompletionEvent
		if err := rows.Scan(
			&event.StudentID,
			&event.ItemID,
			&event.Score,
			&event.TimeSpentSeconds,
			&event.Attempts,
			&event.CompletedAt,
		); err != nil {
			return nil, err
		}
		events = append(events, &event)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return events, nil
}

// ListStudentIDs implements store.CompletionStore.ListStudentIDs.
// The order is stable (ascending by ID) so a partially failed batch
// recompute can be reasoned about per student.
func (s *PostgresCompletionStore) ListStudentIDs(ctx context.Context) ([]uuid.UUID, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT DISTINCT student_id
		FROM completion_events
		ORDER BY student_id
	`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		log.Error("failed to list student IDs", slog.String("error", err.Error()))
		return nil, err
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			log.Warn("failed to close rows", slog.String("error", closeErr.Error()))
		}
	}()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return ids, nil
}

// WithTx implements store.CompletionStore.WithTx.
func (s *PostgresCompletionStore) WithTx(tx *sql.Tx) store.CompletionStore {
	return &PostgresCompletionStore{
		db:     tx,
		logger: s.logger,
	}
}
