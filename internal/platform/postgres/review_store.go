package postgres

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/brightpath/progress-api/internal/domain"
	"github.com/brightpath/progress-api/internal/platform/logger"
	"github.com/brightpath/progress-api/internal/store"
)

// PostgresReviewItemStore implements the store.ReviewItemStore interface
// using a PostgreSQL database as the storage backend.
type PostgresReviewItemStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresReviewItemStore creates a new PostgreSQL implementation of the
// ReviewItemStore interface.
// If logger is nil, a default logger will be used.
func NewPostgresReviewItemStore(db store.DBTX, logger *slog.Logger) *PostgresReviewItemStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresReviewItemStore{
		db:     db,
		logger: logger.With(slog.String("component", "review_item_store")),
	}
}

// Ensure PostgresReviewItemStore implements store.ReviewItemStore interface
var _ store.ReviewItemStore = (*PostgresReviewItemStore)(nil)

const reviewItemColumns = `
	student_id, card_id, front, back, example,
	ease_factor, interval_days, repetitions, bucket,
	due_at, last_reviewed_at, created_at, updated_at
`

// scanReviewItem reads one review item row. last_reviewed_at is NULL until
// the first grade and maps to the zero time.
func scanReviewItem(row interface{ Scan(dest ...any) error }) (*domain.ReviewItem, error) {
	var item domain.ReviewItem
	var lastReviewed sql.NullTime

	err := row.Scan(
		&item.StudentID,
		&item.CardID,
		&item.Front,
		&item.Back,
		&item.Example,
		&item.EaseFactor,
		&item.IntervalDays,
		&item.Repetitions,
		&item.Bucket,
		&item.DueAt,
		&lastReviewed,
		&item.CreatedAt,
		&item.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if lastReviewed.Valid {
		item.LastReviewedAt = lastReviewed.Time
	}

	return &item, nil
}

// nullableTime maps the zero time to NULL for storage.
func nullableTime(t time.Time) sql.NullTime {
	if t.IsZero() {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: t, Valid: true}
}

// Create implements store.ReviewItemStore.Create.
// The insert is guarded by the (student_id, card_id) primary key: when the
// item already exists the statement does nothing and the stored item is
// fetched and returned, so re-adding a card never resets its schedule.
func (s *PostgresReviewItemStore) Create(
	ctx context.Context,
	item *domain.ReviewItem,
) (*domain.ReviewItem, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := item.Validate(); err != nil {
		log.Warn("review item validation failed during create",
			slog.String("error", err.Error()),
			slog.String("student_id", item.StudentID.String()),
			slog.String("card_id", item.CardID))
		return nil, err
	}

	query := `
		INSERT INTO review_items (` + reviewItemColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		ON CONFLICT (student_id, card_id) DO NOTHING
		RETURNING ` + reviewItemColumns

	row := s.db.QueryRowContext(
		ctx,
		query,
		item.StudentID,
		item.CardID,
		item.Front,
		item.Back,
		item.Example,
		item.EaseFactor,
		item.IntervalDays,
		item.Repetitions,
		item.Bucket,
		item.DueAt,
		nullableTime(item.LastReviewedAt),
		item.CreatedAt,
		item.UpdatedAt,
	)

	created, err := scanReviewItem(row)
	if errors.Is(err, sql.ErrNoRows) {
		// Conflict path: the item already existed, return it unchanged.
		return s.Get(ctx, item.StudentID, item.CardID)
	}
	if err != nil {
		log.Error("failed to create review item",
			slog.String("error", err.Error()),
			slog.String("student_id", item.StudentID.String()),
			slog.String("card_id", item.CardID))
		return nil, mapError(err, store.ErrReviewItemNotFound)
	}

	log.Debug("review item created",
		slog.String("student_id", created.StudentID.String()),
		slog.String("card_id", created.CardID))
	return created, nil
}

// Get implements store.ReviewItemStore.Get.
// Returns store.ErrReviewItemNotFound if the card was never added.
func (s *PostgresReviewItemStore) Get(
	ctx context.Context,
	studentID uuid.UUID,
	cardID string,
) (*domain.ReviewItem, error) {
	query := `
		SELECT ` + reviewItemColumns + `
		FROM review_items
		WHERE student_id = $1 AND card_id = $2
	`

	item, err := scanReviewItem(s.db.QueryRowContext(ctx, query, studentID, cardID))
	if err != nil {
		return nil, mapError(err, store.ErrReviewItemNotFound)
	}

	return item, nil
}

// Update implements store.ReviewItemStore.Update.
// Returns store.ErrReviewItemNotFound if the item does not exist.
func (s *PostgresReviewItemStore) Update(ctx context.Context, item *domain.ReviewItem) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := item.Validate(); err != nil {
		log.Warn("review item validation failed during update",
			slog.String("error", err.Error()),
			slog.String("student_id", item.StudentID.String()),
			slog.String("card_id", item.CardID))
		return err
	}

	query := `
		UPDATE review_items SET
			ease_factor = $3,
			interval_days = $4,
			repetitions = $5,
			bucket = $6,
			due_at = $7,
			last_reviewed_at = $8,
			updated_at = $9
		WHERE student_id = $1 AND card_id = $2
	`

	result, err := s.db.ExecContext(
		ctx,
		query,
		item.StudentID,
		item.CardID,
		item.EaseFactor,
		item.IntervalDays,
		item.Repetitions,
		item.Bucket,
		item.DueAt,
		nullableTime(item.LastReviewedAt),
		item.UpdatedAt,
	)
	if err != nil {
		log.Error("failed to update review item",
			slog.String("error", err.Error()),
			slog.String("student_id", item.StudentID.String()),
			slog.String("card_id", item.CardID))
		return mapError(err, store.ErrReviewItemNotFound)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return store.ErrReviewItemNotFound
	}

	return nil
}

// ListDue implements store.ReviewItemStore.ListDue.
func (s *PostgresReviewItemStore) ListDue(
	ctx context.Context,
	studentID uuid.UUID,
	asOf time.Time,
	limit int,
) ([]*domain.ReviewItem, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT ` + reviewItemColumns + `
		FROM review_items
		WHERE student_id = $1 AND due_at <= $2
		ORDER BY due_at ASC, card_id ASC
		LIMIT $3
	`

	rows, err := s.db.QueryContext(ctx, query, studentID, asOf, limit)
	if err != nil {
		log.Error("failed to list due review items",
			slog.String("error", err.Error()),
			slog.String("student_id", studentID.String()))
		return nil, err
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			log.Warn("failed to close rows", slog.String("error", closeErr.Error()))
		}
	}()

	var items []*domain.ReviewItem
	for rows.Next() {
		item, err := scanReviewItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return items, nil
}

// GetStats implements store.ReviewItemStore.GetStats.
// A single aggregate over the live rows; there is no cached counter that
// could drift from the items themselves.
func (s *PostgresReviewItemStore) GetStats(
	ctx context.Context,
	studentID uuid.UUID,
	asOf time.Time,
) (*domain.ReviewStats, error) {
	query := `
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE due_at <= $2),
			COUNT(*) FILTER (WHERE bucket = 'new'),
			COUNT(*) FILTER (WHERE bucket = 'learning'),
			COUNT(*) FILTER (WHERE bucket = 'mature')
		FROM review_items
		WHERE student_id = $1
	`

	var stats domain.ReviewStats
	err := s.db.QueryRowContext(ctx, query, studentID, asOf).Scan(
		&stats.TotalItems,
		&stats.DueItems,
		&stats.NewItems,
		&stats.LearningItems,
		&stats.MatureItems,
	)
	if err != nil {
		return nil, err
	}

	return &stats, nil
}
