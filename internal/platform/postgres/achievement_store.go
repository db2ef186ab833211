package postgres

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/brightpath/progress-api/internal/domain"
	"github.com/brightpath/progress-api/internal/platform/logger"
	"github.com/brightpath/progress-api/internal/store"
)

// PostgresAchievementStore implements the store.AchievementStore interface
// using a PostgreSQL database as the storage backend.
type PostgresAchievementStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresAchievementStore creates a new PostgreSQL implementation of the
// AchievementStore interface.
// If logger is nil, a default logger will be used.
func NewPostgresAchievementStore(db store.DBTX, logger *slog.Logger) *PostgresAchievementStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresAchievementStore{
		db:     db,
		logger: logger.With(slog.String("component", "achievement_store")),
	}
}

// Ensure PostgresAchievementStore implements store.AchievementStore interface
var _ store.AchievementStore = (*PostgresAchievementStore)(nil)

// InsertIfAbsent implements store.AchievementStore.InsertIfAbsent.
// The (student_id, achievement_id) primary key makes the insert idempotent;
// RowsAffected distinguishes a fresh unlock from a duplicate no-op.
func (s *PostgresAchievementStore) InsertIfAbsent(
	ctx context.Context,
	achievement *domain.Achievement,
) (bool, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := achievement.Validate(); err != nil {
		log.Warn("achievement validation failed during insert",
			slog.String("error", err.Error()),
			slog.String("student_id", achievement.StudentID.String()),
			slog.String("achievement_id", achievement.AchievementID))
		return false, err
	}

	query := `
		INSERT INTO achievements (student_id, achievement_id, earned_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (student_id, achievement_id) DO NOTHING
	`

	result, err := s.db.ExecContext(
		ctx,
		query,
		achievement.StudentID,
		achievement.AchievementID,
		achievement.EarnedAt,
	)
	if err != nil {
		log.Error("failed to insert achievement",
			slog.String("error", err.Error()),
			slog.String("student_id", achievement.StudentID.String()),
			slog.String("achievement_id", achievement.AchievementID))
		return false, err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}

	inserted := affected > 0
	if inserted {
		log.Info("achievement unlocked",
			slog.String("student_id", achievement.StudentID.String()),
			slog.String("achievement_id", achievement.AchievementID))
	}

	return inserted, nil
}

// ListByStudent implements store.AchievementStore.ListByStudent.
func (s *PostgresAchievementStore) ListByStudent(
	ctx context.Context,
	studentID uuid.UUID,
) ([]*domain.Achievement, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT student_id, achievement_id, earned_at
		FROM achievements
		WHERE student_id = $1
		ORDER BY earned_at ASC
	`

	rows, err := s.db.QueryContext(ctx, query, studentID)
	if err != nil {
		log.Error("failed to list achievements",
			slog.String("error", err.Error()),
			slog.String("student_id", studentID.String()))
		return nil, err
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			log.Warn("failed to close rows", slog.String("error", closeErr.Error()))
		}
	}()

	var achievements []*domain.Achievement
	for rows.Next() {
		var achievement domain.Achievement
		if err := rows.Scan(
			&achievement.StudentID,
			&achievement.AchievementID,
			&achievement.EarnedAt,
		); err != nil {
			return nil, err
		}
		achievements = append(achievements, &achievement)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return achievements, nil
}
