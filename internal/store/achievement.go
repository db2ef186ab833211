package store

import (
	"context"

	"github.com/google/uuid"

	"github.com/brightpath/progress-api/internal/domain"
)

// AchievementStore defines the interface for achievement persistence.
// The collection is append-only: rows are never updated or deleted.
type AchievementStore interface {
	// InsertIfAbsent records an achievement unless the student already has
	// it. It reports whether a new row was inserted; a duplicate insert is
	// a no-op, not an error.
	InsertIfAbsent(ctx context.Context, achievement *domain.Achievement) (bool, error)

	// ListByStudent returns the student's achievements ordered by the time
	// they were earned.
	ListByStudent(ctx context.Context, studentID uuid.UUID) ([]*domain.Achievement, error)
}
