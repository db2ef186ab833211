package store

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/brightpath/progress-api/internal/domain"
)

// ReviewItemStore defines the interface for review item persistence.
type ReviewItemStore interface {
	// Create inserts a new review item. If an item already exists for the
	// (student, card) key the insert is a no-op and the existing item is
	// returned unchanged, preserving its schedule.
	Create(ctx context.Context, item *domain.ReviewItem) (*domain.ReviewItem, error)

	// Get retrieves the review item for a (student, card) pair.
	// Returns ErrReviewItemNotFound if the card was never added.
	Get(ctx context.Context, studentID uuid.UUID, cardID string) (*domain.ReviewItem, error)

	// Update overwrites the scheduling state of an existing item.
	// Returns ErrReviewItemNotFound if the item does not exist.
	Update(ctx context.Context, item *domain.ReviewItem) error

	// ListDue returns the student's items with due_at <= asOf, most overdue
	// first (ascending due_at), truncated to limit.
	ListDue(ctx context.Context, studentID uuid.UUID, asOf time.Time, limit int) ([]*domain.ReviewItem, error)

	// GetStats computes the dashboard counters for a student in a single
	// aggregate scan over the current rows, so the projection can never
	// diverge from the underlying items.
	GetStats(ctx context.Context, studentID uuid.UUID, asOf time.Time) (*domain.ReviewStats, error)
}
