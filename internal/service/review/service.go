// Package review implements the spaced-repetition scheduling side of the
// engine: adding cards to a student's review rotation, grading reviews with
// the SM-2 algorithm, and answering due-item and dashboard-stats queries.
package review

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/brightpath/progress-api/internal/domain"
)

// Common service errors
var (
	// ErrInvalidQuality is returned when a grade's quality is outside 0-5.
	ErrInvalidQuality = errors.New("review quality must be between 0 and 5")

	// ErrInvalidLimit is returned when a due-items limit is not positive.
	ErrInvalidLimit = errors.New("limit must be greater than 0")
)

// DefaultDueLimit bounds due-item queries that do not specify a limit.
const DefaultDueLimit = 20

// Service defines the operations of the review scheduling pipeline.
type Service interface {
	// AddItem puts a card into the student's review rotation. New items
	// are due immediately. If the pair already exists the stored item is
	// returned unchanged, so adding is safe to retry.
	AddItem(
		ctx context.Context,
		studentID uuid.UUID,
		cardID, front, back, example string,
	) (*domain.ReviewItem, error)

	// GradeReview applies a recall quality (0-5) to the item's schedule and
	// returns the updated item. Unlike every other operation here it is NOT
	// idempotent: each call is a forward-only transition, and replaying a
	// grade advances the schedule twice. Callers must deduplicate retries
	// per actual user review (e.g. with a client-generated attempt ID).
	// Returns store.ErrReviewItemNotFound if the card was never added.
	GradeReview(
		ctx context.Context,
		studentID uuid.UUID,
		cardID string,
		quality int,
	) (*domain.ReviewItem, error)

	// DueItems returns the student's items due at or before asOf, most
	// overdue first, truncated to limit.
	DueItems(
		ctx context.Context,
		studentID uuid.UUID,
		asOf time.Time,
		limit int,
	) ([]*domain.ReviewItem, error)

	// Stats returns the dashboard counters for the student's current
	// review items.
	Stats(ctx context.Context, studentID uuid.UUID) (*domain.ReviewStats, error)
}
