package domain

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Bucket is the coarse maturity classification of a review item.
type Bucket string

// Possible bucket values. Items start in BucketNew, move to BucketLearning
// on their first grade, graduate to BucketMature once the interval reaches
// the mature threshold, and fall back to BucketLearning on any failure.
// There is no terminal state.
const (
	BucketNew      Bucket = "new"
	BucketLearning Bucket = "learning"
	BucketMature   Bucket = "mature"
)

// ReviewItem-specific validation errors
var (
	// ErrReviewStudentIDEmpty is returned when a review item's student ID is empty or nil.
	ErrReviewStudentIDEmpty = errors.New("review item student ID cannot be empty")

	// ErrReviewCardIDEmpty is returned when a review item's card ID is empty.
	ErrReviewCardIDEmpty = errors.New("review item card ID cannot be empty")

	// ErrReviewFrontEmpty is returned when a review item's front text is empty.
	ErrReviewFrontEmpty = errors.New("review item front cannot be empty")

	// ErrInvalidIntervalDays is returned when an interval is negative.
	ErrInvalidIntervalDays = errors.New("interval days must be greater than or equal to 0")

	// ErrInvalidEaseFactor is returned when an ease factor is below the SM-2 floor.
	ErrInvalidEaseFactor = errors.New("ease factor must be at least 1.3")

	// ErrInvalidBucket is returned when a bucket value is not new, learning or mature.
	ErrInvalidBucket = errors.New("invalid bucket")
)

// ReviewItem tracks a student's spaced-repetition state for a single
// flashcard. It is keyed by (student, card), created once via the add-item
// operation and mutated only by grading a review.
type ReviewItem struct {
	StudentID      uuid.UUID `json:"student_id"`
	CardID         string    `json:"card_id"`
	Front          string    `json:"front"`
	Back           string    `json:"back"`
	Example        string    `json:"example,omitempty"`
	EaseFactor     float64   `json:"ease_factor"`      // SM-2 ease factor, >= 1.3
	IntervalDays   int       `json:"interval_days"`    // Current interval in days
	Repetitions    int       `json:"repetitions"`      // Consecutive passing reviews
	Bucket         Bucket    `json:"bucket"`           // new / learning / mature
	DueAt          time.Time `json:"due_at"`           // When the item is next due
	LastReviewedAt time.Time `json:"last_reviewed_at"` // Zero until first grade
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// NewReviewItem creates a review item with default scheduling state.
// New items are due immediately so they surface in the next due-items query.
func NewReviewItem(studentID uuid.UUID, cardID, front, back, example string) (*ReviewItem, error) {
	now := time.Now().UTC()
	item := &ReviewItem{
		StudentID:      studentID,
		CardID:         cardID,
		Front:          front,
		Back:           back,
		Example:        example,
		EaseFactor:     2.5,
		IntervalDays:   0,
		Repetitions:    0,
		Bucket:         BucketNew,
		DueAt:          now,
		LastReviewedAt: time.Time{},
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := item.Validate(); err != nil {
		return nil, err
	}

	return item, nil
}

// Validate checks if the ReviewItem has valid data.
// Returns an error wrapping ErrValidation if any field fails validation.
func (i *ReviewItem) Validate() error {
	if i.StudentID == uuid.Nil {
		return fmt.Errorf("%w: %w", ErrValidation, ErrReviewStudentIDEmpty)
	}

	if i.CardID == "" {
		return fmt.Errorf("%w: %w", ErrValidation, ErrReviewCardIDEmpty)
	}

	if i.Front == "" {
		return fmt.Errorf("%w: %w", ErrValidation, ErrReviewFrontEmpty)
	}

	if i.IntervalDays < 0 {
		return fmt.Errorf("%w: %w", ErrValidation, ErrInvalidIntervalDays)
	}

	if i.EaseFactor < 1.3 {
		return fmt.Errorf("%w: %w", ErrValidation, ErrInvalidEaseFactor)
	}

	switch i.Bucket {
	case BucketNew, BucketLearning, BucketMature:
	default:
		return fmt.Errorf("%w: %w", ErrValidation, ErrInvalidBucket)
	}

	return nil
}

// ReviewStats is the read-side projection over a student's review items
// consumed by the dashboard counters.
type ReviewStats struct {
	TotalItems    int `json:"total_items"`
	DueItems      int `json:"due_items"`
	NewItems      int `json:"new_items"`
	LearningItems int `json:"learning_items"`
	MatureItems   int `json:"mature_items"`
}
