package domain

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// CompletionEvent-specific validation errors
var (
	// ErrCompletionStudentIDEmpty is returned when a completion's student ID is empty or nil.
	ErrCompletionStudentIDEmpty = errors.New("completion student ID cannot be empty")

	// ErrCompletionItemIDEmpty is returned when a completion's item ID is empty.
	ErrCompletionItemIDEmpty = errors.New("completion item ID cannot be empty")

	// ErrScoreOutOfRange is returned when a score is not between 0 and 100.
	ErrScoreOutOfRange = errors.New("score must be between 0 and 100")

	// ErrNegativeTimeSpent is returned when the reported time spent is negative.
	ErrNegativeTimeSpent = errors.New("time spent cannot be negative")
)

// CompletionEvent records that a student completed (or re-submitted) a lesson
// or exercise. There is exactly one row per (student, item) pair: repeated
// submissions increment Attempts and overwrite Score, TimeSpentSeconds and
// CompletedAt with the latest values rather than appending new rows.
type CompletionEvent struct {
	StudentID        uuid.UUID `json:"student_id"`
	ItemID           string    `json:"item_id"`
	Score            int       `json:"score"`              // Latest score, 0-100
	TimeSpentSeconds int       `json:"time_spent_seconds"` // Latest reported time spent
	Attempts         int       `json:"attempts"`           // Number of physical submissions
	CompletedAt      time.Time `json:"completed_at"`       // Timestamp of the latest submission
}

// NewCompletionEvent creates a completion event for a first submission.
// Returns an error if validation fails.
func NewCompletionEvent(
	studentID uuid.UUID,
	itemID string,
	score int,
	timeSpentSeconds int,
) (*CompletionEvent, error) {
	event := &CompletionEvent{
		StudentID:        studentID,
		ItemID:           itemID,
		Score:            score,
		TimeSpentSeconds: timeSpentSeconds,
		Attempts:         1,
		CompletedAt:      time.Now().UTC(),
	}

	if err := event.Validate(); err != nil {
		return nil, err
	}

	return event, nil
}

// Validate checks if the CompletionEvent has valid data.
// Returns an error wrapping ErrValidation if any field fails validation.
func (e *CompletionEvent) Validate() error {
	if e.StudentID == uuid.Nil {
		return fmt.Errorf("%w: %w", ErrValidation, ErrCompletionStudentIDEmpty)
	}

	if e.ItemID == "" {
		return fmt.Errorf("%w: %w", ErrValidation, ErrCompletionItemIDEmpty)
	}

	if e.Score < 0 || e.Score > 100 {
		return fmt.Errorf("%w: %w", ErrValidation, ErrScoreOutOfRange)
	}

	if e.TimeSpentSeconds < 0 {
		return fmt.Errorf("%w: %w", ErrValidation, ErrNegativeTimeSpent)
	}

	return nil
}
