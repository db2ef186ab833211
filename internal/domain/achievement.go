package domain

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Achievement-specific validation errors
var (
	// ErrAchievementStudentIDEmpty is returned when an achievement's student ID is empty or nil.
	ErrAchievementStudentIDEmpty = errors.New("achievement student ID cannot be empty")

	// ErrAchievementIDEmpty is returned when an achievement ID is empty.
	ErrAchievementIDEmpty = errors.New("achievement ID cannot be empty")
)

// Well-known achievement IDs unlocked by the metrics maintainer.
const (
	AchievementFirstCompletion   = "first_completion"
	AchievementFiveLessons       = "five_lessons"
	AchievementTenLessons        = "ten_lessons"
	AchievementTwentyFiveLessons = "twenty_five_lessons"
	AchievementPerfectScore      = "perfect_score"
	AchievementDedicatedLearner  = "dedicated_learner"
)

// Achievement records that a student crossed a metric threshold. Rows are
// append-only and unique per (student, achievement); unlocking the same
// achievement twice is a no-op.
type Achievement struct {
	StudentID     uuid.UUID `json:"student_id"`
	AchievementID string    `json:"achievement_id"`
	EarnedAt      time.Time `json:"earned_at"`
}

// NewAchievement creates an achievement earned now.
// Returns an error if validation fails.
func NewAchievement(studentID uuid.UUID, achievementID string) (*Achievement, error) {
	achievement := &Achievement{
		StudentID:     studentID,
		AchievementID: achievementID,
		EarnedAt:      time.Now().UTC(),
	}

	if err := achievement.Validate(); err != nil {
		return nil, err
	}

	return achievement, nil
}

// Validate checks if the Achievement has valid data.
func (a *Achievement) Validate() error {
	if a.StudentID == uuid.Nil {
		return fmt.Errorf("%w: %w", ErrValidation, ErrAchievementStudentIDEmpty)
	}

	if a.AchievementID == "" {
		return fmt.Errorf("%w: %w", ErrValidation, ErrAchievementIDEmpty)
	}

	return nil
}
