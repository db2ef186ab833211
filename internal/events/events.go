package events

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// AchievementUnlockedEvent is published when a student earns an achievement
// for the first time. Duplicate unlock attempts never reach the emitter: the
// store's idempotent insert filters them out upstream.
type AchievementUnlockedEvent struct {
	// ID is a unique identifier for this event
	ID uuid.UUID `json:"id"`

	// StudentID identifies the student who earned the achievement
	StudentID uuid.UUID `json:"student_id"`

	// AchievementID identifies which achievement was unlocked
	AchievementID string `json:"achievement_id"`

	// EarnedAt is when the achievement was earned
	EarnedAt time.Time `json:"earned_at"`

	// CreatedAt is the timestamp when the event was created
	CreatedAt time.Time `json:"created_at"`
}

// NewAchievementUnlockedEvent creates an event for a freshly earned
// achievement.
func NewAchievementUnlockedEvent(
	studentID uuid.UUID,
	achievementID string,
	earnedAt time.Time,
) *AchievementUnlockedEvent {
	return &AchievementUnlockedEvent{
		ID:            uuid.New(),
		StudentID:     studentID,
		AchievementID: achievementID,
		EarnedAt:      earnedAt,
		CreatedAt:     time.Now().UTC(),
	}
}

// Handler defines an interface for components that can handle events.
type Handler interface {
	// HandleEvent processes the given event within the provided context.
	// Returns an error if the event cannot be handled successfully.
	HandleEvent(ctx context.Context, event *AchievementUnlockedEvent) error
}

// Emitter defines an interface for components that can emit events.
// This allows services to publish events without direct knowledge of handlers.
type Emitter interface {
	// EmitEvent publishes the given event to all registered handlers.
	// Returns an error if the event cannot be emitted.
	EmitEvent(ctx context.Context, event *AchievementUnlockedEvent) error
}
