// Package catalog defines the read-only interface this engine consumes from
// the content catalog. Lesson and card authoring live elsewhere; the engine
// only needs the published lesson count and existence checks.
package catalog

import "context"

// Catalog is the collaborator surface for published content.
type Catalog interface {
	// TotalLessons returns the number of published lessons, the denominator
	// of every student's overall progress.
	TotalLessons(ctx context.Context) (int, error)

	// LessonExists reports whether a published lesson with the given ID
	// exists.
	LessonExists(ctx context.Context, itemID string) (bool, error)

	// CardExists reports whether a published flashcard with the given ID
	// exists.
	CardExists(ctx context.Context, cardID string) (bool, error)
}
