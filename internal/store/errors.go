package store

import (
	"errors"
	"fmt"
)

// Common store errors used across all store implementations.
var (
	// ErrNotFound is returned when a requested entity does not exist in the store.
	// This is a generic version of the entity-specific not found errors.
	ErrNotFound = errors.New("entity not found")

	// ErrDuplicate is returned when an operation would create a duplicate
	// of a unique entity.
	ErrDuplicate = errors.New("entity already exists")

	// ErrInvalidEntity is returned when an entity fails validation before
	// being stored. Check the wrapped error for specific validation details.
	ErrInvalidEntity = errors.New("invalid entity")

	// ErrTransactionFailed is returned when a database transaction fails
	// to commit or when an operation within a transaction fails.
	ErrTransactionFailed = errors.New("transaction failed")

	// Entity-specific "not found" errors

	// ErrCompletionNotFound indicates that no completion event exists for the
	// requested (student, item) pair.
	ErrCompletionNotFound = fmt.Errorf("%w: completion event", ErrNotFound)

	// ErrStudentMetricsNotFound indicates that the requested student has no
	// metrics row, i.e. no recompute has ever run for them.
	ErrStudentMetricsNotFound = fmt.Errorf("%w: student metrics", ErrNotFound)

	// ErrReviewItemNotFound indicates that the requested review item does not
	// exist, i.e. the card was never added for that student.
	ErrReviewItemNotFound = fmt.Errorf("%w: review item", ErrNotFound)

	// ErrLessonNotFound indicates that the catalog has no published lesson
	// with the given ID.
	ErrLessonNotFound = fmt.Errorf("%w: lesson", ErrNotFound)

	// ErrCardNotFound indicates that the catalog has no published card with
	// the given ID.
	ErrCardNotFound = fmt.Errorf("%w: card", ErrNotFound)
)
