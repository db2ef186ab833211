// Package task provides a small in-process background task runner used for
// work that should not block a request, currently the catalog-refresh
// recompute of every student's metrics.
package task

import (
	"context"

	"github.com/google/uuid"
)

// Task represents a unit of background work to be processed.
type Task interface {
	// ID returns the task's unique identifier
	ID() uuid.UUID

	// Type returns the task type identifier
	Type() string

	// Execute runs the task logic
	Execute(ctx context.Context) error
}

// Task type constants
const (
	// TaskTypeCatalogRefresh recomputes every student's metrics after the
	// lesson catalog changed.
	TaskTypeCatalogRefresh = "catalog_refresh"
)
