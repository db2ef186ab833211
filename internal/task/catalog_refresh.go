package task

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/brightpath/progress-api/internal/service/progress"
)

// CatalogRefreshTask recomputes metrics for every student after the lesson
// catalog changes (publishes or unpublishes shift denominators, so completion
// percentages go stale in bulk).
type CatalogRefreshTask struct {
	id       uuid.UUID
	progress progress.Service
	logger   *slog.Logger
}

// NewCatalogRefreshTask creates a task that recomputes all student metrics.
func NewCatalogRefreshTask(progressService progress.Service, logger *slog.Logger) *CatalogRefreshTask {
	if progressService == nil {
		panic("progressService cannot be nil")
	}
	return &CatalogRefreshTask{
		id:       uuid.New(),
		progress: progressService,
		logger:   logger.With(slog.String("component", "catalog_refresh_task")),
	}
}

// ID returns the task's unique identifier.
func (t *CatalogRefreshTask) ID() uuid.UUID {
	return t.id
}

// Type returns the task type string.
func (t *CatalogRefreshTask) Type() string {
	return TaskTypeCatalogRefresh
}

// Execute runs the full recompute. Per-student failures are tolerated by the
// service; they are reported here and the task still succeeds for everyone
// else, since the next refresh converges the stragglers.
func (t *CatalogRefreshTask) Execute(ctx context.Context) error {
	t.logger.InfoContext(ctx, "starting catalog refresh recompute", "task_id", t.id)

	result, err := t.progress.RecomputeAllStudents(ctx)
	if err != nil {
		return fmt.Errorf("recompute all students: %w", err)
	}

	if len(result.Failed) > 0 {
		t.logger.WarnContext(ctx, "catalog refresh completed with failures",
			"task_id", t.id,
			"processed", result.Processed,
			"failed", len(result.Failed))
	} else {
		t.logger.InfoContext(ctx, "catalog refresh completed",
			"task_id", t.id,
			"processed", result.Processed)
	}

	return nil
}
