package task

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/brightpath/progress-api/internal/mocks"
	"github.com/brightpath/progress-api/internal/service/progress"
)

func TestCatalogRefreshTaskExecute(t *testing.T) {
	t.Parallel()

	service := new(mocks.MockProgressService)
	service.On("RecomputeAllStudents", mock.Anything).
		Return(&progress.RecomputeAllResult{Processed: 3}, nil)

	task := NewCatalogRefreshTask(service, slog.Default())

	assert.Equal(t, TaskTypeCatalogRefresh, task.Type())
	assert.NotEqual(t, uuid.Nil, task.ID())

	require.NoError(t, task.Execute(context.Background()))
	service.AssertExpectations(t)
}

// Per-student failures are already tolerated inside the recompute; the task
// only fails when the batch itself cannot run.
func TestCatalogRefreshTaskPartialFailureStillSucceeds(t *testing.T) {
	t.Parallel()

	service := new(mocks.MockProgressService)
	service.On("RecomputeAllStudents", mock.Anything).
		Return(&progress.RecomputeAllResult{
			Processed: 2,
			Failed:    []uuid.UUID{uuid.New()},
		}, nil)

	task := NewCatalogRefreshTask(service, slog.Default())

	assert.NoError(t, task.Execute(context.Background()))
}

func TestCatalogRefreshTaskBatchFailure(t *testing.T) {
	t.Parallel()

	service := new(mocks.MockProgressService)
	service.On("RecomputeAllStudents", mock.Anything).
		Return(nil, errors.New("database unavailable"))

	task := NewCatalogRefreshTask(service, slog.Default())

	assert.Error(t, task.Execute(context.Background()))
}
