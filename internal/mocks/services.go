package mocks

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/brightpath/progress-api/internal/domain"
	"github.com/brightpath/progress-api/internal/service/progress"
)

// MockProgressService is a mock of progress.Service for use with testify/mock
type MockProgressService struct {
	mock.Mock
}

func (m *MockProgressService) RecordCompletion(
	ctx context.Context,
	studentID uuid.UUID,
	itemID string,
	score int,
	timeSpentSeconds int,
) (*progress.RecordCompletionResult, error) {
	args := m.Called(ctx, studentID, itemID, score, timeSpentSeconds)
	if result, ok := args.Get(0).(*progress.RecordCompletionResult); ok {
		return result, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockProgressService) RecomputeForStudent(
	ctx context.Context,
	studentID uuid.UUID,
) (*domain.StudentMetrics, error) {
	args := m.Called(ctx, studentID)
	if metrics, ok := args.Get(0).(*domain.StudentMetrics); ok {
		return metrics, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockProgressService) RecomputeAllStudents(
	ctx context.Context,
) (*progress.RecomputeAllResult, error) {
	args := m.Called(ctx)
	if result, ok := args.Get(0).(*progress.RecomputeAllResult); ok {
		return result, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockProgressService) GetMetrics(
	ctx context.Context,
	studentID uuid.UUID,
) (*domain.StudentMetrics, error) {
	args := m.Called(ctx, studentID)
	if metrics, ok := args.Get(0).(*domain.StudentMetrics); ok {
		return metrics, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockProgressService) ListAchievements(
	ctx context.Context,
	studentID uuid.UUID,
) ([]*domain.Achievement, error) {
	args := m.Called(ctx, studentID)
	if achievements, ok := args.Get(0).([]*domain.Achievement); ok {
		return achievements, args.Error(1)
	}
	return nil, args.Error(1)
}

// MockReviewService is a mock of review.Service for use with testify/mock
type MockReviewService struct {
	mock.Mock
}

func (m *MockReviewService) AddItem(
	ctx context.Context,
	studentID uuid.UUID,
	cardID, front, back, example string,
) (*domain.ReviewItem, error) {
	args := m.Called(ctx, studentID, cardID, front, back, example)
	if item, ok := args.Get(0).(*domain.ReviewItem); ok {
		return item, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockReviewService) GradeReview(
	ctx context.Context,
	studentID uuid.UUID,
	cardID string,
	quality int,
) (*domain.ReviewItem, error) {
	args := m.Called(ctx, studentID, cardID, quality)
	if item, ok := args.Get(0).(*domain.ReviewItem); ok {
		return item, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockReviewService) DueItems(
	ctx context.Context,
	studentID uuid.UUID,
	asOf time.Time,
	limit int,
) ([]*domain.ReviewItem, error) {
	args := m.Called(ctx, studentID, asOf, limit)
	if items, ok := args.Get(0).([]*domain.ReviewItem); ok {
		return items, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockReviewService) Stats(
	ctx context.Context,
	studentID uuid.UUID,
) (*domain.ReviewStats, error) {
	args := m.Called(ctx, studentID)
	if stats, ok := args.Get(0).(*domain.ReviewStats); ok {
		return stats, args.Error(1)
	}
	return nil, args.Error(1)
}
