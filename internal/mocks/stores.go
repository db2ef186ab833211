package mocks

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/brightpath/progress-api/internal/domain"
	"github.com/brightpath/progress-api/internal/store"
)

// MockCompletionStore is a mock of store.CompletionStore for use with testify/mock
type MockCompletionStore struct {
	mock.Mock
}

func (m *MockCompletionStore) Upsert(
	ctx context.Context,
	event *domain.CompletionEvent,
) (*domain.CompletionEvent, error) {
	args := m.Called(ctx, event)
	if stored, ok := args.Get(0).(*domain.CompletionEvent); ok {
		return stored, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockCompletionStore) Get(
	ctx context.Context,
	studentID uuid.UUID,
	itemID string,
) (*domain.CompletionEvent, error) {
	args := m.Called(ctx, studentID, itemID)
	if event, ok := args.Get(0).(*domain.CompletionEvent); ok {
		return event, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockCompletionStore) ListByStudent(
	ctx context.Context,
	studentID uuid.UUID,
) ([]*domain.CompletionEvent, error) {
	args := m.Called(ctx, studentID)
	if events, ok := args.Get(0).([]*domain.CompletionEvent); ok {
		return events, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockCompletionStore) ListStudentIDs(ctx context.Context) ([]uuid.UUID, error) {
	args := m.Called(ctx)
	if ids, ok := args.Get(0).([]uuid.UUID); ok {
		return ids, args.Error(1)
	}
	return nil, args.Error(1)
}

// WithTx returns the mock itself; expectations carry across the
// transaction boundary.
func (m *MockCompletionStore) WithTx(tx *sql.Tx) store.CompletionStore {
	return m
}

// MockStudentMetricsStore is a mock of store.StudentMetricsStore for use with testify/mock
type MockStudentMetricsStore struct {
	mock.Mock
}

func (m *MockStudentMetricsStore) Upsert(ctx context.Context, metrics *domain.StudentMetrics) error {
	args := m.Called(ctx, metrics)
	return args.Error(0)
}

func (m *MockStudentMetricsStore) Get(
	ctx context.Context,
	studentID uuid.UUID,
) (*domain.StudentMetrics, error) {
	args := m.Called(ctx, studentID)
	if metrics, ok := args.Get(0).(*domain.StudentMetrics); ok {
		return metrics, args.Error(1)
	}
	return nil, args.Error(1)
}

// WithTx returns the mock itself; expectations carry across the
// transaction boundary.
func (m *MockStudentMetricsStore) WithTx(tx *sql.Tx) store.StudentMetricsStore {
	return m
}

// MockReviewItemStore is a mock of store.ReviewItemStore for use with testify/mock
type MockReviewItemStore struct {
	mock.Mock
}

func (m *MockReviewItemStore) Create(
	ctx context.Context,
	item *domain.ReviewItem,
) (*domain.ReviewItem, error) {
	args := m.Called(ctx, item)
	if stored, ok := args.Get(0).(*domain.ReviewItem); ok {
		return stored, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockReviewItemStore) Get(
	ctx context.Context,
	studentID uuid.UUID,
	cardID string,
) (*domain.ReviewItem, error) {
	args := m.Called(ctx, studentID, cardID)
	if item, ok := args.Get(0).(*domain.ReviewItem); ok {
		return item, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockReviewItemStore) Update(ctx context.Context, item *domain.ReviewItem) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *MockReviewItemStore) ListDue(
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

func (m *MockReviewItemStore) GetStats(
	ctx context.Context,
	studentID uuid.UUID,
	asOf time.Time,
) (*domain.ReviewStats, error) {
	args := m.Called(ctx, studentID, asOf)
	if stats, ok := args.Get(0).(*domain.ReviewStats); ok {
		return stats, args.Error(1)
	}
	return nil, args.Error(1)
}

// MockAchievementStore is a mock of store.AchievementStore for use with testify/mock
type MockAchievementStore struct {
	mock.Mock
}

func (m *MockAchievementStore) InsertIfAbsent(
	ctx context.Context,
	achievement *domain.Achievement,
) (bool, error) {
	args := m.Called(ctx, achievement)
	return args.Bool(0), args.Error(1)
}

func (m *MockAchievementStore) ListByStudent(
	ctx context.Context,
	studentID uuid.UUID,
) ([]*domain.Achievement, error) {
	args := m.Called(ctx, studentID)
	if achievements, ok := args.Get(0).([]*domain.Achievement); ok {
		return achievements, args.Error(1)
	}
	return nil, args.Error(1)
}

// MockTxRunner runs the transactional function inline with a nil handle.
// Store mocks ignore the handle, so services exercise their full
// transactional flow without a database. Err short-circuits the run,
// simulating a failure to begin the transaction.
type MockTxRunner struct {
	Err error
}

var _ store.TxRunner = (*MockTxRunner)(nil)

func (m *MockTxRunner) RunInTransaction(ctx context.Context, fn store.TxFn) error {
	if m.Err != nil {
		return m.Err
	}
	return fn(ctx, nil)
}
