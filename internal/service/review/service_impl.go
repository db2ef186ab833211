package review

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/brightpath/progress-api/internal/catalog"
	"github.com/brightpath/progress-api/internal/domain"
	"github.com/brightpath/progress-api/internal/domain/srs"
	"github.com/brightpath/progress-api/internal/platform/logger"
	"github.com/brightpath/progress-api/internal/store"
)

// Verify interface compliance at compile time
var _ Service = (*serviceImpl)(nil)

// serviceImpl implements the Service interface.
type serviceImpl struct {
	items      store.ReviewItemStore
	catalog    catalog.Catalog
	srsService srs.Service
	logger     *slog.Logger
	now        func() time.Time
}

// Option customizes a review service.
type Option func(*serviceImpl)

// WithClock overrides the time source, used by tests to pin "now".
func WithClock(now func() time.Time) Option {
	return func(s *serviceImpl) {
		s.now = now
	}
}

// NewService creates a new review Service implementation.
func NewService(
	items store.ReviewItemStore,
	cat catalog.Catalog,
	srsService srs.Service,
	log *slog.Logger,
	opts ...Option,
) Service {
	if items == nil {
		panic("items store cannot be nil")
	}
	if cat == nil {
		panic("catalog cannot be nil")
	}
	if srsService == nil {
		panic("srsService cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}

	s := &serviceImpl{
		items:      items,
		catalog:    cat,
		srsService: srsService,
		logger:     log.With(slog.String("component", "review_service")),
		now:        func() time.Time { return time.Now().UTC() },
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// AddItem implements Service.AddItem.
func (s *serviceImpl) AddItem(
	ctx context.Context,
	studentID uuid.UUID,
	cardID, front, back, example string,
) (*domain.ReviewItem, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	exists, err := s.catalog.CardExists(ctx, cardID)
	if err != nil {
		return nil, fmt.Errorf("failed to check card existence: %w", err)
	}
	if !exists {
		log.Warn("add-item for unknown card",
			slog.String("student_id", studentID.String()),
			slog.String("card_id", cardID))
		return nil, store.ErrCardNotFound
	}

	item, err := domain.NewReviewItem(studentID, cardID, front, back, example)
	if err != nil {
		log.Warn("invalid review item",
			slog.String("error", err.Error()),
			slog.String("student_id", studentID.String()),
			slog.String("card_id", cardID))
		return nil, err
	}

	stored, err := s.items.Create(ctx, item)
	if err != nil {
		return nil, fmt.Errorf("failed to create review item: %w", err)
	}

	log.Debug("review item added",
		slog.String("student_id", studentID.String()),
		slog.String("card_id", cardID),
		slog.String("bucket", string(stored.Bucket)))

	return stored, nil
}

// GradeReview implements Service.GradeReview.
func (s *serviceImpl) GradeReview(
	ctx context.Context,
	studentID uuid.UUID,
	cardID string,
	quality int,
) (*domain.ReviewItem, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if quality < 0 || quality > 5 {
		log.Warn("invalid review quality",
			slog.Int("quality", quality),
			slog.String("student_id", studentID.String()),
			slog.String("card_id", cardID))
		return nil, fmt.Errorf("%w: %w", domain.ErrValidation, ErrInvalidQuality)
	}

	item, err := s.items.Get(ctx, studentID, cardID)
	if err != nil {
		return nil, err
	}

	next, err := s.srsService.NextReview(item, quality, s.now())
	if err != nil {
		return nil, fmt.Errorf("failed to calculate next review: %w", err)
	}

	if err := s.items.Update(ctx, next); err != nil {
		return nil, fmt.Errorf("failed to update review item: %w", err)
	}

	log.Debug("review graded",
		slog.String("student_id", studentID.String()),
		slog.String("card_id", cardID),
		slog.Int("quality", quality),
		slog.Int("interval_days", next.IntervalDays),
		slog.Float64("ease_factor", next.EaseFactor),
		slog.String("bucket", string(next.Bucket)),
		slog.Time("due_at", next.DueAt))

	return next, nil
}

// DueItems implements Service.DueItems.
func (s *serviceImpl) DueItems(
	ctx context.Context,
	studentID uuid.UUID,
	asOf time.Time,
	limit int,
) ([]*domain.ReviewItem, error) {
	if asOf.IsZero() {
		asOf = s.now()
	}
	if limit == 0 {
		limit = DefaultDueLimit
	}
	if limit < 0 {
		return nil, fmt.Errorf("%w: %w", domain.ErrValidation, ErrInvalidLimit)
	}

	items, err := s.items.ListDue(ctx, studentID, asOf, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list due items: %w", err)
	}

	return items, nil
}

// Stats implements Service.Stats.
func (s *serviceImpl) Stats(ctx context.Context, studentID uuid.UUID) (*domain.ReviewStats, error) {
	stats, err := s.items.GetStats(ctx, studentID, s.now())
	if err != nil {
		return nil, fmt.Errorf("failed to compute review stats: %w", err)
	}

	return stats, nil
}
