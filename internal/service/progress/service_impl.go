package progress

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/brightpath/progress-api/internal/catalog"
	"github.com/brightpath/progress-api/internal/domain"
	"github.com/brightpath/progress-api/internal/events"
	"github.com/brightpath/progress-api/internal/platform/logger"
	"github.com/brightpath/progress-api/internal/store"
)

// Verify interface compliance at compile time
var _ Service = (*serviceImpl)(nil)

// serviceImpl implements the Service interface.
type serviceImpl struct {
	tx           store.TxRunner
	completions  store.CompletionStore
	metrics      store.StudentMetricsStore
	achievements store.AchievementStore
	catalog      catalog.Catalog
	emitter      events.Emitter
	rules        []achievementRule
	logger       *slog.Logger
	now          func() time.Time
}

// Option customizes a progress service.
type Option func(*serviceImpl)

// WithClock overrides the time source, used by tests to pin "now".
func WithClock(now func() time.Time) Option {
	return func(s *serviceImpl) {
		s.now = now
	}
}

// NewService creates a new progress Service implementation.
func NewService(
	tx store.TxRunner,
	completions store.CompletionStore,
	metrics store.StudentMetricsStore,
	achievements store.AchievementStore,
	cat catalog.Catalog,
	emitter events.Emitter,
	log *slog.Logger,
	opts ...Option,
) Service {
	if tx == nil {
		panic("transaction runner cannot be nil")
	}
	if completions == nil {
		panic("completions store cannot be nil")
	}
	if metrics == nil {
		panic("metrics store cannot be nil")
	}
	if achievements == nil {
		panic("achievements store cannot be nil")
	}
	if cat == nil {
		panic("catalog cannot be nil")
	}
	if emitter == nil {
		panic("emitter cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}

	s := &serviceImpl{
		tx:           tx,
		completions:  completions,
		metrics:      metrics,
		achievements: achievements,
		catalog:      cat,
		emitter:      emitter,
		rules:        defaultAchievementRules,
		logger:       log.With(slog.String("component", "progress_service")),
		now:          func() time.Time { return time.Now().UTC() },
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// RecordCompletion implements Service.RecordCompletion.
func (s *serviceImpl) RecordCompletion(
	ctx context.Context,
	studentID uuid.UUID,
	itemID string,
	score int,
	timeSpentSeconds int,
) (*RecordCompletionResult, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	event, err := domain.NewCompletionEvent(studentID, itemID, score, timeSpentSeconds)
	if err != nil {
		log.Warn("invalid completion submission",
			slog.String("error", err.Error()),
			slog.String("student_id", studentID.String()),
			slog.String("item_id", itemID))
		return nil, err
	}

	exists, err := s.catalog.LessonExists(ctx, itemID)
	if err != nil {
		return nil, fmt.Errorf("failed to check lesson existence: %w", err)
	}
	if !exists {
		log.Warn("completion for unknown lesson",
			slog.String("student_id", studentID.String()),
			slog.String("item_id", itemID))
		return nil, store.ErrLessonNotFound
	}

	// The upsert and the recompute commit together, so a reader never sees
	// a recorded event with stale metrics. The recompute runs synchronously
	// so the response, and any read that follows it, reflects the
	// submission just made.
	var stored *domain.CompletionEvent
	var metrics *domain.StudentMetrics
	var completionEvents []*domain.CompletionEvent
	err = s.tx.RunInTransaction(ctx, func(ctx context.Context, tx *sql.Tx) error {
		txCompletions := s.completions.WithTx(tx)
		txMetrics := s.metrics.WithTx(tx)

		var txErr error
		stored, txErr = txCompletions.Upsert(ctx, event)
		if txErr != nil {
			return fmt.Errorf("failed to record completion: %w", txErr)
		}

		metrics, completionEvents, txErr = s.computeAndStore(ctx, txCompletions, txMetrics, studentID)
		return txErr
	})
	if err != nil {
		return nil, err
	}

	// Achievements are evaluated after commit. InsertIfAbsent is idempotent,
	// so a failure here is logged and retried on the next recompute rather
	// than rolling back the durable completion.
	if err := s.unlockAchievements(ctx, metrics, completionEvents); err != nil {
		log.Error("failed to evaluate achievements",
			slog.String("error", err.Error()),
			slog.String("student_id", studentID.String()))
	}

	log.Debug("completion recorded",
		slog.String("student_id", studentID.String()),
		slog.String("item_id", itemID),
		slog.Int("attempts", stored.Attempts),
		slog.Float64("overall_progress", metrics.OverallProgress))

	return &RecordCompletionResult{Event: stored, Metrics: metrics}, nil
}

// RecomputeForStudent implements Service.RecomputeForStudent.
func (s *serviceImpl) RecomputeForStudent(
	ctx context.Context,
	studentID uuid.UUID,
) (*domain.StudentMetrics, error) {
	if studentID == uuid.Nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrValidation, domain.ErrCompletionStudentIDEmpty)
	}
	return s.recompute(ctx, studentID)
}

// recompute rebuilds the metrics row from the full event set on the pooled
// connection and evaluates achievements. Used by the batch and on-demand
// paths; the metrics write is a single upsert, so no transaction is needed.
func (s *serviceImpl) recompute(
	ctx context.Context,
	studentID uuid.UUID,
) (*domain.StudentMetrics, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	metrics, completionEvents, err := s.computeAndStore(ctx, s.completions, s.metrics, studentID)
	if err != nil {
		return nil, err
	}

	if err := s.unlockAchievements(ctx, metrics, completionEvents); err != nil {
		// Achievement persistence failed; the metrics row is already
		// correct and the next recompute will retry the unlock, so this
		// is logged rather than failing the whole operation.
		log.Error("failed to evaluate achievements",
			slog.String("error", err.Error()),
			slog.String("student_id", studentID.String()))
	}

	return metrics, nil
}

// computeAndStore derives the metrics row from the full event set and
// upserts it through the given stores, which may be bound to a transaction.
// The listed events are returned so achievement rules can evaluate against
// the same snapshot the metrics were derived from.
func (s *serviceImpl) computeAndStore(
	ctx context.Context,
	completions store.CompletionStore,
	metricsStore store.StudentMetricsStore,
	studentID uuid.UUID,
) (*domain.StudentMetrics, []*domain.CompletionEvent, error) {
	completionEvents, err := completions.ListByStudent(ctx, studentID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list completion events: %w", err)
	}

	totalLessons, err := s.catalog.TotalLessons(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get total lesson count: %w", err)
	}

	metrics := domain.ComputeStudentMetrics(studentID, completionEvents, totalLessons, s.now())

	if err := metricsStore.Upsert(ctx, metrics); err != nil {
		return nil, nil, fmt.Errorf("failed to upsert student metrics: %w", err)
	}

	return metrics, completionEvents, nil
}

// unlockAchievements inserts newly satisfied achievements and emits an
// event for each row that was actually inserted.
func (s *serviceImpl) unlockAchievements(
	ctx context.Context,
	metrics *domain.StudentMetrics,
	completionEvents []*domain.CompletionEvent,
) error {
	var firstErr error
	for _, rule := range s.rules {
		if !rule.Satisfied(metrics, completionEvents) {
			continue
		}

		achievement, err := domain.NewAchievement(metrics.StudentID, rule.ID)
		if err != nil {
			if firstErr == nil {
				firstErr = err
			}
			continue
		}

		inserted, err := s.achievements.InsertIfAbsent(ctx, achievement)
		if err != nil {
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		if !inserted {
			continue
		}

		event := events.NewAchievementUnlockedEvent(
			achievement.StudentID,
			achievement.AchievementID,
			achievement.EarnedAt,
		)
		if err := s.emitter.EmitEvent(ctx, event); err != nil {
			// The unlock itself is durable; delivery is best effort.
			s.logger.Warn("failed to emit achievement event",
				slog.String("error", err.Error()),
				slog.String("achievement_id", achievement.AchievementID))
		}
	}

	return firstErr
}

// RecomputeAllStudents implements Service.RecomputeAllStudents.
func (s *serviceImpl) RecomputeAllStudents(ctx context.Context) (*RecomputeAllResult, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	studentIDs, err := s.completions.ListStudentIDs(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list students: %w", err)
	}

	log.Info("starting batch recompute", slog.Int("student_count", len(studentIDs)))

	result := &RecomputeAllResult{}
	for _, studentID := range studentIDs {
		if err := ctx.Err(); err != nil {
			// Cancellation leaves the already-processed students correct;
			// the caller can re-run to finish the remainder.
			log.Warn("batch recompute cancelled",
				slog.Int("processed", result.Processed),
				slog.Int("remaining", len(studentIDs)-result.Processed))
			return result, err
		}

		if _, err := s.recompute(ctx, studentID); err != nil {
			log.Error("recompute failed for student",
				slog.String("error", err.Error()),
				slog.String("student_id", studentID.String()))
			result.Failed = append(result.Failed, studentID)
			continue
		}
		result.Processed++
	}

	log.Info("batch recompute finished",
		slog.Int("processed", result.Processed),
		slog.Int("failed", len(result.Failed)))

	return result, nil
}

// GetMetrics implements Service.GetMetrics.
func (s *serviceImpl) GetMetrics(
	ctx context.Context,
	studentID uuid.UUID,
) (*domain.StudentMetrics, error) {
	metrics, err := s.metrics.Get(ctx, studentID)
	if err != nil {
		if errors.Is(err, store.ErrStudentMetricsNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get student metrics: %w", err)
	}
	return metrics, nil
}

// ListAchievements implements Service.ListAchievements.
func (s *serviceImpl) ListAchievements(
	ctx context.Context,
	studentID uuid.UUID,
) ([]*domain.Achievement, error) {
	achievements, err := s.achievements.ListByStudent(ctx, studentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list achievements: %w", err)
	}
	return achievements, nil
}
