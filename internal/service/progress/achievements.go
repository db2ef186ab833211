package progress

import (
	"github.com/brightpath/progress-api/internal/domain"
)

// achievementRule decides, from a freshly recomputed metrics row and the
// stored events it was derived from, whether an achievement is satisfied.
// Rules only ever unlock: once earned, an achievement is kept even if the
// metrics later fall below the threshold.
type achievementRule struct {
	ID        string
	Satisfied func(metrics *domain.StudentMetrics, events []*domain.CompletionEvent) bool
}

// defaultAchievementRules is the fixed rule set evaluated after every
// recompute.
var defaultAchievementRules = []achievementRule{
	{
		ID: domain.AchievementFirstCompletion,
		Satisfied: func(m *domain.StudentMetrics, _ []*domain.CompletionEvent) bool {
			return m.LessonsCompleted >= 1
		},
	},
	{
		ID: domain.AchievementFiveLessons,
		Satisfied: func(m *domain.StudentMetrics, _ []*domain.CompletionEvent) bool {
			return m.LessonsCompleted >= 5
		},
	},
	{
		ID: domain.AchievementTenLessons,
		Satisfied: func(m *domain.StudentMetrics, _ []*domain.CompletionEvent) bool {
			return m.LessonsCompleted >= 10
		},
	},
	{
		ID: domain.AchievementTwentyFiveLessons,
		Satisfied: func(m *domain.StudentMetrics, _ []*domain.CompletionEvent) bool {
			return m.LessonsCompleted >= 25
		},
	},
	{
		ID: domain.AchievementPerfectScore,
		Satisfied: func(_ *domain.StudentMetrics, events []*domain.CompletionEvent) bool {
			// Evaluated over stored rows, not just the triggering
			// submission, so batch recomputes unlock it too.
			for _, event := range events {
				if event.Score == 100 {
					return true
				}
			}
			return false
		},
	},
	{
		ID: domain.AchievementDedicatedLearner,
		Satisfied: func(m *domain.StudentMetrics, _ []*domain.CompletionEvent) bool {
			return m.TimeSpentTotal >= 10*60*60
		},
	},
}
