package progress

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/brightpath/progress-api/internal/domain"
)

func ruleByID(t *testing.T, id string) achievementRule {
	t.Helper()
	for _, rule := range defaultAchievementRules {
		if rule.ID == id {
			return rule
		}
	}
	t.Fatalf("no rule with ID %q", id)
	return achievementRule{}
}

func TestLessonCountRules(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		id        string
		threshold int
	}{
		{domain.AchievementFirstCompletion, 1},
		{domain.AchievementFiveLessons, 5},
		{domain.AchievementTenLessons, 10},
		{domain.AchievementTwentyFiveLessons, 25},
	}

	for _, tc := range testCases {
		t.Run(tc.id, func(t *testing.T) {
			t.Parallel()
			rule := ruleByID(t, tc.id)

			below := &domain.StudentMetrics{StudentID: uuid.New(), LessonsCompleted: tc.threshold - 1}
			at := &domain.StudentMetrics{StudentID: uuid.New(), LessonsCompleted: tc.threshold}

			assert.False(t, rule.Satisfied(below, nil))
			assert.True(t, rule.Satisfied(at, nil))
		})
	}
}

func TestPerfectScoreRule(t *testing.T) {
	t.Parallel()
	rule := ruleByID(t, domain.AchievementPerfectScore)
	metrics := &domain.StudentMetrics{StudentID: uuid.New()}

	assert.False(t, rule.Satisfied(metrics, nil))
	assert.False(t, rule.Satisfied(metrics, []*domain.CompletionEvent{{Score: 99}}))
	assert.True(t, rule.Satisfied(metrics, []*domain.CompletionEvent{{Score: 100}}))

	// A perfect score anywhere in the stored rows counts, not just the
	// most recent submission.
	assert.True(t, rule.Satisfied(metrics, []*domain.CompletionEvent{
		{ItemID: "lesson-1", Score: 100},
		{ItemID: "lesson-2", Score: 60},
	}))
}

func TestDedicatedLearnerRule(t *testing.T) {
	t.Parallel()
	rule := ruleByID(t, domain.AchievementDedicatedLearner)

	assert.False(t, rule.Satisfied(&domain.StudentMetrics{TimeSpentTotal: 10*60*60 - 1}, nil))
	assert.True(t, rule.Satisfied(&domain.StudentMetrics{TimeSpentTotal: 10 * 60 * 60}, nil))
}
