package progression

import (
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/habitloop/habitloop/store"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func lockedAchievement(id int32, kind RuleKind, target int32) *store.Achievement {
	return &store.Achievement{ID: id, RuleKind: string(kind), TargetValue: target}
}

func TestEvaluateAchievements(t *testing.T) {
	in := EvalInput{
		Profile: &store.PlayerProfile{Level: 3, LongestStreak: 8},
		Habits: []*store.Habit{
			{ID: 1, CurrentStreak: 4, Category: "fitness"},
			{ID: 2, CurrentStreak: 8, Category: "health"},
		},
		RecentLogs: []*store.HabitLog{
			{HabitID: 1, Category: "fitness", DayTs: day(10)},
			{HabitID: 1, Category: "fitness", DayTs: day(11)},
			{HabitID: 2, Category: "health", DayTs: day(11)},
		},
		Today: day(11),
	}

	t.Run("threshold rules compute progress and unlock", func(t *testing.T) {
		achievements := []*store.Achievement{
			lockedAchievement(1, RuleStreakAtLeast, 7),
			lockedAchievement(2, RuleLongestStreakAtLeast, 30),
			lockedAchievement(3, RuleTotalHabitsAtLeast, 2),
			lockedAchievement(4, RuleTotalCompletionsAtLeast, 10),
			lockedAchievement(5, RuleCategoryDiversityAtLeast, 3),
			lockedAchievement(6, RuleLevelAtLeast, 3),
		}
		updates := EvaluateAchievements(achievements, in, discardLogger())
		require.Len(t, updates, 6)

		// Best current streak 8 >= 7.
		assert.Equal(t, int32(7), updates[0].NewProgress)
		assert.True(t, updates[0].NewlyUnlocked)
		// Longest streak 8 of 30.
		assert.Equal(t, int32(8), updates[1].NewProgress)
		assert.False(t, updates[1].NewlyUnlocked)
		// Two habits tracked.
		assert.True(t, updates[2].NewlyUnlocked)
		// Three completions of ten.
		assert.Equal(t, int32(3), updates[3].NewProgress)
		assert.False(t, updates[3].NewlyUnlocked)
		// Two categories of three.
		assert.Equal(t, int32(2), updates[4].NewProgress)
		assert.False(t, updates[4].NewlyUnlocked)
		// Level 3 of 3.
		assert.True(t, updates[5].NewlyUnlocked)
	})

	t.Run("unlocked achievements are skipped", func(t *testing.T) {
		achievements := []*store.Achievement{
			{ID: 1, RuleKind: string(RuleTotalHabitsAtLeast), TargetValue: 1, IsUnlocked: true},
		}
		updates := EvaluateAchievements(achievements, in, discardLogger())
		assert.Empty(t, updates)
	})

	t.Run("malformed rule does not abort the batch", func(t *testing.T) {
		achievements := []*store.Achievement{
			lockedAchievement(1, RuleTotalHabitsAtLeast, 0),
			lockedAchievement(2, "NO_SUCH_RULE", 5),
			lockedAchievement(3, RuleTotalHabitsAtLeast, 2),
		}
		updates := EvaluateAchievements(achievements, in, discardLogger())
		require.Len(t, updates, 1)
		assert.Equal(t, int32(3), updates[0].Achievement.ID)
		assert.True(t, updates[0].NewlyUnlocked)
	})

	t.Run("progress is clamped to the target", func(t *testing.T) {
		achievements := []*store.Achievement{
			lockedAchievement(1, RuleTotalCompletionsAtLeast, 2),
		}
		updates := EvaluateAchievements(achievements, in, discardLogger())
		require.Len(t, updates, 1)
		assert.Equal(t, int32(2), updates[0].NewProgress)
		assert.True(t, updates[0].NewlyUnlocked)
	})
}

func TestEvaluatePerfectWeek(t *testing.T) {
	logs := make([]*store.HabitLog, 0, 7)
	for n := 5; n <= 11; n++ {
		logs = append(logs, &store.HabitLog{HabitID: 1, DayTs: day(n)})
	}

	t.Run("seven distinct days unlock", func(t *testing.T) {
		updates := EvaluateAchievements(
			[]*store.Achievement{lockedAchievement(1, RulePerfectWeek, 7)},
			EvalInput{RecentLogs: logs, Today: day(11)},
			discardLogger())
		require.Len(t, updates, 1)
		assert.True(t, updates[0].NewlyUnlocked)
	})

	t.Run("duplicate days on one date count once", func(t *testing.T) {
		doubled := append([]*store.HabitLog{{HabitID: 2, DayTs: day(11)}}, logs[1:]...)
		updates := EvaluateAchievements(
			[]*store.Achievement{lockedAchievement(1, RulePerfectWeek, 7)},
			EvalInput{RecentLogs: doubled, Today: day(11)},
			discardLogger())
		require.Len(t, updates, 1)
		assert.Equal(t, int32(6), updates[0].NewProgress)
		assert.False(t, updates[0].NewlyUnlocked)
	})

	t.Run("days outside the window are ignored", func(t *testing.T) {
		old := []*store.HabitLog{{DayTs: day(1)}, {DayTs: day(2)}}
		updates := EvaluateAchievements(
			[]*store.Achievement{lockedAchievement(1, RulePerfectWeek, 7)},
			EvalInput{RecentLogs: old, Today: day(11)},
			discardLogger())
		require.Len(t, updates, 1)
		assert.Equal(t, int32(0), updates[0].NewProgress)
	})
}

func TestEvaluateIdempotent(t *testing.T) {
	// Running the evaluation twice over the same input yields identical
	// updates; unlock announcements depend only on the stored flag.
	in := EvalInput{
		Habits: []*store.Habit{{ID: 1, CurrentStreak: 3}},
	}
	achievements := []*store.Achievement{lockedAchievement(1, RuleStreakAtLeast, 3)}

	first := EvaluateAchievements(achievements, in, discardLogger())
	second := EvaluateAchievements(achievements, in, discardLogger())
	require.Len(t, first, 1)
	require.Len(t, second, 1)
	assert.Equal(t, first[0].NewProgress, second[0].NewProgress)
	assert.Equal(t, first[0].NewlyUnlocked, second[0].NewlyUnlocked)

	// Once persisted as unlocked, it never re-announces.
	achievements[0].IsUnlocked = true
	third := EvaluateAchievements(achievements, in, discardLogger())
	assert.Empty(t, third)
}

func TestDefaultAchievementsWellFormed(t *testing.T) {
	seen := make(map[string]bool)
	for _, def := range DefaultAchievements {
		assert.NotEmpty(t, def.Name)
		assert.Positive(t, def.TargetValue)
		assert.False(t, seen[def.Name], "duplicate achievement %q", def.Name)
		seen[def.Name] = true

		_, ok := ruleValue(def.RuleKind, EvalInput{})
		assert.True(t, ok, "rule kind %q not evaluable", def.RuleKind)
	}
}
