package progression

import (
	"log/slog"

	"github.com/habitloop/habitloop/store"
)

// RuleKind identifies an achievement unlock rule. Rules are tagged variants
// with a single integer threshold so they stay serializable and testable in
// isolation; there are no closure-based rules.
type RuleKind string

const (
	// RuleStreakAtLeast unlocks when any habit's current streak reaches the target.
	RuleStreakAtLeast RuleKind = "STREAK_AT_LEAST"
	// RuleLongestStreakAtLeast unlocks when the profile's longest streak reaches the target.
	RuleLongestStreakAtLeast RuleKind = "LONGEST_STREAK_AT_LEAST"
	// RuleTotalHabitsAtLeast unlocks when the user tracks at least target habits.
	RuleTotalHabitsAtLeast RuleKind = "TOTAL_HABITS_AT_LEAST"
	// RuleTotalCompletionsAtLeast unlocks after target completions in the recent window.
	RuleTotalCompletionsAtLeast RuleKind = "TOTAL_COMPLETIONS_AT_LEAST"
	// RuleCategoryDiversityAtLeast unlocks after completions in target distinct categories.
	RuleCategoryDiversityAtLeast RuleKind = "CATEGORY_DIVERSITY_AT_LEAST"
	// RuleLevelAtLeast unlocks when the player level reaches the target.
	RuleLevelAtLeast RuleKind = "LEVEL_AT_LEAST"
	// RulePerfectWeek unlocks when each of the last 7 calendar days has a completion.
	RulePerfectWeek RuleKind = "PERFECT_WEEK"
)

// EvalInput is the state snapshot an evaluation runs against. The caller
// guarantees the streak and XP steps have already committed, so rules see
// post-event state.
type EvalInput struct {
	Profile    *store.PlayerProfile
	Habits     []*store.Habit
	RecentLogs []*store.HabitLog
	// Today is the day stamp of the current calendar day.
	Today int64
}

// ProgressUpdate describes the new progress for one achievement after an
// evaluation pass, and whether this pass unlocked it.
type ProgressUpdate struct {
	Achievement   *store.Achievement
	NewProgress   int32
	NewlyUnlocked bool
}

// EvaluateAchievements recomputes progress for every locked achievement and
// returns the updates, newly unlocked ones flagged, in definition order.
// Already-unlocked achievements are skipped entirely so repeated evaluation
// over identical input can never re-announce an unlock. A malformed rule is
// logged and skipped without aborting the rest of the batch.
func EvaluateAchievements(achievements []*store.Achievement, in EvalInput, logger *slog.Logger) []ProgressUpdate {
	updates := make([]ProgressUpdate, 0, len(achievements))

	for _, achievement := range achievements {
		if achievement.IsUnlocked {
			continue
		}
		if achievement.TargetValue <= 0 {
			logger.Warn("skipping malformed achievement rule",
				slog.Int64("achievement_id", int64(achievement.ID)),
				slog.String("rule_kind", achievement.RuleKind),
				slog.Int64("target_value", int64(achievement.TargetValue)))
			continue
		}

		value, ok := ruleValue(RuleKind(achievement.RuleKind), in)
		if !ok {
			logger.Warn("skipping unknown achievement rule",
				slog.Int64("achievement_id", int64(achievement.ID)),
				slog.String("rule_kind", achievement.RuleKind))
			continue
		}

		progress := value
		if progress > achievement.TargetValue {
			progress = achievement.TargetValue
		}
		updates = append(updates, ProgressUpdate{
			Achievement:   achievement,
			NewProgress:   progress,
			NewlyUnlocked: value >= achievement.TargetValue,
		})
	}

	return updates
}

// ruleValue computes the metric a rule compares against its target.
func ruleValue(kind RuleKind, in EvalInput) (int32, bool) {
	switch kind {
	case RuleStreakAtLeast:
		var best int32
		for _, habit := range in.Habits {
			if habit.CurrentStreak > best {
				best = habit.CurrentStreak
			}
		}
		return best, true
	case RuleLongestStreakAtLeast:
		if in.Profile == nil {
			return 0, true
		}
		return in.Profile.LongestStreak, true
	case RuleTotalHabitsAtLeast:
		return int32(len(in.Habits)), true
	case RuleTotalCompletionsAtLeast:
		return int32(len(in.RecentLogs)), true
	case RuleCategoryDiversityAtLeast:
		categories := make(map[string]struct{})
		for _, log := range in.RecentLogs {
			if log.Category != "" {
				categories[log.Category] = struct{}{}
			}
		}
		return int32(len(categories)), true
	case RuleLevelAtLeast:
		if in.Profile == nil {
			return 0, true
		}
		return in.Profile.Level, true
	case RulePerfectWeek:
		windowStart := in.Today - 6*secondsPerDay
		days := make(map[int64]struct{})
		for _, log := range in.RecentLogs {
			if log.DayTs >= windowStart && log.DayTs <= in.Today {
				days[log.DayTs] = struct{}{}
			}
		}
		return int32(len(days)), true
	default:
		return 0, false
	}
}

// AchievementDef is a seedable achievement definition.
type AchievementDef struct {
	Name        string
	Description string
	RuleKind    RuleKind
	TargetValue int32
}

// DefaultAchievements is the rule set seeded for every new user. Order is
// definition order, which doubles as notification priority.
var DefaultAchievements = []AchievementDef{
	{Name: "First Step", Description: "Complete your first habit", RuleKind: RuleTotalCompletionsAtLeast, TargetValue: 1},
	{Name: "Habit Collector", Description: "Track 5 habits", RuleKind: RuleTotalHabitsAtLeast, TargetValue: 5},
	{Name: "Week Warrior", Description: "Reach a 7-day streak", RuleKind: RuleLongestStreakAtLeast, TargetValue: 7},
	{Name: "Perfect Week", Description: "Complete a habit every day for a week", RuleKind: RulePerfectWeek, TargetValue: 7},
	{Name: "Renaissance", Description: "Complete habits in 3 different categories", RuleKind: RuleCategoryDiversityAtLeast, TargetValue: 3},
	{Name: "Seasoned", Description: "Reach level 5", RuleKind: RuleLevelAtLeast, TargetValue: 5},
	{Name: "Monthly Master", Description: "Reach a 30-day streak", RuleKind: RuleLongestStreakAtLeast, TargetValue: 30},
	{Name: "Centurion", Description: "Log 100 completions in 90 days", RuleKind: RuleTotalCompletionsAtLeast, TargetValue: 100},
}
