// Package analytics computes cross-habit aggregate views over completion
// history. Every function is pure over its inputs; callers supply the
// current day stamp and the log window, so results are reproducible.
package analytics

import (
	"fmt"
	"sort"
	"time"

	"github.com/habitloop/habitloop/server/timezone"
	"github.com/habitloop/habitloop/store"
)

// Timeframe selects how far back the snapshot looks. Days == 0 means the
// whole history.
type Timeframe struct {
	Label string
	Days  int
}

var timeframes = map[string]Timeframe{
	"7d":  {Label: "7d", Days: 7},
	"30d": {Label: "30d", Days: 30},
	"90d": {Label: "90d", Days: 90},
	"all": {Label: "all", Days: 0},
}

// ParseTimeframe resolves a timeframe label. Empty defaults to 30d.
func ParseTimeframe(s string) (Timeframe, error) {
	if s == "" {
		return timeframes["30d"], nil
	}
	tf, ok := timeframes[s]
	if !ok {
		return Timeframe{}, fmt.Errorf("unknown timeframe %q, want one of 7d, 30d, 90d, all", s)
	}
	return tf, nil
}

// WindowStart returns the inclusive first day of the timeframe ending today,
// or 0 when the timeframe is unbounded.
func (tf Timeframe) WindowStart(today int64) int64 {
	if tf.Days == 0 {
		return 0
	}
	return timezone.AddDays(today, -(tf.Days - 1))
}

// StreakBucket is one bin of the streak distribution. Min is inclusive, Max
// exclusive; Max == 0 marks the open-ended top bucket.
type StreakBucket struct {
	Min   int32 `json:"min"`
	Max   int32 `json:"max"`
	Count int   `json:"count"`
}

// HabitRank is one entry of the top-performing list.
type HabitRank struct {
	UID           string  `json:"uid"`
	Name          string  `json:"name"`
	CurrentStreak int32   `json:"currentStreak"`
	Consistency   float64 `json:"consistency"`
}

// InsightKind tags a generated insight so clients can render it without
// parsing prose.
type InsightKind string

const (
	InsightMostConsistent  InsightKind = "MOST_CONSISTENT"
	InsightLeastConsistent InsightKind = "LEAST_CONSISTENT"
	InsightBestWeekday     InsightKind = "BEST_WEEKDAY"
	InsightStalledHabits   InsightKind = "STALLED_HABITS"
)

// Insight is one typed observation about the user's history. Title and
// Description are display-ready; the structured fields let clients build
// their own copy instead.
type Insight struct {
	Kind        InsightKind `json:"kind"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
	HabitUID    string      `json:"habitUid,omitempty"`
	HabitName   string      `json:"habitName,omitempty"`
	Weekday     int         `json:"weekday,omitempty"`
	Value       float64     `json:"value"`
}

// Snapshot is the full analytics view for one user and timeframe.
type Snapshot struct {
	Timeframe          string         `json:"timeframe"`
	TotalHabits        int            `json:"totalHabits"`
	TotalCompletions   int            `json:"totalCompletions"`
	TotalActiveStreaks int            `json:"totalActiveStreaks"`
	StreakDistribution []StreakBucket `json:"streakDistribution"`
	TopHabits          []HabitRank    `json:"topHabits"`
	WeeklyPattern      [7]float64     `json:"weeklyPattern"`
	Insights           []Insight      `json:"insights"`
}

const topHabitLimit = 5

// Compute builds the snapshot. Logs must already be filtered to the
// timeframe window (inclusive) and habits to the user. bucketEdges are
// ascending streak-distribution boundaries, e.g. {0, 1, 7, 30, 90}.
func Compute(habits []*store.Habit, logs []*store.HabitLog, tf Timeframe, today int64, bucketEdges []int) *Snapshot {
	snapshot := &Snapshot{
		Timeframe:        tf.Label,
		TotalHabits:      len(habits),
		TotalCompletions: len(logs),
	}

	for _, habit := range habits {
		if habit.CurrentStreak > 0 {
			snapshot.TotalActiveStreaks++
		}
	}

	snapshot.StreakDistribution = streakDistribution(habits, bucketEdges)
	snapshot.WeeklyPattern = weeklyPattern(logs)

	consistency := consistencyByHabit(habits, logs, tf, today)
	snapshot.TopHabits = rankHabits(habits, consistency)
	snapshot.Insights = buildInsights(habits, consistency, snapshot.WeeklyPattern)

	return snapshot
}

func streakDistribution(habits []*store.Habit, edges []int) []StreakBucket {
	if len(edges) == 0 {
		edges = []int{0, 1, 7, 30, 90}
	}
	buckets := make([]StreakBucket, len(edges))
	for i, edge := range edges {
		buckets[i].Min = int32(edge)
		if i+1 < len(edges) {
			buckets[i].Max = int32(edges[i+1])
		}
	}
	for _, habit := range habits {
		for i := len(buckets) - 1; i >= 0; i-- {
			if habit.CurrentStreak >= buckets[i].Min {
				buckets[i].Count++
				break
			}
		}
	}
	return buckets
}

// weeklyPattern returns the share of completions per weekday, Sunday first.
// The shares sum to 1.0; with no completions every share is 0.
func weeklyPattern(logs []*store.HabitLog) [7]float64 {
	var pattern [7]float64
	if len(logs) == 0 {
		return pattern
	}
	var counts [7]int
	for _, log := range logs {
		counts[int(timezone.Weekday(log.DayTs))]++
	}
	total := float64(len(logs))
	for i, c := range counts {
		pattern[i] = float64(c) / total
	}
	return pattern
}

// consistencyByHabit computes completions per window day for each habit,
// keyed by habit ID. For the unbounded timeframe the window spans from the
// habit's earliest completion to today.
func consistencyByHabit(habits []*store.Habit, logs []*store.HabitLog, tf Timeframe, today int64) map[int32]float64 {
	counts := make(map[int32]int, len(habits))
	earliest := make(map[int32]int64, len(habits))
	for _, log := range logs {
		counts[log.HabitID]++
		if first, ok := earliest[log.HabitID]; !ok || log.DayTs < first {
			earliest[log.HabitID] = log.DayTs
		}
	}

	result := make(map[int32]float64, len(habits))
	for _, habit := range habits {
		windowDays := tf.Days
		if windowDays == 0 {
			first, ok := earliest[habit.ID]
			if !ok {
				result[habit.ID] = 0
				continue
			}
			windowDays = timezone.DayDiff(today, first) + 1
		}
		if windowDays < 1 {
			windowDays = 1
		}
		ratio := float64(counts[habit.ID]) / float64(windowDays)
		if ratio > 1 {
			ratio = 1
		}
		result[habit.ID] = ratio
	}
	return result
}

// rankHabits orders by current streak, then consistency, then name. The
// name tie-break keeps output stable across runs.
func rankHabits(habits []*store.Habit, consistency map[int32]float64) []HabitRank {
	ranks := make([]HabitRank, 0, len(habits))
	for _, habit := range habits {
		ranks = append(ranks, HabitRank{
			UID:           habit.UID,
			Name:          habit.Name,
			CurrentStreak: habit.CurrentStreak,
			Consistency:   consistency[habit.ID],
		})
	}
	sort.Slice(ranks, func(i, j int) bool {
		if ranks[i].CurrentStreak != ranks[j].CurrentStreak {
			return ranks[i].CurrentStreak > ranks[j].CurrentStreak
		}
		if ranks[i].Consistency != ranks[j].Consistency {
			return ranks[i].Consistency > ranks[j].Consistency
		}
		return ranks[i].Name < ranks[j].Name
	})
	if len(ranks) > topHabitLimit {
		ranks = ranks[:topHabitLimit]
	}
	return ranks
}

func buildInsights(habits []*store.Habit, consistency map[int32]float64, pattern [7]float64) []Insight {
	insights := make([]Insight, 0, 4)
	if len(habits) == 0 {
		return insights
	}

	// Ties resolve to the lexicographically smallest habit name.
	sorted := make([]*store.Habit, len(habits))
	copy(sorted, habits)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Name < sorted[j].Name })

	var best, worst *store.Habit
	for _, habit := range sorted {
		if best == nil || consistency[habit.ID] > consistency[best.ID] {
			best = habit
		}
		if worst == nil || consistency[habit.ID] < consistency[worst.ID] {
			worst = habit
		}
	}
	if best != nil && consistency[best.ID] > 0 {
		insights = append(insights, Insight{
			Kind:        InsightMostConsistent,
			Title:       "Most consistent habit",
			Description: fmt.Sprintf("%s has a %.0f%% completion rate", best.Name, consistency[best.ID]*100),
			HabitUID:    best.UID,
			HabitName:   best.Name,
			Value:       consistency[best.ID],
		})
	}
	if worst != nil && len(habits) > 1 && worst != best {
		insights = append(insights, Insight{
			Kind:        InsightLeastConsistent,
			Title:       "Habit needing attention",
			Description: fmt.Sprintf("%s has a %.0f%% completion rate", worst.Name, consistency[worst.ID]*100),
			HabitUID:    worst.UID,
			HabitName:   worst.Name,
			Value:       consistency[worst.ID],
		})
	}

	bestDay, bestShare := 0, 0.0
	for i, share := range pattern {
		if share > bestShare {
			bestDay, bestShare = i, share
		}
	}
	if bestShare > 0 {
		insights = append(insights, Insight{
			Kind:        InsightBestWeekday,
			Title:       "Best day of the week",
			Description: fmt.Sprintf("%.0f%% of completions happen on %s", bestShare*100, time.Weekday(bestDay)),
			Weekday:     bestDay,
			Value:       bestShare,
		})
	}

	stalled := 0
	for _, habit := range habits {
		if habit.CurrentStreak == 0 && habit.LongestStreak > 0 {
			stalled++
		}
	}
	if stalled > 0 {
		insights = append(insights, Insight{
			Kind:        InsightStalledHabits,
			Title:       "Stalled streaks",
			Description: fmt.Sprintf("%d habit(s) with a past streak are at zero", stalled),
			Value:       float64(stalled),
		})
	}

	return insights
}
