package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/habitloop/habitloop/server/timezone"
	"github.com/habitloop/habitloop/store"
)

const secondsPerDay = 24 * 60 * 60

func day(n int) int64 {
	return int64(n) * secondsPerDay
}

func TestParseTimeframe(t *testing.T) {
	tf, err := ParseTimeframe("7d")
	require.NoError(t, err)
	assert.Equal(t, 7, tf.Days)

	tf, err = ParseTimeframe("")
	require.NoError(t, err)
	assert.Equal(t, "30d", tf.Label)

	tf, err = ParseTimeframe("all")
	require.NoError(t, err)
	assert.Equal(t, 0, tf.Days)

	_, err = ParseTimeframe("14d")
	require.Error(t, err)
}

func TestTimeframeWindowStart(t *testing.T) {
	tf, _ := ParseTimeframe("7d")
	// A 7-day window ending today starts 6 days back, inclusive.
	assert.Equal(t, day(94), tf.WindowStart(day(100)))

	all, _ := ParseTimeframe("all")
	assert.Equal(t, int64(0), all.WindowStart(day(100)))
}

func TestWeeklyPatternSumsToOne(t *testing.T) {
	logs := []*store.HabitLog{
		{DayTs: day(100)}, {DayTs: day(101)}, {DayTs: day(102)},
		{DayTs: day(103)}, {DayTs: day(107)}, {DayTs: day(108)},
		{DayTs: day(109)},
	}
	pattern := weeklyPattern(logs)
	sum := 0.0
	for _, share := range pattern {
		sum += share
	}
	assert.InDelta(t, 1.0, sum, 1e-9)
}

func TestWeeklyPatternEmpty(t *testing.T) {
	pattern := weeklyPattern(nil)
	for i, share := range pattern {
		assert.Zero(t, share, "weekday %d", i)
	}
}

func TestWeeklyPatternBucketsByWeekday(t *testing.T) {
	// Three completions on the same calendar day land in one weekday bin.
	logs := []*store.HabitLog{
		{DayTs: day(100)}, {DayTs: day(100)}, {DayTs: day(100)},
		{DayTs: day(101)},
	}
	pattern := weeklyPattern(logs)
	sameDay := int(timezone.Weekday(day(100)))
	nextDay := int(timezone.Weekday(day(101)))
	assert.InDelta(t, 0.75, pattern[sameDay], 1e-9)
	assert.InDelta(t, 0.25, pattern[nextDay], 1e-9)
}

func TestStreakDistributionCoversEveryHabit(t *testing.T) {
	habits := []*store.Habit{
		{ID: 1, CurrentStreak: 0},
		{ID: 2, CurrentStreak: 1},
		{ID: 3, CurrentStreak: 6},
		{ID: 4, CurrentStreak: 7},
		{ID: 5, CurrentStreak: 45},
		{ID: 6, CurrentStreak: 200},
	}
	buckets := streakDistribution(habits, []int{0, 1, 7, 30, 90})
	require.Len(t, buckets, 5)

	total := 0
	for _, bucket := range buckets {
		total += bucket.Count
	}
	assert.Equal(t, len(habits), total)

	assert.Equal(t, 1, buckets[0].Count) // streak 0
	assert.Equal(t, 2, buckets[1].Count) // streaks 1, 6
	assert.Equal(t, 1, buckets[2].Count) // streak 7
	assert.Equal(t, 1, buckets[3].Count) // streak 45
	assert.Equal(t, 1, buckets[4].Count) // streak 200
}

func TestRankHabitsTieBreakDeterministic(t *testing.T) {
	habits := []*store.Habit{
		{ID: 1, UID: "b", Name: "Beta", CurrentStreak: 5},
		{ID: 2, UID: "a", Name: "Alpha", CurrentStreak: 5},
		{ID: 3, UID: "c", Name: "Gamma", CurrentStreak: 9},
	}
	consistency := map[int32]float64{1: 0.5, 2: 0.5, 3: 0.2}

	ranks := rankHabits(habits, consistency)
	require.Len(t, ranks, 3)
	assert.Equal(t, "Gamma", ranks[0].Name)
	// Equal streak and consistency: names break the tie alphabetically.
	assert.Equal(t, "Alpha", ranks[1].Name)
	assert.Equal(t, "Beta", ranks[2].Name)
}

func TestRankHabitsLimit(t *testing.T) {
	habits := make([]*store.Habit, 0, 8)
	for i := int32(1); i <= 8; i++ {
		habits = append(habits, &store.Habit{ID: i, Name: string(rune('a' + i)), CurrentStreak: i})
	}
	ranks := rankHabits(habits, map[int32]float64{})
	assert.Len(t, ranks, topHabitLimit)
	assert.Equal(t, int32(8), ranks[0].CurrentStreak)
}

func TestConsistencyByHabit(t *testing.T) {
	habits := []*store.Habit{{ID: 1}, {ID: 2}}
	logs := []*store.HabitLog{
		{HabitID: 1, DayTs: day(95)},
		{HabitID: 1, DayTs: day(96)},
		{HabitID: 1, DayTs: day(100)},
	}

	tf, _ := ParseTimeframe("30d")
	consistency := consistencyByHabit(habits, logs, tf, day(100))
	assert.InDelta(t, 3.0/30.0, consistency[1], 1e-9)
	assert.Zero(t, consistency[2])

	// Unbounded window spans from the first completion.
	all, _ := ParseTimeframe("all")
	consistency = consistencyByHabit(habits, logs, all, day(100))
	assert.InDelta(t, 3.0/6.0, consistency[1], 1e-9)
	assert.Zero(t, consistency[2])
}

func TestComputeSnapshot(t *testing.T) {
	habits := []*store.Habit{
		{ID: 1, UID: "a", Name: "Run", CurrentStreak: 3, LongestStreak: 5},
		{ID: 2, UID: "b", Name: "Read", CurrentStreak: 0, LongestStreak: 2},
	}
	logs := []*store.HabitLog{
		{HabitID: 1, DayTs: day(98)},
		{HabitID: 1, DayTs: day(99)},
		{HabitID: 1, DayTs: day(100)},
	}
	tf, _ := ParseTimeframe("7d")

	snapshot := Compute(habits, logs, tf, day(100), nil)
	assert.Equal(t, "7d", snapshot.Timeframe)
	assert.Equal(t, 2, snapshot.TotalHabits)
	assert.Equal(t, 3, snapshot.TotalCompletions)
	assert.Equal(t, 1, snapshot.TotalActiveStreaks)
	require.NotEmpty(t, snapshot.TopHabits)
	assert.Equal(t, "Run", snapshot.TopHabits[0].Name)

	// Insights include the most consistent habit and the stalled count.
	kinds := make(map[InsightKind]Insight)
	for _, insight := range snapshot.Insights {
		assert.NotEmpty(t, insight.Title)
		assert.NotEmpty(t, insight.Description)
		kinds[insight.Kind] = insight
	}
	require.Contains(t, kinds, InsightMostConsistent)
	assert.Equal(t, "Run", kinds[InsightMostConsistent].HabitName)
	require.Contains(t, kinds, InsightStalledHabits)
	assert.Equal(t, 1.0, kinds[InsightStalledHabits].Value)
	require.Contains(t, kinds, InsightLeastConsistent)
	assert.Equal(t, "Read", kinds[InsightLeastConsistent].HabitName)
}

func TestComputeSnapshotEmpty(t *testing.T) {
	tf, _ := ParseTimeframe("30d")
	snapshot := Compute(nil, nil, tf, day(100), nil)
	assert.Zero(t, snapshot.TotalHabits)
	assert.Zero(t, snapshot.TotalCompletions)
	assert.Empty(t, snapshot.TopHabits)
	assert.Empty(t, snapshot.Insights)
	for _, share := range snapshot.WeeklyPattern {
		assert.Zero(t, share)
	}
}

func TestComputeDeterministic(t *testing.T) {
	habits := []*store.Habit{
		{ID: 1, UID: "a", Name: "A", CurrentStreak: 2},
		{ID: 2, UID: "b", Name: "B", CurrentStreak: 2},
	}
	logs := []*store.HabitLog{{HabitID: 1, DayTs: day(100)}, {HabitID: 2, DayTs: day(100)}}
	tf, _ := ParseTimeframe("7d")

	first := Compute(habits, logs, tf, day(100), nil)
	second := Compute(habits, logs, tf, day(100), nil)
	assert.Equal(t, first, second)
}
