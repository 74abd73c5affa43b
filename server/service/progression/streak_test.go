package progression

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(n int) int64 {
	return int64(n) * secondsPerDay
}

func days(ns ...int) []int64 {
	out := make([]int64, 0, len(ns))
	for _, n := range ns {
		out = append(out, day(n))
	}
	return out
}

func TestCompleteDay(t *testing.T) {
	tests := []struct {
		name          string
		days          []int64
		current       int32
		longest       int32
		day           int64
		wantCurrent   int32
		wantLongest   int32
		wantIncrement bool
	}{
		{
			name:          "first completion ever",
			days:          nil,
			day:           day(10),
			wantCurrent:   1,
			wantLongest:   1,
			wantIncrement: true,
		},
		{
			name:          "consecutive day extends streak",
			days:          days(8, 9, 10),
			current:       3,
			longest:       3,
			day:           day(11),
			wantCurrent:   4,
			wantLongest:   4,
			wantIncrement: true,
		},
		{
			name:          "gap restarts streak at one",
			days:          days(8, 9, 10),
			current:       3,
			longest:       3,
			day:           day(13),
			wantCurrent:   1,
			wantLongest:   3,
			wantIncrement: true,
		},
		{
			name:        "same day is idempotent",
			days:        days(8, 9, 10),
			current:     3,
			longest:     5,
			day:         day(10),
			wantCurrent: 3,
			wantLongest: 5,
		},
		{
			name:        "past day cannot be backfilled",
			days:        days(8, 9, 10),
			current:     3,
			longest:     3,
			day:         day(9),
			wantCurrent: 3,
			wantLongest: 3,
		},
		{
			name:          "longest streak never decreases on restart",
			days:          days(1),
			current:       1,
			longest:       30,
			day:           day(20),
			wantCurrent:   1,
			wantLongest:   30,
			wantIncrement: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CompleteDay(tt.days, tt.current, tt.longest, tt.day)
			assert.Equal(t, tt.wantCurrent, got.CurrentStreak)
			assert.Equal(t, tt.wantLongest, got.LongestStreak)
			assert.Equal(t, tt.wantIncrement, got.WasIncrement)
		})
	}
}

func TestCompleteDayMonotonicLongest(t *testing.T) {
	// Completing 10 consecutive days yields streak 10 and longest 10.
	var logged []int64
	var current, longest int32
	for n := 1; n <= 10; n++ {
		got := CompleteDay(logged, current, longest, day(n))
		require.True(t, got.WasIncrement)
		logged = append(logged, day(n))
		current, longest = got.CurrentStreak, got.LongestStreak
	}
	assert.Equal(t, int32(10), current)
	assert.Equal(t, int32(10), longest)

	// A break and restart keeps the longest at 10.
	got := CompleteDay(logged, current, longest, day(15))
	assert.Equal(t, int32(1), got.CurrentStreak)
	assert.Equal(t, int32(10), got.LongestStreak)
}

func TestRetractDay(t *testing.T) {
	t.Run("only the last day can be retracted", func(t *testing.T) {
		result, removed := RetractDay(days(8, 9, 10), 3, 5, day(9))
		assert.False(t, removed)
		assert.Equal(t, int32(3), result.CurrentStreak)
		assert.Equal(t, int32(5), result.LongestStreak)
	})

	t.Run("retracting last day decrements streak", func(t *testing.T) {
		result, removed := RetractDay(days(8, 9, 10), 3, 5, day(10))
		assert.True(t, removed)
		assert.Equal(t, int32(2), result.CurrentStreak)
		assert.Equal(t, int32(5), result.LongestStreak)
	})

	t.Run("streak floors at zero", func(t *testing.T) {
		result, removed := RetractDay(days(10), 0, 4, day(10))
		assert.True(t, removed)
		assert.Equal(t, int32(0), result.CurrentStreak)
	})

	t.Run("empty history is a no-op", func(t *testing.T) {
		_, removed := RetractDay(nil, 0, 0, day(10))
		assert.False(t, removed)
	})
}

func TestContainsDay(t *testing.T) {
	logged := days(1, 3, 5, 9)
	assert.True(t, ContainsDay(logged, day(1)))
	assert.True(t, ContainsDay(logged, day(5)))
	assert.True(t, ContainsDay(logged, day(9)))
	assert.False(t, ContainsDay(logged, day(2)))
	assert.False(t, ContainsDay(logged, day(10)))
	assert.False(t, ContainsDay(nil, day(1)))
}
