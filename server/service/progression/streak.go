// Package progression implements the habit progression engine: streak
// continuity, XP/level accrual, and achievement evaluation. The three steps
// run in that fixed order for every completion-toggle event so downstream
// rules observe upstream state.
//
// All calendar arithmetic works on day stamps (see server/timezone); the
// package never reads the wall clock itself.
package progression

// StreakResult is the streak transition produced by a toggle.
type StreakResult struct {
	CurrentStreak int32
	LongestStreak int32
	// WasIncrement reports whether a completion was counted (a log appended).
	// Idempotent repeats and retractions leave it false.
	WasIncrement bool
}

const secondsPerDay = 24 * 60 * 60

// CompleteDay computes the streak transition for completing the habit on
// `day`, given the habit's logged day stamps in ascending order and its
// current counters.
//
// Completing an already-logged day is a no-op. A day exactly one calendar
// day after the most recent log extends the streak; any gap (or an empty
// log) restarts it at 1. Days before the most recent log cannot be
// backfilled and are ignored. LongestStreak never decreases.
func CompleteDay(days []int64, currentStreak, longestStreak int32, day int64) StreakResult {
	unchanged := StreakResult{CurrentStreak: currentStreak, LongestStreak: longestStreak}

	if len(days) > 0 {
		last := days[len(days)-1]
		if day == last {
			return unchanged
		}
		if day < last {
			// Backfilling the past would corrupt continuity; treat as no-op.
			return unchanged
		}
		if day == last+secondsPerDay {
			current := currentStreak + 1
			return StreakResult{
				CurrentStreak: current,
				LongestStreak: maxInt32(longestStreak, current),
				WasIncrement:  true,
			}
		}
	}

	// No prior log, or a gap: the streak restarts.
	return StreakResult{
		CurrentStreak: 1,
		LongestStreak: maxInt32(longestStreak, 1),
		WasIncrement:  true,
	}
}

// RetractDay computes the streak transition for un-completing `day`. Only
// the most recently logged day can be retracted; anything else is a no-op.
// The current streak is decremented with a floor of zero and the longest
// streak is retained.
func RetractDay(days []int64, currentStreak, longestStreak int32, day int64) (StreakResult, bool) {
	unchanged := StreakResult{CurrentStreak: currentStreak, LongestStreak: longestStreak}

	if len(days) == 0 || days[len(days)-1] != day {
		return unchanged, false
	}

	current := currentStreak - 1
	if current < 0 {
		current = 0
	}
	return StreakResult{CurrentStreak: current, LongestStreak: longestStreak}, true
}

// ContainsDay reports whether day is present in the ascending day list.
func ContainsDay(days []int64, day int64) bool {
	lo, hi := 0, len(days)
	for lo < hi {
		mid := (lo + hi) / 2
		if days[mid] < day {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	return lo < len(days) && days[lo] == day
}

func maxInt32(a, b int32) int32 {
	if a > b {
		return a
	}
	return b
}
