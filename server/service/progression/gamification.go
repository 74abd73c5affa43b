package progression

import (
	"math"
)

// Leveling uses an exponential curve: each level costs 50% more XP than the
// previous one. Only the curve itself is fixed; per-completion awards are
// configuration (see Config.XPAwards).

// XPForLevel returns the total XP threshold required to reach level n.
// Level 0 (and below) costs nothing; level 1 costs 100.
func XPForLevel(level int32) int64 {
	if level <= 0 {
		return 0
	}
	return int64(math.Floor(100 * math.Pow(1.5, float64(level-1))))
}

// CompletionXP is the XP/level transition produced by one completion.
type CompletionXP struct {
	NewXP     int64
	NewLevel  int32
	LeveledUp bool
}

// ApplyCompletion awards XP and advances the level. The loop matters:
// a single large award may cross several thresholds at once. Negative
// awards are clamped to zero.
func ApplyCompletion(level int32, currentXP int64, award int64) CompletionXP {
	if award < 0 {
		award = 0
	}
	if level < 1 {
		level = 1
	}

	newXP := currentXP + award
	newLevel := level
	for newXP >= XPForLevel(newLevel+1) {
		newLevel++
	}

	return CompletionXP{
		NewXP:     newXP,
		NewLevel:  newLevel,
		LeveledUp: newLevel > level,
	}
}
