package progression

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestXPForLevel(t *testing.T) {
	assert.Equal(t, int64(0), XPForLevel(0))
	assert.Equal(t, int64(0), XPForLevel(-3))
	assert.Equal(t, int64(100), XPForLevel(1))
	assert.Equal(t, int64(150), XPForLevel(2))
	assert.Equal(t, int64(225), XPForLevel(3))
	assert.Equal(t, int64(337), XPForLevel(4))
	assert.Equal(t, int64(506), XPForLevel(5))
}

func TestXPForLevelStrictlyIncreasing(t *testing.T) {
	prev := XPForLevel(1)
	for level := int32(2); level <= 40; level++ {
		cur := XPForLevel(level)
		assert.Greater(t, cur, prev, "level %d", level)
		prev = cur
	}
}

func TestApplyCompletion(t *testing.T) {
	t.Run("no level up below threshold", func(t *testing.T) {
		got := ApplyCompletion(1, 0, 25)
		assert.Equal(t, int64(25), got.NewXP)
		assert.Equal(t, int32(1), got.NewLevel)
		assert.False(t, got.LeveledUp)
	})

	t.Run("crossing the threshold levels up", func(t *testing.T) {
		got := ApplyCompletion(1, 140, 25)
		assert.Equal(t, int64(165), got.NewXP)
		assert.Equal(t, int32(2), got.NewLevel)
		assert.True(t, got.LeveledUp)
	})

	t.Run("landing exactly on the threshold levels up", func(t *testing.T) {
		award := XPForLevel(2) - 100
		got := ApplyCompletion(1, 100, award)
		assert.Equal(t, XPForLevel(2), got.NewXP)
		assert.Equal(t, int32(2), got.NewLevel)
		assert.True(t, got.LeveledUp)
	})

	t.Run("large award crosses several levels at once", func(t *testing.T) {
		got := ApplyCompletion(1, 0, 600)
		assert.Equal(t, int64(600), got.NewXP)
		assert.Equal(t, int32(5), got.NewLevel)
		assert.True(t, got.LeveledUp)
	})

	t.Run("negative award is clamped", func(t *testing.T) {
		got := ApplyCompletion(2, 200, -50)
		assert.Equal(t, int64(200), got.NewXP)
		assert.Equal(t, int32(2), got.NewLevel)
		assert.False(t, got.LeveledUp)
	})

	t.Run("level below one is normalized", func(t *testing.T) {
		got := ApplyCompletion(0, 0, 10)
		assert.Equal(t, int32(1), got.NewLevel)
	})
}

func TestApplyCompletionAccrual(t *testing.T) {
	// 18 medium completions at 15 XP: 270 total, enough for level 3 (225)
	// but not level 4 (337). Exactly one level-up fires per threshold cross.
	level, xp := int32(1), int64(0)
	levelUps := 0
	for i := 0; i < 18; i++ {
		got := ApplyCompletion(level, xp, 15)
		if got.LeveledUp {
			levelUps += int(got.NewLevel - level)
		}
		level, xp = got.NewLevel, got.NewXP
	}
	assert.Equal(t, int64(270), xp)
	assert.Equal(t, int32(3), level)
	assert.Equal(t, 2, levelUps)
}

func TestApplyCompletionRepeatedAward(t *testing.T) {
	// Three 60 XP completions from scratch. The third one crosses the
	// level 2 threshold at 150 (120 < 150 after two), and that is the
	// only level-up of the run.
	level, xp := int32(1), int64(0)
	levelsAfter := make([]int32, 0, 3)
	levelUps := 0
	for i := 0; i < 3; i++ {
		got := ApplyCompletion(level, xp, 60)
		if got.LeveledUp {
			levelUps++
		}
		level, xp = got.NewLevel, got.NewXP
		levelsAfter = append(levelsAfter, level)
	}
	assert.Equal(t, []int32{1, 1, 2}, levelsAfter)
	assert.Equal(t, int64(180), xp)
	assert.Equal(t, 1, levelUps)
}
