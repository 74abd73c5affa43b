package profile

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateDefaults(t *testing.T) {
	p := &Profile{
		Mode:   "dev",
		Data:   t.TempDir(),
		Driver: "sqlite",
	}
	require.NoError(t, p.Validate())

	assert.Equal(t, "UTC", p.Timezone)
	assert.Equal(t, 10, p.XPAwardEasy)
	assert.Equal(t, 15, p.XPAwardMedium)
	assert.Equal(t, 25, p.XPAwardHard)
	assert.Equal(t, []int{0, 1, 7, 30, 90}, p.StreakBuckets)
	assert.Equal(t, filepath.Join(p.Data, "habitloop_dev.db"), p.DSN)
}

func TestValidateUnknownModeFallsBackToDemo(t *testing.T) {
	p := &Profile{
		Mode:   "staging",
		Data:   t.TempDir(),
		Driver: "sqlite",
	}
	require.NoError(t, p.Validate())
	assert.Equal(t, "demo", p.Mode)
}

func TestValidateKeepsExplicitValues(t *testing.T) {
	p := &Profile{
		Mode:          "dev",
		Data:          t.TempDir(),
		Driver:        "postgres",
		DSN:           "postgresql://db/habitloop",
		Timezone:      "Asia/Shanghai",
		XPAwardEasy:   5,
		XPAwardMedium: 8,
		XPAwardHard:   13,
		StreakBuckets: []int{0, 3, 14},
	}
	require.NoError(t, p.Validate())

	assert.Equal(t, "postgresql://db/habitloop", p.DSN)
	assert.Equal(t, "Asia/Shanghai", p.Timezone)
	assert.Equal(t, 5, p.XPAwardEasy)
	assert.Equal(t, 8, p.XPAwardMedium)
	assert.Equal(t, 13, p.XPAwardHard)
	assert.Equal(t, []int{0, 3, 14}, p.StreakBuckets)
}

func TestValidateMissingDataDir(t *testing.T) {
	p := &Profile{
		Mode:   "dev",
		Data:   "/no/such/dir/anywhere",
		Driver: "sqlite",
	}
	assert.Error(t, p.Validate())
}

func TestIsDev(t *testing.T) {
	assert.True(t, (&Profile{Mode: "dev"}).IsDev())
	assert.True(t, (&Profile{Mode: "demo"}).IsDev())
	assert.False(t, (&Profile{Mode: "prod"}).IsDev())
}
