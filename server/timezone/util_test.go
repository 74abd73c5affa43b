package timezone

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTimezone(t *testing.T) {
	loc, err := ParseTimezone("Asia/Shanghai")
	require.NoError(t, err)
	assert.Equal(t, "Asia/Shanghai", loc.String())

	loc, err = ParseTimezone("")
	require.NoError(t, err)
	assert.Equal(t, UTC, loc)

	loc, err = ParseTimezone("Not/AZone")
	require.Error(t, err)
	assert.Equal(t, UTC, loc)
}

func TestIsValidTimezone(t *testing.T) {
	assert.True(t, IsValidTimezone("UTC"))
	assert.True(t, IsValidTimezone(""))
	assert.True(t, IsValidTimezone("America/New_York"))
	assert.False(t, IsValidTimezone("Mars/Olympus"))
}

func TestDayStamp(t *testing.T) {
	// 2026-08-26 23:30 in Shanghai is still 2026-08-26 there, but already
	// 2026-08-26 15:30 UTC; the stamp follows the local calendar date.
	shanghai := MustParseTimezone("Asia/Shanghai")
	moment := time.Date(2026, 8, 26, 23, 30, 0, 0, shanghai)
	want := time.Date(2026, 8, 26, 0, 0, 0, 0, time.UTC).Unix()
	assert.Equal(t, want, DayStamp(moment, shanghai))

	// The same instant in UTC falls on the same date here, different hour.
	assert.Equal(t, want, DayStamp(moment, UTC))

	// But 01:30 Shanghai is still the previous day in UTC.
	early := time.Date(2026, 8, 26, 1, 30, 0, 0, shanghai)
	assert.Equal(t, want, DayStamp(early, shanghai))
	prev := time.Date(2026, 8, 25, 0, 0, 0, 0, time.UTC).Unix()
	assert.Equal(t, prev, DayStamp(early, UTC))
}

func TestDayStampAcrossDSTTransition(t *testing.T) {
	// US spring-forward on 2026-03-08: the local day is 23 hours long, yet
	// consecutive local days still produce stamps exactly one day apart.
	newYork := MustParseTimezone("America/New_York")
	before := DayStamp(time.Date(2026, 3, 7, 12, 0, 0, 0, newYork), newYork)
	during := DayStamp(time.Date(2026, 3, 8, 12, 0, 0, 0, newYork), newYork)
	after := DayStamp(time.Date(2026, 3, 9, 12, 0, 0, 0, newYork), newYork)

	assert.Equal(t, 1, DayDiff(during, before))
	assert.Equal(t, 1, DayDiff(after, during))
	assert.Equal(t, 2, DayDiff(after, before))
}

func TestDayDiffAndAddDays(t *testing.T) {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC).Unix()
	later := AddDays(base, 45)
	assert.Equal(t, 45, DayDiff(later, base))
	assert.Equal(t, -45, DayDiff(base, later))
	assert.Equal(t, base, AddDays(later, -45))
}

func TestWeekday(t *testing.T) {
	// 2026-08-23 is a Sunday.
	sunday := time.Date(2026, 8, 23, 0, 0, 0, 0, time.UTC).Unix()
	assert.Equal(t, time.Sunday, Weekday(sunday))
	assert.Equal(t, time.Monday, Weekday(AddDays(sunday, 1)))
	assert.Equal(t, time.Saturday, Weekday(AddDays(sunday, 6)))
}

func TestFormatDay(t *testing.T) {
	day := time.Date(2026, 8, 26, 0, 0, 0, 0, time.UTC).Unix()
	assert.Equal(t, "2026-08-26", FormatDay(day))
}

func TestStartOfDay(t *testing.T) {
	shanghai := MustParseTimezone("Asia/Shanghai")
	moment := time.Date(2026, 8, 26, 23, 30, 0, 0, shanghai)
	start := StartOfDay(moment, shanghai)
	assert.Equal(t, 0, start.Hour())
	assert.Equal(t, 26, start.Day())
	assert.Equal(t, shanghai, start.Location())
}
