// Package timezone provides timezone utilities for habitloop.
//
// Streak and analytics logic never compares raw timestamps: a completion
// belongs to a calendar day in the user's configured timezone, and day
// identity is encoded as a "day stamp" (Unix seconds of UTC midnight for
// that year/month/day). Day arithmetic on stamps is then plain division,
// immune to daylight-saving drift.
package timezone

import (
	"fmt"
	"time"
)

// UTC is the coordinated universal time timezone.
var UTC = time.UTC

const secondsPerDay = 24 * 60 * 60

// ParseTimezone parses an IANA timezone identifier (e.g., "Asia/Shanghai").
// If the timezone is invalid, returns UTC and an error.
func ParseTimezone(tz string) (*time.Location, error) {
	if tz == "" || tz == "UTC" {
		return UTC, nil
	}

	loc, err := time.LoadLocation(tz)
	if err != nil {
		return UTC, fmt.Errorf("invalid timezone %q: %w", tz, err)
	}

	return loc, nil
}

// MustParseTimezone parses a timezone or panics if invalid.
// Use this for constants that are known to be valid at compile time.
func MustParseTimezone(tz string) *time.Location {
	loc, err := ParseTimezone(tz)
	if err != nil {
		panic(err)
	}
	return loc
}

// IsValidTimezone checks if a timezone identifier is valid.
func IsValidTimezone(tz string) bool {
	if tz == "" || tz == "UTC" {
		return true
	}

	_, err := time.LoadLocation(tz)
	return err == nil
}

// DayStamp returns the day identity of t in the given timezone: the Unix
// timestamp of UTC midnight for t's calendar date.
func DayStamp(t time.Time, tz *time.Location) int64 {
	if tz == nil {
		tz = UTC
	}
	year, month, day := t.In(tz).Date()
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC).Unix()
}

// DayDiff returns the number of calendar days from day stamp b to day stamp a.
func DayDiff(a, b int64) int {
	return int((a - b) / secondsPerDay)
}

// AddDays shifts a day stamp by n calendar days.
func AddDays(day int64, n int) int64 {
	return day + int64(n)*secondsPerDay
}

// Weekday returns the day of week of a day stamp (Sunday = 0).
func Weekday(day int64) time.Weekday {
	return time.Unix(day, 0).UTC().Weekday()
}

// FormatDay renders a day stamp as YYYY-MM-DD.
func FormatDay(day int64) string {
	return time.Unix(day, 0).UTC().Format("2006-01-02")
}

// StartOfDay returns the start of the day (00:00:00) in the given timezone.
func StartOfDay(t time.Time, tz *time.Location) time.Time {
	if tz == nil {
		tz = UTC
	}
	year, month, day := t.In(tz).Date()
	return time.Date(year, month, day, 0, 0, 0, 0, tz)
}
