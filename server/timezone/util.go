// Package timezone provides the date arithmetic used by the schedule service.
//
// The employer API reports wall-clock times without an offset and organizes
// schedules in Sunday-to-Saturday weeks, so most helpers here operate on
// calendar dates in a single configured location.
package timezone

import (
	"fmt"
	"time"
)

// DateLayout is the ISO date format used by the employer API and cache keys.
const DateLayout = "2006-01-02"

// WallClockLayout is the segment timestamp format reported by the employer API.
const WallClockLayout = "2006-01-02 15:04:05"

// Default location constants
var (
	// UTC is the coordinated universal time timezone
	UTC = time.UTC

	// Local is the local timezone
	Local = time.Local
)

// ParseTimezone parses an IANA timezone identifier (e.g., "America/Chicago").
// An empty identifier selects the host's local timezone.
func ParseTimezone(tz string) (*time.Location, error) {
	switch tz {
	case "", "Local":
		return Local, nil
	case "UTC":
		return UTC, nil
	}

	loc, err := time.LoadLocation(tz)
	if err != nil {
		return UTC, fmt.Errorf("invalid timezone %q: %w", tz, err)
	}

	return loc, nil
}

// StartOfDay returns the start of the day (00:00:00) in the given timezone.
func StartOfDay(t time.Time, tz *time.Location) time.Time {
	if tz == nil {
		tz = UTC
	}
	local := t.In(tz)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, tz)
}

// AddDays moves a calendar date by n days, staying at midnight across DST changes.
func AddDays(date time.Time, n int) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day()+n, 0, 0, 0, 0, date.Location())
}

// DaysBetween returns the number of calendar days from a to b.
func DaysBetween(a, b time.Time) int {
	ua := time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, time.UTC)
	ub := time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, time.UTC)
	return int(ub.Sub(ua).Hours() / 24)
}

// SameDate reports whether a and b fall on the same calendar date.
func SameDate(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// ParseDate parses an ISO date in the given location.
func ParseDate(s string, tz *time.Location) (time.Time, error) {
	if tz == nil {
		tz = UTC
	}
	return time.ParseInLocation(DateLayout, s, tz)
}

// OffsetString returns the UTC offset of t formatted as "-05:00".
func OffsetString(t time.Time) string {
	return t.Format("-07:00")
}
