package schedule

// Package-level constants for schedule retrieval.

import "time"

const (
	// DefaultScheduleWeeks is the number of weeks returned by the full schedule query.
	DefaultScheduleWeeks = 4

	// DefaultNextShiftWeeks is the horizon scanned by the next-shift query.
	DefaultNextShiftWeeks = 1

	// DayOffHorizonWeeks is the number of weeks fetched when searching for the next day off.
	DayOffHorizonWeeks = 4

	// MaxWeeks bounds every multi-week query.
	// The employer API publishes schedules only a few weeks out.
	MaxWeeks = 12

	// BreakThreshold is the shift length at which an unpaid break is deducted.
	BreakThreshold = 5 * time.Hour

	// BreakDeduction is the unpaid break taken on long shifts.
	BreakDeduction = 30 * time.Minute

	// DefaultUpstreamTimeout bounds a shared upstream call.
	DefaultUpstreamTimeout = 30 * time.Second

	// DefaultReacquireTimeout bounds a shared credential reacquisition,
	// which may wait on an interactive sign-in.
	DefaultReacquireTimeout = 5 * time.Minute

	// LongGapDays is the gap at which the day-off message spells out the day count.
	LongGapDays = 7
)

const (
	endpointSchedule        = "schedule"
	endpointAvailableShifts = "available_shifts"

	reacquireKey = "reacquire"
)
