package schedule

import (
	"context"
	"encoding/json"
	"time"

	"golang.org/x/oauth2"

	"github.com/stekc/myTimeAPI/plugin/cache"
	"github.com/stekc/myTimeAPI/plugin/wfm"
	"github.com/stekc/myTimeAPI/server/timezone"
)

// Service defines the schedule queries served by the HTTP facade and the batch runners.
type Service interface {
	// GetSchedule returns the normalized days of the next weeks, current week first.
	GetSchedule(ctx context.Context, weeks int) ([]*DaySchedule, error)

	// GetNextShift returns the first shift starting after now within horizonWeeks,
	// or nil when there is none. Times in the human-readable line keep their
	// minutes, as in "Today from 9:30am to 5pm"; whole hours drop ":00".
	GetNextShift(ctx context.Context, horizonWeeks int) (*ShiftView, error)

	// GetSummary describes the current week.
	GetSummary(ctx context.Context) (*SummaryView, error)

	// IsWorkingOn reports whether date has at least one shift in the current week.
	// Dates outside the current week report false.
	IsWorkingOn(ctx context.Context, date time.Time) (bool, error)
	WorkingToday(ctx context.Context) (bool, error)
	WorkingTomorrow(ctx context.Context) (bool, error)

	// GetNextDayOff finds the first date from today without a shift.
	GetNextDayOff(ctx context.Context) (*DayOffView, error)

	// GetAvailableShifts returns the open shifts posted for the next weeks.
	GetAvailableShifts(ctx context.Context, weeks int) ([]*AvailableShift, error)

	// EnsureValidToken returns a credential the employer API currently accepts.
	EnsureValidToken(ctx context.Context) (*oauth2.Token, error)

	// FetchWeeklySchedule returns the raw weekly schedule payload, cached.
	FetchWeeklySchedule(ctx context.Context, token *oauth2.Token, week timezone.WeekWindow) (json.RawMessage, error)

	// FetchAvailableShifts returns the raw available shifts payload, cached.
	FetchAvailableShifts(ctx context.Context, token *oauth2.Token, week timezone.WeekWindow) (json.RawMessage, error)

	// NormalizeWeek converts a weekly schedule payload into seven days.
	NormalizeWeek(ctx context.Context, raw json.RawMessage) ([]*DaySchedule, error)

	// ClearCache drops every cached response. Store metadata is kept.
	ClearCache()

	// CacheStats reports the response caches.
	CacheStats() []cache.Stats

	// Today returns the current calendar date in the service location.
	Today() time.Time
}

// TokenProvider supplies and refreshes the employer credential.
type TokenProvider interface {
	CurrentToken(ctx context.Context) (*oauth2.Token, error)
	// Probe reports false when the API answers "unauthorized".
	Probe(ctx context.Context, token *oauth2.Token) (bool, error)
	Reacquire(ctx context.Context) (*oauth2.Token, error)
}

// CredentialStore persists a credential that passed validation.
type CredentialStore interface {
	Save(ctx context.Context, token *oauth2.Token) error
}

// ScheduleAPI fetches one weekly schedule.
type ScheduleAPI interface {
	FetchWeek(ctx context.Context, token *oauth2.Token, start, end time.Time) (*wfm.Response, error)
}

// AvailableShiftsAPI fetches the open shifts of one week.
type AvailableShiftsAPI interface {
	FetchAvailableShifts(ctx context.Context, token *oauth2.Token, start, end time.Time) (*wfm.Response, error)
}

// StoreDirectory resolves a store number.
type StoreDirectory interface {
	Lookup(ctx context.Context, storeID string) (*StoreInfo, error)
}

// NotificationSink delivers a message to the employee. Delivery failures are
// logged by the sink and never returned.
type NotificationSink interface {
	Notify(ctx context.Context, message string)
}

// SeenShiftStore remembers which open shifts have already been announced.
type SeenShiftStore interface {
	HasSeen(ctx context.Context, shiftID string) (bool, error)
	Record(ctx context.Context, shiftID string) error
}

// Dependencies are the collaborators a Service is built from.
type Dependencies struct {
	Tokens      TokenProvider
	Credentials CredentialStore
	Schedules   ScheduleAPI
	Shifts      AvailableShiftsAPI
	Stores      StoreDirectory
}
