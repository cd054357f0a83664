package schedule

import (
	"encoding/json"
	"time"

	"github.com/stekc/myTimeAPI/plugin/wfm"
	"github.com/stekc/myTimeAPI/server/timezone"
)

// StoreInfo describes the store a shift is worked at.
type StoreInfo = wfm.StoreInfo

// ShiftSegment is one contiguous block of scheduled work.
type ShiftSegment struct {
	Start     time.Time  `json:"start_time"`
	End       time.Time  `json:"end_time"`
	JobName   string     `json:"job_name"`
	Location  string     `json:"location"`
	TotalJobs int        `json:"total_jobs"`
	Store     *StoreInfo `json:"store_info,omitempty"`
}

// Duration returns the scheduled length of the segment.
func (s *ShiftSegment) Duration() time.Duration {
	return s.End.Sub(s.Start)
}

// DaySchedule holds the segments of one calendar day in API order.
type DaySchedule struct {
	Date     time.Time
	Segments []*ShiftSegment
}

// Working reports whether the day has at least one segment.
func (d *DaySchedule) Working() bool {
	return len(d.Segments) > 0
}

// JobTitle returns the title of the first segment.
func (d *DaySchedule) JobTitle() string {
	if len(d.Segments) == 0 {
		return ""
	}
	return d.Segments[0].JobName
}

func (d *DaySchedule) MarshalJSON() ([]byte, error) {
	var store *StoreInfo
	if n := len(d.Segments); n > 0 {
		store = d.Segments[n-1].Store
	}
	segments := d.Segments
	if segments == nil {
		segments = []*ShiftSegment{}
	}
	return json.Marshal(struct {
		Date      string          `json:"date"`
		Shifts    []*ShiftSegment `json:"shifts"`
		StoreInfo *StoreInfo      `json:"store_info"`
	}{
		Date:      d.Date.Format(timezone.DateLayout),
		Shifts:    segments,
		StoreInfo: store,
	})
}

// ShiftView is the next-shift answer. HumanReadable keeps non-zero minutes
// ("Tuesday from 1:30pm to 6pm") rather than truncating to the hour.
type ShiftView struct {
	HumanReadable string     `json:"human_readable"`
	Date          string     `json:"date"`
	StartTime     string     `json:"start_time"`
	EndTime       string     `json:"end_time"`
	JobName       string     `json:"job_name"`
	Location      *StoreInfo `json:"location"`

	Segment *ShiftSegment `json:"-"`
}

// SummaryView describes the current week.
type SummaryView struct {
	Message        string  `json:"message"`
	UpcomingShifts int     `json:"upcoming_shifts"`
	TotalHours     float64 `json:"total_hours"`
	// NextShift is the earliest upcoming shift such as "tomorrow from 9:00am to 5:00pm".
	NextShift string `json:"next_shift,omitempty"`
}

// DayOffView is the next-day-off answer.
type DayOffView struct {
	Date      string `json:"date"`
	DaysUntil int    `json:"days_until"`
	Message   string `json:"message"`
	IsToday   bool   `json:"is_today"`
	// Label is "today", "tomorrow" or the weekday name.
	Label string `json:"label"`
}

// AvailableShift is an open shift posted by the store.
type AvailableShift struct {
	ID    string    `json:"available_shift_id"`
	Start time.Time `json:"shift_start"`
	End   time.Time `json:"shift_end"`
	Hours float64   `json:"shift_hours"`
	Job   string    `json:"job"`
}

// PaidHours applies the unpaid break rule: shifts of BreakThreshold or longer
// lose BreakDeduction.
func PaidHours(d time.Duration) float64 {
	if d >= BreakThreshold {
		d -= BreakDeduction
	}
	return d.Hours()
}
