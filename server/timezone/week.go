package timezone

import (
	"fmt"
	"time"
)

// DaysPerWeek is the number of days in a week window.
const DaysPerWeek = 7

// WeekWindow is a Sunday-to-Saturday date range, the unit of schedule fetches.
type WeekWindow struct {
	Start time.Time
	End   time.Time
}

// WeekOf returns the window containing today shifted by offset weeks.
func WeekOf(today time.Time, offset int) WeekWindow {
	day := StartOfDay(today, today.Location())
	start := AddDays(day, -int(day.Weekday())+offset*DaysPerWeek)
	return WeekWindow{Start: start, End: AddDays(start, DaysPerWeek-1)}
}

// Weeks returns count consecutive windows starting with the week containing today.
func Weeks(today time.Time, count int) []WeekWindow {
	windows := make([]WeekWindow, 0, count)
	for i := 0; i < count; i++ {
		windows = append(windows, WeekOf(today, i))
	}
	return windows
}

// Validate checks that the window starts on a Sunday and spans exactly seven days.
func (w WeekWindow) Validate() error {
	if w.Start.Weekday() != time.Sunday {
		return fmt.Errorf("week window must start on Sunday, got %s", w.Start.Weekday())
	}
	if !SameDate(AddDays(w.Start, DaysPerWeek-1), w.End) {
		return fmt.Errorf("week window must end six days after it starts, got %s..%s", w.StartDate(), w.EndDate())
	}
	return nil
}

// Contains reports whether date falls inside the window.
func (w WeekWindow) Contains(date time.Time) bool {
	d := DaysBetween(w.Start, date)
	return d >= 0 && d < DaysPerWeek
}

// StartDate returns the ISO start date.
func (w WeekWindow) StartDate() string {
	return w.Start.Format(DateLayout)
}

// EndDate returns the ISO end date.
func (w WeekWindow) EndDate() string {
	return w.End.Format(DateLayout)
}

func (w WeekWindow) String() string {
	return w.StartDate() + "_" + w.EndDate()
}
