package timezone

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTimezone(t *testing.T) {
	tests := []struct {
		name    string
		tz      string
		wantErr bool
	}{
		{name: "UTC", tz: "UTC"},
		{name: "empty string defaults to local", tz: ""},
		{name: "America/Chicago", tz: "America/Chicago"},
		{name: "invalid timezone", tz: "Invalid/Timezone", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loc, err := ParseTimezone(tt.tz)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, loc)
		})
	}
}

func TestWeekOf(t *testing.T) {
	tests := []struct {
		name      string
		today     time.Time
		offset    int
		wantStart string
		wantEnd   string
	}{
		{"wednesday", time.Date(2024, 5, 8, 14, 0, 0, 0, UTC), 0, "2024-05-05", "2024-05-11"},
		{"sunday is its own week", time.Date(2024, 5, 5, 8, 0, 0, 0, UTC), 0, "2024-05-05", "2024-05-11"},
		{"saturday", time.Date(2024, 5, 11, 23, 59, 0, 0, UTC), 0, "2024-05-05", "2024-05-11"},
		{"offset crosses month", time.Date(2024, 5, 29, 9, 0, 0, 0, UTC), 1, "2024-06-02", "2024-06-08"},
		{"offset crosses year", time.Date(2024, 12, 25, 9, 0, 0, 0, UTC), 1, "2024-12-29", "2025-01-04"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := WeekOf(tt.today, tt.offset)
			assert.Equal(t, tt.wantStart, w.StartDate())
			assert.Equal(t, tt.wantEnd, w.EndDate())
			assert.Equal(t, time.Sunday, w.Start.Weekday())
			assert.NoError(t, w.Validate())
		})
	}
}

func TestWeekOf_AcrossDST(t *testing.T) {
	chicago, err := time.LoadLocation("America/Chicago")
	require.NoError(t, err)

	// DST starts 2024-03-10.
	w := WeekOf(time.Date(2024, 3, 13, 12, 0, 0, 0, chicago), 0)
	assert.Equal(t, "2024-03-10", w.StartDate())
	assert.Equal(t, "2024-03-16", w.EndDate())
	assert.Equal(t, 0, w.Start.Hour())
}

func TestWeekWindow_Validate(t *testing.T) {
	monday := time.Date(2024, 5, 6, 0, 0, 0, 0, UTC)
	err := WeekWindow{Start: monday, End: AddDays(monday, 6)}.Validate()
	assert.Error(t, err)

	sunday := time.Date(2024, 5, 5, 0, 0, 0, 0, UTC)
	err = WeekWindow{Start: sunday, End: AddDays(sunday, 3)}.Validate()
	assert.Error(t, err)
}

func TestWeekWindow_Contains(t *testing.T) {
	w := WeekOf(time.Date(2024, 5, 8, 0, 0, 0, 0, UTC), 0)
	assert.True(t, w.Contains(time.Date(2024, 5, 5, 0, 0, 0, 0, UTC)))
	assert.True(t, w.Contains(time.Date(2024, 5, 11, 22, 0, 0, 0, UTC)))
	assert.False(t, w.Contains(time.Date(2024, 5, 12, 0, 0, 0, 0, UTC)))
	assert.False(t, w.Contains(time.Date(2024, 5, 4, 0, 0, 0, 0, UTC)))
}

func TestWeeks(t *testing.T) {
	windows := Weeks(time.Date(2024, 5, 8, 0, 0, 0, 0, UTC), 4)
	require.Len(t, windows, 4)
	assert.Equal(t, "2024-05-05_2024-05-11", windows[0].String())
	assert.Equal(t, "2024-05-26_2024-06-01", windows[3].String())
}

func TestDaysBetween(t *testing.T) {
	a := time.Date(2024, 5, 8, 23, 0, 0, 0, UTC)
	b := time.Date(2024, 5, 9, 1, 0, 0, 0, UTC)
	assert.Equal(t, 1, DaysBetween(a, b))
	assert.Equal(t, -1, DaysBetween(b, a))
	assert.Equal(t, 0, DaysBetween(a, a))
}

func TestDayLabel(t *testing.T) {
	today := time.Date(2024, 5, 8, 10, 0, 0, 0, UTC)
	assert.Equal(t, "Today", DayLabel(today, today))
	assert.Equal(t, "Tomorrow", DayLabel(AddDays(StartOfDay(today, UTC), 1), today))
	assert.Equal(t, "Friday", DayLabel(AddDays(StartOfDay(today, UTC), 2), today))
}

func TestFormatHour(t *testing.T) {
	assert.Equal(t, "9am", FormatHour(time.Date(2024, 5, 8, 9, 0, 0, 0, UTC)))
	assert.Equal(t, "5pm", FormatHour(time.Date(2024, 5, 8, 17, 0, 0, 0, UTC)))
	assert.Equal(t, "5:30pm", FormatHour(time.Date(2024, 5, 8, 17, 30, 0, 0, UTC)))
	assert.Equal(t, "12pm", FormatHour(time.Date(2024, 5, 8, 12, 0, 0, 0, UTC)))
}

func TestFormatClock(t *testing.T) {
	assert.Equal(t, "9:00am", FormatClock(time.Date(2024, 5, 8, 9, 0, 0, 0, UTC)))
	assert.Equal(t, "10:15pm", FormatClock(time.Date(2024, 5, 8, 22, 15, 0, 0, UTC)))
}

func TestOffsetString(t *testing.T) {
	chicago, err := time.LoadLocation("America/Chicago")
	require.NoError(t, err)

	assert.Equal(t, "-05:00", OffsetString(time.Date(2024, 7, 1, 0, 0, 0, 0, chicago)))
	assert.Equal(t, "-06:00", OffsetString(time.Date(2024, 1, 1, 0, 0, 0, 0, chicago)))
	assert.Equal(t, "+00:00", OffsetString(time.Date(2024, 1, 1, 0, 0, 0, 0, UTC)))
}
