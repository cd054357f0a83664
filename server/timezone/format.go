package timezone

import (
	"strings"
	"time"
)

// DayLabel describes date relative to today: "Today", "Tomorrow" or the weekday name.
func DayLabel(date, today time.Time) string {
	switch DaysBetween(today, date) {
	case 0:
		return "Today"
	case 1:
		return "Tomorrow"
	default:
		return date.Weekday().String()
	}
}

// FormatHour formats t as a compact 12-hour time such as "9am" or "9:30pm".
func FormatHour(t time.Time) string {
	if t.Minute() == 0 {
		return strings.ToLower(t.Format("3PM"))
	}
	return strings.ToLower(t.Format("3:04PM"))
}

// FormatClock formats t as a 12-hour time with minutes such as "9:00am".
func FormatClock(t time.Time) string {
	return strings.ToLower(t.Format("3:04PM"))
}

// FormatNotificationTime formats t as "09:00 AM" for push notifications.
func FormatNotificationTime(t time.Time) string {
	return t.Format("03:04 PM")
}
