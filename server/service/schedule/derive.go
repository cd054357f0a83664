package schedule

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/sync/errgroup"

	"github.com/stekc/myTimeAPI/server/internal/errors"
	"github.com/stekc/myTimeAPI/server/timezone"
)

func validateWeeks(weeks int) error {
	if weeks < 1 || weeks > MaxWeeks {
		return errors.InvalidArgument(fmt.Sprintf("weeks must be between 1 and %d, got %d", MaxWeeks, weeks))
	}
	return nil
}

// loadWeeks validates the credential and returns the normalized days of the
// next count weeks, one slice per week in chronological order.
func (s *service) loadWeeks(ctx context.Context, count int) ([][]*DaySchedule, error) {
	if err := validateWeeks(count); err != nil {
		return nil, err
	}
	token, err := s.EnsureValidToken(ctx)
	if err != nil {
		return nil, err
	}

	windows := timezone.Weeks(s.Today(), count)
	result := make([][]*DaySchedule, len(windows))
	g, gctx := errgroup.WithContext(ctx)
	for i, week := range windows {
		i, week := i, week // per-iteration copy for pre-1.22 loop semantics
		g.Go(func() error {
			raw, err := s.FetchWeeklySchedule(gctx, token, week)
			if err != nil {
				return err
			}
			days, err := s.NormalizeWeek(gctx, raw)
			if err != nil {
				s.logger.Error("failed to normalize week", "week", week.String(), "error", err)
				return err
			}
			result[i] = days
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return result, nil
}

func (s *service) GetSchedule(ctx context.Context, weeks int) ([]*DaySchedule, error) {
	loaded, err := s.loadWeeks(ctx, weeks)
	if err != nil {
		return nil, err
	}

	days := make([]*DaySchedule, 0, weeks*timezone.DaysPerWeek)
	for _, week := range loaded {
		days = append(days, week...)
	}
	return days, nil
}

func (s *service) GetNextShift(ctx context.Context, horizonWeeks int) (*ShiftView, error) {
	loaded, err := s.loadWeeks(ctx, horizonWeeks)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	for _, week := range loaded {
		for _, day := range week {
			for _, segment := range day.Segments {
				if segment.Start.After(now) {
					return s.shiftView(day, segment), nil
				}
			}
		}
	}
	return nil, nil
}

func (s *service) shiftView(day *DaySchedule, segment *ShiftSegment) *ShiftView {
	label := timezone.DayLabel(segment.Start, s.now())
	return &ShiftView{
		HumanReadable: fmt.Sprintf("%s from %s to %s", label, timezone.FormatHour(segment.Start), timezone.FormatHour(segment.End)),
		Date:          day.Date.Format(timezone.DateLayout),
		StartTime:     segment.Start.Format("15:04"),
		EndTime:       segment.End.Format("15:04"),
		JobName:       segment.JobName,
		Location:      segment.Store,
		Segment:       segment,
	}
}

func (s *service) GetSummary(ctx context.Context) (*SummaryView, error) {
	loaded, err := s.loadWeeks(ctx, 1)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	summary := &SummaryView{}
	for _, day := range loaded[0] {
		for _, segment := range day.Segments {
			summary.TotalHours += PaidHours(segment.Duration())
			if !segment.Start.After(now) {
				continue
			}
			summary.UpcomingShifts++
			if summary.NextShift == "" {
				label := strings.ToLower(timezone.DayLabel(segment.Start, s.now()))
				summary.NextShift = fmt.Sprintf("%s from %s to %s", label, timezone.FormatClock(segment.Start), timezone.FormatClock(segment.End))
			}
		}
	}
	summary.Message = summaryMessage(summary)
	return summary, nil
}

func summaryMessage(summary *SummaryView) string {
	if summary.UpcomingShifts == 0 {
		return "You have no upcoming shifts scheduled this week."
	}

	plural := "s"
	if summary.UpcomingShifts == 1 {
		plural = ""
	}
	return fmt.Sprintf("Your next shift is %s. You have %d shift%s scheduled this week for a total of %s hours.",
		summary.NextShift, summary.UpcomingShifts, plural, formatHours(summary.TotalHours))
}

// formatHours rounds to one decimal and drops a trailing ".0".
func formatHours(hours float64) string {
	return strconv.FormatFloat(math.Round(hours*10)/10, 'f', -1, 64)
}

func (s *service) IsWorkingOn(ctx context.Context, date time.Time) (bool, error) {
	loaded, err := s.loadWeeks(ctx, 1)
	if err != nil {
		return false, err
	}
	for _, day := range loaded[0] {
		if timezone.SameDate(day.Date, date) {
			return day.Working(), nil
		}
	}
	return false, nil
}

func (s *service) WorkingToday(ctx context.Context) (bool, error) {
	return s.IsWorkingOn(ctx, s.Today())
}

func (s *service) WorkingTomorrow(ctx context.Context) (bool, error) {
	return s.IsWorkingOn(ctx, timezone.AddDays(s.Today(), 1))
}

// GetNextDayOff scans forward from today. Dates past the fetched horizon have
// no shifts and therefore end the scan.
func (s *service) GetNextDayOff(ctx context.Context) (*DayOffView, error) {
	loaded, err := s.loadWeeks(ctx, DayOffHorizonWeeks)
	if err != nil {
		return nil, err
	}

	working := make(map[string]bool)
	for _, week := range loaded {
		for _, day := range week {
			if day.Working() {
				working[day.Date.Format(timezone.DateLayout)] = true
			}
		}
	}

	today := s.Today()
	date := today
	for working[date.Format(timezone.DateLayout)] {
		date = timezone.AddDays(date, 1)
	}
	return dayOffView(date, today), nil
}

func dayOffView(date, today time.Time) *DayOffView {
	daysUntil := timezone.DaysBetween(today, date)
	view := &DayOffView{
		Date:      date.Format(timezone.DateLayout),
		DaysUntil: daysUntil,
		IsToday:   daysUntil == 0,
		Label:     strings.ToLower(timezone.DayLabel(date, today)),
	}

	switch daysUntil {
	case 0:
		view.Message = "You are off today!"
	case 1:
		view.Message = "Your next day off is tomorrow"
	default:
		view.Message = "Your next day off is " + date.Weekday().String()
		if daysUntil >= LongGapDays {
			view.Message += fmt.Sprintf(" (%d days from now)", daysUntil)
		}
	}
	return view
}

type rawAvailableShifts struct {
	AvailableShifts []struct {
		ID           flexString `json:"available_shift_id"`
		ShiftStart   string     `json:"shift_start"`
		ShiftEnd     string     `json:"shift_end"`
		ShiftHours   float64    `json:"shift_hours"`
		OrgStructure struct {
			Job string `json:"job"`
		} `json:"org_structure"`
	} `json:"available_shifts"`
}

func (s *service) GetAvailableShifts(ctx context.Context, weeks int) ([]*AvailableShift, error) {
	if err := validateWeeks(weeks); err != nil {
		return nil, err
	}
	token, err := s.EnsureValidToken(ctx)
	if err != nil {
		return nil, err
	}

	windows := timezone.Weeks(s.Today(), weeks)
	perWeek := make([][]*AvailableShift, len(windows))
	g, gctx := errgroup.WithContext(ctx)
	for i, week := range windows {
		i, week := i, week // per-iteration copy for pre-1.22 loop semantics
		g.Go(func() error {
			shifts, err := s.availableShifts(gctx, token, week)
			if err != nil {
				return err
			}
			perWeek[i] = shifts
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var shifts []*AvailableShift
	for _, week := range perWeek {
		shifts = append(shifts, week...)
	}
	return shifts, nil
}

func (s *service) availableShifts(ctx context.Context, token *oauth2.Token, week timezone.WeekWindow) ([]*AvailableShift, error) {
	raw, err := s.FetchAvailableShifts(ctx, token, week)
	if err != nil {
		return nil, err
	}

	var payload rawAvailableShifts
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, errors.SchemaError("available shifts payload is not valid JSON", err)
	}

	shifts := make([]*AvailableShift, 0, len(payload.AvailableShifts))
	for _, rs := range payload.AvailableShifts {
		if rs.ID == "" {
			return nil, errors.SchemaError("available shift has no id", nil)
		}
		start, err := s.parseShiftTime(rs.ShiftStart)
		if err != nil {
			return nil, err
		}
		end, err := s.parseShiftTime(rs.ShiftEnd)
		if err != nil {
			return nil, err
		}
		shifts = append(shifts, &AvailableShift{
			ID:    string(rs.ID),
			Start: start,
			End:   end,
			Hours: rs.ShiftHours,
			Job:   rs.OrgStructure.Job,
		})
	}
	return shifts, nil
}

// parseShiftTime accepts ISO timestamps with or without an offset. Timestamps
// without one are read in the service location.
func (s *service) parseShiftTime(value string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	for _, layout := range []string{"2006-01-02T15:04:05", timezone.WallClockLayout} {
		if t, err := time.ParseInLocation(layout, value, s.loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, errors.SchemaError(fmt.Sprintf("available shift timestamp %q is not parsable", value), nil)
}
