package v1

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/stekc/myTimeAPI/server/internal/errors"
	"github.com/stekc/myTimeAPI/server/service/schedule"
	"github.com/stekc/myTimeAPI/server/timezone"
)

// weeksParam reads the "weeks" query parameter. Range checks are left to the service.
func weeksParam(c echo.Context, fallback int) (int, error) {
	raw := c.QueryParam("weeks")
	if raw == "" {
		return fallback, nil
	}
	weeks, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errors.InvalidArgument("weeks must be an integer")
	}
	return weeks, nil
}

// GetSchedule returns the normalized days of the next weeks.
// GET /api/v1/schedule?weeks=4
func (s *APIV1Service) GetSchedule(c echo.Context) error {
	weeks, err := weeksParam(c, schedule.DefaultScheduleWeeks)
	if err != nil {
		return err
	}
	days, err := s.ScheduleService.GetSchedule(c.Request().Context(), weeks)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]any{"schedule": days})
}

// GetNextShift returns the next upcoming shift or null.
// GET /api/v1/next_shift?weeks=1
func (s *APIV1Service) GetNextShift(c echo.Context) error {
	weeks, err := weeksParam(c, schedule.DefaultNextShiftWeeks)
	if err != nil {
		return err
	}
	view, err := s.ScheduleService.GetNextShift(c.Request().Context(), weeks)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]any{"next_shift": view})
}

// GET /api/v1/summary
func (s *APIV1Service) GetSummary(c echo.Context) error {
	summary, err := s.ScheduleService.GetSummary(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]any{"summary": summary.Message})
}

// GET /api/v1/working_today
func (s *APIV1Service) GetWorkingToday(c echo.Context) error {
	working, err := s.ScheduleService.WorkingToday(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]bool{"working": working})
}

// GET /api/v1/working_tomorrow
func (s *APIV1Service) GetWorkingTomorrow(c echo.Context) error {
	working, err := s.ScheduleService.WorkingTomorrow(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]bool{"working": working})
}

// GetWorking reports whether a date of the current week has a shift.
// GET /api/v1/working?date=2024-05-09
func (s *APIV1Service) GetWorking(c echo.Context) error {
	raw := c.QueryParam("date")
	if raw == "" {
		return errors.InvalidArgument("date is required")
	}
	date, err := timezone.ParseDate(raw, s.ScheduleService.Today().Location())
	if err != nil {
		return errors.InvalidArgument("date must be formatted as YYYY-MM-DD")
	}
	working, err := s.ScheduleService.IsWorkingOn(c.Request().Context(), date)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]any{"date": raw, "working": working})
}

// GET /api/v1/next_day_off
func (s *APIV1Service) GetNextDayOff(c echo.Context) error {
	view, err := s.ScheduleService.GetNextDayOff(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]any{"next_day_off": view})
}

// GET /api/v1/available_shifts?weeks=4
func (s *APIV1Service) GetAvailableShifts(c echo.Context) error {
	weeks, err := weeksParam(c, schedule.DefaultScheduleWeeks)
	if err != nil {
		return err
	}
	shifts, err := s.ScheduleService.GetAvailableShifts(c.Request().Context(), weeks)
	if err != nil {
		return err
	}
	if shifts == nil {
		shifts = []*schedule.AvailableShift{}
	}
	return c.JSON(http.StatusOK, map[string]any{"available_shifts": shifts})
}

// POST /api/v1/clear_cache
func (s *APIV1Service) ClearCache(c echo.Context) error {
	s.ScheduleService.ClearCache()
	return c.JSON(http.StatusOK, map[string]string{"message": "Cache cleared successfully"})
}
