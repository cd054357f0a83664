package v1

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/stekc/myTimeAPI/internal/observability"
	"github.com/stekc/myTimeAPI/internal/profile"
	"github.com/stekc/myTimeAPI/server/service/schedule"
)

// Prefix is the path all facade routes live under.
const Prefix = "/api/v1"

// HealthzPath is served without an API key.
const HealthzPath = Prefix + "/healthz"

type APIV1Service struct {
	Profile         *profile.Profile
	ScheduleService schedule.Service
	Metrics         *observability.Metrics
}

func NewAPIV1Service(profile *profile.Profile, scheduleService schedule.Service, metrics *observability.Metrics) *APIV1Service {
	if metrics == nil {
		metrics = observability.NewMetrics(0)
	}
	return &APIV1Service{
		Profile:         profile,
		ScheduleService: scheduleService,
		Metrics:         metrics,
	}
}

// RegisterRoutes mounts every facade route on echoServer.
func (s *APIV1Service) RegisterRoutes(echoServer *echo.Echo) {
	g := echoServer.Group(Prefix)

	g.GET("/schedule", s.GetSchedule)
	g.GET("/next_shift", s.GetNextShift)
	g.GET("/summary", s.GetSummary)
	g.GET("/working_today", s.GetWorkingToday)
	g.GET("/working_tomorrow", s.GetWorkingTomorrow)
	g.GET("/working", s.GetWorking)
	g.GET("/next_day_off", s.GetNextDayOff)
	g.GET("/available_shifts", s.GetAvailableShifts)
	g.POST("/clear_cache", s.ClearCache)
	g.GET("/feed", s.GetFeed)
	g.GET("/metrics", s.GetMetrics)
	g.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})
}
