package v1

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/stekc/myTimeAPI/internal/observability"
	"github.com/stekc/myTimeAPI/plugin/cache"
)

// MetricsResponse reports request counters and cache effectiveness.
type MetricsResponse struct {
	*observability.MetricsSnapshot
	SuccessRate float64       `json:"success_rate"`
	Caches      []cache.Stats `json:"caches"`
}

// GetMetrics returns the facade metrics.
// GET /api/v1/metrics
func (s *APIV1Service) GetMetrics(c echo.Context) error {
	snapshot := s.Metrics.Snapshot()
	return c.JSON(http.StatusOK, MetricsResponse{
		MetricsSnapshot: snapshot,
		SuccessRate:     snapshot.SuccessRate(),
		Caches:          s.ScheduleService.CacheStats(),
	})
}
