package middleware

import (
	"crypto/subtle"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
)

// APIKeyHeader carries the facade API key.
const APIKeyHeader = "X-API-Key"

// APIKey rejects requests whose X-API-Key header does not equal key.
// Paths listed in public are served without a key.
func APIKey(key string, public ...string) echo.MiddlewareFunc {
	skip := make(map[string]bool, len(public))
	for _, path := range public {
		skip[path] = true
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if skip[c.Path()] {
				return next(c)
			}
			presented := c.Request().Header.Get(APIKeyHeader)
			if presented == "" || subtle.ConstantTimeCompare([]byte(presented), []byte(key)) != 1 {
				slog.Warn("rejected request with invalid api key", "path", c.Path(), "remote_ip", c.RealIP())
				return echo.NewHTTPError(http.StatusForbidden, "Could not validate API key")
			}
			return next(c)
		}
	}
}
