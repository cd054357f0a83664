package middleware

import (
	"log/slog"

	"github.com/labstack/echo/v4"

	"github.com/stekc/myTimeAPI/internal/observability"
	"github.com/stekc/myTimeAPI/server/internal/errors"
)

// RequestIDHeader is echoed back on every response.
const RequestIDHeader = echo.HeaderXRequestID

// RequestLogger attaches an observability.RequestContext to the request,
// records route metrics and logs the outcome.
func RequestLogger(logger *slog.Logger, metrics *observability.Metrics) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			route := c.Path()

			var reqCtx *observability.RequestContext
			if id := req.Header.Get(RequestIDHeader); id != "" {
				reqCtx = observability.NewRequestContextWithID(logger, id, req.Method, route, c.RealIP())
			} else {
				reqCtx = observability.NewRequestContext(logger, req.Method, route, c.RealIP())
			}
			c.SetRequest(req.WithContext(observability.WithRequestContext(req.Context(), reqCtx)))
			c.Response().Header().Set(RequestIDHeader, reqCtx.RequestID)

			err := next(c)
			if err != nil {
				// Let the error handler write the response so the status is known.
				c.Error(err)
			}

			status := c.Response().Status
			metrics.RecordRequest(route)
			metrics.RecordDuration(route, reqCtx.Duration())
			attrs := []slog.Attr{
				slog.Int(observability.LogFieldStatus, status),
				slog.Int64(observability.LogFieldDuration, reqCtx.DurationMs()),
			}
			switch {
			case err != nil && status >= 500:
				metrics.RecordFailure(route)
				attrs = append(attrs, slog.String(observability.LogFieldErrorCode, string(errors.GetCodeFromError(err, errors.ErrCodeInternal))))
				reqCtx.Error("request failed", err, attrs...)
			case err != nil:
				metrics.RecordFailure(route)
				reqCtx.Warn("request rejected", append(attrs, slog.String("error", err.Error()))...)
			default:
				reqCtx.Info("request served", attrs...)
			}
			return nil
		}
	}
}
