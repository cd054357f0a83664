package v1

import (
	stderrors "errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/stekc/myTimeAPI/server/internal/errors"
)

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Detail string `json:"detail"`
	Code   string `json:"code,omitempty"`
}

// HTTPErrorHandler writes coded schedule errors and echo errors as ErrorResponse.
func HTTPErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	status, body := errorResponse(err)
	if c.Request().Method == http.MethodHead {
		err = c.NoContent(status)
	} else {
		err = c.JSON(status, body)
	}
	if err != nil {
		slog.Error("failed to write error response", "error", err)
	}
}

func errorResponse(err error) (int, ErrorResponse) {
	var he *echo.HTTPError
	if stderrors.As(err, &he) {
		return he.Code, ErrorResponse{Detail: fmt.Sprint(he.Message)}
	}

	var se *errors.ScheduleError
	if stderrors.As(err, &se) {
		return errors.HTTPStatus(se), ErrorResponse{Detail: se.Message, Code: string(se.Code)}
	}
	return http.StatusInternalServerError, ErrorResponse{Detail: "Internal Server Error", Code: string(errors.ErrCodeInternal)}
}
