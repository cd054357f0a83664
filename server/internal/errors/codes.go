package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
)

// ErrorCode represents a specific error type for schedule operations.
type ErrorCode string

const (
	// ErrCodeUnauthenticated indicates the upstream credential could not be refreshed.
	ErrCodeUnauthenticated ErrorCode = "UNAUTHENTICATED"
	// ErrCodeForbidden indicates the caller presented a missing or wrong API key.
	ErrCodeForbidden ErrorCode = "FORBIDDEN"
	// ErrCodeUpstreamUnavailable indicates the employer API returned a non-success status.
	ErrCodeUpstreamUnavailable ErrorCode = "UPSTREAM_UNAVAILABLE"
	// ErrCodeSchemaError indicates the employer API returned an unexpected JSON shape.
	ErrCodeSchemaError ErrorCode = "SCHEMA_ERROR"
	// ErrCodeInvalidArgument indicates invalid input parameters.
	ErrCodeInvalidArgument ErrorCode = "INVALID_ARGUMENT"
	// ErrCodeRateLimitExceeded indicates rate limit has been exceeded.
	ErrCodeRateLimitExceeded ErrorCode = "RATE_LIMIT_EXCEEDED"
	// ErrCodeContextCanceled indicates the operation was canceled.
	ErrCodeContextCanceled ErrorCode = "CONTEXT_CANCELED"
	// ErrCodeTimeout indicates the operation timed out.
	ErrCodeTimeout ErrorCode = "TIMEOUT"
	// ErrCodeInternal is used for anything that does not carry a code.
	ErrCodeInternal ErrorCode = "INTERNAL"
)

// ScheduleError represents a structured error for schedule operations.
type ScheduleError struct {
	Code    ErrorCode
	Message string
	Cause   error
	Context map[string]interface{}
}

// Error implements the error interface.
func (e *ScheduleError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause.
func (e *ScheduleError) Unwrap() error {
	return e.Cause
}

// WithContext adds context to the error.
func (e *ScheduleError) WithContext(key string, value interface{}) *ScheduleError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// GetCode returns the error code.
func (e *ScheduleError) GetCode() ErrorCode {
	return e.Code
}

// Unauthenticated creates an authentication failure error.
func Unauthenticated(msg string) *ScheduleError {
	return &ScheduleError{Code: ErrCodeUnauthenticated, Message: msg}
}

// Forbidden creates a forbidden error.
func Forbidden(msg string) *ScheduleError {
	return &ScheduleError{Code: ErrCodeForbidden, Message: msg}
}

// UpstreamUnavailable creates an error for a non-success upstream status.
func UpstreamUnavailable(endpoint string, status int) *ScheduleError {
	e := &ScheduleError{
		Code:    ErrCodeUpstreamUnavailable,
		Message: fmt.Sprintf("failed to fetch %s from API", endpoint),
	}
	return e.WithContext("endpoint", endpoint).WithContext("status", status)
}

// SchemaError creates an error for a malformed upstream payload.
func SchemaError(msg string, cause error) *ScheduleError {
	return &ScheduleError{Code: ErrCodeSchemaError, Message: msg, Cause: cause}
}

// InvalidArgument creates an invalid argument error.
func InvalidArgument(msg string) *ScheduleError {
	return &ScheduleError{Code: ErrCodeInvalidArgument, Message: msg}
}

// RateLimitExceeded creates a rate limit exceeded error.
func RateLimitExceeded(msg string) *ScheduleError {
	return &ScheduleError{Code: ErrCodeRateLimitExceeded, Message: msg}
}

// ContextCanceled creates a context canceled error.
func ContextCanceled(cause error) *ScheduleError {
	return &ScheduleError{Code: ErrCodeContextCanceled, Message: "operation canceled", Cause: cause}
}

// Timeout creates a timeout error.
func Timeout(msg string, cause error) *ScheduleError {
	return &ScheduleError{Code: ErrCodeTimeout, Message: msg, Cause: cause}
}

// Wrap wraps an existing error with additional context.
func Wrap(cause error, code ErrorCode, msg string) *ScheduleError {
	return &ScheduleError{Code: code, Message: msg, Cause: cause}
}

// IsCode checks if an error chain carries a specific code.
func IsCode(err error, code ErrorCode) bool {
	var se *ScheduleError
	if stderrors.As(err, &se) {
		return se.Code == code
	}
	return false
}

// GetCodeFromError extracts the error code from any error.
// Returns the provided default code if the error is not a ScheduleError.
func GetCodeFromError(err error, defaultCode ErrorCode) ErrorCode {
	var se *ScheduleError
	if stderrors.As(err, &se) {
		return se.Code
	}
	return defaultCode
}

// HTTPStatus maps an error to the status code the HTTP facade returns.
func HTTPStatus(err error) int {
	switch GetCodeFromError(err, ErrCodeInternal) {
	case ErrCodeUnauthenticated:
		return http.StatusUnauthorized
	case ErrCodeForbidden:
		return http.StatusForbidden
	case ErrCodeUpstreamUnavailable:
		return http.StatusBadGateway
	case ErrCodeInvalidArgument:
		return http.StatusBadRequest
	case ErrCodeRateLimitExceeded:
		return http.StatusTooManyRequests
	case ErrCodeTimeout:
		return http.StatusGatewayTimeout
	case ErrCodeContextCanceled:
		return 499
	default:
		return http.StatusInternalServerError
	}
}
