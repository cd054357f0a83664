package errors

import (
	"context"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScheduleError_Error(t *testing.T) {
	err := SchemaError("schedules must contain 7 days", fmt.Errorf("got 6"))
	assert.Equal(t, "[SCHEMA_ERROR] schedules must contain 7 days: got 6", err.Error())

	err = Unauthenticated("Authentication failed")
	assert.Equal(t, "[UNAUTHENTICATED] Authentication failed", err.Error())
}

func TestUpstreamUnavailable_Context(t *testing.T) {
	err := UpstreamUnavailable("schedule", http.StatusServiceUnavailable)
	assert.Equal(t, "schedule", err.Context["endpoint"])
	assert.Equal(t, http.StatusServiceUnavailable, err.Context["status"])
}

func TestIsCode_WrappedChain(t *testing.T) {
	wrapped := fmt.Errorf("fetch week 2: %w", UpstreamUnavailable("schedule", 500))

	assert.True(t, IsCode(wrapped, ErrCodeUpstreamUnavailable))
	assert.False(t, IsCode(wrapped, ErrCodeSchemaError))
	assert.False(t, IsCode(context.Canceled, ErrCodeUpstreamUnavailable))
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"unauthenticated", Unauthenticated("x"), http.StatusUnauthorized},
		{"forbidden", Forbidden("x"), http.StatusForbidden},
		{"upstream", UpstreamUnavailable("schedule", 500), http.StatusBadGateway},
		{"schema", SchemaError("x", nil), http.StatusInternalServerError},
		{"invalid", InvalidArgument("x"), http.StatusBadRequest},
		{"rate", RateLimitExceeded("x"), http.StatusTooManyRequests},
		{"timeout", Timeout("x", nil), http.StatusGatewayTimeout},
		{"plain", fmt.Errorf("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HTTPStatus(tt.err))
		})
	}
}
