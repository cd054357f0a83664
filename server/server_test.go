package server

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/stekc/myTimeAPI/internal/profile"
	"github.com/stekc/myTimeAPI/server/middleware"
	"github.com/stekc/myTimeAPI/server/service/schedule"
)

func newTestServer(authKey string) *Server {
	p := &profile.Profile{Mode: "dev", Port: 0, AuthKey: authKey, RateLimit: 100, RateBurst: 100}
	return NewServer(p, schedule.NewService(schedule.Dependencies{}), nil)
}

func serve(s *Server, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func TestServer_APIKey(t *testing.T) {
	s := newTestServer("secret")

	rec := serve(s, httptest.NewRequest(http.MethodGet, "/api/v1/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = serve(s, httptest.NewRequest(http.MethodGet, "/api/v1/summary", nil))
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.JSONEq(t, `{"detail":"Could not validate API key"}`, rec.Body.String())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/metrics", nil)
	req.Header.Set(middleware.APIKeyHeader, "secret")
	rec = serve(s, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get(middleware.RequestIDHeader))
}

func TestServer_CORS(t *testing.T) {
	s := newTestServer("secret")

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/schedule", nil)
	req.Header.Set("Origin", "https://example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	rec := serve(s, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestServer_NoAuthKey(t *testing.T) {
	s := newTestServer("")
	rec := serve(s, httptest.NewRequest(http.MethodGet, "/api/v1/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}
