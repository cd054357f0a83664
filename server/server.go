package server

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"

	"github.com/stekc/myTimeAPI/internal/observability"
	"github.com/stekc/myTimeAPI/internal/profile"
	"github.com/stekc/myTimeAPI/server/middleware"
	apiv1 "github.com/stekc/myTimeAPI/server/router/api/v1"
	"github.com/stekc/myTimeAPI/server/runner/openshift"
	"github.com/stekc/myTimeAPI/server/service/schedule"
)

// Server serves the schedule facade and, when configured, the open shift watcher.
type Server struct {
	Profile *profile.Profile

	echoServer *echo.Echo
	watcher    *openshift.Runner

	runnerCancelFuncs []context.CancelFunc
}

// NewServer builds the echo server. watcher may be nil.
func NewServer(profile *profile.Profile, scheduleService schedule.Service, watcher *openshift.Runner) *Server {
	s := &Server{
		Profile: profile,
		watcher: watcher,
	}

	echoServer := echo.New()
	echoServer.HideBanner = true
	echoServer.HidePort = true
	echoServer.HTTPErrorHandler = apiv1.HTTPErrorHandler
	echoServer.Use(echomw.Recover())
	echoServer.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderContentType, middleware.APIKeyHeader},
	}))

	metrics := observability.NewMetrics(0)
	echoServer.Use(middleware.RequestLogger(slog.Default(), metrics))
	echoServer.Use(middleware.RateLimit(middleware.NewRateLimiter(profile.RateLimit, profile.RateBurst)))
	if profile.AuthKey != "" {
		echoServer.Use(middleware.APIKey(profile.AuthKey, apiv1.HealthzPath))
	} else {
		slog.Warn("auth-key is empty, the API is served without authentication")
	}

	apiv1.NewAPIV1Service(profile, scheduleService, metrics).RegisterRoutes(echoServer)
	s.echoServer = echoServer
	return s
}

// Start listens on the configured address and starts the background runners.
func (s *Server) Start(ctx context.Context) error {
	address := fmt.Sprintf("%s:%d", s.Profile.Addr, s.Profile.Port)
	listener, err := net.Listen("tcp", address)
	if err != nil {
		return errors.Wrapf(err, "failed to listen on %s", address)
	}
	s.echoServer.Listener = listener

	s.StartBackgroundRunners(ctx)

	go func() {
		if err := s.echoServer.Start(address); err != nil && err != http.ErrServerClosed {
			slog.Error("failed to start echo server", "error", err)
		}
	}()
	slog.Info("server started", "address", listener.Addr().String(), "version", s.Profile.Version, "mode", s.Profile.Mode)
	return nil
}

// StartBackgroundRunners starts the open shift watcher if one is configured.
func (s *Server) StartBackgroundRunners(ctx context.Context) {
	if s.watcher == nil {
		return
	}
	runnerCtx, cancel := context.WithCancel(ctx)
	s.runnerCancelFuncs = append(s.runnerCancelFuncs, cancel)
	go s.watcher.Run(runnerCtx)
	slog.Info("open shift watcher started")
}

// Shutdown stops the runners, then the HTTP server.
func (s *Server) Shutdown(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	for _, cancelRunner := range s.runnerCancelFuncs {
		cancelRunner()
	}
	if err := s.echoServer.Shutdown(ctx); err != nil {
		slog.Error("failed to shutdown server", "error", err)
	}
	slog.Info("server stopped properly")
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.echoServer
}
