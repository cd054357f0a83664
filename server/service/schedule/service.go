// Package schedule retrieves the employee's work schedule from the employer
// WFM API and derives the views served by the facade.
//
// Key features:
//   - TTL response caches per endpoint with deduplication of concurrent misses
//   - Credential validation and one-shot reacquisition before every fetch cycle
//   - Normalization of weekly payloads into offset-qualified shift segments
//   - Next shift, weekly summary, working-on and next-day-off derivations
//
// A Service owns its caches and store memo; nothing here is process-global.
package schedule

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/stekc/myTimeAPI/internal/clock"
	"github.com/stekc/myTimeAPI/internal/observability"
	"github.com/stekc/myTimeAPI/plugin/cache"
	"github.com/stekc/myTimeAPI/server/timezone"
)

// Option configures a Service.
type Option func(*service)

// WithClock sets the clock used for "now".
func WithClock(clk clock.Clock) Option {
	return func(s *service) {
		s.clock = clk
	}
}

// WithLocation sets the location schedule dates are interpreted in.
func WithLocation(loc *time.Location) Option {
	return func(s *service) {
		if loc != nil {
			s.loc = loc
		}
	}
}

// WithCacheTTL sets the lifetime of cached responses.
func WithCacheTTL(ttl time.Duration) Option {
	return func(s *service) {
		s.ttl = ttl
	}
}

// WithUpstreamTimeout bounds a shared upstream call or store lookup.
func WithUpstreamTimeout(d time.Duration) Option {
	return func(s *service) {
		if d > 0 {
			s.upstreamTimeout = d
		}
	}
}

// WithReacquireTimeout bounds a shared credential reacquisition.
func WithReacquireTimeout(d time.Duration) Option {
	return func(s *service) {
		if d > 0 {
			s.reacquireTimeout = d
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

type service struct {
	deps   Dependencies
	clock  clock.Clock
	loc    *time.Location
	ttl    time.Duration
	logger *slog.Logger

	upstreamTimeout  time.Duration
	reacquireTimeout time.Duration

	scheduleCache cache.Store[json.RawMessage]
	shiftCache    cache.Store[json.RawMessage]
	flight        singleflight.Group

	storesMu sync.RWMutex
	stores   map[string]*StoreInfo
	storeSF  singleflight.Group
}

// NewService creates a new schedule service.
func NewService(deps Dependencies, opts ...Option) Service {
	s := &service{
		deps:   deps,
		clock:  clock.Real(),
		loc:    time.Local,
		ttl:    cache.DefaultTTL,
		logger: slog.Default(),
		stores: make(map[string]*StoreInfo),

		upstreamTimeout:  DefaultUpstreamTimeout,
		reacquireTimeout: DefaultReacquireTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}

	s.scheduleCache = cache.NewTTLCache[json.RawMessage](endpointSchedule, s.ttl, s.clock)
	s.shiftCache = cache.NewTTLCache[json.RawMessage](endpointAvailableShifts, s.ttl, s.clock)
	return s
}

// log returns the service logger tagged with the request in ctx, if any.
func (s *service) log(ctx context.Context) *slog.Logger {
	return observability.LoggerFrom(ctx, s.logger)
}

func (s *service) now() time.Time {
	return s.clock.Now().In(s.loc)
}

func (s *service) Today() time.Time {
	return timezone.StartOfDay(s.clock.Now(), s.loc)
}

func (s *service) ClearCache() {
	s.scheduleCache.Clear()
	s.shiftCache.Clear()
	s.logger.Info("schedule cache cleared")
}

func (s *service) CacheStats() []cache.Stats {
	return []cache.Stats{s.scheduleCache.Stats(), s.shiftCache.Stats()}
}

// shared runs fn once for all concurrent callers of key. fn gets a context
// that keeps the caller's values but not its cancellation, bounded by
// timeout, so one caller going away does not fail the others. Each caller
// stops waiting when its own ctx is done.
func shared[T any](ctx context.Context, g *singleflight.Group, key string, timeout time.Duration, fn func(ctx context.Context) (T, error)) (T, bool, error) {
	ch := g.DoChan(key, func() (interface{}, error) {
		callCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), timeout)
		defer cancel()
		return fn(callCtx)
	})

	var zero T
	select {
	case res := <-ch:
		if res.Err != nil {
			return zero, res.Shared, res.Err
		}
		return res.Val.(T), res.Shared, nil
	case <-ctx.Done():
		return zero, false, transportError(ctx, key, ctx.Err())
	}
}
