package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"golang.org/x/time/rate"

	"github.com/stekc/myTimeAPI/internal/clock"
)

// DefaultLimiterIdleTTL is how long a key's bucket is kept after its last request.
const DefaultLimiterIdleTTL = 10 * time.Minute

// RateLimiter keeps one token bucket per key. Buckets idle for longer than
// idleTTL are dropped by a sweep that runs at most once per idleTTL.
type RateLimiter struct {
	mu        sync.Mutex
	visitors  map[string]*visitor
	rps       rate.Limit
	burst     int
	idleTTL   time.Duration
	lastSweep time.Time
	clock     clock.Clock
}

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewRateLimiter creates a limiter allowing rps requests per second per key
// with the given burst. A non-positive rps disables limiting.
func NewRateLimiter(rps float64, burst int) *RateLimiter {
	limit := rate.Limit(rps)
	if rps <= 0 {
		limit = rate.Inf
	}
	if burst <= 0 {
		burst = 1
	}
	clk := clock.Real()
	return &RateLimiter{
		visitors:  make(map[string]*visitor),
		rps:       limit,
		burst:     burst,
		idleTTL:   DefaultLimiterIdleTTL,
		lastSweep: clk.Now(),
		clock:     clk,
	}
}

// getLimiter gets or creates a limiter for the given key.
func (rl *RateLimiter) getLimiter(key string, now time.Time) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	if now.Sub(rl.lastSweep) >= rl.idleTTL {
		rl.sweep(now)
	}

	v, ok := rl.visitors[key]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(rl.rps, rl.burst)}
		rl.visitors[key] = v
	}
	v.lastSeen = now
	return v.limiter
}

// sweep drops buckets idle for longer than idleTTL. Callers hold rl.mu.
func (rl *RateLimiter) sweep(now time.Time) {
	for key, v := range rl.visitors {
		if now.Sub(v.lastSeen) > rl.idleTTL {
			delete(rl.visitors, key)
		}
	}
	rl.lastSweep = now
}

// Len returns the number of tracked keys.
func (rl *RateLimiter) Len() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	return len(rl.visitors)
}

// Allow checks if a request is allowed for the given key.
func (rl *RateLimiter) Allow(key string) bool {
	now := rl.clock.Now()
	return rl.getLimiter(key, now).AllowN(now, 1)
}

// RateLimit rejects callers that exceed their per-IP budget with 429.
func RateLimit(rl *RateLimiter) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !rl.Allow(c.RealIP()) {
				return echo.NewHTTPError(http.StatusTooManyRequests, "Too many requests")
			}
			return next(c)
		}
	}
}
