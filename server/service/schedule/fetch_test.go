package schedule

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"

	"github.com/stekc/myTimeAPI/internal/observability"
	"github.com/stekc/myTimeAPI/plugin/cache"
	"github.com/stekc/myTimeAPI/server/internal/errors"
	"github.com/stekc/myTimeAPI/server/timezone"
)

func TestCacheKey(t *testing.T) {
	week := timezone.WeekOf(testNow(), 0)
	assert.Equal(t, "schedule_2024-05-05_2024-05-11", cacheKey(endpointSchedule, week))
	assert.Equal(t, "available_shifts_2024-05-05_2024-05-11", cacheKey(endpointAvailableShifts, week))
}

func TestFetchWeeklySchedule_CachesSuccess(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	token := &oauth2.Token{AccessToken: "current"}
	week := timezone.WeekOf(testNow(), 0)

	first, err := env.svc.FetchWeeklySchedule(ctx, token, week)
	require.NoError(t, err)
	second, err := env.svc.FetchWeeklySchedule(ctx, token, week)
	require.NoError(t, err)

	assert.JSONEq(t, string(first), string(second))
	assert.Equal(t, 1, env.schedules.totalCalls())
}

func TestFetchWeeklySchedule_FailureNotCached(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	token := &oauth2.Token{AccessToken: "current"}
	week := timezone.WeekOf(testNow(), 0)
	env.schedules.statuses = []int{http.StatusInternalServerError}

	_, err := env.svc.FetchWeeklySchedule(ctx, token, week)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeUpstreamUnavailable))
	assert.Equal(t, 0, env.svc.scheduleCache.Stats().Entries)

	// The next call goes upstream again and succeeds.
	_, err = env.svc.FetchWeeklySchedule(ctx, token, week)
	require.NoError(t, err)
	assert.Equal(t, 2, env.schedules.totalCalls())
	assert.Equal(t, 1, env.svc.scheduleCache.Stats().Entries)
}

func TestFetchWeeklySchedule_ExpiresAfterTTL(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	token := &oauth2.Token{AccessToken: "current"}
	week := timezone.WeekOf(testNow(), 0)

	_, err := env.svc.FetchWeeklySchedule(ctx, token, week)
	require.NoError(t, err)

	env.clock.Advance(cache.DefaultTTL)
	_, err = env.svc.FetchWeeklySchedule(ctx, token, week)
	require.NoError(t, err)
	assert.Equal(t, 1, env.schedules.totalCalls(), "entry is valid at exactly its expiry")

	env.clock.Advance(time.Second)
	_, err = env.svc.FetchWeeklySchedule(ctx, token, week)
	require.NoError(t, err)
	assert.Equal(t, 2, env.schedules.totalCalls())
}

func TestFetch_CacheIsolation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	token := &oauth2.Token{AccessToken: "current"}
	week := timezone.WeekOf(testNow(), 0)

	_, err := env.svc.FetchWeeklySchedule(ctx, token, week)
	require.NoError(t, err)
	raw, err := env.svc.FetchAvailableShifts(ctx, token, week)
	require.NoError(t, err)

	assert.JSONEq(t, `{"available_shifts":[]}`, string(raw))
	assert.Equal(t, 1, env.schedules.totalCalls())
	assert.Equal(t, 1, env.shifts.totalCalls())

	env.svc.ClearCache()
	assert.Equal(t, 0, env.svc.scheduleCache.Stats().Entries)
	assert.Equal(t, 0, env.svc.shiftCache.Stats().Entries)
}

func TestFetch_RejectsNonCanonicalWindow(t *testing.T) {
	env := newTestEnv(t)
	token := &oauth2.Token{AccessToken: "current"}
	week := timezone.WeekOf(testNow(), 0)

	tests := []struct {
		name   string
		window timezone.WeekWindow
	}{
		{"starts on Monday", timezone.WeekWindow{Start: timezone.AddDays(week.Start, 1), End: timezone.AddDays(week.End, 1)}},
		{"spans two weeks", timezone.WeekWindow{Start: week.Start, End: timezone.AddDays(week.End, 7)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.svc.FetchWeeklySchedule(context.Background(), token, tt.window)
			require.Error(t, err)
			assert.True(t, errors.IsCode(err, errors.ErrCodeInvalidArgument))
		})
	}
	assert.Equal(t, 0, env.schedules.totalCalls())
}

func TestFetch_ConcurrentMissesShareOneCall(t *testing.T) {
	env := newTestEnv(t)
	token := &oauth2.Token{AccessToken: "current"}
	week := timezone.WeekOf(testNow(), 0)
	env.schedules.gate = make(chan struct{})
	env.schedules.entered = make(chan struct{}, 1)

	const callers = 8
	var wg sync.WaitGroup
	errs := make(chan error, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := env.svc.FetchWeeklySchedule(context.Background(), token, week)
			errs <- err
		}()
	}

	<-env.schedules.entered
	time.Sleep(50 * time.Millisecond)
	close(env.schedules.gate)
	wg.Wait()
	close(errs)

	for err := range errs {
		require.NoError(t, err)
	}
	assert.Equal(t, 1, env.schedules.totalCalls())
}

func TestFetch_CanceledCallerDoesNotFailJoinedCaller(t *testing.T) {
	env := newTestEnv(t)
	token := &oauth2.Token{AccessToken: "current"}
	week := timezone.WeekOf(testNow(), 0)
	env.schedules.gate = make(chan struct{})
	env.schedules.entered = make(chan struct{}, 1)

	ctx, cancel := context.WithCancel(context.Background())
	first := make(chan error, 1)
	go func() {
		_, err := env.svc.FetchWeeklySchedule(ctx, token, week)
		first <- err
	}()
	<-env.schedules.entered

	second := make(chan error, 1)
	go func() {
		_, err := env.svc.FetchWeeklySchedule(context.Background(), token, week)
		second <- err
	}()
	time.Sleep(50 * time.Millisecond)

	cancel()
	err := <-first
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeContextCanceled))

	close(env.schedules.gate)
	require.NoError(t, <-second)
	assert.Equal(t, 1, env.schedules.totalCalls())

	// The shared call still populated the cache.
	_, err = env.svc.FetchWeeklySchedule(context.Background(), token, week)
	require.NoError(t, err)
	assert.Equal(t, 1, env.schedules.totalCalls())
}

func TestFetch_SharedCallIsBounded(t *testing.T) {
	env := newTestEnv(t)
	env.svc.upstreamTimeout = 20 * time.Millisecond
	env.schedules.gate = make(chan struct{})
	defer close(env.schedules.gate)

	_, err := env.svc.FetchWeeklySchedule(context.Background(), &oauth2.Token{AccessToken: "current"}, timezone.WeekOf(testNow(), 0))
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeTimeout))
	assert.Equal(t, 0, env.schedules.totalCalls())
}

func TestFetch_LogsCarryRequestID(t *testing.T) {
	env := newTestEnv(t)
	var buf bytes.Buffer
	env.svc.logger = slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	reqCtx := observability.NewRequestContextWithID(nil, "req-42", "GET", "/api/v1/schedule", "10.0.0.1")
	ctx := observability.WithRequestContext(context.Background(), reqCtx)

	_, err := env.svc.FetchWeeklySchedule(ctx, &oauth2.Token{AccessToken: "current"}, timezone.WeekOf(testNow(), 0))
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "cache miss, fetching from API")
	assert.Contains(t, buf.String(), "request_id=req-42")
}

func TestFetch_TransportErrors(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := transportError(ctx, endpointSchedule, context.Canceled)
	assert.True(t, errors.IsCode(err, errors.ErrCodeContextCanceled))

	err = transportError(context.Background(), endpointSchedule, context.DeadlineExceeded)
	assert.True(t, errors.IsCode(err, errors.ErrCodeTimeout))

	err = transportError(context.Background(), endpointSchedule, assert.AnError)
	assert.True(t, errors.IsCode(err, errors.ErrCodeUpstreamUnavailable))
	assert.ErrorIs(t, err, assert.AnError)
}
