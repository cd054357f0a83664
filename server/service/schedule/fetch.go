package schedule

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"net"
	"net/http"

	"golang.org/x/oauth2"

	"github.com/stekc/myTimeAPI/plugin/cache"
	"github.com/stekc/myTimeAPI/plugin/wfm"
	"github.com/stekc/myTimeAPI/server/internal/errors"
	"github.com/stekc/myTimeAPI/server/timezone"
)

// cacheKey returns "{endpoint}_{start}_{end}" with ISO dates.
func cacheKey(endpoint string, week timezone.WeekWindow) string {
	return endpoint + "_" + week.String()
}

func (s *service) FetchWeeklySchedule(ctx context.Context, token *oauth2.Token, week timezone.WeekWindow) (json.RawMessage, error) {
	return s.fetch(ctx, s.scheduleCache, endpointSchedule, week, func(ctx context.Context) (*wfm.Response, error) {
		return s.deps.Schedules.FetchWeek(ctx, token, week.Start, week.End)
	})
}

func (s *service) FetchAvailableShifts(ctx context.Context, token *oauth2.Token, week timezone.WeekWindow) (json.RawMessage, error) {
	return s.fetch(ctx, s.shiftCache, endpointAvailableShifts, week, func(ctx context.Context) (*wfm.Response, error) {
		return s.deps.Shifts.FetchAvailableShifts(ctx, token, week.Start, week.End)
	})
}

// fetch serves week from c, calling upstream on a miss. Only 200 responses
// are stored; concurrent misses for the same key share one upstream call,
// which outlives any single caller's cancellation.
func (s *service) fetch(
	ctx context.Context,
	c cache.Store[json.RawMessage],
	endpoint string,
	week timezone.WeekWindow,
	call func(ctx context.Context) (*wfm.Response, error),
) (json.RawMessage, error) {
	if err := week.Validate(); err != nil {
		return nil, errors.InvalidArgument(err.Error())
	}

	key := cacheKey(endpoint, week)
	if raw, ok := c.Get(key); ok {
		s.log(ctx).Debug("cache hit", "key", key)
		return raw, nil
	}
	s.log(ctx).Info("cache miss, fetching from API", "key", key)

	raw, joined, err := shared(ctx, &s.flight, key, s.upstreamTimeout, func(ctx context.Context) (json.RawMessage, error) {
		resp, err := call(ctx)
		if err != nil {
			return nil, transportError(ctx, endpoint, err)
		}
		if resp.StatusCode != http.StatusOK {
			return nil, errors.UpstreamUnavailable(endpoint, resp.StatusCode)
		}

		raw := json.RawMessage(resp.Body)
		c.Set(key, raw)
		return raw, nil
	})
	if err != nil {
		s.log(ctx).Error("fetch failed", "key", key, "error", err)
		return nil, err
	}
	if joined {
		s.log(ctx).Debug("shared in-flight fetch", "key", key)
	}
	return raw, nil
}

// transportError classifies a failed upstream round trip.
func transportError(ctx context.Context, endpoint string, err error) error {
	if stderrors.Is(err, context.Canceled) || stderrors.Is(ctx.Err(), context.Canceled) {
		return errors.ContextCanceled(err)
	}
	var netErr net.Error
	if stderrors.Is(err, context.DeadlineExceeded) || (stderrors.As(err, &netErr) && netErr.Timeout()) {
		return errors.Timeout("request to "+endpoint+" timed out", err).WithContext("endpoint", endpoint)
	}
	return errors.Wrap(err, errors.ErrCodeUpstreamUnavailable, "request to "+endpoint+" failed").WithContext("endpoint", endpoint)
}
