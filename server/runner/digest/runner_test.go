package digest

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stekc/myTimeAPI/server/internal/errors"
	"github.com/stekc/myTimeAPI/server/service/schedule"
)

var testLoc = time.FixedZone("UTC-5", -5*60*60)

type fakeSource struct {
	days  []*schedule.DaySchedule
	err   error
	weeks int
}

func (f *fakeSource) GetSchedule(_ context.Context, weeks int) ([]*schedule.DaySchedule, error) {
	f.weeks = weeks
	return f.days, f.err
}

type fakeSink struct {
	messages []string
}

func (f *fakeSink) Notify(_ context.Context, message string) {
	f.messages = append(f.messages, message)
}

func day(d int, jobs ...string) *schedule.DaySchedule {
	out := &schedule.DaySchedule{Date: time.Date(2024, 5, d, 0, 0, 0, 0, testLoc)}
	for i, job := range jobs {
		out.Segments = append(out.Segments, &schedule.ShiftSegment{
			Start:     time.Date(2024, 5, d, 9+i*6, 0, 0, 0, testLoc),
			End:       time.Date(2024, 5, d, 13+i*6, 0, 0, 0, testLoc),
			JobName:   job,
			Location:  "1234",
			TotalJobs: 1,
		})
	}
	return out
}

func TestRun(t *testing.T) {
	source := &fakeSource{days: []*schedule.DaySchedule{
		day(5),
		day(6, "Cashier and Cart Attendant"),
		day(7),
		day(8, "Inbound", "Fulfillment"),
	}}
	sink := &fakeSink{}

	sent, err := NewRunner(source, sink, 0).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, sent)
	assert.Equal(t, schedule.DefaultScheduleWeeks, source.weeks)
	assert.Equal(t, []string{
		"Shift on 2024-05-06 for Cashier and Cart Attendant from 2024-05-06T09:00:00-05:00 to 2024-05-06T13:00:00-05:00",
		"Shift on 2024-05-08 for Inbound from 2024-05-08T09:00:00-05:00 to 2024-05-08T13:00:00-05:00",
	}, sink.messages)
}

func TestRun_Error(t *testing.T) {
	source := &fakeSource{err: errors.Unauthenticated("authentication failed")}
	sink := &fakeSink{}

	sent, err := NewRunner(source, sink, 2).Run(context.Background())
	require.Error(t, err)
	assert.Zero(t, sent)
	assert.Empty(t, sink.messages)
	assert.Equal(t, 2, source.weeks)
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"ok", nil, ExitOK},
		{"unauthenticated", errors.Unauthenticated("authentication failed"), ExitUnauthorized},
		{"wrapped unauthenticated", fmt.Errorf("check: %w", errors.Unauthenticated("x")), ExitUnauthorized},
		{"forbidden", errors.Forbidden("no"), ExitUnauthorized},
		{"upstream", errors.UpstreamUnavailable("schedule", 500), ExitUpstream},
		{"schema", errors.SchemaError("bad", nil), ExitUpstream},
		{"other", assert.AnError, ExitUpstream},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExitCode(tt.err))
		})
	}
}
