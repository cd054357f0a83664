// Package digest sends one notification per scheduled day of the coming weeks.
package digest

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/stekc/myTimeAPI/server/internal/errors"
	"github.com/stekc/myTimeAPI/server/service/schedule"
	"github.com/stekc/myTimeAPI/server/timezone"
)

// Exit codes of the batch check.
const (
	ExitOK           = 0
	ExitUnauthorized = 1
	ExitUpstream     = 2
)

// ScheduleSource returns normalized days, current week first.
type ScheduleSource interface {
	GetSchedule(ctx context.Context, weeks int) ([]*schedule.DaySchedule, error)
}

type Runner struct {
	source ScheduleSource
	sink   schedule.NotificationSink
	weeks  int
}

func NewRunner(source ScheduleSource, sink schedule.NotificationSink, weeks int) *Runner {
	if weeks <= 0 {
		weeks = schedule.DefaultScheduleWeeks
	}
	return &Runner{
		source: source,
		sink:   sink,
		weeks:  weeks,
	}
}

// Run notifies every working day and returns the number of notifications sent.
// Days without a shift are skipped.
func (r *Runner) Run(ctx context.Context) (int, error) {
	start := time.Now()
	days, err := r.source.GetSchedule(ctx, r.weeks)
	if err != nil {
		slog.Error("schedule check failed", "weeks", r.weeks, "error", err)
		return 0, err
	}

	sent := 0
	for _, day := range days {
		if !day.Working() {
			slog.Debug("no shifts", "date", day.Date.Format(timezone.DateLayout))
			continue
		}
		r.sink.Notify(ctx, Message(day))
		sent++
	}

	slog.Info("schedule check complete", "weeks", r.weeks, "days", len(days), "notified", sent, "duration", time.Since(start))
	return sent, nil
}

// Message describes the first segment of day, e.g.
// "Shift on 2024-05-06 for Cashier from 2024-05-06T09:00:00-05:00 to 2024-05-06T17:00:00-05:00".
func Message(day *schedule.DaySchedule) string {
	segment := day.Segments[0]
	return fmt.Sprintf("Shift on %s for %s from %s to %s",
		day.Date.Format(timezone.DateLayout),
		day.JobTitle(),
		segment.Start.Format(time.RFC3339),
		segment.End.Format(time.RFC3339),
	)
}

// ExitCode maps the result of Run to the process exit status.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitOK
	case errors.IsCode(err, errors.ErrCodeUnauthenticated), errors.IsCode(err, errors.ErrCodeForbidden):
		return ExitUnauthorized
	default:
		return ExitUpstream
	}
}
