// Package openshift announces open shifts the first time they are posted.
package openshift

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/stekc/myTimeAPI/server/service/schedule"
	"github.com/stekc/myTimeAPI/server/timezone"
)

const (
	DefaultInterval  = 15 * time.Minute
	DefaultRetention = 60 * 24 * time.Hour
)

// ShiftSource lists the open shifts posted for the next weeks.
type ShiftSource interface {
	GetAvailableShifts(ctx context.Context, weeks int) ([]*schedule.AvailableShift, error)
}

// pruner is implemented by seen-shift stores that can forget old entries.
type pruner interface {
	PruneSeenShifts(ctx context.Context, retention time.Duration) (int64, error)
}

// Config tunes the watcher.
type Config struct {
	Interval time.Duration
	Weeks    int
	// Filter is a CEL expression, see Filter.
	Filter string
	// Retention bounds how long seen shifts are remembered.
	Retention time.Duration
}

type Runner struct {
	source    ShiftSource
	seen      schedule.SeenShiftStore
	sink      schedule.NotificationSink
	filter    *Filter
	interval  time.Duration
	weeks     int
	retention time.Duration
}

// NewRunner creates an open shift watcher. It fails when the filter does not compile.
func NewRunner(source ShiftSource, seen schedule.SeenShiftStore, sink schedule.NotificationSink, config Config) (*Runner, error) {
	filter, err := NewFilter(config.Filter)
	if err != nil {
		return nil, err
	}
	r := &Runner{
		source:    source,
		seen:      seen,
		sink:      sink,
		filter:    filter,
		interval:  config.Interval,
		weeks:     config.Weeks,
		retention: config.Retention,
	}
	if r.interval <= 0 {
		r.interval = DefaultInterval
	}
	if r.weeks <= 0 {
		r.weeks = schedule.DefaultScheduleWeeks
	}
	if r.retention <= 0 {
		r.retention = DefaultRetention
	}
	return r, nil
}

// Run checks once on startup, then on every interval until ctx is done.
func (r *Runner) Run(ctx context.Context) {
	r.check(ctx)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			r.check(ctx)
		case <-ctx.Done():
			slog.Info("open shift watcher stopped")
			return
		}
	}
}

func (r *Runner) check(ctx context.Context) {
	announced, err := r.RunOnce(ctx)
	if err != nil {
		slog.Error("open shift check failed", "error", err)
		return
	}
	if announced > 0 {
		slog.Info("announced open shifts", "count", announced)
	}
}

// RunOnce announces every unseen shift that passes the filter and returns how
// many were announced.
func (r *Runner) RunOnce(ctx context.Context) (int, error) {
	shifts, err := r.source.GetAvailableShifts(ctx, r.weeks)
	if err != nil {
		return 0, err
	}

	announced := 0
	for _, shift := range shifts {
		if err := ctx.Err(); err != nil {
			return announced, err
		}

		matched, err := r.filter.Match(shift)
		if err != nil {
			slog.Warn("skipping open shift", "id", shift.ID, "error", err)
			continue
		}
		if !matched {
			slog.Debug("open shift filtered out", "id", shift.ID, "filter", r.filter.String())
			continue
		}

		seen, err := r.seen.HasSeen(ctx, shift.ID)
		if err != nil {
			return announced, fmt.Errorf("failed to look up shift %s: %w", shift.ID, err)
		}
		if seen {
			continue
		}
		// Record before notifying: a shift is announced at most once.
		if err := r.seen.Record(ctx, shift.ID); err != nil {
			return announced, fmt.Errorf("failed to record shift %s: %w", shift.ID, err)
		}

		slog.Info("new open shift", "id", shift.ID, "job", shift.Job, "start", shift.Start)
		r.sink.Notify(ctx, Message(shift))
		announced++
	}

	if p, ok := r.seen.(pruner); ok {
		if pruned, err := p.PruneSeenShifts(ctx, r.retention); err != nil {
			slog.Warn("failed to prune seen shifts", "error", err)
		} else if pruned > 0 {
			slog.Debug("pruned seen shifts", "count", pruned)
		}
	}
	return announced, nil
}

// Message is the notification text for a newly posted shift.
func Message(shift *schedule.AvailableShift) string {
	return fmt.Sprintf("A new %s hour shift has been posted for %s from %s to %s for %s",
		strconv.FormatFloat(shift.Hours, 'f', -1, 64),
		shift.Start.Format(timezone.DateLayout),
		timezone.FormatNotificationTime(shift.Start),
		timezone.FormatNotificationTime(shift.End),
		shift.Job,
	)
}
