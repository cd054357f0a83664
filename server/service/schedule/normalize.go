package schedule

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/stekc/myTimeAPI/server/internal/errors"
	"github.com/stekc/myTimeAPI/server/timezone"
)

// flexString accepts a JSON string or number.
type flexString string

func (f *flexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = flexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*f = flexString(n.String())
	return nil
}

type rawWeek struct {
	Schedules []rawDay `json:"schedules"`
}

type rawDay struct {
	ScheduleDate         string       `json:"schedule_date"`
	TotalDisplaySegments *int         `json:"total_display_segments"`
	DisplaySegments      []rawSegment `json:"display_segments"`
}

type rawSegment struct {
	Location     flexString `json:"location"`
	SegmentStart string     `json:"segment_start"`
	SegmentEnd   string     `json:"segment_end"`
	JobName      string     `json:"job_name"`
	TotalJobs    int        `json:"total_jobs"`
	Jobs         []rawJob   `json:"jobs"`
}

type rawJob struct {
	JobPath string `json:"job_path"`
}

func (s *service) NormalizeWeek(ctx context.Context, raw json.RawMessage) ([]*DaySchedule, error) {
	var week rawWeek
	if err := json.Unmarshal(raw, &week); err != nil {
		return nil, errors.SchemaError("weekly schedule is not valid JSON", err)
	}
	if len(week.Schedules) != timezone.DaysPerWeek {
		return nil, errors.SchemaError(fmt.Sprintf("expected %d schedule days, got %d", timezone.DaysPerWeek, len(week.Schedules)), nil)
	}

	var current *StoreInfo
	days := make([]*DaySchedule, 0, timezone.DaysPerWeek)
	for i, rd := range week.Schedules {
		date, err := timezone.ParseDate(rd.ScheduleDate, s.loc)
		if err != nil {
			return nil, errors.SchemaError(fmt.Sprintf("day %d has invalid schedule_date %q", i, rd.ScheduleDate), err)
		}
		if rd.TotalDisplaySegments == nil {
			return nil, errors.SchemaError(fmt.Sprintf("day %s is missing total_display_segments", rd.ScheduleDate), nil)
		}

		day := &DaySchedule{Date: date}
		if *rd.TotalDisplaySegments == 0 {
			days = append(days, day)
			continue
		}
		if len(rd.DisplaySegments) == 0 {
			return nil, errors.SchemaError(fmt.Sprintf("day %s reports %d segments but lists none", rd.ScheduleDate, *rd.TotalDisplaySegments), nil)
		}

		for _, rs := range rd.DisplaySegments {
			location := string(rs.Location)
			if location == "" {
				return nil, errors.SchemaError(fmt.Sprintf("segment on %s has no location", rd.ScheduleDate), nil)
			}
			if current == nil || current.StoreID != location {
				s.logger.Info("resolving store location", "store_id", location)
				if current, err = s.storeInfo(ctx, location); err != nil {
					return nil, err
				}
			}

			segment, err := normalizeSegment(rs, current)
			if err != nil {
				return nil, err
			}
			day.Segments = append(day.Segments, segment)
		}
		days = append(days, day)
	}
	return days, nil
}

func normalizeSegment(rs rawSegment, store *StoreInfo) (*ShiftSegment, error) {
	start, err := segmentTime(rs.SegmentStart, store.TimezoneOffset)
	if err != nil {
		return nil, err
	}
	end, err := segmentTime(rs.SegmentEnd, store.TimezoneOffset)
	if err != nil {
		return nil, err
	}
	title, err := jobTitle(rs)
	if err != nil {
		return nil, err
	}

	return &ShiftSegment{
		Start:     start,
		End:       end,
		JobName:   title,
		Location:  string(rs.Location),
		TotalJobs: rs.TotalJobs,
		Store:     store,
	}, nil
}

// segmentTime joins the date and time parts of a wall-clock timestamp with
// the store's UTC offset: "2024-05-05 09:00:00" becomes 2024-05-05T09:00:00-05:00.
func segmentTime(wall, offset string) (time.Time, error) {
	if len(wall) < len(timezone.WallClockLayout) {
		return time.Time{}, errors.SchemaError(fmt.Sprintf("segment timestamp %q is too short", wall), nil)
	}
	iso := wall[:len(timezone.DateLayout)] + "T" + wall[len(wall)-len("15:04:05"):] + offset
	t, err := time.Parse(time.RFC3339, iso)
	if err != nil {
		return time.Time{}, errors.SchemaError(fmt.Sprintf("segment timestamp %q is not parsable", iso), err)
	}
	return t, nil
}

// jobTitle appends the leaf of every additional job path to the first job name.
func jobTitle(rs rawSegment) (string, error) {
	if rs.JobName == "" {
		return "", errors.SchemaError("segment has no job_name", nil)
	}
	if rs.TotalJobs <= 1 {
		return rs.JobName, nil
	}
	if len(rs.Jobs) < rs.TotalJobs {
		return "", errors.SchemaError(fmt.Sprintf("segment reports %d jobs but lists %d", rs.TotalJobs, len(rs.Jobs)), nil)
	}

	var b strings.Builder
	b.WriteString(rs.JobName)
	for _, job := range rs.Jobs[1:rs.TotalJobs] {
		leaf := job.JobPath[strings.LastIndex(job.JobPath, "/")+1:]
		b.WriteString(" and ")
		b.WriteString(leaf)
	}
	return b.String(), nil
}

// storeInfo returns the memoized store metadata, looking it up once per store.
func (s *service) storeInfo(ctx context.Context, storeID string) (*StoreInfo, error) {
	s.storesMu.RLock()
	info, ok := s.stores[storeID]
	s.storesMu.RUnlock()
	if ok {
		return info, nil
	}

	info, _, err := shared(ctx, &s.storeSF, storeID, s.upstreamTimeout, func(ctx context.Context) (*StoreInfo, error) {
		info, err := s.deps.Stores.Lookup(ctx, storeID)
		if err != nil {
			s.logger.Error("store lookup failed", "store_id", storeID, "error", err)
			return nil, errors.Wrap(err, errors.ErrCodeUpstreamUnavailable, "failed to look up store "+storeID)
		}
		s.storesMu.Lock()
		s.stores[storeID] = info
		s.storesMu.Unlock()
		return info, nil
	})
	if err != nil {
		return nil, err
	}
	return info, nil
}
