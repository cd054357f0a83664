package v1

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/feeds"
	"github.com/labstack/echo/v4"

	"github.com/stekc/myTimeAPI/server/internal/errors"
	"github.com/stekc/myTimeAPI/server/service/schedule"
	"github.com/stekc/myTimeAPI/server/timezone"
)

var feedContentTypes = map[string]string{
	"atom": "application/atom+xml; charset=utf-8",
	"rss":  "application/rss+xml; charset=utf-8",
	"json": "application/feed+json; charset=utf-8",
}

// GetFeed publishes upcoming shifts as a feed for calendar and reader apps.
// GET /api/v1/feed?format=atom|rss|json&weeks=4
func (s *APIV1Service) GetFeed(c echo.Context) error {
	weeks, err := weeksParam(c, schedule.DefaultScheduleWeeks)
	if err != nil {
		return err
	}
	format := c.QueryParam("format")
	if format == "" {
		format = "atom"
	}
	contentType, ok := feedContentTypes[format]
	if !ok {
		return errors.InvalidArgument("format must be one of atom, rss, json")
	}

	days, err := s.ScheduleService.GetSchedule(c.Request().Context(), weeks)
	if err != nil {
		return err
	}
	feed := buildFeed(c.Scheme()+"://"+c.Request().Host+Prefix+"/schedule", days, s.ScheduleService.Today())

	var body string
	switch format {
	case "rss":
		body, err = feed.ToRss()
	case "json":
		body, err = feed.ToJSON()
	default:
		body, err = feed.ToAtom()
	}
	if err != nil {
		return fmt.Errorf("failed to render %s feed: %w", format, err)
	}
	return c.Blob(http.StatusOK, contentType, []byte(body))
}

// buildFeed lists the segments of today and later days.
func buildFeed(link string, days []*schedule.DaySchedule, today time.Time) *feeds.Feed {
	feed := &feeds.Feed{
		Title:       "Upcoming shifts",
		Link:        &feeds.Link{Href: link},
		Description: "Scheduled shifts from the employer schedule API",
		Created:     today,
	}

	for _, day := range days {
		if timezone.DaysBetween(today, day.Date) < 0 {
			continue
		}
		for _, segment := range day.Segments {
			feed.Items = append(feed.Items, &feeds.Item{
				Id:    fmt.Sprintf("shift-%s-%d", segment.Location, segment.Start.Unix()),
				Title: fmt.Sprintf("%s: %s", timezone.DayLabel(day.Date, today), segment.JobName),
				Link:  &feeds.Link{Href: link},
				Description: fmt.Sprintf("%s from %s to %s (%s hours paid)",
					segment.JobName,
					timezone.FormatClock(segment.Start),
					timezone.FormatClock(segment.End),
					fmt.Sprintf("%g", schedule.PaidHours(segment.Duration())),
				),
				Created: segment.Start,
			})
		}
	}
	if len(feed.Items) > 0 {
		feed.Updated = feed.Items[0].Created
	}
	return feed
}
