package schedule

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stekc/myTimeAPI/server/internal/errors"
	"github.com/stekc/myTimeAPI/server/timezone"
)

func TestNormalizeWeek(t *testing.T) {
	env := newTestEnv(t)
	week := timezone.WeekOf(testNow(), 0)
	raw := weekPayload(week.Start, map[int][]testShift{
		1: {{start: "09:00:00", end: "17:00:00", job: "Cashier", extraJobs: []string{"Cart Attendant"}}},
		3: {
			{start: "06:00:00", end: "10:00:00", job: "Inbound"},
			{start: "14:00:00", end: "18:00:00", job: "Fulfillment"},
		},
	})

	days, err := env.svc.NormalizeWeek(context.Background(), json.RawMessage(raw))
	require.NoError(t, err)
	require.Len(t, days, 7)

	for i, day := range days {
		assert.Equal(t, timezone.AddDays(week.Start, i).Format(timezone.DateLayout), day.Date.Format(timezone.DateLayout))
	}
	assert.False(t, days[0].Working())
	assert.Empty(t, days[0].Segments)

	monday := days[1]
	require.Len(t, monday.Segments, 1)
	segment := monday.Segments[0]
	assert.Equal(t, "Cashier and Cart Attendant", segment.JobName)
	assert.Equal(t, "Cashier and Cart Attendant", monday.JobTitle())
	assert.Equal(t, 2, segment.TotalJobs)
	assert.Equal(t, "1234", segment.Location)
	assert.Equal(t, "2024-05-06T09:00:00-05:00", segment.Start.Format(time.RFC3339))
	assert.Equal(t, "2024-05-06T17:00:00-05:00", segment.End.Format(time.RFC3339))
	assert.Equal(t, 8*time.Hour, segment.Duration())
	require.NotNil(t, segment.Store)
	assert.Equal(t, "-05:00", segment.Store.TimezoneOffset)

	require.Len(t, days[3].Segments, 2)
	assert.Equal(t, "Inbound", days[3].Segments[0].JobName)
	assert.Equal(t, "Fulfillment", days[3].Segments[1].JobName)

	assert.Equal(t, 1, env.stores.lookups["1234"])
}

func TestNormalizeWeek_StoreMemo(t *testing.T) {
	env := newTestEnv(t)
	week := timezone.WeekOf(testNow(), 0)
	raw := weekPayload(week.Start, map[int][]testShift{
		1: {{start: "09:00:00", end: "17:00:00", job: "Cashier", location: "1234"}},
		2: {{start: "09:00:00", end: "17:00:00", job: "Cashier", location: "5678"}},
		3: {{start: "09:00:00", end: "17:00:00", job: "Cashier", location: "1234"}},
	})

	for i := 0; i < 3; i++ {
		_, err := env.svc.NormalizeWeek(context.Background(), json.RawMessage(raw))
		require.NoError(t, err)
	}
	assert.Equal(t, 1, env.stores.lookups["1234"])
	assert.Equal(t, 1, env.stores.lookups["5678"])

	// Clearing responses keeps store metadata.
	env.svc.ClearCache()
	_, err := env.svc.NormalizeWeek(context.Background(), json.RawMessage(raw))
	require.NoError(t, err)
	assert.Equal(t, 1, env.stores.lookups["1234"])
}

func TestNormalizeWeek_NumericLocation(t *testing.T) {
	env := newTestEnv(t)
	raw := `{"schedules":[
		{"schedule_date":"2024-05-05","total_display_segments":0,"display_segments":[]},
		{"schedule_date":"2024-05-06","total_display_segments":1,"display_segments":[
			{"location":1234,"segment_start":"2024-05-06 09:00:00","segment_end":"2024-05-06 13:00:00","job_name":"Cashier","total_jobs":1,"jobs":[{"job_path":"STORE/Cashier"}]}
		]},
		{"schedule_date":"2024-05-07","total_display_segments":0},
		{"schedule_date":"2024-05-08","total_display_segments":0},
		{"schedule_date":"2024-05-09","total_display_segments":0},
		{"schedule_date":"2024-05-10","total_display_segments":0},
		{"schedule_date":"2024-05-11","total_display_segments":0}
	]}`

	days, err := env.svc.NormalizeWeek(context.Background(), json.RawMessage(raw))
	require.NoError(t, err)
	require.Len(t, days[1].Segments, 1)
	assert.Equal(t, "1234", days[1].Segments[0].Location)
}

func TestNormalizeWeek_SchemaErrors(t *testing.T) {
	week := timezone.WeekOf(testNow(), 0)
	sixDays := `{"schedules":[` +
		`{"schedule_date":"2024-05-05","total_display_segments":0},` +
		`{"schedule_date":"2024-05-06","total_display_segments":0},` +
		`{"schedule_date":"2024-05-07","total_display_segments":0},` +
		`{"schedule_date":"2024-05-08","total_display_segments":0},` +
		`{"schedule_date":"2024-05-09","total_display_segments":0},` +
		`{"schedule_date":"2024-05-10","total_display_segments":0}`

	tests := []struct {
		name string
		raw  string
	}{
		{"not json", `<html>`},
		{"missing schedules", `{}`},
		{"six days", sixDays + `]}`},
		{"missing segment count", sixDays + `,{"schedule_date":"2024-05-11"}]}`},
		{"bad date", sixDays + `,{"schedule_date":"May 11","total_display_segments":0}]}`},
		{"count without segments", sixDays + `,{"schedule_date":"2024-05-11","total_display_segments":1,"display_segments":[]}]}`},
		{"short timestamp", sixDays + `,{"schedule_date":"2024-05-11","total_display_segments":1,"display_segments":[` +
			`{"location":"1234","segment_start":"09:00","segment_end":"2024-05-11 17:00:00","job_name":"Cashier","total_jobs":1}]}]}`},
		{"missing jobs", sixDays + `,{"schedule_date":"2024-05-11","total_display_segments":1,"display_segments":[` +
			`{"location":"1234","segment_start":"2024-05-11 09:00:00","segment_end":"2024-05-11 17:00:00","job_name":"Cashier","total_jobs":2,"jobs":[{"job_path":"STORE/Cashier"}]}]}]}`},
		{"missing location", sixDays + `,{"schedule_date":"2024-05-11","total_display_segments":1,"display_segments":[` +
			`{"segment_start":"2024-05-11 09:00:00","segment_end":"2024-05-11 17:00:00","job_name":"Cashier","total_jobs":1}]}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			_, err := env.svc.NormalizeWeek(context.Background(), json.RawMessage(tt.raw))
			require.Error(t, err)
			assert.True(t, errors.IsCode(err, errors.ErrCodeSchemaError), "got %v", err)
		})
	}

	// Sanity check that the shared prefix itself is well formed.
	env := newTestEnv(t)
	_, err := env.svc.NormalizeWeek(context.Background(), json.RawMessage(weekPayload(week.Start, nil)))
	require.NoError(t, err)
}

func TestNormalizeWeek_StoreLookupFails(t *testing.T) {
	env := newTestEnv(t)
	env.stores.err = assert.AnError
	week := timezone.WeekOf(testNow(), 0)
	raw := weekPayload(week.Start, map[int][]testShift{
		2: {{start: "09:00:00", end: "17:00:00", job: "Cashier"}},
	})

	_, err := env.svc.NormalizeWeek(context.Background(), json.RawMessage(raw))
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeUpstreamUnavailable))
}

func TestJobTitle(t *testing.T) {
	tests := []struct {
		name string
		seg  rawSegment
		want string
	}{
		{"single job", rawSegment{JobName: "Cashier", TotalJobs: 1}, "Cashier"},
		{"two jobs", rawSegment{JobName: "Cashier", TotalJobs: 2, Jobs: []rawJob{{"STORE/Cashier"}, {"STORE/FRONT/Cart Attendant"}}}, "Cashier and Cart Attendant"},
		{"three jobs", rawSegment{JobName: "Cashier", TotalJobs: 3, Jobs: []rawJob{{"Cashier"}, {"A/Guest Advocate"}, {"Cart Attendant"}}}, "Cashier and Guest Advocate and Cart Attendant"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := jobTitle(tt.seg)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDaySchedule_MarshalJSON(t *testing.T) {
	store := &StoreInfo{StoreID: "1234", Address: "100 Main St", TimezoneOffset: "-05:00"}
	day := &DaySchedule{Date: time.Date(2024, 5, 6, 0, 0, 0, 0, testLoc)}

	data, err := json.Marshal(day)
	require.NoError(t, err)
	assert.JSONEq(t, `{"date":"2024-05-06","shifts":[],"store_info":null}`, string(data))

	day.Segments = []*ShiftSegment{{
		Start:     time.Date(2024, 5, 6, 9, 0, 0, 0, testLoc),
		End:       time.Date(2024, 5, 6, 13, 0, 0, 0, testLoc),
		JobName:   "Cashier",
		Location:  "1234",
		TotalJobs: 1,
		Store:     store,
	}}
	data, err = json.Marshal(day)
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "2024-05-06", decoded["date"])
	assert.Len(t, decoded["shifts"], 1)
	assert.Equal(t, "1234", decoded["store_info"].(map[string]interface{})["store_id"])
}
