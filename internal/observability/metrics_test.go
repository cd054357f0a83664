package observability

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Snapshot(t *testing.T) {
	m := NewMetrics(10)
	m.RecordRequest("/api/v1/schedule")
	m.RecordDuration("/api/v1/schedule", 100*time.Millisecond)
	m.RecordRequest("/api/v1/schedule")
	m.RecordDuration("/api/v1/schedule", 300*time.Millisecond)
	m.RecordFailure("/api/v1/schedule")
	m.RecordRequest("/api/v1/summary")
	m.RecordDuration("/api/v1/summary", 50*time.Millisecond)

	s := m.Snapshot()
	assert.Equal(t, int64(3), s.RequestTotal)
	assert.Equal(t, int64(1), s.RequestFailed)
	assert.Equal(t, 3, s.DurationCount)
	assert.InDelta(t, 66.67, s.SuccessRate(), 0.01)

	require.Contains(t, s.Routes, "/api/v1/schedule")
	route := s.Routes["/api/v1/schedule"]
	assert.Equal(t, int64(2), route.RequestCount)
	assert.Equal(t, int64(1), route.ErrorCount)
	assert.Equal(t, int64(200), route.AverageDuration)
	assert.Equal(t, int64(100), s.P50LatencyMs)
	assert.Equal(t, int64(300), s.P95LatencyMs)

	assert.Equal(t, []string{"/api/v1/schedule", "/api/v1/summary"}, m.Routes())
}

func TestMetrics_DurationRing(t *testing.T) {
	m := NewMetrics(2)
	for i := 1; i <= 5; i++ {
		m.RecordDuration("r", time.Duration(i)*time.Millisecond)
	}
	assert.Equal(t, 2, m.Snapshot().DurationCount)
}

func TestMetrics_ConcurrentRecord(t *testing.T) {
	m := NewMetrics(100)
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			m.RecordRequest("r")
			m.RecordDuration("r", time.Millisecond)
		}()
	}
	wg.Wait()
	assert.Equal(t, int64(50), m.Snapshot().RequestTotal)
}

func TestMetrics_Reset(t *testing.T) {
	m := NewMetrics(0)
	m.RecordRequest("r")
	m.Reset()
	s := m.Snapshot()
	assert.Zero(t, s.RequestTotal)
	assert.Empty(t, s.Routes)
	assert.Equal(t, 100.0, s.SuccessRate())
}
