package observability

import (
	"sort"
	"sync"
	"sync/atomic"
	"time"
)

// Metrics collects request counters and latencies per route.
type Metrics struct {
	mu sync.Mutex

	requestTotal  atomic.Int64
	requestFailed atomic.Int64

	routeMetrics map[string]*RouteMetrics

	// Ring of the most recent durations across all routes.
	durations    []time.Duration
	maxDurations int
}

// RouteMetrics represents metrics for a single route.
type RouteMetrics struct {
	requestCount  atomic.Int64
	totalDuration atomic.Int64 // milliseconds
	errorCount    atomic.Int64
}

// NewMetrics creates a new metrics collector.
func NewMetrics(maxDurations int) *Metrics {
	if maxDurations <= 0 {
		maxDurations = 1000
	}
	return &Metrics{
		routeMetrics: make(map[string]*RouteMetrics),
		durations:    make([]time.Duration, 0, maxDurations),
		maxDurations: maxDurations,
	}
}

// RecordRequest records a request.
func (m *Metrics) RecordRequest(route string) {
	m.requestTotal.Add(1)
	m.route(route).requestCount.Add(1)
}

// RecordFailure records a failed request.
func (m *Metrics) RecordFailure(route string) {
	m.requestFailed.Add(1)
	m.route(route).errorCount.Add(1)
}

// RecordDuration records a request duration.
func (m *Metrics) RecordDuration(route string, duration time.Duration) {
	m.route(route).totalDuration.Add(duration.Milliseconds())

	m.mu.Lock()
	if len(m.durations) >= m.maxDurations {
		m.durations = m.durations[1:]
	}
	m.durations = append(m.durations, duration)
	m.mu.Unlock()
}

// route gets or creates the metrics of a route.
func (m *Metrics) route(route string) *RouteMetrics {
	m.mu.Lock()
	defer m.mu.Unlock()

	rm, ok := m.routeMetrics[route]
	if !ok {
		rm = &RouteMetrics{}
		m.routeMetrics[route] = rm
	}
	return rm
}

// Routes returns every route that has been recorded, sorted.
func (m *Metrics) Routes() []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	routes := make([]string, 0, len(m.routeMetrics))
	for route := range m.routeMetrics {
		routes = append(routes, route)
	}
	sort.Strings(routes)
	return routes
}

// Reset resets all metrics (useful for testing).
func (m *Metrics) Reset() {
	m.requestTotal.Store(0)
	m.requestFailed.Store(0)

	m.mu.Lock()
	m.routeMetrics = make(map[string]*RouteMetrics)
	m.durations = make([]time.Duration, 0, m.maxDurations)
	m.mu.Unlock()
}

// Snapshot returns a snapshot of current metrics.
func (m *Metrics) Snapshot() *MetricsSnapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	routes := make(map[string]*RouteMetricsSnapshot, len(m.routeMetrics))
	for route, rm := range m.routeMetrics {
		snapshot := &RouteMetricsSnapshot{
			RequestCount:  rm.requestCount.Load(),
			TotalDuration: rm.totalDuration.Load(),
			ErrorCount:    rm.errorCount.Load(),
		}
		if snapshot.RequestCount > 0 {
			snapshot.AverageDuration = snapshot.TotalDuration / snapshot.RequestCount
		}
		routes[route] = snapshot
	}

	sorted := make([]time.Duration, len(m.durations))
	copy(sorted, m.durations)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	return &MetricsSnapshot{
		RequestTotal:  m.requestTotal.Load(),
		RequestFailed: m.requestFailed.Load(),
		Routes:        routes,
		DurationCount: len(sorted),
		P50LatencyMs:  percentile(sorted, 50).Milliseconds(),
		P95LatencyMs:  percentile(sorted, 95).Milliseconds(),
	}
}

func percentile(sorted []time.Duration, p int) time.Duration {
	if len(sorted) == 0 {
		return 0
	}
	idx := (len(sorted)*p+99)/100 - 1
	if idx < 0 {
		idx = 0
	}
	return sorted[idx]
}

// MetricsSnapshot represents a point-in-time snapshot of metrics.
type MetricsSnapshot struct {
	RequestTotal  int64                            `json:"request_total"`
	RequestFailed int64                            `json:"request_failed"`
	Routes        map[string]*RouteMetricsSnapshot `json:"routes"`
	DurationCount int                              `json:"duration_count"`
	P50LatencyMs  int64                            `json:"p50_latency_ms"`
	P95LatencyMs  int64                            `json:"p95_latency_ms"`
}

// RouteMetricsSnapshot represents metrics for a single route.
type RouteMetricsSnapshot struct {
	RequestCount    int64 `json:"request_count"`
	TotalDuration   int64 `json:"total_duration_ms"`
	ErrorCount      int64 `json:"error_count"`
	AverageDuration int64 `json:"average_duration_ms"`
}

// SuccessRate returns the success rate as a percentage (0-100).
func (s *MetricsSnapshot) SuccessRate() float64 {
	if s.RequestTotal == 0 {
		return 100.0
	}
	return float64(s.RequestTotal-s.RequestFailed) / float64(s.RequestTotal) * 100.0
}
