// Package cache provides the time-windowed response cache that sits in front
// of the employer schedule endpoints.
package cache

// Store defines the cache contract consumed by the schedule fetch layer.
type Store[V any] interface {
	// Get returns the value for key if present and not expired.
	// An expired entry is removed as a side effect.
	Get(key string) (V, bool)

	// Set stores value under key with the cache's fixed TTL.
	// Existing entries are overwritten unconditionally.
	Set(key string, value V)

	// Clear removes all entries.
	Clear()

	// Stats reports the cache's counters.
	Stats() Stats
}
