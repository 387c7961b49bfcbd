package common

import "time"

// Freshness TTLs for cached data components
const (
	FreshnessSnapshot = 1 * time.Hour
	FreshnessReport   = 1 * time.Hour
	FreshnessBars     = 6 * time.Hour
)

// IsFresh returns true if the given timestamp is within the TTL
func IsFresh(updated time.Time, ttl time.Duration) bool {
	if updated.IsZero() {
		return false
	}
	return time.Since(updated) < ttl
}
