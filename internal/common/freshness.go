// Package common provides shared utilities for bistboard
package common

import "time"

// FreshnessFinancials is the default staleness threshold for cached
// quarterly statements; they move slowly.
const FreshnessFinancials = 24 * time.Hour

// IsFreshAt returns true if the given timestamp is within the TTL relative
// to the supplied clock.
func IsFreshAt(now, updated time.Time, ttl time.Duration) bool {
	if updated.IsZero() {
		return false
	}
	return now.Sub(updated) < ttl
}
