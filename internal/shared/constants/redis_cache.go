package constants

import (
	"fmt"
	"time"
)

// Redis Cache Configuration
// This file centralizes the Redis keys and TTL values used by the frontend
// Pattern: boxoffice:{module}:{operation}:{identifier}

// ================== CACHE TTL DURATIONS ==================

// Backend data is authoritative, so everything cached here is short-lived
const (
	TTL_SEMI_STATIC_QUICK = 2 * time.Minute  // 2 minutes - for event details
	TTL_DYNAMIC_QUICK     = 30 * time.Second // 30 seconds - for event listings
)

// ================== REDIS KEY PREFIXES ==================

const (
	CACHE_PREFIX = "boxoffice"
)

// ================== EVENTS MODULE ==================

// Event Cache Keys
const (
	CACHE_KEY_EVENTS_LIST  = CACHE_PREFIX + ":events:list"
	CACHE_KEY_EVENT_DETAIL = CACHE_PREFIX + ":events:detail:id:" // + event-id
)

// Event Cache TTLs
const (
	TTL_EVENT_LIST   = TTL_DYNAMIC_QUICK     // 30 seconds
	TTL_EVENT_DETAIL = TTL_SEMI_STATIC_QUICK // 2 minutes
)

// ================== SESSIONS & RATE LIMITS ==================

const (
	SESSION_KEY_PREFIX    = CACHE_PREFIX + ":session:"
	RATE_LIMIT_KEY_PREFIX = CACHE_PREFIX + ":ratelimit"
)

// ================== CACHE INVALIDATION PATTERNS ==================

// Patterns for cache invalidation (used with Redis SCAN)
const (
	PATTERN_INVALIDATE_EVENT_ALL = CACHE_PREFIX + ":events:*"
)

// ================== HELPER FUNCTIONS ==================

// BuildEventDetailKey -> "boxoffice:events:detail:id:42"
func BuildEventDetailKey(eventID int64) string {
	return CACHE_KEY_EVENT_DETAIL + fmt.Sprintf("%d", eventID)
}
