package constants

import (
	"time"
)

// Redis Cache Configuration
// This file centralizes all Redis cache keys and TTL values for La Unidad
// Pattern: launidad:{module}:{operation}:{identifier}:{params?}

// ================== CACHE TTL DURATIONS ==================

// Semi-Static Data (Medium TTL: changes occasionally)
const (
	TTL_SEMI_STATIC_SHORT = 1 * time.Hour    // 1 hour - for operator profiles
	TTL_SEMI_STATIC_QUICK = 15 * time.Minute // 15 minutes - for slot metadata
)

// Dynamic Data (Short TTL: changes frequently)
const (
	TTL_DYNAMIC_SHORT = 5 * time.Minute // 5 minutes - for occupancy tallies
)

// Highly Dynamic (Micro TTL: real-time sensitive)
const (
	TTL_REALTIME_SHORT = 30 * time.Second // 30 seconds - for live remaining counts
)

// ================== REDIS KEY PREFIXES ==================

const (
	CACHE_PREFIX = "launidad"
)

// ================== CALENDAR MODULE ==================

// Slot Cache Keys
const (
	CACHE_KEY_SLOT_LIST   = CACHE_PREFIX + ":calendar:slots:from:" // + YYYY-MM-DD
	CACHE_KEY_SLOT_DETAIL = CACHE_PREFIX + ":calendar:slot:uuid:"  // + slot-id
)

// Slot Cache TTLs. Remaining counts move with every sale, so the list
// stays on a real-time TTL.
const (
	TTL_SLOT_LIST   = TTL_REALTIME_SHORT
	TTL_SLOT_DETAIL = TTL_SEMI_STATIC_QUICK
)

// ================== TICKETS MODULE ==================

// Occupancy Cache Keys
const (
	CACHE_KEY_SLOT_TALLY = CACHE_PREFIX + ":tickets:tally:slot:" // + slot-id
)

const (
	TTL_SLOT_TALLY = TTL_DYNAMIC_SHORT
)

// ================== CACHE INVALIDATION PATTERNS ==================

const (
	PATTERN_INVALIDATE_SLOTS   = CACHE_PREFIX + ":calendar:*"
	PATTERN_INVALIDATE_TICKETS = CACHE_PREFIX + ":tickets:*"
)

// ================== HELPER FUNCTIONS ==================

// BuildSlotListKey constructs the upcoming-slots cache key for a reference date
func BuildSlotListKey(from string) string {
	return CACHE_KEY_SLOT_LIST + from
}

func BuildSlotDetailKey(slotID string) string {
	return CACHE_KEY_SLOT_DETAIL + slotID
}

func BuildSlotTallyKey(slotID string) string {
	return CACHE_KEY_SLOT_TALLY + slotID
}
