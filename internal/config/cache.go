package config

import (
	"time"
)

// CacheConfig defines settings for the seat-map response cache.  When
// Enabled is false or no Redis client is configured, caching is disabled.
// TTL is deliberately short: a stale seat map is only a display artifact
// (bookings always re-read the database), but it should still fade fast.
type CacheConfig struct {
	Enabled bool
	TTL     time.Duration
	Prefix  string
}

// LoadCacheConfig reads environment variables to build a CacheConfig.
// Defaults are used when variables are not set.
func LoadCacheConfig() CacheConfig {
	return CacheConfig{
		Enabled: envBool("CACHE_ENABLED", true),
		TTL:     envDur("CACHE_TTL", 5*time.Second),
		Prefix:  envStr("CACHE_PREFIX", "cache"),
	}
}
