package config

import "time"

// CacheConfig defines settings for the Redis cache in front of the external
// country directory.  The full directory listing is identical for every
// traveler and changes rarely, so it is the one response worth caching.
// When Enabled is false or no Redis client is configured the directory is
// fetched from the external service on every request.
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
		TTL:     envDur("CACHE_TTL", 6*time.Hour),
		Prefix:  envStr("CACHE_PREFIX", "countries"),
	}
}
