package config

import (
    "os"
    "strconv"
    "time"
)

// RateLimitConfig controls the Redis token-bucket limiter.  Capacity is the
// burst size, RefillTokens are added every RefillInterval, and TTL bounds how
// long idle buckets survive in Redis.  KeyStrategy picks which request
// attributes form the bucket key (ip, user, route or combinations).
type RateLimitConfig struct {
    Enabled        bool
    Capacity       int
    RefillTokens   int
    RefillInterval time.Duration
    TTL            time.Duration
    KeyStrategy    string
    Prefix         string
    Debug          bool
}

// LoadRateLimitConfig builds a RateLimitConfig from environment variables,
// falling back to defaults that allow short bursts of browsing while keeping
// vote and report spam in check.
func LoadRateLimitConfig() RateLimitConfig {
    def := RateLimitConfig{
        Enabled:        envBool("RATE_LIMIT_ENABLED", true),
        Capacity:       envInt("RATE_LIMIT_CAPACITY", 30),
        RefillTokens:   envInt("RATE_LIMIT_REFILL_TOKENS", 10),
        RefillInterval: envDur("RATE_LIMIT_REFILL_INTERVAL", 10*time.Second),
        TTL:            envDur("RATE_LIMIT_TTL", 10*time.Minute),
        KeyStrategy:    getenv("RATE_LIMIT_KEY_STRATEGY", "ip_route"),
        Prefix:         getenv("RATE_LIMIT_PREFIX", "smokes-rl"),
        Debug:          envBool("RATE_LIMIT_DEBUG", false),
    }
    return def
}

func envBool(key string, def bool) bool {
    v := os.Getenv(key)
    if v == "" {
        return def
    }
    b, err := strconv.ParseBool(v)
    if err != nil {
        return def
    }
    return b
}

func envInt(key string, def int) int {
    v := os.Getenv(key)
    if v == "" {
        return def
    }
    n, err := strconv.Atoi(v)
    if err != nil {
        return def
    }
    return n
}

func envDur(key string, def time.Duration) time.Duration {
    v := os.Getenv(key)
    if v == "" {
        return def
    }
    d, err := time.ParseDuration(v)
    if err != nil {
        return def
    }
    return d
}
