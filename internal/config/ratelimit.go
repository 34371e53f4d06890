package config

import (
    "os"
    "strconv"
    "strings"
    "time"
)

// Rate limit backends.
const (
    RateLimitAuto  = "auto"  // Redis when reachable, otherwise in-process
    RateLimitRedis = "redis" // Redis only; limiter is off without it
    RateLimitLocal = "local" // in-process token buckets
)

// RateLimitConfig configures the token bucket guarding the /auth routes.
// A bucket holds Capacity tokens and gains RefillTokens every
// RefillInterval; idle buckets are forgotten after TTL.
type RateLimitConfig struct {
    Enabled        bool
    Backend        string
    Capacity       int
    RefillTokens   int
    RefillInterval time.Duration
    TTL            time.Duration
    KeyStrategy    string
    Prefix         string
    Debug          bool
}

func LoadRateLimitConfig() RateLimitConfig {
    def := RateLimitConfig{
        Enabled:        envBool("RATE_LIMIT_ENABLED", true),
        Backend:        strings.ToLower(envStr("RATE_LIMIT_BACKEND", RateLimitAuto)),
        Capacity:       envInt("RATE_LIMIT_CAPACITY", 20),
        RefillTokens:   envInt("RATE_LIMIT_REFILL_TOKENS", 1),
        RefillInterval: envDur("RATE_LIMIT_REFILL_INTERVAL", 3*time.Second),
        TTL:            envDur("RATE_LIMIT_TTL", 10*time.Minute),
        KeyStrategy:    envStr("RATE_LIMIT_KEY_STRATEGY", "ip_route"),
        Prefix:         envStr("RATE_LIMIT_PREFIX", "homie:rl"),
        Debug:          envBool("RATE_LIMIT_DEBUG", false),
    }
    return def.normalized()
}

// normalized clamps values the limiter cannot work with.
func (c RateLimitConfig) normalized() RateLimitConfig {
    switch c.Backend {
    case RateLimitAuto, RateLimitRedis, RateLimitLocal:
    default:
        c.Backend = RateLimitAuto
    }
    if c.Capacity < 1 {
        c.Capacity = 1
    }
    if c.RefillTokens < 1 {
        c.RefillTokens = 1
    }
    if c.RefillInterval <= 0 {
        c.RefillInterval = time.Second
    }
    if minTTL := 5 * c.RefillInterval; c.TTL < minTTL {
        c.TTL = minTTL
    }
    return c
}

func envStr(k, d string) string {
    if v := os.Getenv(k); v != "" {
        return v
    }
    return d
}

func envBool(k string, d bool) bool {
    switch strings.ToLower(os.Getenv(k)) {
    case "1", "true", "yes", "on":
        return true
    case "0", "false", "no", "off":
        return false
    }
    return d
}

func envInt(k string, d int) int {
    if n, err := strconv.Atoi(os.Getenv(k)); err == nil {
        return n
    }
    return d
}

func envDur(k string, d time.Duration) time.Duration {
    if dur, err := time.ParseDuration(os.Getenv(k)); err == nil {
        return dur
    }
    return d
}
