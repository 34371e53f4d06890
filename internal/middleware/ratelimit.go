package middleware

import (
    "context"
    "fmt"
    "log"
    "math"
    "net/http"
    "strconv"
    "strings"
    "sync"
    "time"

    "github.com/labstack/echo/v4"
    "github.com/redis/go-redis/v9"
    "golang.org/x/time/rate"

    "github.com/iliyamo/homie-rental/internal/config"
)

// decision is the outcome of taking one token from a bucket.
type decision struct {
    allowed    bool
    remaining  int64
    retryAfter time.Duration
}

// bucketStore takes a token from the bucket identified by key.
type bucketStore interface {
    take(ctx context.Context, key string) (decision, error)
}

// NewTokenBucket returns a rate-limiting middleware.  Buckets live in Redis
// when rdb is available so all replicas share them, and in process memory
// otherwise (see config.RateLimitConfig.Backend).  Redis errors fail open.
func NewTokenBucket(cfg config.RateLimitConfig, rdb *redis.Client) echo.MiddlewareFunc {
    passthrough := func(next echo.HandlerFunc) echo.HandlerFunc { return next }
    if !cfg.Enabled {
        return passthrough
    }

    var store bucketStore
    switch {
    case cfg.Backend == config.RateLimitLocal:
        store = newLocalBuckets(cfg)
    case rdb != nil:
        store = newRedisBuckets(cfg, rdb)
    case cfg.Backend == config.RateLimitRedis:
        log.Printf("ratelimit: redis backend requested but unavailable; limiter disabled")
        return passthrough
    default:
        store = newLocalBuckets(cfg)
    }

    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            key := buildRateKey(cfg, c)
            d, err := store.take(c.Request().Context(), key)
            if err != nil {
                if cfg.Debug {
                    c.Logger().Warnf("[ratelimit] store error for key=%s: %v", key, err)
                }
                return next(c)
            }

            h := c.Response().Header()
            h.Set("X-RateLimit-Limit", strconv.Itoa(cfg.Capacity))
            h.Set("X-RateLimit-Remaining", strconv.FormatInt(d.remaining, 10))
            if cfg.Debug {
                h.Set("X-RateLimit-Key", key)
            }

            if !d.allowed {
                secs := int(math.Ceil(d.retryAfter.Seconds()))
                if secs < 0 {
                    secs = 0
                }
                h.Set("Retry-After", strconv.Itoa(secs))
                return c.JSON(http.StatusTooManyRequests, echo.Map{
                    "error":       "too_many_requests",
                    "message":     "rate limit exceeded",
                    "retry_after": secs,
                })
            }
            return next(c)
        }
    }
}

// ---- redis ----

// tokenBucketScript refills and takes atomically so concurrent replicas
// never overspend a bucket.
var tokenBucketScript = redis.NewScript(`
    local key = KEYS[1]
    local now_ms = tonumber(ARGV[1])
    local capacity = tonumber(ARGV[2])
    local refill_tokens = tonumber(ARGV[3])
    local interval_ms = tonumber(ARGV[4])
    local ttl_seconds = tonumber(ARGV[5])

    local state = redis.call('HMGET', key, 'tokens', 'last_refill_ms')
    local tokens = tonumber(state[1])
    local last_refill = tonumber(state[2])

    if tokens == nil or last_refill == nil then
        tokens = capacity
        last_refill = now_ms
    end

    if interval_ms > 0 and refill_tokens > 0 then
        local elapsed = math.max(0, now_ms - last_refill)
        local intervals = math.floor(elapsed / interval_ms)
        if intervals > 0 then
            tokens = math.min(capacity, tokens + (intervals * refill_tokens))
            last_refill = last_refill + (intervals * interval_ms)
        end
    end

    local allowed = 0
    local retry_after_ms = 0
    if tokens > 0 then
        allowed = 1
        tokens = tokens - 1
    else
        retry_after_ms = math.max(0, interval_ms - (now_ms - last_refill))
    end

    redis.call('HSET', key, 'tokens', tokens, 'last_refill_ms', last_refill)
    redis.call('EXPIRE', key, ttl_seconds)

    return { allowed, tokens, retry_after_ms }
`)

type redisBuckets struct {
    rdb *redis.Client
    cfg config.RateLimitConfig
}

func newRedisBuckets(cfg config.RateLimitConfig, rdb *redis.Client) *redisBuckets {
    return &redisBuckets{rdb: rdb, cfg: cfg}
}

func (r *redisBuckets) take(ctx context.Context, key string) (decision, error) {
    vals, err := tokenBucketScript.Run(ctx, r.rdb, []string{key},
        time.Now().UnixMilli(),
        r.cfg.Capacity,
        r.cfg.RefillTokens,
        r.cfg.RefillInterval.Milliseconds(),
        int64(r.cfg.TTL/time.Second),
    ).Int64Slice()
    if err != nil {
        return decision{}, err
    }
    if len(vals) != 3 {
        return decision{}, fmt.Errorf("unexpected script result: %v", vals)
    }
    return decision{
        allowed:    vals[0] == 1,
        remaining:  vals[1],
        retryAfter: time.Duration(vals[2]) * time.Millisecond,
    }, nil
}

// ---- in-process ----

type localBucket struct {
    lim      *rate.Limiter
    lastSeen time.Time
}

// localBuckets keeps one x/time/rate limiter per key and drops buckets
// idle for longer than the configured TTL.
type localBuckets struct {
    cfg       config.RateLimitConfig
    every     rate.Limit
    mu        sync.Mutex
    buckets   map[string]*localBucket
    lastSweep time.Time
}

func newLocalBuckets(cfg config.RateLimitConfig) *localBuckets {
    return &localBuckets{
        cfg:       cfg,
        every:     rate.Every(cfg.RefillInterval / time.Duration(cfg.RefillTokens)),
        buckets:   make(map[string]*localBucket),
        lastSweep: time.Now(),
    }
}

func (l *localBuckets) take(_ context.Context, key string) (decision, error) {
    now := time.Now()
    l.mu.Lock()
    defer l.mu.Unlock()

    if now.Sub(l.lastSweep) > l.cfg.TTL {
        for k, b := range l.buckets {
            if now.Sub(b.lastSeen) > l.cfg.TTL {
                delete(l.buckets, k)
            }
        }
        l.lastSweep = now
    }

    b, ok := l.buckets[key]
    if !ok {
        b = &localBucket{lim: rate.NewLimiter(l.every, l.cfg.Capacity)}
        l.buckets[key] = b
    }
    b.lastSeen = now

    res := b.lim.ReserveN(now, 1)
    if delay := res.DelayFrom(now); delay > 0 {
        res.CancelAt(now)
        return decision{allowed: false, retryAfter: delay}, nil
    }
    return decision{allowed: true, remaining: int64(b.lim.TokensAt(now))}, nil
}

func buildRateKey(cfg config.RateLimitConfig, c echo.Context) string {
    parts := []string{cfg.Prefix}
    ip := c.RealIP()
    if ip == "" {
        ip = "unknown"
    }
    uid := userOrAnon(c)
    route := c.Request().Method + " " + c.Path()

    switch strings.ToLower(cfg.KeyStrategy) {
    case "ip":
        parts = append(parts, "ip", ip)
    case "user":
        parts = append(parts, "user", uid)
    case "route":
        parts = append(parts, "route", route)
    case "ip_user":
        parts = append(parts, "ip", ip, "user", uid)
    case "ip_route":
        parts = append(parts, "ip", ip, "route", route)
    case "user_route":
        parts = append(parts, "user", uid, "route", route)
    default:
        parts = append(parts, "ip", ip, "user", uid, "route", route)
    }
    return strings.Join(parts, ":")
}
