package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/homie-rental/internal/config"
	"github.com/iliyamo/homie-rental/internal/utils"
)

const secret = "middleware_test_secret"

func newEcho(mw ...echo.MiddlewareFunc) *echo.Echo {
	e := echo.New()
	e.Use(mw...)
	e.POST("/auth/login", func(c echo.Context) error {
		return c.String(http.StatusOK, UserID(c))
	})
	return e
}

func do(e *echo.Echo, header, value string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/auth/login", nil)
	if header != "" {
		req.Header.Set(header, value)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestIdentity(t *testing.T) {
	e := newEcho(Identity(secret))
	tok, err := utils.NewSessionToken(secret, "64d8eecb7483b6c5d29f1c34")
	require.NoError(t, err)

	rec := do(e, echo.HeaderAuthorization, "Bearer "+tok)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "64d8eecb7483b6c5d29f1c34", rec.Body.String())

	// invalid or missing tokens are anonymous, never rejected
	rec = do(e, echo.HeaderAuthorization, "Bearer nope")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Body.String())

	rec = do(e, "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func localConfig(capacity int) config.RateLimitConfig {
	return config.RateLimitConfig{
		Enabled:        true,
		Backend:        config.RateLimitLocal,
		Capacity:       capacity,
		RefillTokens:   1,
		RefillInterval: time.Minute,
		TTL:            10 * time.Minute,
		KeyStrategy:    "ip_route",
		Prefix:         "test",
	}
}

func TestTokenBucketLocal(t *testing.T) {
	e := newEcho(NewTokenBucket(localConfig(2), nil))

	for i := 0; i < 2; i++ {
		rec := do(e, echo.HeaderXRealIP, "10.0.0.1")
		require.Equal(t, http.StatusOK, rec.Code, "request %d", i)
		assert.Equal(t, "2", rec.Header().Get("X-RateLimit-Limit"))
	}

	rec := do(e, echo.HeaderXRealIP, "10.0.0.1")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))
	assert.Contains(t, rec.Body.String(), "too_many_requests")

	// another client has its own bucket
	rec = do(e, echo.HeaderXRealIP, "10.0.0.2")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestTokenBucketFallbacks(t *testing.T) {
	disabled := localConfig(1)
	disabled.Enabled = false
	e := newEcho(NewTokenBucket(disabled, nil))
	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusOK, do(e, "", "").Code)
	}

	// redis-only without a client turns the limiter off
	redisOnly := localConfig(1)
	redisOnly.Backend = config.RateLimitRedis
	e = newEcho(NewTokenBucket(redisOnly, nil))
	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusOK, do(e, "", "").Code)
	}

	// auto without a client limits in process
	auto := localConfig(1)
	auto.Backend = config.RateLimitAuto
	e = newEcho(NewTokenBucket(auto, nil))
	assert.Equal(t, http.StatusOK, do(e, "", "").Code)
	assert.Equal(t, http.StatusTooManyRequests, do(e, "", "").Code)
}

func TestBuildRateKeyUsesIdentity(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/auth/login", nil)
	req.Header.Set(echo.HeaderXRealIP, "1.2.3.4")
	c := e.NewContext(req, httptest.NewRecorder())
	c.SetPath("/auth/login")

	cfg := localConfig(1)
	cfg.KeyStrategy = "ip_user"
	assert.Equal(t, "test:ip:1.2.3.4:user:anon", buildRateKey(cfg, c))

	c.Set(userIDKey, "u1")
	assert.Equal(t, "test:ip:1.2.3.4:user:u1", buildRateKey(cfg, c))
}

func TestRequestLogSetsID(t *testing.T) {
	e := newEcho(RequestLog())

	rec := do(e, "", "")
	assert.Len(t, rec.Header().Get(echo.HeaderXRequestID), 36)

	rec = do(e, echo.HeaderXRequestID, "abc")
	assert.Equal(t, "abc", rec.Header().Get(echo.HeaderXRequestID))
}
