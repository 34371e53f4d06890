package handler // handler defines http handlers

import (
    "context"  // request-scoped deadlines for store calls
    "net/url"  // url unescapes raw path parameters
    "time"     // default timeout

    "github.com/labstack/echo/v4" // echo defines request context types
)

// defaultTimeout bounds store calls when a handler is built with a zero
// timeout.
const defaultTimeout = 5 * time.Second

// withTimeout derives the store context for one request.
func withTimeout(c echo.Context, d time.Duration) (context.Context, context.CancelFunc) {
    if d <= 0 {
        d = defaultTimeout
    }
    return context.WithTimeout(c.Request().Context(), d)
}

// pathParam returns the named parameter decoded.  Echo matches on the
// escaped path when the request carries one, leaving params escaped.
func pathParam(c echo.Context, name string) string {
    v := c.Param(name)
    if c.Request().URL.RawPath == "" {
        return v
    }
    if dec, err := url.PathUnescape(v); err == nil {
        return dec
    }
    return v
}

// errText renders err for the "error" field of a response body.
func errText(err error) string {
    if err == nil {
        return ""
    }
    return err.Error()
}
