package middleware

import (
    "log"
    "time"

    "github.com/google/uuid"
    "github.com/labstack/echo/v4"
)

// RequestLog tags each request with an id (reusing an incoming
// X-Request-ID) and writes one access log line when it completes.
func RequestLog() echo.MiddlewareFunc {
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            req := c.Request()
            rid := req.Header.Get(echo.HeaderXRequestID)
            if rid == "" {
                rid = uuid.NewString()
            }
            c.Response().Header().Set(echo.HeaderXRequestID, rid)

            start := time.Now()
            err := next(c)
            if err != nil {
                // let the error handler write the response so the status is final
                c.Error(err)
            }
            log.Printf("http: %s %s status=%d dur=%s user=%s ip=%s rid=%s",
                req.Method, req.URL.Path, c.Response().Status,
                time.Since(start).Round(time.Microsecond), userOrAnon(c), c.RealIP(), rid)
            return nil
        }
    }
}
