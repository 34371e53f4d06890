package handler // declare the package name; contains HTTP handlers

import (
    "context"  // the readiness probe gets a short deadline
    "log"      // probe failures are logged
    "net/http" // net/http provides status codes and response helpers
    "time"

    "github.com/labstack/echo/v4" // echo is the web framework used for this project
)

// Health returns the health-check endpoint used by load balancers and
// monitoring systems.  When ping is non-nil it is called with a 2s
// deadline and a failure answers 503; otherwise the endpoint always
// answers a plain text "ok".
func Health(ping func(context.Context) error) echo.HandlerFunc {
    return func(c echo.Context) error {
        if ping != nil {
            ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
            defer cancel()
            if err := ping(ctx); err != nil {
                log.Printf("health: store ping failed: %v", err)
                return c.String(http.StatusServiceUnavailable, "unavailable")
            }
        }
        return c.String(http.StatusOK, "ok") // String writes plain text
    }
}
