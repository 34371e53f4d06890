package middleware

// identity.go defines helpers shared across middleware files for reading
// the caller identity that Identity stores on the Echo context.

import "github.com/labstack/echo/v4"

// userIDKey is the context key Identity uses for the caller's user id.
const userIDKey = "user_id"

// UserID returns the authenticated user's hex id, or "" for anonymous
// requests.
func UserID(c echo.Context) string {
    if s, ok := c.Get(userIDKey).(string); ok {
        return s
    }
    return ""
}

// userOrAnon is UserID with a placeholder suitable for keys and logs.
func userOrAnon(c echo.Context) string {
    if id := UserID(c); id != "" {
        return id
    }
    return "anon"
}
