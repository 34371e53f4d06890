package middleware // declare the middleware package; contains reusable HTTP middleware functions

import (
    "strings" // string utilities for prefix checking and trimming

    "github.com/labstack/echo/v4" // Echo framework used for defining middleware and handlers

    "github.com/iliyamo/homie-rental/internal/utils" // session token verification
)

// Identity returns an Echo middleware that reads an optional Bearer session
// token and, when it verifies against secret, stores the token's id claim
// on the context under "user_id".  Requests without a token or with an
// invalid one pass through anonymously: no route in this API requires
// authentication, the identity only refines rate-limit keys and logs.
func Identity(secret string) echo.MiddlewareFunc {
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            auth := c.Request().Header.Get(echo.HeaderAuthorization)
            if !strings.HasPrefix(auth, "Bearer ") {
                return next(c)
            }
            // Remove the "Bearer " prefix to obtain the raw token string.
            raw := strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
            if id, err := utils.ParseSessionToken(secret, raw); err == nil {
                c.Set(userIDKey, id)
            }
            return next(c)
        }
    }
}
