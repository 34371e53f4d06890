package utils // package utils provides helper functions for session tokens and hashing

import (
    "errors" // sentinel errors for token parsing
    "fmt"    // error wrapping

    "github.com/golang-jwt/jwt/v5" // JWT library for creating and verifying signed tokens
)

// ErrInvalidToken is returned by ParseSessionToken for any token that is
// malformed, signed with another key or algorithm, or missing the id claim.
var ErrInvalidToken = errors.New("invalid token")

// NewSessionToken builds and signs an HS256 JWT for a user.  The only
// claim is "id", the user's hex ObjectID.  The token carries no expiry:
// clients keep it until they log out.
func NewSessionToken(secret, userID string) (string, error) {
    if secret == "" {
        return "", errors.New("jwt secret is empty")
    }
    // MapClaims keeps the payload exactly {"id": "..."}; no registered claims.
    t := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"id": userID})
    return t.SignedString([]byte(secret))
}

// ParseSessionToken verifies raw with secret and returns the id claim.
func ParseSessionToken(secret, raw string) (string, error) {
    tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
        return []byte(secret), nil
    }, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
    if err != nil || !tok.Valid {
        return "", fmt.Errorf("%w: %v", ErrInvalidToken, err)
    }
    claims, ok := tok.Claims.(jwt.MapClaims)
    if !ok {
        return "", ErrInvalidToken
    }
    id, ok := claims["id"].(string)
    if !ok || id == "" {
        return "", ErrInvalidToken
    }
    return id, nil
}
