package utils

import (
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestSessionTokenRoundTrip(t *testing.T) {
	tok, err := NewSessionToken("s3cret", "64d8eecb7483b6c5d29f1c34")
	require.NoError(t, err)

	id, err := ParseSessionToken("s3cret", tok)
	require.NoError(t, err)
	assert.Equal(t, "64d8eecb7483b6c5d29f1c34", id)
}

func TestSessionTokenHasOnlyIDClaim(t *testing.T) {
	tok, err := NewSessionToken("s3cret", "abc")
	require.NoError(t, err)

	claims := jwt.MapClaims{}
	_, _, err = jwt.NewParser().ParseUnverified(tok, claims)
	require.NoError(t, err)
	assert.Equal(t, jwt.MapClaims{"id": "abc"}, claims)
}

func TestParseSessionTokenRejects(t *testing.T) {
	good, err := NewSessionToken("s3cret", "abc")
	require.NoError(t, err)
	noID, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "abc"}).SignedString([]byte("s3cret"))
	require.NoError(t, err)

	cases := map[string]struct{ secret, raw string }{
		"wrong secret": {"other", good},
		"garbage":      {"s3cret", "not.a.token"},
		"missing id":   {"s3cret", noID},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ParseSessionToken(tc.secret, tc.raw)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}

func TestNewSessionTokenEmptySecret(t *testing.T) {
	_, err := NewSessionToken("", "abc")
	assert.Error(t, err)
}

func TestHashPassword(t *testing.T) {
	h, err := HashPassword("hunter2", bcrypt.MinCost)
	require.NoError(t, err)
	assert.True(t, VerifyPassword(h, "hunter2"))
	assert.False(t, VerifyPassword(h, "hunter3"))

	// out-of-range cost is clamped rather than rejected
	h, err = HashPassword("x", 99)
	require.NoError(t, err)
	cost, err := bcrypt.Cost([]byte(h))
	require.NoError(t, err)
	assert.Equal(t, bcrypt.DefaultCost, cost)
}
