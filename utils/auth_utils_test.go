package utils

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var secret = []byte("test-secret")

func TestAccessToken_RoundTrip(t *testing.T) {
	token, err := GenerateAccessToken(42, secret, time.Hour, time.Now())
	require.NoError(t, err)

	id, err := ParseAccessToken(token, secret)
	require.NoError(t, err)
	assert.Equal(t, uint(42), id)
}

func TestAccessToken_Rejects(t *testing.T) {
	expired, err := GenerateAccessToken(42, secret, time.Minute, time.Now().Add(-time.Hour))
	require.NoError(t, err)

	otherKey, err := GenerateAccessToken(42, []byte("other"), time.Hour, time.Now())
	require.NoError(t, err)

	// A password reset token must not pass as an access token.
	reset, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"reset_password": 42,
		"exp":            time.Now().Add(time.Hour).Unix(),
	}).SignedString(secret)
	require.NoError(t, err)

	for name, token := range map[string]string{
		"expired":     expired,
		"wrong key":   otherKey,
		"reset token": reset,
		"garbage":     "abc",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := ParseAccessToken(token, secret)
			assert.ErrorIs(t, err, ErrInvalidAccessToken)
		})
	}
}
