package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPassword(t *testing.T) {
	hash, err := HashPassword("secret1")
	require.NoError(t, err)
	assert.NotEqual(t, "secret1", hash)
	assert.True(t, CheckPasswordHash("secret1", hash))
	assert.False(t, CheckPasswordHash("secret2", hash))
}

func TestJWTRoundTrip(t *testing.T) {
	now := time.Now()
	token, err := GenerateJWT(42, true, "test-secret", time.Hour, now)
	require.NoError(t, err)

	claims, err := ParseJWT(token, "test-secret")
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
	assert.True(t, claims.IsAdmin)
}

func TestParseJWTRejects(t *testing.T) {
	token, err := GenerateJWT(1, false, "test-secret", time.Hour, time.Now())
	require.NoError(t, err)

	_, err = ParseJWT(token, "other-secret")
	assert.ErrorIs(t, err, ErrInvalidToken)

	expired, err := GenerateJWT(1, false, "test-secret", time.Hour, time.Now().Add(-2*time.Hour))
	require.NoError(t, err)
	_, err = ParseJWT(expired, "test-secret")
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = ParseJWT("not-a-token", "test-secret")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
