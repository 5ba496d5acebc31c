package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	m := NewTokenManager("test-secret", time.Hour)
	token, err := m.GenerateAccessToken("alice", "Admin")
	require.NoError(t, err)

	claims, err := m.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "alice", claims.Username)
	assert.Equal(t, "Admin", claims.Role)
}

func TestTokenRejectsWrongSecretAndExpiry(t *testing.T) {
	m := NewTokenManager("test-secret", time.Hour)
	token, err := m.GenerateAccessToken("alice", "Staff")
	require.NoError(t, err)

	_, err = NewTokenManager("other-secret", time.Hour).ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	expired := NewTokenManager("test-secret", time.Minute)
	expired.now = func() time.Time { return time.Now().Add(-time.Hour) }
	old, err := expired.GenerateAccessToken("alice", "Staff")
	require.NoError(t, err)
	_, err = m.ValidateToken(old)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
