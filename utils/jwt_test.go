package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenManagerRoundTrip(t *testing.T) {
	m := NewTokenManager("secret", time.Hour)

	token, err := m.GenerateToken("user-1", "a@example.com")
	require.NoError(t, err)

	id, err := m.ExtractIDFromToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", id)
}

func TestTokenManagerRejectsForeignSignature(t *testing.T) {
	token, err := NewTokenManager("other", time.Hour).GenerateToken("user-1", "a@example.com")
	require.NoError(t, err)

	_, err = NewTokenManager("secret", time.Hour).ExtractIDFromToken(token)
	assert.Error(t, err)
}

func TestTokenManagerRejectsExpired(t *testing.T) {
	m := NewTokenManager("secret", -time.Minute)
	token, err := m.GenerateToken("user-1", "a@example.com")
	require.NoError(t, err)

	_, err = m.ExtractIDFromToken(token)
	assert.Error(t, err)
}

func TestHashTokenIsStable(t *testing.T) {
	assert.Equal(t, HashToken("abc"), HashToken("abc"))
	assert.NotEqual(t, HashToken("abc"), HashToken("abd"))
	assert.Len(t, HashToken("abc"), 64)
}
