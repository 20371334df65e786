package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndParseToken(t *testing.T) {
	m := NewJWTManager("test-secret", "longnovel-ai")

	token, err := m.GenerateToken("tenant-1", "user-1", "admin", "access", time.Hour)
	require.NoError(t, err)

	claims, err := m.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, "tenant-1", claims.TenantID)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "admin", claims.Role)
	assert.Equal(t, "access", claims.Type)
	assert.Equal(t, "longnovel-ai", claims.Issuer)
}

func TestGenerateTokenPair(t *testing.T) {
	m := NewJWTManager("test-secret", "longnovel-ai")

	pair, err := m.GenerateTokenPair("tenant-1", "user-1", "writer", time.Hour, 24*time.Hour)
	require.NoError(t, err)

	access, err := m.ParseToken(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "access", access.Type)

	refresh, err := m.ParseToken(pair.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, "refresh", refresh.Type)
}

func TestParseToken_Expired(t *testing.T) {
	m := NewJWTManager("test-secret", "longnovel-ai")

	token, err := m.GenerateToken("tenant-1", "user-1", "writer", "access", -time.Minute)
	require.NoError(t, err)

	_, err = m.ParseToken(token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestParseToken_WrongSecret(t *testing.T) {
	token, err := NewJWTManager("secret-a", "iss").GenerateToken("t", "u", "r", "access", time.Hour)
	require.NoError(t, err)

	_, err = NewJWTManager("secret-b", "iss").ParseToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
