package services

import (
	"testing"

	"mealweek/config"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testTokenService(ttlHours int) *TokenService {
	return NewTokenService(config.Config{
		SessionSecret:   "test-secret-0123456789",
		SessionTTLHours: ttlHours,
	})
}

func TestTokenService(t *testing.T) {
	t.Run("Issued tokens validate back to the same user and session", func(t *testing.T) {
		service := testTokenService(24)
		userID := uuid.New()

		token, sessionID, err := service.IssueToken(userID)
		require.NoError(t, err)
		require.NotEmpty(t, token)
		require.NotEmpty(t, sessionID)

		parsedUser, parsedSession, err := service.ValidateToken(token)
		require.NoError(t, err)
		assert.Equal(t, userID, parsedUser)
		assert.Equal(t, sessionID, parsedSession)
	})

	t.Run("Each token carries a fresh session id", func(t *testing.T) {
		service := testTokenService(24)
		userID := uuid.New()

		_, first, err := service.IssueToken(userID)
		require.NoError(t, err)
		_, second, err := service.IssueToken(userID)
		require.NoError(t, err)
		assert.NotEqual(t, first, second)
	})

	t.Run("Tokens signed with a different secret are rejected", func(t *testing.T) {
		token, _, err := testTokenService(24).IssueToken(uuid.New())
		require.NoError(t, err)

		other := NewTokenService(config.Config{
			SessionSecret:   "a-different-secret",
			SessionTTLHours: 24,
		})
		_, _, err = other.ValidateToken(token)
		assert.Error(t, err)
	})

	t.Run("Expired tokens are rejected", func(t *testing.T) {
		service := testTokenService(-1)
		token, _, err := service.IssueToken(uuid.New())
		require.NoError(t, err)

		_, _, err = service.ValidateToken(token)
		assert.Error(t, err)
	})

	t.Run("Garbage input is rejected", func(t *testing.T) {
		_, _, err := testTokenService(24).ValidateToken("not-a-token")
		assert.Error(t, err)
	})
}
