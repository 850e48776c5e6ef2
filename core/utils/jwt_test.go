package utils

import (
	"testing"
	"time"

	"slotswapper/core/config"
	"slotswapper/core/constants"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadTestConfig(t *testing.T) {
	t.Helper()
	t.Setenv("JWT_SECRET", "test-secret")
	_, err := config.Load()
	require.NoError(t, err)
}

func TestGenerateAndParseToken(t *testing.T) {
	loadTestConfig(t)

	userID := uuid.New()
	email := "alice@example.com"

	token, err := GenerateToken(userID, &email, constants.TokenPurposeAccess, time.Hour)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := ValidateAndParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	require.NotNil(t, claims.Email)
	assert.Equal(t, email, *claims.Email)
	assert.Equal(t, constants.TokenPurposeAccess, claims.Purpose)
}

func TestParseExpiredToken(t *testing.T) {
	loadTestConfig(t)

	token, err := GenerateToken(uuid.New(), nil, constants.TokenPurposeAccess, -time.Minute)
	require.NoError(t, err)

	_, err = ValidateAndParseToken(token)
	assert.Error(t, err)
}

func TestParseGarbageToken(t *testing.T) {
	loadTestConfig(t)

	_, err := ValidateAndParseToken("not-a-token")
	assert.Error(t, err)
}
