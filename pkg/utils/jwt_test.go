package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	SetSecret("test-secret")

	token, err := GenerateToken("editor-1", time.Hour)
	require.NoError(t, err)

	claims, err := ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "editor-1", claims.UserID)
}

func TestValidateTokenRejectsExpiredAndForeign(t *testing.T) {
	SetSecret("test-secret")

	expired, err := GenerateToken("editor-1", -time.Minute)
	require.NoError(t, err)
	_, err = ValidateToken(expired)
	assert.Error(t, err)

	valid, err := GenerateToken("editor-1", time.Hour)
	require.NoError(t, err)
	SetSecret("rotated")
	_, err = ValidateToken(valid)
	assert.Error(t, err)
}
