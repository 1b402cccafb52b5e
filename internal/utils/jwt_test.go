package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTRoundTrip(t *testing.T) {
	InitJWT("test-secret")

	token, err := GenerateJWT("user-1", "ana", true)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := ValidateJWT(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "ana", claims.Username)
	assert.True(t, claims.IsAdmin)
	assert.NotNil(t, claims.ExpiresAt)
}

func TestValidateJWTRejectsWrongSecret(t *testing.T) {
	InitJWT("secret-a")
	token, err := GenerateJWT("user-1", "ana", false)
	require.NoError(t, err)

	InitJWT("secret-b")
	_, err = ValidateJWT(token)
	assert.Error(t, err)
}

func TestGenerateJWTWithoutSecret(t *testing.T) {
	InitJWT("")
	_, err := GenerateJWT("user-1", "ana", false)
	assert.Error(t, err)
}
