package authUtils_test

import (
	"testing"

	authUtils "campus-portal-be/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndParseToken(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	token, err := authUtils.GenerateToken("64f0c4b9a2d3e1f567890123", "admin")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	userID, role, err := authUtils.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, "64f0c4b9a2d3e1f567890123", userID)
	assert.Equal(t, "admin", role)
}

func TestParseTokenRejectsGarbage(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	_, _, err := authUtils.ParseToken("not-a-token")
	assert.Error(t, err)
}

func TestParseTokenRejectsWrongSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	token, err := authUtils.GenerateToken("64f0c4b9a2d3e1f567890123", "user")
	require.NoError(t, err)

	t.Setenv("JWT_SECRET", "other-secret")
	_, _, err = authUtils.ParseToken(token)
	assert.Error(t, err)
}

func TestGenerateTokenRequiresSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	_, err := authUtils.GenerateToken("64f0c4b9a2d3e1f567890123", "user")
	assert.Error(t, err)
}
