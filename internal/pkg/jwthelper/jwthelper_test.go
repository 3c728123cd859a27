package jwthelper_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mertdogan/sportspot-api/internal/pkg/jwthelper"
)

func TestGenerateAndParseToken(t *testing.T) {
	const signingKey = "test-signing-key"

	token, err := jwthelper.GenerateToken(signingKey, 42)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := jwthelper.ParseToken(signingKey, token)
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
	assert.NotNil(t, claims.ExpiresAt)
}

func TestParseTokenWrongKey(t *testing.T) {
	token, err := jwthelper.GenerateToken("right-key", 42)
	require.NoError(t, err)

	_, err = jwthelper.ParseToken("wrong-key", token)
	assert.Error(t, err)
}

func TestParseTokenGarbage(t *testing.T) {
	_, err := jwthelper.ParseToken("key", "not.a.token")
	assert.Error(t, err)
}
