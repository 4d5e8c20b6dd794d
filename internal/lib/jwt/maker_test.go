package jwt_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/membership-directory/internal/lib/jwt"
)

func TestMaker_GenerateAndParse(t *testing.T) {
	maker := jwt.NewJWTMaker("test-secret", time.Hour)

	token, err := maker.GenerateToken("user-uid-1", "MEMBER")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := maker.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-uid-1", claims.UserUID)
	assert.Equal(t, "MEMBER", claims.Role)
}

func TestMaker_WrongSecret(t *testing.T) {
	maker := jwt.NewJWTMaker("secret-a", time.Hour)
	other := jwt.NewJWTMaker("secret-b", time.Hour)

	token, err := maker.GenerateToken("user-uid-1", "ADMIN")
	require.NoError(t, err)

	_, err = other.ParseToken(token)
	assert.Error(t, err)
}

func TestMaker_ExpiredToken(t *testing.T) {
	maker := jwt.NewJWTMaker("test-secret", -time.Minute)

	token, err := maker.GenerateToken("user-uid-1", "MEMBER")
	require.NoError(t, err)

	_, err = maker.ParseToken(token)
	assert.Error(t, err)
}

func TestMaker_GarbageToken(t *testing.T) {
	maker := jwt.NewJWTMaker("test-secret", time.Hour)

	_, err := maker.ParseToken("not-a-token")
	assert.Error(t, err)
}
