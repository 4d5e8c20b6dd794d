package password_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/membership-directory/internal/lib/password"
)

func TestGetHashAndCompare(t *testing.T) {
	hash, err := password.GetHash("correct horse battery")
	require.NoError(t, err)
	require.NotEmpty(t, hash)
	assert.NotEqual(t, "correct horse battery", hash)

	err = password.CompareHash(hash, "correct horse battery")
	assert.NoError(t, err)
}

func TestCompareHash_WrongPassword(t *testing.T) {
	hash, err := password.GetHash("correct horse battery")
	require.NoError(t, err)

	err = password.CompareHash(hash, "wrong password")
	assert.Error(t, err)
}

func TestGetHash_DifferentSalts(t *testing.T) {
	first, err := password.GetHash("same input")
	require.NoError(t, err)
	second, err := password.GetHash("same input")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}
