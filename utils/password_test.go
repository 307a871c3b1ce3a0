package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("s3cret-pass")
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret-pass", hash)

	assert.True(t, CheckPasswordHash("s3cret-pass", hash))
	assert.False(t, CheckPasswordHash("wrong-pass", hash))
}

func TestGenerateRandomTokenLength(t *testing.T) {
	a := GenerateRandomToken(32)
	b := GenerateRandomToken(32)
	assert.Len(t, a, 32)
	assert.NotEqual(t, a, b)
}
