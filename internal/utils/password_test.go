package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("s3cret", 4) // low cost keeps the test fast
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret", hash)

	assert.True(t, VerifyPassword(hash, "s3cret"))
	assert.False(t, VerifyPassword(hash, "S3cret"))
	assert.False(t, VerifyPassword(hash, ""))
}

func TestHashPasswordClampsBadCost(t *testing.T) {
	// A misconfigured cost falls back to the bcrypt default instead
	// of failing every signup.
	hash, err := HashPassword("s3cret", -1)
	require.NoError(t, err)
	assert.True(t, VerifyPassword(hash, "s3cret"))
}

func TestGenerateOTP(t *testing.T) {
	code, err := GenerateOTP(6)
	require.NoError(t, err)
	require.Len(t, code, 6)
	for _, r := range code {
		assert.True(t, r >= '0' && r <= '9', "OTP must be numeric, got %q", code)
	}

	// Vanishingly unlikely to collide; a stuck generator would.
	other, err := GenerateOTP(6)
	require.NoError(t, err)
	if code == other {
		third, err := GenerateOTP(6)
		require.NoError(t, err)
		assert.NotEqual(t, code, third)
	}
}
