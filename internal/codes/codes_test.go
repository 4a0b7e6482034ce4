package codes

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateVerificationCode(t *testing.T) {
	code, err := GenerateVerificationCode(VerificationCodeLength)
	require.NoError(t, err)
	assert.Len(t, code, VerificationCodeLength)
	for _, r := range code {
		assert.True(t, r >= '0' && r <= '9', "expected digit, got %q", r)
	}
}

func TestGenerateVerificationCode_OnlyDigits(t *testing.T) {
	for i := 0; i < 1000; i++ {
		code, err := GenerateVerificationCode(6)
		require.NoError(t, err)
		require.Len(t, code, 6)
		require.Equal(t, "", strings.Trim(code, "0123456789"))
	}
}

func TestGenerateRandomCode(t *testing.T) {
	code, err := GenerateRandomCode(RandomCodeLength)
	require.NoError(t, err)
	assert.Len(t, code, RandomCodeLength)
	for _, r := range code {
		assert.True(t, strings.ContainsRune(alphanumeric, r), "unexpected rune %q", r)
	}
}

func TestGenerateRandomCode_Varies(t *testing.T) {
	seen := make(map[string]struct{})
	for i := 0; i < 100; i++ {
		code, err := GenerateRandomCode(8)
		require.NoError(t, err)
		seen[code] = struct{}{}
	}
	// 100 draws from a 62^8 space colliding down to a handful would mean
	// the generator is broken.
	assert.Greater(t, len(seen), 95)
}

func TestGenerateSecretKey(t *testing.T) {
	key, err := GenerateSecretKey(32)
	require.NoError(t, err)
	assert.NotEmpty(t, key)
	assert.NotContains(t, key, "+")
	assert.NotContains(t, key, "/")
	assert.NotContains(t, key, "=")

	other, err := GenerateSecretKey(32)
	require.NoError(t, err)
	assert.NotEqual(t, key, other)
}

func TestInvalidLength(t *testing.T) {
	_, err := GenerateVerificationCode(0)
	assert.Error(t, err)
	_, err = GenerateRandomCode(-1)
	assert.Error(t, err)
}
