package cryptox

import (
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSalt_HexOfSaltSize(t *testing.T) {
	salt, err := NewSalt()
	require.NoError(t, err)
	assert.Len(t, salt, SaltSize*2)
	_, err = hex.DecodeString(salt)
	require.NoError(t, err)
}

func TestHashPassword_DeterministicPerSalt(t *testing.T) {
	h1 := HashPassword("pass1234", "00112233")
	h2 := HashPassword("pass1234", "00112233")
	h3 := HashPassword("pass1234", "44556677")

	assert.Equal(t, h1, h2)
	assert.NotEqual(t, h1, h3, "salt must change the hash")
	assert.Len(t, h1, argonKeyLen*2)
}

func TestVerifyPassword(t *testing.T) {
	salt := "a1b2c3d4e5f60718"
	hash := HashPassword("pass1234", salt)

	assert.True(t, VerifyPassword(hash, "pass1234", salt))
	assert.False(t, VerifyPassword(hash, "pass12345", salt))
	assert.False(t, VerifyPassword(hash, "pass1234", "0000000000000000"))
	assert.False(t, VerifyPassword("", "pass1234", salt))
}
