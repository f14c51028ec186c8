// Package cryptox holds the password hashing used for user records.
package cryptox

import (
	"crypto/subtle"
	"encoding/hex"

	"github.com/dmitrijs2005/valutatrade/internal/common"
	"golang.org/x/crypto/argon2"
)

// SaltSize is the number of random bytes in a salt; the stored form is hex.
const SaltSize = 8

const (
	argonTime    = 1
	argonMemory  = 64 * 1024
	argonThreads = 4
	argonKeyLen  = 32
)

// NewSalt returns a fresh random salt in hex form.
func NewSalt() (string, error) {
	return common.MakeRandHexString(SaltSize)
}

// HashPassword derives the stored hash of password with salt (argon2id, hex).
func HashPassword(password, salt string) string {
	key := argon2.IDKey([]byte(password), []byte(salt), argonTime, argonMemory, argonThreads, argonKeyLen)
	return hex.EncodeToString(key)
}

// VerifyPassword compares in constant time.
func VerifyPassword(hash, password, salt string) bool {
	candidate := HashPassword(password, salt)
	return subtle.ConstantTimeCompare([]byte(hash), []byte(candidate)) == 1
}
