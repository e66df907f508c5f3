package password

import (
	"crypto/sha256"
	"encoding/hex"

	"golang.org/x/crypto/bcrypt"
)

const (
	// Cost is the bcrypt work factor for operator passwords
	Cost = 12

	// MinLength is the shortest acceptable operator password
	MinLength = 8
)

// Hash hashes an operator password with bcrypt
func Hash(plain string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(plain), Cost)
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

// Verify compares a plaintext password with a stored bcrypt hash
func Verify(plain, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}

// HashToken hashes a refresh token with SHA-256. Refresh tokens are already
// high-entropy, and bcrypt's 72-byte input cap would silently truncate them.
func HashToken(token string) string {
	hash := sha256.Sum256([]byte(token))
	return hex.EncodeToString(hash[:])
}

// Acceptable reports whether a plaintext password meets the policy
func Acceptable(plain string) bool {
	return len(plain) >= MinLength
}
