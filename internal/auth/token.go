package auth

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

const tokenByteLength = 32

// GenerateToken returns a hex-encoded opaque token with 256 bits of entropy
// from the OS CSPRNG. Used for email verification, password reset and
// invitation links. An error here means the entropy source is exhausted and
// is not recoverable by retrying.
func GenerateToken() (string, error) {
	bytes := make([]byte, tokenByteLength)
	if _, err := rand.Read(bytes); err != nil {
		return "", fmt.Errorf("auth: read random bytes: %w", err)
	}
	return hex.EncodeToString(bytes), nil
}
