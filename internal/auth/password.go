package auth

import (
	"golang.org/x/crypto/bcrypt"
)

// PasswordHasher wraps bcrypt with a fixed cost factor. Cost 10 keeps
// verification in the tens-of-milliseconds range on current hardware.
type PasswordHasher struct {
	cost int
}

func NewPasswordHasher(cost int) *PasswordHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &PasswordHasher{cost: cost}
}

func (h *PasswordHasher) Hash(plaintext string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), h.cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// Verify reports whether plaintext matches the stored hash. Callers must
// surface the same generic failure for a bad password as for an unknown
// account so the two cases are indistinguishable to a client.
func (h *PasswordHasher) Verify(plaintext, hashed string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plaintext)) == nil
}
