package auth

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

const (
	// DefaultBcryptCost is the default cost for bcrypt hashing.
	// A cost of 12 provides good security while keeping hashing time reasonable.
	DefaultBcryptCost = 12
)

// ErrHashingBackend is returned when the hashing backend fails. This is an
// infrastructure failure, fatal to the calling request and never retried.
var ErrHashingBackend = errors.New("password hashing backend failure")

// PasswordHasher provides one-way password hashing and verification.
type PasswordHasher struct {
	cost int
}

// NewPasswordHasher creates a new PasswordHasher with default cost.
func NewPasswordHasher() *PasswordHasher {
	return &PasswordHasher{
		cost: DefaultBcryptCost,
	}
}

// NewPasswordHasherWithCost creates a PasswordHasher with an explicit cost.
// Costs below bcrypt's minimum are only appropriate in tests.
func NewPasswordHasherWithCost(cost int) *PasswordHasher {
	return &PasswordHasher{
		cost: cost,
	}
}

// Hash generates a salted bcrypt digest of the given password. The
// plaintext is never logged or returned.
func (h *PasswordHasher) Hash(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrHashingBackend, err)
	}
	return string(bytes), nil
}

// Verify checks if the provided password matches the digest using bcrypt's
// constant-time comparison. A malformed digest yields false, not an error.
func (h *PasswordHasher) Verify(password, digest string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(digest), []byte(password))
	return err == nil
}
