package auth

import (
	"crypto/rand"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/rudoxe/Tunegie-sub001/internal/config"
	"github.com/rudoxe/Tunegie-sub001/internal/constants"
)

// PasswordHasher wraps bcrypt hashing with a configured work factor.
type PasswordHasher struct {
	Cost int
}

// DefaultPasswordHasher returns a hasher with the production work factor.
func DefaultPasswordHasher() *PasswordHasher {
	return &PasswordHasher{
		Cost: constants.DefaultBcryptCost,
	}
}

// HasherFromAppConfig creates a password hasher from the application config.
func HasherFromAppConfig(cfg *config.AppConfig) *PasswordHasher {
	cost := cfg.PasswordHash.BcryptCost
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = constants.DefaultBcryptCost
	}
	return &PasswordHasher{Cost: cost}
}

// HashPassword generates a bcrypt hash of the provided password.
// The cost parameter is embedded in the hash, so verification works
// even after the configured cost changes.
func (h *PasswordHasher) HashPassword(password string) (string, error) {
	// bcrypt silently truncates input beyond 72 bytes
	if len(password) > constants.MaxPasswordLength {
		return "", fmt.Errorf("password exceeds maximum length of %d bytes", constants.MaxPasswordLength)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), h.Cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}

	return string(hash), nil
}

// CheckPassword compares a password with a bcrypt hash.
// It returns only a boolean so callers cannot distinguish a malformed
// hash from a wrong password.
func (h *PasswordHasher) CheckPassword(password, encodedHash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(encodedHash), []byte(password)) == nil
}

// GenerateRandomBytes generates cryptographically secure random bytes
func GenerateRandomBytes(length int) ([]byte, error) {
	b := make([]byte, length)
	_, err := rand.Read(b)
	if err != nil {
		return nil, fmt.Errorf("failed to generate random bytes: %w", err)
	}
	return b, nil
}
