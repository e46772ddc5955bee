package auth

import (
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// ErrAlreadyHashed guards against hashing a stored hash a second time.
var ErrAlreadyHashed = errors.New("password is already a bcrypt hash")

// HashPassword hashes a plaintext password with configured cost. Callers invoke
// it once at the write boundary; stores never hash.
func HashPassword(password string, cost int) (string, error) {
	if looksHashed(password) {
		return "", ErrAlreadyHashed
	}
	if cost < bcrypt.MinCost {
		cost = bcrypt.DefaultCost
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// ComparePassword verifies a password against its hashed value.
func ComparePassword(hashed, plain string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plain))
}

func looksHashed(s string) bool {
	if len(s) != 60 {
		return false
	}
	_, err := bcrypt.Cost([]byte(s))
	return err == nil && strings.HasPrefix(s, "$2")
}
