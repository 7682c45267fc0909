package auth

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// ErrEmptyPassword is returned when an empty secret is submitted for hashing.
var ErrEmptyPassword = errors.New("password must not be empty")

// HashPassword hashes a plaintext password with configured cost. bcrypt salts
// every call, so two hashes of the same input never compare equal as strings.
func HashPassword(password string, cost int) (string, error) {
	if password == "" {
		return "", ErrEmptyPassword
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// VerifyPassword reports whether plain matches hashed. bcrypt's comparison is
// constant-time; a malformed hash verifies as false instead of failing.
func VerifyPassword(hashed, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plain)) == nil
}
