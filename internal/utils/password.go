package utils

import (
	"golang.org/x/crypto/bcrypt" // Password hashing
)

// MaxPasswordBytes is the longest input bcrypt accepts
const MaxPasswordBytes = 72

// HashPassword generates a salted bcrypt digest of the password.
func HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// CheckPassword reports whether password matches the stored digest.
// Empty input on either side never matches.
func CheckPassword(password, digest string) bool {
	if password == "" || digest == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(password)) == nil
}
