// Package auth provides password hashing and session token handling.
package auth

import "golang.org/x/crypto/bcrypt"

// HashPassword hashes a plaintext secret with bcrypt.
func HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// CheckPassword compares a plaintext secret against a stored bcrypt hash.
// It returns false for any mismatch, including a malformed stored hash.
func CheckPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
