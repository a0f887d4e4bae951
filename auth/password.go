/*
Package auth provides password hashing and stateless session tokens for the
API layer.

Passwords are hashed with bcrypt; sessions are HS256 JWTs carrying the user
id, email, and role. Tokens are verified on every request by the chi
middleware in middleware.go, so no session table is needed.
*/
package auth

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// bcryptCost is the work factor for password hashing. DefaultCost (10) keeps
// login latency reasonable on small instances.
const bcryptCost = bcrypt.DefaultCost

var ErrPasswordMismatch = errors.New("password does not match")

// HashPassword hashes a plaintext password with bcrypt.
func HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// CheckPassword compares a plaintext password against a stored bcrypt hash.
func CheckPassword(hash, password string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return ErrPasswordMismatch
	}
	return nil
}
