// Package auth provides password hashing and verification for the banking
// service. Hashing is isolated behind small interfaces so the service layer
// and its tests never depend on bcrypt directly.
package auth

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// ErrPasswordMismatch is returned by Verifier.Compare when the supplied
// password does not match the stored hash.
var ErrPasswordMismatch = errors.New("password does not match")

// Hasher hashes plaintext passwords for storage.
type Hasher interface {
	// Hash returns the hash of the given password.
	Hash(password string) (string, error)
}

// Verifier checks a plaintext password against a stored hash.
type Verifier interface {
	// Compare returns nil when password matches hashedPassword and
	// ErrPasswordMismatch when it does not.
	Compare(hashedPassword, password string) error
}

// BcryptHasher implements Hasher using bcrypt.
type BcryptHasher struct {
	cost int
}

// NewBcryptHasher creates a BcryptHasher. A cost of 0 selects bcrypt's
// default cost.
func NewBcryptHasher(cost int) *BcryptHasher {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	return &BcryptHasher{cost: cost}
}

var _ Hasher = (*BcryptHasher)(nil)

// Hash implements Hasher.Hash.
func (h *BcryptHasher) Hash(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hashed), nil
}

// BcryptVerifier implements Verifier using bcrypt's constant-time compare.
type BcryptVerifier struct{}

// NewBcryptVerifier creates a BcryptVerifier.
func NewBcryptVerifier() *BcryptVerifier {
	return &BcryptVerifier{}
}

var _ Verifier = (*BcryptVerifier)(nil)

// Compare implements Verifier.Compare.
func (v *BcryptVerifier) Compare(hashedPassword, password string) error {
	err := bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
	if err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return ErrPasswordMismatch
		}
		return fmt.Errorf("failed to compare password: %w", err)
	}
	return nil
}
