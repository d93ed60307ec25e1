package store

import (
	"errors"
	"fmt"
)

// Common store errors. Entity-specific variants wrap the generic ones so
// callers can match either level with errors.Is.
var (
	// ErrNotFound is returned when a requested entity does not exist.
	ErrNotFound = errors.New("entity not found")

	// ErrDuplicate is returned when an operation would create a duplicate
	// of a unique entity.
	ErrDuplicate = errors.New("entity already exists")

	// ErrUserNotFound indicates no active user matched the lookup.
	ErrUserNotFound = fmt.Errorf("%w: user", ErrNotFound)

	// ErrSessionNotFound indicates no active session matched the token.
	ErrSessionNotFound = fmt.Errorf("%w: session", ErrNotFound)

	// ErrDepositNotFound indicates no active deposit matched the lookup.
	ErrDepositNotFound = fmt.Errorf("%w: deposit", ErrNotFound)

	// ErrUsernameExists indicates an active user already holds the username.
	ErrUsernameExists = fmt.Errorf("%w: username", ErrDuplicate)

	// ErrDepositNameExists indicates the caller already owns an active
	// deposit with that name.
	ErrDepositNameExists = fmt.Errorf("%w: deposit name", ErrDuplicate)
)

// IsNotFoundError checks if the error is any kind of "not found" error.
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsDuplicateError checks if the error is any kind of "duplicate" error.
func IsDuplicateError(err error) bool {
	return errors.Is(err, ErrDuplicate)
}
