package domain

import (
	"time"

	"github.com/openbanca/bank-api/internal/domain/errorcase"
)

// TokenLength is the exact length of a session token (36-char UUID).
const TokenLength = 36

// Session binds a token to a user. At most one session per user is active;
// a new login supersedes every prior one. Both timestamps come from the
// store clock, never the application clock, so TTL math stays on a single
// time source.
type Session struct {
	Token             string    `json:"token"`
	UserID            int64     `json:"-"`
	CreationTimestamp time.Time `json:"-"`
	LastUpdated       time.Time `json:"-"`
	Status            Lifecycle `json:"-"`
}

// ValidateToken checks the exact 36-char token length, max bound first.
func ValidateToken(token string) errorcase.Code {
	if len(token) > TokenLength {
		return errorcase.ExceedingMaxLength
	}
	if len(token) < TokenLength {
		return errorcase.ExceedingMinLength
	}
	return errorcase.Success
}

// ValidateCreationTimestamp checks the session creation timestamp format.
func ValidateCreationTimestamp(timestamp string) errorcase.Code {
	return ValidateTimestamp(timestamp)
}

// ValidateLastUpdated checks the session renewal timestamp format.
func ValidateLastUpdated(timestamp string) errorcase.Code {
	return ValidateTimestamp(timestamp)
}
