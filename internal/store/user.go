package store

import (
	"context"
	"database/sql"

	"github.com/openbanca/bank-api/internal/domain"
)

// UserStore defines user persistence. Lookups only see active rows; closed
// users stay in the table for referential integrity.
type UserStore interface {
	// Create inserts a new active user and returns the assigned id.
	// Returns ErrUsernameExists if an active user already holds the
	// username.
	Create(ctx context.Context, user *domain.User) (int64, error)

	// SetIBAN stores the IBAN derived from the assigned user id.
	SetIBAN(ctx context.Context, userID int64, iban string) error

	// GetActiveByUsername retrieves an active user by username.
	// Returns ErrUserNotFound if no active user matches.
	GetActiveByUsername(ctx context.Context, username string) (*domain.User, error)

	// GetByID retrieves a user by id regardless of lifecycle state.
	// Returns ErrUserNotFound if the user does not exist.
	GetByID(ctx context.Context, userID int64) (*domain.User, error)

	// Close marks the user closed. The row is never deleted.
	Close(ctx context.Context, userID int64) error

	// WithTx returns a UserStore bound to the given transaction.
	WithTx(tx *sql.Tx) UserStore
}
