package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/openbanca/bank-api/internal/domain"
)

// SessionStore defines session persistence. All timestamps are produced by
// the store's own clock function so that TTL math and transaction
// timestamps share one time source.
type SessionStore interface {
	// Now returns the store clock.
	Now(ctx context.Context) (time.Time, error)

	// Create inserts a new active session for the user with the given
	// token; creation and last-updated timestamps are set to the store
	// clock.
	Create(ctx context.Context, token string, userID int64) error

	// DeactivateAllForUser closes every session of the user. Used on a new
	// login so at most one session per user stays active.
	DeactivateAllForUser(ctx context.Context, userID int64) error

	// GetActiveByToken retrieves an active session by token.
	// Returns ErrSessionNotFound if no active session matches.
	GetActiveByToken(ctx context.Context, token string) (*domain.Session, error)

	// Refresh sets last_updated to the store clock (sliding renewal).
	Refresh(ctx context.Context, token string) error

	// Deactivate closes the session.
	Deactivate(ctx context.Context, token string) error

	// WithTx returns a SessionStore bound to the given transaction.
	WithTx(tx *sql.Tx) SessionStore
}
