package store

import (
	"context"
	"database/sql"

	"github.com/openbanca/bank-api/internal/domain"
)

// DepositStore defines deposit persistence. Name uniqueness is scoped to a
// user's active deposits; a closed deposit frees its name.
type DepositStore interface {
	// Create inserts a new active deposit and returns the assigned id.
	// Returns ErrDepositNameExists if the owner already has an active
	// deposit with that name.
	Create(ctx context.Context, deposit *domain.Deposit) (int64, error)

	// GetActiveByName retrieves the owner's active deposit with the given
	// name. Returns ErrDepositNotFound if none matches.
	GetActiveByName(ctx context.Context, userID int64, name string) (*domain.Deposit, error)

	// ListActiveForUser returns all active deposits of the user.
	ListActiveForUser(ctx context.Context, userID int64) ([]domain.Deposit, error)

	// UpdateAmount sets the deposit balance.
	UpdateAmount(ctx context.Context, depositID int64, amount int64) error

	// Close marks the deposit closed. The row is never deleted.
	Close(ctx context.Context, depositID int64) error

	// CloseAllForUser closes every active deposit of the user. Extension
	// point for cascading user closure; not called by CloseUser today.
	CloseAllForUser(ctx context.Context, userID int64) error

	// WithTx returns a DepositStore bound to the given transaction.
	WithTx(tx *sql.Tx) DepositStore
}
