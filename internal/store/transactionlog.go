package store

import (
	"context"
	"database/sql"

	"github.com/openbanca/bank-api/internal/domain"
)

// TransactionStore defines the append-only transaction record. Rows are
// never mutated or deleted.
type TransactionStore interface {
	// Create appends a transaction record; the timestamp is set by the
	// store clock.
	Create(ctx context.Context, transaction *domain.Transaction) error

	// ListForDeposit returns the deposit's transactions ordered by
	// timestamp, oldest first.
	ListForDeposit(ctx context.Context, depositID int64) ([]domain.Transaction, error)

	// WithTx returns a TransactionStore bound to the given transaction.
	WithTx(tx *sql.Tx) TransactionStore
}
