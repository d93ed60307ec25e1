package store

import (
	"context"
	"database/sql"

	"github.com/openbanca/bank-api/internal/domain"
)

// LoanStore defines loan persistence. Only reads are declared; the loan
// write path is not implemented anywhere (see the service stubs).
type LoanStore interface {
	// ListActiveForUser returns all active loans of the user.
	ListActiveForUser(ctx context.Context, userID int64) ([]domain.Loan, error)

	// WithTx returns a LoanStore bound to the given transaction.
	WithTx(tx *sql.Tx) LoanStore
}
