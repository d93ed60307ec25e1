package postgres

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/openbanca/bank-api/internal/domain"
	"github.com/openbanca/bank-api/internal/platform/logger"
	"github.com/openbanca/bank-api/internal/store"
)

// LoanStore implements store.LoanStore using a PostgreSQL backend. Only the
// read path exists; nothing writes loans yet.
type LoanStore struct {
	db  store.DBTX
	log *slog.Logger
}

// NewLoanStore creates the PostgreSQL implementation of store.LoanStore.
// If log is nil, the default logger is used.
func NewLoanStore(db store.DBTX, log *slog.Logger) *LoanStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}
	return &LoanStore{
		db:  db,
		log: log.With(slog.String("component", "loan_store")),
	}
}

var _ store.LoanStore = (*LoanStore)(nil)

// ListActiveForUser implements store.LoanStore.ListActiveForUser.
func (s *LoanStore) ListActiveForUser(ctx context.Context, userID int64) ([]domain.Loan, error) {
	log := logger.FromContextOrDefault(ctx, s.log)

	query := `
		SELECT loan_id, user_id, deposit_id, name, amount_borrowed,
		       interest_rate, monthly_rate, repayment_day, type, status
		FROM loans
		WHERE user_id = $1 AND status = $2
		ORDER BY loan_id
	`
	rows, err := s.db.QueryContext(ctx, query, userID, string(domain.LifecycleActive))
	if err != nil {
		log.Error("failed to list loans",
			slog.String("error", err.Error()),
			slog.Int64("user_id", userID))
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var loans []domain.Loan
	for rows.Next() {
		var loan domain.Loan
		var loanType, status string
		var repaymentDay time.Time
		if err := rows.Scan(
			&loan.ID,
			&loan.UserID,
			&loan.DepositID,
			&loan.Name,
			&loan.AmountBorrowed,
			&loan.InterestRate,
			&loan.MonthlyRate,
			&repaymentDay,
			&loanType,
			&status,
		); err != nil {
			return nil, err
		}
		loan.Type = domain.LoanType(loanType)
		loan.Status = domain.Lifecycle(status)
		loan.RepaymentDay = domain.FormatTimestamp(repaymentDay)
		loans = append(loans, loan)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return loans, nil
}

// WithTx implements store.LoanStore.WithTx.
func (s *LoanStore) WithTx(tx *sql.Tx) store.LoanStore {
	return &LoanStore{db: tx, log: s.log}
}
