package service

import (
	"context"
	"database/sql"

	"github.com/openbanca/bank-api/internal/domain"
	"github.com/openbanca/bank-api/internal/store"
)

// Loan operations validate their inputs and authorize the caller, but the
// loan lifecycle itself is not elaborated yet: creation and closing have no
// effect and listing reflects whatever rows exist.
//
// TODO: implement loan elaboration (amortization, monthly rate and
// repayment-day bookkeeping) before exposing loans beyond the read path.

// GetLoans returns the active loans of the session's user. Users without
// loans get an empty list.
func (s *BankService) GetLoans(ctx context.Context, token string) ([]domain.Loan, error) {
	if err := s.validate(domain.ValidateToken(token)); err != nil {
		return nil, err
	}

	var loans []domain.Loan
	var bizErr error
	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		userID, err := s.authorize(ctx, tx, token)
		if err != nil {
			return trapStatus(err, &bizErr)
		}

		loans, err = s.loans.WithTx(tx).ListActiveForUser(ctx, userID)
		return err
	})
	if err != nil {
		return nil, err
	}
	if bizErr != nil {
		return nil, bizErr
	}
	if loans == nil {
		loans = []domain.Loan{}
	}
	return loans, nil
}

// CreateLoan validates a loan request and authorizes the caller without
// opening a loan. It always returns an empty list on success.
func (s *BankService) CreateLoan(ctx context.Context, token, deposit, name string, amountAsked int64, repaymentDay, loanType string) ([]domain.Loan, error) {
	if err := s.validate(
		domain.ValidateToken(token),
		domain.ValidateDepositName(deposit),
		domain.ValidateLoanName(name),
		domain.ValidateAmountBorrowed(amountAsked),
		domain.ValidateRepaymentDay(repaymentDay),
		domain.ValidateLoanType(loanType),
	); err != nil {
		return nil, err
	}

	var bizErr error
	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		if _, err := s.authorize(ctx, tx, token); err != nil {
			return trapStatus(err, &bizErr)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if bizErr != nil {
		return nil, bizErr
	}
	return []domain.Loan{}, nil
}

// CloseLoan validates a loan closure and authorizes the caller without
// touching any loan. It always returns an empty list on success.
func (s *BankService) CloseLoan(ctx context.Context, token, name string) ([]domain.Loan, error) {
	if err := s.validate(
		domain.ValidateToken(token),
		domain.ValidateLoanName(name),
	); err != nil {
		return nil, err
	}

	var bizErr error
	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		if _, err := s.authorize(ctx, tx, token); err != nil {
			return trapStatus(err, &bizErr)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if bizErr != nil {
		return nil, bizErr
	}
	return []domain.Loan{}, nil
}
