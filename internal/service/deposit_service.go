package service

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/openbanca/bank-api/internal/domain"
	"github.com/openbanca/bank-api/internal/domain/errorcase"
	"github.com/openbanca/bank-api/internal/store"
)

// GetDeposits returns every active deposit of the session's user. A user
// with no active deposits is rejected with Forbidden.
func (s *BankService) GetDeposits(ctx context.Context, token string) ([]domain.Deposit, error) {
	if err := s.validate(domain.ValidateToken(token)); err != nil {
		return nil, err
	}

	var deposits []domain.Deposit
	var bizErr error
	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		userID, err := s.authorize(ctx, tx, token)
		if err != nil {
			return trapStatus(err, &bizErr)
		}

		deposits, err = s.deposits.WithTx(tx).ListActiveForUser(ctx, userID)
		if err != nil {
			return err
		}
		if len(deposits) == 0 {
			return trapStatus(s.status(errorcase.Forbidden), &bizErr)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if bizErr != nil {
		return nil, bizErr
	}
	return deposits, nil
}

// GetDeposit returns the named active deposit of the session's user. A name
// that does not match one of the user's active deposits is rejected with
// Forbidden.
func (s *BankService) GetDeposit(ctx context.Context, token, name string) (*domain.Deposit, error) {
	if err := s.validate(
		domain.ValidateToken(token),
		domain.ValidateDepositName(name),
	); err != nil {
		return nil, err
	}

	var deposit *domain.Deposit
	var bizErr error
	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		userID, err := s.authorize(ctx, tx, token)
		if err != nil {
			return trapStatus(err, &bizErr)
		}

		deposit, err = s.deposits.WithTx(tx).GetActiveByName(ctx, userID, name)
		if err != nil {
			if errors.Is(err, store.ErrDepositNotFound) {
				return trapStatus(s.status(errorcase.Forbidden), &bizErr)
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if bizErr != nil {
		return nil, bizErr
	}
	return deposit, nil
}

// CreateDeposit opens a new deposit for the session's user. The amount is
// optional and defaults to zero, except for saving deposits, which require
// an opening amount of at least the saving minimum. A second active deposit
// with the same name is rejected with AlreadyExist.
func (s *BankService) CreateDeposit(ctx context.Context, token, name, depositType string, amount *int64) (*domain.Deposit, error) {
	if err := s.validate(
		domain.ValidateToken(token),
		domain.ValidateDepositName(name),
		domain.ValidateDepositType(depositType),
	); err != nil {
		return nil, err
	}

	if domain.DepositType(depositType) == domain.DepositSaving {
		if amount == nil {
			return nil, s.status(errorcase.NullAttributes)
		}
		if *amount < domain.MinimumSavingAmount {
			return nil, s.status(errorcase.InvalidDepositAmount)
		}
	}
	var opening int64
	if amount != nil {
		opening = *amount
	}
	if err := s.validate(domain.ValidateDepositAmount(opening)); err != nil {
		return nil, err
	}

	var created *domain.Deposit
	var bizErr error
	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		userID, err := s.authorize(ctx, tx, token)
		if err != nil {
			return trapStatus(err, &bizErr)
		}

		deposit := &domain.Deposit{
			UserID: userID,
			Name:   name,
			Amount: opening,
			Type:   domain.DepositType(depositType),
			Status: domain.LifecycleActive,
		}
		depositID, err := s.deposits.WithTx(tx).Create(ctx, deposit)
		if err != nil {
			if errors.Is(err, store.ErrDepositNameExists) {
				return trapStatus(s.status(errorcase.AlreadyExist), &bizErr)
			}
			return err
		}

		deposit.ID = depositID
		created = deposit
		s.log.Info("deposit created",
			slog.Int64("deposit_id", depositID),
			slog.Int64("user_id", userID))
		return nil
	})
	if err != nil {
		return nil, err
	}
	if bizErr != nil {
		return nil, bizErr
	}
	return created, nil
}

// CloseDeposit closes the named deposit and merges its balance into the
// destination deposit, both owned by the session's user, in one atomic
// step. The destination is checked before the source: an unknown
// destination is InvalidDestinationDeposit, an unknown source Forbidden.
// It returns the user's active deposits after the merge.
func (s *BankService) CloseDeposit(ctx context.Context, token, name, destination string) ([]domain.Deposit, error) {
	if err := s.validate(
		domain.ValidateToken(token),
		domain.ValidateDepositName(name),
		domain.ValidateDepositName(destination),
	); err != nil {
		return nil, err
	}

	var remaining []domain.Deposit
	var bizErr error
	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		userID, err := s.authorize(ctx, tx, token)
		if err != nil {
			return trapStatus(err, &bizErr)
		}
		deposits := s.deposits.WithTx(tx)

		dest, err := deposits.GetActiveByName(ctx, userID, destination)
		if err != nil {
			if errors.Is(err, store.ErrDepositNotFound) {
				return trapStatus(s.status(errorcase.InvalidDestinationDeposit), &bizErr)
			}
			return err
		}
		source, err := deposits.GetActiveByName(ctx, userID, name)
		if err != nil {
			if errors.Is(err, store.ErrDepositNotFound) {
				return trapStatus(s.status(errorcase.Forbidden), &bizErr)
			}
			return err
		}

		if err := deposits.UpdateAmount(ctx, dest.ID, dest.Amount+source.Amount); err != nil {
			return err
		}
		if err := deposits.Close(ctx, source.ID); err != nil {
			return err
		}

		remaining, err = deposits.ListActiveForUser(ctx, userID)
		if err != nil {
			return err
		}

		s.log.Info("deposit closed",
			slog.Int64("deposit_id", source.ID),
			slog.Int64("destination_id", dest.ID),
			slog.Int64("user_id", userID))
		return nil
	})
	if err != nil {
		return nil, err
	}
	if bizErr != nil {
		return nil, bizErr
	}
	return remaining, nil
}

// UpdateDeposit applies a withdraw or deposit movement to the named deposit
// of the session's user and records the movement in the transaction log,
// atomically. A withdrawal below zero is rejected with GoingNegative and
// leaves no trace. It returns the deposit with its new balance.
func (s *BankService) UpdateDeposit(ctx context.Context, token, name, action string, amount int64) (*domain.Deposit, error) {
	if err := s.validate(
		domain.ValidateToken(token),
		domain.ValidateDepositName(name),
		domain.ValidateTransactionType(action),
		domain.ValidateTransactionAmount(amount),
	); err != nil {
		return nil, err
	}

	var updated *domain.Deposit
	var bizErr error
	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		userID, err := s.authorize(ctx, tx, token)
		if err != nil {
			return trapStatus(err, &bizErr)
		}
		deposits := s.deposits.WithTx(tx)

		deposit, err := deposits.GetActiveByName(ctx, userID, name)
		if err != nil {
			if errors.Is(err, store.ErrDepositNotFound) {
				return trapStatus(s.status(errorcase.NotFound), &bizErr)
			}
			return err
		}

		newAmount := deposit.Amount
		switch domain.TransactionType(action) {
		case domain.TransactionWithdraw:
			newAmount -= amount
		case domain.TransactionDeposit:
			newAmount += amount
		}
		if newAmount < 0 {
			return trapStatus(s.status(errorcase.GoingNegative), &bizErr)
		}

		if err := deposits.UpdateAmount(ctx, deposit.ID, newAmount); err != nil {
			return err
		}

		user, err := s.users.WithTx(tx).GetByID(ctx, userID)
		if err != nil {
			return err
		}
		movement := &domain.Transaction{
			DepositID: deposit.ID,
			Type:      domain.TransactionType(action),
			Amount:    amount,
			Author:    user.Name + " " + user.Surname,
		}
		if err := s.transactions.WithTx(tx).Create(ctx, movement); err != nil {
			return err
		}

		deposit.Amount = newAmount
		updated = deposit
		s.log.Info("deposit updated",
			slog.Int64("deposit_id", deposit.ID),
			slog.String("action", action),
			slog.Int64("amount", amount))
		return nil
	})
	if err != nil {
		return nil, err
	}
	if bizErr != nil {
		return nil, bizErr
	}
	return updated, nil
}

// GetHistory returns the movements of the named deposit in chronological
// order. A name that does not match one of the user's active deposits is
// rejected with Forbidden. A deposit without movements yields an empty
// list.
func (s *BankService) GetHistory(ctx context.Context, token, name string) ([]domain.Transaction, error) {
	if err := s.validate(
		domain.ValidateToken(token),
		domain.ValidateDepositName(name),
	); err != nil {
		return nil, err
	}

	var history []domain.Transaction
	var bizErr error
	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		userID, err := s.authorize(ctx, tx, token)
		if err != nil {
			return trapStatus(err, &bizErr)
		}

		deposit, err := s.deposits.WithTx(tx).GetActiveByName(ctx, userID, name)
		if err != nil {
			if errors.Is(err, store.ErrDepositNotFound) {
				return trapStatus(s.status(errorcase.Forbidden), &bizErr)
			}
			return err
		}

		history, err = s.transactions.WithTx(tx).ListForDeposit(ctx, deposit.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	if bizErr != nil {
		return nil, bizErr
	}
	if history == nil {
		history = []domain.Transaction{}
	}
	return history, nil
}
