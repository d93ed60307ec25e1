package service

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/openbanca/bank-api/internal/domain"
	"github.com/openbanca/bank-api/internal/domain/errorcase"
	"github.com/openbanca/bank-api/internal/service/auth"
	"github.com/openbanca/bank-api/internal/store"
)

// Authenticate verifies the credentials and opens a fresh session for the
// user, returning its token. Any previous session of the same user is
// deactivated so at most one session per user is active.
//
// An unknown username and a wrong password produce the same rejection, so a
// caller cannot probe which usernames exist.
func (s *BankService) Authenticate(ctx context.Context, username, password string) (string, error) {
	if err := s.validate(
		domain.ValidateUsername(username),
		domain.ValidatePassword(password),
	); err != nil {
		return "", err
	}

	var token string
	var bizErr error
	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		users := s.users.WithTx(tx)
		sessions := s.sessions.WithTx(tx)

		user, err := users.GetActiveByUsername(ctx, username)
		if err != nil {
			if errors.Is(err, store.ErrUserNotFound) {
				return trapStatus(s.status(errorcase.NotFound), &bizErr)
			}
			return err
		}

		if err := s.verifier.Compare(user.HashedPassword, password); err != nil {
			if errors.Is(err, auth.ErrPasswordMismatch) {
				return trapStatus(s.status(errorcase.NotFound), &bizErr)
			}
			return err
		}

		if err := sessions.DeactivateAllForUser(ctx, user.ID); err != nil {
			return err
		}
		token = s.newToken()
		if err := sessions.Create(ctx, token, user.ID); err != nil {
			return err
		}

		s.log.Info("user authenticated", slog.Int64("user_id", user.ID))
		return nil
	})
	if err != nil {
		return "", err
	}
	if bizErr != nil {
		return "", bizErr
	}
	return token, nil
}

// CreateUser registers a new user and assigns the IBAN derived from the
// generated user ID. It returns the created user.
func (s *BankService) CreateUser(ctx context.Context, username, password, name, surname string) (*domain.User, error) {
	if err := s.validate(
		domain.ValidateUsername(username),
		domain.ValidatePassword(password),
		domain.ValidateName(name),
		domain.ValidateSurname(surname),
	); err != nil {
		return nil, err
	}

	hashedPassword, err := s.hasher.Hash(password)
	if err != nil {
		return nil, err
	}

	var created *domain.User
	var bizErr error
	err = store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		users := s.users.WithTx(tx)

		user := &domain.User{
			Username:       username,
			HashedPassword: hashedPassword,
			Name:           name,
			Surname:        surname,
			Status:         domain.LifecycleActive,
		}
		userID, err := users.Create(ctx, user)
		if err != nil {
			if errors.Is(err, store.ErrUsernameExists) {
				return trapStatus(s.status(errorcase.AlreadyExist), &bizErr)
			}
			return err
		}

		user.ID = userID
		user.IBAN = domain.BuildIBAN(userID)
		if err := users.SetIBAN(ctx, userID, user.IBAN); err != nil {
			return err
		}

		created = user
		s.log.Info("user created", slog.Int64("user_id", userID))
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

// GetUser returns the profile of the user owning the session token.
func (s *BankService) GetUser(ctx context.Context, token string) (*domain.User, error) {
	if err := s.validate(domain.ValidateToken(token)); err != nil {
		return nil, err
	}

	var user *domain.User
	var bizErr error
	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		userID, err := s.authorize(ctx, tx, token)
		if err != nil {
			return trapStatus(err, &bizErr)
		}

		user, err = s.users.WithTx(tx).GetByID(ctx, userID)
		return err
	})
	if err != nil {
		return nil, err
	}
	if bizErr != nil {
		return nil, bizErr
	}
	return user, nil
}

// CloseUser closes the account of the user owning the session token and
// deactivates the session itself.
//
// TODO: decide whether closing an account should also close its deposits;
// today they stay active and DepositStore.CloseAllForUser is the hook for a
// cascade.
func (s *BankService) CloseUser(ctx context.Context, token string) error {
	if err := s.validate(domain.ValidateToken(token)); err != nil {
		return err
	}

	var bizErr error
	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		userID, err := s.authorize(ctx, tx, token)
		if err != nil {
			return trapStatus(err, &bizErr)
		}

		if err := s.users.WithTx(tx).Close(ctx, userID); err != nil {
			return err
		}
		if err := s.sessions.WithTx(tx).Deactivate(ctx, token); err != nil {
			return err
		}

		s.log.Info("user closed", slog.Int64("user_id", userID))
		return nil
	})
	if err != nil {
		return err
	}
	return bizErr
}

// CloseSession deactivates the session behind the token. Unlike the other
// operations it does not renew or expire the session first; an active
// session is simply closed, and an unknown token is rejected.
func (s *BankService) CloseSession(ctx context.Context, token string) error {
	if err := s.validate(domain.ValidateToken(token)); err != nil {
		return err
	}

	var bizErr error
	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		sessions := s.sessions.WithTx(tx)

		session, err := sessions.GetActiveByToken(ctx, token)
		if err != nil {
			if errors.Is(err, store.ErrSessionNotFound) {
				return trapStatus(s.status(errorcase.Unauthorized), &bizErr)
			}
			return err
		}

		if err := sessions.Deactivate(ctx, token); err != nil {
			return err
		}

		s.log.Info("session closed", slog.Int64("user_id", session.UserID))
		return nil
	})
	if err != nil {
		return err
	}
	return bizErr
}
