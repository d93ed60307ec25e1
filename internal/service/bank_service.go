// Package service implements the banking use cases on top of the store
// layer. Every operation validates its inputs first, then runs its reads and
// writes inside a single database transaction, including the session check
// that authorizes the caller.
//
// Business rejections (unknown user, expired session, insufficient funds and
// so on) are reported as *errorcase.Status values; any other error is an
// infrastructure failure.
package service

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/openbanca/bank-api/internal/domain"
	"github.com/openbanca/bank-api/internal/domain/errorcase"
	"github.com/openbanca/bank-api/internal/service/auth"
	"github.com/openbanca/bank-api/internal/store"
)

// BankService implements the banking operations. All state lives in
// PostgreSQL; the service itself is stateless and safe for concurrent use.
type BankService struct {
	db           *sql.DB
	users        store.UserStore
	sessions     store.SessionStore
	deposits     store.DepositStore
	transactions store.TransactionStore
	loans        store.LoanStore
	hasher       auth.Hasher
	verifier     auth.Verifier
	sessionTTL   time.Duration
	log          *slog.Logger

	// now supplies the timestamp stamped on business rejections. Tests
	// override it for deterministic output.
	now func() time.Time
	// newToken mints session tokens. Tests override it.
	newToken func() string
}

// NewBankService creates a BankService. It panics if any dependency is nil
// or the session TTL is not positive, since a service missing a collaborator
// is a programmer error caught at startup.
func NewBankService(
	db *sql.DB,
	users store.UserStore,
	sessions store.SessionStore,
	deposits store.DepositStore,
	transactions store.TransactionStore,
	loans store.LoanStore,
	hasher auth.Hasher,
	verifier auth.Verifier,
	sessionTTL time.Duration,
	log *slog.Logger,
) *BankService {
	if db == nil {
		panic("db cannot be nil")
	}
	if users == nil || sessions == nil || deposits == nil || transactions == nil || loans == nil {
		panic("stores cannot be nil")
	}
	if hasher == nil || verifier == nil {
		panic("hasher and verifier cannot be nil")
	}
	if sessionTTL <= 0 {
		panic("session TTL must be positive")
	}
	if log == nil {
		log = slog.Default()
	}
	return &BankService{
		db:           db,
		users:        users,
		sessions:     sessions,
		deposits:     deposits,
		transactions: transactions,
		loans:        loans,
		hasher:       hasher,
		verifier:     verifier,
		sessionTTL:   sessionTTL,
		log:          log.With(slog.String("component", "bank_service")),
		now:          time.Now,
		newToken:     uuid.NewString,
	}
}

// status builds a timestamped business rejection for the given case.
func (s *BankService) status(code errorcase.Code) *errorcase.Status {
	return errorcase.NewStatus(code, domain.FormatTimestamp(s.now()))
}

// validate runs validators in order and converts the first failure into a
// business rejection. It returns nil when every validator passed.
func (s *BankService) validate(checks ...errorcase.Code) error {
	for _, code := range checks {
		if code != errorcase.Success {
			return s.status(code)
		}
	}
	return nil
}

// trapStatus diverts a business rejection into *out so the surrounding
// transaction commits. Session expiry must persist even though the
// operation is rejected, and rejections never have uncommitted writes
// behind them. Infrastructure errors pass through and roll back.
func trapStatus(err error, out *error) error {
	var status *errorcase.Status
	if errors.As(err, &status) {
		*out = err
		return nil
	}
	return err
}

// authorize resolves the session behind token within tx. It renews the
// session's sliding window on success and deactivates it when the window has
// already elapsed. The returned user ID identifies the caller.
func (s *BankService) authorize(ctx context.Context, tx *sql.Tx, token string) (int64, error) {
	sessions := s.sessions.WithTx(tx)

	session, err := sessions.GetActiveByToken(ctx, token)
	if err != nil {
		if errors.Is(err, store.ErrSessionNotFound) {
			return 0, s.status(errorcase.Unauthorized)
		}
		return 0, err
	}

	now, err := sessions.Now(ctx)
	if err != nil {
		return 0, err
	}
	if now.Sub(session.LastUpdated) >= s.sessionTTL {
		if err := sessions.Deactivate(ctx, token); err != nil {
			return 0, err
		}
		s.log.Info("session expired", slog.Int64("user_id", session.UserID))
		return 0, s.status(errorcase.Timeout)
	}

	if err := sessions.Refresh(ctx, token); err != nil {
		return 0, err
	}
	return session.UserID, nil
}
