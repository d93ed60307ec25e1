package postgres

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"github.com/openbanca/bank-api/internal/domain"
	"github.com/openbanca/bank-api/internal/platform/logger"
	"github.com/openbanca/bank-api/internal/store"
)

// SessionStore implements store.SessionStore using a PostgreSQL backend.
// Every timestamp it writes comes from now() on the database side.
type SessionStore struct {
	db  store.DBTX
	log *slog.Logger
}

// NewSessionStore creates the PostgreSQL implementation of
// store.SessionStore. If log is nil, the default logger is used.
func NewSessionStore(db store.DBTX, log *slog.Logger) *SessionStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}
	return &SessionStore{
		db:  db,
		log: log.With(slog.String("component", "session_store")),
	}
}

var _ store.SessionStore = (*SessionStore)(nil)

// Now implements store.SessionStore.Now.
func (s *SessionStore) Now(ctx context.Context) (time.Time, error) {
	var now time.Time
	if err := s.db.QueryRowContext(ctx, `SELECT now()`).Scan(&now); err != nil {
		return time.Time{}, err
	}
	return now, nil
}

// Create implements store.SessionStore.Create.
func (s *SessionStore) Create(ctx context.Context, token string, userID int64) error {
	log := logger.FromContextOrDefault(ctx, s.log)

	query := `
		INSERT INTO sessions (session_token, user_id, creation_timestamp, last_updated, status)
		VALUES ($1, $2, now(), now(), $3)
	`
	if _, err := s.db.ExecContext(ctx, query, token, userID, string(domain.LifecycleActive)); err != nil {
		log.Error("failed to create session",
			slog.String("error", err.Error()),
			slog.Int64("user_id", userID))
		return err
	}

	log.Info("session created", slog.Int64("user_id", userID))
	return nil
}

// DeactivateAllForUser implements store.SessionStore.DeactivateAllForUser.
func (s *SessionStore) DeactivateAllForUser(ctx context.Context, userID int64) error {
	log := logger.FromContextOrDefault(ctx, s.log)

	query := `UPDATE sessions SET status = $2 WHERE user_id = $1 AND status = $3`
	_, err := s.db.ExecContext(ctx, query,
		userID, string(domain.LifecycleClosed), string(domain.LifecycleActive))
	if err != nil {
		log.Error("failed to deactivate user sessions",
			slog.String("error", err.Error()),
			slog.Int64("user_id", userID))
		return err
	}
	return nil
}

// GetActiveByToken implements store.SessionStore.GetActiveByToken.
func (s *SessionStore) GetActiveByToken(ctx context.Context, token string) (*domain.Session, error) {
	log := logger.FromContextOrDefault(ctx, s.log)

	query := `
		SELECT session_token, user_id, creation_timestamp, last_updated, status
		FROM sessions
		WHERE session_token = $1 AND status = $2
	`
	var session domain.Session
	var status string
	err := s.db.QueryRowContext(ctx, query, token, string(domain.LifecycleActive)).Scan(
		&session.Token,
		&session.UserID,
		&session.CreationTimestamp,
		&session.LastUpdated,
		&status,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrSessionNotFound
		}
		log.Error("failed to get session by token",
			slog.String("error", err.Error()))
		return nil, err
	}
	session.Status = domain.Lifecycle(status)
	return &session, nil
}

// Refresh implements store.SessionStore.Refresh.
func (s *SessionStore) Refresh(ctx context.Context, token string) error {
	log := logger.FromContextOrDefault(ctx, s.log)

	query := `UPDATE sessions SET last_updated = now() WHERE session_token = $1`
	if _, err := s.db.ExecContext(ctx, query, token); err != nil {
		log.Error("failed to refresh session",
			slog.String("error", err.Error()))
		return err
	}
	return nil
}

// Deactivate implements store.SessionStore.Deactivate.
func (s *SessionStore) Deactivate(ctx context.Context, token string) error {
	log := logger.FromContextOrDefault(ctx, s.log)

	query := `UPDATE sessions SET status = $2 WHERE session_token = $1`
	if _, err := s.db.ExecContext(ctx, query, token, string(domain.LifecycleClosed)); err != nil {
		log.Error("failed to deactivate session",
			slog.String("error", err.Error()))
		return err
	}
	return nil
}

// WithTx implements store.SessionStore.WithTx.
func (s *SessionStore) WithTx(tx *sql.Tx) store.SessionStore {
	return &SessionStore{db: tx, log: s.log}
}
