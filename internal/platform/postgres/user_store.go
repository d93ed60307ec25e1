package postgres

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/openbanca/bank-api/internal/domain"
	"github.com/openbanca/bank-api/internal/platform/logger"
	"github.com/openbanca/bank-api/internal/store"
)

// UserStore implements store.UserStore using a PostgreSQL backend.
type UserStore struct {
	db  store.DBTX
	log *slog.Logger
}

// NewUserStore creates the PostgreSQL implementation of store.UserStore.
// If log is nil, the default logger is used.
func NewUserStore(db store.DBTX, log *slog.Logger) *UserStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}
	return &UserStore{
		db:  db,
		log: log.With(slog.String("component", "user_store")),
	}
}

var _ store.UserStore = (*UserStore)(nil)

// Create implements store.UserStore.Create.
func (s *UserStore) Create(ctx context.Context, user *domain.User) (int64, error) {
	log := logger.FromContextOrDefault(ctx, s.log)

	query := `
		INSERT INTO users (username, password, name, surname, iban, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING user_id
	`
	var userID int64
	err := s.db.QueryRowContext(
		ctx,
		query,
		user.Username,
		user.HashedPassword,
		user.Name,
		user.Surname,
		user.IBAN,
		string(domain.LifecycleActive),
	).Scan(&userID)
	if err != nil {
		if isUniqueViolation(err) {
			log.Debug("active username already taken",
				slog.String("username", user.Username))
			return 0, store.ErrUsernameExists
		}
		log.Error("failed to create user",
			slog.String("error", err.Error()),
			slog.String("username", user.Username))
		return 0, err
	}

	log.Info("user created",
		slog.Int64("user_id", userID),
		slog.String("username", user.Username))
	return userID, nil
}

// SetIBAN implements store.UserStore.SetIBAN.
func (s *UserStore) SetIBAN(ctx context.Context, userID int64, iban string) error {
	log := logger.FromContextOrDefault(ctx, s.log)

	query := `UPDATE users SET iban = $2 WHERE user_id = $1`
	if _, err := s.db.ExecContext(ctx, query, userID, iban); err != nil {
		log.Error("failed to set IBAN",
			slog.String("error", err.Error()),
			slog.Int64("user_id", userID))
		return err
	}
	return nil
}

// GetActiveByUsername implements store.UserStore.GetActiveByUsername.
func (s *UserStore) GetActiveByUsername(ctx context.Context, username string) (*domain.User, error) {
	log := logger.FromContextOrDefault(ctx, s.log)

	query := `
		SELECT user_id, username, password, name, surname, iban, status
		FROM users
		WHERE username = $1 AND status = $2
	`
	user, err := s.scanUser(s.db.QueryRowContext(ctx, query, username, string(domain.LifecycleActive)))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrUserNotFound
		}
		log.Error("failed to get user by username",
			slog.String("error", err.Error()),
			slog.String("username", username))
		return nil, err
	}
	return user, nil
}

// GetByID implements store.UserStore.GetByID.
func (s *UserStore) GetByID(ctx context.Context, userID int64) (*domain.User, error) {
	log := logger.FromContextOrDefault(ctx, s.log)

	query := `
		SELECT user_id, username, password, name, surname, iban, status
		FROM users
		WHERE user_id = $1
	`
	user, err := s.scanUser(s.db.QueryRowContext(ctx, query, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrUserNotFound
		}
		log.Error("failed to get user by id",
			slog.String("error", err.Error()),
			slog.Int64("user_id", userID))
		return nil, err
	}
	return user, nil
}

// Close implements store.UserStore.Close.
func (s *UserStore) Close(ctx context.Context, userID int64) error {
	log := logger.FromContextOrDefault(ctx, s.log)

	query := `UPDATE users SET status = $2 WHERE user_id = $1`
	if _, err := s.db.ExecContext(ctx, query, userID, string(domain.LifecycleClosed)); err != nil {
		log.Error("failed to close user",
			slog.String("error", err.Error()),
			slog.Int64("user_id", userID))
		return err
	}

	log.Info("user closed", slog.Int64("user_id", userID))
	return nil
}

// WithTx implements store.UserStore.WithTx.
func (s *UserStore) WithTx(tx *sql.Tx) store.UserStore {
	return &UserStore{db: tx, log: s.log}
}

func (s *UserStore) scanUser(row *sql.Row) (*domain.User, error) {
	var user domain.User
	var status string
	err := row.Scan(
		&user.ID,
		&user.Username,
		&user.HashedPassword,
		&user.Name,
		&user.Surname,
		&user.IBAN,
		&status,
	)
	if err != nil {
		return nil, err
	}
	user.Status = domain.Lifecycle(status)
	return &user, nil
}
