package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/openbanca/bank-api/internal/domain"
	"github.com/openbanca/bank-api/internal/platform/logger"
	"github.com/openbanca/bank-api/internal/store"
)

// DepositStore implements store.DepositStore using a PostgreSQL backend.
type DepositStore struct {
	db  store.DBTX
	log *slog.Logger
}

// NewDepositStore creates the PostgreSQL implementation of
// store.DepositStore. If log is nil, the default logger is used.
func NewDepositStore(db store.DBTX, log *slog.Logger) *DepositStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}
	return &DepositStore{
		db:  db,
		log: log.With(slog.String("component", "deposit_store")),
	}
}

var _ store.DepositStore = (*DepositStore)(nil)

// Create implements store.DepositStore.Create.
func (s *DepositStore) Create(ctx context.Context, deposit *domain.Deposit) (int64, error) {
	log := logger.FromContextOrDefault(ctx, s.log)

	query := `
		INSERT INTO deposits (user_id, name, amount, type, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING deposit_id
	`
	var depositID int64
	err := s.db.QueryRowContext(
		ctx,
		query,
		deposit.UserID,
		deposit.Name,
		deposit.Amount,
		string(deposit.Type),
		string(domain.LifecycleActive),
	).Scan(&depositID)
	if err != nil {
		if isUniqueViolation(err) {
			log.Debug("active deposit name already taken",
				slog.Int64("user_id", deposit.UserID),
				slog.String("name", deposit.Name))
			return 0, store.ErrDepositNameExists
		}
		if isForeignKeyViolation(err) {
			return 0, fmt.Errorf("%w: owner %d", store.ErrUserNotFound, deposit.UserID)
		}
		log.Error("failed to create deposit",
			slog.String("error", err.Error()),
			slog.Int64("user_id", deposit.UserID),
			slog.String("name", deposit.Name))
		return 0, err
	}

	log.Info("deposit created",
		slog.Int64("deposit_id", depositID),
		slog.Int64("user_id", deposit.UserID),
		slog.String("type", string(deposit.Type)))
	return depositID, nil
}

// GetActiveByName implements store.DepositStore.GetActiveByName.
func (s *DepositStore) GetActiveByName(ctx context.Context, userID int64, name string) (*domain.Deposit, error) {
	log := logger.FromContextOrDefault(ctx, s.log)

	query := `
		SELECT deposit_id, user_id, name, amount, type, status
		FROM deposits
		WHERE user_id = $1 AND name = $2 AND status = $3
	`
	row := s.db.QueryRowContext(ctx, query, userID, name, string(domain.LifecycleActive))

	var deposit domain.Deposit
	var depositType, status string
	err := row.Scan(
		&deposit.ID,
		&deposit.UserID,
		&deposit.Name,
		&deposit.Amount,
		&depositType,
		&status,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrDepositNotFound
		}
		log.Error("failed to get deposit by name",
			slog.String("error", err.Error()),
			slog.Int64("user_id", userID),
			slog.String("name", name))
		return nil, err
	}
	deposit.Type = domain.DepositType(depositType)
	deposit.Status = domain.Lifecycle(status)
	return &deposit, nil
}

// ListActiveForUser implements store.DepositStore.ListActiveForUser.
func (s *DepositStore) ListActiveForUser(ctx context.Context, userID int64) ([]domain.Deposit, error) {
	log := logger.FromContextOrDefault(ctx, s.log)

	query := `
		SELECT deposit_id, user_id, name, amount, type, status
		FROM deposits
		WHERE user_id = $1 AND status = $2
		ORDER BY deposit_id
	`
	rows, err := s.db.QueryContext(ctx, query, userID, string(domain.LifecycleActive))
	if err != nil {
		log.Error("failed to list deposits",
			slog.String("error", err.Error()),
			slog.Int64("user_id", userID))
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var deposits []domain.Deposit
	for rows.Next() {
		var deposit domain.Deposit
		var depositType, status string
		if err := rows.Scan(
			&deposit.ID,
			&deposit.UserID,
			&deposit.Name,
			&deposit.Amount,
			&depositType,
			&status,
		); err != nil {
			return nil, err
		}
		deposit.Type = domain.DepositType(depositType)
		deposit.Status = domain.Lifecycle(status)
		deposits = append(deposits, deposit)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return deposits, nil
}

// UpdateAmount implements store.DepositStore.UpdateAmount.
func (s *DepositStore) UpdateAmount(ctx context.Context, depositID int64, amount int64) error {
	log := logger.FromContextOrDefault(ctx, s.log)

	query := `UPDATE deposits SET amount = $2 WHERE deposit_id = $1`
	if _, err := s.db.ExecContext(ctx, query, depositID, amount); err != nil {
		log.Error("failed to update deposit amount",
			slog.String("error", err.Error()),
			slog.Int64("deposit_id", depositID))
		return err
	}
	return nil
}

// Close implements store.DepositStore.Close.
func (s *DepositStore) Close(ctx context.Context, depositID int64) error {
	log := logger.FromContextOrDefault(ctx, s.log)

	query := `UPDATE deposits SET status = $2 WHERE deposit_id = $1`
	if _, err := s.db.ExecContext(ctx, query, depositID, string(domain.LifecycleClosed)); err != nil {
		log.Error("failed to close deposit",
			slog.String("error", err.Error()),
			slog.Int64("deposit_id", depositID))
		return err
	}

	log.Info("deposit closed", slog.Int64("deposit_id", depositID))
	return nil
}

// CloseAllForUser implements store.DepositStore.CloseAllForUser.
func (s *DepositStore) CloseAllForUser(ctx context.Context, userID int64) error {
	log := logger.FromContextOrDefault(ctx, s.log)

	query := `UPDATE deposits SET status = $2 WHERE user_id = $1 AND status = $3`
	_, err := s.db.ExecContext(ctx, query,
		userID, string(domain.LifecycleClosed), string(domain.LifecycleActive))
	if err != nil {
		log.Error("failed to close user deposits",
			slog.String("error", err.Error()),
			slog.Int64("user_id", userID))
		return err
	}
	return nil
}

// WithTx implements store.DepositStore.WithTx.
func (s *DepositStore) WithTx(tx *sql.Tx) store.DepositStore {
	return &DepositStore{db: tx, log: s.log}
}
