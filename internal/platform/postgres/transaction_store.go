package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/openbanca/bank-api/internal/domain"
	"github.com/openbanca/bank-api/internal/platform/logger"
	"github.com/openbanca/bank-api/internal/store"
)

// TransactionStore implements store.TransactionStore using a PostgreSQL
// backend. Records are append-only; there is no update or delete path.
type TransactionStore struct {
	db  store.DBTX
	log *slog.Logger
}

// NewTransactionStore creates the PostgreSQL implementation of
// store.TransactionStore. If log is nil, the default logger is used.
func NewTransactionStore(db store.DBTX, log *slog.Logger) *TransactionStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}
	return &TransactionStore{
		db:  db,
		log: log.With(slog.String("component", "transaction_store")),
	}
}

var _ store.TransactionStore = (*TransactionStore)(nil)

// Create implements store.TransactionStore.Create. The timestamp is set by
// the database clock.
func (s *TransactionStore) Create(ctx context.Context, transaction *domain.Transaction) error {
	log := logger.FromContextOrDefault(ctx, s.log)

	query := `
		INSERT INTO transactions (deposit_id, type, amount, created_at, author)
		VALUES ($1, $2, $3, now(), $4)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		transaction.DepositID,
		string(transaction.Type),
		transaction.Amount,
		transaction.Author,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("%w: deposit %d", store.ErrDepositNotFound, transaction.DepositID)
		}
		log.Error("failed to record transaction",
			slog.String("error", err.Error()),
			slog.Int64("deposit_id", transaction.DepositID),
			slog.String("type", string(transaction.Type)))
		return err
	}

	log.Info("transaction recorded",
		slog.Int64("deposit_id", transaction.DepositID),
		slog.String("type", string(transaction.Type)),
		slog.Int64("amount", transaction.Amount))
	return nil
}

// ListForDeposit implements store.TransactionStore.ListForDeposit.
func (s *TransactionStore) ListForDeposit(ctx context.Context, depositID int64) ([]domain.Transaction, error) {
	log := logger.FromContextOrDefault(ctx, s.log)

	query := `
		SELECT transaction_id, deposit_id, type, amount, created_at, author
		FROM transactions
		WHERE deposit_id = $1
		ORDER BY created_at, transaction_id
	`
	rows, err := s.db.QueryContext(ctx, query, depositID)
	if err != nil {
		log.Error("failed to list transactions",
			slog.String("error", err.Error()),
			slog.Int64("deposit_id", depositID))
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var transactions []domain.Transaction
	for rows.Next() {
		var transaction domain.Transaction
		var transactionType string
		var createdAt time.Time
		if err := rows.Scan(
			&transaction.ID,
			&transaction.DepositID,
			&transactionType,
			&transaction.Amount,
			&createdAt,
			&transaction.Author,
		); err != nil {
			return nil, err
		}
		transaction.Type = domain.TransactionType(transactionType)
		transaction.Timestamp = domain.FormatTimestamp(createdAt)
		transactions = append(transactions, transaction)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return transactions, nil
}

// WithTx implements store.TransactionStore.WithTx.
func (s *TransactionStore) WithTx(tx *sql.Tx) store.TransactionStore {
	return &TransactionStore{db: tx, log: s.log}
}
