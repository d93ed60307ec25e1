package domain

import (
	"math"

	"github.com/openbanca/bank-api/internal/domain/errorcase"
)

// TransactionType enumerates the balance-changing operations.
type TransactionType string

const (
	// TransactionWithdraw debits the deposit.
	TransactionWithdraw TransactionType = "withdraw"

	// TransactionDeposit credits the deposit.
	TransactionDeposit TransactionType = "deposit"
)

// Transaction is an append-only record of one balance change. Author is the
// "name surname" of the acting user at the time of the operation.
type Transaction struct {
	ID        int64           `json:"-"`
	DepositID int64           `json:"-"`
	Type      TransactionType `json:"type"`
	Amount    int64           `json:"amount"`
	Timestamp string          `json:"timestamp"`
	Author    string          `json:"author"`
}

// ValidateTransactionType matches the action against the enum,
// case-sensitive.
func ValidateTransactionType(transactionType string) errorcase.Code {
	switch TransactionType(transactionType) {
	case TransactionWithdraw, TransactionDeposit:
		return errorcase.Success
	}
	return errorcase.IncorrectParsing
}

// ValidateTransactionAmount requires a strictly positive amount within the
// signed 32-bit range. A zero amount is a no-op update and reports the
// null-attribute case, before any range check.
func ValidateTransactionAmount(amount int64) errorcase.Code {
	if amount == 0 {
		return errorcase.NullAttributes
	}
	if amount > math.MaxInt32 {
		return errorcase.ExceedingMaxRange
	}
	if amount < 0 {
		return errorcase.ExceedingMinRange
	}
	return errorcase.Success
}

// ValidateAuthor checks the 1-129 length bounds ("name surname" of the
// acting user).
func ValidateAuthor(author string) errorcase.Code {
	if len(author) > 129 {
		return errorcase.ExceedingMaxLength
	}
	if len(author) < 1 {
		return errorcase.ExceedingMinLength
	}
	return errorcase.Success
}

// ValidateTransactionTimestamp checks the record timestamp format.
func ValidateTransactionTimestamp(timestamp string) errorcase.Code {
	return ValidateTimestamp(timestamp)
}

// MaxTransactionAmount is the upper bound accepted for a single transaction.
const MaxTransactionAmount = math.MaxInt32
