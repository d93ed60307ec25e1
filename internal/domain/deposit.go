package domain

import (
	"math"

	"github.com/openbanca/bank-api/internal/domain/errorcase"
)

// DepositType enumerates the account types a deposit can be opened with.
type DepositType string

const (
	// DepositStandard is a plain deposit, opened with any amount >= 0.
	DepositStandard DepositType = "standard"

	// DepositSaving requires an explicit opening amount of at least
	// MinimumSavingAmount.
	DepositSaving DepositType = "saving"
)

// Deposit is a named account owned by a user. The balance only moves
// through validated transactions and the merge performed on close.
type Deposit struct {
	ID     int64       `json:"-"`
	UserID int64       `json:"-"`
	Name   string      `json:"name"`
	Amount int64       `json:"amount"`
	Type   DepositType `json:"type"`
	Status Lifecycle   `json:"-"`
}

// ValidateDepositName checks the 1-64 length bounds.
func ValidateDepositName(name string) errorcase.Code {
	if len(name) > 64 {
		return errorcase.ExceedingMaxLength
	}
	if len(name) < 1 {
		return errorcase.ExceedingMinLength
	}
	return errorcase.Success
}

// ValidateDepositAmount bounds a balance to the non-negative signed 32-bit
// range, max bound first.
func ValidateDepositAmount(amount int64) errorcase.Code {
	if amount > math.MaxInt32 {
		return errorcase.ExceedingMaxRange
	}
	if amount < 0 {
		return errorcase.ExceedingMinRange
	}
	return errorcase.Success
}

// ValidateDepositType matches the type against the enum, case-sensitive.
func ValidateDepositType(depositType string) errorcase.Code {
	switch DepositType(depositType) {
	case DepositStandard, DepositSaving:
		return errorcase.Success
	}
	return errorcase.IncorrectParsing
}
