package domain

import (
	"math"

	"github.com/openbanca/bank-api/internal/domain/errorcase"
)

// LoanType enumerates the loan kinds. Only secured loans are declared.
type LoanType string

// LoanSecured is the only loan type the contract declares.
const LoanSecured LoanType = "secured"

// Interest rate bounds, per the loan contract.
const (
	MinInterestRate = 0.0001
	MaxInterestRate = 9.9999
)

// Loan declares the loan resource. The attribute validators are part of the
// core; the loan business rules are intentionally not implemented (see the
// service stubs).
type Loan struct {
	ID             int64     `json:"-"`
	UserID         int64     `json:"-"`
	DepositID      int64     `json:"-"`
	Name           string    `json:"name"`
	AmountBorrowed int64     `json:"amountBorrowed"`
	InterestRate   float64   `json:"interestRate"`
	MonthlyRate    int64     `json:"monthlyRate"`
	RepaymentDay   string    `json:"repaymentDay"`
	Type           LoanType  `json:"type"`
	Status         Lifecycle `json:"-"`
}

// ValidateLoanName checks the 1-64 length bounds.
func ValidateLoanName(name string) errorcase.Code {
	if len(name) > 64 {
		return errorcase.ExceedingMaxLength
	}
	if len(name) < 1 {
		return errorcase.ExceedingMinLength
	}
	return errorcase.Success
}

// ValidateAmountBorrowed bounds the borrowed amount to the signed 32-bit
// range, max bound first.
func ValidateAmountBorrowed(amount int64) errorcase.Code {
	if amount > math.MaxInt32 {
		return errorcase.ExceedingMaxRange
	}
	if amount < -math.MaxInt32 {
		return errorcase.ExceedingMinRange
	}
	return errorcase.Success
}

// ValidateInterestRate bounds the yearly rate to [0.0001, 9.9999].
func ValidateInterestRate(rate float64) errorcase.Code {
	if rate > MaxInterestRate {
		return errorcase.ExceedingMaxRange
	}
	if rate < MinInterestRate {
		return errorcase.ExceedingMinRange
	}
	return errorcase.Success
}

// ValidateMonthlyRate bounds the monthly repayment to the signed 32-bit
// range, max bound first.
func ValidateMonthlyRate(amount int64) errorcase.Code {
	if amount > math.MaxInt32 {
		return errorcase.ExceedingMaxRange
	}
	if amount < -math.MaxInt32 {
		return errorcase.ExceedingMinRange
	}
	return errorcase.Success
}

// ValidateRepaymentDay checks the repayment day timestamp format.
func ValidateRepaymentDay(timestamp string) errorcase.Code {
	return ValidateTimestamp(timestamp)
}

// ValidateLoanType matches the type against the enum, case-sensitive.
func ValidateLoanType(loanType string) errorcase.Code {
	if LoanType(loanType) != LoanSecured {
		return errorcase.IncorrectParsing
	}
	return errorcase.Success
}
