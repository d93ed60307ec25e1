package api

import (
	"context"

	"github.com/openbanca/bank-api/internal/domain"
)

// BankingService is the slice of the service layer the handlers consume.
// *service.BankService satisfies it; tests substitute a stub.
type BankingService interface {
	Authenticate(ctx context.Context, username, password string) (string, error)
	CreateUser(ctx context.Context, username, password, name, surname string) (*domain.User, error)
	GetUser(ctx context.Context, token string) (*domain.User, error)
	CloseUser(ctx context.Context, token string) error
	CloseSession(ctx context.Context, token string) error
	GetDeposits(ctx context.Context, token string) ([]domain.Deposit, error)
	GetDeposit(ctx context.Context, token, name string) (*domain.Deposit, error)
	CreateDeposit(ctx context.Context, token, name, depositType string, amount *int64) (*domain.Deposit, error)
	CloseDeposit(ctx context.Context, token, name, destination string) ([]domain.Deposit, error)
	UpdateDeposit(ctx context.Context, token, name, action string, amount int64) (*domain.Deposit, error)
	GetHistory(ctx context.Context, token, name string) ([]domain.Transaction, error)
	GetLoans(ctx context.Context, token string) ([]domain.Loan, error)
	CreateLoan(ctx context.Context, token, deposit, name string, amountAsked int64, repaymentDay, loanType string) ([]domain.Loan, error)
	CloseLoan(ctx context.Context, token, name string) ([]domain.Loan, error)
}

// TokenResponse is the body of a successful authentication.
type TokenResponse struct {
	Token string `json:"token"`
}
