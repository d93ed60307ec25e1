package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/openbanca/bank-api/internal/config"
	"github.com/openbanca/bank-api/internal/platform/postgres"
	"github.com/openbanca/bank-api/internal/service"
	"github.com/openbanca/bank-api/internal/service/auth"
	"github.com/openbanca/bank-api/internal/store"
)

// application holds the shared application dependencies to simplify
// management and ensure proper cleanup on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	userStore        store.UserStore
	sessionStore     store.SessionStore
	depositStore     store.DepositStore
	transactionStore store.TransactionStore
	loanStore        store.LoanStore

	bankService *service.BankService
}

// newApplication creates an application instance with all dependencies
// initialized. Configuration, logger and database connection must already
// be established.
func newApplication(cfg *config.Config, logger *slog.Logger, db *sql.DB) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
		db:     db,
	}

	app.userStore = postgres.NewUserStore(db, logger)
	app.sessionStore = postgres.NewSessionStore(db, logger)
	app.depositStore = postgres.NewDepositStore(db, logger)
	app.transactionStore = postgres.NewTransactionStore(db, logger)
	app.loanStore = postgres.NewLoanStore(db, logger)

	app.bankService = service.NewBankService(
		db,
		app.userStore,
		app.sessionStore,
		app.depositStore,
		app.transactionStore,
		app.loanStore,
		auth.NewBcryptHasher(0),
		auth.NewBcryptVerifier(),
		cfg.Session.Duration,
		logger,
	)

	logger.Info("Application initialized successfully")
	return app, nil
}

// Run starts the application server, handling lifecycle and cleanup.
func (app *application) Run(ctx context.Context) error {
	router := app.setupRouter()

	if err := app.startHTTPServer(ctx, router); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// cleanup handles graceful shutdown of application resources.
func (app *application) cleanup() {
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("Error closing database connection", "error", err)
		}
	}
	app.logger.Info("Application shutdown completed")
}
