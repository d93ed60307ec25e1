package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/openbanca/bank-api/internal/api"
	apimiddleware "github.com/openbanca/bank-api/internal/api/middleware"
)

// setupRouter creates the application router with all routes and
// middleware. Every parameter of the API travels as a request header, so
// the routes themselves carry no path variables.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(apimiddleware.Trace)
	r.Use(apimiddleware.CORS)

	authHandler := api.NewAuthHandler(app.bankService)
	userHandler := api.NewUserHandler(app.bankService)
	sessionHandler := api.NewSessionHandler(app.bankService)
	depositHandler := api.NewDepositHandler(app.bankService)
	loanHandler := api.NewLoanHandler(app.bankService)

	r.Get("/auth", authHandler.Authenticate)

	r.Post("/user", userHandler.Create)
	r.Get("/user", userHandler.Get)
	r.Delete("/user", userHandler.Close)

	r.Delete("/session", sessionHandler.Close)

	r.Post("/deposit", depositHandler.Create)
	r.Get("/deposit", depositHandler.Get)
	r.Put("/deposit", depositHandler.Update)
	r.Delete("/deposit", depositHandler.Close)

	r.Get("/history", depositHandler.History)

	r.Get("/loan", loanHandler.Get)
	r.Post("/loan", loanHandler.Create)
	r.Delete("/loan", loanHandler.Close)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			app.logger.Error("Failed to write health check response", "error", err)
		}
	})

	return r
}
