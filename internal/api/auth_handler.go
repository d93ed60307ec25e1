package api

import (
	"net/http"

	"github.com/openbanca/bank-api/internal/api/shared"
	"github.com/openbanca/bank-api/internal/domain/errorcase"
)

// AuthHandler handles the authentication endpoint. Credentials travel as
// request headers, never in the URL, so they stay out of access logs.
type AuthHandler struct {
	service BankingService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(service BankingService) *AuthHandler {
	if service == nil {
		panic("service cannot be nil")
	}
	return &AuthHandler{service: service}
}

// Authenticate handles GET /auth. On success it returns the fresh session
// token.
func (h *AuthHandler) Authenticate(w http.ResponseWriter, r *http.Request) {
	username, code := requireHeader(r, "username")
	if code != errorcase.Success {
		respondWithCase(w, r, code)
		return
	}
	password, code := requireHeader(r, "password")
	if code != errorcase.Success {
		respondWithCase(w, r, code)
		return
	}

	token, err := h.service.Authenticate(r.Context(), username, password)
	if err != nil {
		RespondWithFailure(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, TokenResponse{Token: token})
}
