package api

import (
	"net/http"

	"github.com/openbanca/bank-api/internal/api/shared"
	"github.com/openbanca/bank-api/internal/domain/errorcase"
)

// SessionHandler handles explicit logout.
type SessionHandler struct {
	service BankingService
}

// NewSessionHandler creates a new SessionHandler.
func NewSessionHandler(service BankingService) *SessionHandler {
	if service == nil {
		panic("service cannot be nil")
	}
	return &SessionHandler{service: service}
}

// Close handles DELETE /session.
func (h *SessionHandler) Close(w http.ResponseWriter, r *http.Request) {
	token, code := requireHeader(r, "token")
	if code != errorcase.Success {
		respondWithCase(w, r, code)
		return
	}

	if err := h.service.CloseSession(r.Context(), token); err != nil {
		RespondWithFailure(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, struct{}{})
}
