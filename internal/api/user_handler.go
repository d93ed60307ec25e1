package api

import (
	"net/http"

	"github.com/openbanca/bank-api/internal/api/shared"
	"github.com/openbanca/bank-api/internal/domain/errorcase"
)

// UserHandler handles the user resource.
type UserHandler struct {
	service BankingService
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(service BankingService) *UserHandler {
	if service == nil {
		panic("service cannot be nil")
	}
	return &UserHandler{service: service}
}

// Create handles POST /user.
func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
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
	name, code := requireHeader(r, "name")
	if code != errorcase.Success {
		respondWithCase(w, r, code)
		return
	}
	surname, code := requireHeader(r, "surname")
	if code != errorcase.Success {
		respondWithCase(w, r, code)
		return
	}

	user, err := h.service.CreateUser(r.Context(), username, password, name, surname)
	if err != nil {
		RespondWithFailure(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusCreated, user)
}

// Get handles GET /user.
func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	token, code := requireHeader(r, "token")
	if code != errorcase.Success {
		respondWithCase(w, r, code)
		return
	}

	user, err := h.service.GetUser(r.Context(), token)
	if err != nil {
		RespondWithFailure(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, user)
}

// Close handles DELETE /user.
func (h *UserHandler) Close(w http.ResponseWriter, r *http.Request) {
	token, code := requireHeader(r, "token")
	if code != errorcase.Success {
		respondWithCase(w, r, code)
		return
	}

	if err := h.service.CloseUser(r.Context(), token); err != nil {
		RespondWithFailure(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, struct{}{})
}
