package api

import (
	"net/http"

	"github.com/openbanca/bank-api/internal/api/shared"
	"github.com/openbanca/bank-api/internal/domain/errorcase"
)

// DepositHandler handles the deposit resource and its movement history.
type DepositHandler struct {
	service BankingService
}

// NewDepositHandler creates a new DepositHandler.
func NewDepositHandler(service BankingService) *DepositHandler {
	if service == nil {
		panic("service cannot be nil")
	}
	return &DepositHandler{service: service}
}

// Create handles POST /deposit. The amount header is optional except for
// saving deposits; the service enforces the saving minimum.
func (h *DepositHandler) Create(w http.ResponseWriter, r *http.Request) {
	token, code := requireHeader(r, "token")
	if code != errorcase.Success {
		respondWithCase(w, r, code)
		return
	}
	name, code := requireHeader(r, "name")
	if code != errorcase.Success {
		respondWithCase(w, r, code)
		return
	}
	depositType, code := requireHeader(r, "type")
	if code != errorcase.Success {
		respondWithCase(w, r, code)
		return
	}

	var amount *int64
	if raw, ok := optionalHeader(r, "amount"); ok {
		parsed, code := parseAmount(raw)
		if code != errorcase.Success {
			respondWithCase(w, r, code)
			return
		}
		amount = &parsed
	}

	deposit, err := h.service.CreateDeposit(r.Context(), token, name, depositType, amount)
	if err != nil {
		RespondWithFailure(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusCreated, deposit)
}

// Get handles GET /deposit. Without a name header it returns every active
// deposit of the caller; with one, the single named deposit.
func (h *DepositHandler) Get(w http.ResponseWriter, r *http.Request) {
	token, code := requireHeader(r, "token")
	if code != errorcase.Success {
		respondWithCase(w, r, code)
		return
	}

	if name, ok := optionalHeader(r, "name"); ok {
		deposit, err := h.service.GetDeposit(r.Context(), token, name)
		if err != nil {
			RespondWithFailure(w, r, err)
			return
		}
		shared.RespondWithJSON(w, r, http.StatusOK, deposit)
		return
	}

	deposits, err := h.service.GetDeposits(r.Context(), token)
	if err != nil {
		RespondWithFailure(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, deposits)
}

// Update handles PUT /deposit: a withdraw or deposit movement on the named
// deposit.
func (h *DepositHandler) Update(w http.ResponseWriter, r *http.Request) {
	token, code := requireHeader(r, "token")
	if code != errorcase.Success {
		respondWithCase(w, r, code)
		return
	}
	name, code := requireHeader(r, "name")
	if code != errorcase.Success {
		respondWithCase(w, r, code)
		return
	}
	action, code := requireHeader(r, "action")
	if code != errorcase.Success {
		respondWithCase(w, r, code)
		return
	}
	raw, code := requireHeader(r, "amount")
	if code != errorcase.Success {
		respondWithCase(w, r, code)
		return
	}
	amount, code := parseAmount(raw)
	if code != errorcase.Success {
		respondWithCase(w, r, code)
		return
	}

	deposit, err := h.service.UpdateDeposit(r.Context(), token, name, action, amount)
	if err != nil {
		RespondWithFailure(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, deposit)
}

// Close handles DELETE /deposit: the named deposit is closed and its
// balance merged into the destination deposit. The refreshed list of active
// deposits is returned.
func (h *DepositHandler) Close(w http.ResponseWriter, r *http.Request) {
	token, code := requireHeader(r, "token")
	if code != errorcase.Success {
		respondWithCase(w, r, code)
		return
	}
	name, code := requireHeader(r, "name")
	if code != errorcase.Success {
		respondWithCase(w, r, code)
		return
	}
	destination, code := requireHeader(r, "destination")
	if code != errorcase.Success {
		respondWithCase(w, r, code)
		return
	}

	deposits, err := h.service.CloseDeposit(r.Context(), token, name, destination)
	if err != nil {
		RespondWithFailure(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, deposits)
}

// History handles GET /history: the chronological movement list of the
// named deposit.
func (h *DepositHandler) History(w http.ResponseWriter, r *http.Request) {
	token, code := requireHeader(r, "token")
	if code != errorcase.Success {
		respondWithCase(w, r, code)
		return
	}
	name, code := requireHeader(r, "name")
	if code != errorcase.Success {
		respondWithCase(w, r, code)
		return
	}

	history, err := h.service.GetHistory(r.Context(), token, name)
	if err != nil {
		RespondWithFailure(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, history)
}
