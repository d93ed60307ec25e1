package api

import (
	"net/http"

	"github.com/openbanca/bank-api/internal/api/shared"
	"github.com/openbanca/bank-api/internal/domain/errorcase"
)

// LoanHandler handles the loan resource. Creation and closing are declared
// but not elaborated yet; the service validates and authorizes, then
// answers with an empty list.
type LoanHandler struct {
	service BankingService
}

// NewLoanHandler creates a new LoanHandler.
func NewLoanHandler(service BankingService) *LoanHandler {
	if service == nil {
		panic("service cannot be nil")
	}
	return &LoanHandler{service: service}
}

// Get handles GET /loan.
func (h *LoanHandler) Get(w http.ResponseWriter, r *http.Request) {
	token, code := requireHeader(r, "token")
	if code != errorcase.Success {
		respondWithCase(w, r, code)
		return
	}

	loans, err := h.service.GetLoans(r.Context(), token)
	if err != nil {
		RespondWithFailure(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, loans)
}

// Create handles POST /loan.
func (h *LoanHandler) Create(w http.ResponseWriter, r *http.Request) {
	token, code := requireHeader(r, "token")
	if code != errorcase.Success {
		respondWithCase(w, r, code)
		return
	}
	deposit, code := requireHeader(r, "deposit")
	if code != errorcase.Success {
		respondWithCase(w, r, code)
		return
	}
	name, code := requireHeader(r, "name")
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
	repaymentDay, code := requireHeader(r, "repayment-day")
	if code != errorcase.Success {
		respondWithCase(w, r, code)
		return
	}
	loanType, code := requireHeader(r, "type")
	if code != errorcase.Success {
		respondWithCase(w, r, code)
		return
	}

	loans, err := h.service.CreateLoan(r.Context(), token, deposit, name, amount, repaymentDay, loanType)
	if err != nil {
		RespondWithFailure(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, loans)
}

// Close handles DELETE /loan.
func (h *LoanHandler) Close(w http.ResponseWriter, r *http.Request) {
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

	loans, err := h.service.CloseLoan(r.Context(), token, name)
	if err != nil {
		RespondWithFailure(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, loans)
}
