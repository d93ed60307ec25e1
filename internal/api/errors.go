package api

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/openbanca/bank-api/internal/api/shared"
	"github.com/openbanca/bank-api/internal/domain"
	"github.com/openbanca/bank-api/internal/domain/errorcase"
)

// RespondWithFailure renders a service error. Business rejections carry an
// errorcase.Status and map onto their own HTTP status and body; anything
// else is an infrastructure failure that surfaces as a generic 500 so no
// internal detail leaks to the client.
func RespondWithFailure(w http.ResponseWriter, r *http.Request, err error) {
	var status *errorcase.Status
	if errors.As(err, &status) {
		shared.RespondWithError(w, r, status.Code.HTTPStatus(), shared.ErrorResponse{
			Timestamp: status.Timestamp,
			Error:     int(status.Code),
			Message:   status.Code.Message(),
			Details:   status.Code.Details(),
		})
		return
	}

	slog.Error("unhandled service error",
		slog.String("trace_id", shared.GetTraceID(r.Context())),
		slog.String("path", r.URL.Path),
		slog.String("method", r.Method),
		slog.String("error", err.Error()))
	shared.RespondWithError(w, r, http.StatusInternalServerError, shared.ErrorResponse{
		Timestamp: domain.FormatTimestamp(time.Now()),
		Error:     http.StatusInternalServerError,
		Message:   "internal server error",
		Details:   "the request could not be processed",
	})
}

// respondWithCase renders a rejection detected by the handler itself, such
// as a missing or unparseable header.
func respondWithCase(w http.ResponseWriter, r *http.Request, code errorcase.Code) {
	shared.RespondWithError(w, r, code.HTTPStatus(), shared.ErrorResponse{
		Timestamp: domain.FormatTimestamp(time.Now()),
		Error:     int(code),
		Message:   code.Message(),
		Details:   code.Details(),
	})
}
