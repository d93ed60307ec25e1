// Package shared holds the response and context helpers used by every
// handler: the uniform error body, the JSON writer and the request trace ID.
package shared

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// ErrorResponse is the uniform error body. Error carries the numeric case
// code, Message a terse summary and Details the longer explanation;
// Timestamp records when the rejection was produced.
type ErrorResponse struct {
	Timestamp string `json:"timestamp"`
	Error     int    `json:"error"`
	Message   string `json:"message"`
	Details   string `json:"details"`
}

// RespondWithJSON writes data as a JSON response with the given status.
func RespondWithJSON(w http.ResponseWriter, r *http.Request, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("failed to encode JSON response", "error", err)
	}
}

// RespondWithError writes an ErrorResponse with the given status and logs
// it. 5xx responses are logged at ERROR level, everything else at DEBUG.
func RespondWithError(w http.ResponseWriter, r *http.Request, status int, body ErrorResponse) {
	traceID := GetTraceID(r.Context())

	level := slog.LevelDebug
	if status >= http.StatusInternalServerError {
		level = slog.LevelError
	}
	slog.LogAttrs(r.Context(), level, "API error response",
		slog.String("trace_id", traceID),
		slog.String("path", r.URL.Path),
		slog.String("method", r.Method),
		slog.Int("status_code", status),
		slog.Int("error_case", body.Error),
		slog.String("message", body.Message))

	RespondWithJSON(w, r, status, body)
}
