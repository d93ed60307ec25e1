// Package middleware holds the HTTP middleware applied around the banking
// handlers.
package middleware

import (
	"log/slog"
	"net/http"

	"github.com/openbanca/bank-api/internal/api/shared"
)

// Trace adds a trace ID to the request context. It runs first in the chain
// so every later handler and log line can carry the ID.
func Trace(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := shared.SetTraceID(r.Context())

		slog.Debug("request started",
			slog.String("trace_id", shared.GetTraceID(ctx)),
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.String("remote_addr", r.RemoteAddr))

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
