package middleware

import (
	"net/http"
	"strings"
)

// corsHeaders is every custom header the API reads from requests. Browsers
// must be told about them or preflights fail.
var corsHeaders = []string{
	"Content-Type",
	"username",
	"password",
	"token",
	"name",
	"surname",
	"type",
	"amount",
	"action",
	"destination",
	"deposit",
	"repayment-day",
}

// CORS answers preflight requests and marks every response as
// cross-origin accessible. OPTIONS requests short-circuit here and never
// reach a handler.
func CORS(next http.Handler) http.Handler {
	allowHeaders := strings.Join(corsHeaders, ", ")
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", allowHeaders)

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
