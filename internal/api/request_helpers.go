package api

import (
	"net/http"
	"strconv"

	"github.com/openbanca/bank-api/internal/domain/errorcase"
)

// requireHeader reads a required request header. A missing or empty header
// is a NullAttributes rejection; the caller must stop handling after a
// non-Success code.
func requireHeader(r *http.Request, name string) (string, errorcase.Code) {
	value := r.Header.Get(name)
	if value == "" {
		return "", errorcase.NullAttributes
	}
	return value, errorcase.Success
}

// optionalHeader reads an optional request header; ok reports whether it
// was present and non-empty.
func optionalHeader(r *http.Request, name string) (value string, ok bool) {
	value = r.Header.Get(name)
	return value, value != ""
}

// parseAmount converts a header value to an amount. Values that are not
// plain base-10 integers are an IncorrectParsing rejection.
func parseAmount(value string) (int64, errorcase.Code) {
	amount, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0, errorcase.IncorrectParsing
	}
	return amount, errorcase.Success
}
