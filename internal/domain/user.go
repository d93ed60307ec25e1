// Package domain defines the banking entities and their attribute
// validators. Validators are pure functions returning a result code; invalid
// input is the reported outcome, never a panic or an error value. Checks run
// in a fixed sequence and return on the first violation, with the max bound
// always checked before the min bound.
package domain

import (
	"unicode"

	"github.com/openbanca/bank-api/internal/domain/errorcase"
)

// User is a registered account holder. The password is stored as a bcrypt
// hash; the cleartext is validated on the way in and never persisted.
type User struct {
	ID             int64     `json:"-"`
	Username       string    `json:"username"`
	HashedPassword string    `json:"-"`
	Name           string    `json:"name"`
	Surname        string    `json:"surname"`
	IBAN           string    `json:"IBAN"`
	Status         Lifecycle `json:"-"`
}

// ValidateUsername checks the 1-64 length bounds.
func ValidateUsername(username string) errorcase.Code {
	if len(username) > 64 {
		return errorcase.ExceedingMaxLength
	}
	if len(username) < 1 {
		return errorcase.ExceedingMinLength
	}
	return errorcase.Success
}

// ValidatePassword checks the 8-32 length bounds, then the complexity
// pattern: at least one digit, one uppercase, one lowercase and one symbol,
// and no whitespace.
func ValidatePassword(password string) errorcase.Code {
	if len(password) > 32 {
		return errorcase.ExceedingMaxLength
	}
	if len(password) < 8 {
		return errorcase.ExceedingMinLength
	}
	if !passwordComplexityOK(password) {
		return errorcase.IncorrectPattern
	}
	return errorcase.Success
}

func passwordComplexityOK(password string) bool {
	var hasDigit, hasUpper, hasLower, hasSymbol bool
	for _, r := range password {
		switch {
		case unicode.IsSpace(r):
			return false
		case unicode.IsDigit(r):
			hasDigit = true
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsPunct(r) || unicode.IsSymbol(r):
			hasSymbol = true
		}
	}
	return hasDigit && hasUpper && hasLower && hasSymbol
}

// ValidateName checks the 1-64 length bounds.
func ValidateName(name string) errorcase.Code {
	if len(name) > 64 {
		return errorcase.ExceedingMaxLength
	}
	if len(name) < 1 {
		return errorcase.ExceedingMinLength
	}
	return errorcase.Success
}

// ValidateSurname checks the 1-64 length bounds.
func ValidateSurname(surname string) errorcase.Code {
	if len(surname) > 64 {
		return errorcase.ExceedingMaxLength
	}
	if len(surname) < 1 {
		return errorcase.ExceedingMinLength
	}
	return errorcase.Success
}

// ValidateIBAN checks the 15-32 length bounds. The IBAN is derived, not
// user-supplied, so no structural check beyond length is applied.
func ValidateIBAN(iban string) errorcase.Code {
	if len(iban) > 32 {
		return errorcase.ExceedingMaxLength
	}
	if len(iban) < 15 {
		return errorcase.ExceedingMinLength
	}
	return errorcase.Success
}
