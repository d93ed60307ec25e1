// Package errorcase defines the closed result-code taxonomy shared by the
// validators, the banking service and the HTTP layer. Every business outcome
// other than success is one of these codes; store or driver failures are
// ordinary errors and never map to a code.
package errorcase

import (
	"fmt"
	"net/http"
)

// Code is a result code. Success is the zero value.
type Code int

// Error cases schema: code, message, details.
//
//	==== success case ===========
//	00 Success
//	==== generic ================
//	10 Null attributes
//	==== string-related =========
//	20 Exceeding max length
//	21 Exceeding min length
//	22 Incorrect parsing
//	23 Incorrect pattern
//	==== int-related ============
//	30 Exceeding max range
//	31 Exceeding min range
//	==== elaboration-related ====
//	40 Already exist
//	41 Not found
//	42 Unauthorized
//	43 Timeout
//	44 Forbidden
//	==== banking-related ========
//	50 Invalid deposit amount
//	51 Invalid destination deposit
//	52 Going negative
const (
	Success            Code = 0
	NullAttributes     Code = 10
	ExceedingMaxLength Code = 20
	ExceedingMinLength Code = 21
	IncorrectParsing   Code = 22
	IncorrectPattern   Code = 23
	ExceedingMaxRange  Code = 30
	ExceedingMinRange  Code = 31
	AlreadyExist       Code = 40
	NotFound           Code = 41
	Unauthorized       Code = 42
	Timeout            Code = 43
	Forbidden          Code = 44

	InvalidDepositAmount      Code = 50
	InvalidDestinationDeposit Code = 51
	GoingNegative             Code = 52
)

type caseText struct {
	message string
	details string
}

var texts = map[Code]caseText{
	Success: {
		message: "success",
		details: "action completed",
	},
	NullAttributes: {
		message: "attribute can't be null",
		details: "the attribute does not exist or is null",
	},
	ExceedingMaxLength: {
		message: "string exceed the maximum length",
		details: "the string-typed attribute exceeds the maximum permitted length",
	},
	ExceedingMinLength: {
		message: "string exceed the minimum length",
		details: "the string-typed attribute exceeds the minimum permitted length",
	},
	IncorrectParsing: {
		message: "string isn't one of the predefined",
		details: "the string-typed attribute doesn't correspond to predefined schema",
	},
	IncorrectPattern: {
		message: "string isn't following the regex pattern",
		details: "the string-typed attribute doesn't follow the regex pattern",
	},
	ExceedingMaxRange: {
		message: "integer exceed the maximum value",
		details: "the int-typed attribute exceeds the maximum permitted value",
	},
	ExceedingMinRange: {
		message: "integer exceed the minimum value",
		details: "the int-typed attribute exceeds the minimum permitted value",
	},
	AlreadyExist: {
		message: "the entity already exist",
		details: "the entity attributes already have this values",
	},
	NotFound: {
		message: "the entity does not exist",
		details: "the elaboration parameters didn't produced any entity",
	},
	Unauthorized: {
		message: "the session token does not exist",
		details: "the session token served doesn't exist, impossible to confirm authority",
	},
	Timeout: {
		message: "the session has expired",
		details: "the time to live of the session token ended",
	},
	Forbidden: {
		message: "the entity is not reachable",
		details: "the entity does not exist or is not owned by the caller",
	},
	InvalidDepositAmount: {
		message: "the amount is not acceptable for this deposit",
		details: "the opening amount does not meet the minimum required by the deposit type",
	},
	InvalidDestinationDeposit: {
		message: "the destination deposit is not valid",
		details: "the destination deposit does not exist, is closed or is not owned by the caller",
	},
	GoingNegative: {
		message: "the balance cannot go negative",
		details: "the withdrawal exceeds the available deposit balance",
	},
}

var httpStatuses = map[Code]int{
	Success:                   http.StatusOK,
	NullAttributes:            http.StatusBadRequest,
	ExceedingMaxLength:        http.StatusBadRequest,
	ExceedingMinLength:        http.StatusBadRequest,
	IncorrectParsing:          http.StatusBadRequest,
	IncorrectPattern:          http.StatusBadRequest,
	ExceedingMaxRange:         http.StatusBadRequest,
	ExceedingMinRange:         http.StatusBadRequest,
	AlreadyExist:              http.StatusConflict,
	NotFound:                  http.StatusNotFound,
	Unauthorized:              http.StatusUnauthorized,
	Timeout:                   http.StatusUnauthorized,
	Forbidden:                 http.StatusForbidden,
	InvalidDepositAmount:      http.StatusNotAcceptable,
	InvalidDestinationDeposit: http.StatusNotAcceptable,
	GoingNegative:             http.StatusNotAcceptable,
}

// Message returns the fixed human message for the code.
func (c Code) Message() string {
	return texts[c].message
}

// Details returns the fixed detail line for the code.
func (c Code) Details() string {
	return texts[c].details
}

// HTTPStatus returns the HTTP status associated with the code.
// Unknown codes fall back to 500.
func (c Code) HTTPStatus() int {
	if status, ok := httpStatuses[c]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// Valid reports whether c is part of the taxonomy.
func (c Code) Valid() bool {
	_, ok := texts[c]
	return ok
}

// Status is the tagged error descriptor carried from the banking service up
// to the HTTP layer. Timestamp is the store clock at the moment the outcome
// was produced, formatted as "YYYY-MM-DD HH:MM:SS".
type Status struct {
	Code      Code
	Timestamp string
}

// NewStatus builds a Status for the given code and store-clock timestamp.
func NewStatus(code Code, timestamp string) *Status {
	return &Status{Code: code, Timestamp: timestamp}
}

// Error implements the error interface.
func (s *Status) Error() string {
	return fmt.Sprintf("error case %d: %s", s.Code, s.Code.Message())
}
