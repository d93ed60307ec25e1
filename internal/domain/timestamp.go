package domain

import (
	"regexp"
	"time"

	"github.com/openbanca/bank-api/internal/domain/errorcase"
)

// TimestampLayout is the wire format for every timestamp exposed by the API,
// e.g. "2021-12-25 12:00:00".
const TimestampLayout = "2006-01-02 15:04:05"

const timestampLength = 19

// calendar-plausible month (01-12), day (01-31), hour (00-23), min/sec (00-59)
var timestampPattern = regexp.MustCompile(
	`^[0-9]{4}-(0[1-9]|1[0-2])-([0-2][0-9]|3[01]) ([01][0-9]|2[0-3])(:[0-5][0-9]){2}$`,
)

// ValidateTimestamp checks the "YYYY-MM-DD HH:MM:SS" wire format. Length is
// checked before the pattern, max bound first.
func ValidateTimestamp(timestamp string) errorcase.Code {
	if len(timestamp) > timestampLength {
		return errorcase.ExceedingMaxLength
	}
	if len(timestamp) < timestampLength {
		return errorcase.ExceedingMinLength
	}
	if !timestampPattern.MatchString(timestamp) {
		return errorcase.IncorrectPattern
	}
	return errorcase.Success
}

// FormatTimestamp renders a store-clock time in the wire format.
func FormatTimestamp(t time.Time) string {
	return t.Format(TimestampLayout)
}
