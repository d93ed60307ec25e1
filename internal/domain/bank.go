package domain

import "fmt"

// IBAN layout:
// country code | check digits | national check digit | bank code | branch code | account number
// 2 chars      | 2 digits     | 1 char               | 5 digits  | 5 digits    | 12 digits
const (
	CountryCode = "IT"
	BankCode    = "25836"
	BranchCode  = "37592"

	ibanCheckDigits   = "99"
	ibanNationalCheck = "X"
)

// MinimumSavingAmount is the smallest opening amount accepted for a saving
// deposit.
const MinimumSavingAmount = 0

// BuildIBAN derives the account IBAN from the newly assigned numeric user
// id, zero-padded to 12 digits. The check digits are a fixed placeholder.
func BuildIBAN(userID int64) string {
	return fmt.Sprintf("%s%s%s%s%s%012d",
		CountryCode, ibanCheckDigits, ibanNationalCheck, BankCode, BranchCode, userID)
}
