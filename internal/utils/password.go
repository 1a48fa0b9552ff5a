package utils

import (
	"unicode"

	"github.com/collabhub/collabhub-api/internal/constants"
)

// IsStrongPassword requires the minimum length plus at least one upper-case
// letter, one lower-case letter and one digit.
func IsStrongPassword(password string) bool {
	if len(password) < constants.MinPasswordLength {
		return false
	}
	var upper, lower, digit bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		}
	}
	return upper && lower && digit
}
