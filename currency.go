package tpos

import (
	"strings"

	"golang.org/x/text/currency"
)

// IsValidCurrencyCode reports whether code is a recognized, upper-case
// ISO 4217 currency code.
func IsValidCurrencyCode(code string) bool {
	if len(code) != 3 || strings.ToUpper(code) != code {
		return false
	}
	_, err := currency.ParseISO(code)
	return err == nil
}
