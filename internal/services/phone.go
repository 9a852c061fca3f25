package services

import (
	"regexp"
	"strings"
)

var ethiopianPhone = regexp.MustCompile(`^\+251[0-9]{9}$`)

// FormatPhone normalizes user input into E.164 for Ethiopian numbers.
// Non-digits are stripped, a leading 0 is swapped for the 251 country
// code, and bare local numbers get 251 prepended.
func FormatPhone(raw string) string {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	digits := b.String()

	switch {
	case strings.HasPrefix(digits, "251"):
		// already has country code
	case strings.HasPrefix(digits, "0"):
		digits = "251" + digits[1:]
	default:
		digits = "251" + digits
	}
	return "+" + digits
}

func IsValidPhone(phone string) bool {
	return ethiopianPhone.MatchString(phone)
}
