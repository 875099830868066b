package model

import "regexp"

var (
	nonDigits = regexp.MustCompile(`\D`)
	// a leading "+<country code>" group, e.g. "+1 " or "+91-"
	countryCode = regexp.MustCompile(`^\s*\+\d{1,3}[\s\-.(]`)
)

// PhoneDigits drops a leading country code, strips everything but digits and
// keeps at most ten of them.
func PhoneDigits(raw string) string {
	raw = countryCode.ReplaceAllString(raw, "")
	digits := nonDigits.ReplaceAllString(raw, "")
	if len(digits) > 10 {
		digits = digits[:10]
	}
	return digits
}

// PhoneOf returns the normalized digits of a phone field, or "" when absent.
func (a Answers) PhoneOf(name string) string {
	return PhoneDigits(a.TextOf(name))
}
