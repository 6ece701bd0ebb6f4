package utils

import (
	// Go Internal Packages
	"regexp"
	"strings"
	"unicode"
)

const CountryCode = "254"

var nationalNumber = regexp.MustCompile(`^254\d{9}$`)

// StripSpaces removes every whitespace rune from s
func StripSpaces(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
}

// NormalizePhone rewrites a Kenyan phone number into 254XXXXXXXXX form.
// ok is false when the result does not carry the country code or is not a
// 12 digit national number.
func NormalizePhone(raw string) (string, bool) {
	num := StripSpaces(raw)
	num = strings.TrimPrefix(num, "+")
	num = strings.TrimPrefix(num, "00")
	if strings.HasPrefix(num, "0") {
		num = CountryCode + num[1:]
	}
	if !strings.HasPrefix(num, CountryCode) {
		return num, false
	}
	return num, nationalNumber.MatchString(num)
}
