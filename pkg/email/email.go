// Package email holds address helpers shared by the public forms.
package email

import (
	"regexp"
	"strings"
)

// addressPattern is deliberately loose: something@something.tld without spaces.
var addressPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Normalize trims and lower-cases an address.
func Normalize(address string) string {
	return strings.ToLower(strings.TrimSpace(address))
}

// Valid reports whether address looks like an email address.
func Valid(address string) bool {
	return addressPattern.MatchString(address)
}

// LocalPart returns the part before '@', used as a display name when none was
// given.
func LocalPart(address string) string {
	if at := strings.IndexByte(address, '@'); at > 0 {
		return address[:at]
	}
	return address
}
