// Package phone normalizes and validates E.164-style phone numbers.
package phone

import (
	"fmt"
	"strings"
)

// Validate checks that raw is an E.164-style number: a leading '+' followed
// by a country code and subscriber number. Formatting characters after the
// '+' are stripped. The normalized number must be 8-16 characters long
// including the '+'. Returns the normalized number or a descriptive reason.
func Validate(raw string) (string, error) {
	if !strings.HasPrefix(raw, "+") {
		return "", fmt.Errorf("phone number must start with '+' followed by country code")
	}
	var b strings.Builder
	b.WriteByte('+')
	for _, r := range raw[1:] {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	cleaned := b.String()
	if len(cleaned) < 8 || len(cleaned) > 16 {
		return "", fmt.Errorf("phone number %s has an invalid length", cleaned)
	}
	return cleaned, nil
}
