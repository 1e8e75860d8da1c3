package model

import (
	"fmt"
	"regexp"
	"strings"
)

var usE164 = regexp.MustCompile(`^\+1[0-9]{10}$`)

// IsUSE164 reports whether s is a US number in E.164 form, e.g. +15551234567.
func IsUSE164(s string) bool { return usE164.MatchString(s) }

// NormalizeUSPhone strips formatting, drops one leading country code 1 when 11
// digits remain, and requires exactly ten digits. It never pads or truncates.
func NormalizeUSPhone(raw string) (string, error) {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	digits := b.String()
	if len(digits) == 11 && digits[0] == '1' {
		digits = digits[1:]
	}
	if len(digits) != 10 {
		return "", fmt.Errorf("%w: phone number must have 10 US digits", ErrValidation)
	}
	return "+1" + digits, nil
}
