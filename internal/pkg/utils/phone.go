package utils

import (
	"fmt"
	"regexp"
	"strings"
)

var reDigitsOnly = regexp.MustCompile(`^\d+$`)

// NormalizePhoneDigits trims spaces, removes inner spaces, and strips a single
// leading '+'. Telecom gateways are inconsistent about the '+' prefix, so all
// repository lookups go through this first.
func NormalizePhoneDigits(input string) string {
	s := strings.TrimSpace(input)
	s = strings.ReplaceAll(s, " ", "")
	s = strings.TrimPrefix(s, "+")
	return s
}

// ValidateInternationalPhoneDigits enforces E.164 digits without the '+':
// digits only, 10..15 long, not starting with '0'.
func ValidateInternationalPhoneDigits(phoneDigits string) error {
	if strings.TrimSpace(phoneDigits) == "" {
		return fmt.Errorf("phone is required")
	}
	if !reDigitsOnly.MatchString(phoneDigits) {
		return fmt.Errorf("phone must contain digits only")
	}
	if strings.HasPrefix(phoneDigits, "0") {
		return fmt.Errorf("phone must include country code (must not start with 0)")
	}
	if len(phoneDigits) < 10 || len(phoneDigits) > 15 {
		return fmt.Errorf("phone must be 10 to 15 digits (international format without '+')")
	}
	return nil
}
