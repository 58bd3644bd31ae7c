package utils

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	afmRegex  = regexp.MustCompile(`^\d{9}$`)
	amkaRegex = regexp.MustCompile(`^\d{11}$`)
)

// ValidateRequired checks that a value is non-blank after trimming. The
// returned message names the field by its label; empty string means valid.
func ValidateRequired(value, label string) string {
	if strings.TrimSpace(value) == "" {
		return fmt.Sprintf("Το πεδίο %s είναι υποχρεωτικό", label)
	}
	return ""
}

// ValidateAFMFormat checks that a tax identifier is exactly 9 digits. An
// empty value passes; emptiness is the concern of the required-field rule.
func ValidateAFMFormat(afm string) string {
	if afm == "" {
		return ""
	}
	if !afmRegex.MatchString(afm) {
		return "Το ΑΦΜ πρέπει να αποτελείται από 9 ψηφία"
	}
	return ""
}

// ValidateAMKAFormat checks that an insurance identifier is exactly 11
// digits, with the same emptiness rule as ValidateAFMFormat.
func ValidateAMKAFormat(amka string) string {
	if amka == "" {
		return ""
	}
	if !amkaRegex.MatchString(amka) {
		return "Το ΑΜΚΑ πρέπει να αποτελείται από 11 ψηφία"
	}
	return ""
}

// SanitizeString removes leading/trailing whitespace
func SanitizeString(s string) string {
	return strings.TrimSpace(s)
}
