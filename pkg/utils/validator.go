package utils

import (
	"fmt"
	"regexp"
)

var prNumberRegex = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// ValidatePRNumber validates the purchase request number format: four
// digits, dash, two digits, dash, two digits (e.g. 2024-01-01).
func ValidatePRNumber(prNumber string) error {
	if !prNumberRegex.MatchString(prNumber) {
		return fmt.Errorf("PR number must match NNNN-NN-NN: %q", prNumber)
	}
	return nil
}

// ValidateAmount validates a record amount.
func ValidateAmount(amount float64) error {
	if amount <= 0 {
		return fmt.Errorf("amount must be positive: %.2f", amount)
	}
	return nil
}

// SanitizeString removes control characters from user-supplied text.
func SanitizeString(s string) string {
	return regexp.MustCompile(`[\x00-\x1f\x7f]`).ReplaceAllString(s, "")
}
