// Package validation provides common validation utilities.
package validation

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/iwvelando/metrics-calculator/pkg/constants"
)

// ValidateOutputFormat checks if the output format is one of the supported formats.
func ValidateOutputFormat(format string) error {
	if format != constants.OutputFormatPretty && format != constants.OutputFormatCSV {
		return fmt.Errorf("expected output format of %s or %s, got %s",
			constants.OutputFormatPretty, constants.OutputFormatCSV, format)
	}
	return nil
}

// ValidateCurrencySymbol checks that a currency symbol is short and contains
// no digits or whitespace, so it cannot be confused with the amount.
func ValidateCurrencySymbol(symbol string) error {
	if symbol == "" {
		return fmt.Errorf("currency symbol cannot be empty")
	}
	if len([]rune(symbol)) > 4 {
		return fmt.Errorf("currency symbol %q is longer than 4 characters", symbol)
	}
	if strings.IndexFunc(symbol, func(r rune) bool { return unicode.IsDigit(r) || unicode.IsSpace(r) }) >= 0 {
		return fmt.Errorf("currency symbol %q cannot contain digits or spaces", symbol)
	}
	return nil
}
