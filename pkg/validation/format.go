// Package validation provides common validation utilities.
package validation

import (
	"fmt"

	"github.com/iwvelando/property-valuation/pkg/constants"
	"golang.org/x/text/language"
)

// ValidateOutputFormat checks if the output format is one of the supported formats.
func ValidateOutputFormat(format string) error {
	if format != constants.OutputFormatPretty && format != constants.OutputFormatCSV {
		return fmt.Errorf("expected output format of %s or %s, got %s",
			constants.OutputFormatPretty, constants.OutputFormatCSV, format)
	}
	return nil
}

// ParseLocale parses the output locale, defaulting to English when empty.
func ParseLocale(locale string) (language.Tag, error) {
	if locale == "" {
		locale = constants.DefaultOutputLocale
	}
	tag, err := language.Parse(locale)
	if err != nil {
		return language.Und, fmt.Errorf("invalid output locale %q: %w", locale, err)
	}
	return tag, nil
}
