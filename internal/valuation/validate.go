package valuation

import (
	"github.com/iwvelando/property-valuation/pkg/mathutil"
)

// ValidateInput returns every violated precondition of input, in a fixed
// order, or nil when the input is valid. The checks are independent.
//
// Numeric fields that could not be parsed upstream are expected to arrive as
// zero; they are then reported like any other out-of-range value. Text fields
// are only checked for presence, so blank-but-present names fail at lookup.
func ValidateInput(input PropertyInput) []string {
	var violations []string

	if input.District == "" || input.Zone == "" {
		violations = append(violations, "district and zone must be selected")
	}
	if input.PropertyType == "" {
		violations = append(violations, "property type must be selected")
	}
	if !(input.CoveredArea > 0) || !mathutil.IsFinite(input.CoveredArea) {
		violations = append(violations, "covered area must be greater than 0")
	}
	if !(input.FreeArea >= 0) || !mathutil.IsFinite(input.FreeArea) {
		violations = append(violations, "free area cannot be negative")
	}
	if input.Bedrooms < 1 {
		violations = append(violations, "must have at least 1 bedroom")
	}
	if input.Bathrooms < 1 {
		violations = append(violations, "must have at least 1 bathroom")
	}
	if input.Floor < 1 {
		violations = append(violations, "floor must be 1 or greater")
	}
	if input.AgeYears < 0 {
		violations = append(violations, "age cannot be negative")
	}

	return violations
}
