// Package adapters converts caller-side representations (raw form fields,
// configuration entries) into valuation inputs.
package adapters

import (
	"math"
	"strconv"
	"strings"

	"github.com/iwvelando/property-valuation/internal/valuation"
	"github.com/iwvelando/property-valuation/pkg/mathutil"
)

// Form field names accepted by InputFromForm.
const (
	FieldDistrict    = "district"
	FieldZone        = "zone"
	FieldType        = "type"
	FieldCoveredArea = "coveredArea"
	FieldFreeArea    = "freeArea"
	FieldBedrooms    = "bedrooms"
	FieldBathrooms   = "bathrooms"
	FieldFloor       = "floor"
	FieldElevator    = "elevator"
	FieldAgeYears    = "ageYears"
	FieldCurrency    = "currency"
)

// InputFromForm builds a PropertyInput from raw text fields. get returns the
// raw value of a field, or "" when it is absent.
//
// Numbers that do not parse, or parse to NaN or an infinity, become 0 and
// are then rejected by the validator like any other out-of-range value.
// Integer fields accept a decimal form and truncate it. A missing elevator
// selection means no elevator and a missing currency means local.
func InputFromForm(get func(key string) string) valuation.PropertyInput {
	return valuation.PropertyInput{
		District:     strings.TrimSpace(get(FieldDistrict)),
		Zone:         strings.TrimSpace(get(FieldZone)),
		PropertyType: strings.TrimSpace(get(FieldType)),
		CoveredArea:  ParseNumber(get(FieldCoveredArea)),
		FreeArea:     ParseNumber(get(FieldFreeArea)),
		Bedrooms:     ParseInteger(get(FieldBedrooms)),
		Bathrooms:    ParseInteger(get(FieldBathrooms)),
		Floor:        ParseInteger(get(FieldFloor)),
		HasElevator:  ParseElevator(get(FieldElevator)),
		AgeYears:     ParseInteger(get(FieldAgeYears)),
		Currency:     valuation.ParseCurrency(get(FieldCurrency)),
	}
}

// ParseNumber parses a decimal field, returning 0 for anything unusable.
func ParseNumber(raw string) float64 {
	value, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || !mathutil.IsFinite(value) {
		return 0
	}
	return value
}

// ParseInteger parses an integer field, truncating decimals and returning 0
// for anything unusable.
func ParseInteger(raw string) int {
	trimmed := strings.TrimSpace(raw)
	if value, err := strconv.Atoi(trimmed); err == nil {
		return value
	}
	value := ParseNumber(trimmed)
	if value > math.MaxInt32 || value < math.MinInt32 {
		return 0
	}
	return int(value)
}

// ParseElevator interprets the elevator selection.
func ParseElevator(raw string) bool {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "con", "with", "yes", "si", "sí", "true", "1", "on":
		return true
	default:
		return false
	}
}
