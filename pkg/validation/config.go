// Package validation provides configuration validation utilities.
package validation

import (
	"fmt"

	"github.com/iwvelando/property-valuation/internal/valuation"
)

// PriceLookup is the part of a price table needed to check requests.
type PriceLookup interface {
	UnitPrice(district, zone string) (float64, bool)
}

// RequestInfo is the subset of a property request that can be checked
// before valuation.
type RequestInfo struct {
	Name     string
	District string
	Zone     string
	Type     string
}

// RequestValidator checks configured property requests. Prices is optional.
type RequestValidator struct {
	Requests []RequestInfo
	Prices   PriceLookup
}

// ValidatePropertyType warns when a type will fall back to apartment pricing.
func ValidatePropertyType(name, propertyType string) string {
	if propertyType == "" {
		return ""
	}
	if _, recognized := valuation.ParsePropertyType(propertyType); !recognized {
		return fmt.Sprintf("Property '%s' has unrecognized type '%s' - apartment factors will be used",
			name, propertyType)
	}
	return ""
}

// ValidateLocation warns when a district and zone have no usable price.
func ValidateLocation(name, district, zone string, prices PriceLookup) string {
	if district == "" || zone == "" {
		return ""
	}
	price, ok := prices.UnitPrice(district, zone)
	if !ok {
		return fmt.Sprintf("Property '%s' refers to unknown zone '%s' in district '%s'", name, zone, district)
	}
	if !(price > 0) {
		return fmt.Sprintf("Property '%s' refers to zone '%s' in district '%s' which has no price", name, zone, district)
	}
	return ""
}

// ValidateAll validates every request and returns warnings
func (rv *RequestValidator) ValidateAll() []string {
	var warnings []string
	seen := make(map[string]int)

	for i, request := range rv.Requests {
		name := request.Name
		if name == "" {
			name = fmt.Sprintf("#%d", i+1)
			warnings = append(warnings, fmt.Sprintf("Property %s has no name", name))
		} else {
			seen[name]++
			if seen[name] == 2 {
				warnings = append(warnings, fmt.Sprintf("Property name '%s' is used more than once", name))
			}
		}

		if warning := ValidatePropertyType(name, request.Type); warning != "" {
			warnings = append(warnings, warning)
		}

		if rv.Prices != nil {
			if warning := ValidateLocation(name, request.District, request.Zone, rv.Prices); warning != "" {
				warnings = append(warnings, warning)
			}
		}
	}

	return warnings
}
