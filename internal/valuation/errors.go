package valuation

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidFactors is wrapped by Factors.Validate and NewEngine when the
// configured constants could produce a non-positive valuation.
var ErrInvalidFactors = errors.New("invalid valuation factors")

// ValidationError lists every precondition the input violated, in check order.
type ValidationError struct {
	Violations []string
}

func (e *ValidationError) Error() string {
	return strings.Join(e.Violations, ". ")
}

// LookupError reports that no usable unit price exists for a district and zone.
type LookupError struct {
	District string
	Zone     string
}

func (e *LookupError) Error() string {
	return "no price found for selected zone"
}

// Detail names the district and zone that failed to resolve.
func (e *LookupError) Detail() string {
	return fmt.Sprintf("no price found for zone %q in district %q", e.Zone, e.District)
}

// RangeError reports a valuation whose amounts are not positive finite
// numbers, typically because the input areas are too large to price.
type RangeError struct {
	Low, Mid, High float64
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("valuation out of range: low=%v mid=%v high=%v", e.Low, e.Mid, e.High)
}
