// Package valuation implements the property valuation engine: input
// validation, base price resolution, area weighting, the fixed sequence of
// multiplicative adjustments and the low/mid/high range in the requested
// currency.
//
// The engine performs no I/O and no logging. Callers are responsible for
// coercing raw form values into a PropertyInput and for presenting results.
package valuation

import (
	"strings"

	"github.com/iwvelando/property-valuation/pkg/constants"
)

// PropertyType is the normalised classification of a property.
type PropertyType string

// Supported property types.
const (
	Apartment  PropertyType = "apartment"
	House      PropertyType = "house"
	Land       PropertyType = "land"
	Office     PropertyType = "office"
	Commercial PropertyType = "commercial"
)

// typeTokens is checked in order; the first type with a token contained in
// the raw string wins.
var typeTokens = []struct {
	propertyType PropertyType
	tokens       []string
}{
	{Apartment, []string{"apartment", "departamento"}},
	{House, []string{"house", "casa"}},
	{Land, []string{"land", "terreno"}},
	{Office, []string{"office", "oficina"}},
	{Commercial, []string{"commercial", "local"}},
}

// ParsePropertyType classifies a free-text property type by case-insensitive
// substring match. Unrecognised values fall back to Apartment and report
// false.
func ParsePropertyType(raw string) (PropertyType, bool) {
	lower := strings.ToLower(strings.TrimSpace(raw))
	if lower == "" {
		return Apartment, false
	}
	for _, candidate := range typeTokens {
		for _, token := range candidate.tokens {
			if strings.Contains(lower, token) {
				return candidate.propertyType, true
			}
		}
	}
	return Apartment, false
}

// Currency selects the currency a result is expressed in.
type Currency string

// Supported currencies. Prices in the lookup table are always local.
const (
	CurrencyLocal   Currency = "local"
	CurrencyForeign Currency = "foreign"
)

// ParseCurrency maps a raw selection to a Currency. "USD" and "foreign"
// select the foreign currency; anything else, including an empty value,
// selects local.
func ParseCurrency(raw string) Currency {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case strings.ToLower(constants.ForeignCurrencyCode), string(CurrencyForeign):
		return CurrencyForeign
	default:
		return CurrencyLocal
	}
}

// Label returns the display label for the currency.
func (c Currency) Label() string {
	if c == CurrencyForeign {
		return constants.ForeignCurrencyLabel
	}
	return constants.LocalCurrencyLabel
}

// Code returns the ISO code for the currency.
func (c Currency) Code() string {
	if c == CurrencyForeign {
		return constants.ForeignCurrencyCode
	}
	return constants.LocalCurrencyCode
}

// PropertyInput is one valuation request.
type PropertyInput struct {
	District     string   `json:"district" yaml:"district"`
	Zone         string   `json:"zone" yaml:"zone"`
	PropertyType string   `json:"type" yaml:"type"`
	CoveredArea  float64  `json:"coveredArea" yaml:"coveredArea"`
	FreeArea     float64  `json:"freeArea" yaml:"freeArea"`
	Bedrooms     int      `json:"bedrooms" yaml:"bedrooms"`
	Bathrooms    int      `json:"bathrooms" yaml:"bathrooms"`
	Floor        int      `json:"floor" yaml:"floor"`
	HasElevator  bool     `json:"hasElevator" yaml:"hasElevator"`
	AgeYears     int      `json:"ageYears" yaml:"ageYears"`
	Currency     Currency `json:"currency" yaml:"currency"`
}

// Result is the outcome of a successful valuation. Low, Mid and High are in
// the requested currency.
type Result struct {
	Low           float64   `json:"low"`
	Mid           float64   `json:"mid"`
	High          float64   `json:"high"`
	Currency      Currency  `json:"currency"`
	CurrencyLabel string    `json:"currencyLabel"`
	Breakdown     Breakdown `json:"breakdown"`
}

// Breakdown records how the point estimate was reached, in local currency.
type Breakdown struct {
	PropertyType   PropertyType `json:"propertyType"`
	TypeRecognized bool         `json:"typeRecognized"`
	UnitPrice      float64      `json:"unitPrice"`
	EffectiveArea  float64      `json:"effectiveArea"`
	BaseValue      float64      `json:"baseValue"`
	AgeFactor      float64      `json:"ageFactor"`
	BedroomFactor  float64      `json:"bedroomFactor"`
	BathroomFactor float64      `json:"bathroomFactor"`
	FloorFactor    float64      `json:"floorFactor"`
	ElevatorFactor float64      `json:"elevatorFactor"`
	TypeFactor     float64      `json:"typeFactor"`
	LocalMid       float64      `json:"localMid"`
}
