package valuation

import (
	"errors"
	"fmt"

	"github.com/iwvelando/property-valuation/pkg/mathutil"
)

// Engine values properties against one price source and one set of factors.
// It holds no mutable state and is safe for concurrent use.
type Engine struct {
	prices  PriceSource
	factors Factors
}

// NewEngine validates factors and returns an Engine reading prices from
// prices.
func NewEngine(prices PriceSource, factors Factors) (*Engine, error) {
	if prices == nil {
		return nil, errors.New("valuation engine requires a price source")
	}
	if err := factors.Validate(); err != nil {
		return nil, err
	}
	return &Engine{prices: prices, factors: factors}, nil
}

// Factors returns the constants the engine was built with.
func (e *Engine) Factors() Factors {
	return e.factors
}

// Estimate values one property. It returns a *ValidationError when the input
// is malformed and a *LookupError when the district and zone have no price.
func (e *Engine) Estimate(input PropertyInput) (Result, error) {
	if violations := ValidateInput(input); len(violations) > 0 {
		return Result{}, &ValidationError{Violations: violations}
	}

	unitPrice, err := ResolveUnitPrice(e.prices, input.District, input.Zone)
	if err != nil {
		return Result{}, err
	}

	propertyType, recognized := ParsePropertyType(input.PropertyType)
	f := e.factors

	b := Breakdown{
		PropertyType:   propertyType,
		TypeRecognized: recognized,
		UnitPrice:      unitPrice,
		EffectiveArea:  EffectiveArea(input.CoveredArea, input.FreeArea, propertyType, f.FreeArea),
	}
	b.BaseValue = unitPrice * b.EffectiveArea

	// Stage order is fixed: age, bedrooms, bathrooms, floor and elevator, type.
	b.AgeFactor = f.Age.Multiplier(input.AgeYears)
	b.BedroomFactor = f.Bedrooms.Multiplier(input.Bedrooms)
	b.BathroomFactor = f.Bathrooms.Multiplier(input.Bathrooms)
	b.FloorFactor = f.Floors.Multiplier(input.Floor)
	b.ElevatorFactor = f.Elevator.Multiplier(input.Floor, input.HasElevator)
	b.TypeFactor = f.Types.For(propertyType)

	value := b.BaseValue
	for _, factor := range []float64{
		b.AgeFactor,
		b.BedroomFactor,
		b.BathroomFactor,
		b.FloorFactor,
		b.ElevatorFactor,
		b.TypeFactor,
	} {
		value *= factor
	}
	b.LocalMid = value

	if !(value > 0) {
		return Result{}, fmt.Errorf("%w: valuation came out at %v", ErrInvalidFactors, value)
	}

	low, high := Range(value, f.Band)
	currency := input.Currency
	if currency != CurrencyForeign {
		currency = CurrencyLocal
	}

	result := Result{
		Low:           ConvertCurrency(low, currency, f.ExchangeRate),
		Mid:           ConvertCurrency(value, currency, f.ExchangeRate),
		High:          ConvertCurrency(high, currency, f.ExchangeRate),
		Currency:      currency,
		CurrencyLabel: currency.Label(),
		Breakdown:     b,
	}
	for _, amount := range []float64{result.Low, result.Mid, result.High} {
		if !(amount > 0) || !mathutil.IsFinite(amount) {
			return Result{}, &RangeError{Low: result.Low, Mid: result.Mid, High: result.High}
		}
	}
	return result, nil
}
