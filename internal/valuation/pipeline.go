package valuation

import "github.com/iwvelando/property-valuation/pkg/mathutil"

// PriceSource supplies the unit price for a district and zone. The boolean is
// false when the combination is not configured.
type PriceSource interface {
	UnitPrice(district, zone string) (float64, bool)
}

// ResolveUnitPrice looks up the unit price for a district and zone. A missing
// district or zone, and a stored price that is not a positive finite number,
// yield a *LookupError.
func ResolveUnitPrice(prices PriceSource, district, zone string) (float64, error) {
	price, ok := prices.UnitPrice(district, zone)
	if !ok || !(price > 0) || !mathutil.IsFinite(price) {
		return 0, &LookupError{District: district, Zone: zone}
	}
	return price, nil
}

// For returns the free-area weight for a property type.
func (w FreeAreaWeights) For(propertyType PropertyType) float64 {
	switch propertyType {
	case House:
		return w.House
	case Land:
		return w.Land
	default:
		return w.Apartment
	}
}

// EffectiveArea is the covered area plus the weighted free area.
func EffectiveArea(coveredArea, freeArea float64, propertyType PropertyType, weights FreeAreaWeights) float64 {
	return coveredArea + freeArea*weights.For(propertyType)
}

// Multiplier returns the age adjustment: a premium up to NewMaxAge years,
// otherwise linear depreciation saturating at MaxDepreciation.
func (a AgeFactors) Multiplier(ageYears int) float64 {
	if ageYears <= a.NewMaxAge {
		return 1 + a.NewPremium
	}
	depreciation := mathutil.Min(float64(ageYears)*a.AnnualDepreciationRate, a.MaxDepreciation)
	return 1 - depreciation
}

// Multiplier returns the room-count adjustment. Above the baseline the bonus
// is capped; below it the penalty grows without a cap.
func (r RoomFactors) Multiplier(count int) float64 {
	switch {
	case count == r.Baseline:
		return 1
	case count > r.Baseline:
		increment := mathutil.Min(float64(count-r.Baseline)*r.PerUnitRate, r.IncrementCap)
		return 1 + increment
	default:
		decrement := float64(r.Baseline-count) * r.BelowBaselineRate
		return 1 - decrement
	}
}

// Multiplier returns the multiplier of the band containing floor.
func (b FloorBands) Multiplier(floor int) float64 {
	switch {
	case floor <= b.Low.Max:
		return b.Low.Multiplier
	case floor <= b.Ideal.Max:
		return b.Ideal.Multiplier
	case floor <= b.High.Max:
		return b.High.Multiplier
	default:
		return b.ExtremeHigh.Multiplier
	}
}

// Multiplier returns the elevator adjustment for a floor. With an elevator
// the premium and the high floor bonus compound; without one the walk-up
// penalty depends on how high the floor is.
func (e ElevatorFactors) Multiplier(floor int, hasElevator bool) float64 {
	if hasElevator {
		factor := 1 + e.Premium
		if floor >= e.HighFloorThreshold {
			factor *= 1 + e.HighFloorBonus
		}
		return factor
	}

	switch {
	case floor >= e.HighPenaltyFloor:
		return e.HighPenalty
	case floor >= e.MidPenaltyFloor:
		return e.MidPenalty
	default:
		return 1
	}
}

// For returns the multiplier for a property type.
func (t TypeMultipliers) For(propertyType PropertyType) float64 {
	switch propertyType {
	case House:
		return t.House
	case Land:
		return t.Land
	case Office:
		return t.Office
	case Commercial:
		return t.Commercial
	default:
		return t.Apartment
	}
}

// Range spreads mid by the band in both directions.
func Range(mid, band float64) (low, high float64) {
	return mid * (1 - band), mid * (1 + band)
}

// ConvertCurrency converts a local amount into currency.
func ConvertCurrency(amount float64, currency Currency, exchangeRate float64) float64 {
	if currency == CurrencyForeign {
		return amount / exchangeRate
	}
	return amount
}

// ToLocal is the inverse of ConvertCurrency.
func ToLocal(amount float64, currency Currency, exchangeRate float64) float64 {
	if currency == CurrencyForeign {
		return amount * exchangeRate
	}
	return amount
}
