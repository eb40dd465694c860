package valuation

import (
	"fmt"
	"strings"

	"github.com/iwvelando/property-valuation/pkg/constants"
	"github.com/iwvelando/property-valuation/pkg/mathutil"
)

// Factors holds every constant of the valuation formula. The zero value is
// not usable; start from DefaultFactors and override what you need.
type Factors struct {
	Age          AgeFactors      `json:"age" yaml:"age"`
	Bedrooms     RoomFactors     `json:"bedrooms" yaml:"bedrooms"`
	Bathrooms    RoomFactors     `json:"bathrooms" yaml:"bathrooms"`
	Floors       FloorBands      `json:"floors" yaml:"floors"`
	Elevator     ElevatorFactors `json:"elevator" yaml:"elevator"`
	FreeArea     FreeAreaWeights `json:"freeArea" yaml:"freeArea"`
	Types        TypeMultipliers `json:"types" yaml:"types"`
	Band         float64         `json:"band" yaml:"band"`
	ExchangeRate float64         `json:"exchangeRate" yaml:"exchangeRate"`
}

// AgeFactors controls the new-property premium and yearly depreciation.
type AgeFactors struct {
	NewMaxAge              int     `json:"newMaxAge" yaml:"newMaxAge"`
	NewPremium             float64 `json:"newPremium" yaml:"newPremium"`
	AnnualDepreciationRate float64 `json:"annualDepreciationRate" yaml:"annualDepreciationRate"`
	MaxDepreciation        float64 `json:"maxDepreciation" yaml:"maxDepreciation"`
}

// RoomFactors controls the bedroom or bathroom adjustment. The bonus above
// Baseline is capped at IncrementCap; the penalty below it is not capped.
type RoomFactors struct {
	Baseline          int     `json:"baseline" yaml:"baseline"`
	PerUnitRate       float64 `json:"perUnitRate" yaml:"perUnitRate"`
	IncrementCap      float64 `json:"incrementCap" yaml:"incrementCap"`
	BelowBaselineRate float64 `json:"belowBaselineRate" yaml:"belowBaselineRate"`
}

// FloorBand is an inclusive floor range with its multiplier.
type FloorBand struct {
	Min        int     `json:"min" yaml:"min"`
	Max        int     `json:"max" yaml:"max"`
	Multiplier float64 `json:"multiplier" yaml:"multiplier"`
}

// FloorBands partitions floors 1 and up into four contiguous bands.
// ExtremeHigh is open ended and its Max is ignored.
type FloorBands struct {
	Low         FloorBand `json:"low" yaml:"low"`
	Ideal       FloorBand `json:"ideal" yaml:"ideal"`
	High        FloorBand `json:"high" yaml:"high"`
	ExtremeHigh FloorBand `json:"extremeHigh" yaml:"extremeHigh"`
}

// ElevatorFactors controls the elevator premium and the walk-up penalty.
// Its floor thresholds are independent of FloorBands.
type ElevatorFactors struct {
	Premium            float64 `json:"premium" yaml:"premium"`
	HighFloorThreshold int     `json:"highFloorThreshold" yaml:"highFloorThreshold"`
	HighFloorBonus     float64 `json:"highFloorBonus" yaml:"highFloorBonus"`
	MidPenaltyFloor    int     `json:"midPenaltyFloor" yaml:"midPenaltyFloor"`
	MidPenalty         float64 `json:"midPenalty" yaml:"midPenalty"`
	HighPenaltyFloor   int     `json:"highPenaltyFloor" yaml:"highPenaltyFloor"`
	HighPenalty        float64 `json:"highPenalty" yaml:"highPenalty"`
}

// FreeAreaWeights is the fraction of free (uncovered) area that counts
// towards the effective area. Types without their own weight use Apartment.
type FreeAreaWeights struct {
	Apartment float64 `json:"apartment" yaml:"apartment"`
	House     float64 `json:"house" yaml:"house"`
	Land      float64 `json:"land" yaml:"land"`
}

// TypeMultipliers is the final per-type adjustment.
type TypeMultipliers struct {
	Apartment  float64 `json:"apartment" yaml:"apartment"`
	House      float64 `json:"house" yaml:"house"`
	Land       float64 `json:"land" yaml:"land"`
	Office     float64 `json:"office" yaml:"office"`
	Commercial float64 `json:"commercial" yaml:"commercial"`
}

// DefaultFactors returns the hand-tuned market constants.
func DefaultFactors() Factors {
	return Factors{
		Age: AgeFactors{
			NewMaxAge:              1,
			NewPremium:             0.05,
			AnnualDepreciationRate: 0.008,
			MaxDepreciation:        0.35,
		},
		Bedrooms: RoomFactors{
			Baseline:          2,
			PerUnitRate:       0.08,
			IncrementCap:      0.25,
			BelowBaselineRate: 0.12,
		},
		Bathrooms: RoomFactors{
			Baseline:          2,
			PerUnitRate:       0.06,
			IncrementCap:      0.18,
			BelowBaselineRate: 0.15,
		},
		Floors: FloorBands{
			Low:         FloorBand{Min: 1, Max: 2, Multiplier: 0.92},
			Ideal:       FloorBand{Min: 3, Max: 8, Multiplier: 1.0},
			High:        FloorBand{Min: 9, Max: 15, Multiplier: 0.96},
			ExtremeHigh: FloorBand{Min: 16, Max: 999, Multiplier: 0.88},
		},
		Elevator: ElevatorFactors{
			Premium:            0.08,
			HighFloorThreshold: 6,
			HighFloorBonus:     0.03,
			MidPenaltyFloor:    4,
			MidPenalty:         0.90,
			HighPenaltyFloor:   7,
			HighPenalty:        0.75,
		},
		FreeArea: FreeAreaWeights{
			Apartment: 0.25,
			House:     0.40,
			Land:      0.90,
		},
		Types: TypeMultipliers{
			Apartment:  1.0,
			House:      1.12,
			Land:       0.80,
			Office:     0.95,
			Commercial: 0.85,
		},
		Band:         constants.DefaultVariationBand,
		ExchangeRate: constants.DefaultExchangeRate,
	}
}

// Validate checks that no stage can drive the running value to zero or below
// for an input that passes ValidateInput. All problems are reported together.
func (f Factors) Validate() error {
	var problems []string
	check := func(ok bool, format string, args ...interface{}) {
		if !ok {
			problems = append(problems, fmt.Sprintf(format, args...))
		}
	}

	check(f.Age.NewMaxAge >= 0, "age.newMaxAge must not be negative")
	check(f.Age.NewPremium > -1, "age.newPremium must be greater than -1")
	check(f.Age.AnnualDepreciationRate >= 0, "age.annualDepreciationRate must not be negative")
	check(f.Age.MaxDepreciation >= 0 && f.Age.MaxDepreciation < 1, "age.maxDepreciation must be in [0, 1)")

	problems = append(problems, f.Bedrooms.problems("bedrooms")...)
	problems = append(problems, f.Bathrooms.problems("bathrooms")...)
	problems = append(problems, f.Floors.problems()...)

	e := f.Elevator
	check(e.Premium > -1, "elevator.premium must be greater than -1")
	check(e.HighFloorBonus > -1, "elevator.highFloorBonus must be greater than -1")
	check(e.MidPenalty > 0, "elevator.midPenalty must be positive")
	check(e.HighPenalty > 0, "elevator.highPenalty must be positive")
	check(e.MidPenaltyFloor <= e.HighPenaltyFloor, "elevator.midPenaltyFloor must not exceed elevator.highPenaltyFloor")

	check(f.FreeArea.Apartment >= 0, "freeArea.apartment must not be negative")
	check(f.FreeArea.House >= 0, "freeArea.house must not be negative")
	check(f.FreeArea.Land >= 0, "freeArea.land must not be negative")

	check(f.Types.Apartment > 0, "types.apartment must be positive")
	check(f.Types.House > 0, "types.house must be positive")
	check(f.Types.Land > 0, "types.land must be positive")
	check(f.Types.Office > 0, "types.office must be positive")
	check(f.Types.Commercial > 0, "types.commercial must be positive")

	check(f.Band > 0 && f.Band < 1, "band must be in (0, 1)")
	check(f.ExchangeRate > 0, "exchangeRate must be positive")

	for _, field := range f.rates() {
		check(mathutil.IsFinite(field.value), "%s must be finite", field.name)
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidFactors, strings.Join(problems, "; "))
	}
	return nil
}

type namedRate struct {
	name  string
	value float64
}

func (f Factors) rates() []namedRate {
	return []namedRate{
		{"age.newPremium", f.Age.NewPremium},
		{"age.annualDepreciationRate", f.Age.AnnualDepreciationRate},
		{"bedrooms.perUnitRate", f.Bedrooms.PerUnitRate},
		{"bedrooms.incrementCap", f.Bedrooms.IncrementCap},
		{"bedrooms.belowBaselineRate", f.Bedrooms.BelowBaselineRate},
		{"bathrooms.perUnitRate", f.Bathrooms.PerUnitRate},
		{"bathrooms.incrementCap", f.Bathrooms.IncrementCap},
		{"bathrooms.belowBaselineRate", f.Bathrooms.BelowBaselineRate},
		{"floors.low.multiplier", f.Floors.Low.Multiplier},
		{"floors.ideal.multiplier", f.Floors.Ideal.Multiplier},
		{"floors.high.multiplier", f.Floors.High.Multiplier},
		{"floors.extremeHigh.multiplier", f.Floors.ExtremeHigh.Multiplier},
		{"elevator.premium", f.Elevator.Premium},
		{"elevator.highFloorBonus", f.Elevator.HighFloorBonus},
		{"elevator.midPenalty", f.Elevator.MidPenalty},
		{"elevator.highPenalty", f.Elevator.HighPenalty},
		{"freeArea.apartment", f.FreeArea.Apartment},
		{"freeArea.house", f.FreeArea.House},
		{"freeArea.land", f.FreeArea.Land},
		{"types.apartment", f.Types.Apartment},
		{"types.house", f.Types.House},
		{"types.land", f.Types.Land},
		{"types.office", f.Types.Office},
		{"types.commercial", f.Types.Commercial},
		{"exchangeRate", f.ExchangeRate},
	}
}

func (r RoomFactors) problems(name string) []string {
	var problems []string
	if r.Baseline < 1 {
		problems = append(problems, fmt.Sprintf("%s.baseline must be at least 1", name))
	}
	if !(r.PerUnitRate >= 0) {
		problems = append(problems, fmt.Sprintf("%s.perUnitRate must not be negative", name))
	}
	if !(r.IncrementCap >= 0) {
		problems = append(problems, fmt.Sprintf("%s.incrementCap must not be negative", name))
	}
	if !(r.BelowBaselineRate >= 0) {
		problems = append(problems, fmt.Sprintf("%s.belowBaselineRate must not be negative", name))
	}
	// One unit is the smallest valid count, so it carries the largest penalty.
	if r.Baseline >= 1 && !(float64(r.Baseline-1)*r.BelowBaselineRate < 1) {
		problems = append(problems, fmt.Sprintf("%s penalty at 1 must stay below 100%%", name))
	}
	return problems
}

func (b FloorBands) problems() []string {
	var problems []string
	named := []struct {
		name string
		band FloorBand
	}{
		{"low", b.Low},
		{"ideal", b.Ideal},
		{"high", b.High},
		{"extremeHigh", b.ExtremeHigh},
	}

	if b.Low.Min != 1 {
		problems = append(problems, "floors.low.min must be 1")
	}
	for i, current := range named {
		if !(current.band.Multiplier > 0) {
			problems = append(problems, fmt.Sprintf("floors.%s.multiplier must be positive", current.name))
		}
		if i < len(named)-1 && current.band.Max < current.band.Min {
			problems = append(problems, fmt.Sprintf("floors.%s.max must not be below its min", current.name))
		}
		if i > 0 && current.band.Min != named[i-1].band.Max+1 {
			problems = append(problems, fmt.Sprintf("floors.%s.min must follow floors.%s.max", current.name, named[i-1].name))
		}
	}
	return problems
}
