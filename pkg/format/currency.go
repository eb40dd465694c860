// Package format renders valuation amounts for display.
package format

import (
	"fmt"
	"math"
	"strings"

	"github.com/iwvelando/property-valuation/pkg/mathutil"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Amount returns a whole-unit amount with thousands separators followed by the
// currency label (e.g., "80,325 S/").
func Amount(amount float64, label string) string {
	return withLabel(Whole(amount), label)
}

// Whole rounds to the nearest whole unit and adds comma separators
// (e.g., "-1,235").
func Whole(amount float64) string {
	rounded := mathutil.RoundWhole(amount)
	sign := ""
	if rounded < 0 {
		sign = "-"
	}
	return sign + group(fmt.Sprintf("%.0f", math.Abs(rounded)))
}

// LocalizedAmount formats like Amount using the digit grouping of tag.
func LocalizedAmount(tag language.Tag, amount float64, label string) string {
	p := message.NewPrinter(tag)
	return withLabel(p.Sprintf("%.0f", mathutil.RoundWhole(amount)), label)
}

// Summary describes what was valued, e.g. "Estimate for Casa in Malecon, Miraflores".
func Summary(propertyType, zone, district string) string {
	return fmt.Sprintf("Estimate for %s in %s, %s", propertyType, zone, district)
}

func withLabel(number, label string) string {
	if label == "" {
		return number
	}
	return number + " " + label
}

func group(digits string) string {
	if len(digits) <= 3 {
		return digits
	}
	var builder strings.Builder
	for i, digit := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			builder.WriteByte(',')
		}
		builder.WriteRune(digit)
	}
	return builder.String()
}
