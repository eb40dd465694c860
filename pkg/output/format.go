// Package output provides utilities for formatting and displaying valuation results.
package output

import (
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"

	"github.com/iwvelando/property-valuation/internal/valuation"
	"github.com/iwvelando/property-valuation/pkg/constants"
	"github.com/iwvelando/property-valuation/pkg/format"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Entry is one valued property. Exactly one of Result and Err is set.
type Entry struct {
	Name   string
	Input  valuation.PropertyInput
	Result *valuation.Result
	Err    error
}

// PrettyFormat outputs a human-readable rather than machine-readable report.
func PrettyFormat(entries []Entry, tag language.Tag) {
	p := message.NewPrinter(tag)
	for i, entry := range entries {
		fmt.Printf("--- Valuation for %s ---\n", entry.Name)
		if entry.Err != nil {
			fmt.Printf("Error: %s\n", entry.Err)
		} else {
			r := entry.Result
			b := r.Breakdown
			fmt.Println(format.Summary(entry.Input.PropertyType, entry.Input.Zone, entry.Input.District))
			_, _ = p.Printf("Low  | %.0f %s\n", r.Low, r.CurrencyLabel)
			_, _ = p.Printf("Mid  | %.0f %s\n", r.Mid, r.CurrencyLabel)
			_, _ = p.Printf("High | %.0f %s\n", r.High, r.CurrencyLabel)
			_, _ = p.Printf("Base | %.2f m2 x %.2f = %.2f\n", b.EffectiveArea, b.UnitPrice, b.BaseValue)
			fmt.Printf("Factors | age %.4f, bedrooms %.4f, bathrooms %.4f, floor %.4f, elevator %.4f, type %.4f\n",
				b.AgeFactor, b.BedroomFactor, b.BathroomFactor, b.FloorFactor, b.ElevatorFactor, b.TypeFactor)
			if !b.TypeRecognized {
				fmt.Printf("Note: type %q not recognised, valued as %s\n", entry.Input.PropertyType, b.PropertyType)
			}
		}
		if i < len(entries)-1 {
			fmt.Printf("\n")
		}
	}
}

// CsvFormat outputs in comma-separated value format.
func CsvFormat(entries []Entry) {
	fmt.Print(CsvString(entries))
}

var csvHeader = []string{"name", "district", "zone", "type", "currency", "low", "mid", "high", "error"}

// CsvString renders entries as CSV with a header row. Amounts are rounded to
// whole units without grouping.
func CsvString(entries []Entry) string {
	var builder strings.Builder
	w := csv.NewWriter(&builder)
	_ = w.Write(csvHeader)
	for _, entry := range entries {
		row := []string{entry.Name, entry.Input.District, entry.Input.Zone, entry.Input.PropertyType, "", "", "", "", ""}
		if entry.Err != nil {
			row[8] = entry.Err.Error()
		} else {
			row[4] = entry.Result.CurrencyLabel
			row[5] = wholeNumber(entry.Result.Low)
			row[6] = wholeNumber(entry.Result.Mid)
			row[7] = wholeNumber(entry.Result.High)
		}
		_ = w.Write(row)
	}
	w.Flush()
	return builder.String()
}

func wholeNumber(amount float64) string {
	return strconv.FormatFloat(amount, 'f', 0, 64)
}

// Print writes entries in the named format, falling back to pretty output.
func Print(entries []Entry, outputFormat string, tag language.Tag) {
	if outputFormat == constants.OutputFormatCSV {
		CsvFormat(entries)
		return
	}
	PrettyFormat(entries, tag)
}
