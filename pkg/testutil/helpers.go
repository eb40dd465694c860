// Package testutil provides common utility functions for testing.
package testutil

import (
	"testing"

	"github.com/iwvelando/property-valuation/pkg/mathutil"
	"github.com/iwvelando/property-valuation/pkg/pricetable"
)

// SamplePrices returns a small price table shared by tests. Lima/Centro is
// priced at exactly 1000 per square metre and Lima/Sin Precio is a
// placeholder zone with no usable price.
func SamplePrices() pricetable.Table {
	return pricetable.New(map[string]map[string]float64{
		"Lima": {
			"Centro":     1000,
			"Sin Precio": 0,
		},
		"Miraflores": {
			"Malecon":  3200,
			"Larcomar": 3500,
		},
	})
}

// ExpectClose fails the test when got and want differ by more than tolerance.
func ExpectClose(t testing.TB, label string, got, want, tolerance float64) {
	t.Helper()
	if !mathutil.WithinTolerance(got, want, tolerance) {
		t.Errorf("%s = %v, expected %v (tolerance %v)", label, got, want, tolerance)
	}
}
