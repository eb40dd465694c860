package testutil

import "testing"

func TestSamplePrices(t *testing.T) {
	prices := SamplePrices()

	tests := []struct {
		name     string
		district string
		zone     string
		found    bool
		price    float64
	}{
		{"Reference zone", "Lima", "Centro", true, 1000},
		{"Placeholder zone", "Lima", "Sin Precio", true, 0},
		{"Other district", "Miraflores", "Larcomar", true, 3500},
		{"Missing zone", "Lima", "Rimac", false, 0},
		{"Missing district", "Callao", "Centro", false, 0},
		{"Case sensitive", "lima", "centro", false, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			price, found := prices.UnitPrice(tt.district, tt.zone)
			if found != tt.found || price != tt.price {
				t.Errorf("UnitPrice(%q, %q) = %v, %v; expected %v, %v",
					tt.district, tt.zone, price, found, tt.price, tt.found)
			}
		})
	}
}

func TestSamplePricesIsFresh(t *testing.T) {
	first := SamplePrices()
	first["Lima"]["Centro"] = 1

	if price, _ := SamplePrices().UnitPrice("Lima", "Centro"); price != 1000 {
		t.Errorf("SamplePrices() shared state between calls, got %v", price)
	}
}

func TestExpectClose(t *testing.T) {
	ExpectClose(t, "exact", 80325, 80325, 0)
	ExpectClose(t, "within", 80325.004, 80325, 0.01)
}
