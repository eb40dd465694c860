package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/iwvelando/property-valuation/internal/valuation"
)

func TestLoadConfiguration(t *testing.T) {
	tests := []struct {
		name       string
		configPath string
		wantError  bool
	}{
		{
			name:       "Non-existent config file",
			configPath: "nonexistent.yaml",
			wantError:  true,
		},
		{
			name:       "Test config",
			configPath: filepath.Join("testdata", "config.yaml"),
			wantError:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config, err := LoadConfiguration(tt.configPath)
			if tt.wantError {
				if err == nil {
					t.Errorf("LoadConfiguration() expected error but got none")
				}
				return
			}
			if err != nil {
				t.Errorf("LoadConfiguration() error = %v", err)
				return
			}
			if config == nil {
				t.Errorf("LoadConfiguration() returned nil config")
			}
		})
	}
}

func TestLoadConfigurationStructure(t *testing.T) {
	config, err := LoadConfiguration(filepath.Join("testdata", "config.yaml"))
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}

	if len(config.Properties) != 2 {
		t.Fatalf("Expected 2 properties, got %d", len(config.Properties))
	}

	flat := config.Properties[0]
	if flat.Name != "reference flat" || flat.District != "Lima" || flat.Zone != "Centro" {
		t.Errorf("Unexpected first property: %+v", flat)
	}
	if flat.CoveredArea != 80 || flat.FreeArea != 20 || flat.Floor != 5 || flat.Elevator {
		t.Errorf("Unexpected first property numbers: %+v", flat)
	}

	house := config.Properties[1]
	if house.Type != "Casa" || house.Currency != "USD" || house.AgeYears != 12 {
		t.Errorf("Unexpected second property: %+v", house)
	}

	if config.Logging.Level != "debug" || config.Logging.Format != "console" {
		t.Errorf("Unexpected logging config: %+v", config.Logging)
	}
	if config.Output.Format != "csv" || config.Output.Locale != "es-PE" {
		t.Errorf("Unexpected output config: %+v", config.Output)
	}
}

func TestLoadConfigurationFactorOverrides(t *testing.T) {
	config, err := LoadConfiguration(filepath.Join("testdata", "config.yaml"))
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}

	defaults := valuation.DefaultFactors()
	factors := config.Factors

	if factors.Band != 0.10 {
		t.Errorf("Band = %v, expected override 0.10", factors.Band)
	}
	if factors.Bedrooms.IncrementCap != 0.20 {
		t.Errorf("Bedrooms.IncrementCap = %v, expected override 0.20", factors.Bedrooms.IncrementCap)
	}
	if factors.Floors.ExtremeHigh.Multiplier != 0.85 {
		t.Errorf("Floors.ExtremeHigh.Multiplier = %v, expected override 0.85", factors.Floors.ExtremeHigh.Multiplier)
	}

	// Untouched settings keep their defaults, including siblings of overrides.
	if factors.Bedrooms.PerUnitRate != defaults.Bedrooms.PerUnitRate {
		t.Errorf("Bedrooms.PerUnitRate = %v, expected default %v", factors.Bedrooms.PerUnitRate, defaults.Bedrooms.PerUnitRate)
	}
	if factors.Floors.ExtremeHigh.Min != defaults.Floors.ExtremeHigh.Min {
		t.Errorf("Floors.ExtremeHigh.Min = %v, expected default %v", factors.Floors.ExtremeHigh.Min, defaults.Floors.ExtremeHigh.Min)
	}
	if factors.ExchangeRate != defaults.ExchangeRate {
		t.Errorf("ExchangeRate = %v, expected default %v", factors.ExchangeRate, defaults.ExchangeRate)
	}
	if factors.Elevator != defaults.Elevator || factors.Types != defaults.Types || factors.Age != defaults.Age {
		t.Errorf("Untouched factor groups changed: %+v", factors)
	}

	if err := factors.Validate(); err != nil {
		t.Errorf("Validate() error = %v", err)
	}
}

func TestLoadConfigurationFromReaderDefaults(t *testing.T) {
	config, err := LoadConfigurationFromReader(strings.NewReader("properties: []\n"))
	if err != nil {
		t.Fatalf("LoadConfigurationFromReader() error = %v", err)
	}

	if config.Factors != valuation.DefaultFactors() {
		t.Errorf("Factors = %+v, expected defaults", config.Factors)
	}
	if config.PriceTablePath() != "prices.yaml" {
		t.Errorf("PriceTablePath() = %q, expected prices.yaml", config.PriceTablePath())
	}
}

func TestLoadConfigurationFromReaderInvalid(t *testing.T) {
	if _, err := LoadConfigurationFromReader(strings.NewReader("factors: [")); err == nil {
		t.Errorf("LoadConfigurationFromReader() expected error but got none")
	}
}

func TestLoadConfigurationEnvironmentOverride(t *testing.T) {
	t.Setenv("VALUATION_FACTORS_EXCHANGERATE", "4.1")
	t.Setenv("VALUATION_OUTPUT_FORMAT", "pretty")

	config, err := LoadConfiguration(filepath.Join("testdata", "config.yaml"))
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}

	if config.Factors.ExchangeRate != 4.1 {
		t.Errorf("ExchangeRate = %v, expected environment override 4.1", config.Factors.ExchangeRate)
	}
	if config.Output.Format != "pretty" {
		t.Errorf("Output.Format = %q, expected environment override pretty", config.Output.Format)
	}
}

func TestPriceTablePath(t *testing.T) {
	dir := t.TempDir()
	absolute := filepath.Join(dir, "elsewhere.json")

	tests := []struct {
		name     string
		config   Configuration
		expected string
	}{
		{"Relative to config file", Configuration{PriceTable: "prices.yaml", baseDir: "conf"}, filepath.Join("conf", "prices.yaml")},
		{"Absolute path", Configuration{PriceTable: absolute, baseDir: "conf"}, absolute},
		{"Empty uses default", Configuration{baseDir: "conf"}, filepath.Join("conf", "prices.yaml")},
		{"No base directory", Configuration{PriceTable: "p.yaml"}, "p.yaml"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.config.PriceTablePath(); got != tt.expected {
				t.Errorf("PriceTablePath() = %q, expected %q", got, tt.expected)
			}
		})
	}
}

func TestLoadPriceTable(t *testing.T) {
	config, err := LoadConfiguration(filepath.Join("testdata", "config.yaml"))
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}

	prices, err := config.LoadPriceTable()
	if err != nil {
		t.Fatalf("LoadPriceTable() error = %v", err)
	}
	if price, ok := prices.UnitPrice("Miraflores", "Malecon"); !ok || price != 3200 {
		t.Errorf("UnitPrice(Miraflores, Malecon) = %v, %v", price, ok)
	}
}

func TestValidateConfiguration(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	contents := []byte(`priceTable: prices.yaml
properties:
  - name: known
    district: Lima
    zone: Centro
    type: apartment
  - name: lost
    district: Lima
    zone: Nowhere
    type: house
`)
	if err := os.WriteFile(path, contents, 0600); err != nil {
		t.Fatalf("failed to write temp config: %v", err)
	}

	config, err := LoadConfiguration(path)
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}

	prices, err := LoadConfiguration(filepath.Join("testdata", "config.yaml"))
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}
	table, err := prices.LoadPriceTable()
	if err != nil {
		t.Fatalf("LoadPriceTable() error = %v", err)
	}

	warnings := config.ValidateConfiguration(table)
	if len(warnings) != 1 || !strings.Contains(warnings[0], "unknown zone 'Nowhere'") {
		t.Errorf("ValidateConfiguration() = %v, expected one unknown zone warning", warnings)
	}

	if warnings := config.ValidateConfiguration(nil); len(warnings) != 0 {
		t.Errorf("ValidateConfiguration(nil) = %v, expected no warnings", warnings)
	}
}
