package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/iwvelando/property-valuation/internal/config"
	"github.com/iwvelando/property-valuation/internal/valuation"
	"github.com/iwvelando/property-valuation/pkg/testutil"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

const testPrices = `Lima:
  zones:
    Centro: 1000
`

const testConfig = `priceTable: prices.yaml
properties:
  - name: reference flat
    district: Lima
    zone: Centro
    type: Departamento
    coveredArea: 80
    freeArea: 20
    bedrooms: 2
    bathrooms: 2
    floor: 5
    ageYears: 0
  - name: unpriced
    district: Lima
    zone: Rimac
    type: casa
    coveredArea: 80
    bedrooms: 2
    bathrooms: 2
    floor: 1
`

func loadTestConfig(t *testing.T, contents string) *config.Configuration {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "prices.yaml"), []byte(testPrices), 0600); err != nil {
		t.Fatalf("failed to write prices: %v", err)
	}
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(contents), 0600); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	conf, err := config.LoadConfiguration(path)
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}
	return conf
}

func captureStdout(t *testing.T, fn func()) string {
	t.Helper()
	oldStdout := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("os.Pipe() error = %v", err)
	}
	os.Stdout = w

	fn()

	_ = w.Close()
	os.Stdout = oldStdout

	var buf bytes.Buffer
	_, _ = io.Copy(&buf, r)
	return buf.String()
}

func TestRunCSV(t *testing.T) {
	conf := loadTestConfig(t, testConfig)

	var runErr error
	out := captureStdout(t, func() {
		runErr = run(zap.NewNop(), conf, "csv")
	})
	if runErr != nil {
		t.Fatalf("run() error = %v", runErr)
	}

	expected := strings.Join([]string{
		"name,district,zone,type,currency,low,mid,high,error",
		"reference flat,Lima,Centro,Departamento,S/,70686,80325,89964,",
		"unpriced,Lima,Rimac,casa,,,,,no price found for selected zone",
		"",
	}, "\n")
	if out != expected {
		t.Errorf("run() output = %q, expected %q", out, expected)
	}
}

func TestRunPrettyDefault(t *testing.T) {
	conf := loadTestConfig(t, testConfig)

	out := captureStdout(t, func() {
		if err := run(zap.NewNop(), conf, ""); err != nil {
			t.Errorf("run() error = %v", err)
		}
	})
	if !strings.Contains(out, "Mid  | 80,325 S/") {
		t.Errorf("run() pretty output missing mid value:\n%s", out)
	}
}

func TestRunErrors(t *testing.T) {
	tests := []struct {
		name         string
		config       string
		outputFormat string
	}{
		{"Unknown output format", testConfig, "xml"},
		{"Bad locale", testConfig + "output:\n  locale: \"!!\"\n", "csv"},
		{"Missing price table", strings.Replace(testConfig, "prices.yaml", "missing.yaml", 1), "csv"},
		{"Invalid factors", testConfig + "factors:\n  band: 0\n", "csv"},
		{"No properties", "priceTable: prices.yaml\n", "csv"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			conf := loadTestConfig(t, tt.config)
			if err := run(zap.NewNop(), conf, tt.outputFormat); err == nil {
				t.Fatal("run() expected error but got none")
			}
		})
	}
}

func TestValuePropertiesNamesAndErrors(t *testing.T) {
	engine, err := valuation.NewEngine(testutil.SamplePrices(), valuation.DefaultFactors())
	if err != nil {
		t.Fatalf("NewEngine() error = %v", err)
	}

	entries := valueProperties(zap.NewNop(), engine, []config.PropertyRequest{
		{District: "Lima", Zone: "Centro", Type: "apartment", CoveredArea: 80, FreeArea: 20, Bedrooms: 2, Bathrooms: 2, Floor: 5},
		{Name: "broken", District: "Lima", Zone: "Centro", Type: "apartment"},
	})

	if len(entries) != 2 {
		t.Fatalf("valueProperties() returned %d entries, expected 2", len(entries))
	}
	if entries[0].Name != "property #1" || entries[0].Result == nil {
		t.Errorf("first entry = %+v, expected generated name and a result", entries[0])
	}

	var validationErr *valuation.ValidationError
	if entries[1].Name != "broken" || !errors.As(entries[1].Err, &validationErr) {
		t.Errorf("second entry = %+v, expected a validation error", entries[1])
	}
}

func TestErrorDetail(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{"Lookup names district and zone", &valuation.LookupError{District: "Lima", Zone: "Rimac"}, `no price found for zone "Rimac" in district "Lima"`},
		{"Wrapped lookup", fmt.Errorf("valuing: %w", &valuation.LookupError{District: "Surco", Zone: "Higuereta"}), `no price found for zone "Higuereta" in district "Surco"`},
		{"Other errors pass through", errors.New("boom"), "boom"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := errorDetail(tt.err); got != tt.expected {
				t.Errorf("errorDetail() = %q, expected %q", got, tt.expected)
			}
		})
	}
}

func TestRunLogsTableShapeAndLookupDetail(t *testing.T) {
	conf := loadTestConfig(t, testConfig)
	prices := "Lima:\n  zones:\n    Centro: 1000\n    Surquillo: 1500\n"
	if err := os.WriteFile(conf.PriceTablePath(), []byte(prices), 0600); err != nil {
		t.Fatalf("failed to write prices: %v", err)
	}

	core, logs := observer.New(zap.DebugLevel)
	captureStdout(t, func() {
		if err := run(zap.New(core), conf, "csv"); err != nil {
			t.Fatalf("run() error = %v", err)
		}
	})

	loaded := logs.FilterMessage("price table loaded").All()
	if len(loaded) != 1 {
		t.Fatalf("expected one price table log entry, got %d", len(loaded))
	}
	fields := loaded[0].ContextMap()
	if fields["districts"] != int64(1) || fields["zones"] != int64(2) {
		t.Errorf("price table fields = %v, expected 1 district and 2 zones", fields)
	}

	failed := logs.FilterMessage("failed to value property").All()
	if len(failed) != 1 {
		t.Fatalf("expected one failed property log entry, got %d", len(failed))
	}
	expected := `no price found for zone "Rimac" in district "Lima"`
	if got := failed[0].ContextMap()["error"]; got != expected {
		t.Errorf("error field = %v, expected %q", got, expected)
	}
}
