package main

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/iwvelando/property-valuation/internal/server"
	"go.uber.org/zap"
)

func writeServerFixture(t *testing.T, serverConfig string) *server.Config {
	t.Helper()
	dir := t.TempDir()
	files := map[string]string{
		"prices.json":        `{"Lima": {"zones": {"Centro": 1000}}}`,
		"factors.yaml":       "band: 0.2\n",
		"inf-factors.yaml":   "exchangeRate: .inf\n",
		"server-config.yaml": serverConfig,
	}
	for name, contents := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(contents), 0600); err != nil {
			t.Fatalf("failed to write %s: %v", name, err)
		}
	}

	cfg, err := server.LoadConfig(filepath.Join(dir, "server-config.yaml"))
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	return cfg
}

func TestBuildHandler(t *testing.T) {
	cfg := writeServerFixture(t, "priceTable: prices.json\nfactors: factors.yaml\n")

	handler, err := buildHandler(zap.NewNop(), cfg)
	if err != nil {
		t.Fatalf("buildHandler() error = %v", err)
	}

	body := `{"district":"Lima","zone":"Centro","type":"apartment","coveredArea":100,"bedrooms":2,"bathrooms":2,"floor":3,"ageYears":30}`
	req := httptest.NewRequest(http.MethodPost, "/api/valuations", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rr.Code, rr.Body.String())
	}
	// 100 m2 x 1000 x (1 - 30 x 0.008) = 76,000 with a 20% band.
	for _, want := range []string{`"mid":"76,000 S/"`, `"low":"60,800 S/"`, `"high":"91,200 S/"`} {
		if !strings.Contains(rr.Body.String(), want) {
			t.Errorf("response missing %s: %s", want, rr.Body.String())
		}
	}
}

func TestBuildHandlerErrors(t *testing.T) {
	tests := map[string]string{
		"missing price table": "priceTable: missing.yaml\n",
		"missing factors":     "priceTable: prices.json\nfactors: nope.yaml\n",
		"infinite factor":     "priceTable: prices.json\nfactors: inf-factors.yaml\n",
	}

	for name, serverConfig := range tests {
		t.Run(name, func(t *testing.T) {
			cfg := writeServerFixture(t, serverConfig)
			if _, err := buildHandler(zap.NewNop(), cfg); err == nil {
				t.Fatal("buildHandler() expected error but got none")
			}
		})
	}
}

func TestApplyOverrides(t *testing.T) {
	cfg := writeServerFixture(t, "address: \":9000\"\nmaxBodySize: 16K\n")

	if err := applyOverrides(cfg, "", ""); err != nil {
		t.Fatalf("applyOverrides() error = %v", err)
	}
	if cfg.Address != ":9000" || cfg.BodySizeBytes() != 16*1024 {
		t.Fatalf("empty overrides changed config: %q/%d", cfg.Address, cfg.BodySizeBytes())
	}

	if err := applyOverrides(cfg, "127.0.0.1:8081", "1M"); err != nil {
		t.Fatalf("applyOverrides() error = %v", err)
	}
	if cfg.Address != "127.0.0.1:8081" {
		t.Errorf("Address = %q, expected 127.0.0.1:8081", cfg.Address)
	}
	if cfg.BodySizeBytes() != 1024*1024 {
		t.Errorf("BodySizeBytes() = %d, expected %d", cfg.BodySizeBytes(), 1024*1024)
	}

	for _, bad := range []string{"lots", "0"} {
		if err := applyOverrides(cfg, "", bad); err == nil {
			t.Errorf("applyOverrides(%q) expected error but got none", bad)
		}
	}
}
