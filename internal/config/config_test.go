package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadAndValidate(t *testing.T) {
	content := `
market_data:
  api_base_url: "https://eodhd.com/api"
  api_key: "demo"
  timeout: 30s
  rate_limit: 10

fixtures:
  dir: "./fixtures"
  max_stale_days: 2

output:
  dir: "./output"
  site_dir: "./public"

editions:
  domestic:
    indices:
      - name: "S&P 500"
        symbol: "^GSPC"
      - name: "USD Index"
        symbol: "DX-Y.NYB"
  international:
    indices:
      - name: "DAX"
        symbol: "^GDAXI"
        region: "Europe"
        etf_proxy: "EWG"
    fx_pairs:
      - name: "EUR/USD"
        symbol: "EURUSD=X"
        etf_proxy: "FXE"

classifier:
  epsilon: 0.0
  min_importance: 2
  keyword_allowlist:
    - "FOMC"

narrative:
  usd_tip_threshold: 0.5
  fx_tip_threshold: 0.3
  fx_friendly_names:
    EUR/USD: "the Euro"
  tickers:
    europe: [EFA, FEZ, EWG]

logging:
  level: "info"
  format: "json"
`
	tmpfile, err := os.CreateTemp("", "config-*.yaml")
	if err != nil {
		t.Fatal(err)
	}
	defer os.Remove(tmpfile.Name())

	if _, err := tmpfile.Write([]byte(content)); err != nil {
		t.Fatal(err)
	}
	if err := tmpfile.Close(); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(tmpfile.Name())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.MarketData.APIBaseURL != "https://eodhd.com/api" {
		t.Errorf("Unexpected API URL: %s", cfg.MarketData.APIBaseURL)
	}
	if cfg.MarketData.Timeout != 30*time.Second {
		t.Errorf("Unexpected timeout: %v", cfg.MarketData.Timeout)
	}
	if len(cfg.Editions.Domestic.Indices) != 2 {
		t.Errorf("Expected 2 domestic indices, got %d", len(cfg.Editions.Domestic.Indices))
	}
	if got := cfg.Narrative.Tickers["europe"]; len(got) != 3 || got[0] != "EFA" {
		t.Errorf("Unexpected europe tickers: %v", got)
	}
	if cfg.Verify.TolerancePct != 2.0 {
		t.Errorf("Expected default verify tolerance 2.0, got %v", cfg.Verify.TolerancePct)
	}

	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
}

func TestShippedConfig(t *testing.T) {
	cfg, err := Load(filepath.Join("..", "..", "configs", "config.yaml"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate failed: %v", err)
	}

	intl, err := cfg.Edition("international")
	if err != nil {
		t.Fatalf("Edition failed: %v", err)
	}
	if len(intl.Indices) != 8 {
		t.Errorf("Expected 8 international indices, got %d", len(intl.Indices))
	}

	wantEurope := map[string]string{
		"FTSE 100":      "EWU",
		"DAX":           "EWG",
		"Euro Stoxx 50": "FEZ",
		"CAC 40":        "EWQ",
	}
	for _, inst := range intl.Indices {
		proxy, ok := wantEurope[inst.Name]
		if !ok {
			continue
		}
		delete(wantEurope, inst.Name)
		if inst.Region != "Europe" {
			t.Errorf("%s region = %q, want Europe", inst.Name, inst.Region)
		}
		if inst.ETFProxy != proxy {
			t.Errorf("%s etf_proxy = %q, want %q", inst.Name, inst.ETFProxy, proxy)
		}
	}
	for name := range wantEurope {
		t.Errorf("International edition is missing %s", name)
	}
}

func validConfig() *Config {
	return &Config{
		MarketData: MarketDataConfig{
			APIBaseURL: "https://eodhd.com/api",
			Timeout:    30 * time.Second,
			RateLimit:  10,
		},
		Fixtures: FixturesConfig{Dir: "./fixtures", MaxStaleDays: 2},
		Output:   OutputConfig{Dir: "./output"},
		Editions: EditionsConfig{
			Domestic: EditionConfig{
				Indices: []Instrument{{Name: "S&P 500", Symbol: "^GSPC"}},
			},
			International: EditionConfig{
				Indices: []Instrument{{Name: "DAX", Symbol: "^GDAXI", Region: "Europe"}},
				FxPairs: []Instrument{{Name: "EUR/USD", Symbol: "EURUSD=X"}},
			},
		},
		Classifier: ClassifierConfig{MinImportance: 2},
		Logging:    LoggingConfig{Level: "info", Format: "json"},
	}
}

func TestValidateErrors(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{
			name:    "valid baseline",
			mutate:  func(c *Config) {},
			wantErr: false,
		},
		{
			name:    "missing telegram token when enabled",
			mutate:  func(c *Config) { c.Telegram.Enabled = true },
			wantErr: true,
		},
		{
			name:    "no domestic indices",
			mutate:  func(c *Config) { c.Editions.Domestic.Indices = nil },
			wantErr: true,
		},
		{
			name:    "instrument without symbol",
			mutate:  func(c *Config) { c.Editions.International.FxPairs[0].Symbol = "" },
			wantErr: true,
		},
		{
			name:    "negative epsilon",
			mutate:  func(c *Config) { c.Classifier.Epsilon = -0.1 },
			wantErr: true,
		},
		{
			name:    "importance out of range",
			mutate:  func(c *Config) { c.Classifier.MinImportance = 5 },
			wantErr: true,
		},
		{
			name:    "verify enabled without tolerance",
			mutate:  func(c *Config) { c.Verify.Enabled = true },
			wantErr: true,
		},
		{
			name:    "bad log level",
			mutate:  func(c *Config) { c.Logging.Level = "verbose" },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestEditionLookup(t *testing.T) {
	cfg := validConfig()

	if _, err := cfg.Edition("domestic"); err != nil {
		t.Errorf("Edition(domestic) error = %v", err)
	}
	if ed, err := cfg.Edition("intl"); err != nil || len(ed.FxPairs) != 1 {
		t.Errorf("Edition(intl) = %+v, %v", ed, err)
	}
	if _, err := cfg.Edition("lunar"); err == nil {
		t.Error("Edition(lunar) should fail")
	}
}
