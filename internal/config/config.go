// Package config loads and validates the newsletter configuration from a
// YAML file with environment variable overrides.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config represents the complete application configuration
type Config struct {
	MarketData MarketDataConfig `mapstructure:"market_data"`
	Calendar   CalendarConfig   `mapstructure:"calendar"`
	Fixtures   FixturesConfig   `mapstructure:"fixtures"`
	Output     OutputConfig     `mapstructure:"output"`
	Editions   EditionsConfig   `mapstructure:"editions"`
	Classifier ClassifierConfig `mapstructure:"classifier"`
	Narrative  NarrativeConfig  `mapstructure:"narrative"`
	Verify     VerifyConfig     `mapstructure:"verify"`
	Telegram   TelegramConfig   `mapstructure:"telegram"`
	Logging    LoggingConfig    `mapstructure:"logging"`
}

// MarketDataConfig holds the live market data API configuration
type MarketDataConfig struct {
	APIBaseURL string        `mapstructure:"api_base_url"`
	APIKey     string        `mapstructure:"api_key"`
	Timeout    time.Duration `mapstructure:"timeout"`
	RateLimit  int           `mapstructure:"rate_limit"` // requests per second
}

// CalendarConfig holds the economic calendar configuration
type CalendarConfig struct {
	// Importance threshold and keyword allow-list live under Classifier;
	// this section covers only where calendar data comes from.
	FixturePrefix     string `mapstructure:"fixture_prefix"`
	IntlFixturePrefix string `mapstructure:"intl_fixture_prefix"`
}

// FixturesConfig holds the fixture fallback configuration
type FixturesConfig struct {
	Dir string `mapstructure:"dir"`
	// MaxStaleDays is how much older than the requested date a fixture may
	// be before the resulting summary is tagged stale.
	MaxStaleDays int `mapstructure:"max_stale_days"`
}

// OutputConfig holds output path configuration
type OutputConfig struct {
	Dir     string `mapstructure:"dir"`
	SiteDir string `mapstructure:"site_dir"`
}

// Instrument describes one tracked index or FX pair
type Instrument struct {
	Name     string `mapstructure:"name"`
	Symbol   string `mapstructure:"symbol"`
	Region   string `mapstructure:"region"`
	ETFProxy string `mapstructure:"etf_proxy"`
}

// EditionConfig lists the instruments for one newsletter edition
type EditionConfig struct {
	Indices []Instrument `mapstructure:"indices"`
	FxPairs []Instrument `mapstructure:"fx_pairs"`
}

// EditionsConfig holds both newsletter editions
type EditionsConfig struct {
	Domestic      EditionConfig `mapstructure:"domestic"`
	International EditionConfig `mapstructure:"international"`
}

// ClassifierConfig holds surprise classification and event filtering settings
type ClassifierConfig struct {
	Epsilon          float64  `mapstructure:"epsilon"`
	MinImportance    int      `mapstructure:"min_importance"`
	KeywordAllowlist []string `mapstructure:"keyword_allowlist"`
}

// NarrativeConfig holds thresholds and lookup tables for tip generation
type NarrativeConfig struct {
	// USDTipThreshold is the minimum |weekly %| USD Index move that
	// triggers a dollar positioning tip.
	USDTipThreshold float64 `mapstructure:"usd_tip_threshold"`
	// FxTipThreshold is the minimum |weekly %| FX pair move that triggers
	// a currency hedging tip.
	FxTipThreshold float64 `mapstructure:"fx_tip_threshold"`
	// FxFriendlyNames maps pair names to prose names ("EUR/USD" -> "the Euro").
	FxFriendlyNames map[string]string `mapstructure:"fx_friendly_names"`
	// Tickers maps a region or asset class key to the ETF tickers a tip
	// should reference. Rules whose key is missing are skipped.
	Tickers map[string][]string `mapstructure:"tickers"`
}

// VerifyConfig holds price cross-check configuration
type VerifyConfig struct {
	Enabled      bool              `mapstructure:"enabled"`
	TolerancePct float64           `mapstructure:"tolerance_pct"`
	CSVBaseURL   string            `mapstructure:"csv_base_url"`
	SeriesMap    map[string]string `mapstructure:"series_map"` // asset name -> series ID
}

// TelegramConfig holds the optional publication notification settings
type TelegramConfig struct {
	BotToken string `mapstructure:"bot_token"`
	ChatID   string `mapstructure:"chat_id"`
	Enabled  bool   `mapstructure:"enabled"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load reads configuration from file and environment variables
func Load(path string) (*Config, error) {
	v := viper.New()

	v.SetConfigFile(path)
	setDefaults(v)

	v.SetEnvPrefix("FOUNDRY_WEEKLY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

// setDefaults configures default values for all configuration options
func setDefaults(v *viper.Viper) {
	v.SetDefault("market_data.api_base_url", "https://eodhd.com/api")
	v.SetDefault("market_data.timeout", "30s")
	v.SetDefault("market_data.rate_limit", 10)

	v.SetDefault("calendar.fixture_prefix", "econ_calendar")
	v.SetDefault("calendar.intl_fixture_prefix", "intl_econ_calendar")

	v.SetDefault("fixtures.dir", "./fixtures")
	v.SetDefault("fixtures.max_stale_days", 2)

	v.SetDefault("output.dir", "./output")
	v.SetDefault("output.site_dir", "./public")

	v.SetDefault("classifier.epsilon", 0.0)
	v.SetDefault("classifier.min_importance", 2)

	v.SetDefault("narrative.usd_tip_threshold", 0.5)
	v.SetDefault("narrative.fx_tip_threshold", 0.3)

	v.SetDefault("verify.enabled", false)
	v.SetDefault("verify.tolerance_pct", 2.0)
	v.SetDefault("verify.csv_base_url", "https://fred.stlouisfed.org/graph/fredgraph.csv")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
}

// Validate checks that all configuration values are valid
func (c *Config) Validate() error {
	if c.MarketData.APIBaseURL == "" {
		return fmt.Errorf("market_data.api_base_url is required")
	}
	if c.MarketData.Timeout < time.Second {
		return fmt.Errorf("market_data.timeout must be at least 1 second")
	}
	if c.MarketData.RateLimit < 1 {
		return fmt.Errorf("market_data.rate_limit must be at least 1")
	}

	if c.Fixtures.Dir == "" {
		return fmt.Errorf("fixtures.dir is required")
	}
	if c.Fixtures.MaxStaleDays < 0 {
		return fmt.Errorf("fixtures.max_stale_days must not be negative")
	}

	if c.Output.Dir == "" {
		return fmt.Errorf("output.dir is required")
	}

	if len(c.Editions.Domestic.Indices) == 0 {
		return fmt.Errorf("editions.domestic.indices must contain at least one instrument")
	}
	if len(c.Editions.International.Indices) == 0 {
		return fmt.Errorf("editions.international.indices must contain at least one instrument")
	}
	for _, ed := range []EditionConfig{c.Editions.Domestic, c.Editions.International} {
		for _, inst := range append(append([]Instrument{}, ed.Indices...), ed.FxPairs...) {
			if inst.Name == "" || inst.Symbol == "" {
				return fmt.Errorf("every instrument needs a name and a symbol")
			}
		}
	}

	if c.Classifier.Epsilon < 0 {
		return fmt.Errorf("classifier.epsilon must not be negative")
	}
	if c.Classifier.MinImportance < 1 || c.Classifier.MinImportance > 3 {
		return fmt.Errorf("classifier.min_importance must be between 1 and 3")
	}

	if c.Narrative.USDTipThreshold < 0 || c.Narrative.FxTipThreshold < 0 {
		return fmt.Errorf("narrative tip thresholds must not be negative")
	}

	if c.Verify.Enabled {
		if c.Verify.TolerancePct <= 0 {
			return fmt.Errorf("verify.tolerance_pct must be positive when verify is enabled")
		}
		if c.Verify.CSVBaseURL == "" {
			return fmt.Errorf("verify.csv_base_url is required when verify is enabled")
		}
	}

	if c.Telegram.Enabled {
		if c.Telegram.BotToken == "" {
			return fmt.Errorf("telegram.bot_token is required when telegram is enabled")
		}
		if c.Telegram.ChatID == "" {
			return fmt.Errorf("telegram.chat_id is required when telegram is enabled")
		}
	}

	validLogLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLogLevels[c.Logging.Level] {
		return fmt.Errorf("logging.level must be one of: debug, info, warn, error")
	}
	validFormats := map[string]bool{"json": true, "text": true}
	if !validFormats[c.Logging.Format] {
		return fmt.Errorf("logging.format must be one of: json, text")
	}

	return nil
}

// Edition returns the instrument set for the named edition.
func (c *Config) Edition(name string) (EditionConfig, error) {
	switch name {
	case "domestic":
		return c.Editions.Domestic, nil
	case "international", "intl":
		return c.Editions.International, nil
	default:
		return EditionConfig{}, fmt.Errorf("unknown edition %q (want domestic or international)", name)
	}
}
