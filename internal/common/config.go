package common

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pelletier/go-toml/v2"
)

// Config represents the application configuration
type Config struct {
	Environment string           `toml:"environment"` // "development" or "production"
	Portfolio   PortfolioConfig  `toml:"portfolio"`
	EODHD       EODHDConfig      `toml:"eodhd"`
	LLM         LLMConfig        `toml:"llm"`
	Claude      ClaudeConfig     `toml:"claude"`
	Gemini      GeminiConfig     `toml:"gemini"`
	Collectors  CollectorsConfig `toml:"collectors"`
	Cache       CacheConfig      `toml:"cache"`
	Prices      PricesConfig     `toml:"prices"`
	Alerts      AlertsConfig     `toml:"alerts"`
	Dedup       DedupConfig      `toml:"dedup"`
	SMTP        SMTPConfig       `toml:"smtp"`
	Scheduler   SchedulerConfig  `toml:"scheduler"`
	Storage     StorageConfig    `toml:"storage"`
	Logging     LoggingConfig    `toml:"logging"`
}

// PortfolioPosition is one monitored ticker with its hardcoded fallback
// targets, used when the document store has no generated record.
type PortfolioPosition struct {
	Ticker     string  `toml:"ticker" validate:"required"`
	BuyTarget  float64 `toml:"buy_target" validate:"gt=0"`
	SellTarget float64 `toml:"sell_target" validate:"gt=0"`
}

type PortfolioConfig struct {
	Positions []PortfolioPosition `toml:"positions" validate:"min=1,dive"`
}

// Tickers returns the configured ticker symbols in file order.
func (p PortfolioConfig) Tickers() []string {
	tickers := make([]string, 0, len(p.Positions))
	for _, pos := range p.Positions {
		tickers = append(tickers, pos.Ticker)
	}
	return tickers
}

// EODHDConfig configures the market-data provider client.
type EODHDConfig struct {
	APIKey    string `toml:"api_key"`
	BaseURL   string `toml:"base_url"`
	Timeout   string `toml:"timeout"`    // e.g. "30s"
	RateLimit int    `toml:"rate_limit"` // requests per second
}

// LLMConfig selects the target-generation provider.
type LLMConfig struct {
	Provider string `toml:"provider" validate:"oneof=claude gemini"`
}

type ClaudeConfig struct {
	APIKey      string  `toml:"api_key"`
	Model       string  `toml:"model"`
	MaxTokens   int     `toml:"max_tokens"`
	Temperature float32 `toml:"temperature"`
	Timeout     string  `toml:"timeout"`
}

type GeminiConfig struct {
	APIKey  string `toml:"api_key"`
	Model   string `toml:"model"`
	Timeout string `toml:"timeout"`
}

// CollectorsConfig holds the scraper feature flags and the tunable
// quality-sufficiency gate thresholds.
type CollectorsConfig struct {
	EnableMarketWatch bool   `toml:"enable_marketwatch"`
	EnableYahooWeb    bool   `toml:"enable_yahoo_web"`
	GateMinAnalysts   int    `toml:"gate_min_analysts"` // primary-source analyst count to skip scrapers
	GateMinTargets    int    `toml:"gate_min_targets"`  // collected target prices to skip remaining sources
	RequestTimeout    string `toml:"request_timeout"`
	UserAgent         string `toml:"user_agent"`
}

// CacheConfig controls the opt-in per-process observation cache.
type CacheConfig struct {
	Enabled bool   `toml:"enabled"`
	TTL     string `toml:"ttl"` // e.g. "1h"
}

// PricesConfig controls the fallback price-fetch worker pool.
type PricesConfig struct {
	Workers   int    `toml:"workers"` // bounded pool size
	JitterMin string `toml:"jitter_min"`
	JitterMax string `toml:"jitter_max"`
	Timeout   string `toml:"timeout"`
}

type AlertsConfig struct {
	WatchBandPct float64 `toml:"watch_band_pct"` // WATCH when within this fraction above buy target
}

// DedupConfig sets per-kind notification cooldowns.
type DedupConfig struct {
	DailyCooldownMinutes   int `toml:"daily_cooldown_minutes"`
	MonthlyCooldownMinutes int `toml:"monthly_cooldown_minutes"`
}

type SMTPConfig struct {
	Host     string `toml:"host"`
	Port     int    `toml:"port"`
	Username string `toml:"username"`
	Password string `toml:"password"`
	From     string `toml:"from"`
	FromName string `toml:"from_name"`
	To       string `toml:"to"`
	UseTLS   bool   `toml:"use_tls"`
}

// SchedulerConfig configures the optional local cron mode.
type SchedulerConfig struct {
	Enabled         bool   `toml:"enabled"`
	DailySchedule   string `toml:"daily_schedule"`
	MonthlySchedule string `toml:"monthly_schedule"`
}

type StorageConfig struct {
	Badger BadgerConfig `toml:"badger"`
}

// BadgerConfig represents BadgerDB-specific configuration
type BadgerConfig struct {
	Path           string `toml:"path"`             // Database directory path
	ResetOnStartup bool   `toml:"reset_on_startup"` // Delete database on startup for clean test runs
}

type LoggingConfig struct {
	Level  string   `toml:"level"`  // "debug", "info", "warn", "error"
	Output []string `toml:"output"` // "stdout", "file"
}

// DefaultConfig returns the configuration defaults applied before any file
// or environment override.
func DefaultConfig() *Config {
	return &Config{
		Environment: "production",
		EODHD: EODHDConfig{
			BaseURL:   "https://eodhd.com/api",
			Timeout:   "30s",
			RateLimit: 10,
		},
		LLM: LLMConfig{Provider: "claude"},
		Claude: ClaudeConfig{
			Model:       "claude-3-haiku-20240307",
			MaxTokens:   500,
			Temperature: 0.3,
			Timeout:     "60s",
		},
		Gemini: GeminiConfig{
			Model:   "gemini-2.0-flash",
			Timeout: "60s",
		},
		Collectors: CollectorsConfig{
			EnableMarketWatch: true,
			EnableYahooWeb:    true,
			GateMinAnalysts:   5,
			GateMinTargets:    3,
			RequestTimeout:    "10s",
			UserAgent:         "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36",
		},
		Cache: CacheConfig{
			Enabled: true,
			TTL:     "1h",
		},
		Prices: PricesConfig{
			Workers:   2,
			JitterMin: "500ms",
			JitterMax: "1500ms",
			Timeout:   "15s",
		},
		Alerts: AlertsConfig{WatchBandPct: 0.05},
		Dedup: DedupConfig{
			DailyCooldownMinutes:   60,
			MonthlyCooldownMinutes: 1440,
		},
		SMTP: SMTPConfig{
			Host:     "smtp.gmail.com",
			Port:     587,
			FromName: "Speculor",
			UseTLS:   true,
		},
		Scheduler: SchedulerConfig{
			Enabled:         false,
			DailySchedule:   "0 15 * * 1-5",
			MonthlySchedule: "0 9 1 * *",
		},
		Storage: StorageConfig{
			Badger: BadgerConfig{Path: "./data/speculor"},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Output: []string{"stdout"},
		},
	}
}

// LoadConfig loads configuration: defaults -> optional TOML file -> env
// overrides, then validates the result.
func LoadConfig(path string) (*Config, error) {
	config := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	applyEnvOverrides(config)

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// applyEnvOverrides applies environment variable overrides. Secrets are the
// usual case; the ENABLE_* names match the original deployment environment.
func applyEnvOverrides(config *Config) {
	if v := os.Getenv("SPECULOR_EODHD_API_KEY"); v != "" {
		config.EODHD.APIKey = v
	}
	if v := os.Getenv("ANTHROPIC_API_KEY"); v != "" {
		config.Claude.APIKey = v
	}
	if v := os.Getenv("SPECULOR_CLAUDE_API_KEY"); v != "" {
		config.Claude.APIKey = v
	}
	if v := os.Getenv("GEMINI_API_KEY"); v != "" {
		config.Gemini.APIKey = v
	}
	if v := os.Getenv("SPECULOR_SMTP_USERNAME"); v != "" {
		config.SMTP.Username = v
	}
	if v := os.Getenv("SPECULOR_SMTP_PASSWORD"); v != "" {
		config.SMTP.Password = v
	}
	if v := os.Getenv("SPECULOR_ALERT_RECIPIENT"); v != "" {
		config.SMTP.To = v
	}
	if v := os.Getenv("ENABLE_MW_SCRAPE"); v != "" {
		config.Collectors.EnableMarketWatch = parseBool(v)
	}
	if v := os.Getenv("ENABLE_YF_WEB_SCRAPE"); v != "" {
		config.Collectors.EnableYahooWeb = parseBool(v)
	}
	if v := os.Getenv("SPECULOR_LOG_LEVEL"); v != "" {
		config.Logging.Level = v
	}
}

func parseBool(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "true", "1", "yes":
		return true
	}
	return false
}

// Validate checks structural constraints and duration fields.
func (c *Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	durations := map[string]string{
		"eodhd.timeout":              c.EODHD.Timeout,
		"claude.timeout":             c.Claude.Timeout,
		"gemini.timeout":             c.Gemini.Timeout,
		"collectors.request_timeout": c.Collectors.RequestTimeout,
		"cache.ttl":                  c.Cache.TTL,
		"prices.jitter_min":          c.Prices.JitterMin,
		"prices.jitter_max":          c.Prices.JitterMax,
		"prices.timeout":             c.Prices.Timeout,
	}
	for name, value := range durations {
		if _, err := time.ParseDuration(value); err != nil {
			return fmt.Errorf("invalid duration for %s: %q", name, value)
		}
	}

	if c.Prices.Workers < 1 {
		return fmt.Errorf("prices.workers must be at least 1, got %d", c.Prices.Workers)
	}

	return nil
}

// Duration parses a config duration string that Validate already checked.
func Duration(value string) time.Duration {
	d, _ := time.ParseDuration(value)
	return d
}

// FallbackTargets returns the hardcoded ticker -> (buy, sell) map.
func (c *Config) FallbackTargets() map[string][2]float64 {
	targets := make(map[string][2]float64, len(c.Portfolio.Positions))
	for _, pos := range c.Portfolio.Positions {
		targets[pos.Ticker] = [2]float64{pos.BuyTarget, pos.SellTarget}
	}
	return targets
}

// CooldownFor returns the configured cooldown for a notification kind, with
// an optional caller override in minutes (0 means no override).
func (c *Config) CooldownFor(kind string, overrideMinutes int) time.Duration {
	if overrideMinutes > 0 {
		return time.Duration(overrideMinutes) * time.Minute
	}
	switch kind {
	case "monthly_update":
		return time.Duration(c.Dedup.MonthlyCooldownMinutes) * time.Minute
	default:
		return time.Duration(c.Dedup.DailyCooldownMinutes) * time.Minute
	}
}
