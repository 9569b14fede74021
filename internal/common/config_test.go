package common

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const minimalConfig = `
[[portfolio.positions]]
ticker = "AAPL"
buy_target = 180.0
sell_target = 230.0
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "speculor.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadConfigDefaults(t *testing.T) {
	config, err := LoadConfig(writeConfig(t, minimalConfig))
	require.NoError(t, err)

	assert.Equal(t, "claude", config.LLM.Provider)
	assert.Equal(t, 5, config.Collectors.GateMinAnalysts)
	assert.Equal(t, 3, config.Collectors.GateMinTargets)
	assert.Equal(t, 2, config.Prices.Workers)
	assert.Equal(t, 60, config.Dedup.DailyCooldownMinutes)
	assert.Equal(t, 1440, config.Dedup.MonthlyCooldownMinutes)
	assert.Equal(t, 0.05, config.Alerts.WatchBandPct)
	assert.True(t, config.Collectors.EnableMarketWatch)
}

func TestLoadConfigFileOverrides(t *testing.T) {
	config, err := LoadConfig(writeConfig(t, minimalConfig+`
[llm]
provider = "gemini"

[collectors]
gate_min_analysts = 8

[dedup]
daily_cooldown_minutes = 120
`))
	require.NoError(t, err)

	assert.Equal(t, "gemini", config.LLM.Provider)
	assert.Equal(t, 8, config.Collectors.GateMinAnalysts)
	assert.Equal(t, 120, config.Dedup.DailyCooldownMinutes)
	// Untouched sections keep defaults.
	assert.Equal(t, 1440, config.Dedup.MonthlyCooldownMinutes)
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	t.Setenv("SPECULOR_EODHD_API_KEY", "env-key")
	t.Setenv("ENABLE_MW_SCRAPE", "false")

	config, err := LoadConfig(writeConfig(t, minimalConfig))
	require.NoError(t, err)

	assert.Equal(t, "env-key", config.EODHD.APIKey)
	assert.False(t, config.Collectors.EnableMarketWatch)
}

func TestLoadConfigRejectsEmptyPortfolio(t *testing.T) {
	_, err := LoadConfig(writeConfig(t, `environment = "production"`))
	assert.Error(t, err)
}

func TestLoadConfigRejectsBadDuration(t *testing.T) {
	_, err := LoadConfig(writeConfig(t, minimalConfig+`
[cache]
ttl = "one hour"
`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cache.ttl")
}

func TestLoadConfigRejectsBadProvider(t *testing.T) {
	_, err := LoadConfig(writeConfig(t, minimalConfig+`
[llm]
provider = "gpt4"
`))
	assert.Error(t, err)
}

func TestCooldownFor(t *testing.T) {
	config := DefaultConfig()

	assert.Equal(t, 60*time.Minute, config.CooldownFor("daily_summary", 0))
	assert.Equal(t, 24*time.Hour, config.CooldownFor("monthly_update", 0))
	assert.Equal(t, 5*time.Minute, config.CooldownFor("daily_summary", 5))
}

func TestFallbackTargets(t *testing.T) {
	config := DefaultConfig()
	config.Portfolio.Positions = []PortfolioPosition{
		{Ticker: "AAPL", BuyTarget: 180, SellTarget: 230},
	}

	targets := config.FallbackTargets()
	require.Contains(t, targets, "AAPL")
	assert.Equal(t, [2]float64{180, 230}, targets["AAPL"])
}
