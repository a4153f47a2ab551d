package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)

	assert.Equal(t, "https://api.scraperapi.com", cfg.Scrape.BaseURL)
	assert.Equal(t, 1.0, cfg.Scrape.RequestsPerSecond)
	assert.Equal(t, 3, cfg.Scrape.MaxRetries)
	assert.Equal(t, 20, cfg.Scrape.TimeoutSecs)
	assert.Equal(t, 1000, cfg.Scrape.BaseDelayMs)
	assert.Equal(t, 30000, cfg.Scrape.MaxDelayMs)
	assert.Equal(t, 1000, cfg.Scrape.MinBodyBytes)
	assert.True(t, cfg.Scrape.Render)

	assert.Equal(t, 30, cfg.Parse.WindowDays)

	assert.Equal(t, 1.5, cfg.Stats.IQRMultiplier)
	assert.Equal(t, 0.5, cfg.Stats.MaxRemovalFraction)
	assert.Equal(t, 0.8, cfg.Stats.CVThreshold)
	assert.InDelta(t, 1.0,
		cfg.Stats.MedianWeight+cfg.Stats.MeanWeight+cfg.Stats.ModeWeight+cfg.Stats.RecentWeight,
		1e-9)

	assert.Contains(t, cfg.Marketplace.SoldSearchTemplate, "LH_Sold=1")
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("MARKETVAL_SCRAPE_API_KEY", "test-key-123")
	t.Setenv("MARKETVAL_SCRAPE_MAX_RETRIES", "5")
	t.Setenv("MARKETVAL_LOG_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "test-key-123", cfg.Scrape.APIKey)
	assert.Equal(t, 5, cfg.Scrape.MaxRetries)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestInitLogger(t *testing.T) {
	require.NoError(t, InitLogger(LogConfig{Level: "debug", Format: "console"}))
	require.NoError(t, InitLogger(LogConfig{Level: "info", Format: "json"}))

	err := InitLogger(LogConfig{Level: "nope", Format: "json"})
	assert.Error(t, err)
}
