package common

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDefaultConfig(t *testing.T) {
	cfg := NewDefaultConfig()

	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, 8000, cfg.Server.Port)
	assert.Equal(t, 12, cfg.Financials.PeriodCount)
	assert.Equal(t, 4, cfg.Financials.ChunkSize)
	assert.Equal(t, []int{4, 7, 10}, cfg.Financials.AnchorMonths)
	assert.Equal(t, 24*time.Hour, cfg.Financials.GetMaxAge())
	assert.Equal(t, time.Hour, cfg.Financials.GetRefreshInterval())
	assert.Equal(t, 10, cfg.Scan.Workers)
	assert.Equal(t, 3*time.Second, cfg.Clients.Yahoo.GetSearchTimeout())
	assert.False(t, cfg.IsProduction())
}

func TestLoadConfigMergesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bistboard.toml")
	content := `
environment = "production"

[server]
port = 9000

[financials]
period_count = 8
max_age = "12h"
refresh_interval = "30m"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	// Overridden values
	assert.Equal(t, "production", cfg.Environment)
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, 8, cfg.Financials.PeriodCount)
	assert.Equal(t, 12*time.Hour, cfg.Financials.GetMaxAge())
	assert.Equal(t, 30*time.Minute, cfg.Financials.GetRefreshInterval())

	// Untouched defaults survive the merge
	assert.Equal(t, 4, cfg.Financials.ChunkSize)
	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
}

func TestLoadConfigMissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadConfig("/nonexistent/bistboard.toml")
	require.NoError(t, err)
	assert.Equal(t, 8000, cfg.Server.Port)
}

func TestLoadConfigInvalidTOML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.toml")
	require.NoError(t, os.WriteFile(path, []byte("not [valid toml"), 0644))

	_, err := LoadConfig(path)
	require.Error(t, err)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("BISTBOARD_ENV", "production")
	t.Setenv("BISTBOARD_PORT", "8080")
	t.Setenv("BISTBOARD_LOG_LEVEL", "debug")
	t.Setenv("BISTBOARD_FINANCIALS_MAX_AGE", "6h")
	t.Setenv("BISTBOARD_SCAN", "off")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "production", cfg.Environment)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, 6*time.Hour, cfg.Financials.GetMaxAge())
	assert.False(t, cfg.Scan.Enabled)
}

func TestDurationHelpersFallBack(t *testing.T) {
	iy := IsyatirimConfig{Timeout: "garbage"}
	assert.Equal(t, 15*time.Second, iy.GetTimeout())

	y := YahooConfig{SearchTimeout: ""}
	assert.Equal(t, 3*time.Second, y.GetSearchTimeout())

	f := FinancialsConfig{MaxAge: "nope", RefreshInterval: "nope"}
	assert.Equal(t, FreshnessFinancials, f.GetMaxAge())
	assert.Equal(t, time.Hour, f.GetRefreshInterval())
}
