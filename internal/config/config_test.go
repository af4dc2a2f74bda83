package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"etf-dashboard-backend/internal/model"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("PORT", "")
	t.Setenv("CACHE_BACKEND", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, DefaultPort, cfg.Server.Port)
	assert.Equal(t, "memory", cfg.Cache.Backend)
	assert.Equal(t, DefaultFetchTimeout, cfg.Fetch.Timeout)
	assert.Equal(t, time.Date(2026, 1, 1, 0, 0, 0, 0, time.Local), cfg.FillCutoff())
	assert.Len(t, cfg.Sources, len(model.Entities()))
}

func TestLoadFileWithEnvOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
server:
  port: "9000"
cache:
  backend: sqlite
  sqlite_path: ${TEST_DATA_DIR}/cache.db
fetch:
  timeout: 5s
auto_refresh:
  enabled: true
  time: "07:30"
sources:
  dividend: "https://a.example/div.csv|https://b.example/div.csv"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	t.Setenv("TEST_DATA_DIR", dir)
	t.Setenv("CONFIG_FILE", path)
	t.Setenv("PORT", "9100")
	t.Setenv("SOURCE_PRICE", "https://c.example/price.csv")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "9100", cfg.Server.Port, "env overrides file")
	assert.Equal(t, "sqlite", cfg.Cache.Backend)
	assert.Equal(t, filepath.Join(dir, "cache.db"), cfg.Cache.SQLitePath)
	assert.Equal(t, 5*time.Second, cfg.Fetch.Timeout)
	assert.True(t, cfg.AutoRefresh.Enabled)
	assert.Equal(t, "https://a.example/div.csv|https://b.example/div.csv", cfg.Sources[model.EntityDividend])
	assert.Equal(t, "https://c.example/price.csv", cfg.Sources[model.EntityPrice])

	h, m, err := cfg.RefreshClock()
	require.NoError(t, err)
	assert.Equal(t, 7, h)
	assert.Equal(t, 30, m)
}

func TestValidate(t *testing.T) {
	cfg := &Config{}
	cfg.applyDefaults()
	require.NoError(t, cfg.Validate())

	cfg.Cache.Backend = "mongo"
	assert.Error(t, cfg.Validate())

	cfg.Cache.Backend = "memory"
	cfg.Analysis.FillCutoffDate = "2026/01/01"
	assert.Error(t, cfg.Validate())

	cfg.Analysis.FillCutoffDate = DefaultFillCutoffDate
	cfg.AutoRefresh.Time = "25:00"
	assert.Error(t, cfg.Validate())
}
