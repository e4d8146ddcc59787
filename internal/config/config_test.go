package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("HOLDVIEW_DATA_DIR", t.TempDir())
	t.Setenv("HOLDVIEW_SOURCE", SourceGSheet)
	t.Setenv("HOLDVIEW_SHEET_URL", "https://docs.google.com/spreadsheets/d/abc/edit")
}

func TestLoadDefaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.False(t, cfg.DevMode)
	assert.Equal(t, "0", cfg.SheetGID)
	assert.Equal(t, 0.05, cfg.AtRiskThreshold)
	assert.Empty(t, cfg.RefreshSchedule)
	assert.Contains(t, cfg.CacheDBPath(), "source_cache.db")
}

func TestLoadOverrides(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("HOLDVIEW_PORT", "9090")
	t.Setenv("HOLDVIEW_LOG_LEVEL", "debug")
	t.Setenv("HOLDVIEW_DEV_MODE", "true")
	t.Setenv("HOLDVIEW_SHEET_GID", "290160618")
	t.Setenv("HOLDVIEW_AT_RISK_THRESHOLD", "0.1")
	t.Setenv("HOLDVIEW_REFRESH_SCHEDULE", "*/15 * * * *")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.True(t, cfg.DevMode)
	assert.Equal(t, "290160618", cfg.SheetGID)
	assert.Equal(t, 0.1, cfg.AtRiskThreshold)
	assert.Equal(t, "*/15 * * * *", cfg.RefreshSchedule)
}

func TestLoadFileSource(t *testing.T) {
	t.Setenv("HOLDVIEW_DATA_DIR", t.TempDir())
	t.Setenv("HOLDVIEW_SOURCE", SourceFile)
	t.Setenv("HOLDVIEW_CSV_PATH", "/data/holdings.csv")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, SourceFile, cfg.SourceKind)
}

func TestLoadValidation(t *testing.T) {
	t.Setenv("HOLDVIEW_DATA_DIR", t.TempDir())

	// gsheet source without a sheet URL
	t.Setenv("HOLDVIEW_SOURCE", SourceGSheet)
	t.Setenv("HOLDVIEW_SHEET_URL", "")
	_, err := Load()
	assert.Error(t, err)

	// file source without a path
	t.Setenv("HOLDVIEW_SOURCE", SourceFile)
	t.Setenv("HOLDVIEW_CSV_PATH", "")
	_, err = Load()
	assert.Error(t, err)

	// unknown source kind
	t.Setenv("HOLDVIEW_SOURCE", "carrier-pigeon")
	_, err = Load()
	assert.Error(t, err)
}

func TestLoadInvalidPort(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("HOLDVIEW_PORT", "not-a-port")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoadInvalidThreshold(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("HOLDVIEW_AT_RISK_THRESHOLD", "-0.5")

	_, err := Load()
	assert.Error(t, err)
}
