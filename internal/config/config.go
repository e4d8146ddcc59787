// Package config provides configuration management functionality.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
)

// Source kinds for the holdings table.
const (
	SourceGSheet = "gsheet"
	SourceFile   = "file"
)

// Config holds application configuration.
type Config struct {
	DataDir  string // Base directory for the source cache database
	Port     int
	LogLevel string
	DevMode  bool

	// Holdings source
	SourceKind string // "gsheet" or "file"
	SheetURL   string // Sharing URL or document ID of the Google Sheet
	SheetGID   string // Worksheet GID within the sheet
	CSVPath    string // Path to a local CSV file (file source)

	// Analyzer
	AtRiskThreshold float64 // Performance-gap threshold for at-risk detection

	// Refresh
	RefreshSchedule string // Cron expression; empty disables scheduled refresh
}

// Load reads configuration from environment variables. A .env file is loaded
// first when present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	dataDir := getEnv("HOLDVIEW_DATA_DIR", "./data")
	absDataDir, err := filepath.Abs(dataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve data dir: %w", err)
	}
	if err := os.MkdirAll(absDataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data dir: %w", err)
	}

	port, err := strconv.Atoi(getEnv("HOLDVIEW_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid HOLDVIEW_PORT: %w", err)
	}

	threshold, err := strconv.ParseFloat(getEnv("HOLDVIEW_AT_RISK_THRESHOLD", "0.05"), 64)
	if err != nil || threshold < 0 {
		return nil, fmt.Errorf("HOLDVIEW_AT_RISK_THRESHOLD must be a non-negative number")
	}

	cfg := &Config{
		DataDir:         absDataDir,
		Port:            port,
		LogLevel:        getEnv("HOLDVIEW_LOG_LEVEL", "info"),
		DevMode:         getEnv("HOLDVIEW_DEV_MODE", "false") == "true",
		SourceKind:      getEnv("HOLDVIEW_SOURCE", SourceGSheet),
		SheetURL:        getEnv("HOLDVIEW_SHEET_URL", ""),
		SheetGID:        getEnv("HOLDVIEW_SHEET_GID", "0"),
		CSVPath:         getEnv("HOLDVIEW_CSV_PATH", ""),
		AtRiskThreshold: threshold,
		RefreshSchedule: getEnv("HOLDVIEW_REFRESH_SCHEDULE", ""),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// validate checks that the configured source is usable.
func (c *Config) validate() error {
	switch c.SourceKind {
	case SourceGSheet:
		if c.SheetURL == "" {
			return fmt.Errorf("HOLDVIEW_SHEET_URL is required for the gsheet source")
		}
	case SourceFile:
		if c.CSVPath == "" {
			return fmt.Errorf("HOLDVIEW_CSV_PATH is required for the file source")
		}
	default:
		return fmt.Errorf("unknown HOLDVIEW_SOURCE %q (want %q or %q)", c.SourceKind, SourceGSheet, SourceFile)
	}
	return nil
}

// CacheDBPath returns the path of the source cache database.
func (c *Config) CacheDBPath() string {
	return filepath.Join(c.DataDir, "source_cache.db")
}

// getEnv retrieves an environment variable value, returning a fallback if
// the variable is not set or is empty.
func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
