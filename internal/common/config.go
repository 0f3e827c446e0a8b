// Package common provides shared utilities for bistboard
package common

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// Config holds all configuration for bistboard
type Config struct {
	Environment string           `toml:"environment"`
	Server      ServerConfig     `toml:"server"`
	Storage     StorageConfig    `toml:"storage"`
	Clients     ClientsConfig    `toml:"clients"`
	Financials  FinancialsConfig `toml:"financials"`
	Scan        ScanConfig       `toml:"scan"`
	Logging     LoggingConfig    `toml:"logging"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

// StorageConfig holds the cache store path.
type StorageConfig struct {
	Path string `toml:"path"`
}

// ClientsConfig holds API client configurations
type ClientsConfig struct {
	Isyatirim IsyatirimConfig `toml:"isyatirim"`
	Yahoo     YahooConfig     `toml:"yahoo"`
}

// IsyatirimConfig holds the İş Yatırım financial-statement API configuration.
type IsyatirimConfig struct {
	BaseURL   string `toml:"base_url"`
	UserAgent string `toml:"user_agent"`
	RateLimit int    `toml:"rate_limit"` // requests per second between statement chunks
	Timeout   string `toml:"timeout"`
}

// GetTimeout parses and returns the timeout duration
func (c *IsyatirimConfig) GetTimeout() time.Duration {
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 15 * time.Second
	}
	return d
}

// YahooConfig holds the Yahoo Finance API configuration.
type YahooConfig struct {
	BaseURL       string `toml:"base_url"`
	QueryBaseURL  string `toml:"query_base_url"`
	UserAgent     string `toml:"user_agent"`
	Timeout       string `toml:"timeout"`
	SearchTimeout string `toml:"search_timeout"`
}

// GetTimeout parses and returns the timeout duration
func (c *YahooConfig) GetTimeout() time.Duration {
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 15 * time.Second
	}
	return d
}

// GetSearchTimeout parses and returns the symbol-search timeout duration.
// Search is interactive; it gets a much shorter budget than data fetches.
func (c *YahooConfig) GetSearchTimeout() time.Duration {
	d, err := time.ParseDuration(c.SearchTimeout)
	if err != nil {
		return 3 * time.Second
	}
	return d
}

// FinancialsConfig holds statement fetch tunables.
type FinancialsConfig struct {
	PeriodCount     int    `toml:"period_count"`     // how many quarters to request
	ChunkSize       int    `toml:"chunk_size"`       // provider per-request period limit
	MaxAge          string `toml:"max_age"`          // cache staleness threshold
	RefreshInterval string `toml:"refresh_interval"` // background refresh sweep cadence
	AnchorMonths    []int  `toml:"anchor_months"`    // month thresholds for the latest published quarter
}

// GetMaxAge parses and returns the staleness threshold.
func (c *FinancialsConfig) GetMaxAge() time.Duration {
	d, err := time.ParseDuration(c.MaxAge)
	if err != nil {
		return FreshnessFinancials
	}
	return d
}

// GetRefreshInterval parses and returns the background refresh cadence.
func (c *FinancialsConfig) GetRefreshInterval() time.Duration {
	d, err := time.ParseDuration(c.RefreshInterval)
	if err != nil {
		return time.Hour
	}
	return d
}

// ScanConfig holds background sector warm-scan tunables.
type ScanConfig struct {
	Enabled   bool `toml:"enabled"`
	RateLimit int  `toml:"rate_limit"` // symbols per second for the universe scan
	Workers   int  `toml:"workers"`    // quote fan-out worker count per page
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// NewDefaultConfig returns a Config with sensible defaults
func NewDefaultConfig() *Config {
	return &Config{
		Environment: "development",
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8000,
		},
		Storage: StorageConfig{
			Path: "data",
		},
		Clients: ClientsConfig{
			Isyatirim: IsyatirimConfig{
				BaseURL:   "https://www.isyatirim.com.tr/_layouts/15/IsYatirim.Website/Common/Data.aspx",
				UserAgent: "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36",
				RateLimit: 2,
				Timeout:   "15s",
			},
			Yahoo: YahooConfig{
				BaseURL:       "https://query1.finance.yahoo.com",
				QueryBaseURL:  "https://query2.finance.yahoo.com",
				UserAgent:     "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36",
				Timeout:       "15s",
				SearchTimeout: "3s",
			},
		},
		Financials: FinancialsConfig{
			PeriodCount:     12,
			ChunkSize:       4,
			MaxAge:          "24h",
			RefreshInterval: "1h",
			AnchorMonths:    []int{4, 7, 10},
		},
		Scan: ScanConfig{
			Enabled:   true,
			RateLimit: 1,
			Workers:   10,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// LoadConfig loads configuration from files with environment overrides
func LoadConfig(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	// Load and merge each config file in order (later files override earlier)
	for _, path := range paths {
		if path == "" {
			continue
		}

		if _, err := os.Stat(path); os.IsNotExist(err) {
			continue // Skip missing files
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	applyEnvOverrides(config)

	return config, nil
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(config *Config) {
	if env := os.Getenv("BISTBOARD_ENV"); env != "" {
		config.Environment = env
	}

	if host := os.Getenv("BISTBOARD_HOST"); host != "" {
		config.Server.Host = host
	}

	if port := os.Getenv("BISTBOARD_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}

	if level := os.Getenv("BISTBOARD_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}

	if path := os.Getenv("BISTBOARD_DATA_PATH"); path != "" {
		config.Storage.Path = path
	}

	if v := os.Getenv("BISTBOARD_FINANCIALS_MAX_AGE"); v != "" {
		config.Financials.MaxAge = v
	}

	if v := os.Getenv("BISTBOARD_FINANCIALS_REFRESH_INTERVAL"); v != "" {
		config.Financials.RefreshInterval = v
	}

	if v := os.Getenv("BISTBOARD_SCAN"); v != "" {
		config.Scan.Enabled = !strings.EqualFold(v, "off")
	}
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	env := strings.ToLower(strings.TrimSpace(c.Environment))
	return env == "production" || env == "prod"
}
