// Package common provides shared utilities for Arkrank
package common

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	toml "github.com/pelletier/go-toml/v2"
)

// Config holds all configuration for Arkrank
type Config struct {
	Environment string        `toml:"environment"`
	Benchmark   string        `toml:"benchmark"` // relative-strength benchmark symbol, default "SPY"
	Server      ServerConfig  `toml:"server"`
	Storage     StorageConfig `toml:"storage"`
	Clients     ClientsConfig `toml:"clients"`
	Engine      EngineConfig  `toml:"engine"`
	Scheduler   SchedConfig   `toml:"scheduler"`
	Logging     LoggingConfig `toml:"logging"`
	Auth        AuthConfig    `toml:"auth"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

// StorageConfig holds path configuration for the two storage areas.
type StorageConfig struct {
	Snapshots AreaConfig `toml:"snapshots"` // market snapshots (file-based JSON)
	Ledger    AreaConfig `toml:"ledger"`    // portfolio ledger (BadgerHold)
}

// AreaConfig holds path configuration for a storage area.
type AreaConfig struct {
	Path string `toml:"path"`
}

// ClientsConfig holds API client configurations
type ClientsConfig struct {
	Gemini GeminiConfig `toml:"gemini"`
}

// GeminiConfig holds Gemini API configuration
type GeminiConfig struct {
	APIKey    string `toml:"api_key"`
	Model     string `toml:"model"`
	Disabled  bool   `toml:"disabled"`
	RateLimit int    `toml:"rate_limit"` // requests per minute
	Timeout   string `toml:"timeout"`
}

// GetTimeout parses and returns the timeout duration
func (c *GeminiConfig) GetTimeout() time.Duration {
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 60 * time.Second
	}
	return d
}

// EngineConfig holds ranking engine tunables that are safe to expose in config.
// Threshold tables and factor weights live in the rank package itself.
type EngineConfig struct {
	MaxPicks      int     `toml:"max_picks"`
	MaxPortfolio  int     `toml:"max_portfolio"`
	PickThreshold float64 `toml:"pick_threshold"`
}

// SchedConfig holds the background re-ranking schedule.
type SchedConfig struct {
	Enabled bool   `toml:"enabled"`
	Cron    string `toml:"cron"` // cron expression, default every 30 minutes
}

// AuthConfig holds bearer-token authentication configuration. When JWTSecret
// is empty the API is open.
type AuthConfig struct {
	JWTSecret   string `toml:"jwt_secret"`
	TokenExpiry string `toml:"token_expiry"` // duration string, default "24h"
}

// GetTokenExpiry parses and returns the token expiry duration.
func (c *AuthConfig) GetTokenExpiry() time.Duration {
	d, err := time.ParseDuration(c.TokenExpiry)
	if err != nil {
		return 24 * time.Hour
	}
	return d
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
		Benchmark:   "SPY",
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8080,
		},
		Storage: StorageConfig{
			Snapshots: AreaConfig{Path: "data/snapshots"},
			Ledger:    AreaConfig{Path: "data/ledger"},
		},
		Clients: ClientsConfig{
			Gemini: GeminiConfig{
				Model:     "gemini-2.0-flash",
				RateLimit: 10,
				Timeout:   "60s",
			},
		},
		Engine: EngineConfig{
			MaxPicks:      5,
			MaxPortfolio:  10,
			PickThreshold: 0.6,
		},
		Scheduler: SchedConfig{
			Enabled: false,
			Cron:    "*/30 * * * *",
		},
		Auth: AuthConfig{
			TokenExpiry: "24h",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// LoadConfig loads configuration from files with environment overrides.
// A .env file in the working directory is loaded first when present.
func LoadConfig(paths ...string) (*Config, error) {
	_ = godotenv.Load()

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
	if env := os.Getenv("ARKRANK_ENV"); env != "" {
		config.Environment = env
	}

	if host := os.Getenv("ARKRANK_HOST"); host != "" {
		config.Server.Host = host
	}

	if port := os.Getenv("ARKRANK_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}

	if level := os.Getenv("ARKRANK_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}

	if path := os.Getenv("ARKRANK_DATA_PATH"); path != "" {
		config.Storage.Snapshots.Path = filepath.Join(path, "snapshots")
		config.Storage.Ledger.Path = filepath.Join(path, "ledger")
	}

	if bench := os.Getenv("ARKRANK_BENCHMARK"); bench != "" {
		config.Benchmark = strings.ToUpper(bench)
	}

	if v := os.Getenv("ARKRANK_AUTH_JWT_SECRET"); v != "" {
		config.Auth.JWTSecret = v
	}
	if v := os.Getenv("ARKRANK_AUTH_TOKEN_EXPIRY"); v != "" {
		config.Auth.TokenExpiry = v
	}

	if v := os.Getenv("ARKRANK_GEMINI_DISABLED"); v != "" {
		config.Clients.Gemini.Disabled = v == "1" || strings.EqualFold(v, "true")
	}
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	env := strings.ToLower(strings.TrimSpace(c.Environment))
	return env == "production" || env == "prod"
}

// ResolveAPIKey resolves the Gemini API key from config or environment.
// Priority: config file > GEMINI_API_KEY env > GOOGLE_API_KEY env.
func (c *Config) ResolveAPIKey() string {
	if c.Clients.Gemini.APIKey != "" {
		return c.Clients.Gemini.APIKey
	}
	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		return key
	}
	return os.Getenv("GOOGLE_API_KEY")
}
