// Package config provides centralized configuration loaded from environment
// variables. Shared by both cmd/api and cmd/tournament.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Data sources the league service can load from.
const (
	SourceFile     = "file"
	SourcePostgres = "postgres"
)

// --------------------------------------------------------------------------
// Config struct: populated from environment variables
// --------------------------------------------------------------------------

type Config struct {
	// Data
	DataSource string // file, postgres
	DataDir    string

	// Database
	DatabaseURL    string
	DBPoolMinConns int
	DBPoolMaxConns int
	DBPoolMaxLife  time.Duration

	// API server
	APIHost     string
	APIPort     int
	Environment string // development, staging, production
	Debug       bool

	// CORS
	CORSAllowOrigins []string

	// Rate limiting
	RateLimitEnabled  bool
	RateLimitRequests int
	RateLimitWindow   time.Duration

	// Cache
	CacheEnabled bool
	CacheTTL     time.Duration

	// Engine
	ScenarioGapLimit     int
	ScenarioComboCeiling int
	HomeAdvantage        float64
	ForecastSimRuns      int
	ForecastWorkers      int

	// Result entry
	AdminToken string

	// Background scenario jobs
	JobTTL time.Duration
}

// Load reads configuration from environment variables with sensible defaults.
func Load() (*Config, error) {
	cfg := &Config{
		DataSource: strings.ToLower(envOr("DATA_SOURCE", SourceFile)),
		DataDir:    envOr("DATA_DIR", "data"),

		DatabaseURL:    envOr("DATABASE_URL", ""),
		DBPoolMinConns: envInt("DB_POOL_MIN_CONNS", 2),
		DBPoolMaxConns: envInt("DB_POOL_MAX_CONNS", 10),
		DBPoolMaxLife:  time.Duration(envInt("DB_POOL_MAX_LIFE_MINUTES", 30)) * time.Minute,

		APIHost:     envOr("API_HOST", "0.0.0.0"),
		APIPort:     envInt("API_PORT", envInt("PORT", 8000)),
		Environment: envOr("ENVIRONMENT", "development"),
		Debug:       envBool("DEBUG", false),

		CORSAllowOrigins: envList("CORS_ALLOW_ORIGINS", []string{
			"http://localhost:3000",
			"http://localhost:5173",
		}),

		RateLimitEnabled:  envBool("RATE_LIMIT_ENABLED", true),
		RateLimitRequests: envInt("RATE_LIMIT_REQUESTS", 100),
		RateLimitWindow:   time.Duration(envInt("RATE_LIMIT_WINDOW", 60)) * time.Second,

		CacheEnabled: envBool("CACHE_ENABLED", true),
		CacheTTL:     time.Duration(envInt("CACHE_TTL_SECONDS", 300)) * time.Second,

		ScenarioGapLimit:     envInt("SCENARIO_GAP_LIMIT", 3),
		ScenarioComboCeiling: envInt("SCENARIO_COMBO_CEILING", 10),
		HomeAdvantage:        envFloat("HOME_ADVANTAGE", 0.3),
		ForecastSimRuns:      envInt("FORECAST_SIM_RUNS", 2000),
		ForecastWorkers:      envInt("FORECAST_WORKERS", 4),

		AdminToken: envOr("ADMIN_TOKEN", ""),

		JobTTL: time.Duration(envInt("JOB_TTL_MINUTES", 15)) * time.Minute,
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks cross-field constraints.
func (c *Config) Validate() error {
	switch c.DataSource {
	case SourceFile:
		if c.DataDir == "" {
			return fmt.Errorf("DATA_DIR must be set when DATA_SOURCE=file")
		}
	case SourcePostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL must be set when DATA_SOURCE=postgres")
		}
	default:
		return fmt.Errorf("DATA_SOURCE must be %q or %q, got %q", SourceFile, SourcePostgres, c.DataSource)
	}
	if c.ScenarioGapLimit < 0 {
		return fmt.Errorf("SCENARIO_GAP_LIMIT must not be negative")
	}
	if c.ScenarioComboCeiling < 1 || c.ScenarioComboCeiling > 15 {
		return fmt.Errorf("SCENARIO_COMBO_CEILING must be between 1 and 15, got %d", c.ScenarioComboCeiling)
	}
	return nil
}

// IsProduction returns true if running in production environment.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// UsesPostgres reports whether the league data lives in Postgres.
func (c *Config) UsesPostgres() bool {
	return c.DataSource == SourcePostgres
}

// --------------------------------------------------------------------------
// Env helpers
// --------------------------------------------------------------------------

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return fallback
}

func envList(key string, fallback []string) []string {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		result := make([]string, 0, len(parts))
		for _, p := range parts {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				result = append(result, trimmed)
			}
		}
		if len(result) > 0 {
			return result
		}
	}
	return fallback
}
