// Package config loads application configuration from the environment.
package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration.
type Config struct {
	// Application
	AppEnv   string
	LogLevel string

	// HTTP API
	Addr         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration

	// History persistence (optional)
	HistoryEnabled bool
	DatabaseURL    string // when set, history uses PostgreSQL
	SQLitePath     string // fallback local history store

	// Response cache (optional)
	RedisURL string
	CacheTTL time.Duration

	// Events (optional)
	RabbitMQURL string

	// MCP
	MCPAddr      string
	MCPAuthToken string
}

// Load loads configuration from environment variables, reading a .env file
// first if one exists.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		AppEnv:   getEnv("APP_ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		Addr:         getEnv("TRIAGE_ADDR", "0.0.0.0:8080"),
		ReadTimeout:  getDurationEnv("TRIAGE_READ_TIMEOUT", 15*time.Second),
		WriteTimeout: getDurationEnv("TRIAGE_WRITE_TIMEOUT", 15*time.Second),
		IdleTimeout:  getDurationEnv("TRIAGE_IDLE_TIMEOUT", 60*time.Second),

		HistoryEnabled: getBoolEnv("TRIAGE_HISTORY_ENABLED", true),
		DatabaseURL:    getEnv("DATABASE_URL", ""),
		SQLitePath:     getEnv("TRIAGE_SQLITE_PATH", defaultSQLitePath()),

		RedisURL: getEnv("REDIS_URL", ""),
		CacheTTL: getDurationEnv("TRIAGE_CACHE_TTL", 5*time.Minute),

		RabbitMQURL: getEnv("RABBITMQ_URL", ""),

		MCPAddr:      getEnv("MCP_ADDR", "0.0.0.0:8082"),
		MCPAuthToken: getEnv("MCP_AUTH_TOKEN", ""),
	}

	return cfg, nil
}

// IsDevelopment reports whether the app runs in development mode.
func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

func defaultSQLitePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "triage.db"
	}
	return home + "/.triage/history.db"
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getBoolEnv(key string, fallback bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getDurationEnv(key string, fallback time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return parsed
}
