package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application.
// All environment variables are read here and nowhere else.
type Config struct {
	// Server
	Port string
	Env  string // development, staging, production

	// Database
	Database DatabaseConfig

	// Redis
	Redis RedisConfig

	// External providers
	MarketData MarketDataConfig
	Fallback   FallbackConfig
	News       NewsConfig

	// Scanner
	Scan ScanConfig

	// Logging
	LogLevel  string
	LogFormat string

	// Monitoring
	MetricsEnabled bool
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
	Enabled  bool
}

// DatabaseConfig holds PostgreSQL configuration
type DatabaseConfig struct {
	URL     string
	Enabled bool

	// Connection pool
	MaxConns        int
	MinConns        int
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration
}

// MarketDataConfig holds the primary market-data provider configuration
type MarketDataConfig struct {
	BaseURL string
	Timeout time.Duration
}

// FallbackConfig holds the fallback fundamentals provider configuration
type FallbackConfig struct {
	BaseURL string
	Timeout time.Duration
}

// NewsConfig holds the news provider configuration
type NewsConfig struct {
	BaseURL    string
	APIKey     string
	WindowDays int
}

// ScanConfig holds pipeline tuning knobs
type ScanConfig struct {
	UniverseCap     int           // 0 means no cap
	FundamentalsTTL time.Duration // snapshot cache TTL
	StrategyFile    string        // optional YAML overriding scoring strategy
	WarmSchedule    string        // cron spec for scheduled warm scans
	DefaultLimit    int
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	loadEnvFile()

	cfg := &Config{
		Port: getEnv("PORT", "8090"),
		Env:  getEnv("ENV", "development"),

		Database: DatabaseConfig{
			URL:             getEnv("DATABASE_URL", ""),
			Enabled:         getEnvAsBool("DB_ENABLED", false),
			MaxConns:        getEnvAsInt("DB_MAX_CONNS", 10),
			MinConns:        getEnvAsInt("DB_MIN_CONNS", 2),
			MaxConnLifetime: getEnvAsDuration("DB_MAX_CONN_LIFETIME", "1h"),
			MaxConnIdleTime: getEnvAsDuration("DB_MAX_CONN_IDLE_TIME", "30m"),
		},

		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
			Enabled:  getEnvAsBool("REDIS_ENABLED", true),
		},

		MarketData: MarketDataConfig{
			BaseURL: getEnv("MARKETDATA_BASE_URL", "http://localhost:8081"),
			Timeout: getEnvAsDuration("MARKETDATA_TIMEOUT", "20s"),
		},

		Fallback: FallbackConfig{
			BaseURL: getEnv("FALLBACK_BASE_URL", "https://finviz.com"),
			Timeout: getEnvAsDuration("FALLBACK_TIMEOUT", "15s"),
		},

		News: NewsConfig{
			BaseURL:    getEnv("NEWS_BASE_URL", ""),
			APIKey:     getEnv("NEWS_API_KEY", ""),
			WindowDays: getEnvAsInt("NEWS_WINDOW_DAYS", 7),
		},

		Scan: ScanConfig{
			UniverseCap:     getEnvAsInt("SCAN_UNIVERSE_CAP", 1500),
			FundamentalsTTL: getEnvAsDuration("SCAN_FUNDAMENTALS_TTL", "6h"),
			StrategyFile:    getEnv("SCAN_STRATEGY_FILE", ""),
			WarmSchedule:    getEnv("SCAN_WARM_SCHEDULE", "30 * * * *"),
			DefaultLimit:    getEnvAsInt("SCAN_DEFAULT_LIMIT", 10),
		},

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "json"),

		MetricsEnabled: getEnvAsBool("METRICS_ENABLED", true),
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// validate checks if required configuration values are set
func (c *Config) validate() error {
	if c.Env != "development" && c.Env != "staging" && c.Env != "production" {
		return fmt.Errorf("ENV must be one of: development, staging, production")
	}

	if c.Database.Enabled && c.Database.URL == "" {
		return fmt.Errorf("DATABASE_URL is required when DB_ENABLED=true")
	}

	return nil
}

// loadEnvFile tries to load .env from multiple locations
func loadEnvFile() {
	paths := []string{
		".env",
		"backend/.env",
	}

	if exe, err := os.Executable(); err == nil {
		exeDir := filepath.Dir(exe)
		paths = append(paths,
			filepath.Join(exeDir, ".env"),
			filepath.Join(exeDir, "..", ".env"),
		)
	}

	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			_ = godotenv.Load(path)
			return
		}
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		valueStr = defaultValue
	}

	duration, err := time.ParseDuration(valueStr)
	if err != nil {
		duration, _ = time.ParseDuration(defaultValue)
	}

	return duration
}
