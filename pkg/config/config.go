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

	// Upstream data sources
	Sources SourcesConfig

	// Dataset build parameters
	Dataset DatasetConfig

	// Logging
	LogLevel  string
	LogFormat string
}

// DatabaseConfig holds PostgreSQL configuration
type DatabaseConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	URL      string

	// Connection Pool
	MaxConns        int
	MinConns        int
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
	Enabled  bool
}

// SourcesConfig holds upstream leaderboard source configuration
type SourcesConfig struct {
	SavantBaseURL    string
	FangraphsBaseURL string
	UserAgent        string
	RequestTimeout   time.Duration
	RequestsPerSec   float64
	CacheTTL         time.Duration
}

// DatasetConfig holds dataset build parameters
type DatasetConfig struct {
	StartSeason int
	EndSeason   int
	MinPA       int // minimum plate appearances for batter-seasons
	MinIP       int // minimum innings pitched for pitcher-seasons
	MinBBE      int // minimum batted ball events for Statcast leaderboards
}

// Load reads configuration from environment variables.
// This is the only function that calls os.Getenv().
func Load() (*Config, error) {
	loadEnvFile()

	cfg := &Config{
		Port: getEnv("PORT", "8090"),
		Env:  getEnv("ENV", "development"),

		Database: DatabaseConfig{
			Host:            getEnv("DB_HOST", "localhost"),
			Port:            getEnv("DB_PORT", "5432"),
			Name:            getEnv("DB_NAME", "comps"),
			User:            getEnv("DB_USER", "comps"),
			Password:        getEnv("DB_PASSWORD", ""),
			URL:             getEnv("DATABASE_URL", ""),
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

		Sources: SourcesConfig{
			SavantBaseURL:    getEnv("SAVANT_BASE_URL", "https://baseballsavant.mlb.com"),
			FangraphsBaseURL: getEnv("FANGRAPHS_BASE_URL", "https://www.fangraphs.com"),
			UserAgent:        getEnv("SOURCE_USER_AGENT", "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36"),
			RequestTimeout:   getEnvAsDuration("SOURCE_REQUEST_TIMEOUT", "60s"),
			RequestsPerSec:   getEnvAsFloat("SOURCE_REQUESTS_PER_SEC", 2.0),
			CacheTTL:         getEnvAsDuration("SOURCE_CACHE_TTL", "24h"),
		},

		Dataset: DatasetConfig{
			StartSeason: getEnvAsInt("DATASET_START_SEASON", 2021),
			EndSeason:   getEnvAsInt("DATASET_END_SEASON", time.Now().Year()),
			MinPA:       getEnvAsInt("DATASET_MIN_PA", 100),
			MinIP:       getEnvAsInt("DATASET_MIN_IP", 20),
			MinBBE:      getEnvAsInt("DATASET_MIN_BBE", 100),
		},

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "json"),
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// loadEnvFile tries to load .env from multiple candidate paths
func loadEnvFile() {
	candidates := []string{
		".env",
		"../.env",
		"../../.env",
	}

	for _, path := range candidates {
		absPath, err := filepath.Abs(path)
		if err != nil {
			continue
		}
		if _, err := os.Stat(absPath); err == nil {
			_ = godotenv.Load(absPath)
			return
		}
	}
}

// validate checks config for structural problems
func (c *Config) validate() error {
	if c.Dataset.StartSeason > c.Dataset.EndSeason {
		return fmt.Errorf("DATASET_START_SEASON %d is after DATASET_END_SEASON %d",
			c.Dataset.StartSeason, c.Dataset.EndSeason)
	}
	if c.Sources.RequestsPerSec <= 0 {
		return fmt.Errorf("SOURCE_REQUESTS_PER_SEC must be positive, got %f", c.Sources.RequestsPerSec)
	}
	return nil
}

// DatabaseDSN returns the connection string, preferring DATABASE_URL
func (c *Config) DatabaseDSN() string {
	if c.Database.URL != "" {
		return c.Database.URL
	}
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.Database.User, c.Database.Password,
		c.Database.Host, c.Database.Port, c.Database.Name,
	)
}

// IsProduction returns true when running in production
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func getEnv(key, defaultVal string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultVal
}

func getEnvAsInt(key string, defaultVal int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultVal
}

func getEnvAsFloat(key string, defaultVal float64) float64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseFloat(valueStr, 64); err == nil {
		return value
	}
	return defaultVal
}

func getEnvAsBool(key string, defaultVal bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultVal
}

func getEnvAsDuration(key string, defaultVal string) time.Duration {
	valueStr := getEnv(key, defaultVal)
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	// Fall back to parsing the default
	value, _ := time.ParseDuration(defaultVal)
	return value
}
