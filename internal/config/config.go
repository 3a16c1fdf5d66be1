// Package config provides configuration management functionality.
package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	DataDir  string // Base directory for the token file and cache database (always absolute)
	LogLevel string
	Port     int
	DevMode  bool

	CORSOrigins []string

	KIS   KISConfig
	Cache CacheConfig

	SymbolListPath string // Optional override of the embedded listing file

	// Cron specs (with seconds field)
	CacheCleanupSchedule     string
	CacheMaintenanceSchedule string
	TokenRefreshSchedule     string
}

// KISConfig holds the brokerage API settings
type KISConfig struct {
	BaseURL        string
	AppKey         string
	AppSecret      string
	TokenPath      string  // Relative to BaseURL
	TokenCachePath string  // JSON file holding the last access token
	CustType       string  // "P" for individual accounts
	RateLimit      float64 // Requests per second
	Timeout        time.Duration
}

// CacheConfig holds response cache settings
type CacheConfig struct {
	Enabled bool
	Path    string
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	dataDir, err := filepath.Abs(getEnv("RISKGAUGE_DATA_DIR", "./data"))
	if err != nil {
		return nil, fmt.Errorf("failed to resolve data directory path: %w", err)
	}
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	cfg := &Config{
		DataDir:     dataDir,
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		Port:        getEnvAsInt("PORT", 8000),
		DevMode:     getEnvAsBool("DEV_MODE", false),
		CORSOrigins: getEnvAsList("CORS_ORIGINS", []string{"*"}),
		KIS: KISConfig{
			// BASE_URL/APP_KEY/APP_SECRET are the names older deployments use
			BaseURL:        strings.TrimRight(getEnv("KIS_BASE_URL", getEnv("BASE_URL", "https://openapi.koreainvestment.com:9443")), "/"),
			AppKey:         getEnv("KIS_APP_KEY", getEnv("APP_KEY", "")),
			AppSecret:      getEnv("KIS_APP_SECRET", getEnv("APP_SECRET", "")),
			TokenPath:      getEnv("KIS_TOKEN_PATH", "/oauth2/token"),
			TokenCachePath: getEnv("TOKEN_CACHE_PATH", filepath.Join(dataDir, "token.json")),
			CustType:       getEnv("KIS_CUST_TYPE", "P"),
			RateLimit:      getEnvAsFloat("KIS_RATE_LIMIT", 15),
			Timeout:        getEnvAsDuration("KIS_TIMEOUT", 30*time.Second),
		},
		Cache: CacheConfig{
			Enabled: getEnvAsBool("CACHE_ENABLED", true),
			Path:    getEnv("CACHE_DB_PATH", filepath.Join(dataDir, "client_data.db")),
		},
		SymbolListPath:       getEnv("SYMBOL_LIST_PATH", ""),
		CacheCleanupSchedule:     getEnv("CACHE_CLEANUP_SCHEDULE", "0 0 * * * *"),
		CacheMaintenanceSchedule: getEnv("CACHE_MAINTENANCE_SCHEDULE", "0 30 3 * * *"),
		TokenRefreshSchedule:     getEnv("TOKEN_REFRESH_SCHEDULE", "0 */30 * * * *"),
	}

	// Validate required fields
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks if required configuration is present
func (c *Config) Validate() error {
	u, err := url.Parse(c.KIS.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid KIS base URL %q", c.KIS.BaseURL)
	}
	if c.KIS.RateLimit <= 0 {
		return fmt.Errorf("KIS_RATE_LIMIT must be positive, got %v", c.KIS.RateLimit)
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Port)
	}
	// Credentials are checked when the first token is requested so that
	// /stocks and the system endpoints work without them.
	return nil
}

// HasCredentials reports whether both app key and secret are set
func (c *Config) HasCredentials() bool {
	return c.KIS.AppKey != "" && c.KIS.AppSecret != ""
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func getEnvAsList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, v := range strings.Split(value, ",") {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
