package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	// Server
	Port string

	// Database
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// JWT
	JWTSecret        string
	JWTExpirationDur time.Duration

	// Market data
	AlphaVantageAPIKey string
	QuoteCacheTTL      time.Duration
	QuoteRatePerMinute int
	PriceRefreshCron   string

	// News
	NewsAPIKey     string
	NewsCacheTTL   time.Duration
	NewsDailyLimit int
}

var appConfig *Config

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if not already loaded
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	config := &Config{
		// Server
		Port: getEnv("PORT", "8080"),

		// Database
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "kapital"),
		DBPassword: getEnv("DB_PASSWORD", "kapital"),
		DBName:     getEnv("DB_NAME", "kapital"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),

		// JWT
		JWTSecret:        getEnv("JWT_SECRET", "fallback-secret-key-for-dev-only"),
		JWTExpirationDur: getDurationEnv("JWT_EXPIRES_IN", 24*time.Hour),

		// Market data
		AlphaVantageAPIKey: getEnv("ALPHA_VANTAGE_API_KEY", "demo"),
		QuoteCacheTTL:      getDurationEnv("QUOTE_CACHE_TTL", 5*time.Minute),
		QuoteRatePerMinute: getIntEnv("QUOTE_RATE_PER_MINUTE", 60),
		PriceRefreshCron:   getEnv("PRICE_REFRESH_CRON", "0 18 * * 1-5"),

		// News
		NewsAPIKey:     getEnv("NEWS_API_KEY", ""),
		NewsCacheTTL:   getDurationEnv("NEWS_CACHE_TTL", 24*time.Hour),
		NewsDailyLimit: getIntEnv("NEWS_DAILY_LIMIT", 200),
	}

	appConfig = config
	return config, nil
}

// Get returns the application configuration
func Get() *Config {
	if appConfig == nil {
		var err error
		appConfig, err = Load()
		if err != nil {
			log.Fatalf("Failed to load configuration: %v", err)
		}
	}
	return appConfig
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getDurationEnv parses a duration environment variable, falling back to the
// default when unset or invalid.
func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		log.Printf("Warning: invalid %s value '%s', falling back to %s\n", key, raw, defaultValue)
		return defaultValue
	}
	return d
}

// getIntEnv parses an integer environment variable, falling back to the
// default when unset or invalid.
func getIntEnv(key string, defaultValue int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		log.Printf("Warning: invalid %s value '%s', falling back to %d\n", key, raw, defaultValue)
		return defaultValue
	}
	return n
}
