package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	API     APIConfig
	Session SessionConfig
	Log     LogConfig
}

type APIConfig struct {
	BaseURL        string
	CSRFToken      string
	Timeout        time.Duration
	MaxConcurrency int // concurrent requests per flush phase
	UserAgent      string
}

type SessionConfig struct {
	TTL           time.Duration
	SweepSchedule string // cron expression for the session janitor
}

type LogConfig struct {
	Level       string
	Format      string // json, console
	EnableColor bool
}

func Load() (*Config, error) {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	config := &Config{
		API: APIConfig{
			BaseURL:        getEnv("CATALOG_API_BASE_URL", "http://localhost:5000"),
			CSRFToken:      getEnv("CATALOG_API_CSRF_TOKEN", ""),
			Timeout:        parseDuration(getEnv("CATALOG_API_TIMEOUT", "30s"), 30*time.Second),
			MaxConcurrency: parseInt(getEnv("CATALOG_API_MAX_CONCURRENCY", "4"), 4),
			UserAgent:      getEnv("CATALOG_API_USER_AGENT", "catalog-staging/1.0"),
		},
		Session: SessionConfig{
			TTL:           parseDuration(getEnv("SESSION_TTL", "2h"), 2*time.Hour),
			SweepSchedule: getEnv("SESSION_SWEEP_SCHEDULE", "*/10 * * * *"),
		},
		Log: LogConfig{
			Level:       getEnv("LOG_LEVEL", "info"),
			Format:      getEnv("LOG_FORMAT", "console"),
			EnableColor: getEnv("LOG_COLOR", "true") == "true",
		},
	}

	if config.API.MaxConcurrency < 1 {
		config.API.MaxConcurrency = 1
	}

	return config, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseDuration(s string, defaultValue time.Duration) time.Duration {
	duration, err := time.ParseDuration(s)
	if err != nil {
		log.Printf("Invalid duration %s, using default %s", s, defaultValue)
		return defaultValue
	}
	return duration
}

func parseInt(s string, defaultValue int) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		log.Printf("Invalid integer %s, using default %d", s, defaultValue)
		return defaultValue
	}
	return n
}
