package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/jonathan/jobscout/internal/fetch"
)

// Env holds settings read from the environment (and .env, loaded in main).
type Env struct {
	DatabaseURL  string
	RedisURL     string
	LogLevel     slog.Level
	LogFile      string
	HTTPTimeout  time.Duration
	CompanyDelay time.Duration
	Concurrency  int
	Schedule     time.Duration
	ListenAddr   string
}

// LoadEnv reads runtime settings from environment variables.
func LoadEnv() Env {
	return Env{
		DatabaseURL:  getEnvString("DATABASE_URL", ""),
		RedisURL:     getEnvString("REDIS_URL", ""),
		LogLevel:     parseLogLevel(getEnvString("JOBSCOUT_LOG_LEVEL", "info")),
		LogFile:      getEnvString("JOBSCOUT_LOG_FILE", ""),
		HTTPTimeout:  getEnvDuration("JOBSCOUT_HTTP_TIMEOUT", fetch.DefaultTimeout),
		CompanyDelay: getEnvDuration("JOBSCOUT_COMPANY_DELAY", 400*time.Millisecond),
		Concurrency:  getEnvInt("JOBSCOUT_CONCURRENCY", 1),
		Schedule:     getEnvDuration("JOBSCOUT_SCHEDULE", 0),
		ListenAddr:   getEnvString("JOBSCOUT_LISTEN_ADDR", ":8080"),
	}
}

func parseLogLevel(s string) slog.Level {
	switch strings.ToUpper(s) {
	case "DEBUG":
		return slog.LevelDebug
	case "INFO":
		return slog.LevelInfo
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// getEnvString gets an environment variable as a string with a default value.
func getEnvString(key string, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt gets an environment variable as an integer with a default value.
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvDuration gets an environment variable as a duration with a default value.
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
