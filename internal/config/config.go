package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	Port        string
	DatabaseURL string
	RedisURL    string
	JWTSecret   string
	LogLevel    string

	// CreditCacheTTL bounds how stale a cached credit view may be.
	CreditCacheTTL time.Duration
	// CreditLockTTL is the expiry on the per-credit mutation lock.
	CreditLockTTL time.Duration
}

// Load reads configuration from .env (when present) and the
// environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment")
	}

	cfg := &Config{
		Port:           getEnv("PORT", "8080"),
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		RedisURL:       getEnv("REDIS_URL", "redis://localhost:6379/0"),
		JWTSecret:      os.Getenv("JWT_SECRET"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		CreditCacheTTL: getEnvDuration("CREDIT_CACHE_TTL_SECONDS", 30*time.Second),
		CreditLockTTL:  getEnvDuration("CREDIT_LOCK_TTL_SECONDS", 10*time.Second),
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}
	return cfg, nil
}

func getEnv(key, defaultVal string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultVal
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	value, exists := os.LookupEnv(key)
	if !exists {
		return defaultVal
	}
	secs, err := strconv.Atoi(value)
	if err != nil || secs <= 0 {
		return defaultVal
	}
	return time.Duration(secs) * time.Second
}
