package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const minSessionSecretLength = 32

// Config holds the application configuration
type Config struct {
	Port                string        // Service port
	SessionSecret       string        // HS256 key for the session cookie
	SessionTTL          time.Duration // Session lifetime, cookie and backend
	SessionCookieSecure bool          // Mark the session cookie Secure
	RedisURL            string        // Session backend; empty selects in-memory
	DatabaseURL         string        // PostgreSQL store; empty selects in-memory
	AccessRoleMatch     string        // "any" or "all"
	InternalAuthSecret  string        // Enables /internal routes when set
	LoginRatePerMin     int           // POST /login budget per client IP
}

// Load reads configuration from an optional .env file and the environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	config := &Config{
		Port:               getEnv("PORT", "8080"),
		SessionSecret:      getEnv("SESSION_SECRET", ""),
		SessionTTL:         30 * time.Minute,
		RedisURL:           getEnv("REDIS_URL", ""),
		DatabaseURL:        getEnv("DATABASE_URL", ""),
		AccessRoleMatch:    strings.ToLower(getEnv("ACCESS_ROLE_MATCH", "any")),
		InternalAuthSecret: getEnv("INTERNAL_AUTH_SECRET", ""),
		LoginRatePerMin:    30,
	}

	if ttlStr := os.Getenv("SESSION_TTL"); ttlStr != "" {
		duration, err := time.ParseDuration(ttlStr)
		if err != nil {
			return nil, fmt.Errorf("invalid SESSION_TTL format: %w", err)
		}
		config.SessionTTL = duration
	}

	if secure := os.Getenv("SESSION_COOKIE_SECURE"); secure != "" {
		v, err := strconv.ParseBool(secure)
		if err != nil {
			return nil, fmt.Errorf("invalid SESSION_COOKIE_SECURE: %w", err)
		}
		config.SessionCookieSecure = v
	}

	if rateStr := os.Getenv("LOGIN_RATE_PER_MIN"); rateStr != "" {
		n, err := strconv.Atoi(rateStr)
		if err != nil {
			return nil, fmt.Errorf("invalid LOGIN_RATE_PER_MIN: %w", err)
		}
		config.LoginRatePerMin = n
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Port == "" {
		return errors.New("PORT cannot be empty")
	}

	if len(c.SessionSecret) < minSessionSecretLength {
		return fmt.Errorf("SESSION_SECRET must be at least %d bytes", minSessionSecretLength)
	}

	if c.SessionTTL <= 0 {
		return errors.New("SESSION_TTL must be positive")
	}

	switch c.AccessRoleMatch {
	case "any", "all":
	default:
		return fmt.Errorf("ACCESS_ROLE_MATCH must be any or all, got %q", c.AccessRoleMatch)
	}

	if c.LoginRatePerMin < 0 {
		return errors.New("LOGIN_RATE_PER_MIN cannot be negative")
	}

	return nil
}

// getEnv retrieves an environment variable or returns a fallback value
func getEnv(key, fallback string) string {
	// Check for _FILE suffix
	if fileValue := os.Getenv(key + "_FILE"); fileValue != "" {
		content, err := os.ReadFile(fileValue)
		if err == nil {
			return strings.TrimSpace(string(content))
		}
	}

	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
