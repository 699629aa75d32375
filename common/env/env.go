package env

import (
	"os"
	"strconv"
	"time"
)

// Get returns the environment variable for key or defaultValue when unset or empty.
func Get(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// GetInt returns the environment variable for key parsed as an int,
// or defaultValue when unset or unparseable.
func GetInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

// GetDuration returns the environment variable for key parsed as a
// time.Duration, or defaultValue when unset or unparseable.
func GetDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
