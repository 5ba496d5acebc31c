package utils

import (
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cast"
)

// LoadDotEnv loads variables from the given .env files into the process environment.
// Variables already set are left untouched. Missing files are ignored.
func LoadDotEnv(files ...string) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if _, err := os.Stat(f); err != nil {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			LogWarn("Failed to load env file", map[string]interface{}{"file": f, "error": err.Error()})
		}
	}
}

// Getenv retrieves the value of the environment variable named by the key.
// If the variable is not present or its value is empty, Getenv returns the fallback string.
func Getenv(key, fallback string) string {
	value := os.Getenv(key)
	if len(value) == 0 {
		return fallback
	}
	return value
}

// GetenvInt returns the variable as an int, or fallback when it is unset or malformed.
func GetenvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	n, err := cast.ToIntE(value)
	if err != nil {
		LogWarn("Invalid integer env value, using default", map[string]interface{}{"key": key, "value": value})
		return fallback
	}
	return n
}

// GetenvBool returns the variable as a bool ("1", "true", "false", ...), or fallback.
func GetenvBool(key string, fallback bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	b, err := cast.ToBoolE(value)
	if err != nil {
		LogWarn("Invalid boolean env value, using default", map[string]interface{}{"key": key, "value": value})
		return fallback
	}
	return b
}

// GetenvDuration returns the variable as a duration ("250ms", "15m"), or fallback.
func GetenvDuration(key string, fallback time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	d, err := cast.ToDurationE(value)
	if err != nil {
		LogWarn("Invalid duration env value, using default", map[string]interface{}{"key": key, "value": value})
		return fallback
	}
	return d
}

// GetenvSlice splits a comma separated variable, trimming blanks.
func GetenvSlice(key string, fallback []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}
