package config

import (
	"fmt"
	"os"
	"time"
)

type Config struct {
	ListenAddr string
	Backend    string
	APIKey     string
	Model      string
	LogLevel   string
	LogFile    string
	SessionTTL time.Duration
}

func Load() *Config {
	return &Config{
		ListenAddr: getEnv("LISTEN_ADDR", ":8080"),
		Backend:    getEnv("DESCRIBER_BACKEND", "gemini"),
		APIKey:     getEnv("API_KEY", ""),
		Model:      getEnv("MODEL", ""),
		LogLevel:   getEnv("LOG_LEVEL", "info"),
		LogFile:    getEnv("LOG_FILE", ""),
		SessionTTL: getDurationEnv("SESSION_TTL", 30*time.Minute),
	}
}

// Validate reports startup preconditions. A missing API key is fatal at
// startup, never a per-request error.
func (c *Config) Validate() error {
	if c.APIKey == "" {
		return fmt.Errorf("API_KEY is required")
	}
	switch c.Backend {
	case "gemini", "claude":
	default:
		return fmt.Errorf("unknown DESCRIBER_BACKEND %q (want gemini or claude)", c.Backend)
	}
	if c.SessionTTL <= 0 {
		return fmt.Errorf("SESSION_TTL must be positive")
	}
	return nil
}

func getEnv(key, defaultVal string) string {
	if val, exists := os.LookupEnv(key); exists {
		return val
	}
	return defaultVal
}

func getDurationEnv(key string, defaultVal time.Duration) time.Duration {
	val, exists := os.LookupEnv(key)
	if !exists {
		return defaultVal
	}
	d, err := time.ParseDuration(val)
	if err != nil {
		return defaultVal
	}
	return d
}
