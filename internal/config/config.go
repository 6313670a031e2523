// Package config handles configuration loading and management
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the application configuration
type Config struct {
	StorePath      string
	ExportDir      string
	RequestTimeout time.Duration
	Workers        int
}

// Load reads configuration from environment variables and .env file
func Load() (*Config, error) {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		// It's okay if the file doesn't exist
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("error loading .env file: %w", err)
		}
	}

	cfg := &Config{
		StorePath: getEnv("LLMCHECK_STORE", DefaultStorePath),
		ExportDir: getEnv("LLMCHECK_EXPORT_DIR", DefaultExportDir),
	}

	timeoutSecs, err := strconv.Atoi(getEnv("LLMCHECK_REQUEST_TIMEOUT", "30"))
	if err != nil {
		return nil, fmt.Errorf("invalid LLMCHECK_REQUEST_TIMEOUT: %w", err)
	}
	cfg.RequestTimeout = time.Duration(timeoutSecs) * time.Second

	workers, err := strconv.Atoi(getEnv("LLMCHECK_WORKERS", "50"))
	if err != nil {
		return nil, fmt.Errorf("invalid LLMCHECK_WORKERS: %w", err)
	}
	cfg.Workers = workers

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func (c *Config) String() string {
	workersDisplay := strconv.Itoa(c.Workers)
	if c.Workers <= 0 {
		workersDisplay = "(unbounded)"
	}

	return fmt.Sprintf(`Current Configuration:
======================
Provider Store:   %s
Export Directory: %s
Request Timeout:  %s
Max Workers:      %s`,
		c.StorePath,
		c.ExportDir,
		c.RequestTimeout,
		workersDisplay,
	)
}
