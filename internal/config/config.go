package config

import (
	"os"
	"strconv"

	"lawatlas/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Data     DataConfig
	Database DatabaseConfig
	Server   ServerConfig
}

// DataConfig holds ingestion settings
type DataConfig struct {
	// WorkbookDir is the directory of source spreadsheets.
	WorkbookDir string
	// RubricFile is an optional YAML rubric path; empty means the built-in
	// default rubric.
	RubricFile string
	// Parallelism bounds concurrent per-workbook processing.
	Parallelism int
}

// DatabaseConfig holds dataset persistence settings
type DatabaseConfig struct {
	// DSN selects the store: postgres:// URLs use Postgres, anything else
	// is treated as a SQLite file path. Empty disables persistence.
	DSN string
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port    string
	OpsPort string
	GinMode string
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	config := &Config{
		Data: DataConfig{
			WorkbookDir: getEnvOrDefault("WORKBOOK_DIR", "./data"),
			RubricFile:  getEnvOrDefault("RUBRIC_FILE", ""),
			Parallelism: getEnvIntOrDefault("INGEST_PARALLELISM", 4),
		},
		Database: DatabaseConfig{
			DSN: getEnvOrDefault("DATABASE_DSN", ""),
		},
		Server: ServerConfig{
			Port:    getEnvOrDefault("PORT", "8080"),
			OpsPort: getEnvOrDefault("OPS_PORT", "8081"),
			GinMode: getEnvOrDefault("GIN_MODE", "debug"),
		},
	}

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}
	return config, nil
}

func validateConfig(config *Config) error {
	if config.Data.WorkbookDir == "" {
		return errors.ConfigInvalid("workbook directory is required")
	}
	if config.Data.Parallelism < 1 {
		return errors.ConfigInvalid("INGEST_PARALLELISM must be at least 1")
	}
	return nil
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
