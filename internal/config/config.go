package config

import (
	"fmt"
	"os"

	"github.com/Brayaaan/Finbot/internal/logger"
)

type Config struct {
	// HTTP Configuration
	Addr string

	// Backup Configuration
	BackupDir string

	// PDF Font Configuration
	FontDir string

	// Logging Configuration
	LogLevel      string
	LogFormat     string
	LogTimeFormat string
	LogOutput     string
}

func Load() (*Config, error) {
	config := &Config{
		Addr:          getEnv("FINBOT_ADDR", ":8000"),
		BackupDir:     getEnv("BACKUP_DIR", "backups"),
		FontDir:       getEnv("FONT_DIR", "fonts"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		LogFormat:     getEnv("LOG_FORMAT", "console"),
		LogTimeFormat: getEnv("LOG_TIME_FORMAT", "2006-01-02T15:04:05Z07:00"),
		LogOutput:     getEnv("LOG_OUTPUT", "stdout"),
	}

	if err := config.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return config, nil
}

func (c *Config) validate() error {
	if c.Addr == "" {
		return fmt.Errorf("FINBOT_ADDR must not be empty")
	}
	if c.BackupDir == "" {
		return fmt.Errorf("BACKUP_DIR must not be empty")
	}
	return nil
}

// GetLoggerConfig returns a logger configuration from the main config
func (c *Config) GetLoggerConfig() logger.LogConfig {
	return logger.LogConfig{
		Level:      c.LogLevel,
		Format:     c.LogFormat,
		TimeFormat: c.LogTimeFormat,
		Output:     c.LogOutput,
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
