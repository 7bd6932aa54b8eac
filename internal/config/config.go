package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	apperrors "dataviz/internal/errors"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config represents the complete application configuration
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Logging  LoggingConfig  `yaml:"logging"`
	Dataset  DatasetConfig  `yaml:"dataset"`
	Render   RenderConfig   `yaml:"render"`
	Database DatabaseConfig `yaml:"database"`
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port           string   `yaml:"port"`
	AllowedOrigins []string `yaml:"allowed_origins"`
	MaxUploadBytes int64    `yaml:"max_upload_bytes"`
}

// LoggingConfig holds zap settings
type LoggingConfig struct {
	Level       string `yaml:"level"` // debug, info, warn, error
	Development bool   `yaml:"development"`
}

// DatasetConfig holds dataset handling settings
type DatasetConfig struct {
	PreviewRows int `yaml:"preview_rows"`
}

// RenderConfig holds chart rendering settings
type RenderConfig struct {
	PNGWidth  int `yaml:"png_width"`
	PNGHeight int `yaml:"png_height"`
	// ColorSeed seeds the frequency chart palette; 0 seeds from the clock.
	ColorSeed int64 `yaml:"color_seed"`
}

// DatabaseConfig holds the optional Postgres connection
type DatabaseConfig struct {
	URL string `yaml:"url"`
}

// DefaultConfig returns the built-in settings.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:           "8001",
			AllowedOrigins: []string{"http://localhost:3000", "http://localhost:3001", "http://localhost:3002", "http://127.0.0.1:3000"},
			MaxUploadBytes: 32 << 20,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
		Dataset: DatasetConfig{
			PreviewRows: 10,
		},
		Render: RenderConfig{
			PNGWidth:  1024,
			PNGHeight: 512,
		},
	}
}

// Load builds the configuration from defaults, the YAML file at path (skipped
// when path is empty or missing), a .env file in the working directory and
// the process environment, then validates it.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case os.IsNotExist(err):
		case err != nil:
			return nil, apperrors.Wrap(apperrors.ConfigInvalid(err.Error()), "failed to read config")
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, apperrors.Wrap(apperrors.ConfigInvalid(err.Error()), "failed to parse config")
			}
		}
	}

	// Existing environment variables win over .env entries
	_ = godotenv.Load()

	if err := cfg.applyEnvOverrides(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, apperrors.Wrap(err, "configuration validation failed")
	}
	return cfg, nil
}

// applyEnvOverrides applies environment variable overrides.
func (c *Config) applyEnvOverrides() error {
	c.Server.Port = getEnvOrDefault("PORT", c.Server.Port)
	if origins := os.Getenv("ALLOWED_ORIGINS"); origins != "" {
		c.Server.AllowedOrigins = splitList(origins)
	}
	c.Logging.Level = getEnvOrDefault("LOG_LEVEL", c.Logging.Level)
	c.Database.URL = getEnvOrDefault("DATABASE_URL", c.Database.URL)

	var err error
	if c.Logging.Development, err = getEnvBoolOrDefault("LOG_DEVELOPMENT", c.Logging.Development); err != nil {
		return err
	}
	if c.Server.MaxUploadBytes, err = getEnvInt64OrDefault("MAX_UPLOAD_BYTES", c.Server.MaxUploadBytes); err != nil {
		return err
	}
	if c.Dataset.PreviewRows, err = getEnvIntOrDefault("PREVIEW_ROWS", c.Dataset.PreviewRows); err != nil {
		return err
	}
	if c.Render.PNGWidth, err = getEnvIntOrDefault("PNG_WIDTH", c.Render.PNGWidth); err != nil {
		return err
	}
	if c.Render.PNGHeight, err = getEnvIntOrDefault("PNG_HEIGHT", c.Render.PNGHeight); err != nil {
		return err
	}
	if c.Render.ColorSeed, err = getEnvInt64OrDefault("COLOR_SEED", c.Render.ColorSeed); err != nil {
		return err
	}
	return nil
}

var validLevels = []string{"debug", "info", "warn", "error"}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return apperrors.ConfigInvalid("server port is required")
	}
	if _, err := strconv.Atoi(c.Server.Port); err != nil {
		return apperrors.ConfigInvalid(fmt.Sprintf("invalid server port: %s", c.Server.Port))
	}
	if c.Server.MaxUploadBytes <= 0 {
		return apperrors.ConfigInvalid("max upload bytes must be positive")
	}
	if c.Dataset.PreviewRows <= 0 {
		return apperrors.ConfigInvalid("preview rows must be positive")
	}
	if c.Render.PNGWidth <= 0 || c.Render.PNGHeight <= 0 {
		return apperrors.ConfigInvalid("PNG width and height must be positive")
	}

	level := strings.ToLower(c.Logging.Level)
	for _, l := range validLevels {
		if level == l {
			c.Logging.Level = level
			return nil
		}
	}
	return apperrors.ConfigInvalid(fmt.Sprintf("invalid log level: %s (valid: %v)", c.Logging.Level, validLevels))
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	i, err := strconv.Atoi(value)
	if err != nil {
		return 0, apperrors.ConfigInvalid(fmt.Sprintf("%s must be an integer, got %q", key, value))
	}
	return i, nil
}

func getEnvInt64OrDefault(key string, defaultValue int64) (int64, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	i, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0, apperrors.ConfigInvalid(fmt.Sprintf("%s must be an integer, got %q", key, value))
	}
	return i, nil
}

func getEnvBoolOrDefault(key string, defaultValue bool) (bool, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return false, apperrors.ConfigInvalid(fmt.Sprintf("%s must be a boolean, got %q", key, value))
	}
	return b, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
