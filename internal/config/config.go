package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Store drivers
const (
	StoreDriverCSV      = "csv"
	StoreDriverPostgres = "postgres"
)

type Config struct {
	// Server
	Port        int    `envconfig:"PORT" default:"5000"`
	Environment string `envconfig:"ENV" default:"development"`
	BodyLimitMB int    `envconfig:"BODY_LIMIT_MB" default:"10"`

	// Logging
	LogFile       string `envconfig:"LOG_FILE"`
	LogMaxSizeMB  int    `envconfig:"LOG_MAX_SIZE_MB" default:"100"`
	LogMaxBackups int    `envconfig:"LOG_MAX_BACKUPS" default:"3"`
	LogMaxAgeDays int    `envconfig:"LOG_MAX_AGE_DAYS" default:"7"`

	// Emotion log storage
	StoreDriver    string `envconfig:"STORE_DRIVER" default:"csv"`
	EmotionLogPath string `envconfig:"EMOTION_LOG_PATH" default:"emotion_log.csv"`
	DatabaseURL    string `envconfig:"DATABASE_URL"`

	// Provider
	EmotionProvider  string        `envconfig:"EMOTION_PROVIDER" default:"deepface"`
	DeepFaceURL      string        `envconfig:"DEEPFACE_URL" default:"http://localhost:5005"`
	DeepFaceDetector string        `envconfig:"DEEPFACE_DETECTOR" default:"opencv"`
	DeepFaceTimeout  time.Duration `envconfig:"DEEPFACE_TIMEOUT" default:"30s"`
	DeepFaceRetries  int           `envconfig:"DEEPFACE_RETRIES" default:"2"`
	AWSRegion        string        `envconfig:"AWS_REGION" default:"us-east-1"`

	// Dashboard chart
	ChartTitle  string `envconfig:"CHART_TITLE" default:"Emotion Analysis Dashboard"`
	ChartHeight string `envconfig:"CHART_HEIGHT" default:"480px"`

	// Rate limiting for /analyze (per client IP)
	RateLimitMax    int           `envconfig:"RATE_LIMIT_MAX" default:"60"`
	RateLimitWindow time.Duration `envconfig:"RATE_LIMIT_WINDOW" default:"1m"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return &cfg, nil
}

// Validate checks cross-field constraints envconfig cannot express.
func (c *Config) Validate() error {
	switch c.StoreDriver {
	case StoreDriverCSV:
		if c.EmotionLogPath == "" {
			return fmt.Errorf("EMOTION_LOG_PATH is required for the %s store", StoreDriverCSV)
		}
	case StoreDriverPostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required for the %s store", StoreDriverPostgres)
		}
	default:
		return fmt.Errorf("unknown store driver: %q (supported: %s, %s)", c.StoreDriver, StoreDriverCSV, StoreDriverPostgres)
	}

	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Port)
	}
	if c.BodyLimitMB <= 0 {
		return fmt.Errorf("BODY_LIMIT_MB must be positive, got %d", c.BodyLimitMB)
	}
	return nil
}

func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// BodyLimit returns the maximum request body size in bytes
func (c *Config) BodyLimit() int {
	return c.BodyLimitMB * 1024 * 1024
}
