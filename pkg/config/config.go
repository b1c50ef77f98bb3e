package config

import (
	"fmt"
	"os"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config holds all configuration for the sales engine.
// Configuration can come from a YAML file (config.yaml) or environment
// variables; environment variables override YAML values. The database
// password must only come from the environment.
type Config struct {
	// Server configuration
	BindAddr string `yaml:"bind_addr" env:"BIND_ADDR" env-default:"127.0.0.1"`
	Port     string `yaml:"port" env:"PORT" env-default:"5000"`
	Env      string `yaml:"env" env:"ENVIRONMENT" env-default:"local"`

	// Database configuration (PostgreSQL)
	Database DatabaseConfig `yaml:"database"`

	// Upload handling
	Upload UploadConfig `yaml:"upload"`

	// Estimation holds the review-to-sales estimation knobs. The defaults
	// are a business approximation, not ground truth; see pkg/ingest.
	Estimation EstimationConfig `yaml:"estimation"`
}

// DatabaseConfig holds PostgreSQL connection configuration.
type DatabaseConfig struct {
	// URL, when set, wins over the individual fields (hosted platforms
	// inject a single connection string).
	URL            string `yaml:"-" env:"DATABASE_URL"`
	Host           string `yaml:"host" env:"PGHOST" env-default:"localhost"`
	Port           int    `yaml:"port" env:"PGPORT" env-default:"5432"`
	User           string `yaml:"user" env:"PGUSER" env-default:"postgres"`
	Password       string `yaml:"-" env:"PGPASSWORD"` // Secret - not in YAML
	Database       string `yaml:"database" env:"PGDATABASE" env-default:"sales_analytics"`
	SSLMode        string `yaml:"ssl_mode" env:"PGSSLMODE" env-default:"disable"`
	MaxConnections int32  `yaml:"max_connections" env:"PGMAX_CONNECTIONS" env-default:"25"`
}

// ConnectionURL returns the pgx connection string.
func (c *DatabaseConfig) ConnectionURL() string {
	if c.URL != "" {
		return c.URL
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.Database, c.SSLMode)
}

// UploadConfig holds upload handling settings.
type UploadConfig struct {
	// Dir is where upload artifacts are staged before parsing. Empty means
	// the system temp directory.
	Dir string `yaml:"dir" env:"UPLOAD_DIR" env-default:""`
	// MaxSizeMB bounds the accepted multipart body.
	MaxSizeMB int64 `yaml:"max_size_mb" env:"UPLOAD_MAX_SIZE_MB" env-default:"32"`
}

// EstimationConfig tunes how product-review uploads are converted into
// sales facts.
type EstimationConfig struct {
	ReviewPurchaseRate float64 `yaml:"review_purchase_rate" env:"ESTIMATION_REVIEW_PURCHASE_RATE" env-default:"0.1"`
	DateSpreadDays     int     `yaml:"date_spread_days" env:"ESTIMATION_DATE_SPREAD_DAYS" env-default:"30"`
	DefaultRegion      string  `yaml:"default_region" env:"ESTIMATION_DEFAULT_REGION" env-default:"Online"`
}

// Load reads configuration from the given YAML file with environment
// variable overrides. A missing file is not an error; the environment and
// defaults alone then apply.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := cleanenv.ReadConfig(path, cfg); err != nil {
				return nil, fmt.Errorf("failed to read %s: %w", path, err)
			}
			return cfg, cfg.validate()
		}
	}

	if err := cleanenv.ReadEnv(cfg); err != nil {
		return nil, fmt.Errorf("failed to read environment: %w", err)
	}
	return cfg, cfg.validate()
}

func (c *Config) validate() error {
	if c.Estimation.ReviewPurchaseRate <= 0 || c.Estimation.ReviewPurchaseRate > 1 {
		return fmt.Errorf("estimation.review_purchase_rate must be in (0, 1], got %v", c.Estimation.ReviewPurchaseRate)
	}
	if c.Estimation.DateSpreadDays < 1 {
		return fmt.Errorf("estimation.date_spread_days must be at least 1, got %d", c.Estimation.DateSpreadDays)
	}
	if c.Upload.MaxSizeMB < 1 {
		return fmt.Errorf("upload.max_size_mb must be at least 1, got %d", c.Upload.MaxSizeMB)
	}
	return nil
}
