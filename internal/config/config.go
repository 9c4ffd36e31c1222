package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog/log"
)

// Environment represents different deployment environments
type Environment string

const (
	EnvDevelopment Environment = "development"
	EnvTesting     Environment = "testing"
	EnvProduction  Environment = "production"
)

// Config holds the configuration for the diary service.
// Environment variables are automatically parsed from the DIARY_ prefix.
type Config struct {
	// Build target selects high-level environment: local, cloud-dev, cloud
	BuildTarget string `envconfig:"BUILD_TARGET" default:"cloud"`

	// Derived or override driver for the document store
	StoreDriver string `envconfig:"STORE_DRIVER" default:"auto"`

	Environment Environment `envconfig:"ENVIRONMENT" default:"development"`

	// HTTP Configuration
	HTTPPort int `envconfig:"HTTP_PORT" default:"8080"`

	// Firestore Configuration
	FirestoreProjectID string `envconfig:"FIRESTORE_PROJECT_ID" default:""`
	FirestoreBaseURL   string `envconfig:"FIRESTORE_BASE_URL" default:""`

	// Postgres Configuration
	PostgresDSN string `envconfig:"POSTGRES_DSN" default:""`

	// SQLite Configuration
	SQLitePath string `envconfig:"SQLITE_PATH" default:""`

	// Analysis Configuration
	DailyAnalysisLimit int    `envconfig:"DAILY_ANALYSIS_LIMIT" default:"10"`
	OpenAIAPIKey       string `envconfig:"OPENAI_API_KEY" default:""`
	OpenAIModel        string `envconfig:"OPENAI_MODEL" default:"gpt-4o-mini"`
	OpenAIBaseURL      string `envconfig:"OPENAI_BASE_URL" default:""`

	// Account merge fan-out bound
	MergeConcurrency int `envconfig:"MERGE_CONCURRENCY" default:"4"`

	// Auth Configuration
	JWTSecret string `envconfig:"JWT_SECRET" default:""`
	DevMode   bool   `envconfig:"DEV_MODE" default:"false"`
}

// ResolveDefaults validates BuildTarget and derives StoreDriver when set to "auto" or empty.
func (c *Config) ResolveDefaults() error {
	var defaultStore string

	switch c.BuildTarget {
	case "local":
		defaultStore = "sqlite"
	case "cloud-dev":
		defaultStore = "postgres"
	case "cloud":
		defaultStore = "firestore"
	default:
		return fmt.Errorf("unsupported BUILD_TARGET: %s", c.BuildTarget)
	}

	if c.StoreDriver == "" || c.StoreDriver == "auto" {
		c.StoreDriver = defaultStore
	}

	if c.StoreDriver == "sqlite" && c.SQLitePath == "" {
		c.SQLitePath = "platelog.db"
	}

	allowedStore := map[string]bool{"firestore": true, "postgres": true, "sqlite": true, "memory": true}
	if !allowedStore[c.StoreDriver] {
		return fmt.Errorf("unsupported STORE_DRIVER: %s", c.StoreDriver)
	}
	if c.DailyAnalysisLimit <= 0 {
		return fmt.Errorf("DAILY_ANALYSIS_LIMIT must be positive, got %d", c.DailyAnalysisLimit)
	}
	if c.MergeConcurrency <= 0 {
		return fmt.Errorf("MERGE_CONCURRENCY must be positive, got %d", c.MergeConcurrency)
	}
	return nil
}

// IsDevMode reports whether the service should relax auth for local work.
func (c *Config) IsDevMode() bool {
	return c.DevMode || c.Environment == EnvDevelopment
}

// New creates a new Config by parsing environment variables.
// Environment variables should be prefixed with DIARY_
// Example: DIARY_FIRESTORE_PROJECT_ID, DIARY_HTTP_PORT
func New() (*Config, error) {
	var cfg Config

	if err := envconfig.Process("DIARY", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment variables: %w", err)
	}

	if err := cfg.ResolveDefaults(); err != nil {
		return nil, err
	}

	log.Info().
		Str("build_target", cfg.BuildTarget).
		Str("store_driver", cfg.StoreDriver).
		Str("environment", string(cfg.Environment)).
		Int("port", cfg.HTTPPort).
		Int("daily_analysis_limit", cfg.DailyAnalysisLimit).
		Int("merge_concurrency", cfg.MergeConcurrency).
		Bool("postgres_dsn_present", cfg.PostgresDSN != "").
		Bool("openai_key_present", cfg.OpenAIAPIKey != "").
		Bool("dev_mode", cfg.IsDevMode()).
		Msg("Configuration loaded")

	return &cfg, nil
}

// NewForTesting creates a config specifically for testing
func NewForTesting() *Config {
	cfg := &Config{
		BuildTarget:        "local",
		Environment:        EnvTesting,
		HTTPPort:           8080,
		StoreDriver:        "memory",
		DailyAnalysisLimit: 10,
		MergeConcurrency:   4,
		OpenAIModel:        "gpt-4o-mini",
	}
	return cfg
}
