// Package config handles application configuration loading from environment
// variables. It provides a centralized Config struct used across the application.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds all application configuration values loaded from the environment.
type Config struct {
	// Server settings
	Host     string `env:"APP_HOST" envDefault:"0.0.0.0"`
	Port     string `env:"APP_PORT" envDefault:"8080"`
	Env      string `env:"APP_ENV" envDefault:"development"` // "development", "production", "testing"
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	// StoreBackend selects "postgres" or "memory".
	StoreBackend string `env:"STORE_BACKEND" envDefault:"postgres"`

	// TrustedProxyHops counts the reverse proxies whose X-Forwarded-For
	// entries are believed when keying rate limits. 0 trusts none.
	TrustedProxyHops int `env:"TRUSTED_PROXY_HOPS" envDefault:"0"`

	// StartupTimeout bounds the wait for PostgreSQL and Valkey at boot.
	StartupTimeout time.Duration `env:"STARTUP_TIMEOUT" envDefault:"30s"`

	// PostgreSQL connection
	DBHost     string `env:"POSTGRES_HOST" envDefault:"localhost"`
	DBPort     string `env:"POSTGRES_PORT" envDefault:"5432"`
	DBUser     string `env:"POSTGRES_USER" envDefault:"portfolio"`
	DBPassword string `env:"POSTGRES_PASSWORD" envDefault:"changeme"`
	DBName     string `env:"POSTGRES_DB" envDefault:"portfolio"`

	// Valkey (Redis-compatible cache)
	ValkeyHost     string `env:"VALKEY_HOST" envDefault:"localhost"`
	ValkeyPort     string `env:"VALKEY_PORT" envDefault:"6379"`
	ValkeyPassword string `env:"VALKEY_PASSWORD"`
	ValkeyDB       int    `env:"VALKEY_DB" envDefault:"0"`

	// Sessions and login
	SessionTTL         time.Duration `env:"SESSION_TTL" envDefault:"24h"`
	GoogleClientID     string        `env:"GOOGLE_CLIENT_ID"`
	GoogleClientSecret string        `env:"GOOGLE_CLIENT_SECRET"`
	GoogleRedirectURL  string        `env:"GOOGLE_REDIRECT_URL" envDefault:"http://localhost:8080/api/auth/google/callback"`
	AdminEmail         string        `env:"ADMIN_EMAIL"`
	LegacyLogin        bool          `env:"LEGACY_LOGIN" envDefault:"false"`

	// Contact notifications over SMTP
	SMTPHost     string `env:"SMTP_HOST"`
	SMTPPort     int    `env:"SMTP_PORT" envDefault:"587"`
	SMTPUser     string `env:"SMTP_USER"`
	SMTPPassword string `env:"SMTP_PASSWORD"`
	NotifyFrom   string `env:"NOTIFY_FROM"`
	NotifyTo     string `env:"NOTIFY_TO"`

	// S3-compatible storage for résumé files
	S3Endpoint     string `env:"S3_ENDPOINT"`
	S3Region       string `env:"S3_REGION" envDefault:"us-east-1"`
	S3AccessKey    string `env:"S3_ACCESS_KEY"`
	S3SecretKey    string `env:"S3_SECRET_KEY"`
	S3Bucket       string `env:"S3_BUCKET"`
	S3PublicURL    string `env:"S3_PUBLIC_URL"`
	MaxResumeBytes int64  `env:"MAX_RESUME_BYTES" envDefault:"10485760"`

	// Development seeding
	Seed              bool   `env:"SEED" envDefault:"false"`
	SeedAdminUsername string `env:"SEED_ADMIN_USERNAME" envDefault:"admin"`
	SeedAdminPassword string `env:"SEED_ADMIN_PASSWORD"`
}

// Load reads configuration from environment variables, applying defaults
// for development where appropriate. Returns an error if critical values
// are missing in production mode.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	switch cfg.StoreBackend {
	case "postgres", "memory":
	default:
		return nil, fmt.Errorf("STORE_BACKEND must be postgres or memory, got %q", cfg.StoreBackend)
	}
	if cfg.SessionTTL <= 0 {
		return nil, errors.New("SESSION_TTL must be positive")
	}

	if cfg.Env == "production" {
		if cfg.StoreBackend == "postgres" && cfg.DBPassword == "changeme" {
			return nil, errors.New("POSTGRES_PASSWORD must be set in production")
		}
		if !cfg.GoogleEnabled() && !cfg.LegacyLogin {
			return nil, errors.New("GOOGLE_CLIENT_ID and GOOGLE_CLIENT_SECRET must be set in production")
		}
		if cfg.GoogleEnabled() && cfg.AdminEmail == "" {
			return nil, errors.New("ADMIN_EMAIL must be set in production")
		}
		if cfg.Seed && cfg.SeedAdminPassword != "" {
			return nil, errors.New("SEED_ADMIN_PASSWORD must not be used in production")
		}
	}

	return cfg, nil
}

// DSN returns the PostgreSQL connection string.
func (c *Config) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName,
	)
}

// Addr returns the server listen address (host:port).
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

// IsDev returns true if the application is running in development mode.
func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// GoogleEnabled returns true if Google OAuth credentials are configured.
func (c *Config) GoogleEnabled() bool {
	return c.GoogleClientID != "" && c.GoogleClientSecret != ""
}

// SMTPEnabled returns true if contact notifications can be sent.
func (c *Config) SMTPEnabled() bool {
	return c.SMTPHost != "" && c.NotifyTo != ""
}

// S3Enabled returns true if résumé uploads can be stored.
func (c *Config) S3Enabled() bool {
	return c.S3Endpoint != "" && c.S3AccessKey != "" && c.S3SecretKey != "" && c.S3Bucket != ""
}
