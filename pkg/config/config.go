package config

import (
	"fmt"
	"net/url"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config holds all configuration for campaign-engine.
// Configuration can come from a YAML file (config.yaml) or environment variables.
// Environment variables always override YAML values for fields that support both.
// Secrets (passwords, signing keys) must only come from environment variables.
type Config struct {
	// Server configuration
	BindAddr string `yaml:"bind_addr" env:"BIND_ADDR" env-default:"127.0.0.1"`
	Port     string `yaml:"port" env:"PORT" env-default:"8000"`
	Env      string `yaml:"env" env:"ENVIRONMENT" env-default:"local"`
	BaseURL  string `yaml:"base_url" env:"BASE_URL" env-default:""` // Auto-derived from Port if empty
	Version  string `yaml:"-"`                                      // Set at load time, not from config

	// APIPrefix is the versioned path prefix all resource routes live under.
	APIPrefix string `yaml:"api_prefix" env:"API_PREFIX" env-default:"/api/v1"`

	// CORSOrigins lists browser origins allowed to call the API. "*" allows any.
	CORSOrigins []string `yaml:"cors_origins" env:"CORS_ORIGINS" env-separator:"," env-default:"*"`

	Database DatabaseConfig `yaml:"database"`
	Auth     AuthConfig     `yaml:"auth"`
	Workflow WorkflowConfig `yaml:"workflow"`
}

// DatabaseConfig holds PostgreSQL database configuration.
type DatabaseConfig struct {
	Host           string `yaml:"host" env:"PGHOST" env-default:"localhost"`
	Port           int    `yaml:"port" env:"PGPORT" env-default:"5432"`
	User           string `yaml:"user" env:"PGUSER" env-default:"postgres"`
	Password       string `yaml:"-" env:"PGPASSWORD"` // Secret - not in YAML
	Database       string `yaml:"database" env:"PGDATABASE" env-default:"campaign_engine"`
	MaxConnections int32  `yaml:"max_connections" env:"PGMAX_CONNECTIONS" env-default:"10"`
	SSLMode        string `yaml:"ssl_mode" env:"PGSSLMODE" env-default:"disable"`

	// AutoMigrate applies pending migrations when the server starts.
	AutoMigrate bool `yaml:"auto_migrate" env:"DB_AUTO_MIGRATE" env-default:"true"`
}

// AuthConfig holds token and session settings.
type AuthConfig struct {
	// JWTSecret signs access tokens (HS256). Required.
	JWTSecret string `yaml:"-" env:"JWT_SECRET"`
	// SessionSecret signs the session cookie. Falls back to JWTSecret when empty.
	SessionSecret string `yaml:"-" env:"SESSION_SECRET"`

	Issuer          string `yaml:"issuer" env:"JWT_ISSUER" env-default:"campaign-engine"`
	TokenTTLMinutes int    `yaml:"token_ttl_minutes" env:"TOKEN_TTL_MINUTES" env-default:"11520"`
	CookieSecure    bool   `yaml:"cookie_secure" env:"COOKIE_SECURE" env-default:"false"`
}

// TokenTTL returns the access token lifetime.
func (c *AuthConfig) TokenTTL() time.Duration {
	return time.Duration(c.TokenTTLMinutes) * time.Minute
}

// WorkflowConfig controls the project workflow engine.
type WorkflowConfig struct {
	// StrictTransitions rejects stage changes that skip or regress stages.
	// Off by default: any valid stage may be set.
	StrictTransitions bool `yaml:"strict_transitions" env:"WORKFLOW_STRICT_TRANSITIONS" env-default:"false"`
}

// Load reads configuration from config.yaml with environment variable overrides.
// A missing config.yaml is not an error; defaults and environment variables apply.
func Load(version string) (*Config, error) {
	return LoadFile("config.yaml", version)
}

// LoadFile is Load with an explicit path.
func LoadFile(path, version string) (*Config, error) {
	cfg := &Config{
		Version: version,
	}

	if _, err := os.Stat(path); err == nil {
		if err := cleanenv.ReadConfig(path, cfg); err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", path, err)
		}
	} else if err := cleanenv.ReadEnv(cfg); err != nil {
		return nil, fmt.Errorf("failed to read environment: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	if cfg.BaseURL == "" {
		cfg.BaseURL = (&url.URL{
			Scheme: "http",
			Host:   "localhost:" + cfg.Port,
		}).String()
	}

	if cfg.Auth.SessionSecret == "" {
		cfg.Auth.SessionSecret = cfg.Auth.JWTSecret
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET must be set")
	}
	if c.Auth.TokenTTLMinutes <= 0 {
		return fmt.Errorf("token_ttl_minutes must be positive, got %d", c.Auth.TokenTTLMinutes)
	}
	return nil
}

// ConnectionString returns a PostgreSQL connection URL.
func (c *DatabaseConfig) ConnectionString() string {
	u := &url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     fmt.Sprintf("%s:%d", c.Host, c.Port),
		Path:     "/" + c.Database,
		RawQuery: "sslmode=" + url.QueryEscape(c.SSLMode),
	}
	return u.String()
}

// IsLocal reports whether the server runs in a developer environment.
func (c *Config) IsLocal() bool {
	return c.Env == "local"
}
