package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoadFile_EnvOverridesYAML(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	yamlContent := `
port: "8000"
env: "test"
database:
  host: "db.example.com"
  port: 5432
  user: "testuser"
  database: "testdb"
workflow:
  strict_transitions: true
`
	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	os.Unsetenv("PGHOST")
	os.Unsetenv("BASE_URL")

	t.Setenv("PORT", "9000")
	t.Setenv("ENVIRONMENT", "production")
	t.Setenv("JWT_SECRET", "test-secret")

	cfg, err := LoadFile(configPath, "test-version")
	if err != nil {
		t.Fatalf("LoadFile() failed: %v", err)
	}

	if cfg.Port != "9000" {
		t.Errorf("expected Port=9000 (from env), got %s", cfg.Port)
	}
	if cfg.Env != "production" {
		t.Errorf("expected Env=production (from env), got %s", cfg.Env)
	}
	if cfg.Version != "test-version" {
		t.Errorf("expected Version=test-version, got %s", cfg.Version)
	}
	if cfg.BaseURL != "http://localhost:9000" {
		t.Errorf("expected BaseURL auto-derived from PORT, got %s", cfg.BaseURL)
	}
	if cfg.Database.Host != "db.example.com" {
		t.Errorf("expected Database.Host=db.example.com (from yaml), got %s", cfg.Database.Host)
	}
	if !cfg.Workflow.StrictTransitions {
		t.Error("expected strict_transitions from yaml to be true")
	}
	if cfg.Auth.SessionSecret != "test-secret" {
		t.Errorf("expected session secret to fall back to JWT secret, got %q", cfg.Auth.SessionSecret)
	}
}

func TestLoadFile_MissingFileUsesEnvironment(t *testing.T) {
	t.Setenv("JWT_SECRET", "env-only")
	t.Setenv("PGDATABASE", "from_env")

	cfg, err := LoadFile(filepath.Join(t.TempDir(), "absent.yaml"), "dev")
	if err != nil {
		t.Fatalf("LoadFile() failed: %v", err)
	}

	if cfg.Database.Database != "from_env" {
		t.Errorf("expected database from env, got %s", cfg.Database.Database)
	}
	if cfg.APIPrefix != "/api/v1" {
		t.Errorf("expected default API prefix, got %s", cfg.APIPrefix)
	}
	if cfg.Workflow.StrictTransitions {
		t.Error("expected strict transitions to default to false")
	}
	if cfg.Auth.TokenTTL() != 8*24*time.Hour {
		t.Errorf("expected 8 day token TTL, got %s", cfg.Auth.TokenTTL())
	}
}

func TestLoadFile_RequiresJWTSecret(t *testing.T) {
	os.Unsetenv("JWT_SECRET")

	_, err := LoadFile(filepath.Join(t.TempDir(), "absent.yaml"), "dev")
	if err == nil {
		t.Fatal("expected error when JWT_SECRET is missing")
	}
	if !strings.Contains(err.Error(), "JWT_SECRET") {
		t.Errorf("expected error to mention JWT_SECRET, got %v", err)
	}
}

func TestDatabaseConfig_ConnectionString(t *testing.T) {
	cfg := DatabaseConfig{
		Host:     "localhost",
		Port:     5433,
		User:     "campaign",
		Password: "p@ss word",
		Database: "campaign_engine",
		SSLMode:  "disable",
	}

	got := cfg.ConnectionString()

	if !strings.HasPrefix(got, "postgres://campaign:") {
		t.Errorf("unexpected scheme/user in %s", got)
	}
	if !strings.Contains(got, "@localhost:5433/campaign_engine") {
		t.Errorf("expected host, port and database in %s", got)
	}
	if strings.Contains(got, "p@ss word") {
		t.Errorf("expected password to be escaped in %s", got)
	}
	if !strings.HasSuffix(got, "sslmode=disable") {
		t.Errorf("expected sslmode in %s", got)
	}
}
