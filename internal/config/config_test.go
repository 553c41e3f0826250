package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

var envKeys = []string{
	"APP_ENV", "PORT", "API_PREFIX", "CORS_ORIGINS", "DB_DSN",
	"JWT_SECRET", "TOKEN_TTL", "LOG_LEVEL", "LOG_FORMAT", "APP_NAME",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range envKeys {
		t.Setenv(k, "")
	}
}

func TestLoad_DefaultsInDev(t *testing.T) {
	clearEnv(t)
	t.Setenv("APP_ENV", "dev")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.Server.Port != 8080 || cfg.Addr() != ":8080" {
		t.Fatalf("unexpected port %d", cfg.Server.Port)
	}
	if cfg.Auth.TokenTTL != 7*24*time.Hour {
		t.Fatalf("unexpected ttl %s", cfg.Auth.TokenTTL)
	}
	if !cfg.Auth.DevSecret || cfg.Auth.JWTSecret == "" {
		t.Fatalf("expected dev secret fallback")
	}
	if len(cfg.Server.CORSOrigins) != 1 || cfg.Server.CORSOrigins[0] != "*" {
		t.Fatalf("unexpected origins %v", cfg.Server.CORSOrigins)
	}
	if cfg.Server.APIPrefix != "" {
		t.Fatalf("expected empty prefix, got %q", cfg.Server.APIPrefix)
	}
}

func TestLoad_RequiresSecretOutsideDev(t *testing.T) {
	clearEnv(t)

	if _, err := Load(""); !errors.Is(err, ErrMissingSecret) {
		t.Fatalf("expected ErrMissingSecret, got %v", err)
	}
}

func TestLoad_YAMLThenEnvOverrides(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	yml := []byte(`
server:
  port: 9000
  api_prefix: api/
  cors_origins: ["http://localhost:3000"]
database:
  dsn: postgres://from-yaml
auth:
  jwt_secret: yaml-secret
  token_ttl: 1h
`)
	if err := os.WriteFile(path, yml, 0o600); err != nil {
		t.Fatalf("write yaml: %v", err)
	}

	t.Setenv("PORT", "9100")
	t.Setenv("CORS_ORIGINS", "http://a.test, http://b.test")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.Server.Port != 9100 {
		t.Fatalf("env should override yaml port, got %d", cfg.Server.Port)
	}
	if cfg.Server.APIPrefix != "/api" {
		t.Fatalf("expected normalized prefix, got %q", cfg.Server.APIPrefix)
	}
	if len(cfg.Server.CORSOrigins) != 2 || cfg.Server.CORSOrigins[1] != "http://b.test" {
		t.Fatalf("unexpected origins %v", cfg.Server.CORSOrigins)
	}
	if cfg.Database.DSN != "postgres://from-yaml" || cfg.Auth.JWTSecret != "yaml-secret" {
		t.Fatalf("expected yaml values, got %#v", cfg)
	}
	if cfg.Auth.TokenTTL != time.Hour || cfg.Auth.DevSecret {
		t.Fatalf("unexpected auth config %#v", cfg.Auth)
	}
}

func TestLoad_BadDuration(t *testing.T) {
	clearEnv(t)
	t.Setenv("JWT_SECRET", "s")
	t.Setenv("TOKEN_TTL", "a week")

	if _, err := Load(""); err == nil {
		t.Fatalf("expected error for invalid TOKEN_TTL")
	}
}
