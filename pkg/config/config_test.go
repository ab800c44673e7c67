package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	path := writeConfig(t, "environment: test\n")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.Server.Port != 8080 {
		t.Fatalf("expected default port, got %d", cfg.Server.Port)
	}
	if cfg.Provider.Default != "yahoo" {
		t.Fatalf("expected default provider yahoo, got %q", cfg.Provider.Default)
	}
	if cfg.Fetch.MaxAttempts != 3 || cfg.Fetch.RateLimitCooldown != 5*time.Second {
		t.Fatalf("unexpected fetch defaults: %+v", cfg.Fetch)
	}
	if cfg.Cache.Backend != "memory" {
		t.Fatalf("expected memory cache backend, got %q", cfg.Cache.Backend)
	}
}

func TestLoadRejectsUnknownProvider(t *testing.T) {
	path := writeConfig(t, "environment: test\nprovider:\n  default: bloomberg\n")

	if _, err := Load(path); err == nil {
		t.Fatalf("expected validation error")
	}
}

func TestLoadWithEnvOverrides(t *testing.T) {
	path := writeConfig(t, "environment: test\n")

	t.Setenv("PORT", "9090")
	t.Setenv("PROVIDER", "fmp")
	t.Setenv("ALPHA_VANTAGE_API_KEY", "secret")

	cfg, err := LoadWithEnv(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Server.Port != 9090 {
		t.Fatalf("expected env port, got %d", cfg.Server.Port)
	}
	if cfg.Provider.Default != "fmp" {
		t.Fatalf("expected env provider, got %q", cfg.Provider.Default)
	}
	if cfg.Provider.AlphaVantageKey != "secret" {
		t.Fatalf("expected env api key")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}
