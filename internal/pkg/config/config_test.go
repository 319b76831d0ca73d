package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(context.Background(), filepath.Join(t.TempDir(), "missing.env"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Port != "8080" || cfg.Store.Driver != StoreMemory || cfg.Session.CookieName != "portal_sid" {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.Session.SweepInterval != 10*time.Minute || cfg.Session.InFlightTTL != 2*time.Minute {
		t.Fatalf("unexpected session timers %+v", cfg.Session)
	}
	if cfg.Session.TTL != 12*time.Hour || cfg.DispatchWorkers != 4 {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if !cfg.IsDevelopment() {
		t.Fatalf("expected development by default")
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("STORE_DRIVER", "redis")
	t.Setenv("SESSION_TTL", "30m")
	t.Setenv("BACKEND_URL", "https://school.example/api/")

	cfg, err := Load(context.Background(), filepath.Join(t.TempDir(), "missing.env"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Store.Driver != StoreRedis || cfg.Session.TTL != 30*time.Minute || cfg.BackendURL != "https://school.example/api/" {
		t.Fatalf("overrides not applied: %+v", cfg)
	}
}

func TestLoad_DotEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.env")
	if err := os.WriteFile(path, []byte("COOKIE_NAME=sid_from_file\n"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	t.Setenv("COOKIE_NAME", "")
	os.Unsetenv("COOKIE_NAME")

	cfg, err := Load(context.Background(), path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Session.CookieName != "sid_from_file" {
		t.Fatalf("expected value from .env, got %q", cfg.Session.CookieName)
	}
}

func TestLoad_InvalidDriver(t *testing.T) {
	t.Setenv("STORE_DRIVER", "sqlite")

	if _, err := Load(context.Background(), filepath.Join(t.TempDir(), "missing.env")); err == nil {
		t.Fatalf("expected validation error")
	}
}
