package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("APP_MODE", "dev")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load error: %v", err)
	}
	if cfg.Port != "3000" {
		t.Fatalf("expected default port 3000, got %s", cfg.Port)
	}
	if cfg.Session.TTL != 24*time.Hour {
		t.Fatalf("expected 24h session TTL, got %s", cfg.Session.TTL)
	}
	if cfg.Session.CookieName != "session_token" {
		t.Fatalf("expected default cookie name, got %s", cfg.Session.CookieName)
	}
	if !cfg.IsDev() || cfg.IsProd() {
		t.Fatal("expected dev mode")
	}
	if cfg.GetAllowedOrigins() != "*" {
		t.Fatalf("expected wildcard origins in dev, got %q", cfg.GetAllowedOrigins())
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("APP_MODE", "prod")
	t.Setenv("PORT", "8080")
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("DB_NAME", "collections")
	t.Setenv("SESSION_TTL_HOURS", "12")
	t.Setenv("ADMIN_USERNAME", "root-admin")
	t.Setenv("ALLOWED_ORIGINS", "https://collections.example.com")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load error: %v", err)
	}
	if cfg.Port != "8080" {
		t.Fatalf("expected PORT override, got %s", cfg.Port)
	}
	if cfg.Database.Host != "db.internal" {
		t.Fatalf("expected DB_HOST override, got %s", cfg.Database.Host)
	}
	if cfg.Database.DBName != "collections" {
		t.Fatalf("expected DB_NAME override, got %s", cfg.Database.DBName)
	}
	if cfg.Session.TTL != 12*time.Hour {
		t.Fatalf("expected SESSION_TTL_HOURS override, got %s", cfg.Session.TTL)
	}
	if cfg.Admin.Username != "root-admin" {
		t.Fatalf("expected ADMIN_USERNAME override, got %s", cfg.Admin.Username)
	}
	if cfg.GetAllowedOrigins() != "https://collections.example.com" {
		t.Fatalf("unexpected origins: %q", cfg.GetAllowedOrigins())
	}
	if !cfg.Session.CookieSecure {
		t.Fatal("expected secure cookies in prod by default")
	}
}

func TestLoadRejectsBadMode(t *testing.T) {
	t.Setenv("APP_MODE", "staging")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for invalid APP_MODE")
	}
}
