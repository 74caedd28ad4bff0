// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package config

import (
	"os"
	"strings"
	"testing"
	"time"
)

var envVars = []string{
	"APP_HOST", "APP_PORT", "APP_ENV", "LOG_LEVEL", "STORE_BACKEND",
	"POSTGRES_HOST", "POSTGRES_PORT", "POSTGRES_USER", "POSTGRES_PASSWORD", "POSTGRES_DB",
	"VALKEY_HOST", "VALKEY_PORT", "VALKEY_PASSWORD", "VALKEY_DB", "STARTUP_TIMEOUT", "TRUSTED_PROXY_HOPS",
	"SESSION_TTL", "GOOGLE_CLIENT_ID", "GOOGLE_CLIENT_SECRET", "GOOGLE_REDIRECT_URL",
	"ADMIN_EMAIL", "LEGACY_LOGIN",
	"SMTP_HOST", "SMTP_PORT", "SMTP_USER", "SMTP_PASSWORD", "NOTIFY_FROM", "NOTIFY_TO",
	"S3_ENDPOINT", "S3_REGION", "S3_ACCESS_KEY", "S3_SECRET_KEY", "S3_BUCKET", "S3_PUBLIC_URL",
	"MAX_RESUME_BYTES", "SEED", "SEED_ADMIN_USERNAME", "SEED_ADMIN_PASSWORD",
}

// clearEnv unsets every variable Load reads and restores them afterwards.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range envVars {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

// TestLoad_Defaults verifies that Load returns sensible development defaults
// when no environment variables are set.
func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned unexpected error: %v", err)
	}

	checks := map[string][2]string{
		"Host":         {cfg.Host, "0.0.0.0"},
		"Port":         {cfg.Port, "8080"},
		"Env":          {cfg.Env, "development"},
		"StoreBackend": {cfg.StoreBackend, "postgres"},
		"DBUser":       {cfg.DBUser, "portfolio"},
		"DBPassword":   {cfg.DBPassword, "changeme"},
		"ValkeyPort":   {cfg.ValkeyPort, "6379"},
	}
	for name, c := range checks {
		if c[0] != c[1] {
			t.Errorf("%s = %q, want %q", name, c[0], c[1])
		}
	}
	if cfg.SessionTTL != 24*time.Hour {
		t.Errorf("SessionTTL = %v, want 24h", cfg.SessionTTL)
	}
	if cfg.StartupTimeout != 30*time.Second || cfg.ValkeyDB != 0 {
		t.Errorf("StartupTimeout = %v, ValkeyDB = %d", cfg.StartupTimeout, cfg.ValkeyDB)
	}
	if cfg.TrustedProxyHops != 0 {
		t.Errorf("TrustedProxyHops = %d, want 0", cfg.TrustedProxyHops)
	}
	if cfg.LegacyLogin || cfg.Seed {
		t.Error("LegacyLogin and Seed must default to false")
	}
	if !cfg.IsDev() {
		t.Error("IsDev() = false, want true")
	}
	if cfg.GoogleEnabled() || cfg.SMTPEnabled() || cfg.S3Enabled() {
		t.Error("optional integrations must be disabled by default")
	}
}

func TestLoad_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("APP_PORT", "9090")
	t.Setenv("SESSION_TTL", "2h")
	t.Setenv("STORE_BACKEND", "memory")
	t.Setenv("SMTP_HOST", "smtp.example.com")
	t.Setenv("NOTIFY_TO", "me@example.com")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Addr() != "0.0.0.0:9090" {
		t.Errorf("Addr() = %q", cfg.Addr())
	}
	if cfg.SessionTTL != 2*time.Hour {
		t.Errorf("SessionTTL = %v", cfg.SessionTTL)
	}
	if !cfg.SMTPEnabled() {
		t.Error("SMTPEnabled() = false")
	}
}

func TestLoad_Rejects(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		wantErr string
	}{
		{
			name:    "unknown backend",
			env:     map[string]string{"STORE_BACKEND": "sqlite"},
			wantErr: "STORE_BACKEND",
		},
		{
			name:    "default db password in production",
			env:     map[string]string{"APP_ENV": "production", "GOOGLE_CLIENT_ID": "id", "GOOGLE_CLIENT_SECRET": "s", "ADMIN_EMAIL": "a@b.c"},
			wantErr: "POSTGRES_PASSWORD",
		},
		{
			name:    "no login method in production",
			env:     map[string]string{"APP_ENV": "production", "POSTGRES_PASSWORD": "strong"},
			wantErr: "GOOGLE_CLIENT_ID",
		},
		{
			name:    "no allowlist in production",
			env:     map[string]string{"APP_ENV": "production", "POSTGRES_PASSWORD": "strong", "GOOGLE_CLIENT_ID": "id", "GOOGLE_CLIENT_SECRET": "s"},
			wantErr: "ADMIN_EMAIL",
		},
		{
			name:    "bad duration",
			env:     map[string]string{"SESSION_TTL": "forever"},
			wantErr: "parsing config",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load()
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not mention %q", err, tt.wantErr)
			}
		})
	}
}

func TestDSN(t *testing.T) {
	cfg := &Config{DBUser: "u", DBPassword: "p", DBHost: "h", DBPort: "1", DBName: "d"}
	want := "postgres://u:p@h:1/d?sslmode=disable"
	if got := cfg.DSN(); got != want {
		t.Errorf("DSN() = %q, want %q", got, want)
	}
}
