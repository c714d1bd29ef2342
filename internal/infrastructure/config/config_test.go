package config

import (
	"context"
	"testing"
	"time"

	"github.com/sethvargo/go-envconfig"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := load(context.Background(), envconfig.MapLookuper(map[string]string{
		"ADMIN_EMPLOYEE_ID": "ADMIN-001",
		"JWT_SECRET":        "secret",
	}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.AdminEmployeeID != "ADMIN-001" {
		t.Errorf("expected admin id ADMIN-001, got %q", cfg.AdminEmployeeID)
	}
	if cfg.Port != "8080" {
		t.Errorf("expected port 8080, got %q", cfg.Port)
	}
	if cfg.AccessTokenTTL != 15*time.Minute {
		t.Errorf("expected access ttl 15m, got %s", cfg.AccessTokenTTL)
	}
	if cfg.RefreshTokenTTL != 7*24*time.Hour {
		t.Errorf("expected refresh ttl 168h, got %s", cfg.RefreshTokenTTL)
	}
	if cfg.StatsCacheTTL != 30*time.Second {
		t.Errorf("expected stats cache ttl 30s, got %s", cfg.StatsCacheTTL)
	}
	if cfg.Mongo.Database != "clinic" {
		t.Errorf("expected mongo db clinic, got %q", cfg.Mongo.Database)
	}
	if cfg.Redis.Addr != "localhost:6379" {
		t.Errorf("expected redis addr localhost:6379, got %q", cfg.Redis.Addr)
	}
	if cfg.SMTP.Port != 587 {
		t.Errorf("expected smtp port 587, got %d", cfg.SMTP.Port)
	}
	if cfg.IsProduction() {
		t.Error("expected development environment by default")
	}
}

func TestLoad_Overrides(t *testing.T) {
	cfg, err := load(context.Background(), envconfig.MapLookuper(map[string]string{
		"ADMIN_EMPLOYEE_ID": "ROOT",
		"JWT_SECRET":        "secret",
		"ENV":               "production",
		"ACCESS_TOKEN_TTL":  "5m",
		"REDIS_DB":          "3",
		"SMTP_HOST":         "smtp.example.com",
	}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !cfg.IsProduction() {
		t.Error("expected production environment")
	}
	if cfg.AccessTokenTTL != 5*time.Minute {
		t.Errorf("expected access ttl 5m, got %s", cfg.AccessTokenTTL)
	}
	if cfg.Redis.DB != 3 {
		t.Errorf("expected redis db 3, got %d", cfg.Redis.DB)
	}
	if cfg.SMTP.Host != "smtp.example.com" {
		t.Errorf("expected smtp host override, got %q", cfg.SMTP.Host)
	}
}

func TestLoad_RequiresAdminAndSecret(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"missing admin id", map[string]string{"JWT_SECRET": "secret"}},
		{"missing jwt secret", map[string]string{"ADMIN_EMPLOYEE_ID": "ADMIN-001"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := load(context.Background(), envconfig.MapLookuper(tt.env)); err == nil {
				t.Fatal("expected error, got nil")
			}
		})
	}
}
