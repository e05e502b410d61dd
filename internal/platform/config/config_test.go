package config

import (
	"testing"
	"time"
)

func TestLoadFromEnv_Defaults(t *testing.T) {
	for _, k := range []string{
		"PORT", "STORAGE_BACKEND", "DATABASE_URL",
		"JWT_SECRET_KEY", "ADMIN_USERNAME", "ADMIN_PASSWORD",
		"ACCESS_TOKEN_EXPIRE_MINUTES", "NOTIFY_HOUR",
		"MAIL_SERVER", "MAIL_PORT", "MAIL_USE_TLS", "MAIL_DEFAULT_SENDER",
	} {
		t.Setenv(k, "")
	}

	cfg, err := LoadFromEnv()
	if err != nil {
		t.Fatalf("LoadFromEnv err=%v", err)
	}
	if cfg.Port != "8080" || cfg.StorageBackend != "memory" {
		t.Fatalf("defaults: %+v", cfg)
	}
	if cfg.AccessTokenTTL != 30*time.Minute {
		t.Fatalf("token ttl: %v", cfg.AccessTokenTTL)
	}
	if cfg.NotifyHour != 8 {
		t.Fatalf("notify hour: %d", cfg.NotifyHour)
	}
	if cfg.Mail.Port != 587 || !cfg.Mail.UseTLS || cfg.Mail.Sender != "noreply@example.com" {
		t.Fatalf("mail defaults: %+v", cfg.Mail)
	}
	if cfg.Mail.Configured() {
		t.Fatalf("mail must be unconfigured without MAIL_SERVER")
	}
}

func TestLoadFromEnv_Overrides(t *testing.T) {
	t.Setenv("PORT", "9999")
	t.Setenv("ACCESS_TOKEN_EXPIRE_MINUTES", "5")
	t.Setenv("NOTIFY_HOUR", "21")
	t.Setenv("MAIL_SERVER", "smtp.example.com")
	t.Setenv("MAIL_PORT", "465")
	t.Setenv("MAIL_USE_TLS", "false")

	cfg, err := LoadFromEnv()
	if err != nil {
		t.Fatalf("LoadFromEnv err=%v", err)
	}
	if cfg.Port != "9999" || cfg.AccessTokenTTL != 5*time.Minute || cfg.NotifyHour != 21 {
		t.Fatalf("overrides: %+v", cfg)
	}
	if !cfg.Mail.Configured() || cfg.Mail.Port != 465 || cfg.Mail.UseTLS {
		t.Fatalf("mail overrides: %+v", cfg.Mail)
	}
}

func TestLoadFromEnv_PostgresRequiresDatabaseURL(t *testing.T) {
	t.Setenv("STORAGE_BACKEND", "postgres")
	t.Setenv("DATABASE_URL", "")
	if _, err := LoadFromEnv(); err == nil {
		t.Fatalf("expected error when DATABASE_URL is missing")
	}
}

func TestLoadFromEnv_AdminRequiresJWTSecret(t *testing.T) {
	t.Setenv("ADMIN_USERNAME", "admin")
	t.Setenv("JWT_SECRET_KEY", "")
	if _, err := LoadFromEnv(); err == nil {
		t.Fatalf("expected error when JWT_SECRET_KEY is empty")
	}

	t.Setenv("JWT_SECRET_KEY", "s3cret")
	if _, err := LoadFromEnv(); err != nil {
		t.Fatalf("LoadFromEnv err=%v", err)
	}
}

func TestLoadFromEnv_RejectsBadNumbers(t *testing.T) {
	t.Setenv("ACCESS_TOKEN_EXPIRE_MINUTES", "zero")
	if _, err := LoadFromEnv(); err == nil {
		t.Fatalf("expected error for non-numeric token ttl")
	}
}
