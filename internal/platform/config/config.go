package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config carries everything the binaries read from the environment.
//
// These values are deployment-provided; local development typically supplies
// them through a .env file loaded before LoadFromEnv runs.
type Config struct {
	Port           string
	StorageBackend string
	DatabaseURL    string

	JWTSecretKey   string
	AccessTokenTTL time.Duration

	AdminUsername string
	AdminPassword string

	Mail MailConfig

	// NotifyHour is the local hour (0-23) at which the notifier sends
	// birthday emails.
	NotifyHour int
}

// MailConfig configures the outgoing SMTP transport.
type MailConfig struct {
	Server   string
	Port     int
	UseTLS   bool
	Username string
	Password string
	Sender   string
}

// Configured reports whether a mail server has been set up at all.
func (m MailConfig) Configured() bool { return m.Server != "" }

func LoadFromEnv() (Config, error) {
	cfg := Config{
		Port:           getenv("PORT", "8080"),
		StorageBackend: getenv("STORAGE_BACKEND", "memory"),
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		JWTSecretKey:   os.Getenv("JWT_SECRET_KEY"),
		AccessTokenTTL: 30 * time.Minute,
		AdminUsername:  os.Getenv("ADMIN_USERNAME"),
		AdminPassword:  os.Getenv("ADMIN_PASSWORD"),
		NotifyHour:     8,
	}

	if v := os.Getenv("ACCESS_TOKEN_EXPIRE_MINUTES"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return Config{}, fmt.Errorf("ACCESS_TOKEN_EXPIRE_MINUTES must be a positive integer, got %q", v)
		}
		cfg.AccessTokenTTL = time.Duration(n) * time.Minute
	}

	if v := os.Getenv("NOTIFY_HOUR"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 || n > 23 {
			return Config{}, fmt.Errorf("NOTIFY_HOUR must be an hour between 0 and 23, got %q", v)
		}
		cfg.NotifyHour = n
	}

	if cfg.StorageBackend == "postgres" && cfg.DatabaseURL == "" {
		return Config{}, fmt.Errorf("DATABASE_URL is required when STORAGE_BACKEND=postgres")
	}

	// Tokens must never be signed with an empty secret.
	if cfg.AdminUsername != "" && cfg.JWTSecretKey == "" {
		return Config{}, fmt.Errorf("JWT_SECRET_KEY is required when ADMIN_USERNAME is configured")
	}

	mail := MailConfig{
		Server:   os.Getenv("MAIL_SERVER"),
		Port:     587,
		UseTLS:   true,
		Username: os.Getenv("MAIL_USERNAME"),
		Password: os.Getenv("MAIL_PASSWORD"),
		Sender:   getenv("MAIL_DEFAULT_SENDER", "noreply@example.com"),
	}
	if v := os.Getenv("MAIL_PORT"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return Config{}, fmt.Errorf("MAIL_PORT must be a positive integer, got %q", v)
		}
		mail.Port = n
	}
	if v := os.Getenv("MAIL_USE_TLS"); v != "" {
		mail.UseTLS = v == "true" || v == "1" || v == "t"
	}
	cfg.Mail = mail

	return cfg, nil
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
