package infrastructure

import (
	"errors"
	"testing"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("OPENROUTER_API_KEY", "test-key")
	t.Setenv("DATABASE_DSN", "postgres://localhost/test")
	t.Setenv("ENABLE_MAIL", "false")
}

func TestLoadDefaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Port != "8080" {
		t.Errorf("unexpected default port: %q", cfg.Port)
	}
	if cfg.SlugPrefix != "chain-daily" {
		t.Errorf("unexpected default slug prefix: %q", cfg.SlugPrefix)
	}
	if cfg.WindowHours != 24 || cfg.MinContentLength != 30 {
		t.Errorf("unexpected filter defaults: %d / %d", cfg.WindowHours, cfg.MinContentLength)
	}
	if cfg.MaxIllustrations != 5 || cfg.IllustrationRetries != 3 {
		t.Errorf("unexpected illustration defaults: %d / %d", cfg.MaxIllustrations, cfg.IllustrationRetries)
	}
	if !cfg.EnableSynthesis || !cfg.EnableIllustrations {
		t.Error("synthesis and illustrations default to enabled")
	}
}

func TestLoadMissingAPIKey(t *testing.T) {
	t.Setenv("OPENROUTER_API_KEY", "")
	t.Setenv("DATABASE_DSN", "postgres://localhost/test")

	_, err := Load()
	var cfgErr *ConfigError
	if !errors.As(err, &cfgErr) || cfgErr.Field != "OPENROUTER_API_KEY" {
		t.Fatalf("expected OPENROUTER_API_KEY config error, got %v", err)
	}
}

func TestLoadMailValidation(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("ENABLE_MAIL", "true")
	t.Setenv("SMTP_HOST", "")

	_, err := Load()
	var cfgErr *ConfigError
	if !errors.As(err, &cfgErr) || cfgErr.Field != "SMTP_HOST" {
		t.Fatalf("expected SMTP_HOST config error, got %v", err)
	}

	t.Setenv("SMTP_HOST", "smtp.example.com")
	t.Setenv("MAIL_FROM", "bot@example.com")
	t.Setenv("MAIL_TO", "a@example.com, b@example.com")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cfg.MailTo) != 2 || cfg.MailTo[1] != "b@example.com" {
		t.Errorf("recipient list not parsed: %v", cfg.MailTo)
	}
}

func TestLoadRejectsZeroIllustrationCap(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("MAX_ILLUSTRATIONS", "0")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for zero illustration cap")
	}
}
