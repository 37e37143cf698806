package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// --- Validate ---

func TestValidate_Defaults(t *testing.T) {
	if err := Validate(Defaults()); err != nil {
		t.Fatalf("expected defaults to be valid, got: %v", err)
	}
}

func TestValidate_InvalidLogLevel(t *testing.T) {
	cfg := Defaults()
	cfg.General.LogLevel = "verbose"
	if err := Validate(cfg); err == nil {
		t.Fatal("expected error for invalid log level")
	}
}

func TestValidate_ConcurrencyBounds(t *testing.T) {
	cfg := Defaults()
	cfg.General.MaxConcurrentMessages = 0
	if err := Validate(cfg); err == nil {
		t.Fatal("expected error for maxConcurrentMessages=0")
	}

	cfg = Defaults()
	cfg.General.MaxConcurrentMessages = 101
	if err := Validate(cfg); err == nil {
		t.Fatal("expected error for maxConcurrentMessages=101")
	}

	cfg = Defaults()
	cfg.General.MaxConcurrentMessages = 1
	if err := Validate(cfg); err != nil {
		t.Fatalf("maxConcurrentMessages=1 should be valid: %v", err)
	}
}

func TestValidate_EmptyModel(t *testing.T) {
	cfg := Defaults()
	cfg.Gemini.Model = ""
	if err := Validate(cfg); err == nil {
		t.Fatal("expected error for empty model")
	}
}

func TestValidate_InvalidParseMode(t *testing.T) {
	cfg := Defaults()
	cfg.Telegram.ParseMode = "BBCode"
	if err := Validate(cfg); err == nil {
		t.Fatal("expected error for invalid parse mode")
	}
}

// --- Load ---

func TestLoad_EmptyPathUsesDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load(\"\"): %v", err)
	}
	if cfg.Gemini.Model != "gemini-2.5-flash" {
		t.Errorf("model: got %q", cfg.Gemini.Model)
	}
	if cfg.General.MaxConcurrentMessages != 5 {
		t.Errorf("maxConcurrentMessages: got %d", cfg.General.MaxConcurrentMessages)
	}
}

func TestLoad_YAMLOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := `
general:
  logLevel: debug
gemini:
  model: gemini-2.5-pro
telegram:
  allowFrom: ["123", "456"]
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Gemini.Model != "gemini-2.5-pro" {
		t.Errorf("model: got %q", cfg.Gemini.Model)
	}
	if cfg.General.LogLevel != "debug" {
		t.Errorf("logLevel: got %q", cfg.General.LogLevel)
	}
	if len(cfg.Telegram.AllowFrom) != 2 {
		t.Errorf("allowFrom: got %v", cfg.Telegram.AllowFrom)
	}
	// Untouched fields keep defaults.
	if cfg.Telegram.ParseMode != "Markdown" {
		t.Errorf("parseMode default lost: got %q", cfg.Telegram.ParseMode)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("general: [not a map"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected error for invalid YAML")
	}
}

// --- LoadSecrets ---

func TestLoadSecrets_AllPresent(t *testing.T) {
	t.Setenv("TELEGRAM_TOKEN", "tg-token")
	t.Setenv("GEMINI_API_KEY", "gm-key")

	s, err := LoadSecrets()
	if err != nil {
		t.Fatalf("LoadSecrets: %v", err)
	}
	if s.TelegramToken != "tg-token" || s.GeminiAPIKey != "gm-key" {
		t.Errorf("unexpected secrets: %+v", s)
	}
}

func TestLoadSecrets_MissingKeyNamed(t *testing.T) {
	t.Setenv("TELEGRAM_TOKEN", "tg-token")
	t.Setenv("GEMINI_API_KEY", "")

	_, err := LoadSecrets()
	if err == nil {
		t.Fatal("expected error for empty GEMINI_API_KEY")
	}
	// The error must name the missing variable so startup logs are actionable.
	if !strings.Contains(err.Error(), "GEMINI_API_KEY") {
		t.Errorf("error does not name the missing variable: %v", err)
	}
}

func TestLoadSecrets_MissingTokenNamed(t *testing.T) {
	t.Setenv("TELEGRAM_TOKEN", "")
	t.Setenv("GEMINI_API_KEY", "gm-key")

	_, err := LoadSecrets()
	if err == nil {
		t.Fatal("expected error for empty TELEGRAM_TOKEN")
	}
	if !strings.Contains(err.Error(), "TELEGRAM_TOKEN") {
		t.Errorf("error does not name the missing variable: %v", err)
	}
}
