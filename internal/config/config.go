package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Secrets are the two required credentials, read once at process start.
// Either missing is fatal: the caller logs which one and exits non-zero.
type Secrets struct {
	TelegramToken string `env:"TELEGRAM_TOKEN,required,notEmpty"`
	GeminiAPIKey  string `env:"GEMINI_API_KEY,required,notEmpty"`
}

// Config holds the non-secret tunables. All fields have working defaults;
// an optional YAML file overrides them.
type Config struct {
	General  GeneralConfig  `yaml:"general"`
	Gemini   GeminiConfig   `yaml:"gemini"`
	Telegram TelegramConfig `yaml:"telegram"`
}

type GeneralConfig struct {
	LogLevel              string `yaml:"logLevel"`
	MaxConcurrentMessages int    `yaml:"maxConcurrentMessages"`
}

type GeminiConfig struct {
	Model string `yaml:"model"`
}

type TelegramConfig struct {
	ParseMode string   `yaml:"parseMode"`
	AllowFrom []string `yaml:"allowFrom"` // user IDs; empty = allow all
	DiskPath  string   `yaml:"diskPath"`  // mount point reported by /status
}

// LoadSecrets reads the required credentials from the environment. A .env
// file in the working directory is loaded first when present.
func LoadSecrets() (*Secrets, error) {
	_ = godotenv.Load()

	var s Secrets
	if err := env.Parse(&s); err != nil {
		return nil, fmt.Errorf("load secrets: %w", err)
	}
	return &s, nil
}

// Defaults returns the built-in configuration.
func Defaults() *Config {
	return &Config{
		General: GeneralConfig{
			LogLevel:              "info",
			MaxConcurrentMessages: 5,
		},
		Gemini: GeminiConfig{
			Model: "gemini-2.5-flash",
		},
		Telegram: TelegramConfig{
			ParseMode: "Markdown",
			DiskPath:  "/",
		},
	}
}

// Load reads the optional YAML config at path on top of Defaults().
// An empty path returns Defaults() unchanged.
func Load(path string) (*Config, error) {
	cfg := Defaults()
	if path == "" {
		if err := Validate(cfg); err != nil {
			return nil, err
		}
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("cannot parse config file %s: %w", path, err)
	}
	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}
	return cfg, nil
}

// Validate checks that the config has valid values.
func Validate(cfg *Config) error {
	var errs []string

	switch cfg.General.LogLevel {
	case "debug", "info", "warn", "error":
		// valid
	default:
		errs = append(errs, "general.logLevel must be one of: debug, info, warn, error")
	}
	if cfg.General.MaxConcurrentMessages < 1 || cfg.General.MaxConcurrentMessages > 100 {
		errs = append(errs, "general.maxConcurrentMessages must be between 1 and 100")
	}
	if cfg.Gemini.Model == "" {
		errs = append(errs, "gemini.model must not be empty")
	}
	switch cfg.Telegram.ParseMode {
	case "", "Markdown", "MarkdownV2", "HTML":
		// valid
	default:
		errs = append(errs, "telegram.parseMode must be one of: Markdown, MarkdownV2, HTML, or empty")
	}
	if cfg.Telegram.DiskPath == "" {
		errs = append(errs, "telegram.diskPath must not be empty")
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation errors:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}
