package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

const (
	DefaultDatabaseURL  = "todolist.db"
	DefaultSettingsPath = "settings.toml"
	DefaultSeedURL      = "https://dummyjson.com/todos"
	DefaultSeedTimeout  = 10 * time.Second

	DriverGorm    = "gorm"
	DriverModernc = "modernc"
	DriverMemory  = "memory"
)

// Config keeps runtime settings for the application.
type Config struct {
	DatabaseURL    string
	StoreDriver    string
	SettingsPath   string
	SeedURL        string
	SeedTimeout    time.Duration
	TelegramToken  string
	OwnerChatID    int64
	HTTPAddr       string
	ReportInterval time.Duration
	ReportAt       string
	LogLevel       string
	LogFormat      string
}

// fileConfig mirrors Config in the optional TOML file.
type fileConfig struct {
	DatabaseURL         string `toml:"database_url"`
	StoreDriver         string `toml:"store_driver"`
	SettingsPath        string `toml:"settings_path"`
	SeedURL             string `toml:"seed_url"`
	SeedTimeout         string `toml:"seed_timeout"`
	TelegramToken       string `toml:"telegram_token"`
	OwnerChatID         int64  `toml:"owner_chat_id"`
	HTTPAddr            string `toml:"http_addr"`
	ReportIntervalHours int    `toml:"report_interval_hours"`
	ReportAt            string `toml:"report_at"`
	LogLevel            string `toml:"log_level"`
	LogFormat           string `toml:"log_format"`
}

// Load reads the TOML file named by TODOLIST_CONFIG (if any), then applies
// environment variables on top and fills defaults.
func Load() (Config, error) {
	var fc fileConfig
	if path := strings.TrimSpace(os.Getenv("TODOLIST_CONFIG")); path != "" {
		loaded, err := readFile(path)
		if err != nil {
			return Config{}, err
		}
		fc = loaded
	}

	overlay(&fc.DatabaseURL, "DATABASE_URL")
	overlay(&fc.StoreDriver, "STORE_DRIVER")
	overlay(&fc.SettingsPath, "SETTINGS_PATH")
	overlay(&fc.SeedURL, "SEED_URL")
	overlay(&fc.SeedTimeout, "SEED_TIMEOUT")
	overlay(&fc.TelegramToken, "TELEGRAM_TOKEN")
	overlay(&fc.HTTPAddr, "HTTP_ADDR")
	overlay(&fc.ReportAt, "REPORT_AT")
	overlay(&fc.LogLevel, "LOG_LEVEL")
	overlay(&fc.LogFormat, "LOG_FORMAT")
	if hours := int(parseInterval(os.Getenv("REPORT_INTERVAL_HOURS")) / time.Hour); hours > 0 {
		fc.ReportIntervalHours = hours
	}
	if raw := strings.TrimSpace(os.Getenv("OWNER_CHAT_ID")); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return Config{}, fmt.Errorf("OWNER_CHAT_ID: %w", err)
		}
		fc.OwnerChatID = id
	}

	return build(fc)
}

func build(fc fileConfig) (Config, error) {
	cfg := Config{
		DatabaseURL:   fc.DatabaseURL,
		StoreDriver:   strings.ToLower(fc.StoreDriver),
		SettingsPath:  fc.SettingsPath,
		SeedURL:       fc.SeedURL,
		SeedTimeout:   parseTimeout(fc.SeedTimeout),
		TelegramToken: fc.TelegramToken,
		OwnerChatID:   fc.OwnerChatID,
		HTTPAddr:      fc.HTTPAddr,
		ReportAt:      strings.TrimSpace(fc.ReportAt),
		LogLevel:      fc.LogLevel,
		LogFormat:     fc.LogFormat,
	}

	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = DefaultDatabaseURL
	}
	if cfg.StoreDriver == "" {
		cfg.StoreDriver = DriverGorm
	}
	if cfg.SettingsPath == "" {
		cfg.SettingsPath = DefaultSettingsPath
	}
	if cfg.SeedURL == "" {
		cfg.SeedURL = DefaultSeedURL
	}
	if cfg.SeedTimeout == 0 {
		cfg.SeedTimeout = DefaultSeedTimeout
	}
	if fc.ReportIntervalHours > 0 {
		cfg.ReportInterval = time.Duration(fc.ReportIntervalHours) * time.Hour
	}
	if cfg.ReportInterval == 0 {
		cfg.ReportInterval = 24 * time.Hour
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}

	switch cfg.StoreDriver {
	case DriverGorm, DriverModernc, DriverMemory:
	default:
		return cfg, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
	}

	if cfg.TelegramToken == "" && cfg.HTTPAddr == "" {
		return cfg, fmt.Errorf("TELEGRAM_TOKEN or HTTP_ADDR is required")
	}

	return cfg, nil
}

func readFile(path string) (fileConfig, error) {
	var fc fileConfig
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fc, nil
		}
		return fc, fmt.Errorf("read config: %w", err)
	}
	if err := toml.Unmarshal(data, &fc); err != nil {
		return fc, fmt.Errorf("parse config %s: %w", path, err)
	}
	return fc, nil
}

func overlay(dst *string, env string) {
	if v := strings.TrimSpace(os.Getenv(env)); v != "" {
		*dst = v
	}
}

func parseInterval(raw string) time.Duration {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0
	}
	hours, err := time.ParseDuration(raw + "h")
	if err != nil || hours <= 0 {
		return 0
	}
	return hours
}

func parseTimeout(raw string) time.Duration {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		return 0
	}
	return d
}
