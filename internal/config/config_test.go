package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

var envKeys = []string{
	"TODOLIST_CONFIG", "DATABASE_URL", "STORE_DRIVER", "SETTINGS_PATH", "SEED_URL", "SEED_TIMEOUT",
	"TELEGRAM_TOKEN", "OWNER_CHAT_ID", "HTTP_ADDR", "REPORT_INTERVAL_HOURS", "REPORT_AT", "LOG_LEVEL", "LOG_FORMAT",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range envKeys {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("HTTP_ADDR", ":8080")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.DatabaseURL != DefaultDatabaseURL {
		t.Errorf("DatabaseURL: got %q, want %q", cfg.DatabaseURL, DefaultDatabaseURL)
	}
	if cfg.StoreDriver != DriverGorm {
		t.Errorf("StoreDriver: got %q, want %q", cfg.StoreDriver, DriverGorm)
	}
	if cfg.SettingsPath != DefaultSettingsPath {
		t.Errorf("SettingsPath: got %q", cfg.SettingsPath)
	}
	if cfg.SeedURL != DefaultSeedURL {
		t.Errorf("SeedURL: got %q", cfg.SeedURL)
	}
	if cfg.SeedTimeout != 10*time.Second {
		t.Errorf("SeedTimeout: got %v, want 10s", cfg.SeedTimeout)
	}
	if cfg.ReportInterval != 24*time.Hour {
		t.Errorf("ReportInterval: got %v, want 24h", cfg.ReportInterval)
	}
}

func TestLoadRequiresFrontEnd(t *testing.T) {
	clearEnv(t)
	if _, err := Load(); err == nil {
		t.Fatal("expected error without TELEGRAM_TOKEN or HTTP_ADDR")
	}
}

func TestLoadFileWithEnvOverride(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "todolist.toml")
	content := `
database_url = "data/todos.db"
store_driver = "modernc"
seed_timeout = "3s"
telegram_token = "file-token"
owner_chat_id = 99
report_interval_hours = 6
report_at = "09:30"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("TODOLIST_CONFIG", path)
	t.Setenv("TELEGRAM_TOKEN", "env-token")
	t.Setenv("OWNER_CHAT_ID", "7")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.DatabaseURL != "data/todos.db" {
		t.Errorf("DatabaseURL: got %q", cfg.DatabaseURL)
	}
	if cfg.StoreDriver != DriverModernc {
		t.Errorf("StoreDriver: got %q", cfg.StoreDriver)
	}
	if cfg.SeedTimeout != 3*time.Second {
		t.Errorf("SeedTimeout: got %v", cfg.SeedTimeout)
	}
	if cfg.TelegramToken != "env-token" {
		t.Errorf("TelegramToken: got %q, want env override", cfg.TelegramToken)
	}
	if cfg.OwnerChatID != 7 {
		t.Errorf("OwnerChatID: got %d, want 7", cfg.OwnerChatID)
	}
	if cfg.ReportInterval != 6*time.Hour {
		t.Errorf("ReportInterval: got %v, want 6h", cfg.ReportInterval)
	}
	if cfg.ReportAt != "09:30" {
		t.Errorf("ReportAt: got %q, want 09:30", cfg.ReportAt)
	}
}

func TestLoadReportIntervalEnv(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "todolist.toml")
	if err := os.WriteFile(path, []byte("http_addr = \":8080\"\nreport_interval_hours = 6\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("TODOLIST_CONFIG", path)

	tests := []struct {
		env  string
		want time.Duration
	}{
		{env: "", want: 6 * time.Hour},
		{env: "12", want: 12 * time.Hour},
		{env: "abc", want: 6 * time.Hour},
	}
	for _, tt := range tests {
		t.Run("env="+tt.env, func(t *testing.T) {
			t.Setenv("REPORT_INTERVAL_HOURS", tt.env)
			cfg, err := Load()
			if err != nil {
				t.Fatalf("Load failed: %v", err)
			}
			if cfg.ReportInterval != tt.want {
				t.Errorf("ReportInterval: got %v, want %v", cfg.ReportInterval, tt.want)
			}
		})
	}
}

func TestLoadRejectsUnknownDriver(t *testing.T) {
	clearEnv(t)
	t.Setenv("HTTP_ADDR", ":8080")
	t.Setenv("STORE_DRIVER", "postgres")
	if _, err := Load(); err == nil {
		t.Fatal("expected error for unknown driver")
	}
}

func TestLoadInvalidFile(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "bad.toml")
	if err := os.WriteFile(path, []byte("database_url = ["), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("TODOLIST_CONFIG", path)
	t.Setenv("HTTP_ADDR", ":8080")
	if _, err := Load(); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestParseInterval(t *testing.T) {
	tests := []struct {
		raw  string
		want time.Duration
	}{
		{raw: "", want: 0},
		{raw: "5", want: 5 * time.Hour},
		{raw: "-1", want: 0},
		{raw: "abc", want: 0},
	}
	for _, tt := range tests {
		if got := parseInterval(tt.raw); got != tt.want {
			t.Errorf("parseInterval(%q): got %v, want %v", tt.raw, got, tt.want)
		}
	}
}
