package core

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/valter-silva-au/dayplan/pkg/models"
)

// --- Helper ---

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
}

// --- LoadGlobalConfig tests ---

func TestLoadGlobalConfig_Defaults_WhenNoFile(t *testing.T) {
	cm := NewConfigurationManager(t.TempDir())

	cfg, err := cm.LoadGlobalConfig()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := DefaultGlobalConfig()
	if *cfg != *want {
		t.Errorf("config = %+v, want defaults %+v", cfg, want)
	}
	if cfg.Timer.DefaultMinutes != 25 || cfg.Idle.WindowSeconds != 300 {
		t.Errorf("unexpected timer/idle defaults: %+v", cfg)
	}
}

func TestLoadGlobalConfig_ReadsFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, ConfigFileName, `
storage:
  dir: /var/lib/dayplan
streak:
  threshold: 60
timer:
  default_minutes: 50
idle:
  window_seconds: 120
alerts:
  inbox_max: 3
  webhook_url: https://hooks.example.com/x
theme: light
`)

	cfg, err := NewConfigurationManager(dir).LoadGlobalConfig()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Storage.Dir != "/var/lib/dayplan" {
		t.Errorf("Storage.Dir = %q", cfg.Storage.Dir)
	}
	if cfg.Streak.Threshold != 60 {
		t.Errorf("Streak.Threshold = %d, want 60", cfg.Streak.Threshold)
	}
	if cfg.Timer.DefaultMinutes != 50 {
		t.Errorf("Timer.DefaultMinutes = %d, want 50", cfg.Timer.DefaultMinutes)
	}
	if cfg.Idle.WindowSeconds != 120 {
		t.Errorf("Idle.WindowSeconds = %d, want 120", cfg.Idle.WindowSeconds)
	}
	// Keys absent from the file keep their defaults.
	if cfg.Idle.MinTrackedSeconds != 2 {
		t.Errorf("Idle.MinTrackedSeconds = %d, want default 2", cfg.Idle.MinTrackedSeconds)
	}
	if cfg.Alerts.InboxMax != 3 || cfg.Alerts.DeadlineDays != 3 {
		t.Errorf("Alerts = %+v", cfg.Alerts)
	}
	if cfg.Alerts.WebhookURL != "https://hooks.example.com/x" {
		t.Errorf("Alerts.WebhookURL = %q", cfg.Alerts.WebhookURL)
	}
	if cfg.Theme != models.ThemeLight {
		t.Errorf("Theme = %q, want light", cfg.Theme)
	}
}

func TestLoadGlobalConfig_EnvOverride(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, ConfigFileName, "idle:\n  window_seconds: 120\n")
	t.Setenv("DAYPLAN_IDLE_WINDOW_SECONDS", "45")

	cfg, err := NewConfigurationManager(dir).LoadGlobalConfig()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Idle.WindowSeconds != 45 {
		t.Errorf("Idle.WindowSeconds = %d, want 45 from the environment", cfg.Idle.WindowSeconds)
	}
}

func TestLoadGlobalConfig_MalformedFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, ConfigFileName, "streak: [unclosed\n")

	if _, err := NewConfigurationManager(dir).LoadGlobalConfig(); err == nil {
		t.Fatal("expected error for malformed YAML")
	}
}

// --- ValidateConfig tests ---

func TestValidateConfig(t *testing.T) {
	cm := NewConfigurationManager(t.TempDir())

	tests := []struct {
		name    string
		mutate  func(cfg *models.GlobalConfig)
		wantErr []string
	}{
		{name: "defaults are valid", mutate: func(*models.GlobalConfig) {}},
		{
			name:    "threshold out of range",
			mutate:  func(cfg *models.GlobalConfig) { cfg.Streak.Threshold = 101 },
			wantErr: []string{"streak.threshold"},
		},
		{
			name:    "empty storage dir",
			mutate:  func(cfg *models.GlobalConfig) { cfg.Storage.Dir = " " },
			wantErr: []string{"storage.dir"},
		},
		{
			name:    "empty capture dir",
			mutate:  func(cfg *models.GlobalConfig) { cfg.Capture.Dir = "" },
			wantErr: []string{"capture.dir"},
		},
		{
			name: "timer and idle",
			mutate: func(cfg *models.GlobalConfig) {
				cfg.Timer.DefaultMinutes = 0
				cfg.Idle.WindowSeconds = -1
				cfg.Idle.ThrottleMillis = -5
			},
			wantErr: []string{"timer.default_minutes", "idle.window_seconds", "idle.throttle_ms"},
		},
		{
			name:    "webhook must be http",
			mutate:  func(cfg *models.GlobalConfig) { cfg.Alerts.WebhookURL = "ftp://x" },
			wantErr: []string{"alerts.webhook_url"},
		},
		{
			name:    "unknown theme",
			mutate:  func(cfg *models.GlobalConfig) { cfg.Theme = "solarized" },
			wantErr: []string{"theme"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultGlobalConfig()
			tt.mutate(cfg)
			err := cm.ValidateConfig(cfg)
			if len(tt.wantErr) == 0 {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatal("expected validation error")
			}
			for _, want := range tt.wantErr {
				if !strings.Contains(err.Error(), want) {
					t.Errorf("error should mention %s: %v", want, err)
				}
			}
		})
	}

	if err := cm.ValidateConfig(nil); err == nil {
		t.Error("expected error for nil config")
	}
}

// --- WriteDefaultConfig tests ---

func TestWriteDefaultConfig(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "home")
	cm := NewConfigurationManager(dir)

	path, err := cm.WriteDefaultConfig()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if path != filepath.Join(dir, ConfigFileName) {
		t.Errorf("path = %q", path)
	}

	cfg, err := cm.LoadGlobalConfig()
	if err != nil {
		t.Fatalf("reloading written config: %v", err)
	}
	if *cfg != *DefaultGlobalConfig() {
		t.Errorf("written config does not round trip: %+v", cfg)
	}

	// An existing file is left alone.
	writeFile(t, dir, ConfigFileName, "theme: light\n")
	if _, err := cm.WriteDefaultConfig(); err != nil {
		t.Fatal(err)
	}
	data, _ := os.ReadFile(path)
	if string(data) != "theme: light\n" {
		t.Errorf("existing config was overwritten: %q", data)
	}
}
