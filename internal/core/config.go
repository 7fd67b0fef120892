// Package core contains the planning engine for dayplan: the entity store
// and its intents, dependency and completion rules, the day lifecycle, the
// idle detector, the task timer, and configuration.
package core

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"github.com/valter-silva-au/dayplan/pkg/models"
	"gopkg.in/yaml.v3"
)

// ConfigFileName is the name of the global configuration file inside the
// base directory.
const ConfigFileName = ".dayplanconfig"

// ConfigurationManager loads, validates and initialises the .dayplanconfig
// file.
type ConfigurationManager interface {
	LoadGlobalConfig() (*models.GlobalConfig, error)
	ValidateConfig(cfg *models.GlobalConfig) error
	WriteDefaultConfig() (string, error)
}

// viperConfigManager implements ConfigurationManager using Viper for
// reading YAML configuration files.
type viperConfigManager struct {
	// basePath is the root directory where .dayplanconfig resides.
	basePath string
}

// NewConfigurationManager creates a new ConfigurationManager that reads
// configuration files relative to basePath.
func NewConfigurationManager(basePath string) ConfigurationManager {
	return &viperConfigManager{basePath: basePath}
}

// DefaultGlobalConfig returns a GlobalConfig populated with sensible defaults.
func DefaultGlobalConfig() *models.GlobalConfig {
	return &models.GlobalConfig{
		Storage: models.StorageConfig{Dir: "store"},
		Capture: models.CaptureConfig{Dir: "capture"},
		Streak:  models.StreakConfig{Threshold: 0},
		Timer:   models.TimerConfig{DefaultMinutes: 25},
		Idle: models.IdleConfig{
			WindowSeconds:     300,
			MinTrackedSeconds: 2,
			ThrottleMillis:    500,
		},
		Alerts: models.AlertConfig{InboxMax: 10, DeadlineDays: 3, InactiveDays: 2},
		Theme:  models.ThemeDark,
	}
}

// LoadGlobalConfig reads .dayplanconfig from the base path using Viper.
// Missing files and keys fall back to defaults. DAYPLAN_* environment
// variables override file values, e.g. DAYPLAN_IDLE_WINDOW_SECONDS.
func (cm *viperConfigManager) LoadGlobalConfig() (*models.GlobalConfig, error) {
	cfg := DefaultGlobalConfig()

	v := viper.New()
	v.SetConfigName(ConfigFileName)
	v.SetConfigType("yaml")
	v.AddConfigPath(cm.basePath)
	v.SetEnvPrefix("DAYPLAN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("storage.dir", cfg.Storage.Dir)
	v.SetDefault("capture.dir", cfg.Capture.Dir)
	v.SetDefault("streak.threshold", cfg.Streak.Threshold)
	v.SetDefault("timer.default_minutes", cfg.Timer.DefaultMinutes)
	v.SetDefault("idle.window_seconds", cfg.Idle.WindowSeconds)
	v.SetDefault("idle.min_tracked_seconds", cfg.Idle.MinTrackedSeconds)
	v.SetDefault("idle.throttle_ms", cfg.Idle.ThrottleMillis)
	v.SetDefault("alerts.inbox_max", cfg.Alerts.InboxMax)
	v.SetDefault("alerts.deadline_days", cfg.Alerts.DeadlineDays)
	v.SetDefault("alerts.inactive_days", cfg.Alerts.InactiveDays)
	v.SetDefault("alerts.webhook_url", cfg.Alerts.WebhookURL)
	v.SetDefault("theme", string(cfg.Theme))

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading %s: %w", ConfigFileName, err)
		}
	}

	cfg.Storage.Dir = v.GetString("storage.dir")
	cfg.Capture.Dir = v.GetString("capture.dir")
	cfg.Streak.Threshold = v.GetInt("streak.threshold")
	cfg.Timer.DefaultMinutes = v.GetInt("timer.default_minutes")
	cfg.Idle.WindowSeconds = v.GetInt("idle.window_seconds")
	cfg.Idle.MinTrackedSeconds = v.GetInt("idle.min_tracked_seconds")
	cfg.Idle.ThrottleMillis = v.GetInt("idle.throttle_ms")
	cfg.Alerts.InboxMax = v.GetInt("alerts.inbox_max")
	cfg.Alerts.DeadlineDays = v.GetInt("alerts.deadline_days")
	cfg.Alerts.InactiveDays = v.GetInt("alerts.inactive_days")
	cfg.Alerts.WebhookURL = v.GetString("alerts.webhook_url")
	cfg.Theme = models.Theme(v.GetString("theme"))

	return cfg, nil
}

// ValidateConfig checks the configuration and reports every invalid value
// at once.
func (cm *viperConfigManager) ValidateConfig(cfg *models.GlobalConfig) error {
	if cfg == nil {
		return fmt.Errorf("configuration is nil")
	}

	var errs []string

	if strings.TrimSpace(cfg.Storage.Dir) == "" {
		errs = append(errs, "storage.dir must not be empty")
	}
	if strings.TrimSpace(cfg.Capture.Dir) == "" {
		errs = append(errs, "capture.dir must not be empty")
	}
	if cfg.Streak.Threshold < 0 || cfg.Streak.Threshold > 100 {
		errs = append(errs, fmt.Sprintf("streak.threshold %d is invalid, must be between 0 and 100", cfg.Streak.Threshold))
	}
	if cfg.Timer.DefaultMinutes <= 0 {
		errs = append(errs, fmt.Sprintf("timer.default_minutes must be positive, got %d", cfg.Timer.DefaultMinutes))
	}
	if cfg.Idle.WindowSeconds <= 0 {
		errs = append(errs, fmt.Sprintf("idle.window_seconds must be positive, got %d", cfg.Idle.WindowSeconds))
	}
	if cfg.Idle.MinTrackedSeconds < 0 {
		errs = append(errs, fmt.Sprintf("idle.min_tracked_seconds must be non-negative, got %d", cfg.Idle.MinTrackedSeconds))
	}
	if cfg.Idle.ThrottleMillis < 0 {
		errs = append(errs, fmt.Sprintf("idle.throttle_ms must be non-negative, got %d", cfg.Idle.ThrottleMillis))
	}
	if cfg.Alerts.InboxMax < 0 {
		errs = append(errs, fmt.Sprintf("alerts.inbox_max must be non-negative, got %d", cfg.Alerts.InboxMax))
	}
	if cfg.Alerts.DeadlineDays < 0 {
		errs = append(errs, fmt.Sprintf("alerts.deadline_days must be non-negative, got %d", cfg.Alerts.DeadlineDays))
	}
	if cfg.Alerts.InactiveDays < 0 {
		errs = append(errs, fmt.Sprintf("alerts.inactive_days must be non-negative, got %d", cfg.Alerts.InactiveDays))
	}
	if u := cfg.Alerts.WebhookURL; u != "" && !strings.HasPrefix(u, "https://") && !strings.HasPrefix(u, "http://") {
		errs = append(errs, fmt.Sprintf("alerts.webhook_url %q must be an http(s) URL", u))
	}
	if cfg.Theme != models.ThemeDark && cfg.Theme != models.ThemeLight {
		errs = append(errs, fmt.Sprintf("theme %q is invalid, must be one of: dark, light", cfg.Theme))
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}

// WriteDefaultConfig writes a default .dayplanconfig into the base path
// unless one already exists. It returns the config file path.
func (cm *viperConfigManager) WriteDefaultConfig() (string, error) {
	path := filepath.Join(cm.basePath, ConfigFileName)
	if _, err := os.Stat(path); err == nil {
		return path, nil
	}
	if err := os.MkdirAll(cm.basePath, 0o755); err != nil {
		return "", fmt.Errorf("creating %s: %w", cm.basePath, err)
	}
	data, err := yaml.Marshal(DefaultGlobalConfig())
	if err != nil {
		return "", fmt.Errorf("marshaling default config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("writing %s: %w", path, err)
	}
	return path, nil
}
