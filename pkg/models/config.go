package models

// StorageConfig controls where state is kept.
type StorageConfig struct {
	Dir string `yaml:"dir"`
}

// CaptureConfig points at the drop folder that other tools write inbox
// notes into.
type CaptureConfig struct {
	Dir string `yaml:"dir"`
}

// StreakConfig tunes streak qualification.
type StreakConfig struct {
	// Threshold is the score a day must exceed to count toward the streak.
	Threshold int `yaml:"threshold"`
}

// TimerConfig holds task timer defaults.
type TimerConfig struct {
	DefaultMinutes int `yaml:"default_minutes"`
}

// IdleConfig tunes the idle detection state machine.
type IdleConfig struct {
	WindowSeconds     int `yaml:"window_seconds"`
	MinTrackedSeconds int `yaml:"min_tracked_seconds"`
	ThrottleMillis    int `yaml:"throttle_ms"`
}

// AlertConfig holds thresholds for planner alerts.
type AlertConfig struct {
	InboxMax     int    `yaml:"inbox_max"`
	DeadlineDays int    `yaml:"deadline_days"`
	InactiveDays int    `yaml:"inactive_days"`
	WebhookURL   string `yaml:"webhook_url,omitempty"`
}

// GlobalConfig holds system-wide settings read from .dayplanconfig via Viper.
type GlobalConfig struct {
	Storage StorageConfig `yaml:"storage"`
	Capture CaptureConfig `yaml:"capture"`
	Streak  StreakConfig  `yaml:"streak"`
	Timer   TimerConfig   `yaml:"timer"`
	Idle    IdleConfig    `yaml:"idle"`
	Alerts  AlertConfig   `yaml:"alerts"`
	Theme   Theme         `yaml:"theme"`
}
