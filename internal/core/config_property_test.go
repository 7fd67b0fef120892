package core

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/valter-silva-au/dayplan/pkg/models"
	"pgregory.net/rapid"
)

// genValidConfig generates a GlobalConfig that passes validation.
func genValidConfig(t *rapid.T) *models.GlobalConfig {
	cfg := DefaultGlobalConfig()
	cfg.Storage.Dir = rapid.StringMatching(`store-[a-z]{1,8}`).Draw(t, "storageDir")
	cfg.Capture.Dir = rapid.StringMatching(`drop-[a-z]{1,8}`).Draw(t, "captureDir")
	cfg.Streak.Threshold = rapid.IntRange(0, 100).Draw(t, "threshold")
	cfg.Timer.DefaultMinutes = rapid.IntRange(1, 240).Draw(t, "minutes")
	cfg.Idle.WindowSeconds = rapid.IntRange(1, 3600).Draw(t, "window")
	cfg.Idle.MinTrackedSeconds = rapid.IntRange(0, 60).Draw(t, "minTracked")
	cfg.Idle.ThrottleMillis = rapid.IntRange(0, 5000).Draw(t, "throttle")
	cfg.Alerts.InboxMax = rapid.IntRange(0, 100).Draw(t, "inboxMax")
	cfg.Alerts.DeadlineDays = rapid.IntRange(0, 30).Draw(t, "deadlineDays")
	cfg.Alerts.InactiveDays = rapid.IntRange(0, 30).Draw(t, "inactiveDays")
	cfg.Theme = rapid.SampledFrom([]models.Theme{models.ThemeDark, models.ThemeLight}).Draw(t, "theme")
	return cfg
}

// Property: any valid configuration written as YAML loads back unchanged and
// still validates.
func TestProperty_ConfigFileRoundTrip(t *testing.T) {
	base := t.TempDir()
	n := 0
	rapid.Check(t, func(t *rapid.T) {
		n++
		dir := filepath.Join(base, fmt.Sprintf("case%d", n))
		if err := os.MkdirAll(dir, 0o755); err != nil {
			t.Fatal(err)
		}
		want := genValidConfig(t)
		content := fmt.Sprintf(`storage:
  dir: %s
capture:
  dir: %s
streak:
  threshold: %d
timer:
  default_minutes: %d
idle:
  window_seconds: %d
  min_tracked_seconds: %d
  throttle_ms: %d
alerts:
  inbox_max: %d
  deadline_days: %d
  inactive_days: %d
theme: %s
`, want.Storage.Dir, want.Capture.Dir, want.Streak.Threshold, want.Timer.DefaultMinutes,
			want.Idle.WindowSeconds, want.Idle.MinTrackedSeconds, want.Idle.ThrottleMillis,
			want.Alerts.InboxMax, want.Alerts.DeadlineDays, want.Alerts.InactiveDays, want.Theme)
		if err := os.WriteFile(filepath.Join(dir, ConfigFileName), []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}

		cm := NewConfigurationManager(dir)
		got, err := cm.LoadGlobalConfig()
		if err != nil {
			t.Fatalf("load: %v", err)
		}
		if *got != *want {
			t.Fatalf("loaded %+v, want %+v", got, want)
		}
		if err := cm.ValidateConfig(got); err != nil {
			t.Fatalf("valid config rejected: %v", err)
		}
	})
}

// Property: a streak threshold outside 0..100 is always rejected.
func TestProperty_ThresholdOutOfRangeRejected(t *testing.T) {
	cm := NewConfigurationManager(t.TempDir())
	rapid.Check(t, func(t *rapid.T) {
		cfg := DefaultGlobalConfig()
		if rapid.Bool().Draw(t, "high") {
			cfg.Streak.Threshold = rapid.IntRange(101, 1000).Draw(t, "threshold")
		} else {
			cfg.Streak.Threshold = rapid.IntRange(-1000, -1).Draw(t, "threshold")
		}
		if err := cm.ValidateConfig(cfg); err == nil {
			t.Fatalf("threshold %d accepted", cfg.Streak.Threshold)
		}
	})
}
