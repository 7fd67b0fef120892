package internal

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/valter-silva-au/dayplan/internal/cli"
	"github.com/valter-silva-au/dayplan/internal/core"
	"github.com/valter-silva-au/dayplan/internal/observability"
)

func TestResolveBasePath_HomeSet(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv("DAYPLAN_HOME", tmpDir)

	if got := ResolveBasePath(); got != tmpDir {
		t.Errorf("ResolveBasePath() = %q, want %q", got, tmpDir)
	}
}

func TestResolveBasePath_DefaultsToHomeDir(t *testing.T) {
	t.Setenv("DAYPLAN_HOME", "")

	got := ResolveBasePath()
	if filepath.Base(got) != ".dayplan" {
		t.Errorf("ResolveBasePath() = %q, want a .dayplan directory", got)
	}
}

func TestNewApp_WiresServices(t *testing.T) {
	tmpDir := t.TempDir()
	app, err := NewApp(tmpDir)
	if err != nil {
		t.Fatalf("NewApp() error = %v", err)
	}
	defer app.Close()

	if app.Store == nil || app.StateStore == nil || app.ConfigMgr == nil || app.Config == nil {
		t.Fatal("core services should be wired")
	}
	if app.EventLog == nil || app.MetricsCalc == nil || app.AlertEngine == nil {
		t.Fatal("observability should be enabled in a writable directory")
	}
	if app.Notifier != nil {
		t.Error("notifier should stay disabled without a webhook URL")
	}
	if cli.Store != app.Store || cli.BasePath != tmpDir {
		t.Error("CLI variables should point at the app's services")
	}
	if !strings.HasPrefix(app.StateStore.Path(), filepath.Join(tmpDir, "store")) {
		t.Errorf("state path = %q, want under %s/store", app.StateStore.Path(), tmpDir)
	}
}

func TestNewApp_PersistsAndLogsEvents(t *testing.T) {
	tmpDir := t.TempDir()
	app, err := NewApp(tmpDir)
	if err != nil {
		t.Fatalf("NewApp() error = %v", err)
	}
	if err := app.Store.Dispatch(core.AddTask{Text: "Survive restart"}); err != nil {
		t.Fatalf("AddTask: %v", err)
	}
	_ = app.Close()

	events, err := os.ReadFile(filepath.Join(tmpDir, EventLogFileName))
	if err != nil {
		t.Fatalf("reading event log: %v", err)
	}
	if !strings.Contains(string(events), `"type":"task.added"`) {
		t.Errorf("event log should record task.added:\n%s", events)
	}

	reopened, err := NewApp(tmpDir)
	if err != nil {
		t.Fatalf("reopening: %v", err)
	}
	defer reopened.Close()
	st := reopened.Store.State()
	if len(st.Plan.Tasks) != 1 || st.Plan.Tasks[0].Text != "Survive restart" {
		t.Errorf("tasks after reopen = %+v", st.Plan.Tasks)
	}

	m, err := reopened.MetricsCalc.Calculate(st.Plan.Tasks[0].CreatedAt.AddDate(0, 0, -1))
	if err != nil {
		t.Fatalf("metrics: %v", err)
	}
	if m.TasksAdded != 1 {
		t.Errorf("TasksAdded = %d, want 1", m.TasksAdded)
	}
}

func TestNewApp_InvalidConfig(t *testing.T) {
	tmpDir := t.TempDir()
	cfg := "theme: purple\nstreak:\n  threshold: 150\n"
	if err := os.WriteFile(filepath.Join(tmpDir, core.ConfigFileName), []byte(cfg), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := NewApp(tmpDir)
	if err == nil {
		t.Fatal("expected validation error")
	}
	for _, want := range []string{"theme", "streak.threshold"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error should mention %s: %v", want, err)
		}
	}
}

func TestNewApp_WebhookEnablesNotifier(t *testing.T) {
	tmpDir := t.TempDir()
	cfg := "alerts:\n  webhook_url: https://hooks.example.com/dayplan\n"
	if err := os.WriteFile(filepath.Join(tmpDir, core.ConfigFileName), []byte(cfg), 0o644); err != nil {
		t.Fatal(err)
	}
	app, err := NewApp(tmpDir)
	if err != nil {
		t.Fatalf("NewApp() error = %v", err)
	}
	defer app.Close()
	if app.Notifier == nil || cli.Notifier == nil {
		t.Error("webhook URL should enable the notifier")
	}
}

func TestEventLogAdapter(t *testing.T) {
	log, err := observability.NewJSONLEventLog(filepath.Join(t.TempDir(), "events.jsonl"))
	if err != nil {
		t.Fatal(err)
	}
	defer log.Close()

	adapter := &eventLogAdapter{log: log}
	if err := adapter.LogEvent("inbox.captured", map[string]any{"item_id": "x"}); err != nil {
		t.Fatalf("LogEvent: %v", err)
	}
	events, err := log.Read(observability.EventFilter{Type: "inbox.captured"})
	if err != nil {
		t.Fatal(err)
	}
	if len(events) != 1 || events[0].Level != "INFO" || events[0].Data["item_id"] != "x" {
		t.Errorf("events = %+v", events)
	}
}
