// Package internal provides the App struct that wires all components of
// dayplan together and initializes the CLI layer.
package internal

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/mitchellh/go-homedir"
	"github.com/valter-silva-au/dayplan/internal/cli"
	"github.com/valter-silva-au/dayplan/internal/core"
	"github.com/valter-silva-au/dayplan/internal/logging"
	"github.com/valter-silva-au/dayplan/internal/observability"
	"github.com/valter-silva-au/dayplan/internal/storage"
	"github.com/valter-silva-au/dayplan/pkg/models"
)

// EventLogFileName is the JSONL event log inside the base directory.
const EventLogFileName = "events.jsonl"

// App holds all service dependencies for dayplan.
type App struct {
	BasePath string

	// Configuration
	ConfigMgr core.ConfigurationManager
	Config    *models.GlobalConfig

	// Storage layer
	StateStore storage.StateStore

	// Core services
	Store *core.Store

	// Observability
	EventLog    observability.EventLog
	AlertEngine observability.AlertEngine
	MetricsCalc observability.MetricsCalculator
	Notifier    observability.Notifier
}

// NewApp creates and wires all components of dayplan. basePath is the root
// directory holding the configuration, the planner document and the event
// log (typically ~/.dayplan).
func NewApp(basePath string) (*App, error) {
	app := &App{BasePath: basePath}
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, fmt.Errorf("creating %s: %w", basePath, err)
	}

	// --- Configuration ---
	app.ConfigMgr = core.NewConfigurationManager(basePath)
	cfg, err := app.ConfigMgr.LoadGlobalConfig()
	if err != nil {
		logging.Warn("app", "%v; using defaults", err)
		cfg = core.DefaultGlobalConfig()
	}
	if err := app.ConfigMgr.ValidateConfig(cfg); err != nil {
		return nil, err
	}
	app.Config = cfg

	// --- Observability ---
	eventLogPath := filepath.Join(basePath, EventLogFileName)
	app.EventLog, err = observability.NewJSONLEventLog(eventLogPath)
	if err != nil {
		// Non-fatal: disable observability if the log can't be created.
		logging.Debug("app", "event log disabled: %v", err)
		app.EventLog = nil
	}
	if app.EventLog != nil {
		app.AlertEngine = observability.NewAlertEngine(app.EventLog, cfg.Alerts)
		app.MetricsCalc = observability.NewMetricsCalculator(app.EventLog)
	}
	if cfg.Alerts.WebhookURL != "" {
		app.Notifier = observability.NewWebhookNotifier(cfg.Alerts.WebhookURL)
	}

	// --- Storage and core ---
	storeDir := cfg.Storage.Dir
	if !filepath.IsAbs(storeDir) {
		storeDir = filepath.Join(basePath, storeDir)
	}
	app.StateStore = storage.NewStateStore(storeDir)

	var events core.EventLogger
	if app.EventLog != nil {
		events = &eventLogAdapter{log: app.EventLog}
	}
	app.Store = core.NewStore(core.StoreOptions{
		Persister:       app.StateStore,
		Events:          events,
		StreakThreshold: cfg.Streak.Threshold,
	})
	app.Store.Initialize()
	if err := app.Store.PersistErr(); err != nil {
		logging.Warn("app", "planner state at %s could not be used: %v", app.StateStore.Path(), err)
	}

	// --- Wire CLI package-level variables ---
	cli.BasePath = basePath
	cli.Config = cfg
	cli.ConfigMgr = app.ConfigMgr
	cli.Store = app.Store

	cli.EventLog = app.EventLog
	cli.AlertEngine = app.AlertEngine
	cli.MetricsCalc = app.MetricsCalc
	cli.Notifier = app.Notifier

	return app, nil
}

// Close releases resources held by the App, such as the event log file handle.
// It is safe to call Close on an App whose EventLog is nil.
func (a *App) Close() error {
	if a.EventLog != nil {
		return a.EventLog.Close()
	}
	return nil
}

// ResolveBasePath determines the dayplan data directory. DAYPLAN_HOME wins;
// otherwise it is ~/.dayplan, or .dayplan in the current directory when the
// home directory cannot be found.
func ResolveBasePath() string {
	if home := os.Getenv("DAYPLAN_HOME"); home != "" {
		if expanded, err := homedir.Expand(home); err == nil {
			return expanded
		}
		return home
	}
	home, err := homedir.Dir()
	if err != nil {
		return ".dayplan"
	}
	return filepath.Join(home, ".dayplan")
}

// eventLogAdapter adapts observability.EventLog to core.EventLogger.
type eventLogAdapter struct {
	log observability.EventLog
}

func (a *eventLogAdapter) LogEvent(eventType string, data map[string]any) error {
	if err := a.log.Write(observability.Event{
		Time:    time.Now().UTC(),
		Level:   "INFO",
		Type:    eventType,
		Message: eventType,
		Data:    data,
	}); err != nil {
		return fmt.Errorf("writing %s event: %w", eventType, err)
	}
	return nil
}
