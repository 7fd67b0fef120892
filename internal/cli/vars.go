package cli

import (
	"github.com/valter-silva-au/dayplan/internal/core"
	"github.com/valter-silva-au/dayplan/internal/observability"
	"github.com/valter-silva-au/dayplan/pkg/models"
)

// Service instances, set during app initialization in app.go.
var (
	Store     *core.Store
	Config    *models.GlobalConfig
	ConfigMgr core.ConfigurationManager
	BasePath  string
)

// Observability service instances, set during app initialization in app.go.
var (
	EventLog    observability.EventLog
	AlertEngine observability.AlertEngine
	MetricsCalc observability.MetricsCalculator
	Notifier    observability.Notifier
)
