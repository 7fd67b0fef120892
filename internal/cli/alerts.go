package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/valter-silva-au/dayplan/internal/observability"
)

var alertsNotify bool

var alertsCmd = &cobra.Command{
	Use:   "alerts",
	Short: "Show active alerts and warnings",
	Long: `Evaluate alert conditions against the planner state and event log.

Alerts flag overdue and approaching deadlines, goals and projects due for
review, an overflowing inbox, an unresolved rollover, and days without a
started plan. With --notify the alerts are also posted to the configured
webhook (alerts.webhook_url).`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if AlertEngine == nil {
			return fmt.Errorf("alert engine not initialized (observability may be disabled)")
		}
		st, err := current()
		if err != nil {
			return err
		}

		alerts, err := AlertEngine.Evaluate(st, Store.Now())
		if err != nil {
			return fmt.Errorf("evaluating alerts: %w", err)
		}

		w := out(cmd)
		if len(alerts) == 0 {
			fmt.Fprintln(w, "No active alerts.")
		} else {
			fmt.Fprintf(w, "%d active alert(s):\n\n", len(alerts))
			tbl := newTable()
			for _, a := range alerts {
				tbl.AddRow(severityColor(a.Severity).Sprintf("[%s]", strings.ToUpper(string(a.Severity))), a.Message)
			}
			fmt.Fprintln(w, tbl)
		}

		if !alertsNotify || len(alerts) == 0 {
			return nil
		}
		if Notifier == nil {
			return fmt.Errorf("no notifier configured: set alerts.webhook_url in %s", configFileHint())
		}
		if err := Notifier.Notify(alerts); err != nil {
			return fmt.Errorf("sending alerts: %w", err)
		}
		fmt.Fprintf(w, "\nSent %d alert(s) at %s.\n", len(alerts), time.Now().Format("15:04"))
		return nil
	},
}

func severityColor(s observability.AlertSeverity) *color.Color {
	switch s {
	case observability.SeverityHigh:
		return blocked
	case observability.SeverityMedium:
		return warn
	}
	return faint
}

func configFileHint() string {
	if BasePath == "" {
		return "the config file"
	}
	return BasePath + "/.dayplanconfig"
}

func init() {
	alertsCmd.Flags().BoolVar(&alertsNotify, "notify", false, "Post alerts to the configured webhook")
	rootCmd.AddCommand(alertsCmd)
}
