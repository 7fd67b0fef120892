package cli

import (
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/spf13/cobra"
	adbmcp "github.com/valter-silva-au/dayplan/internal/mcp"
)

var (
	metricsJSON  bool
	metricsSince string
)

var metricsCmd = &cobra.Command{
	Use:   "metrics",
	Short: "Display planning metrics from the event log",
	Long: `Display aggregated metrics derived from the event log.

Metrics include tasks added and completed, promotions by origin, days
started and shut down, inbox flow, and logged, unplanned and idle time.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if MetricsCalc == nil {
			return fmt.Errorf("metrics calculator not initialized (observability may be disabled)")
		}

		sinceTime, err := adbmcp.ParseSince(metricsSince, time.Now())
		if err != nil {
			return fmt.Errorf("parsing --since: %w", err)
		}

		m, err := MetricsCalc.Calculate(sinceTime)
		if err != nil {
			return fmt.Errorf("calculating metrics: %w", err)
		}

		w := out(cmd)
		if metricsJSON {
			data, err := json.MarshalIndent(m, "", "  ")
			if err != nil {
				return fmt.Errorf("formatting metrics as JSON: %w", err)
			}
			fmt.Fprintln(w, string(data))
			return nil
		}

		fmt.Fprintln(w, heading.Sprintf("Metrics (since %s)", sinceTime.Format("2006-01-02")))
		tbl := newTable()
		tbl.AddRow("Events recorded:", m.EventCount)
		tbl.AddRow("Tasks added:", m.TasksAdded)
		tbl.AddRow("Tasks completed:", fmt.Sprintf("%d (%d bonus)", m.TasksCompleted, m.BonusCompleted))
		tbl.AddRow("Tasks promoted:", m.TasksPromoted)
		tbl.AddRow("Routine completions:", m.RoutinesCompleted)
		tbl.AddRow("Goals completed:", m.GoalsCompleted)
		tbl.AddRow("Projects completed:", m.ProjectsCompleted)
		tbl.AddRow("Days started:", m.DaysStarted)
		tbl.AddRow("Days shut down:", m.DaysShutdown)
		tbl.AddRow("Rollovers:", m.Rollovers)
		tbl.AddRow("Inbox captured:", m.InboxCaptured)
		tbl.AddRow("Inbox processed:", m.InboxProcessed)
		tbl.AddRow("Time logged:", formatSeconds(m.TimeLoggedSeconds))
		tbl.AddRow("Unplanned time:", formatSeconds(m.UnplannedSeconds))
		fmt.Fprintln(w, tbl)

		printCounts(cmd, "Promotions by origin", m.PromotionsByOrigin, func(n int) string { return fmt.Sprint(n) })
		printCounts(cmd, "Idle time by tag", m.IdleSecondsByTag, formatSeconds)

		if len(m.AchievementsUnlocked) > 0 {
			fmt.Fprintln(w, bold.Sprint("\nAchievements unlocked:"))
			for _, a := range m.AchievementsUnlocked {
				fmt.Fprintf(w, "  %s\n", a)
			}
		}
		if m.OldestEvent != nil {
			fmt.Fprintf(w, "\nOldest event: %s\n", m.OldestEvent.Format(time.RFC3339))
		}
		if m.NewestEvent != nil {
			fmt.Fprintf(w, "Newest event: %s\n", m.NewestEvent.Format(time.RFC3339))
		}
		return nil
	},
}

func printCounts(cmd *cobra.Command, title string, counts map[string]int, format func(int) string) {
	if len(counts) == 0 {
		return
	}
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	w := out(cmd)
	fmt.Fprintln(w, bold.Sprintf("\n%s:", title))
	tbl := newTable()
	for _, k := range keys {
		tbl.AddRow("  "+k, format(counts[k]))
	}
	fmt.Fprintln(w, tbl)
}

func init() {
	metricsCmd.Flags().BoolVar(&metricsJSON, "json", false, "Output metrics as JSON")
	metricsCmd.Flags().StringVar(&metricsSince, "since", "7d", "Time window for metrics (e.g. 7d, 30d, 24h)")
	rootCmd.AddCommand(metricsCmd)
}
