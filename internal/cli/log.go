package cli

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/valter-silva-au/dayplan/internal/core"
	"github.com/valter-silva-au/dayplan/pkg/models"
)

var logCmd = &cobra.Command{
	Use:   "log",
	Short: "Record time spent on tasks and unplanned work",
}

var logRoutine bool

var logTimeCmd = &cobra.Command{
	Use:   "time <task> <duration>",
	Short: "Log time against a plan task (or routine item with --routine)",
	Long: `Log time against a task. The duration uses Go syntax, e.g. 25m or 1h30m.

Example:
  dayplan log time 2 45m
  dayplan log time --routine 1 20m`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		seconds, err := parseSeconds(args[1])
		if err != nil {
			return err
		}
		st, err := current()
		if err != nil {
			return err
		}
		var id, name string
		if logRoutine {
			if id, err = resolveID("routine item", args[0], idsOf(st.RoutineTasks)); err != nil {
				return err
			}
			name = st.RoutineTasks[indexByID(st.RoutineTasks, id)].Text
		} else {
			if id, err = resolveID("task", args[0], idsOf(st.Plan.Tasks)); err != nil {
				return err
			}
			name = st.Plan.Tasks[indexByID(st.Plan.Tasks, id)].Text
		}
		if err := dispatch(core.LogTime{TaskID: id, TaskName: name, DurationSeconds: seconds}, "logging time"); err != nil {
			return err
		}
		fmt.Fprintf(out(cmd), "Logged %s on %q.\n", formatSeconds(seconds), name)
		return nil
	},
}

var logUnplannedCmd = &cobra.Command{
	Use:   "unplanned <text> <duration>",
	Short: "Record unplanned work done today",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		seconds, err := parseSeconds(args[len(args)-1])
		if err != nil {
			return err
		}
		text := strings.Join(args[:len(args)-1], " ")
		if err := dispatch(core.AddUnplannedTask{Text: text, DurationSeconds: seconds}, "recording unplanned work"); err != nil {
			return err
		}
		fmt.Fprintf(out(cmd), "Recorded unplanned %q (%s).\n", text, formatSeconds(seconds))
		return nil
	},
}

var logListDay string

var logListCmd = &cobra.Command{
	Use:   "list",
	Short: "Show time logged on a day (default today)",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := current()
		if err != nil {
			return err
		}
		day := logListDay
		if day == "" {
			day = Store.Today()
		} else if _, err := time.Parse(models.DateLayout, day); err != nil {
			return fmt.Errorf("invalid --day %q (want YYYY-MM-DD)", day)
		}
		w := out(cmd)
		fmt.Fprintln(w, heading.Sprintf("Time log %s", day))

		logs := core.LogsOn(st, day)
		tbl := newTable()
		for _, l := range logs {
			tbl.AddRow(l.Timestamp.Format("15:04"), l.TaskName, formatSeconds(l.DurationSeconds))
		}
		for _, u := range st.UnplannedTasks {
			if u.Day == day {
				tbl.AddRow(u.CreatedAt.Format("15:04"), u.Text+faint.Sprint(" (unplanned)"), formatSeconds(u.DurationSeconds))
			}
		}
		if len(tbl.Rows) == 0 {
			fmt.Fprintln(w, "  Nothing logged.")
			return nil
		}
		fmt.Fprintln(w, tbl)
		fmt.Fprintf(w, "Total tracked: %s\n", bold.Sprint(formatSeconds(core.SecondsLoggedOn(st, day))))
		return nil
	},
}

// parseSeconds accepts a Go duration ("25m") or a bare number of minutes.
func parseSeconds(s string) (int, error) {
	d, err := time.ParseDuration(s)
	if err != nil {
		mins, convErr := strconv.Atoi(s)
		if convErr != nil {
			return 0, fmt.Errorf("invalid duration %q (e.g. 25m, 1h30m)", s)
		}
		d = time.Duration(mins) * time.Minute
	}
	if d <= 0 {
		return 0, fmt.Errorf("duration must be positive, got %s", s)
	}
	return int(d.Round(time.Second) / time.Second), nil
}

func indexByID[T identified](items []T, id string) int {
	for i, it := range items {
		if it.EntityID() == id {
			return i
		}
	}
	return -1
}

func init() {
	logTimeCmd.Flags().BoolVar(&logRoutine, "routine", false, "Log against a routine item")
	logListCmd.Flags().StringVar(&logListDay, "day", "", "Day to show (YYYY-MM-DD)")

	logCmd.AddCommand(logTimeCmd, logUnplannedCmd, logListCmd)
	rootCmd.AddCommand(logCmd)
}
