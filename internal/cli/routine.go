package cli

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/valter-silva-au/dayplan/internal/core"
)

var routineCmd = &cobra.Command{
	Use:   "routine",
	Short: "Manage recurring daily routine items",
	Long: `Routine items recur on selected weekdays and reset every day. Routine
items scheduled for today count toward the day score.`,
}

var (
	routineDays  []string
	routineGoal  string
	routineAfter []string
)

var weekdayNames = map[string]time.Weekday{
	"sun": time.Sunday, "mon": time.Monday, "tue": time.Tuesday, "wed": time.Wednesday,
	"thu": time.Thursday, "fri": time.Friday, "sat": time.Saturday,
}

// parseWeekdays accepts weekday names (mon, tuesday) or numbers 0-6 with
// Sunday as 0.
func parseWeekdays(in []string) ([]int, error) {
	var days []int
	for _, raw := range in {
		s := strings.ToLower(strings.TrimSpace(raw))
		if s == "" {
			continue
		}
		if n, err := strconv.Atoi(s); err == nil {
			if n < 0 || n > 6 {
				return nil, fmt.Errorf("weekday %d out of range 0-6", n)
			}
			days = append(days, n)
			continue
		}
		if len(s) >= 3 {
			if d, ok := weekdayNames[s[:3]]; ok {
				days = append(days, int(d))
				continue
			}
		}
		return nil, fmt.Errorf("unknown weekday %q", raw)
	}
	return days, nil
}

var routineAddCmd = &cobra.Command{
	Use:   "add <text>",
	Short: "Add a routine item",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := current()
		if err != nil {
			return err
		}
		days, err := parseWeekdays(routineDays)
		if err != nil {
			return err
		}
		var goalID string
		if routineGoal != "" {
			if goalID, err = resolveID("goal", routineGoal, idsOf(core.ActiveGoals(st))); err != nil {
				return err
			}
		}
		deps, err := resolveIDs("routine item", routineAfter, idsOf(st.RoutineTasks))
		if err != nil {
			return err
		}
		text := strings.Join(args, " ")
		if err := dispatch(core.AddRoutineTask{Text: text, GoalID: goalID, Days: days, DependsOn: deps}, "adding routine item"); err != nil {
			return err
		}
		fmt.Fprintf(out(cmd), "Added routine item: %s\n", text)
		return nil
	},
}

var routineListCmd = &cobra.Command{
	Use:   "list",
	Short: "List routine items",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := current()
		if err != nil {
			return err
		}
		w := out(cmd)
		fmt.Fprintln(w, heading.Sprint("Routine"))
		if len(st.RoutineTasks) == 0 {
			fmt.Fprintln(w, "  No routine items.")
			return nil
		}
		today := Store.Now().Weekday()
		tbl := newTable()
		for i, r := range st.RoutineTasks {
			text := r.Text
			if !r.Completed && core.IsBlocked(r, st.RoutineTasks) {
				text = blocked.Sprint("⛔ ") + text
			}
			when := "daily"
			if len(r.RecurringDays) > 0 {
				names := make([]string, len(r.RecurringDays))
				for j, d := range r.RecurringDays {
					names[j] = time.Weekday(d).String()[:3]
				}
				when = strings.Join(names, ",")
			}
			if !r.ScheduledOn(today) {
				when += " (not today)"
			}
			tbl.AddRow(strconv.Itoa(i+1), checkbox(r.Completed), text, faint.Sprint(when), faint.Sprint(shortID(r.ID)))
		}
		fmt.Fprintln(w, tbl)
		return nil
	},
}

var routineDoneCmd = &cobra.Command{
	Use:   "done <item>",
	Short: "Toggle a routine item",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := current()
		if err != nil {
			return err
		}
		id, err := resolveID("routine item", args[0], idsOf(st.RoutineTasks))
		if err != nil {
			return err
		}
		return dispatch(core.ToggleRoutineTask{ID: id}, "toggling routine item")
	},
}

var routineRmCmd = &cobra.Command{
	Use:   "rm <item>",
	Short: "Delete a routine item",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := current()
		if err != nil {
			return err
		}
		id, err := resolveID("routine item", args[0], idsOf(st.RoutineTasks))
		if err != nil {
			return err
		}
		return dispatch(core.DeleteRoutineTask{ID: id}, "deleting routine item")
	},
}

var routineDependCmd = &cobra.Command{
	Use:   "depend <item> [depends-on...]",
	Short: "Set the routine items an item waits on",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := current()
		if err != nil {
			return err
		}
		ids := idsOf(st.RoutineTasks)
		id, err := resolveID("routine item", args[0], ids)
		if err != nil {
			return err
		}
		deps, err := resolveIDs("routine item", args[1:], ids)
		if err != nil {
			return err
		}
		return dispatch(core.SetRoutineDependencies{ID: id, DependsOn: deps}, "setting dependencies")
	},
}

func init() {
	routineAddCmd.Flags().StringSliceVar(&routineDays, "days", nil, "Weekdays the item recurs on (e.g. mon,wed,fri); default every day")
	routineAddCmd.Flags().StringVar(&routineGoal, "goal", "", "Goal this routine supports")
	routineAddCmd.Flags().StringSliceVar(&routineAfter, "after", nil, "Routine items this item depends on")

	routineCmd.AddCommand(routineAddCmd, routineListCmd, routineDoneCmd, routineRmCmd, routineDependCmd)
	rootCmd.AddCommand(routineCmd)
}
