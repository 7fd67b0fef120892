package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/valter-silva-au/dayplan/internal/core"
	"github.com/valter-silva-au/dayplan/pkg/models"
)

var weekCmd = &cobra.Command{
	Use:   "week",
	Short: "Manage this week's goals and run the weekly review",
}

func weeklyGoals(st models.State) []models.WeeklyGoal {
	if st.WeeklyPlan == nil {
		return nil
	}
	return st.WeeklyPlan.Goals
}

func weeklyGoalArg(arg string) (models.WeeklyGoal, error) {
	st, err := current()
	if err != nil {
		return models.WeeklyGoal{}, err
	}
	goals := weeklyGoals(st)
	id, err := resolveID("weekly goal", arg, idsOf(goals))
	if err != nil {
		return models.WeeklyGoal{}, err
	}
	for _, g := range goals {
		if g.ID == id {
			return g, nil
		}
	}
	return models.WeeklyGoal{}, fmt.Errorf("weekly goal %s not found", id)
}

func weeklySubArgs(goalArgV, subArg string) (models.WeeklyGoal, string, error) {
	g, err := weeklyGoalArg(goalArgV)
	if err != nil {
		return g, "", err
	}
	sid, err := resolveID("weekly sub-goal", subArg, idsOf(g.SubGoals))
	return g, sid, err
}

var weekAddCmd = &cobra.Command{
	Use:   "add <text>",
	Short: "Add a goal for this week",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return dispatch(core.AddWeeklyGoal{Text: strings.Join(args, " ")}, "adding weekly goal")
	},
}

var weekListCmd = &cobra.Command{
	Use:   "list",
	Short: "List this week's goals",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := current()
		if err != nil {
			return err
		}
		w := out(cmd)
		start := core.WeekStart(Store.Today())
		if st.WeeklyPlan != nil {
			start = st.WeeklyPlan.WeekStartDate
		}
		fmt.Fprintln(w, heading.Sprintf("Week of %s", start))
		goals := weeklyGoals(st)
		if len(goals) == 0 {
			fmt.Fprintln(w, "  No weekly goals.")
		}
		for i, g := range goals {
			fmt.Fprintf(w, "%d. %s %s %s\n", i+1, checkbox(g.Completed), bold.Sprint(g.Text), progressBar(core.WeeklyGoalProgress(g)))
			rows := make([]subRow, len(g.SubGoals))
			for j, sg := range g.SubGoals {
				rows[j] = subRow{sg.ID, sg.Text, sg.Completed, !sg.Completed && core.IsBlocked(sg, g.SubGoals), sg.LinkedTaskID != ""}
			}
			printSubItems(cmd, rows)
		}
		if core.WeeklyReviewAvailable(st) && st.WeeklyReviewStep == "" {
			fmt.Fprintln(w, faint.Sprint("Last week's review is available: dayplan week review start"))
		}
		return nil
	},
}

func weekAction(use, short, doing string, mk func(id string) core.Intent) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <weekly-goal>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := weeklyGoalArg(args[0])
			if err != nil {
				return err
			}
			return dispatch(mk(g.ID), doing)
		},
	}
}

var weekSubCmd = &cobra.Command{
	Use:   "sub",
	Short: "Manage a weekly goal's sub-goals",
}

var weekSubAddCmd = &cobra.Command{
	Use:   "add <weekly-goal> <text>",
	Short: "Add a weekly sub-goal",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		g, err := weeklyGoalArg(args[0])
		if err != nil {
			return err
		}
		deps, err := resolveIDs("weekly sub-goal", subAfter, idsOf(g.SubGoals))
		if err != nil {
			return err
		}
		return dispatch(core.AddWeeklySubGoal{WeeklyGoalID: g.ID, Text: strings.Join(args[1:], " "), DependsOn: deps}, "adding weekly sub-goal")
	},
}

func weekSubAction(use, short, doing string, mk func(goalID, subID string) core.Intent) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <weekly-goal> <sub-goal>",
		Short: short,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, sid, err := weeklySubArgs(args[0], args[1])
			if err != nil {
				return err
			}
			return dispatch(mk(g.ID, sid), doing)
		},
	}
}

var weekSubDependCmd = &cobra.Command{
	Use:   "depend <weekly-goal> <sub-goal> [depends-on...]",
	Short: "Set the sub-goals a weekly sub-goal waits on",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		g, sid, err := weeklySubArgs(args[0], args[1])
		if err != nil {
			return err
		}
		deps, err := resolveIDs("weekly sub-goal", args[2:], idsOf(g.SubGoals))
		if err != nil {
			return err
		}
		return dispatch(core.SetWeeklySubGoalDependencies{WeeklyGoalID: g.ID, SubGoalID: sid, DependsOn: deps}, "setting dependencies")
	},
}

var weekReviewCmd = &cobra.Command{
	Use:   "review",
	Short: "Run the weekly review: goals, performance, plan next week",
	Long: `The weekly review walks through last week's goals, last week's daily
scores, and then planning this week. It is available once last week had at
least one weekly goal.

  dayplan week review start     begin at the goals step
  dayplan week review next      advance to the next step
  dayplan week review plan ...  add goals for this week (plan step)
  dayplan week review close     finish the review`,
}

var weekReviewStartCmd = &cobra.Command{
	Use:   "start",
	Short: "Begin the weekly review",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := dispatch(core.BeginWeeklyReview{}, "starting weekly review"); err != nil {
			return err
		}
		return printReviewStep(cmd)
	},
}

var weekReviewNextCmd = &cobra.Command{
	Use:   "next",
	Short: "Advance the weekly review",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := dispatch(core.AdvanceWeeklyReview{}, "advancing weekly review"); err != nil {
			return err
		}
		return printReviewStep(cmd)
	},
}

var weekReviewPlanCmd = &cobra.Command{
	Use:   "plan <goal>...",
	Short: "Add goals for this week; each argument is one goal",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := dispatch(core.PlanNextWeek{Goals: args}, "planning week"); err != nil {
			return err
		}
		fmt.Fprintf(out(cmd), "Planned %d goal(s) for this week.\n", len(args))
		return nil
	},
}

var weekReviewCloseCmd = &cobra.Command{
	Use:   "close",
	Short: "Finish the weekly review",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return dispatch(core.CloseWeeklyReview{}, "closing weekly review")
	},
}

func printReviewStep(cmd *cobra.Command) error {
	st := Store.State()
	w := out(cmd)
	switch st.WeeklyReviewStep {
	case models.WeeklyReviewGoals:
		fmt.Fprintln(w, heading.Sprintf("Last week (%s): goals", st.LastWeekPlan.WeekStartDate))
		for i, g := range st.LastWeekPlan.Goals {
			fmt.Fprintf(w, "%d. %s %s %s\n", i+1, checkbox(g.Completed), g.Text, progressBar(core.WeeklyGoalProgress(g)))
		}
	case models.WeeklyReviewPerformance:
		sum := core.LastWeekSummary(st)
		fmt.Fprintln(w, heading.Sprintf("Last week (%s): performance", sum.WeekStart))
		fmt.Fprintf(w, "Goals completed: %d/%d\n", sum.GoalsCompleted, sum.GoalsTotal)
		tbl := newTable()
		for _, r := range sum.Records {
			tbl.AddRow(r.Date, fmt.Sprintf("%d%%", r.Score))
		}
		fmt.Fprintln(w, tbl)
		fmt.Fprintf(w, "Average score: %d%%\n", sum.AverageScore)
	case models.WeeklyReviewPlanNext:
		fmt.Fprintln(w, heading.Sprint("Plan this week"))
		fmt.Fprintln(w, `Add goals with: dayplan week review plan "goal one" "goal two"`)
	}
	return nil
}

func init() {
	weekSubAddCmd.Flags().StringSliceVar(&subAfter, "after", nil, "Sub-goals this sub-goal depends on")

	weekSubCmd.AddCommand(
		weekSubAddCmd,
		weekSubAction("done", "Toggle a weekly sub-goal", "toggling weekly sub-goal", func(g, s string) core.Intent {
			return core.ToggleWeeklySubGoal{WeeklyGoalID: g, SubGoalID: s}
		}),
		weekSubAction("rm", "Delete a weekly sub-goal", "deleting weekly sub-goal", func(g, s string) core.Intent {
			return core.DeleteWeeklySubGoal{WeeklyGoalID: g, SubGoalID: s}
		}),
		weekSubAction("plan", "Send a weekly sub-goal to today's plan", "sending weekly sub-goal to plan", func(g, s string) core.Intent {
			return core.SendWeeklySubGoalToPlan{WeeklyGoalID: g, SubGoalID: s}
		}),
		weekSubDependCmd,
	)
	weekReviewCmd.AddCommand(weekReviewStartCmd, weekReviewNextCmd, weekReviewPlanCmd, weekReviewCloseCmd)
	weekCmd.AddCommand(
		weekAddCmd,
		weekListCmd,
		weekAction("done", "Toggle a weekly goal without sub-goals", "toggling weekly goal", func(id string) core.Intent { return core.ToggleWeeklyGoal{ID: id} }),
		weekAction("rm", "Delete a weekly goal", "deleting weekly goal", func(id string) core.Intent { return core.DeleteWeeklyGoal{ID: id} }),
		weekSubCmd,
		weekReviewCmd,
	)
	rootCmd.AddCommand(weekCmd)
}
