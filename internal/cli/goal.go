package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/valter-silva-au/dayplan/internal/core"
	"github.com/valter-silva-au/dayplan/pkg/models"
)

var goalCmd = &cobra.Command{
	Use:   "goal",
	Short: "Manage short- and long-term goals and their sub-goals",
	Long: `Goals group sub-goals and complete automatically when every sub-goal is
done. Sub-goals can be sent to today's plan as tasks.

Goals are addressed by their position in "goal list", a full ID or a unique
ID prefix. Archived goals are addressed through "goal list --archived".`,
}

var (
	goalCategory string
	goalDeadline string
	goalReview   string
	goalArchived bool
	goalText     string
	subAfter     []string
)

func parseCategory(s string) (models.GoalCategory, error) {
	switch strings.ToLower(strings.ReplaceAll(strings.TrimSpace(s), "-", " ")) {
	case "", "short", "short term":
		return models.CategoryShortTerm, nil
	case "long", "long term":
		return models.CategoryLongTerm, nil
	}
	return "", fmt.Errorf("unknown goal category %q (want short or long)", s)
}

// deadlineLabel renders a deadline relative to today.
func deadlineLabel(deadline, today string) string {
	days, ok := core.DaysUntil(deadline, today)
	if !ok {
		return ""
	}
	soon := core.DefaultGlobalConfig().Alerts.DeadlineDays
	if Config != nil {
		soon = Config.Alerts.DeadlineDays
	}
	switch {
	case days < 0:
		return blocked.Sprintf("overdue %s", deadline)
	case days == 0:
		return warn.Sprint("due today")
	case days <= soon:
		return warn.Sprintf("due in %dd", days)
	}
	return faint.Sprintf("due %s", deadline)
}

func goalIDs(st models.State) []string {
	if goalArchived {
		return idsOf(core.ArchivedGoals(st))
	}
	return idsOf(core.ActiveGoals(st))
}

func findGoal(st models.State, id string) (models.Goal, bool) {
	for _, g := range st.Goals {
		if g.ID == id {
			return g, true
		}
	}
	return models.Goal{}, false
}

func goalArg(arg string) (models.State, string, error) {
	st, err := current()
	if err != nil {
		return st, "", err
	}
	id, err := resolveID("goal", arg, goalIDs(st))
	return st, id, err
}

var goalAddCmd = &cobra.Command{
	Use:   "add <text>",
	Short: "Add a goal",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cat, err := parseCategory(goalCategory)
		if err != nil {
			return err
		}
		text := strings.Join(args, " ")
		in := core.AddGoal{Text: text, Category: cat, Deadline: goalDeadline, ReviewFrequency: models.ReviewFrequency(goalReview)}
		if err := dispatch(in, "adding goal"); err != nil {
			return err
		}
		fmt.Fprintf(out(cmd), "Added %s goal: %s\n", cat, text)
		return nil
	},
}

var goalListCmd = &cobra.Command{
	Use:   "list",
	Short: "List goals with progress and sub-goals",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := current()
		if err != nil {
			return err
		}
		goals := core.ActiveGoals(st)
		title := "Goals"
		if goalArchived {
			goals = core.ArchivedGoals(st)
			title = "Archived goals"
		}
		w := out(cmd)
		fmt.Fprintln(w, heading.Sprint(title))
		if len(goals) == 0 {
			fmt.Fprintln(w, "  No goals.")
			return nil
		}
		today := Store.Today()
		for i, g := range goals {
			var notes []string
			notes = append(notes, string(g.Category))
			if d := deadlineLabel(g.Deadline, today); d != "" {
				notes = append(notes, d)
			}
			if core.ReviewDue(g.ReviewFrequency, g.LastReviewed, today) {
				notes = append(notes, warn.Sprint("review due"))
			}
			fmt.Fprintf(w, "%d. %s %s %s  %s\n", i+1, checkbox(g.Completed), bold.Sprint(g.Text), progressBar(core.GoalProgress(g)), strings.Join(notes, ", "))
			printSubItems(cmd, subGoalRows(g))
		}
		return nil
	},
}

type subRow struct {
	id        string
	text      string
	completed bool
	blocked   bool
	linked    bool
}

func subGoalRows(g models.Goal) []subRow {
	rows := make([]subRow, len(g.SubGoals))
	for i, sg := range g.SubGoals {
		rows[i] = subRow{sg.ID, sg.Text, sg.Completed, !sg.Completed && core.IsBlocked(sg, g.SubGoals), sg.LinkedTaskID != ""}
	}
	return rows
}

func printSubItems(cmd *cobra.Command, rows []subRow) {
	if len(rows) == 0 {
		return
	}
	tbl := newTable()
	for i, r := range rows {
		text := r.text
		if r.blocked {
			text = blocked.Sprint("⛔ ") + text
		}
		var note string
		if r.linked {
			note = faint.Sprint("in plan")
		}
		tbl.AddRow("   "+strconv.Itoa(i+1)+".", checkbox(r.completed), text, note, faint.Sprint(shortID(r.id)))
	}
	fmt.Fprintln(out(cmd), tbl)
}

func goalAction(use, short, doing string, mk func(id string) core.Intent) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <goal>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, id, err := goalArg(args[0])
			if err != nil {
				return err
			}
			return dispatch(mk(id), doing)
		},
	}
}

var goalEditCmd = &cobra.Command{
	Use:   "edit <goal>",
	Short: "Edit a goal's text, category, deadline or review frequency",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, id, err := goalArg(args[0])
		if err != nil {
			return err
		}
		in := core.UpdateGoal{ID: id}
		flags := cmd.Flags()
		if flags.Changed("text") {
			in.Text = &goalText
		}
		if flags.Changed("category") {
			cat, err := parseCategory(goalCategory)
			if err != nil {
				return err
			}
			in.Category = &cat
		}
		if flags.Changed("deadline") {
			in.Deadline = &goalDeadline
		}
		if flags.Changed("review") {
			f := models.ReviewFrequency(goalReview)
			in.ReviewFrequency = &f
		}
		return dispatch(in, "editing goal")
	},
}

var goalSubCmd = &cobra.Command{
	Use:   "sub",
	Short: "Manage a goal's sub-goals",
}

// subGoalArgs resolves a goal argument and a sub-goal argument within it.
func subGoalArgs(goalArg, subArg string) (models.Goal, string, error) {
	st, err := current()
	if err != nil {
		return models.Goal{}, "", err
	}
	gid, err := resolveID("goal", goalArg, idsOf(core.ActiveGoals(st)))
	if err != nil {
		return models.Goal{}, "", err
	}
	g, _ := findGoal(st, gid)
	sid, err := resolveID("sub-goal", subArg, idsOf(g.SubGoals))
	return g, sid, err
}

var goalSubAddCmd = &cobra.Command{
	Use:   "add <goal> <text>",
	Short: "Add a sub-goal",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := current()
		if err != nil {
			return err
		}
		gid, err := resolveID("goal", args[0], idsOf(core.ActiveGoals(st)))
		if err != nil {
			return err
		}
		g, _ := findGoal(st, gid)
		deps, err := resolveIDs("sub-goal", subAfter, idsOf(g.SubGoals))
		if err != nil {
			return err
		}
		return dispatch(core.AddSubGoal{GoalID: gid, Text: strings.Join(args[1:], " "), DependsOn: deps}, "adding sub-goal")
	},
}

var goalSubDoneCmd = &cobra.Command{
	Use:   "done <goal> <sub-goal>",
	Short: "Toggle a sub-goal",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		g, sid, err := subGoalArgs(args[0], args[1])
		if err != nil {
			return err
		}
		if err := dispatch(core.ToggleSubGoal{GoalID: g.ID, SubGoalID: sid}, "toggling sub-goal"); err != nil {
			return err
		}
		if after, ok := findGoal(Store.State(), g.ID); ok {
			fmt.Fprintf(out(cmd), "%s %s\n", after.Text, progressBar(core.GoalProgress(after)))
		}
		return nil
	},
}

var goalSubRmCmd = &cobra.Command{
	Use:   "rm <goal> <sub-goal>",
	Short: "Delete a sub-goal",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		g, sid, err := subGoalArgs(args[0], args[1])
		if err != nil {
			return err
		}
		return dispatch(core.DeleteSubGoal{GoalID: g.ID, SubGoalID: sid}, "deleting sub-goal")
	},
}

var goalSubPlanCmd = &cobra.Command{
	Use:   "plan <goal> <sub-goal>",
	Short: "Send a sub-goal to today's plan as a task",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		g, sid, err := subGoalArgs(args[0], args[1])
		if err != nil {
			return err
		}
		if err := dispatch(core.SendSubGoalToPlan{GoalID: g.ID, SubGoalID: sid}, "sending sub-goal to plan"); err != nil {
			return err
		}
		fmt.Fprintln(out(cmd), "Sub-goal added to today's plan.")
		return nil
	},
}

var goalSubDependCmd = &cobra.Command{
	Use:   "depend <goal> <sub-goal> [depends-on...]",
	Short: "Set the sub-goals a sub-goal waits on",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		g, sid, err := subGoalArgs(args[0], args[1])
		if err != nil {
			return err
		}
		deps, err := resolveIDs("sub-goal", args[2:], idsOf(g.SubGoals))
		if err != nil {
			return err
		}
		return dispatch(core.SetSubGoalDependencies{GoalID: g.ID, SubGoalID: sid, DependsOn: deps}, "setting dependencies")
	},
}

func init() {
	goalAddCmd.Flags().StringVar(&goalCategory, "category", "short", "Goal category (short or long)")
	goalAddCmd.Flags().StringVar(&goalDeadline, "deadline", "", "Deadline (YYYY-MM-DD)")
	goalAddCmd.Flags().StringVar(&goalReview, "review", "", "Review frequency (none, daily, weekly, monthly)")

	goalEditCmd.Flags().StringVar(&goalText, "text", "", "New text")
	goalEditCmd.Flags().StringVar(&goalCategory, "category", "", "New category (short or long)")
	goalEditCmd.Flags().StringVar(&goalDeadline, "deadline", "", "New deadline (YYYY-MM-DD, empty clears)")
	goalEditCmd.Flags().StringVar(&goalReview, "review", "", "New review frequency")

	goalCmd.PersistentFlags().BoolVar(&goalArchived, "archived", false, "Address archived goals")
	goalSubAddCmd.Flags().StringSliceVar(&subAfter, "after", nil, "Sub-goals this sub-goal depends on")

	goalSubCmd.AddCommand(goalSubAddCmd, goalSubDoneCmd, goalSubRmCmd, goalSubPlanCmd, goalSubDependCmd)
	goalCmd.AddCommand(
		goalAddCmd,
		goalListCmd,
		goalEditCmd,
		goalAction("done", "Toggle a goal without sub-goals", "toggling goal", func(id string) core.Intent { return core.ToggleGoal{ID: id} }),
		goalAction("archive", "Archive a goal", "archiving goal", func(id string) core.Intent { return core.ArchiveGoal{ID: id} }),
		goalAction("restore", "Restore an archived goal (use with --archived)", "restoring goal", func(id string) core.Intent { return core.RestoreGoal{ID: id} }),
		goalAction("rm", "Permanently delete a goal", "deleting goal", func(id string) core.Intent { return core.DeleteGoal{ID: id} }),
		goalAction("review", "Mark a goal as reviewed today", "reviewing goal", func(id string) core.Intent { return core.MarkGoalReviewed{ID: id} }),
		goalSubCmd,
	)
	rootCmd.AddCommand(goalCmd)
}
