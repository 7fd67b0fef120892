package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/valter-silva-au/dayplan/internal/core"
	"github.com/valter-silva-au/dayplan/pkg/models"
)

var taskCmd = &cobra.Command{
	Use:   "task",
	Short: "Manage today's plan (add, list, done, rm, edit, move, depend)",
	Long: `Manage the tasks planned for today.

Tasks are addressed by their position in "task list", a full ID or a
unique ID prefix. Once the day has started, new non-bonus tasks are
captured to the inbox instead of the plan.`,
}

var (
	taskBonus     bool
	taskPriority  string
	taskTags      []string
	taskAfter     []string
	taskEstimate  int
	taskTomorrow  bool
	taskEditText  string
	taskListStage bool
)

var taskAddCmd = &cobra.Command{
	Use:   "add <text>",
	Short: "Add a task to today's plan, or stage it for tomorrow",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		text := strings.Join(args, " ")
		if taskTomorrow {
			if err := dispatch(core.StageTomorrowTask{Text: text, Priority: models.Priority(taskPriority), Tags: taskTags}, "staging task"); err != nil {
				return err
			}
			fmt.Fprintf(out(cmd), "Staged for tomorrow: %s\n", text)
			return nil
		}

		before, err := current()
		if err != nil {
			return err
		}
		deps, err := resolveIDs("task", taskAfter, idsOf(before.Plan.Tasks))
		if err != nil {
			return err
		}
		err = dispatch(core.AddTask{
			Text:            text,
			Priority:        models.Priority(taskPriority),
			Tags:            taskTags,
			DependsOn:       deps,
			Bonus:           taskBonus,
			EstimateMinutes: taskEstimate,
		}, "adding task")
		if err != nil {
			return err
		}

		after := Store.State()
		if len(after.Inbox) > len(before.Inbox) {
			fmt.Fprintf(out(cmd), "Day already started, captured to inbox: %s\n", text)
			return nil
		}
		fmt.Fprintf(out(cmd), "Added task %d: %s\n", len(after.Plan.Tasks), text)
		return nil
	},
}

var taskListCmd = &cobra.Command{
	Use:   "list",
	Short: "List today's tasks with blocked markers",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := current()
		if err != nil {
			return err
		}
		w := out(cmd)
		if taskListStage {
			fmt.Fprintln(w, heading.Sprint("Staged for tomorrow"))
			printTasks(cmd, st, st.TomorrowTasks)
			return nil
		}
		fmt.Fprintf(w, "%s  %s  score %d%%\n", heading.Sprintf("Plan %s", st.Plan.Date), faint.Sprint(core.DayStatus(st)), core.ScoreDay(st))
		printTasks(cmd, st, st.Plan.Tasks)
		return nil
	},
}

func printTasks(cmd *cobra.Command, st models.State, tasks []models.Task) {
	w := out(cmd)
	if len(tasks) == 0 {
		fmt.Fprintln(w, "  No tasks.")
		return
	}
	tbl := newTable()
	for i, t := range tasks {
		var notes []string
		if t.IsBonus {
			notes = append(notes, "bonus")
		}
		if t.Priority != "" && t.Priority != models.PriorityNone {
			notes = append(notes, string(t.Priority))
		}
		if len(t.Tags) > 0 {
			notes = append(notes, "#"+strings.Join(t.Tags, " #"))
		}
		if origin := core.OriginLabel(st, t); origin != "" {
			notes = append(notes, "from "+origin)
		}
		text := t.Text
		if !t.Completed && core.IsBlocked(t, tasks) {
			text = blocked.Sprint("⛔ ") + text
		}
		tbl.AddRow(strconv.Itoa(i+1), checkbox(t.Completed), text, faint.Sprint(strings.Join(notes, ", ")), faint.Sprint(shortID(t.ID)))
	}
	fmt.Fprintln(w, tbl)
}

var taskDoneCmd = &cobra.Command{
	Use:   "done <task>",
	Short: "Toggle a task's completion",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := current()
		if err != nil {
			return err
		}
		id, err := resolveID("task", args[0], idsOf(st.Plan.Tasks))
		if err != nil {
			return err
		}
		if err := dispatch(core.ToggleTask{ID: id}, "toggling task"); err != nil {
			return err
		}
		after := Store.State()
		fmt.Fprintf(out(cmd), "Score: %d%%\n", core.ScoreDay(after))
		return nil
	},
}

var taskRmCmd = &cobra.Command{
	Use:   "rm <task>",
	Short: "Delete a task from today's plan",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := current()
		if err != nil {
			return err
		}
		id, err := resolveID("task", args[0], idsOf(st.Plan.Tasks))
		if err != nil {
			return err
		}
		if err := dispatch(core.DeleteTask{ID: id}, "deleting task"); err != nil {
			return err
		}
		fmt.Fprintln(out(cmd), "Task deleted.")
		return nil
	},
}

var taskUnstageCmd = &cobra.Command{
	Use:   "unstage <task>",
	Short: "Remove a task staged for tomorrow",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := current()
		if err != nil {
			return err
		}
		id, err := resolveID("staged task", args[0], idsOf(st.TomorrowTasks))
		if err != nil {
			return err
		}
		return dispatch(core.UnstageTomorrowTask{ID: id}, "unstaging task")
	},
}

var taskEditCmd = &cobra.Command{
	Use:   "edit <task>",
	Short: "Edit a task's text, priority, tags or estimate",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := current()
		if err != nil {
			return err
		}
		id, err := resolveID("task", args[0], idsOf(st.Plan.Tasks))
		if err != nil {
			return err
		}
		in := core.UpdateTask{ID: id}
		flags := cmd.Flags()
		if flags.Changed("text") {
			in.Text = &taskEditText
		}
		if flags.Changed("priority") {
			p := models.Priority(taskPriority)
			in.Priority = &p
		}
		if flags.Changed("tags") {
			in.Tags = append([]string{}, taskTags...)
		}
		if flags.Changed("estimate") {
			in.EstimateMinutes = &taskEstimate
		}
		if err := dispatch(in, "editing task"); err != nil {
			return err
		}
		fmt.Fprintln(out(cmd), "Task updated.")
		return nil
	},
}

var taskMoveCmd = &cobra.Command{
	Use:   "move <task> <position>",
	Short: "Move a task to a new 1-based position",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := current()
		if err != nil {
			return err
		}
		id, err := resolveID("task", args[0], idsOf(st.Plan.Tasks))
		if err != nil {
			return err
		}
		pos, err := strconv.Atoi(args[1])
		if err != nil || pos < 1 {
			return fmt.Errorf("position must be a positive number, got %q", args[1])
		}
		return dispatch(core.MoveTask{ID: id, Position: pos - 1}, "moving task")
	},
}

var taskDependCmd = &cobra.Command{
	Use:   "depend <task> [depends-on...]",
	Short: "Set the tasks a task waits on; no dependencies clears them",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := current()
		if err != nil {
			return err
		}
		ids := idsOf(st.Plan.Tasks)
		id, err := resolveID("task", args[0], ids)
		if err != nil {
			return err
		}
		deps, err := resolveIDs("task", args[1:], ids)
		if err != nil {
			return err
		}
		if err := dispatch(core.SetTaskDependencies{ID: id, DependsOn: deps}, "setting dependencies"); err != nil {
			return err
		}
		fmt.Fprintf(out(cmd), "Task now depends on %d task(s).\n", len(deps))
		return nil
	},
}

func init() {
	taskAddCmd.Flags().BoolVar(&taskBonus, "bonus", false, "Bonus task, does not count against the day score")
	taskAddCmd.Flags().StringVar(&taskPriority, "priority", "", "Priority (high, medium, low, none)")
	taskAddCmd.Flags().StringSliceVar(&taskTags, "tags", nil, "Comma-separated tags")
	taskAddCmd.Flags().StringSliceVar(&taskAfter, "after", nil, "Tasks this task depends on")
	taskAddCmd.Flags().IntVar(&taskEstimate, "estimate", 0, "Estimate in minutes")
	taskAddCmd.Flags().BoolVar(&taskTomorrow, "tomorrow", false, "Stage the task for tomorrow's plan")

	taskListCmd.Flags().BoolVar(&taskListStage, "tomorrow", false, "List tasks staged for tomorrow")

	taskEditCmd.Flags().StringVar(&taskEditText, "text", "", "New text")
	taskEditCmd.Flags().StringVar(&taskPriority, "priority", "", "New priority")
	taskEditCmd.Flags().StringSliceVar(&taskTags, "tags", nil, "Replace tags")
	taskEditCmd.Flags().IntVar(&taskEstimate, "estimate", 0, "New estimate in minutes")

	taskCmd.AddCommand(taskAddCmd, taskListCmd, taskDoneCmd, taskRmCmd, taskUnstageCmd, taskEditCmd, taskMoveCmd, taskDependCmd)
	rootCmd.AddCommand(taskCmd)
}
