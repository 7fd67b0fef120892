package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/valter-silva-au/dayplan/internal/core"
	"github.com/valter-silva-au/dayplan/pkg/models"
)

var projectCmd = &cobra.Command{
	Use:   "project",
	Short: "Manage projects and their sub-tasks",
	Long: `Projects group sub-tasks and complete automatically when every sub-task
is done. Sub-tasks can be sent to today's plan.`,
}

var (
	projectDeadline string
	projectReview   string
	projectText     string
	projectArchived bool
)

func projectIDs(st models.State) []string {
	var ids []string
	for _, p := range st.Projects {
		if p.Archived == projectArchived {
			ids = append(ids, p.ID)
		}
	}
	return ids
}

func findProject(st models.State, id string) (models.Project, bool) {
	for _, p := range st.Projects {
		if p.ID == id {
			return p, true
		}
	}
	return models.Project{}, false
}

func projectArg(arg string) (models.State, string, error) {
	st, err := current()
	if err != nil {
		return st, "", err
	}
	id, err := resolveID("project", arg, projectIDs(st))
	return st, id, err
}

func subTaskArgs(projectArgV, subArg string) (models.Project, string, error) {
	st, id, err := projectArg(projectArgV)
	if err != nil {
		return models.Project{}, "", err
	}
	p, _ := findProject(st, id)
	sid, err := resolveID("sub-task", subArg, idsOf(p.SubTasks))
	return p, sid, err
}

var projectAddCmd = &cobra.Command{
	Use:   "add <text>",
	Short: "Add a project",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		text := strings.Join(args, " ")
		in := core.AddProject{Text: text, Deadline: projectDeadline, ReviewFrequency: models.ReviewFrequency(projectReview)}
		if err := dispatch(in, "adding project"); err != nil {
			return err
		}
		fmt.Fprintf(out(cmd), "Added project: %s\n", text)
		return nil
	},
}

var projectListCmd = &cobra.Command{
	Use:   "list",
	Short: "List projects with progress and sub-tasks",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := current()
		if err != nil {
			return err
		}
		w := out(cmd)
		title := "Projects"
		if projectArchived {
			title = "Archived projects"
		}
		fmt.Fprintln(w, heading.Sprint(title))
		today := Store.Today()
		n := 0
		for _, p := range st.Projects {
			if p.Archived != projectArchived {
				continue
			}
			n++
			var notes []string
			if d := deadlineLabel(p.Deadline, today); d != "" {
				notes = append(notes, d)
			}
			if core.ReviewDue(p.ReviewFrequency, p.LastReviewed, today) {
				notes = append(notes, warn.Sprint("review due"))
			}
			fmt.Fprintf(w, "%d. %s %s %s  %s\n", n, checkbox(p.Completed), bold.Sprint(p.Text), progressBar(core.ProjectProgress(p)), strings.Join(notes, ", "))
			rows := make([]subRow, len(p.SubTasks))
			for i, sub := range p.SubTasks {
				rows[i] = subRow{sub.ID, sub.Text, sub.Completed, !sub.Completed && core.IsBlocked(sub, p.SubTasks), sub.LinkedTaskID != ""}
			}
			printSubItems(cmd, rows)
		}
		if n == 0 {
			fmt.Fprintln(w, "  No projects.")
		}
		return nil
	},
}

func projectAction(use, short, doing string, mk func(id string) core.Intent) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <project>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, id, err := projectArg(args[0])
			if err != nil {
				return err
			}
			return dispatch(mk(id), doing)
		},
	}
}

var projectEditCmd = &cobra.Command{
	Use:   "edit <project>",
	Short: "Edit a project's text, deadline or review frequency",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, id, err := projectArg(args[0])
		if err != nil {
			return err
		}
		in := core.UpdateProject{ID: id}
		flags := cmd.Flags()
		if flags.Changed("text") {
			in.Text = &projectText
		}
		if flags.Changed("deadline") {
			in.Deadline = &projectDeadline
		}
		if flags.Changed("review") {
			f := models.ReviewFrequency(projectReview)
			in.ReviewFrequency = &f
		}
		return dispatch(in, "editing project")
	},
}

var projectSubCmd = &cobra.Command{
	Use:   "sub",
	Short: "Manage a project's sub-tasks",
}

var projectSubAddCmd = &cobra.Command{
	Use:   "add <project> <text>",
	Short: "Add a sub-task",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, id, err := projectArg(args[0])
		if err != nil {
			return err
		}
		p, _ := findProject(st, id)
		deps, err := resolveIDs("sub-task", subAfter, idsOf(p.SubTasks))
		if err != nil {
			return err
		}
		return dispatch(core.AddSubTask{ProjectID: id, Text: strings.Join(args[1:], " "), DependsOn: deps}, "adding sub-task")
	},
}

var projectSubDoneCmd = &cobra.Command{
	Use:   "done <project> <sub-task>",
	Short: "Toggle a sub-task",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, sid, err := subTaskArgs(args[0], args[1])
		if err != nil {
			return err
		}
		if err := dispatch(core.ToggleSubTask{ProjectID: p.ID, SubTaskID: sid}, "toggling sub-task"); err != nil {
			return err
		}
		if after, ok := findProject(Store.State(), p.ID); ok {
			fmt.Fprintf(out(cmd), "%s %s\n", after.Text, progressBar(core.ProjectProgress(after)))
		}
		return nil
	},
}

var projectSubRmCmd = &cobra.Command{
	Use:   "rm <project> <sub-task>",
	Short: "Delete a sub-task",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, sid, err := subTaskArgs(args[0], args[1])
		if err != nil {
			return err
		}
		return dispatch(core.DeleteSubTask{ProjectID: p.ID, SubTaskID: sid}, "deleting sub-task")
	},
}

var projectSubPlanCmd = &cobra.Command{
	Use:   "plan <project> <sub-task>",
	Short: "Send a sub-task to today's plan",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, sid, err := subTaskArgs(args[0], args[1])
		if err != nil {
			return err
		}
		if err := dispatch(core.SendSubTaskToPlan{ProjectID: p.ID, SubTaskID: sid}, "sending sub-task to plan"); err != nil {
			return err
		}
		fmt.Fprintln(out(cmd), "Sub-task added to today's plan.")
		return nil
	},
}

var projectSubDependCmd = &cobra.Command{
	Use:   "depend <project> <sub-task> [depends-on...]",
	Short: "Set the sub-tasks a sub-task waits on",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, sid, err := subTaskArgs(args[0], args[1])
		if err != nil {
			return err
		}
		deps, err := resolveIDs("sub-task", args[2:], idsOf(p.SubTasks))
		if err != nil {
			return err
		}
		return dispatch(core.SetSubTaskDependencies{ProjectID: p.ID, SubTaskID: sid, DependsOn: deps}, "setting dependencies")
	},
}

func init() {
	projectAddCmd.Flags().StringVar(&projectDeadline, "deadline", "", "Deadline (YYYY-MM-DD)")
	projectAddCmd.Flags().StringVar(&projectReview, "review", "", "Review frequency (none, daily, weekly, monthly)")

	projectEditCmd.Flags().StringVar(&projectText, "text", "", "New text")
	projectEditCmd.Flags().StringVar(&projectDeadline, "deadline", "", "New deadline (YYYY-MM-DD, empty clears)")
	projectEditCmd.Flags().StringVar(&projectReview, "review", "", "New review frequency")

	projectCmd.PersistentFlags().BoolVar(&projectArchived, "archived", false, "Address archived projects")
	projectSubAddCmd.Flags().StringSliceVar(&subAfter, "after", nil, "Sub-tasks this sub-task depends on")

	projectSubCmd.AddCommand(projectSubAddCmd, projectSubDoneCmd, projectSubRmCmd, projectSubPlanCmd, projectSubDependCmd)
	projectCmd.AddCommand(
		projectAddCmd,
		projectListCmd,
		projectEditCmd,
		projectAction("done", "Toggle a project without sub-tasks", "toggling project", func(id string) core.Intent { return core.ToggleProject{ID: id} }),
		projectAction("archive", "Archive a project", "archiving project", func(id string) core.Intent { return core.ArchiveProject{ID: id} }),
		projectAction("restore", "Restore an archived project (use with --archived)", "restoring project", func(id string) core.Intent { return core.RestoreProject{ID: id} }),
		projectAction("rm", "Permanently delete a project", "deleting project", func(id string) core.Intent { return core.DeleteProject{ID: id} }),
		projectAction("review", "Mark a project as reviewed today", "reviewing project", func(id string) core.Intent { return core.MarkProjectReviewed{ID: id} }),
		projectSubCmd,
	)
	rootCmd.AddCommand(projectCmd)
}
