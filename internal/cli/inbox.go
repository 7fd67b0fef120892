package cli

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/valter-silva-au/dayplan/internal/core"
	"github.com/valter-silva-au/dayplan/internal/integration"
	"github.com/valter-silva-au/dayplan/pkg/models"
)

var inboxCmd = &cobra.Command{
	Use:   "inbox",
	Short: "Capture ideas and process them into tasks, goals or projects",
}

var (
	inboxAs       string
	inboxParent   string
	inboxCategory string
	inboxDeadline string
	inboxReview   string
	inboxWeekly   bool
)

var inboxCaptureCmd = &cobra.Command{
	Use:     "capture <text>",
	Aliases: []string{"add"},
	Short:   "Capture an idea into the inbox",
	Args:    cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := dispatch(core.CaptureInbox{Text: strings.Join(args, " ")}, "capturing to inbox"); err != nil {
			return err
		}
		fmt.Fprintf(out(cmd), "Captured. Inbox has %d item(s).\n", len(Store.State().Inbox))
		return nil
	},
}

var inboxListCmd = &cobra.Command{
	Use:   "list",
	Short: "List inbox items",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := current()
		if err != nil {
			return err
		}
		w := out(cmd)
		fmt.Fprintln(w, heading.Sprintf("Inbox (%d)", len(st.Inbox)))
		if len(st.Inbox) == 0 {
			fmt.Fprintln(w, "  Inbox zero.")
			return nil
		}
		tbl := newTable()
		for i, it := range st.Inbox {
			tbl.AddRow(strconv.Itoa(i+1), it.Text, faint.Sprint(it.CreatedAt.Format("Jan 2 15:04")), faint.Sprint(shortID(it.ID)))
		}
		fmt.Fprintln(w, tbl)
		return nil
	},
}

var inboxRmCmd = &cobra.Command{
	Use:   "rm <item>",
	Short: "Delete an inbox item",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := current()
		if err != nil {
			return err
		}
		id, err := resolveID("inbox item", args[0], idsOf(st.Inbox))
		if err != nil {
			return err
		}
		return dispatch(core.DeleteInboxItem{ID: id}, "deleting inbox item")
	},
}

var inboxProcessCmd = &cobra.Command{
	Use:   "process <item>",
	Short: "Turn an inbox item into a task, goal, project, sub-goal or sub-task",
	Long: `Process an inbox item in one step: the target is created and the item is
removed, or nothing changes.

  --as task                         today's plan
  --as goal [--category --deadline --review]
  --as project [--deadline --review]
  --as subgoal --parent <goal>      (add --weekly for a weekly goal)
  --as subtask --parent <project>`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := current()
		if err != nil {
			return err
		}
		itemID, err := resolveID("inbox item", args[0], idsOf(st.Inbox))
		if err != nil {
			return err
		}
		in := core.ProcessInbox{
			ItemID:          itemID,
			Deadline:        inboxDeadline,
			ReviewFrequency: models.ReviewFrequency(inboxReview),
		}
		switch strings.ToLower(inboxAs) {
		case "task":
			in.Action = core.InboxToTask
		case "goal":
			in.Action = core.InboxToGoal
			if in.Category, err = parseCategory(inboxCategory); err != nil {
				return err
			}
		case "project":
			in.Action = core.InboxToProject
		case "subgoal", "sub-goal":
			in.Action = core.InboxToSubGoal
			in.ParentKind = core.ParentGoal
			parents := idsOf(core.ActiveGoals(st))
			if inboxWeekly {
				in.ParentKind = core.ParentWeeklyGoal
				parents = idsOf(weeklyGoals(st))
			}
			if in.ParentID, err = resolveID("parent goal", inboxParent, parents); err != nil {
				return err
			}
		case "subtask", "sub-task":
			in.Action = core.InboxToSubTask
			if in.ParentID, err = resolveID("parent project", inboxParent, idsOf(core.ActiveProjects(st))); err != nil {
				return err
			}
		default:
			return fmt.Errorf("unknown target %q (want task, goal, project, subgoal or subtask)", inboxAs)
		}
		if err := dispatch(in, "processing inbox item"); err != nil {
			return err
		}
		fmt.Fprintf(out(cmd), "Processed as %s. Inbox has %d item(s).\n", strings.ToLower(inboxAs), len(Store.State().Inbox))
		return nil
	},
}

var inboxSyncDir string

var inboxSyncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Capture notes dropped into the capture folder",
	Long: `Read markdown or text notes from the capture folder (capture.dir in the
config, or --dir) and capture each one into the inbox. A note's frontmatter
subject, or else its first non-blank line, becomes the inbox text. Captured
notes are moved into processed/.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireStore(); err != nil {
			return err
		}
		drop, err := integration.NewCaptureDir(captureDir())
		if err != nil {
			return err
		}
		captures, err := drop.Pending()
		if err != nil {
			return err
		}
		w := out(cmd)
		for _, c := range captures {
			if err := dispatch(core.CaptureInbox{Text: c.Text}, "capturing "+c.ID); err != nil {
				return err
			}
			if err := drop.MarkProcessed(c, Store.Now()); err != nil {
				return err
			}
			fmt.Fprintf(w, "  + %s\n", c.Text)
		}
		fmt.Fprintf(w, "Captured %d note(s) from %s. Inbox has %d item(s).\n", len(captures), drop.Dir(), len(Store.State().Inbox))
		return nil
	},
}

// captureDir resolves the drop folder, relative to the base path unless
// absolute.
func captureDir() string {
	dir := inboxSyncDir
	if dir == "" {
		dir = core.DefaultGlobalConfig().Capture.Dir
		if Config != nil && Config.Capture.Dir != "" {
			dir = Config.Capture.Dir
		}
	}
	if filepath.IsAbs(dir) {
		return dir
	}
	return filepath.Join(BasePath, dir)
}

func init() {
	inboxSyncCmd.Flags().StringVar(&inboxSyncDir, "dir", "", "Capture folder (default: capture.dir from the config)")
	inboxProcessCmd.Flags().StringVar(&inboxAs, "as", "task", "Target: task, goal, project, subgoal, subtask")
	inboxProcessCmd.Flags().StringVar(&inboxParent, "parent", "", "Parent goal or project for subgoal/subtask")
	inboxProcessCmd.Flags().BoolVar(&inboxWeekly, "weekly", false, "Parent is a weekly goal")
	inboxProcessCmd.Flags().StringVar(&inboxCategory, "category", "short", "Goal category (short or long)")
	inboxProcessCmd.Flags().StringVar(&inboxDeadline, "deadline", "", "Deadline (YYYY-MM-DD)")
	inboxProcessCmd.Flags().StringVar(&inboxReview, "review", "", "Review frequency (none, daily, weekly, monthly)")

	inboxCmd.AddCommand(inboxCaptureCmd, inboxListCmd, inboxRmCmd, inboxProcessCmd, inboxSyncCmd)
	rootCmd.AddCommand(inboxCmd)
}
