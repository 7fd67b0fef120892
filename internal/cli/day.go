package cli

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/valter-silva-au/dayplan/internal/core"
	"github.com/valter-silva-au/dayplan/pkg/models"
)

var dayCmd = &cobra.Command{
	Use:   "day",
	Short: "Start, inspect, roll over and shut down the day",
}

var dayStartCmd = &cobra.Command{
	Use:   "start",
	Short: "Lock today's plan",
	Long: `Start the day. Afterwards new tasks are captured to the inbox unless
they are bonus tasks. Starting is refused while yesterday's unfinished
tasks still need a decision, see "dayplan day rollover".`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := current()
		if err != nil {
			return err
		}
		if st.Plan.Started {
			fmt.Fprintln(out(cmd), "Day already started.")
			return nil
		}
		if err := Store.Dispatch(core.StartDay{}); err != nil {
			if errors.Is(err, core.ErrRolloverPending) {
				return fmt.Errorf("%d unfinished task(s) from %s need a decision first: run \"dayplan day rollover\"",
					len(st.PendingRollover.Tasks), st.PendingRollover.FromDate)
			}
			return fmt.Errorf("starting day: %w", err)
		}
		fmt.Fprintf(out(cmd), "Day started with %d task(s). Have a focused day.\n", len(st.Plan.Tasks))
		return nil
	},
}

var dayStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the day phase, score, streak and what needs attention",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := current()
		if err != nil {
			return err
		}
		w := out(cmd)
		today := Store.Today()
		tally := core.TallyDay(st)

		fmt.Fprintln(w, heading.Sprintf("Day %s", st.Plan.Date))
		tbl := newTable()
		tbl.AddRow("Phase:", string(core.DayStatus(st)))
		tbl.AddRow("Score:", fmt.Sprintf("%d%% (%d/%d eligible done, %d bonus)", tally.Score(), tally.EligibleDone, tally.Eligible, tally.Bonus))
		tbl.AddRow("Streak:", fmt.Sprintf("%d (longest %d)", core.LiveStreak(st, today, streakThreshold()), st.Streak.Longest))
		tbl.AddRow("Time logged:", formatSeconds(core.SecondsLoggedOn(st, today)))
		tbl.AddRow("Inbox:", strconv.Itoa(len(st.Inbox)))
		tbl.AddRow("Tomorrow:", fmt.Sprintf("%d staged", len(st.TomorrowTasks)))
		fmt.Fprintln(w, tbl)

		if pr := st.PendingRollover; pr != nil {
			fmt.Fprintln(w, warn.Sprintf("%d unfinished task(s) from %s waiting: dayplan day rollover", len(pr.Tasks), pr.FromDate))
		}
		if due := core.DueForReview(st, today); len(due) > 0 {
			fmt.Fprintln(w, bold.Sprint("Due for review:"))
			for _, r := range due {
				fmt.Fprintf(w, "  %s %s\n", faint.Sprint(r.Kind), r.Text)
			}
		}
		if core.WeeklyReviewAvailable(st) && st.WeeklyReviewStep == "" {
			fmt.Fprintln(w, faint.Sprint("Weekly review available: dayplan week review start"))
		}
		return nil
	},
}

var (
	rolloverCarry []string
	rolloverInbox []string
	rolloverAll   bool
)

var dayRolloverCmd = &cobra.Command{
	Use:   "rollover",
	Short: "Show or resolve yesterday's unfinished tasks",
	Long: `Without flags, list the unfinished tasks from the previous plan.

With --carry, --inbox or --all, resolve them: carried tasks join today's
plan, inbox tasks become inbox items and every other task is dropped.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := current()
		if err != nil {
			return err
		}
		w := out(cmd)
		pr := st.PendingRollover
		if pr == nil {
			fmt.Fprintln(w, "Nothing to roll over.")
			return nil
		}
		ids := idsOf(pr.Tasks)
		if !rolloverAll && len(rolloverCarry) == 0 && len(rolloverInbox) == 0 {
			fmt.Fprintln(w, heading.Sprintf("Unfinished from %s", pr.FromDate))
			tbl := newTable()
			for i, t := range pr.Tasks {
				tbl.AddRow(strconv.Itoa(i+1), t.Text, faint.Sprint(shortID(t.ID)))
			}
			fmt.Fprintln(w, tbl)
			fmt.Fprintln(w, faint.Sprint("Resolve with --carry <n>, --inbox <n> or --all."))
			return nil
		}

		in := core.ResolveRollover{}
		if rolloverAll {
			in.Carry = ids
		} else if in.Carry, err = resolveIDs("task", rolloverCarry, ids); err != nil {
			return err
		}
		if in.ToInbox, err = resolveIDs("task", rolloverInbox, ids); err != nil {
			return err
		}
		if err := dispatch(in, "resolving rollover"); err != nil {
			return err
		}
		fmt.Fprintf(w, "Rollover resolved: %d carried, %d to inbox, %d dropped.\n",
			len(in.Carry), len(in.ToInbox), len(pr.Tasks)-countResolved(in))
		return nil
	},
}

func countResolved(in core.ResolveRollover) int {
	seen := make(map[string]bool)
	for _, id := range append(append([]string(nil), in.Carry...), in.ToInbox...) {
		seen[id] = true
	}
	return len(seen)
}

var (
	shutdownToInbox  []string
	shutdownWentWell string
	shutdownImprove  string
	shutdownNotes    string
	shutdownSkip     bool
	shutdownNext     []string
	shutdownAbort    bool
)

var dayShutdownCmd = &cobra.Command{
	Use:   "shutdown",
	Short: "Run the end-of-day routine",
	Long: `Close out the day in one pass: review unfinished tasks (optionally moving
some to the inbox), reflect, and stage tasks for tomorrow.

The reflection step is skipped when today already has a reflection.

Example:
  dayplan day shutdown --inbox 3 --went-well "shipped" --next "write tests"`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := current()
		if err != nil {
			return err
		}
		w := out(cmd)
		if shutdownAbort {
			if err := dispatch(core.CloseShutdown{}, "closing shutdown"); err != nil {
				return err
			}
			fmt.Fprintln(w, "Shutdown closed.")
			return nil
		}

		moved, err := resolveIDs("task", shutdownToInbox, idsOf(st.Plan.Tasks))
		if err != nil {
			return err
		}
		if err := dispatch(core.BeginShutdown{}, "starting shutdown"); err != nil {
			return err
		}
		if err := dispatch(core.ShutdownReview{MoveToInbox: moved}, "reviewing tasks"); err != nil {
			return err
		}
		if Store.State().ShutdownStep == models.ShutdownReflect {
			skip := shutdownSkip || (shutdownWentWell == "" && shutdownImprove == "" && shutdownNotes == "")
			err := dispatch(core.ShutdownReflect{
				WentWell:  shutdownWentWell,
				ToImprove: shutdownImprove,
				Notes:     shutdownNotes,
				Skip:      skip,
			}, "reflecting")
			if err != nil {
				return err
			}
		}
		if err := dispatch(core.ShutdownPlanNext{Tasks: shutdownNext}, "planning tomorrow"); err != nil {
			return err
		}

		after := Store.State()
		fmt.Fprintln(w, heading.Sprintf("Shutdown complete for %s", after.Plan.Date))
		fmt.Fprintf(w, "Score: %d%%\n", core.ScoreDay(after))
		if len(moved) > 0 {
			fmt.Fprintf(w, "Moved %d task(s) to the inbox.\n", len(moved))
		}
		fmt.Fprintf(w, "%d task(s) staged for tomorrow.\n", len(after.TomorrowTasks))
		return nil
	},
}

func streakThreshold() int {
	if Config == nil {
		return core.DefaultGlobalConfig().Streak.Threshold
	}
	return Config.Streak.Threshold
}

func init() {
	dayRolloverCmd.Flags().StringSliceVar(&rolloverCarry, "carry", nil, "Tasks to carry into today")
	dayRolloverCmd.Flags().StringSliceVar(&rolloverInbox, "inbox", nil, "Tasks to move to the inbox")
	dayRolloverCmd.Flags().BoolVar(&rolloverAll, "all", false, "Carry every unfinished task")

	dayShutdownCmd.Flags().StringSliceVar(&shutdownToInbox, "inbox", nil, "Unfinished tasks to move to the inbox")
	dayShutdownCmd.Flags().StringVar(&shutdownWentWell, "went-well", "", "What went well today")
	dayShutdownCmd.Flags().StringVar(&shutdownImprove, "improve", "", "What to improve")
	dayShutdownCmd.Flags().StringVar(&shutdownNotes, "notes", "", "Free-form notes")
	dayShutdownCmd.Flags().BoolVar(&shutdownSkip, "skip-reflect", false, "Skip the reflection")
	dayShutdownCmd.Flags().StringArrayVar(&shutdownNext, "next", nil, "Task to stage for tomorrow (repeatable)")
	dayShutdownCmd.Flags().BoolVar(&shutdownAbort, "close", false, "Leave an unfinished shutdown")

	dayCmd.AddCommand(dayStartCmd, dayStatusCmd, dayRolloverCmd, dayShutdownCmd)
	rootCmd.AddCommand(dayCmd)
}
