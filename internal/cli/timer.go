package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"time"

	"github.com/spf13/cobra"
	"github.com/valter-silva-au/dayplan/internal/core"
)

var (
	timerMinutes int
	timerRoutine bool
)

var timerCmd = &cobra.Command{
	Use:   "timer <task>",
	Short: "Run a focus timer for a task in the foreground",
	Long: `Count down a focus timer for a plan task (or routine item with --routine).
When the timer finishes, or you press Ctrl-C, the elapsed time is logged
against the task.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := current()
		if err != nil {
			return err
		}
		var id, name string
		if timerRoutine {
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

		cfg := core.DefaultGlobalConfig()
		if Config != nil {
			cfg = Config
		}
		sess := core.NewSession(Store, core.NewTickerScheduler(), *cfg)
		defer sess.Close()

		w := out(cmd)
		finished := make(chan core.TimerState, 1)
		var once sync.Once
		sess.Timer.OnChange(func(ts core.TimerState) {
			if !ts.Active {
				once.Do(func() { finished <- ts })
				return
			}
			if ts.RemainingSeconds%60 == 0 {
				fmt.Fprintf(w, "  %s remaining\n", formatSeconds(ts.RemainingSeconds))
			}
		})

		parent := cmd.Context()
		if parent == nil {
			parent = context.Background()
		}
		ctx, stop := signal.NotifyContext(parent, os.Interrupt)
		defer stop()

		sess.StartTimer(id, name, time.Duration(timerMinutes)*time.Minute)
		fmt.Fprintf(w, "Focus: %s (%s). Ctrl-C to stop.\n", bold.Sprint(name), formatSeconds(sess.Timer.State().RemainingSeconds))

		var final core.TimerState
		select {
		case final = <-finished:
		case <-ctx.Done():
			sess.StopTimer()
			final = <-finished
		}
		fmt.Fprintf(w, "Logged %s on %q.\n", formatSeconds(final.ElapsedSeconds), name)
		return nil
	},
}

func init() {
	timerCmd.Flags().IntVarP(&timerMinutes, "minutes", "m", 0, "Timer length in minutes (default from config)")
	timerCmd.Flags().BoolVar(&timerRoutine, "routine", false, "Time a routine item")
	rootCmd.AddCommand(timerCmd)
}
