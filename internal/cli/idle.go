package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/valter-silva-au/dayplan/internal/core"
	"github.com/valter-silva-au/dayplan/pkg/models"
)

var idleCmd = &cobra.Command{
	Use:   "idle",
	Short: "Log and list time spent away from tasks",
}

var idleTag string

var idleLogCmd = &cobra.Command{
	Use:   "log <description> <duration>",
	Short: "Classify a period away from work",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		seconds, err := parseSeconds(args[len(args)-1])
		if err != nil {
			return err
		}
		tag, err := parseIdleTag(idleTag)
		if err != nil {
			return err
		}
		desc := strings.Join(args[:len(args)-1], " ")
		if err := dispatch(core.LogIdleTime{Description: desc, Tag: tag, DurationSeconds: seconds}, "logging idle time"); err != nil {
			return err
		}
		fmt.Fprintf(out(cmd), "Logged %s of %s idle time.\n", formatSeconds(seconds), strings.ToLower(string(tag)))
		return nil
	},
}

var idleListCmd = &cobra.Command{
	Use:   "list",
	Short: "List today's idle periods",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := current()
		if err != nil {
			return err
		}
		w := out(cmd)
		today := Store.Today()
		fmt.Fprintln(w, heading.Sprintf("Idle time %s", today))
		tbl := newTable()
		totals := map[models.IdleTag]int{}
		for _, e := range st.IdleLog {
			if models.FormatDay(e.Timestamp) != today {
				continue
			}
			tbl.AddRow(e.Timestamp.Format("15:04"), e.Description, string(e.Tag), formatSeconds(e.DurationSeconds))
			totals[e.Tag] += e.DurationSeconds
		}
		if len(tbl.Rows) == 0 {
			fmt.Fprintln(w, "  No idle time logged.")
			return nil
		}
		fmt.Fprintln(w, tbl)
		fmt.Fprintf(w, "Productive %s, unproductive %s\n",
			formatSeconds(totals[models.IdleProductive]), formatSeconds(totals[models.IdleUnproductive]))
		return nil
	},
}

func parseIdleTag(s string) (models.IdleTag, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "productive", "p":
		return models.IdleProductive, nil
	case "unproductive", "u":
		return models.IdleUnproductive, nil
	}
	return "", fmt.Errorf("unknown idle tag %q (want productive or unproductive)", s)
}

func init() {
	idleLogCmd.Flags().StringVar(&idleTag, "tag", "productive", "productive or unproductive")
	idleCmd.AddCommand(idleLogCmd, idleListCmd)
	rootCmd.AddCommand(idleCmd)
}
