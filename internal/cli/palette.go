package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/valter-silva-au/dayplan/internal/core"
	"github.com/valter-silva-au/dayplan/internal/export"
)

var paletteCmd = &cobra.Command{
	Use:   "palette [query]",
	Short: "Search the command palette",
	Long: `List palette commands matching every word of the query. Run one with
"dayplan palette run <name> [text]".`,
	RunE: func(cmd *cobra.Command, args []string) error {
		w := out(cmd)
		matches := core.SearchCommands(strings.Join(args, " "))
		if len(matches) == 0 {
			fmt.Fprintln(w, "No matching commands.")
			return nil
		}
		tbl := newTable()
		for _, c := range matches {
			hint := ""
			if c.NeedsText {
				hint = faint.Sprint("<text>")
			}
			tbl.AddRow(bold.Sprint(c.Name), hint, c.Title)
		}
		fmt.Fprintln(w, tbl)
		return nil
	},
}

var paletteRunCmd = &cobra.Command{
	Use:   "run <name> [text]",
	Short: "Run a palette command",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, ok := core.LookupCommand(args[0])
		if !ok {
			return fmt.Errorf("unknown command %q (see \"dayplan palette\")", args[0])
		}
		text := strings.Join(args[1:], " ")
		if c.NeedsText && strings.TrimSpace(text) == "" {
			return fmt.Errorf("%s needs text", c.Name)
		}
		in, ok := core.CommandIntent(c.ID, text)
		if !ok {
			st, err := current()
			if err != nil {
				return err
			}
			exp, err := export.New(export.FormatJSON)
			if err != nil {
				return err
			}
			return exp.Export(out(cmd), st)
		}
		if err := dispatch(in, strings.ToLower(c.Title)); err != nil {
			return err
		}
		fmt.Fprintf(out(cmd), "%s: done.\n", c.Title)
		return nil
	},
}

func init() {
	paletteCmd.AddCommand(paletteRunCmd)
	rootCmd.AddCommand(paletteCmd)
}
