package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/valter-silva-au/dayplan/internal/core"
)

var (
	reflectWentWell string
	reflectImprove  string
	reflectNotes    string
	reflectShow     bool
)

var reflectCmd = &cobra.Command{
	Use:   "reflect",
	Short: "Write or show today's reflection",
	Long: `Record what went well, what to improve and notes for today. Writing
again on the same day replaces the earlier reflection.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		w := out(cmd)
		if !reflectShow {
			err := dispatch(core.AddReflection{
				WentWell:  reflectWentWell,
				ToImprove: reflectImprove,
				Notes:     reflectNotes,
			}, "saving reflection")
			if err != nil {
				return err
			}
		}
		st, err := current()
		if err != nil {
			return err
		}
		r := core.ReflectionFor(st, Store.Today())
		if r == nil {
			fmt.Fprintln(w, "No reflection for today yet.")
			return nil
		}
		fmt.Fprintln(w, heading.Sprintf("Reflection %s", r.Date))
		tbl := newTable()
		tbl.AddRow("Went well:", r.WentWell)
		tbl.AddRow("To improve:", r.ToImprove)
		tbl.AddRow("Notes:", r.Notes)
		fmt.Fprintln(w, tbl)
		return nil
	},
}

func init() {
	reflectCmd.Flags().StringVar(&reflectWentWell, "went-well", "", "What went well")
	reflectCmd.Flags().StringVar(&reflectImprove, "improve", "", "What to improve")
	reflectCmd.Flags().StringVar(&reflectNotes, "notes", "", "Free-form notes")
	reflectCmd.Flags().BoolVar(&reflectShow, "show", false, "Only show today's reflection")
	rootCmd.AddCommand(reflectCmd)
}
