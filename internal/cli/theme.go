package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/valter-silva-au/dayplan/internal/core"
)

var themeCmd = &cobra.Command{
	Use:   "theme",
	Short: "Toggle between the dark and light dashboard themes",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := dispatch(core.ToggleTheme{}, "toggling theme"); err != nil {
			return err
		}
		fmt.Fprintf(out(cmd), "Theme: %s\n", Store.State().Theme)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(themeCmd)
}
