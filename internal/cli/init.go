package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/valter-silva-au/dayplan/internal/core"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the dayplan home with a default configuration",
	Long: `Create the dayplan home directory (DAYPLAN_HOME, default ~/.dayplan)
with a default .dayplanconfig and an empty planner document.

Safe to run again: an existing configuration is left untouched.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if ConfigMgr == nil {
			return fmt.Errorf("configuration manager not initialized")
		}
		path, err := ConfigMgr.WriteDefaultConfig()
		if err != nil {
			return fmt.Errorf("writing default config: %w", err)
		}
		w := out(cmd)
		fmt.Fprintf(w, "Config: %s\n", path)

		if err := dispatch(core.Refresh{}, "saving planner"); err != nil {
			return err
		}
		if Config != nil {
			fmt.Fprintf(w, "Store:  %s\n", filepath.Join(BasePath, Config.Storage.Dir))
		}
		fmt.Fprintln(w, "\nReady. Add your first task with: dayplan task add \"...\"")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
