package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/valter-silva-au/dayplan/internal/core"
	"github.com/valter-silva-au/dayplan/internal/export"
	"github.com/valter-silva-au/dayplan/internal/storage"
)

var (
	exportFormat string
	exportTable  string
	exportOut    string
	importMode   string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the planner as JSON, YAML, Markdown or CSV",
	Long: `Export the planner document.

  json      full document, importable with "dayplan import"
  yaml      full document as YAML
  markdown  readable summary of the day, goals, projects and reflections
  csv       one entity table, chosen with --table
            (tasks, goals, routine, logs, projects, weekly, inbox)`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := current()
		if err != nil {
			return err
		}
		f, err := export.ParseFormat(exportFormat)
		if err != nil {
			return err
		}
		var exp export.Exporter
		if f == export.FormatCSV {
			t, err := export.ParseTable(exportTable)
			if err != nil {
				return err
			}
			exp = export.NewCSV(t)
		} else if exp, err = export.New(f); err != nil {
			return err
		}

		var w io.Writer = out(cmd)
		if exportOut != "" && exportOut != "-" {
			file, err := os.Create(exportOut)
			if err != nil {
				return fmt.Errorf("creating %s: %w", exportOut, err)
			}
			defer file.Close()
			w = file
		}
		if err := exp.Export(w, st); err != nil {
			return err
		}
		if exportOut != "" && exportOut != "-" {
			fmt.Fprintf(cmd.ErrOrStderr(), "Exported %s to %s\n", f, exportOut)
		}
		return nil
	},
}

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import a JSON export",
	Long: `Import a document written by "dayplan export --format json".

  --mode replace  the document replaces the current planner (default)
  --mode merge    entities missing locally are added, existing ones kept

An invalid document is rejected and nothing changes.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		doc, err := storage.ReadStateFile(args[0])
		if err != nil {
			return err
		}
		in := core.ImportState{Doc: *doc, Mode: core.ImportMode(importMode)}
		if err := dispatch(in, "importing "+args[0]); err != nil {
			return err
		}
		st := Store.State()
		fmt.Fprintf(out(cmd), "Imported (%s): %d task(s), %d goal(s), %d project(s), %d inbox item(s).\n",
			importMode, len(st.Plan.Tasks), len(st.Goals), len(st.Projects), len(st.Inbox))
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", "json", "json, yaml, markdown or csv")
	exportCmd.Flags().StringVar(&exportTable, "table", "tasks", "CSV table to export")
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "", "Write to a file instead of stdout")
	importCmd.Flags().StringVar(&importMode, "mode", string(core.ImportReplace), "replace or merge")
	rootCmd.AddCommand(exportCmd, importCmd)
}
