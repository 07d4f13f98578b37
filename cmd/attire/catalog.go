package main

import (
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var (
	catalogDBOverride string
	catalogJSONOutput bool
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Manage the SQLite clothing catalog",
	Long:  "Import, list, and delete catalog items in the SQLite store without running the server.",
}

func init() {
	catalogCmd.PersistentFlags().StringVar(&catalogDBOverride, "db", "",
		"Database path (overrides config and ATTIRE_DB_PATH)")
	catalogCmd.PersistentFlags().BoolVar(&catalogJSONOutput, "json", false,
		"Output in JSON format")

	catalogCmd.AddCommand(catalogImportCmd)
	catalogCmd.AddCommand(catalogListCmd)
	catalogCmd.AddCommand(catalogDeleteCmd)
}

// newTabWriter returns a configured tabwriter for aligned columns.
func newTabWriter(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
}
