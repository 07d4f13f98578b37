package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hyperengineering/attire/internal/catalog"
)

var catalogImportCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import items from a YAML or JSON dataset",
	Long:  "Upsert every item in a dataset file into the catalog store. Items without an id are assigned one. The batch is rejected as a whole if any item is invalid.",
	Args:  cobra.ExactArgs(1),
	RunE:  runCatalogImport,
}

func runCatalogImport(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	items, err := catalog.ReadFile(args[0])
	if err != nil {
		return err
	}

	db, err := openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	result, err := db.ImportItems(ctx, items)
	if err != nil {
		return fmt.Errorf("import items: %w", err)
	}

	if catalogJSONOutput {
		return printJSON(cmd.OutOrStdout(), map[string]any{
			"inserted": result.Inserted,
			"updated":  result.Updated,
			"ids":      result.IDs,
		})
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Imported %d items (%d new, %d updated)\n",
		len(result.IDs), result.Inserted, result.Updated)
	return nil
}
