package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hyperengineering/attire/internal/store"
)

var catalogDeleteCmd = &cobra.Command{
	Use:   "delete <item-id>",
	Short: "Remove an item from the catalog",
	Long:  "Soft-delete a catalog item. Re-importing the same id restores it.",
	Args:  cobra.ExactArgs(1),
	RunE:  runCatalogDelete,
}

func runCatalogDelete(cmd *cobra.Command, args []string) error {
	id := args[0]
	ctx := context.Background()

	db, err := openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	if err := db.DeleteItem(ctx, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return fmt.Errorf("item %q not found", id)
		}
		return err
	}

	if catalogJSONOutput {
		return printJSON(cmd.OutOrStdout(), map[string]any{
			"id":      id,
			"deleted": true,
		})
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Deleted item %q\n", id)
	return nil
}
