package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hyperengineering/attire/internal/types"
)

var catalogListCmd = &cobra.Command{
	Use:   "list",
	Short: "List catalog items",
	Args:  cobra.NoArgs,
	RunE:  runCatalogList,
}

func runCatalogList(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	db, err := openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	items, err := db.ListItems(ctx)
	if err != nil {
		return fmt.Errorf("list items: %w", err)
	}

	if catalogJSONOutput {
		return printJSON(cmd.OutOrStdout(), types.CatalogResponse{Count: len(items), Items: items})
	}

	if len(items) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No items found.")
		return nil
	}

	w := newTabWriter(cmd.OutOrStdout())
	fmt.Fprintln(w, "ID\tNAME\tTYPE\tGENDER\tTEMP\tRAIN")
	for _, item := range items {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%g-%g°C\t%t\n",
			item.ID,
			item.Name,
			item.Type,
			item.Gender,
			item.WeatherSuitability.MinTemp,
			item.WeatherSuitability.MaxTemp,
			item.WeatherSuitability.Rain,
		)
	}
	w.Flush()

	return nil
}
