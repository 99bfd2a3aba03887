package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/wanslu/storefront/internal/ui"
)

var imageSearchCmd = &cobra.Command{
	Use:   "image-search [file-or-url]",
	Short: "Search products by image",
	Args:  cobra.ExactArgs(1),
	RunE:  runImageSearch,
}

func init() {
	imageSearchCmd.Flags().Int("page", 1, "Page number")
	imageSearchCmd.Flags().Int("limit", 20, "Products per page")
	imageSearchCmd.Flags().String("format", "json", "Output format: json, table")
	rootCmd.AddCommand(imageSearchCmd)
}

func runImageSearch(cmd *cobra.Command, args []string) error {
	if err := initApp(); err != nil {
		return err
	}

	page, _ := cmd.Flags().GetInt("page")
	limit, _ := cmd.Flags().GetInt("limit")
	format, _ := cmd.Flags().GetString("format")

	spin := ui.NewSpinner()
	spin.Start("Searching by image...")
	products, err := application.Client.SearchByImage(context.Background(), args[0], page, limit)
	spin.Stop()
	if err != nil {
		return presentError(err)
	}

	if len(products) == 0 {
		fmt.Println("No visually similar products found.")
		return nil
	}

	switch format {
	case "table":
		printProductsTable(products)
	default:
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		enc.Encode(products)
	}
	return nil
}
