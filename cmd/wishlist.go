package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/wanslu/storefront/internal/models"
	"github.com/wanslu/storefront/internal/ui"
)

var wishlistCmd = &cobra.Command{
	Use:   "wishlist",
	Short: "Manage the saved-products wishlist",
}

var wishlistListCmd = &cobra.Command{
	Use:   "list",
	Short: "List wishlist entries",
	RunE:  runWishlistList,
}

var wishlistToggleCmd = &cobra.Command{
	Use:   "toggle [product-id]",
	Short: "Add or remove a product from the wishlist",
	Args:  cobra.ExactArgs(1),
	RunE:  runWishlistToggle,
}

func init() {
	wishlistListCmd.Flags().String("format", "json", "Output format: json, table")
	wishlistToggleCmd.Flags().String("title", "", "Product title (stored with the entry)")
	wishlistToggleCmd.Flags().String("image", "", "Product image URL")
	wishlistToggleCmd.Flags().Float64("price", 0, "Product price")
	wishlistCmd.AddCommand(wishlistListCmd)
	wishlistCmd.AddCommand(wishlistToggleCmd)
	rootCmd.AddCommand(wishlistCmd)
}

func runWishlistList(cmd *cobra.Command, args []string) error {
	if err := initApp(); err != nil {
		return err
	}
	format, _ := cmd.Flags().GetString("format")

	spin := ui.NewSpinner()
	spin.Start("Loading wishlist...")
	entries, err := application.Wishlist.Entries(context.Background())
	spin.Stop()
	if err != nil {
		return presentError(err)
	}

	if len(entries) == 0 {
		fmt.Println("Wishlist is empty.")
		return nil
	}

	switch format {
	case "table":
		for i, e := range entries {
			fmt.Fprintf(os.Stdout, " %d. %s\n", i+1, e.Title)
			fmt.Fprintf(os.Stdout, "    %s  |  %s (#%s)  |  row %s\n",
				formatPrice(e.Price, ""), e.Key.Source, e.Key.ID, e.RowID)
		}
	default:
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		enc.Encode(entries)
	}
	return nil
}

func runWishlistToggle(cmd *cobra.Command, args []string) error {
	if err := initApp(); err != nil {
		return err
	}

	title, _ := cmd.Flags().GetString("title")
	image, _ := cmd.Flags().GetString("image")
	price, _ := cmd.Flags().GetFloat64("price")
	sourceName, _ := rootCmd.PersistentFlags().GetString("source")

	product := models.Product{
		ID:       args[0],
		Source:   models.Source(sourceName),
		Title:    title,
		ImageURL: image,
		Price:    price,
	}

	added, err := application.Wishlist.Toggle(context.Background(), product)
	if err != nil {
		return presentError(err)
	}
	if added {
		fmt.Printf("Added %s (%s) to wishlist.\n", product.ID, product.Source)
	} else {
		fmt.Printf("Removed %s (%s) from wishlist.\n", product.ID, product.Source)
	}
	return nil
}
