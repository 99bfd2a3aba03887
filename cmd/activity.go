package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/wanslu/storefront/internal/models"
	"github.com/wanslu/storefront/internal/search"
	"github.com/wanslu/storefront/internal/source"
	"github.com/wanslu/storefront/internal/ui"
)

var activityCmd = &cobra.Command{
	Use:   "activity [keyword]",
	Short: "Browse popular products for a keyword",
	Long:  "Loads several pages of the most-sold listings and merges them into one deduplicated feed.",
	Args:  cobra.ExactArgs(1),
	RunE:  runActivity,
}

func init() {
	activityCmd.Flags().Int("pages", 3, "Pages to merge")
	activityCmd.Flags().String("format", "json", "Output format: json, table")
	rootCmd.AddCommand(activityCmd)
}

func runActivity(cmd *cobra.Command, args []string) error {
	if err := initApp(); err != nil {
		return err
	}

	keyword := args[0]
	pages, _ := cmd.Flags().GetInt("pages")
	format, _ := cmd.Flags().GetString("format")

	session, err := application.NewSession(models.Source(cfg.DefaultSource))
	if err != nil {
		return err
	}
	if err := session.SetFilters(search.Filters{Sort: source.SortMostSold}); err != nil {
		// Retail has no most-sold key; its closest is best-selling.
		if err := session.SetFilters(search.Filters{Sort: source.SortBestSelling}); err != nil {
			return err
		}
	}

	spin := ui.NewSpinner()
	spin.Start(fmt.Sprintf("Loading popular '%s' products...", keyword))
	ctx := source.WithProgress(context.Background(), spin.Update)

	if err := session.Search(ctx, keyword); err != nil {
		spin.Stop()
		return renderSession(session, format)
	}
	for p := 1; p < pages && session.HasMore(); p++ {
		spin.Update(fmt.Sprintf("Loading page %d...", p+1))
		if ok, err := session.LoadMore(ctx); err != nil || !ok {
			break
		}
	}
	session.Wait()
	spin.Stop()

	// Listings reorder between requests, so overlapping pages can repeat
	// items. Merge dedupes by (id, source), keeping the newest instance.
	feed := search.Merge(nil, session.Products())

	if len(feed) == 0 {
		fmt.Println("No products found.")
		return nil
	}

	switch format {
	case "table":
		printProductsTable(feed)
	default:
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		enc.Encode(feed)
	}
	return nil
}
