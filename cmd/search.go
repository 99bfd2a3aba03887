package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wanslu/storefront/internal/models"
	"github.com/wanslu/storefront/internal/search"
	"github.com/wanslu/storefront/internal/source"
	"github.com/wanslu/storefront/internal/ui"
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search products by keyword",
	Args:  cobra.ExactArgs(1),
	RunE:  runSearch,
}

func init() {
	searchCmd.Flags().Int("pages", 1, "Number of pages to load")
	searchCmd.Flags().String("sort", "", "Sort key (source-scoped, e.g. price-asc, most-sold, best-selling)")
	searchCmd.Flags().Int("min-rating", 0, "Minimum rating filter: 3 or 4 (wholesale only)")
	searchCmd.Flags().Float64("min-price", 0, "Minimum price")
	searchCmd.Flags().Float64("max-price", 0, "Maximum price")
	searchCmd.Flags().Bool("certified", false, "Certified factories only (wholesale only)")
	searchCmd.Flags().String("format", "json", "Output format: json, table")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	if err := initApp(); err != nil {
		return err
	}

	query := args[0]
	pages, _ := cmd.Flags().GetInt("pages")
	sortKey, _ := cmd.Flags().GetString("sort")
	minRating, _ := cmd.Flags().GetInt("min-rating")
	minPrice, _ := cmd.Flags().GetFloat64("min-price")
	maxPrice, _ := cmd.Flags().GetFloat64("max-price")
	certified, _ := cmd.Flags().GetBool("certified")
	format, _ := cmd.Flags().GetString("format")

	session, err := application.NewSession(models.Source(cfg.DefaultSource))
	if err != nil {
		return err
	}

	filters := search.Filters{
		Sort:          source.Sort(sortKey),
		MinRating:     minRating,
		MinPrice:      minPrice,
		MaxPrice:      maxPrice,
		CertifiedOnly: certified,
	}
	if err := session.SetFilters(filters); err != nil {
		return err
	}

	spin := ui.NewSpinner()
	spin.Start(fmt.Sprintf("Searching '%s' on %s...", query, cfg.DefaultSource))
	ctx := source.WithProgress(context.Background(), spin.Update)

	if err := session.Search(ctx, query); err != nil {
		spin.Stop()
		return renderSession(session, format)
	}
	for p := 1; p < pages && session.HasMore(); p++ {
		spin.Update(fmt.Sprintf("Loading page %d...", p+1))
		if _, err := session.LoadMore(ctx); err != nil {
			break
		}
	}
	session.Wait()
	spin.Stop()

	return renderSession(session, format)
}
