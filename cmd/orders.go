package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/wanslu/storefront/internal/ui"
)

var ordersCmd = &cobra.Command{
	Use:   "orders",
	Short: "List your placed orders",
	RunE:  runOrders,
}

func init() {
	ordersCmd.Flags().Int("page", 1, "Page number")
	ordersCmd.Flags().Int("limit", 20, "Orders per page")
	ordersCmd.Flags().String("format", "json", "Output format: json, table")
	rootCmd.AddCommand(ordersCmd)
}

func runOrders(cmd *cobra.Command, args []string) error {
	if err := initApp(); err != nil {
		return err
	}

	page, _ := cmd.Flags().GetInt("page")
	limit, _ := cmd.Flags().GetInt("limit")
	format, _ := cmd.Flags().GetString("format")

	spin := ui.NewSpinner()
	spin.Start("Loading orders...")
	orders, total, err := application.Client.Orders(context.Background(), page, limit)
	spin.Stop()
	if err != nil {
		return presentError(err)
	}

	if len(orders) == 0 {
		fmt.Println("No orders yet.")
		return nil
	}

	switch format {
	case "table":
		for i, o := range orders {
			fmt.Fprintf(os.Stdout, " %d. #%s  %s  %s  (%d items)  %s\n",
				i+1, o.ID, o.Status, formatPrice(o.Total, o.Currency),
				o.ItemCount, o.CreatedAt.Format("2006-01-02"))
		}
		if total > len(orders) {
			fmt.Fprintf(os.Stdout, "\n(%d of %d orders shown)\n", len(orders), total)
		}
	default:
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		enc.Encode(orders)
	}
	return nil
}
