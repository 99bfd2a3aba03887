package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var cartCmd = &cobra.Command{
	Use:   "cart",
	Short: "Show the cart badge count",
	RunE:  runCart,
}

func init() {
	rootCmd.AddCommand(cartCmd)
}

func runCart(cmd *cobra.Command, args []string) error {
	if err := initApp(); err != nil {
		return err
	}

	count, err := application.Client.CartCount(context.Background())
	if err != nil {
		return presentError(err)
	}

	switch count {
	case 0:
		fmt.Println("Cart is empty.")
	case 1:
		fmt.Println("1 item in cart.")
	default:
		fmt.Printf("%d items in cart.\n", count)
	}
	return nil
}
