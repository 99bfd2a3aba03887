package cmd

import (
	"context"
	"fmt"
	"log"

	"github.com/spf13/cobra"

	mcpserver "github.com/wanslu/storefront/mcp"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start MCP stdio server",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	if err := initApp(); err != nil {
		return err
	}

	fmt.Fprintln(cmd.ErrOrStderr(), "Starting Wanslu MCP server on stdio...")

	// Long-running process: keep the wishlist view fresh across devices.
	application.Wishlist.StartPolling(context.Background(), cfg.WishlistPollInterval)

	if err := mcpserver.Serve(application); err != nil {
		log.Fatalf("MCP server error: %v", err)
	}
	return nil
}
