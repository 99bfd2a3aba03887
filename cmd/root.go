package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/wanslu/storefront/config"
	"github.com/wanslu/storefront/internal/app"
)

var (
	cfg         *config.Config
	application *app.App
)

var rootCmd = &cobra.Command{
	Use:   "wanslu",
	Short: "Wanslu - cross-border marketplace CLI & MCP server",
	Long:  "A Go client for the Wanslu shopping marketplace: catalog search, wishlist, orders and translation from the terminal or over MCP.",
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("source", "wholesale", "Catalog source: wholesale, retail, local, regional")
	rootCmd.PersistentFlags().String("base-url", "", "API base URL override")
	rootCmd.PersistentFlags().String("lang", "", "Display language (titles are translated unless 'en')")
	rootCmd.PersistentFlags().Bool("verbose", false, "Enable debug logging")
}

func initConfig() {
	cfg = config.DefaultConfig()
	cfg.LoadFromEnv()

	// Override from flags
	if v, _ := rootCmd.PersistentFlags().GetString("source"); v != "" {
		cfg.DefaultSource = v
	}
	if v, _ := rootCmd.PersistentFlags().GetString("base-url"); v != "" {
		cfg.BaseURL = v
	}
	if v, _ := rootCmd.PersistentFlags().GetString("lang"); v != "" {
		cfg.Language = v
	}
	if v, _ := rootCmd.PersistentFlags().GetBool("verbose"); v {
		cfg.Verbose = true
	}
}

// initApp assembles the shared application state (API client, source
// registry, caches). Commands call it once at the top of their run func.
func initApp() error {
	a, err := app.New(cfg)
	if err != nil {
		return fmt.Errorf("init: %w", err)
	}
	application = a
	return nil
}
