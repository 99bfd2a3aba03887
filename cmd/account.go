package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/wanslu/storefront/internal/prefs"
)

var accountCmd = &cobra.Command{
	Use:   "account",
	Short: "Show and manage the signed-in account",
	RunE:  runAccountShow,
}

var accountLoginCmd = &cobra.Command{
	Use:   "login [token]",
	Short: "Store the API bearer token",
	Args:  cobra.ExactArgs(1),
	RunE:  runAccountLogin,
}

var accountLogoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Forget the stored token and local caches",
	RunE:  runAccountLogout,
}

var accountLocaleCmd = &cobra.Command{
	Use:   "locale [language/currency]",
	Short: "Set the language/currency preference, e.g. fr/EUR",
	Args:  cobra.ExactArgs(1),
	RunE:  runAccountLocale,
}

func init() {
	accountCmd.AddCommand(accountLoginCmd)
	accountCmd.AddCommand(accountLogoutCmd)
	accountCmd.AddCommand(accountLocaleCmd)
	rootCmd.AddCommand(accountCmd)
}

func runAccountShow(cmd *cobra.Command, args []string) error {
	if err := initApp(); err != nil {
		return err
	}

	acct, err := application.Client.Account(context.Background())
	if err != nil {
		return presentError(err)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(acct)
}

func runAccountLogin(cmd *cobra.Command, args []string) error {
	if err := initApp(); err != nil {
		return err
	}

	token := args[0]
	if err := application.Prefs.Update(func(p *prefs.Prefs) {
		p.Token = token
	}); err != nil {
		return err
	}

	// Resolve the profile so the user id and locale follow the token.
	if acct, err := application.Client.Account(context.Background()); err == nil {
		_ = application.Prefs.Update(func(p *prefs.Prefs) {
			p.UserID = acct.ID
			if acct.Language != "" {
				p.Language = acct.Language
			}
			if acct.Currency != "" {
				p.Currency = acct.Currency
			}
			if acct.Country != "" {
				p.Country = acct.Country
			}
		})
		fmt.Printf("Signed in as %s.\n", acct.Name)
		return nil
	}

	fmt.Println("Token stored.")
	return nil
}

func runAccountLogout(cmd *cobra.Command, args []string) error {
	if err := initApp(); err != nil {
		return err
	}
	if err := application.Prefs.Save(prefs.Prefs{}); err != nil {
		return err
	}
	// Shared caches die with the App; nothing else to clear.
	fmt.Println("Signed out.")
	return nil
}

func runAccountLocale(cmd *cobra.Command, args []string) error {
	if err := initApp(); err != nil {
		return err
	}

	language, currency, ok := strings.Cut(args[0], "/")
	if !ok || language == "" || currency == "" {
		return fmt.Errorf("expected language/currency, e.g. en/USD")
	}

	if err := application.Client.UpdateLocale(context.Background(), language, currency); err != nil {
		return presentError(err)
	}
	if err := application.Prefs.Update(func(p *prefs.Prefs) {
		p.Language = language
		p.Currency = currency
	}); err != nil {
		return err
	}

	fmt.Printf("Locale set to %s/%s.\n", language, currency)
	return nil
}
