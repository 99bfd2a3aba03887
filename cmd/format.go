package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/wanslu/storefront/internal/models"
	"github.com/wanslu/storefront/internal/search"
	"github.com/wanslu/storefront/internal/wanslu"
)

// renderSession prints pipeline state with the fixed branch precedence:
// loading > error/blocked > empty > populated.
func renderSession(s *search.Session, format string) error {
	switch s.State() {
	case search.StateLoading:
		fmt.Fprintln(os.Stderr, "Still loading...")
		return nil
	case search.StateBlocked:
		msg := s.BlockedMessage()
		if msg == "" {
			msg = "This catalog is not available for your region."
		}
		fmt.Fprintln(os.Stderr, msg)
		return nil
	case search.StateError:
		return presentError(s.Err())
	case search.StateEmpty:
		fmt.Println("No products found.")
		return nil
	case search.StateIdle:
		return nil
	}

	products := s.Products()
	switch format {
	case "table":
		printProductsTable(products)
		if s.HasMore() {
			fmt.Fprintf(os.Stdout, "\n(more results available, page %d loaded", s.Page())
			if total := s.TotalRecords(); total >= 0 {
				fmt.Fprintf(os.Stdout, ", %d total", total)
			}
			fmt.Fprintln(os.Stdout, ")")
		}
	default:
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		enc.Encode(products)
	}
	return nil
}

// presentError maps typed pipeline errors to user-facing messages. Auth
// errors become a login prompt instead of a failure dump.
func presentError(err error) error {
	if errors.Is(err, wanslu.ErrAuthRequired) {
		return fmt.Errorf("not signed in: run 'wanslu account login <token>' first")
	}
	return fmt.Errorf("request failed: %w (try again)", err)
}

// printProductsTable prints products in a human-friendly card layout.
func printProductsTable(products []models.Product) {
	for i, p := range products {
		if i > 0 {
			fmt.Fprintln(os.Stdout)
		}
		fmt.Fprintf(os.Stdout, " %d. %s\n", i+1, truncate(p.DisplayTitle(), 90))

		// Price line with optional promotional price
		priceLine := "    Price: " + formatPrice(p.EffectivePrice(), p.Currency)
		if p.PromoPrice > 0 && p.PromoPrice < p.Price {
			priceLine += fmt.Sprintf("  (was %s)", formatPrice(p.Price, p.Currency))
		}
		if p.Vendor.Name != "" {
			priceLine += "  |  Shop: " + p.Vendor.Name
			if p.Vendor.Certified {
				priceLine += " [Certified]"
			}
		}
		fmt.Fprintln(os.Stdout, priceLine)

		var stats []string
		if p.Rating > 0 {
			stats = append(stats, fmt.Sprintf("%.1f★", p.Rating))
		}
		if p.Sold > 0 {
			stats = append(stats, fmt.Sprintf("%d sold", p.Sold))
		}
		if p.RepurchaseRate > 0 {
			stats = append(stats, fmt.Sprintf("%.0f%% repurchase", p.RepurchaseRate*100))
		}
		if p.Stock > 0 {
			stats = append(stats, fmt.Sprintf("%d in stock", p.Stock))
		}
		if len(stats) > 0 {
			fmt.Fprintf(os.Stdout, "    %s\n", strings.Join(stats, "  ·  "))
		}
		if p.URL != "" {
			fmt.Fprintf(os.Stdout, "    %s\n", p.URL)
		}
	}
}

// formatPrice renders "1234567.5" as "USD 1,234,567.50".
func formatPrice(v float64, currency string) string {
	if currency == "" {
		currency = "USD"
	}
	s := fmt.Sprintf("%.2f", v)
	dot := strings.IndexByte(s, '.')
	intPart, frac := s[:dot], s[dot:]

	var parts []string
	for len(intPart) > 3 {
		parts = append([]string{intPart[len(intPart)-3:]}, parts...)
		intPart = intPart[:len(intPart)-3]
	}
	parts = append([]string{intPart}, parts...)
	return currency + " " + strings.Join(parts, ",") + frac
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	if max <= 3 {
		return string(r[:max])
	}
	return string(r[:max-3]) + "..."
}
