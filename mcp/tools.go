package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/wanslu/storefront/internal/app"
	"github.com/wanslu/storefront/internal/models"
	"github.com/wanslu/storefront/internal/search"
	"github.com/wanslu/storefront/internal/source"
	"github.com/wanslu/storefront/internal/wanslu"
)

func registerTools(s *server.MCPServer, a *app.App) {
	// search_products
	searchTool := mcp.NewTool("search_products",
		mcp.WithDescription("Search marketplace products by keyword"),
		mcp.WithString("query",
			mcp.Required(),
			mcp.Description("Search keyword"),
		),
		mcp.WithString("source",
			mcp.Description("Catalog source: wholesale, retail, local, regional (default: wholesale)"),
		),
		mcp.WithString("sort",
			mcp.Description("Sort key, source-scoped (e.g. price-asc, most-sold, best-selling)"),
		),
		mcp.WithNumber("page",
			mcp.Description("Page number (default: 1)"),
		),
	)
	s.AddTool(searchTool, handleSearchProducts(a))

	// list_wishlist
	listWishlistTool := mcp.NewTool("list_wishlist",
		mcp.WithDescription("List the signed-in user's wishlist entries"),
	)
	s.AddTool(listWishlistTool, handleListWishlist(a))

	// toggle_wishlist
	toggleTool := mcp.NewTool("toggle_wishlist",
		mcp.WithDescription("Add or remove a product from the wishlist"),
		mcp.WithString("product_id",
			mcp.Required(),
			mcp.Description("Product identifier"),
		),
		mcp.WithString("source",
			mcp.Required(),
			mcp.Description("Catalog source the product belongs to"),
		),
		mcp.WithString("title",
			mcp.Description("Product title, stored with the entry"),
		),
	)
	s.AddTool(toggleTool, handleToggleWishlist(a))

	// translate_text
	translateTool := mcp.NewTool("translate_text",
		mcp.WithDescription("Translate text into the given language (cached per text+language)"),
		mcp.WithString("text",
			mcp.Required(),
			mcp.Description("Text to translate"),
		),
		mcp.WithString("to",
			mcp.Required(),
			mcp.Description("Target language code, e.g. fr"),
		),
	)
	s.AddTool(translateTool, handleTranslate(a))

	// list_orders
	ordersTool := mcp.NewTool("list_orders",
		mcp.WithDescription("List the signed-in user's orders"),
		mcp.WithNumber("page",
			mcp.Description("Page number (default: 1)"),
		),
		mcp.WithNumber("limit",
			mcp.Description("Orders per page (default: 20)"),
		),
	)
	s.AddTool(ordersTool, handleListOrders(a))
}

func handleSearchProducts(a *app.App) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		query := request.GetString("query", "")
		if query == "" {
			return mcp.NewToolResultError("query is required"), nil
		}

		sourceName := request.GetString("source", string(models.SourceWholesale))
		sortKey := request.GetString("sort", "")
		page := request.GetInt("page", 1)

		session, err := a.NewSession(models.Source(sourceName))
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("source error: %v", err)), nil
		}
		if err := session.SetFilters(search.Filters{Sort: source.Sort(sortKey)}); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		if err := session.Search(ctx, query); err != nil {
			return toolError(err), nil
		}
		for p := 1; p < page && session.HasMore(); p++ {
			if _, err := session.LoadMore(ctx); err != nil {
				return toolError(err), nil
			}
		}
		session.Wait()

		if session.State() == search.StateBlocked {
			return mcp.NewToolResultError("region blocked: " + session.BlockedMessage()), nil
		}

		data, _ := json.MarshalIndent(session.Products(), "", "  ")
		return mcp.NewToolResultText(string(data)), nil
	}
}

func handleListWishlist(a *app.App) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		entries, err := a.Wishlist.Entries(ctx)
		if err != nil {
			return toolError(err), nil
		}
		data, _ := json.MarshalIndent(entries, "", "  ")
		return mcp.NewToolResultText(string(data)), nil
	}
}

func handleToggleWishlist(a *app.App) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		productID := request.GetString("product_id", "")
		sourceName := request.GetString("source", "")
		if productID == "" || sourceName == "" {
			return mcp.NewToolResultError("product_id and source are required"), nil
		}

		product := models.Product{
			ID:     productID,
			Source: models.Source(sourceName),
			Title:  request.GetString("title", ""),
		}

		added, err := a.Wishlist.Toggle(ctx, product)
		if err != nil {
			return toolError(err), nil
		}
		if added {
			return mcp.NewToolResultText("added to wishlist"), nil
		}
		return mcp.NewToolResultText("removed from wishlist"), nil
	}
}

func handleTranslate(a *app.App) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		text := request.GetString("text", "")
		to := request.GetString("to", "")
		if text == "" || to == "" {
			return mcp.NewToolResultError("text and to are required"), nil
		}
		if to == "en" {
			// Listings are already in English; nothing to do.
			return mcp.NewToolResultText(text), nil
		}

		translated, err := a.Translations.Translate(ctx, text, to)
		if err != nil {
			return toolError(err), nil
		}
		return mcp.NewToolResultText(translated), nil
	}
}

func handleListOrders(a *app.App) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		page := request.GetInt("page", 1)
		limit := request.GetInt("limit", 20)

		orders, total, err := a.Client.Orders(ctx, page, limit)
		if err != nil {
			return toolError(err), nil
		}

		payload := struct {
			Orders []models.Order `json:"orders"`
			Total  int            `json:"total"`
		}{orders, total}
		data, _ := json.MarshalIndent(payload, "", "  ")
		return mcp.NewToolResultText(string(data)), nil
	}
}

// toolError maps typed client errors to MCP error results so callers can
// distinguish sign-in problems from transient failures.
func toolError(err error) *mcp.CallToolResult {
	if errors.Is(err, wanslu.ErrAuthRequired) {
		return mcp.NewToolResultError("authentication required: store a token first")
	}
	var blocked *source.BlockedError
	if errors.As(err, &blocked) {
		return mcp.NewToolResultError("region blocked: " + blocked.Error())
	}
	return mcp.NewToolResultError(err.Error())
}
