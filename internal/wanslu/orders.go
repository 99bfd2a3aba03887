package wanslu

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/wanslu/storefront/internal/models"
)

type orderRow struct {
	ID        json.Number `json:"id"`
	Status    string      `json:"status"`
	Total     string      `json:"total"`
	Currency  string      `json:"currency"`
	ItemCount int         `json:"item_count"`
	CreatedAt int64       `json:"created_at"`
}

// Orders lists the user's placed orders, newest first as the server returns them.
func (c *Client) Orders(ctx context.Context, page, pageSize int) ([]models.Order, int, error) {
	if err := c.requireAuth(); err != nil {
		return nil, 0, err
	}

	params := url.Values{}
	params.Set("page", strconv.Itoa(page))
	params.Set("page_size", strconv.Itoa(pageSize))

	env, err := c.do(ctx, http.MethodGet, "/v1/orders", params, nil)
	if err != nil {
		return nil, 0, err
	}

	var rows []orderRow
	if err := json.Unmarshal(env.Data, &rows); err != nil {
		return nil, 0, fmt.Errorf("decode orders: %w", err)
	}

	orders := make([]models.Order, 0, len(rows))
	for _, row := range rows {
		o := models.Order{
			ID:        row.ID.String(),
			Status:    row.Status,
			Total:     parsePrice(row.Total),
			Currency:  row.Currency,
			ItemCount: row.ItemCount,
		}
		if row.CreatedAt > 0 {
			o.CreatedAt = time.Unix(row.CreatedAt, 0).UTC()
		}
		orders = append(orders, o)
	}
	return orders, env.Meta.Total, nil
}

// CartCount returns the badge count for the user's cart.
func (c *Client) CartCount(ctx context.Context) (int, error) {
	if err := c.requireAuth(); err != nil {
		return 0, err
	}

	env, err := c.do(ctx, http.MethodGet, "/v1/cart/count", nil, nil)
	if err != nil {
		return 0, err
	}

	var payload struct {
		Count int `json:"count"`
	}
	if err := json.Unmarshal(env.Data, &payload); err != nil {
		return 0, fmt.Errorf("decode cart count: %w", err)
	}
	return payload.Count, nil
}

// Account fetches the authenticated user's profile.
func (c *Client) Account(ctx context.Context) (*models.Account, error) {
	if err := c.requireAuth(); err != nil {
		return nil, err
	}

	env, err := c.do(ctx, http.MethodGet, "/v1/account", nil, nil)
	if err != nil {
		return nil, err
	}

	var acct models.Account
	if err := json.Unmarshal(env.Data, &acct); err != nil {
		return nil, fmt.Errorf("decode account: %w", err)
	}
	return &acct, nil
}

// UpdateLocale pushes a new language/currency preference to the server.
// Callers persist the same pair locally so the Locale header follows.
func (c *Client) UpdateLocale(ctx context.Context, language, currency string) error {
	if err := c.requireAuth(); err != nil {
		return err
	}

	body := map[string]any{
		"language": language,
		"currency": currency,
	}
	_, err := c.do(ctx, http.MethodPost, "/v1/account/locale", nil, body)
	return err
}

// SearchByImage uploads an image (by local path or remote URL) and returns
// visually similar wholesale products.
func (c *Client) SearchByImage(ctx context.Context, pathOrURL string, page, pageSize int) ([]models.Product, error) {
	body := map[string]any{
		"page":      page,
		"page_size": pageSize,
	}
	if isRemote(pathOrURL) {
		body["image_url"] = pathOrURL
	} else {
		data, err := os.ReadFile(pathOrURL)
		if err != nil {
			return nil, fmt.Errorf("read image: %w", err)
		}
		body["image"] = base64.StdEncoding.EncodeToString(data)
	}

	env, err := c.do(ctx, http.MethodPost, "/v1/search/image", nil, body)
	if err != nil {
		return nil, err
	}

	var items []wholesaleItem
	if err := json.Unmarshal(env.Data, &items); err != nil {
		return nil, fmt.Errorf("decode image search: %w", err)
	}

	products := make([]models.Product, 0, len(items))
	for _, it := range items {
		products = append(products, it.normalize())
	}
	return products, nil
}

func isRemote(s string) bool {
	u, err := url.Parse(s)
	return err == nil && (u.Scheme == "http" || u.Scheme == "https")
}
