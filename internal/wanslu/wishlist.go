package wanslu

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/wanslu/storefront/internal/models"
	"github.com/wanslu/storefront/internal/wishlist"
)

// WishlistAPI implements wishlist.API against the Wanslu wishlist
// endpoints. All of them require the persisted bearer token.
type WishlistAPI struct {
	client *Client
}

func NewWishlistAPI(client *Client) *WishlistAPI {
	return &WishlistAPI{client: client}
}

type wishlistRow struct {
	ID        json.Number `json:"id"`
	ProductID json.Number `json:"product_id"`
	Source    string      `json:"source"`
	Title     string      `json:"title"`
	Image     string      `json:"image"`
	Price     string      `json:"price"`
	CreatedAt int64       `json:"created_at"`
}

func (w *WishlistAPI) List(ctx context.Context) ([]wishlist.Entry, error) {
	if err := w.client.requireAuth(); err != nil {
		return nil, err
	}

	env, err := w.client.do(ctx, http.MethodGet, "/v1/wishlist", nil, nil)
	if err != nil {
		return nil, err
	}

	var rows []wishlistRow
	if err := json.Unmarshal(env.Data, &rows); err != nil {
		return nil, fmt.Errorf("decode wishlist: %w", err)
	}

	entries := make([]wishlist.Entry, 0, len(rows))
	for _, row := range rows {
		e := wishlist.Entry{
			RowID: row.ID.String(),
			Key: models.Key{
				ID:     row.ProductID.String(),
				Source: models.Source(row.Source),
			},
			Title:    row.Title,
			ImageURL: row.Image,
			Price:    parsePrice(row.Price),
		}
		if row.CreatedAt > 0 {
			e.AddedAt = time.Unix(row.CreatedAt, 0).UTC()
		}
		entries = append(entries, e)
	}
	return entries, nil
}

func (w *WishlistAPI) Add(ctx context.Context, p models.Product) (string, error) {
	if err := w.client.requireAuth(); err != nil {
		return "", err
	}

	body := map[string]any{
		"source":     string(p.Source),
		"product_id": p.ID,
		"image":      p.ImageURL,
		"title":      p.Title,
		"price":      p.EffectivePrice(),
	}

	env, err := w.client.do(ctx, http.MethodPost, "/v1/wishlist", nil, body)
	if err != nil {
		// "already exists" is a soft success carrying the existing row id.
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.Code == "already_exists" {
			var payload struct {
				ID json.Number `json:"id"`
			}
			if jsonErr := json.Unmarshal(apiErr.Data, &payload); jsonErr == nil && payload.ID.String() != "" {
				return "", &wishlist.ConflictError{RowID: payload.ID.String()}
			}
		}
		return "", err
	}

	var created struct {
		ID json.Number `json:"id"`
	}
	if err := json.Unmarshal(env.Data, &created); err != nil {
		return "", fmt.Errorf("decode wishlist add: %w", err)
	}
	return created.ID.String(), nil
}

func (w *WishlistAPI) Remove(ctx context.Context, rowID string) error {
	if err := w.client.requireAuth(); err != nil {
		return err
	}

	body := map[string]any{"id": rowID}
	_, err := w.client.do(ctx, http.MethodDelete, "/v1/wishlist", nil, body)
	return err
}
