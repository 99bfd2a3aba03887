package wanslu

import (
	"context"
	"encoding/json"
	"net/http"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wanslu/storefront/internal/models"
	"github.com/wanslu/storefront/internal/prefs"
	"github.com/wanslu/storefront/internal/wishlist"
)

func signIn(t *testing.T, store *prefs.Store) {
	t.Helper()
	require.NoError(t, store.Save(prefs.Prefs{Token: "test-token"}))
}

func TestWishlistAPI_RequiresToken(t *testing.T) {
	var calls atomic.Int64
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		writeJSON(w, map[string]any{"status": "ok", "data": []any{}})
	})
	client, _ := newTestClient(t, handler)
	api := NewWishlistAPI(client)
	ctx := context.Background()

	_, err := api.List(ctx)
	assert.ErrorIs(t, err, ErrAuthRequired)
	_, err = api.Add(ctx, models.Product{ID: "1", Source: models.SourceWholesale})
	assert.ErrorIs(t, err, ErrAuthRequired)
	err = api.Remove(ctx, "5")
	assert.ErrorIs(t, err, ErrAuthRequired)

	assert.Equal(t, int64(0), calls.Load(), "anonymous calls never reach the server")
}

func TestWishlistAPI_List(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodGet, r.Method)
		require.Equal(t, "/v1/wishlist", r.URL.Path)
		writeJSON(w, map[string]any{
			"status": "ok",
			"data": []map[string]any{
				{
					"id":         11,
					"product_id": 600123,
					"source":     "wholesale",
					"title":      "LED desk lamp",
					"image":      "https://img.example/lamp.jpg",
					"price":      "9.99",
					"created_at": 1700000000,
				},
				{
					"id":         "12",
					"product_id": "800456",
					"source":     "retail",
					"title":      "ceramic mug",
				},
			},
		})
	})
	client, store := newTestClient(t, handler)
	signIn(t, store)

	entries, err := NewWishlistAPI(client).List(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, 2)

	assert.Equal(t, "11", entries[0].RowID)
	assert.Equal(t, models.Key{ID: "600123", Source: models.SourceWholesale}, entries[0].Key)
	assert.Equal(t, 9.99, entries[0].Price)
	assert.False(t, entries[0].AddedAt.IsZero())

	// Numeric and string ids normalize identically.
	assert.Equal(t, "12", entries[1].RowID)
	assert.Equal(t, models.Key{ID: "800456", Source: models.SourceRetail}, entries[1].Key)
}

func TestWishlistAPI_Add(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/v1/wishlist", r.URL.Path)

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "wholesale", body["source"])
		assert.Equal(t, "600123", body["product_id"])
		assert.Equal(t, "LED desk lamp", body["title"])
		assert.Equal(t, 9.99, body["price"])

		writeJSON(w, map[string]any{
			"status": "ok",
			"data":   map[string]any{"id": 42},
		})
	})
	client, store := newTestClient(t, handler)
	signIn(t, store)

	rowID, err := NewWishlistAPI(client).Add(context.Background(), models.Product{
		ID:         "600123",
		Source:     models.SourceWholesale,
		Title:      "LED desk lamp",
		ImageURL:   "https://img.example/lamp.jpg",
		Price:      12.50,
		PromoPrice: 9.99,
	})
	require.NoError(t, err)
	assert.Equal(t, "42", rowID)
}

func TestWishlistAPI_AddConflictCarriesRowID(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]any{
			"status":  "error",
			"code":    "already_exists",
			"message": "product already in wishlist",
			"data":    map[string]any{"id": 99},
		})
	})
	client, store := newTestClient(t, handler)
	signIn(t, store)

	_, err := NewWishlistAPI(client).Add(context.Background(), models.Product{
		ID: "600123", Source: models.SourceWholesale,
	})
	var conflict *wishlist.ConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, "99", conflict.RowID)
}

func TestWishlistAPI_Remove(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodDelete, r.Method)
		require.Equal(t, "/v1/wishlist", r.URL.Path)

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "42", body["id"])

		writeJSON(w, map[string]any{"status": "ok"})
	})
	client, store := newTestClient(t, handler)
	signIn(t, store)

	require.NoError(t, NewWishlistAPI(client).Remove(context.Background(), "42"))
}
