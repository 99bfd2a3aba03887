package wanslu

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/wanslu/storefront/internal/models"
	"github.com/wanslu/storefront/internal/source"
)

// marketSource backs both the local and regional (Chinese) catalogs, which
// share a wire shape: sort + price range only, a required country code, no
// server totals, and a possible region-block response. The block surfaces
// as *source.BlockedError via the client envelope handling.
type marketSource struct {
	client *Client
	name   models.Source
	path   string
}

// NewLocalSource queries the buyer-country local catalog.
func NewLocalSource(client *Client) source.Source {
	return &marketSource{client: client, name: models.SourceLocal, path: "/v1/local/search"}
}

// NewRegionalSource queries the regional (Chinese) catalog.
func NewRegionalSource(client *Client) source.Source {
	return &marketSource{client: client, name: models.SourceRegional, path: "/v1/regional/search"}
}

func (s *marketSource) Name() models.Source { return s.name }

func (s *marketSource) Sorts() []source.Sort {
	return []source.Sort{
		source.SortPriceAsc,
		source.SortPriceDesc,
		source.SortMostSold,
	}
}

var marketSortParams = map[source.Sort]string{
	source.SortPriceAsc:  "price_asc",
	source.SortPriceDesc: "price_desc",
	source.SortMostSold:  "sale_count",
}

func (s *marketSource) FetchPage(ctx context.Context, q source.Query) (*source.Page, error) {
	if q.Country == "" {
		return nil, fmt.Errorf("%s search requires a country code", s.name)
	}

	params := url.Values{}
	params.Set("q", q.Text)
	params.Set("page", strconv.Itoa(q.Page))
	params.Set("page_size", strconv.Itoa(q.PageSize))
	params.Set("country", q.Country)
	if q.Language != "" {
		params.Set("language", q.Language)
	}
	if q.UserID != "" {
		params.Set("user_id", q.UserID)
	}
	if p, ok := marketSortParams[q.Sort]; ok {
		params.Set("sort", p)
	}
	if q.MinPrice > 0 {
		params.Set("min_price", strconv.FormatFloat(q.MinPrice, 'f', 2, 64))
	}
	if q.MaxPrice > 0 {
		params.Set("max_price", strconv.FormatFloat(q.MaxPrice, 'f', 2, 64))
	}

	env, err := s.client.do(ctx, http.MethodGet, s.path, params, nil)
	if err != nil {
		return nil, err
	}

	var items []marketItem
	if err := json.Unmarshal(env.Data, &items); err != nil {
		return nil, fmt.Errorf("decode %s result: %w", s.name, err)
	}

	products := make([]models.Product, 0, len(items))
	for _, it := range items {
		products = append(products, it.normalize(s.name))
	}

	return &source.Page{
		Products:     products,
		TotalRecords: -1,
		TotalPages:   -1,
		HasMore:      len(products) == q.PageSize,
	}, nil
}

type marketItem struct {
	ID             json.Number `json:"id"`
	Title          string      `json:"title"`
	Image          string      `json:"image"`
	DetailURL      string      `json:"detail_url"`
	Price          string      `json:"price"`
	PromotionPrice string      `json:"promotion_price"`
	Currency       string      `json:"currency"`
	Sold           int         `json:"sold"`
	Rating         float64     `json:"rating"`
	UpdatedAt      int64       `json:"updated_at"`
}

func (it marketItem) normalize(name models.Source) models.Product {
	p := models.Product{
		ID:         it.ID.String(),
		Source:     name,
		Title:      it.Title,
		ImageURL:   it.Image,
		URL:        it.DetailURL,
		Price:      parsePrice(it.Price),
		PromoPrice: parsePrice(it.PromotionPrice),
		Currency:   it.Currency,
		Sold:       it.Sold,
		Rating:     it.Rating,
	}
	if it.UpdatedAt > 0 {
		p.UpdatedAt = time.Unix(it.UpdatedAt, 0).UTC()
	}
	return p
}
