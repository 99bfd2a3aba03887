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

// RetailSource queries the retail catalog. Its backend reports no totals,
// so HasMore falls back to the full-page heuristic, and it accepts no
// rating/price/certified filters; those params are never sent.
type RetailSource struct {
	client *Client
}

func NewRetailSource(client *Client) *RetailSource {
	return &RetailSource{client: client}
}

func (s *RetailSource) Name() models.Source { return models.SourceRetail }

func (s *RetailSource) Sorts() []source.Sort {
	return []source.Sort{
		source.SortBestSelling,
		source.SortLeastSelling,
		source.SortPriceAsc,
		source.SortPriceDesc,
	}
}

var retailSortParams = map[source.Sort]string{
	source.SortBestSelling:  "best_selling",
	source.SortLeastSelling: "least_selling",
	source.SortPriceAsc:     "price_asc",
	source.SortPriceDesc:    "price_desc",
}

func (s *RetailSource) FetchPage(ctx context.Context, q source.Query) (*source.Page, error) {
	params := url.Values{}
	params.Set("q", q.Text)
	params.Set("page", strconv.Itoa(q.Page))
	params.Set("page_size", strconv.Itoa(q.PageSize))
	if q.Language != "" {
		params.Set("language", q.Language)
	}
	if q.UserID != "" {
		params.Set("user_id", q.UserID)
	}
	if p, ok := retailSortParams[q.Sort]; ok {
		params.Set("sort", p)
	}

	env, err := s.client.do(ctx, http.MethodGet, "/v1/retail/search", params, nil)
	if err != nil {
		return nil, err
	}

	// Retail wraps its item list once more: data.data.
	var outer struct {
		Data []retailItem `json:"data"`
	}
	if err := json.Unmarshal(env.Data, &outer); err != nil {
		return nil, fmt.Errorf("decode retail result: %w", err)
	}

	products := make([]models.Product, 0, len(outer.Data))
	for _, it := range outer.Data {
		products = append(products, it.normalize())
	}

	return &source.Page{
		Products:     products,
		TotalRecords: -1,
		TotalPages:   -1,
		HasMore:      len(products) == q.PageSize,
	}, nil
}

type retailItem struct {
	NumIID         json.Number `json:"num_iid"`
	Title          string      `json:"title"`
	PicURL         string      `json:"pic_url"`
	DetailURL      string      `json:"detail_url"`
	Price          string      `json:"price"`
	PromotionPrice string      `json:"promotion_price"`
	Currency       string      `json:"currency"`
	Sales          int         `json:"sales"`
	SellerNick     string      `json:"seller_nick"`
	UpdatedAt      int64       `json:"updated_at"`
}

func (it retailItem) normalize() models.Product {
	p := models.Product{
		ID:         it.NumIID.String(),
		Source:     models.SourceRetail,
		Title:      it.Title,
		ImageURL:   it.PicURL,
		URL:        it.DetailURL,
		Price:      parsePrice(it.Price),
		PromoPrice: parsePrice(it.PromotionPrice),
		Currency:   it.Currency,
		Sold:       it.Sales,
		Vendor:     models.Vendor{Name: it.SellerNick},
	}
	if it.UpdatedAt > 0 {
		p.UpdatedAt = time.Unix(it.UpdatedAt, 0).UTC()
	}
	return p
}
