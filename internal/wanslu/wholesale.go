package wanslu

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/wanslu/storefront/internal/htmltext"
	"github.com/wanslu/storefront/internal/models"
	"github.com/wanslu/storefront/internal/source"
)

// WholesaleSource queries the wholesale (factory/bulk) catalog. It is the
// only source whose backend reports total record and page counts, so
// pagination trusts the server directly.
type WholesaleSource struct {
	client *Client
}

func NewWholesaleSource(client *Client) *WholesaleSource {
	return &WholesaleSource{client: client}
}

func (s *WholesaleSource) Name() models.Source { return models.SourceWholesale }

func (s *WholesaleSource) Sorts() []source.Sort {
	return []source.Sort{
		source.SortPriceAsc,
		source.SortPriceDesc,
		source.SortMostSold,
		source.SortRepurchaseRate,
	}
}

// wholesale sort keys on the wire
var wholesaleSortParams = map[source.Sort]string{
	source.SortPriceAsc:       "price_asc",
	source.SortPriceDesc:      "price_desc",
	source.SortMostSold:       "sale_count",
	source.SortRepurchaseRate: "repurchase_rate",
}

func (s *WholesaleSource) FetchPage(ctx context.Context, q source.Query) (*source.Page, error) {
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
	if p, ok := wholesaleSortParams[q.Sort]; ok {
		params.Set("sort", p)
	}
	if q.MinRating == 3 || q.MinRating == 4 {
		params.Set("min_rating", strconv.Itoa(q.MinRating))
	}
	if q.MinPrice > 0 {
		params.Set("min_price", strconv.FormatFloat(q.MinPrice, 'f', 2, 64))
	}
	if q.MaxPrice > 0 {
		params.Set("max_price", strconv.FormatFloat(q.MaxPrice, 'f', 2, 64))
	}
	if q.CertifiedOnly {
		params.Set("certified_factory", "1")
	}

	env, err := s.client.do(ctx, http.MethodGet, "/v1/wholesale/search", params, nil)
	if err != nil {
		return nil, err
	}

	// Wholesale nests its payload one level deeper: result.result.data.
	var outer struct {
		Result struct {
			Data       []wholesaleItem `json:"data"`
			Total      int             `json:"total"`
			TotalPages int             `json:"total_pages"`
		} `json:"result"`
	}
	if err := json.Unmarshal(env.Result, &outer); err != nil {
		return nil, fmt.Errorf("decode wholesale result: %w", err)
	}

	products := make([]models.Product, 0, len(outer.Result.Data))
	for _, it := range outer.Result.Data {
		products = append(products, it.normalize())
	}

	return &source.Page{
		Products:     products,
		TotalRecords: outer.Result.Total,
		TotalPages:   outer.Result.TotalPages,
		HasMore:      q.Page < outer.Result.TotalPages,
	}, nil
}

type wholesaleItem struct {
	OfferID          json.Number `json:"offer_id"`
	Subject          string      `json:"subject"`
	Description      string      `json:"description"`
	ImageURL         string      `json:"image_url"`
	DetailURL        string      `json:"detail_url"`
	Price            string      `json:"price"`
	PromotionPrice   string      `json:"promotion_price"`
	Currency         string      `json:"currency"`
	Stock            int         `json:"stock"`
	SaleCount        int         `json:"sale_count"`
	RepurchaseRate   string      `json:"repurchase_rate"`
	Rating           float64     `json:"rating"`
	ReviewCount      int         `json:"review_count"`
	CertifiedFactory bool        `json:"certified_factory"`
	Shop             struct {
		ID   json.Number `json:"id"`
		Name string      `json:"name"`
	} `json:"shop"`
	UpdatedAt int64 `json:"updated_at"`
}

func (it wholesaleItem) normalize() models.Product {
	p := models.Product{
		ID:             it.OfferID.String(),
		Source:         models.SourceWholesale,
		Title:          it.Subject,
		ImageURL:       it.ImageURL,
		URL:            it.DetailURL,
		Price:          parsePrice(it.Price),
		PromoPrice:     parsePrice(it.PromotionPrice),
		Currency:       it.Currency,
		Stock:          it.Stock,
		Sold:           it.SaleCount,
		Rating:         it.Rating,
		ReviewCount:    it.ReviewCount,
		RepurchaseRate: parsePercent(it.RepurchaseRate),
		Vendor: models.Vendor{
			ID:        it.Shop.ID.String(),
			Name:      it.Shop.Name,
			Certified: it.CertifiedFactory,
		},
	}
	if it.Description != "" {
		p.Description = htmltext.Strip(it.Description)
	}
	if it.UpdatedAt > 0 {
		p.UpdatedAt = time.Unix(it.UpdatedAt, 0).UTC()
	}
	return p
}
