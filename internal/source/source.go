package source

import (
	"context"

	"github.com/wanslu/storefront/internal/models"
)

// Sort is a source-scoped sort key. Different sources support different
// vocabularies; a source only encodes the keys it understands.
type Sort string

const (
	SortDefault        Sort = ""
	SortPriceAsc       Sort = "price-asc"
	SortPriceDesc      Sort = "price-desc"
	SortMostSold       Sort = "most-sold"
	SortRepurchaseRate Sort = "repurchase-rate"
	SortBestSelling    Sort = "best-selling"
	SortLeastSelling   Sort = "least-selling"
)

// Query carries everything a source needs to fetch one result page.
type Query struct {
	Text          string
	Sort          Sort
	MinRating     int // 0 (off), 3 or 4
	MinPrice      float64
	MaxPrice      float64
	CertifiedOnly bool
	Page          int
	PageSize      int
	Language      string
	UserID        string
	Country       string // resolved country code, local/regional only
}

// Page is one fetched page of normalized results.
type Page struct {
	Products []models.Product
	// TotalRecords and TotalPages are server-reported; -1 when the source
	// does not report totals and HasMore falls back to the full-page heuristic.
	TotalRecords int
	TotalPages   int
	HasMore      bool
}

// BlockedError is the region-restriction signal some sources return.
// It is a first-class result state, never conflated with generic errors.
type BlockedError struct {
	Message string
}

func (e *BlockedError) Error() string {
	if e.Message == "" {
		return "not available for your region"
	}
	return e.Message
}

// Source is one marketplace backend behind the shared pipeline. Each
// implementation owns its wire shape and maps it into models.Product, and
// must never send query parameters its backend does not support.
type Source interface {
	Name() models.Source
	Sorts() []Sort
	FetchPage(ctx context.Context, q Query) (*Page, error)
}

// SupportsSort reports whether s is in the source's sort vocabulary.
func SupportsSort(src Source, s Sort) bool {
	if s == SortDefault {
		return true
	}
	for _, v := range src.Sorts() {
		if v == s {
			return true
		}
	}
	return false
}
