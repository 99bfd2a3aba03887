package models

import "time"

// Source identifies which marketplace backend a product came from.
type Source string

const (
	SourceWholesale Source = "wholesale"
	SourceRetail    Source = "retail"
	SourceLocal     Source = "local"
	SourceRegional  Source = "regional"
)

// Key uniquely identifies a product across a merged result set.
// Two sources may reuse numeric ids, so the id alone is not unique.
type Key struct {
	ID     string `json:"id"`
	Source Source `json:"source"`
}

// Vendor is the shop/factory behind a product listing.
type Vendor struct {
	ID        string `json:"id,omitempty"`
	Name      string `json:"name,omitempty"`
	Certified bool   `json:"certified,omitempty"`
}

// Product is the normalized shape shared by every source. Source-specific
// response formats are mapped into this before entering the pipeline, so
// nothing downstream special-cases a source.
type Product struct {
	ID              string    `json:"id"`
	Source          Source    `json:"source"`
	Title           string    `json:"title"`
	TranslatedTitle string    `json:"translated_title,omitempty"`
	Description     string    `json:"description,omitempty"`
	ImageURL        string    `json:"image_url,omitempty"`
	URL             string    `json:"url,omitempty"`
	Price           float64   `json:"price"`
	PromoPrice      float64   `json:"promo_price,omitempty"`
	Currency        string    `json:"currency,omitempty"`
	Stock           int       `json:"stock,omitempty"`
	Sold            int       `json:"sold,omitempty"`
	Rating          float64   `json:"rating,omitempty"`
	ReviewCount     int       `json:"review_count,omitempty"`
	RepurchaseRate  float64   `json:"repurchase_rate,omitempty"`
	Vendor          Vendor    `json:"vendor,omitempty"`
	UpdatedAt       time.Time `json:"updated_at,omitempty"`
}

// Key returns the (id, source) pair used for deduplication and wishlist lookups.
func (p Product) Key() Key {
	return Key{ID: p.ID, Source: p.Source}
}

// DisplayTitle returns the translated title when one has resolved,
// falling back to the original.
func (p Product) DisplayTitle() string {
	if p.TranslatedTitle != "" {
		return p.TranslatedTitle
	}
	return p.Title
}

// EffectivePrice returns the promotional price when one undercuts the list price.
func (p Product) EffectivePrice() float64 {
	if p.PromoPrice > 0 && p.PromoPrice < p.Price {
		return p.PromoPrice
	}
	return p.Price
}

// Order is a placed order as reported by the account endpoints.
type Order struct {
	ID        string    `json:"id"`
	Status    string    `json:"status"`
	Total     float64   `json:"total"`
	Currency  string    `json:"currency"`
	ItemCount int       `json:"item_count"`
	CreatedAt time.Time `json:"created_at"`
}

// Account is the authenticated user's profile.
type Account struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Language string `json:"language"`
	Currency string `json:"currency"`
	Country  string `json:"country"`
}
