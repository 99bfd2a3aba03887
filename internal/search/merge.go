package search

import "github.com/wanslu/storefront/internal/models"

// Merge combines paginated results into a running list without duplicate
// (id, source) keys. When the same key appears in both lists (overlapping
// pages, or a refresh racing an append) the instance with the later
// UpdatedAt wins, in its original position. Used by the wishlist and
// activity listings, not by raw search appends.
func Merge(existing, incoming []models.Product) []models.Product {
	out := make([]models.Product, len(existing))
	copy(out, existing)

	index := make(map[models.Key]int, len(out))
	for i, p := range out {
		index[p.Key()] = i
	}

	for _, p := range incoming {
		if i, ok := index[p.Key()]; ok {
			if p.UpdatedAt.After(out[i].UpdatedAt) {
				out[i] = p
			}
			continue
		}
		index[p.Key()] = len(out)
		out = append(out, p)
	}
	return out
}
