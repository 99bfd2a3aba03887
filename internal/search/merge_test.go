package search

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/wanslu/storefront/internal/models"
)

func wholesaleProduct(id, title string, updated time.Time) models.Product {
	return models.Product{ID: id, Source: models.SourceWholesale, Title: title, UpdatedAt: updated}
}

func TestMerge_AppendsNewKeys(t *testing.T) {
	now := time.Now()
	existing := []models.Product{
		wholesaleProduct("1", "one", now),
		wholesaleProduct("2", "two", now),
	}
	incoming := []models.Product{
		wholesaleProduct("3", "three", now),
	}

	out := Merge(existing, incoming)
	assert.Len(t, out, 3)
	assert.Equal(t, "1", out[0].ID)
	assert.Equal(t, "3", out[2].ID)
}

func TestMerge_DuplicateKeepsPositionNewerWins(t *testing.T) {
	old := time.Now()
	newer := old.Add(time.Hour)
	existing := []models.Product{
		wholesaleProduct("1", "stale title", old),
		wholesaleProduct("2", "two", old),
	}
	incoming := []models.Product{
		wholesaleProduct("1", "fresh title", newer),
	}

	out := Merge(existing, incoming)
	assert.Len(t, out, 2)
	assert.Equal(t, "1", out[0].ID, "updated item keeps its original position")
	assert.Equal(t, "fresh title", out[0].Title)
}

func TestMerge_DuplicateOlderIsIgnored(t *testing.T) {
	old := time.Now()
	newer := old.Add(time.Hour)
	existing := []models.Product{
		wholesaleProduct("1", "current title", newer),
	}
	incoming := []models.Product{
		wholesaleProduct("1", "stale title", old),
	}

	out := Merge(existing, incoming)
	assert.Len(t, out, 1)
	assert.Equal(t, "current title", out[0].Title)
}

func TestMerge_SameIDDifferentSourceAreDistinct(t *testing.T) {
	now := time.Now()
	existing := []models.Product{
		{ID: "1", Source: models.SourceWholesale, Title: "wholesale", UpdatedAt: now},
	}
	incoming := []models.Product{
		{ID: "1", Source: models.SourceRetail, Title: "retail", UpdatedAt: now},
	}

	out := Merge(existing, incoming)
	assert.Len(t, out, 2, "identity is (id, source), not id alone")
}

func TestMerge_DoesNotMutateExisting(t *testing.T) {
	old := time.Now()
	existing := []models.Product{
		wholesaleProduct("1", "original", old),
	}
	incoming := []models.Product{
		wholesaleProduct("1", "replacement", old.Add(time.Hour)),
		wholesaleProduct("2", "two", old),
	}

	_ = Merge(existing, incoming)
	assert.Equal(t, "original", existing[0].Title)
}
