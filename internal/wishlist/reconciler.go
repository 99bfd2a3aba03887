// Package wishlist keeps a client-side view of the user's server-held
// wishlist: a map from (product id, source) to the server-assigned row id,
// updated optimistically on toggle and reconciled against server listings.
package wishlist

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/wanslu/storefront/internal/models"
)

// Entry is one wishlist row as the server reports it.
type Entry struct {
	RowID    string
	Key      models.Key
	Title    string
	ImageURL string
	Price    float64
	AddedAt  time.Time
}

// ConflictError is the "already in wishlist" response to an add. It is a
// soft success: the existing row id rides along in the payload.
type ConflictError struct {
	RowID string
}

func (e *ConflictError) Error() string { return "already in wishlist" }

// API is the server surface the reconciler drives.
type API interface {
	List(ctx context.Context) ([]Entry, error)
	Add(ctx context.Context, p models.Product) (rowID string, err error)
	Remove(ctx context.Context, rowID string) error
}

// Reconciler owns the local membership map. The local cache has no
// invalidation signal from the server, so membership can go stale under
// multi-device edits; Toggle re-verifies with the server before concluding
// "not present", and Refresh/StartPolling bound staleness.
type Reconciler struct {
	mu       sync.Mutex
	api      API
	rows     map[models.Key]string
	lastSync time.Time
}

func NewReconciler(api API) *Reconciler {
	return &Reconciler{
		api:  api,
		rows: make(map[models.Key]string),
	}
}

// Contains is a local O(1) lookup only; it never hits the network.
func (r *Reconciler) Contains(k models.Key) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.rows[k]
	return ok
}

// RowID returns the tracked server row id for a key.
func (r *Reconciler) RowID(k models.Key) (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	id, ok := r.rows[k]
	return id, ok
}

// Len returns the number of locally tracked entries.
func (r *Reconciler) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.rows)
}

// LastSync reports when the map was last fully replaced from the server.
func (r *Reconciler) LastSync() time.Time {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.lastSync
}

// Toggle flips wishlist membership for the product and reports whether it
// ended up added. Network failures leave local state unchanged and are
// returned for UI feedback; nothing is retried here.
func (r *Reconciler) Toggle(ctx context.Context, p models.Product) (added bool, err error) {
	key := p.Key()

	r.mu.Lock()
	rowID, present := r.rows[key]
	r.mu.Unlock()

	if present {
		if err := r.api.Remove(ctx, rowID); err != nil {
			return true, err
		}
		r.mu.Lock()
		delete(r.rows, key)
		r.mu.Unlock()
		return false, nil
	}

	// The local map can miss an entry added from another device since the
	// last sync, so check the server before adding. This is a correctness
	// safeguard, not an optimization: a second add would either duplicate
	// the row or bounce off the server.
	if entries, listErr := r.api.List(ctx); listErr == nil {
		r.replace(entries)
		r.mu.Lock()
		rowID, present = r.rows[key]
		r.mu.Unlock()
		if present {
			return true, nil
		}
	}

	rowID, err = r.api.Add(ctx, p)
	if err != nil {
		var conflict *ConflictError
		if errors.As(err, &conflict) {
			// Server already has it; adopt its row id.
			rowID = conflict.RowID
		} else {
			return false, err
		}
	}

	r.mu.Lock()
	r.rows[key] = rowID
	r.mu.Unlock()
	return true, nil
}

// Refresh fully replaces the local map from a server listing.
func (r *Reconciler) Refresh(ctx context.Context) error {
	entries, err := r.api.List(ctx)
	if err != nil {
		return err
	}
	r.replace(entries)
	return nil
}

// Entries returns the last-synced server rows via a fresh listing.
func (r *Reconciler) Entries(ctx context.Context) ([]Entry, error) {
	entries, err := r.api.List(ctx)
	if err != nil {
		return nil, err
	}
	r.replace(entries)
	return entries, nil
}

func (r *Reconciler) replace(entries []Entry) {
	rows := make(map[models.Key]string, len(entries))
	for _, e := range entries {
		rows[e.Key] = e.RowID
	}
	r.mu.Lock()
	r.rows = rows
	r.lastSync = time.Now()
	r.mu.Unlock()
}

// StartPolling refreshes the map every interval until ctx is canceled,
// bounding staleness from concurrent multi-device edits. Refresh errors
// are ignored; the next tick tries again.
func (r *Reconciler) StartPolling(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				_ = r.Refresh(ctx)
			}
		}
	}()
}
