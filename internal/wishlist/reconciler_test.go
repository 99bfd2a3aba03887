package wishlist

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wanslu/storefront/internal/models"
)

// fakeAPI is an in-memory wishlist server with call counters.
type fakeAPI struct {
	mu      sync.Mutex
	rows    map[models.Key]string
	nextID  int
	listErr error
	addErr  error
	delErr  error

	listCalls int
	addCalls  int
	delCalls  int
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{rows: make(map[models.Key]string), nextID: 1}
}

func (f *fakeAPI) List(ctx context.Context) ([]Entry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listCalls++
	if f.listErr != nil {
		return nil, f.listErr
	}
	entries := make([]Entry, 0, len(f.rows))
	for k, id := range f.rows {
		entries = append(entries, Entry{RowID: id, Key: k})
	}
	return entries, nil
}

func (f *fakeAPI) Add(ctx context.Context, p models.Product) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.addCalls++
	if f.addErr != nil {
		return "", f.addErr
	}
	if id, ok := f.rows[p.Key()]; ok {
		return "", &ConflictError{RowID: id}
	}
	id := strconv.Itoa(f.nextID)
	f.nextID++
	f.rows[p.Key()] = id
	return id, nil
}

func (f *fakeAPI) Remove(ctx context.Context, rowID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.delCalls++
	if f.delErr != nil {
		return f.delErr
	}
	for k, id := range f.rows {
		if id == rowID {
			delete(f.rows, k)
			return nil
		}
	}
	return errors.New("row not found")
}

func product(id string) models.Product {
	return models.Product{ID: id, Source: models.SourceWholesale, Title: "item " + id}
}

func TestToggle_AddRemoveAdd(t *testing.T) {
	api := newFakeAPI()
	r := NewReconciler(api)
	ctx := context.Background()
	p := product("100")

	added, err := r.Toggle(ctx, p)
	require.NoError(t, err)
	assert.True(t, added)
	assert.True(t, r.Contains(p.Key()))

	added, err = r.Toggle(ctx, p)
	require.NoError(t, err)
	assert.False(t, added)
	assert.False(t, r.Contains(p.Key()))

	added, err = r.Toggle(ctx, p)
	require.NoError(t, err)
	assert.True(t, added)

	// Exactly one row tracked, matching the server's.
	assert.Equal(t, 1, r.Len())
	rowID, ok := r.RowID(p.Key())
	require.True(t, ok)
	assert.Equal(t, api.rows[p.Key()], rowID)
}

func TestToggle_CrossDeviceAddIsAdopted(t *testing.T) {
	api := newFakeAPI()
	r := NewReconciler(api)
	ctx := context.Background()
	p := product("200")

	// Another device already added the product; the local map is cold.
	api.rows[p.Key()] = "42"

	added, err := r.Toggle(ctx, p)
	require.NoError(t, err)
	assert.True(t, added, "server presence means the product stays present")
	assert.Equal(t, 0, api.addCalls, "pre-check must prevent a duplicate POST")

	rowID, ok := r.RowID(p.Key())
	require.True(t, ok)
	assert.Equal(t, "42", rowID)
}

func TestToggle_ConflictAdoptsServerRowID(t *testing.T) {
	api := newFakeAPI()
	r := NewReconciler(api)
	ctx := context.Background()
	p := product("300")

	// The pre-check listing races the other device's add: listing misses
	// the row, the POST then bounces with "already exists".
	api.listErr = errors.New("listing temporarily unavailable")
	api.rows[p.Key()] = "77"

	added, err := r.Toggle(ctx, p)
	require.NoError(t, err)
	assert.True(t, added)
	assert.Equal(t, 1, api.addCalls)

	rowID, ok := r.RowID(p.Key())
	require.True(t, ok)
	assert.Equal(t, "77", rowID, "conflict payload id must be adopted")
}

func TestToggle_RemoveFailureLeavesStateUnchanged(t *testing.T) {
	api := newFakeAPI()
	r := NewReconciler(api)
	ctx := context.Background()
	p := product("400")

	_, err := r.Toggle(ctx, p)
	require.NoError(t, err)

	api.delErr = errors.New("network down")
	added, err := r.Toggle(ctx, p)
	require.Error(t, err)
	assert.True(t, added, "failed remove must report the entry as still present")
	assert.True(t, r.Contains(p.Key()))
}

func TestToggle_AddFailureLeavesStateUnchanged(t *testing.T) {
	api := newFakeAPI()
	r := NewReconciler(api)
	ctx := context.Background()
	p := product("500")

	api.listErr = errors.New("network down")
	api.addErr = errors.New("network down")

	added, err := r.Toggle(ctx, p)
	require.Error(t, err)
	assert.False(t, added)
	assert.False(t, r.Contains(p.Key()))
	assert.Equal(t, 0, r.Len())
}

func TestRefresh_FullyReplacesLocalMap(t *testing.T) {
	api := newFakeAPI()
	r := NewReconciler(api)
	ctx := context.Background()

	_, err := r.Toggle(ctx, product("600"))
	require.NoError(t, err)
	require.Equal(t, 1, r.Len())

	// Server state diverges: the old row disappears, a new one appears.
	api.mu.Lock()
	api.rows = map[models.Key]string{
		{ID: "601", Source: models.SourceRetail}: "9",
	}
	api.mu.Unlock()

	require.NoError(t, r.Refresh(ctx))
	assert.False(t, r.Contains(models.Key{ID: "600", Source: models.SourceWholesale}))
	assert.True(t, r.Contains(models.Key{ID: "601", Source: models.SourceRetail}))
	assert.Equal(t, 1, r.Len())
	assert.False(t, r.LastSync().IsZero())
}

func TestStartPolling_RefreshesUntilCanceled(t *testing.T) {
	api := newFakeAPI()
	api.rows[models.Key{ID: "800", Source: models.SourceWholesale}] = "3"
	r := NewReconciler(api)

	ctx, cancel := context.WithCancel(context.Background())
	r.StartPolling(ctx, 5*time.Millisecond)

	require.Eventually(t, func() bool {
		return r.Contains(models.Key{ID: "800", Source: models.SourceWholesale})
	}, time.Second, time.Millisecond)

	cancel()
	// Let a tick that raced the cancel drain, then verify polling stopped.
	time.Sleep(25 * time.Millisecond)
	api.mu.Lock()
	after := api.listCalls
	api.mu.Unlock()

	time.Sleep(50 * time.Millisecond)
	api.mu.Lock()
	final := api.listCalls
	api.mu.Unlock()
	assert.Equal(t, after, final, "polling must stop after cancel")
}

func TestRefresh_ErrorKeepsLocalMap(t *testing.T) {
	api := newFakeAPI()
	r := NewReconciler(api)
	ctx := context.Background()

	_, err := r.Toggle(ctx, product("700"))
	require.NoError(t, err)

	api.listErr = errors.New("network down")
	require.Error(t, r.Refresh(ctx))
	assert.True(t, r.Contains(product("700").Key()))
}
