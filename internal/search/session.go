// Package search orchestrates multi-source product queries: pagination,
// sort/filter state, stale-response guarding, and per-item title
// translation. One Session corresponds to one screen instance.
package search

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/wanslu/storefront/internal/models"
	"github.com/wanslu/storefront/internal/source"
	"github.com/wanslu/storefront/internal/translate"
)

// State is the render state of a session. Presentation layers branch on it
// with precedence loading > error/blocked > empty > populated.
type State int

const (
	StateIdle State = iota
	StateLoading
	StatePopulated
	StateEmpty
	StateError
	StateBlocked
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateLoading:
		return "loading"
	case StatePopulated:
		return "populated"
	case StateEmpty:
		return "empty"
	case StateError:
		return "error"
	case StateBlocked:
		return "blocked"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Filters is the user-adjustable query surface beyond free text. Sources
// ignore the filters they do not support and never put them on the wire.
type Filters struct {
	Sort          source.Sort
	MinRating     int
	MinPrice      float64
	MaxPrice      float64
	CertifiedOnly bool
}

// Options configures a Session.
type Options struct {
	PageSize int
	// Language is the display language. "en" is the source language of
	// listings, so translation is skipped entirely for it.
	Language string
	UserID   string
	Country  string
	// Translations, when set, resolves product titles concurrently after
	// each successful page. Items update in place as each resolves.
	Translations  *translate.Cache
	MaxConcurrent int
	// OnItemTranslated fires per item as its translation lands.
	OnItemTranslated func(key models.Key, title string)
}

// Session is the per-screen search pipeline state machine:
// Idle → Loading → {Populated, Empty, Error, Blocked}, with Loading
// re-entered on text/sort/filter changes and on LoadMore.
type Session struct {
	mu   sync.Mutex
	src  source.Source
	opts Options

	text    string
	filters Filters

	state      State
	err        error
	blockedMsg string

	products     []models.Product
	page         int
	totalRecords int
	totalPages   int
	hasMore      bool

	// gen invalidates in-flight responses when the query they were issued
	// for is no longer current. Without it, a slow response for query A
	// arriving after the user switched to query B would clobber B's results.
	gen     uint64
	pending int

	transWG sync.WaitGroup
}

func NewSession(src source.Source, opts Options) *Session {
	if opts.PageSize <= 0 {
		opts.PageSize = 20
	}
	if opts.MaxConcurrent <= 0 {
		opts.MaxConcurrent = 4
	}
	if opts.Language == "" {
		opts.Language = "en"
	}
	return &Session{src: src, opts: opts, state: StateIdle}
}

// Search runs a fresh query: page resets to 1 and results are replaced.
func (s *Session) Search(ctx context.Context, text string) error {
	s.mu.Lock()
	s.text = text
	s.mu.Unlock()
	return s.fetch(ctx, 1, true)
}

// SetFilters validates and stores sort/filter state without fetching.
// Used when composing the initial query; mid-session changes go through
// ApplyFilters so the reset-to-page-1 rule holds.
func (s *Session) SetFilters(f Filters) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !source.SupportsSort(s.src, f.Sort) {
		return fmt.Errorf("sort %q not supported by source %q", f.Sort, s.src.Name())
	}
	s.filters = f
	return nil
}

// ApplyFilters changes sort/filter state and re-runs the current query
// from page 1, replacing results. An unsupported sort for the active
// source is rejected before any request is made.
func (s *Session) ApplyFilters(ctx context.Context, f Filters) error {
	if err := s.SetFilters(f); err != nil {
		return err
	}
	return s.fetch(ctx, 1, true)
}

// SetSource switches the session to a different source and re-runs the
// current query from page 1. Filters reset because sort vocabularies are
// source-scoped.
func (s *Session) SetSource(ctx context.Context, src source.Source) error {
	s.mu.Lock()
	s.src = src
	s.filters = Filters{}
	s.mu.Unlock()
	return s.fetch(ctx, 1, true)
}

// LoadMore extends the result list with the next page relative to current
// state. It is a no-op while a request is in flight or when the source has
// no more pages, so rapid firing cannot duplicate or skip pages.
func (s *Session) LoadMore(ctx context.Context) (bool, error) {
	s.mu.Lock()
	if s.pending > 0 || !s.hasMore || s.state == StateIdle {
		s.mu.Unlock()
		return false, nil
	}
	next := s.page + 1
	s.mu.Unlock()

	if err := s.fetch(ctx, next, false); err != nil {
		return false, err
	}
	return true, nil
}

// Retry re-runs the last query after an error, keeping page 1 semantics.
func (s *Session) Retry(ctx context.Context) error {
	return s.fetch(ctx, 1, true)
}

func (s *Session) fetch(ctx context.Context, page int, replace bool) error {
	s.mu.Lock()
	if replace {
		// Any query change invalidates responses still in flight.
		s.gen++
	}
	gen := s.gen
	s.pending++
	s.state = StateLoading
	q := source.Query{
		Text:          s.text,
		Sort:          s.filters.Sort,
		MinRating:     s.filters.MinRating,
		MinPrice:      s.filters.MinPrice,
		MaxPrice:      s.filters.MaxPrice,
		CertifiedOnly: s.filters.CertifiedOnly,
		Page:          page,
		PageSize:      s.opts.PageSize,
		Language:      s.opts.Language,
		UserID:        s.opts.UserID,
		Country:       s.opts.Country,
	}
	src := s.src
	s.mu.Unlock()

	source.ReportProgress(ctx, fmt.Sprintf("Fetching %s page %d...", src.Name(), page))
	pg, err := src.FetchPage(ctx, q)

	s.mu.Lock()
	s.pending--
	if gen != s.gen {
		// Superseded while in flight; a newer query owns the state now.
		s.mu.Unlock()
		return nil
	}

	if err != nil {
		var blocked *source.BlockedError
		if errors.As(err, &blocked) {
			s.state = StateBlocked
			s.blockedMsg = blocked.Message
			s.err = nil
			s.products = nil
			s.hasMore = false
			s.mu.Unlock()
			return nil
		}
		s.state = StateError
		s.err = err
		s.mu.Unlock()
		return err
	}

	s.err = nil
	s.blockedMsg = ""
	if replace {
		s.products = pg.Products
	} else {
		s.products = append(s.products, pg.Products...)
	}
	s.page = page
	s.totalRecords = pg.TotalRecords
	s.totalPages = pg.TotalPages
	s.hasMore = pg.HasMore
	if len(s.products) == 0 {
		s.state = StateEmpty
	} else {
		s.state = StatePopulated
	}
	s.mu.Unlock()

	s.kickTranslations(ctx, pg.Products, gen)
	return nil
}

// kickTranslations fires one translation per newly added product,
// concurrently with a bounded fan-out. Each item updates in place as its
// translation resolves; the list never waits for the full batch. Failed
// translations fall back to the original title silently.
func (s *Session) kickTranslations(ctx context.Context, added []models.Product, gen uint64) {
	if s.opts.Translations == nil || s.opts.Language == "en" || len(added) == 0 {
		return
	}

	g := new(errgroup.Group)
	g.SetLimit(s.opts.MaxConcurrent)
	for _, p := range added {
		if p.Title == "" {
			continue
		}
		g.Go(func() error {
			translated, err := s.opts.Translations.Translate(ctx, p.Title, s.opts.Language)
			if err != nil {
				return nil
			}
			s.applyTranslation(gen, p.Key(), translated)
			return nil
		})
	}

	s.transWG.Add(1)
	go func() {
		defer s.transWG.Done()
		_ = g.Wait()
	}()
}

func (s *Session) applyTranslation(gen uint64, key models.Key, title string) {
	s.mu.Lock()
	if gen != s.gen {
		s.mu.Unlock()
		return
	}
	found := false
	for i := range s.products {
		if s.products[i].Key() == key {
			s.products[i].TranslatedTitle = title
			found = true
			break
		}
	}
	cb := s.opts.OnItemTranslated
	s.mu.Unlock()

	if found && cb != nil {
		cb(key, title)
	}
}

// Wait blocks until all in-flight title translations have settled. The CLI
// uses it to render fully translated tables; interactive surfaces rely on
// OnItemTranslated instead.
func (s *Session) Wait() {
	s.transWG.Wait()
}

// State returns the current render state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Err returns the last pipeline error, if the session is in StateError.
func (s *Session) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// BlockedMessage returns the server's region-block message, if any.
func (s *Session) BlockedMessage() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.blockedMsg
}

// Products returns a copy of the current result list.
func (s *Session) Products() []models.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Product, len(s.products))
	copy(out, s.products)
	return out
}

// HasMore reports whether another page can be requested.
func (s *Session) HasMore() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hasMore
}

// Page returns the last successfully loaded page number.
func (s *Session) Page() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.page
}

// TotalRecords returns the server-reported total, or -1 when the active
// source does not report one.
func (s *Session) TotalRecords() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.totalRecords
}

// Source returns the active source.
func (s *Session) Source() source.Source {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.src
}
