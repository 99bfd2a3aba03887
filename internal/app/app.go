// Package app wires the shared client-side state: API client, source
// registry, translation cache and wishlist reconciler. One App is built at
// startup and passed to the presentation layers; nothing here is a hidden
// package global, so logout can drop the whole thing.
package app

import (
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/wanslu/storefront/config"
	"github.com/wanslu/storefront/internal/httputil"
	"github.com/wanslu/storefront/internal/models"
	"github.com/wanslu/storefront/internal/prefs"
	"github.com/wanslu/storefront/internal/search"
	"github.com/wanslu/storefront/internal/source"
	"github.com/wanslu/storefront/internal/translate"
	"github.com/wanslu/storefront/internal/wanslu"
	"github.com/wanslu/storefront/internal/wishlist"
)

// App owns the process-wide shared state.
type App struct {
	Config       *config.Config
	Prefs        *prefs.Store
	Client       *wanslu.Client
	Sources      *source.Registry
	Translations *translate.Cache
	Wishlist     *wishlist.Reconciler
	Log          *logrus.Logger
}

// New assembles the full client stack from configuration.
func New(cfg *config.Config) (*App, error) {
	log := logrus.New()
	if cfg.Verbose {
		log.SetLevel(logrus.DebugLevel)
	} else {
		log.SetLevel(logrus.WarnLevel)
	}

	prefPath, err := prefs.DefaultPath()
	if err != nil {
		return nil, err
	}
	store := prefs.Open(prefPath)

	transport := &httputil.APITransport{
		Prefs:       store,
		RateLimiter: rate.NewLimiter(rate.Limit(cfg.RatePerSecond), cfg.RateBurst),
		Log:         log,
	}
	httpc := httputil.NewHTTPClient(transport)
	client := wanslu.NewClient(httpc, cfg.BaseURL, store, log)

	registry := source.NewRegistry()
	registry.Register(wanslu.NewWholesaleSource(client))
	registry.Register(wanslu.NewRetailSource(client))
	registry.Register(wanslu.NewLocalSource(client))
	registry.Register(wanslu.NewRegionalSource(client))

	return &App{
		Config:       cfg,
		Prefs:        store,
		Client:       client,
		Sources:      registry,
		Translations: translate.NewCache(wanslu.NewTranslator(client)),
		Wishlist:     wishlist.NewReconciler(wanslu.NewWishlistAPI(client)),
		Log:          log,
	}, nil
}

// NewSession builds a search session for the named source, carrying the
// user's display language, id and resolved country.
func (a *App) NewSession(name models.Source) (*search.Session, error) {
	src, err := a.Sources.Get(name)
	if err != nil {
		return nil, err
	}

	opts := search.Options{
		PageSize:      a.Config.PageSize,
		Language:      a.displayLanguage(),
		Country:       a.Prefs.Country(a.Config.DefaultCountry),
		Translations:  a.Translations,
		MaxConcurrent: a.Config.MaxConcurrent,
	}
	if p, err := a.Prefs.Load(); err == nil {
		opts.UserID = p.UserID
	}
	return search.NewSession(src, opts), nil
}

func (a *App) displayLanguage() string {
	if p, err := a.Prefs.Load(); err == nil && p.Language != "" {
		return p.Language
	}
	return a.Config.Language
}
