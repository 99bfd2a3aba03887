// Package translate memoizes title translations for the process lifetime.
// Concurrent requests for the same (text, language) pair share a single
// outbound call. There is no eviction; long sessions grow the cache.
package translate

import (
	"context"
	"sync"

	"golang.org/x/sync/singleflight"
)

// Backend performs one translation request.
type Backend interface {
	Translate(ctx context.Context, text, targetLang string) (string, error)
}

// Cache wraps a Backend with per-key memoization and request coalescing.
type Cache struct {
	backend Backend

	mu      sync.RWMutex
	entries map[string]string

	group singleflight.Group
}

func NewCache(backend Backend) *Cache {
	return &Cache{
		backend: backend,
		entries: make(map[string]string),
	}
}

func cacheKey(text, lang string) string {
	return lang + "\x00" + text
}

// Translate returns the cached translation for (text, targetLang), issuing
// at most one backend call per key regardless of concurrency. Failures are
// not cached: the in-flight marker clears and a later call retries. Skipping
// translation when targetLang is already the display language is the
// caller's job, not the cache's.
func (c *Cache) Translate(ctx context.Context, text, targetLang string) (string, error) {
	key := cacheKey(text, targetLang)

	c.mu.RLock()
	cached, ok := c.entries[key]
	c.mu.RUnlock()
	if ok {
		return cached, nil
	}

	result, err, _ := c.group.Do(key, func() (any, error) {
		// A concurrent caller may have filled the entry between the read
		// lock and joining the flight.
		c.mu.RLock()
		cached, ok := c.entries[key]
		c.mu.RUnlock()
		if ok {
			return cached, nil
		}

		translated, err := c.backend.Translate(ctx, text, targetLang)
		if err != nil {
			return "", err
		}

		c.mu.Lock()
		c.entries[key] = translated
		c.mu.Unlock()
		return translated, nil
	})
	if err != nil {
		return "", err
	}
	return result.(string), nil
}

// Len reports the number of cached entries.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
