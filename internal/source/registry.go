package source

import (
	"fmt"
	"sync"

	"github.com/wanslu/storefront/internal/models"
)

// Registry holds the available sources. It is owned by the application
// root and injected where needed rather than kept as a package global.
type Registry struct {
	mu      sync.RWMutex
	sources map[models.Source]Source
}

func NewRegistry() *Registry {
	return &Registry{sources: make(map[models.Source]Source)}
}

func (r *Registry) Register(src Source) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sources[src.Name()] = src
}

func (r *Registry) Get(name models.Source) (Source, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sources[name]
	if !ok {
		return nil, fmt.Errorf("source %q not registered", name)
	}
	return s, nil
}

func (r *Registry) List() []models.Source {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]models.Source, 0, len(r.sources))
	for name := range r.sources {
		names = append(names, name)
	}
	return names
}
