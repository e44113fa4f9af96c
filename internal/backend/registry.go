package backend

import (
	"errors"
	"fmt"
	"slices"
	"sync"
)

// Registry manages backend instances.
type Registry struct {
	backends map[BackendProvider]Backend
	mu       sync.RWMutex
}

// NewRegistry creates a new backend registry.
func NewRegistry() *Registry {
	return &Registry{
		backends: make(map[BackendProvider]Backend),
	}
}

// Register adds a backend to the registry.
func (r *Registry) Register(b Backend) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.backends[b.Provider()]; exists {
		return fmt.Errorf("backend: %s: %w", b.Provider(), ErrAlreadyRegistered)
	}

	r.backends[b.Provider()] = b
	return nil
}

// Get retrieves a backend by provider.
func (r *Registry) Get(provider BackendProvider) (Backend, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	b, ok := r.backends[provider]
	return b, ok
}

// MustGet retrieves a backend by provider or returns ErrNotFound.
func (r *Registry) MustGet(provider BackendProvider) (Backend, error) {
	b, ok := r.Get(provider)
	if !ok {
		return nil, fmt.Errorf("backend: %s: %w", provider, ErrNotFound)
	}
	return b, nil
}

// Providers returns the registered providers, sorted.
func (r *Registry) Providers() []BackendProvider {
	r.mu.RLock()
	defer r.mu.RUnlock()

	providers := make([]BackendProvider, 0, len(r.backends))
	for p := range r.backends {
		providers = append(providers, p)
	}
	slices.Sort(providers)

	return providers
}

// Close closes all registered backends and empties the registry.
func (r *Registry) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var errs []error
	for _, b := range r.backends {
		if err := b.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	clear(r.backends)

	return errors.Join(errs...)
}
