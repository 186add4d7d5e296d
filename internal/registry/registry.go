// Package registry lets modules share services at runtime without importing
// each other.
package registry

import (
	"sync"

	"github.com/rocketpool/rocketpool-web/internal/config"
)

// Key is a type-safe key for registering and retrieving services.
// The string value should be unique, e.g. "dashboard.session".
type Key[T any] string

// Registry provides a type-safe way for modules to share and discover services at runtime.
type Registry struct {
	services sync.Map
	cfg      config.Provider
}

// New creates a new registry with the application's configuration provider.
func New(cfg config.Provider) *Registry {
	return &Registry{
		cfg: cfg,
	}
}

// Config returns the configuration provider stored in the registry.
func (r *Registry) Config() config.Provider {
	return r.cfg
}

// Set registers a service instance against a type-safe key.
func Set[T any](r *Registry, key Key[T], value T) {
	r.services.Store(string(key), value)
}

// Get retrieves a service from the registry by its key.
func Get[T any](r *Registry, key Key[T]) (T, bool) {
	val, ok := r.services.Load(string(key))
	if !ok {
		var zero T
		return zero, false
	}

	result, ok := val.(T)
	if !ok {
		var zero T
		return zero, false
	}
	return result, true
}
