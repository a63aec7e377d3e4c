package surface

import (
	"fmt"
	"sort"
	"sync"
)

// Registry stores surface factories by kind, providing discovery and
// duplication safeguards.
type Registry struct {
	mu        sync.RWMutex
	factories map[Kind]Factory
}

// NewRegistry creates an empty registry instance.
func NewRegistry() *Registry {
	return &Registry{factories: make(map[Kind]Factory)}
}

// Register adds a factory for a kind. Duplicate kinds return an error.
func (r *Registry) Register(kind Kind, factory Factory) error {
	if factory == nil {
		return fmt.Errorf("surface: factory is required")
	}
	if kind == "" {
		return fmt.Errorf("surface: kind is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.factories[kind]; exists {
		return fmt.Errorf("surface: factory for %q already registered", kind)
	}
	r.factories[kind] = factory
	return nil
}

// MustRegister panics on registration failure. Useful for init-time wiring.
func (r *Registry) MustRegister(kind Kind, factory Factory) {
	if err := r.Register(kind, factory); err != nil {
		panic(err)
	}
}

// Get retrieves a factory by kind.
func (r *Registry) Get(kind Kind) (Factory, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	factory, ok := r.factories[kind]
	if !ok {
		return nil, fmt.Errorf("surface: no factory for %q", kind)
	}
	return factory, nil
}

// Has reports whether a factory is registered for the kind.
func (r *Registry) Has(kind Kind) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.factories[kind]
	return ok
}

// List returns the registered kinds, sorted.
func (r *Registry) List() []Kind {
	r.mu.RLock()
	defer r.mu.RUnlock()

	kinds := make([]Kind, 0, len(r.factories))
	for kind := range r.factories {
		kinds = append(kinds, kind)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
	return kinds
}
