package gesture

import (
	"fmt"
	"sort"
	"sync"
)

// Registry manages the collection of named gestures.
type Registry struct {
	mu       sync.RWMutex
	gestures map[string]*Gesture
}

// NewRegistry creates an empty gesture registry.
func NewRegistry() *Registry {
	return &Registry{
		gestures: make(map[string]*Gesture),
	}
}

// LoadBuiltIn registers all built-in gestures.
func (r *Registry) LoadBuiltIn() {
	for _, g := range builtIn() {
		r.Register(g)
	}
}

// Register adds a gesture to the registry.
func (r *Registry) Register(g *Gesture) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.gestures[g.Name] = g
}

// Get retrieves a gesture by name.
func (r *Registry) Get(name string) (*Gesture, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	g, ok := r.gestures[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	return g, nil
}

// Has reports whether a gesture with this name is registered.
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.gestures[name]
	return ok
}

// List returns all registered gesture names, sorted alphabetically.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.gestures))
	for name := range r.gestures {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ListWithDescriptions returns all gestures with their descriptions.
func (r *Registry) ListWithDescriptions() map[string]string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make(map[string]string, len(r.gestures))
	for name, g := range r.gestures {
		result[name] = g.Description
	}
	return result
}

// Count returns the number of registered gestures.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.gestures)
}
