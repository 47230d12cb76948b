package busobj

import (
	"fmt"
	"sync"
)

// Registry tracks the composite objects an application has placed on one
// bus connection, keyed by object path.
//
// The registry does not own construction - objects announce themselves when
// built - but it gives the application a single handle for lookup and for
// tearing everything down in a deterministic order on shutdown.
type Registry struct {
	mu      sync.RWMutex
	order   []string
	objects map[string]*Object
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		objects: make(map[string]*Object),
	}
}

// Add registers objects with the registry.
// Panics on a path collision: two live objects on one connection cannot
// share a path, so a collision is a programmer error, not a runtime
// condition to handle.
func (r *Registry) Add(objs ...*Object) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, o := range objs {
		if _, exists := r.objects[o.Path()]; exists {
			panic(fmt.Sprintf("busobj: path collision for %q", o.Path()))
		}
		r.objects[o.Path()] = o
		r.order = append(r.order, o.Path())
	}
}

// Get returns the object at path.
func (r *Registry) Get(path string) (*Object, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	o, ok := r.objects[path]
	return o, ok
}

// Remove detaches the object at path from the registry without closing it.
// The caller keeps ownership and remains responsible for Close.
func (r *Registry) Remove(path string) (*Object, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	o, ok := r.objects[path]
	if !ok {
		return nil, false
	}
	delete(r.objects, path)
	for n, p := range r.order {
		if p == path {
			r.order = append(r.order[:n], r.order[n+1:]...)
			break
		}
	}
	return o, true
}

// Paths returns the registered paths in registration order.
func (r *Registry) Paths() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// Len returns the number of registered objects.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.objects)
}

// CloseAll closes every registered object in reverse registration order and
// empties the registry. The first error is returned; later objects are
// still closed.
func (r *Registry) CloseAll() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var first error
	for n := len(r.order) - 1; n >= 0; n-- {
		o := r.objects[r.order[n]]
		if err := o.Close(); err != nil && first == nil {
			first = err
		}
	}
	r.order = nil
	r.objects = make(map[string]*Object)
	return first
}
