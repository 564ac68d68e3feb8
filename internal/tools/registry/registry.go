package registry

import (
	"context"
	"fmt"
	"sync"
)

// Handler implements a tool. It receives the arguments after defaults were
// applied. A returned error becomes an Err result via FromError.
type Handler func(ctx context.Context, args Args) (Result, error)

type entry struct {
	desc    Descriptor
	handler Handler
}

// Registry maps tool names to descriptors and handlers, remembering
// registration order.
type Registry struct {
	mu      sync.RWMutex
	entries []entry
	index   map[string]int
}

// New returns an empty Registry.
func New() *Registry {
	return &Registry{index: make(map[string]int)}
}

// Register adds a tool. It fails with *DuplicateToolError if the name is
// taken, and with a plain error for a nil handler or an invalid descriptor.
func (r *Registry) Register(desc Descriptor, handler Handler) error {
	if handler == nil {
		return fmt.Errorf("tool %s: handler must not be nil", desc.Name)
	}
	if err := desc.Validate(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.index[desc.Name]; exists {
		return &DuplicateToolError{Name: desc.Name}
	}

	r.index[desc.Name] = len(r.entries)
	r.entries = append(r.entries, entry{desc: desc, handler: handler})
	return nil
}

// List returns all descriptors in registration order.
func (r *Registry) List() []Descriptor {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Descriptor, len(r.entries))
	for i, e := range r.entries {
		out[i] = e.desc
	}
	return out
}

// Lookup returns the handler registered under name.
func (r *Registry) Lookup(name string) (Handler, error) {
	e, err := r.lookup(name)
	if err != nil {
		return nil, err
	}
	return e.handler, nil
}

// Descriptor returns the descriptor registered under name.
func (r *Registry) Descriptor(name string) (Descriptor, bool) {
	e, err := r.lookup(name)
	if err != nil {
		return Descriptor{}, false
	}
	return e.desc, true
}

// Len returns the number of registered tools.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

func (r *Registry) lookup(name string) (entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	i, ok := r.index[name]
	if !ok {
		return entry{}, &UnknownToolError{Name: name}
	}
	return r.entries[i], nil
}
