// Package registry caches expensive model handles for the life of the process.
package registry

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"golang.org/x/sync/singleflight"
)

// Loader constructs the handle for a model identifier.
type Loader[T any] func(ctx context.Context, id string) (T, error)

// Registry maps model identifiers to initialized handles. Each id is loaded
// at most once successfully; concurrent first requests share a single load.
// Failed loads are not cached. Entries are never invalidated.
type Registry[T any] struct {
	mu      sync.RWMutex
	handles map[string]T
	group   singleflight.Group
}

// New returns an empty registry.
func New[T any]() *Registry[T] {
	return &Registry[T]{handles: make(map[string]T)}
}

// Get returns the cached handle for id, running load on first use.
func (r *Registry[T]) Get(ctx context.Context, id string, load Loader[T]) (T, error) {
	r.mu.RLock()
	h, ok := r.handles[id]
	r.mu.RUnlock()
	if ok {
		return h, nil
	}

	v, err, _ := r.group.Do(id, func() (any, error) {
		r.mu.RLock()
		h, ok := r.handles[id]
		r.mu.RUnlock()
		if ok {
			return h, nil
		}
		h, err := load(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("load %s: %w", id, err)
		}
		r.mu.Lock()
		r.handles[id] = h
		r.mu.Unlock()
		return h, nil
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return v.(T), nil
}

// Loaded lists initialized identifiers in sorted order.
func (r *Registry[T]) Loaded() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := make([]string, 0, len(r.handles))
	for id := range r.handles {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
