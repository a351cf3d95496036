package table

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"golang.org/x/sync/singleflight"
)

// Registry errors.
var (
	ErrDefinitionNotFound = errors.New("table definition not found")
	ErrInvalidKey         = errors.New("table definition key requires a table name")
	ErrNilDefinition      = errors.New("loader returned a nil definition")
)

// Key identifies a table definition for one controller action.
type Key struct {
	Table      string
	Model      string
	Action     string
	Controller string
	Area       string
}

// String renders the key in a stable form used for logging and de-duplication.
func (k Key) String() string {
	return fmt.Sprintf("%s|%s|%s|%s|%s", k.Table, k.Model, k.Area, k.Controller, k.Action)
}

// DefinitionProvider resolves table definitions by key.
type DefinitionProvider interface {
	GetOrLoad(ctx context.Context, key Key) (Definition, error)
}

// Loader produces the definition for a key on a registry miss.
type Loader interface {
	Load(ctx context.Context, key Key) (Definition, error)
}

// LoaderFunc adapts a function to the Loader interface.
type LoaderFunc func(ctx context.Context, key Key) (Definition, error)

// Load implements Loader.
func (f LoaderFunc) Load(ctx context.Context, key Key) (Definition, error) {
	return f(ctx, key)
}

// Registry caches definitions per key for the life of the process.
// Entries are loaded on first lookup; concurrent first lookups of the same key
// share a single load. Failed loads are not cached.
// Safe for concurrent use.
type Registry struct {
	loader Loader

	// mu protects entries.
	mu      sync.RWMutex
	entries map[Key]Definition

	group singleflight.Group
}

// NewRegistry creates an empty registry backed by loader.
func NewRegistry(loader Loader) *Registry {
	return &Registry{
		loader:  loader,
		entries: make(map[Key]Definition),
	}
}

// GetOrLoad returns the cached definition for key, loading it on a miss.
func (r *Registry) GetOrLoad(ctx context.Context, key Key) (Definition, error) {
	if key.Table == "" {
		return nil, ErrInvalidKey
	}

	if def, ok := r.lookup(key); ok {
		return def, nil
	}

	// The shared load outlives any single caller; each caller still stops
	// waiting when its own context ends.
	loadCtx := context.WithoutCancel(ctx)
	ch := r.group.DoChan(key.String(), func() (interface{}, error) {
		// Another caller may have filled the entry while we waited.
		if def, ok := r.lookup(key); ok {
			return def, nil
		}

		def, loadErr := r.loader.Load(loadCtx, key)
		if loadErr != nil {
			return nil, loadErr
		}
		if def == nil {
			return nil, fmt.Errorf("%w: %s", ErrNilDefinition, key)
		}

		r.mu.Lock()
		r.entries[key] = def
		r.mu.Unlock()
		return def, nil
	})

	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("loading table definition %s: %w", key, ctx.Err())
	case res := <-ch:
		if res.Err != nil {
			return nil, fmt.Errorf("loading table definition %s: %w", key, res.Err)
		}
		def, _ := res.Val.(Definition)
		return def, nil
	}
}

// Invalidate drops the cached definition for key, if any.
func (r *Registry) Invalidate(key Key) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.entries, key)
}

// Reset drops every cached definition.
func (r *Registry) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = make(map[Key]Definition)
}

// Len returns the number of cached definitions.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

func (r *Registry) lookup(key Key) (Definition, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	def, ok := r.entries[key]
	return def, ok
}
