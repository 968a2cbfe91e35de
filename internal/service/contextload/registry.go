package contextload

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/heartmarshall/entity-events/internal/domain"
	"github.com/heartmarshall/entity-events/internal/service/serializer"
)

// Fetcher loads the objects of one hint kind by ID. IDs without an object
// are left out of the result. preload names related data the caller wants
// hydrated; fetchers ignore names they do not know.
type Fetcher interface {
	Fetch(ctx context.Context, ids []int64, preload []string) (map[int64]serializer.Model, error)
}

// FetcherFunc adapts a function to Fetcher.
type FetcherFunc func(ctx context.Context, ids []int64, preload []string) (map[int64]serializer.Model, error)

func (f FetcherFunc) Fetch(ctx context.Context, ids []int64, preload []string) (map[int64]serializer.Model, error) {
	return f(ctx, ids, preload)
}

// Loader rewrites the hydrated context of one event. A source selects its
// loader by name.
type Loader interface {
	LoadContext(ctx context.Context, event domain.Event, hydrated map[string]any) (map[string]any, error)
}

// LoaderFunc adapts a function to Loader.
type LoaderFunc func(ctx context.Context, event domain.Event, hydrated map[string]any) (map[string]any, error)

func (f LoaderFunc) LoadContext(ctx context.Context, event domain.Event, hydrated map[string]any) (map[string]any, error) {
	return f(ctx, event, hydrated)
}

// ErrAlreadyRegistered is returned when a name is registered twice.
var ErrAlreadyRegistered = errors.New("already registered")

// Registry holds the fetchers and context loaders known to the process.
// Registration is validated up front so a misnamed loader is caught when a
// source is configured, not when its events are rendered.
type Registry struct {
	mu       sync.RWMutex
	fetchers map[string]Fetcher
	loaders  map[string]Loader
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		fetchers: make(map[string]Fetcher),
		loaders:  make(map[string]Loader),
	}
}

// RegisterFetcher makes f serve hints of the given kind.
func (r *Registry) RegisterFetcher(kind string, f Fetcher) error {
	kind = strings.TrimSpace(kind)
	if kind == "" || f == nil {
		return domain.NewValidationError("kind", "fetcher kind and implementation are required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.fetchers[kind]; ok {
		return fmt.Errorf("fetcher %q: %w", kind, ErrAlreadyRegistered)
	}
	r.fetchers[kind] = f
	return nil
}

// RegisterLoader makes l available to sources under name.
func (r *Registry) RegisterLoader(name string, l Loader) error {
	name = strings.TrimSpace(name)
	if name == "" || l == nil {
		return domain.NewValidationError("context_loader", "loader name and implementation are required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.loaders[name]; ok {
		return fmt.Errorf("loader %q: %w", name, ErrAlreadyRegistered)
	}
	r.loaders[name] = l
	return nil
}

func (r *Registry) fetcher(kind string) (Fetcher, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	f, ok := r.fetchers[kind]
	return f, ok
}

// Loader returns the loader registered under name. The empty name resolves
// to no loader without error.
func (r *Registry) Loader(name string) (Loader, error) {
	if name == "" {
		return nil, nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	l, ok := r.loaders[name]
	if !ok {
		return nil, fmt.Errorf("context loader %q: %w", name, domain.ErrMisconfiguredContextLoader)
	}
	return l, nil
}

// HasFetcher reports whether a fetcher is registered for the entity kind.
func (r *Registry) HasFetcher(kind string) bool {
	_, ok := r.fetcher(kind)
	return ok
}

// HasLoader reports whether name resolves to a registered context loader.
// The empty name has no loader.
func (r *Registry) HasLoader(name string) bool {
	l, err := r.Loader(name)
	return err == nil && l != nil
}

// Kinds returns the registered fetcher kinds in sorted order.
func (r *Registry) Kinds() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	kinds := make([]string, 0, len(r.fetchers))
	for k := range r.fetchers {
		kinds = append(kinds, k)
	}
	slices.Sort(kinds)
	return kinds
}
