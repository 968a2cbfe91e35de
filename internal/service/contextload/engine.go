// Package contextload hydrates event contexts: IDs found under hinted keys
// are replaced by the objects they reference, fetched in one batch per kind,
// and every event is bound to the renderer that applies to each medium.
package contextload

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/graph-gophers/dataloader/v7"

	"github.com/heartmarshall/entity-events/internal/domain"
	"github.com/heartmarshall/entity-events/internal/service/render"
	"github.com/heartmarshall/entity-events/internal/service/serializer"
)

const (
	defaultBatchCapacity = 500
	defaultWait          = 2 * time.Millisecond
)

type catalogStore interface {
	GetSourcesByIDs(ctx context.Context, ids []int64) ([]domain.Source, error)
	GetRenderingStyleByName(ctx context.Context, name string) (*domain.RenderingStyle, error)
	RenderersFor(ctx context.Context, sourceIDs, styleIDs []int64) ([]domain.ContextRenderer, error)
}

type renderer interface {
	Render(ctx context.Context, t render.Templates, data map[string]any) (render.Output, error)
}

// Engine loads contexts and renderers for batches of events. It is
// long-lived and safe for concurrent use.
type Engine struct {
	catalog  catalogStore
	registry *Registry
	renderer renderer
	log      *slog.Logger

	defaultStyle  string
	batchCapacity int
	wait          time.Duration
}

// Option configures an Engine.
type Option func(*Engine)

// WithDefaultStyle names the rendering style used when a medium has none or
// no renderer exists for its own style.
func WithDefaultStyle(name string) Option {
	return func(e *Engine) { e.defaultStyle = name }
}

// WithBatching sets the dataloader batch capacity and collection window.
func WithBatching(capacity int, wait time.Duration) Option {
	return func(e *Engine) {
		if capacity > 0 {
			e.batchCapacity = capacity
		}
		if wait > 0 {
			e.wait = wait
		}
	}
}

// NewEngine creates a context loading Engine.
func NewEngine(log *slog.Logger, catalog catalogStore, registry *Registry, r renderer, opts ...Option) *Engine {
	e := &Engine{
		catalog:       catalog,
		registry:      registry,
		renderer:      r,
		log:           log.With("service", "contextload"),
		batchCapacity: defaultBatchCapacity,
		wait:          defaultWait,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

type styleKey struct {
	owner int64
	style int64
}

// Load hydrates the contexts of events and resolves, for every medium, the
// renderer each event uses on it. The input events are not modified; the
// result keeps their order.
//
// Renderer choice per medium, first match wins: source group with the
// medium's style, source with the medium's style, source group with the
// default style, source with the default style.
func (e *Engine) Load(ctx context.Context, events []domain.Event, mediums ...domain.Medium) ([]*LoadedEvent, error) {
	if len(events) == 0 {
		return []*LoadedEvent{}, nil
	}

	sources, err := e.sources(ctx, events)
	if err != nil {
		return nil, err
	}

	defaultStyleID, styleIDs, err := e.styles(ctx, mediums)
	if err != nil {
		return nil, err
	}

	sourceIDs := make([]int64, 0, len(sources))
	for id := range sources {
		sourceIDs = append(sourceIDs, id)
	}
	slices.Sort(sourceIDs)

	renderers, err := e.catalog.RenderersFor(ctx, sourceIDs, styleIDs)
	if err != nil {
		return nil, fmt.Errorf("load renderers: %w", err)
	}

	bySource := make(map[styleKey]*domain.ContextRenderer)
	byGroup := make(map[styleKey]*domain.ContextRenderer)
	for i := range renderers {
		r := &renderers[i]
		if r.SourceID != nil {
			bySource[styleKey{*r.SourceID, r.RenderingStyleID}] = r
		}
		if r.SourceGroupID != nil {
			byGroup[styleKey{*r.SourceGroupID, r.RenderingStyleID}] = r
		}
	}

	hints := make(map[int64]domain.ContextHints, len(sources))
	for id, src := range sources {
		hints[id] = mergeHints(renderers, src)
	}

	contexts, err := e.hydrate(ctx, events, hints)
	if err != nil {
		return nil, err
	}

	loaded := make([]*LoadedEvent, len(events))
	for i, ev := range events {
		src := sources[ev.SourceID]

		loader, err := e.registry.Loader(src.ContextLoader)
		if err != nil {
			return nil, fmt.Errorf("source %s: %w", src.Name, err)
		}
		if loader != nil {
			contexts[i], err = loader.LoadContext(ctx, ev, contexts[i])
			if err != nil {
				return nil, fmt.Errorf("context loader %s: %w", src.ContextLoader, err)
			}
		}

		le := &LoadedEvent{
			Event:     ev,
			render:    e.renderer,
			mediums:   make(map[int64]domain.Medium, len(mediums)),
			renderers: make(map[int64]*domain.ContextRenderer, len(mediums)),
		}
		le.Context = contexts[i]
		for _, m := range mediums {
			le.mediums[m.ID] = m
			le.renderers[m.ID] = pick(src, m.RenderingStyleID, defaultStyleID, byGroup, bySource)
		}
		loaded[i] = le
	}

	e.log.DebugContext(ctx, "contexts loaded",
		slog.Int("events", len(events)),
		slog.Int("mediums", len(mediums)),
		slog.Int("renderers", len(renderers)),
	)
	return loaded, nil
}

func (e *Engine) sources(ctx context.Context, events []domain.Event) (map[int64]domain.Source, error) {
	var ids []int64
	for _, ev := range events {
		if !slices.Contains(ids, ev.SourceID) {
			ids = append(ids, ev.SourceID)
		}
	}

	list, err := e.catalog.GetSourcesByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("load sources: %w", err)
	}
	sources := make(map[int64]domain.Source, len(list))
	for _, s := range list {
		sources[s.ID] = s
	}
	for _, id := range ids {
		if _, ok := sources[id]; !ok {
			return nil, fmt.Errorf("source %d: %w", id, domain.ErrInvalidReference)
		}
	}
	return sources, nil
}

// styles returns the default style ID (0 when none is configured or it does
// not exist) and every style the renderers may be needed for.
func (e *Engine) styles(ctx context.Context, mediums []domain.Medium) (int64, []int64, error) {
	var defaultID int64
	var ids []int64
	if e.defaultStyle != "" {
		style, err := e.catalog.GetRenderingStyleByName(ctx, e.defaultStyle)
		switch {
		case err == nil:
			defaultID = style.ID
			ids = append(ids, style.ID)
		case errors.Is(err, domain.ErrNotFound):
			e.log.WarnContext(ctx, "default rendering style does not exist", slog.String("style", e.defaultStyle))
		default:
			return 0, nil, fmt.Errorf("load default style: %w", err)
		}
	}
	for _, m := range mediums {
		if m.RenderingStyleID != nil && !slices.Contains(ids, *m.RenderingStyleID) {
			ids = append(ids, *m.RenderingStyleID)
		}
	}
	slices.Sort(ids)
	return defaultID, ids, nil
}

func pick(
	src domain.Source,
	mediumStyle *int64,
	defaultStyle int64,
	byGroup, bySource map[styleKey]*domain.ContextRenderer,
) *domain.ContextRenderer {
	var styles []int64
	if mediumStyle != nil {
		styles = append(styles, *mediumStyle)
	}
	if defaultStyle != 0 {
		styles = append(styles, defaultStyle)
	}
	for _, style := range styles {
		if r, ok := byGroup[styleKey{src.GroupID, style}]; ok {
			return r
		}
		if r, ok := bySource[styleKey{src.ID, style}]; ok {
			return r
		}
	}
	return nil
}

// mergeHints unions the hints of every renderer attached to src or its
// group. The first renderer naming a key decides its kind; preloads of all
// renderers naming the key with that kind are combined.
func mergeHints(renderers []domain.ContextRenderer, src domain.Source) domain.ContextHints {
	merged := make(domain.ContextHints)
	for _, r := range renderers {
		applies := (r.SourceID != nil && *r.SourceID == src.ID) ||
			(r.SourceGroupID != nil && *r.SourceGroupID == src.GroupID)
		if !applies {
			continue
		}
		for key, hint := range r.ContextHints {
			cur, ok := merged[key]
			if !ok {
				merged[key] = domain.ContextHint{Kind: hint.Kind, Preload: slices.Clone(hint.Preload)}
				continue
			}
			if cur.Kind != hint.Kind {
				continue
			}
			for _, p := range hint.Preload {
				if !slices.Contains(cur.Preload, p) {
					cur.Preload = append(cur.Preload, p)
				}
			}
			merged[key] = cur
		}
	}
	return merged
}

// hydrate returns a rewritten copy of every event context.
func (e *Engine) hydrate(ctx context.Context, events []domain.Event, hints map[int64]domain.ContextHints) ([]map[string]any, error) {
	contexts := make([]map[string]any, len(events))
	idsByKind := make(map[string]map[int64]struct{})
	preloadByKind := make(map[string][]string)

	for i, ev := range events {
		c, _ := clone(ev.Context).(map[string]any)
		if c == nil {
			c = map[string]any{}
		}
		contexts[i] = c

		h := hints[ev.SourceID]
		if len(h) == 0 {
			continue
		}
		Walk(c, func(n Node) bool {
			hint, ok := hintAt(h, n)
			if !ok {
				return true
			}
			set, ok := idsByKind[hint.Kind]
			if !ok {
				set = make(map[int64]struct{})
				idsByKind[hint.Kind] = set
			}
			for _, id := range referencedIDs(n.Value) {
				set[id] = struct{}{}
			}
			for _, p := range hint.Preload {
				if !slices.Contains(preloadByKind[hint.Kind], p) {
					preloadByKind[hint.Kind] = append(preloadByKind[hint.Kind], p)
				}
			}
			return false
		})
	}

	fetched, err := e.fetch(ctx, idsByKind, preloadByKind)
	if err != nil {
		return nil, err
	}

	for i, ev := range events {
		h := hints[ev.SourceID]
		if len(h) == 0 {
			continue
		}
		Walk(contexts[i], func(n Node) bool {
			hint, ok := hintAt(h, n)
			if !ok {
				return true
			}
			objects, ok := fetched[hint.Kind]
			if !ok {
				return false
			}
			n.Set(replaceIDs(n.Value, objects))
			return false
		})
	}
	return contexts, nil
}

func hintAt(h domain.ContextHints, n Node) (domain.ContextHint, bool) {
	key, ok := n.Key.(string)
	if !ok {
		return domain.ContextHint{}, false
	}
	hint, ok := h[key]
	return hint, ok
}

func referencedIDs(v any) []int64 {
	if list, ok := v.([]any); ok {
		ids := make([]int64, 0, len(list))
		for _, item := range list {
			if id, ok := numericID(item); ok {
				ids = append(ids, id)
			}
		}
		return ids
	}
	if id, ok := numericID(v); ok {
		return []int64{id}
	}
	return nil
}

// replaceIDs swaps IDs for fetched objects. A missing object becomes nil;
// values that are not IDs are kept.
func replaceIDs(v any, objects map[int64]serializer.Model) any {
	if list, ok := v.([]any); ok {
		out := make([]any, len(list))
		for i, item := range list {
			out[i] = replaceIDs(item, objects)
		}
		return out
	}
	id, ok := numericID(v)
	if !ok {
		return v
	}
	if m, ok := objects[id]; ok && m != nil {
		return m
	}
	return nil
}

// fetch resolves every collected ID through one dataloader per kind. All
// kinds are queued before any result is awaited so their batches overlap.
func (e *Engine) fetch(ctx context.Context, idsByKind map[string]map[int64]struct{}, preloadByKind map[string][]string) (map[string]map[int64]serializer.Model, error) {
	type pending struct {
		kind  string
		ids   []int64
		thunk dataloader.ThunkMany[serializer.Model]
	}

	kinds := make([]string, 0, len(idsByKind))
	for kind := range idsByKind {
		kinds = append(kinds, kind)
	}
	slices.Sort(kinds)

	var queued []pending
	for _, kind := range kinds {
		f, ok := e.registry.fetcher(kind)
		if !ok {
			e.log.WarnContext(ctx, "no fetcher for context hint kind", slog.String("kind", kind))
			continue
		}
		ids := make([]int64, 0, len(idsByKind[kind]))
		for id := range idsByKind[kind] {
			ids = append(ids, id)
		}
		if len(ids) == 0 {
			continue
		}
		slices.Sort(ids)
		loader := e.newLoader(f, preloadByKind[kind])
		queued = append(queued, pending{kind: kind, ids: ids, thunk: loader.LoadMany(ctx, ids)})
	}

	fetched := make(map[string]map[int64]serializer.Model, len(queued))
	for _, p := range queued {
		models, errs := p.thunk()
		for _, err := range errs {
			if err != nil {
				return nil, fmt.Errorf("fetch %s: %w", p.kind, err)
			}
		}
		objects := make(map[int64]serializer.Model, len(p.ids))
		for i, id := range p.ids {
			if i < len(models) && models[i] != nil {
				objects[id] = models[i]
			}
		}
		fetched[p.kind] = objects
	}
	return fetched, nil
}

func (e *Engine) newLoader(f Fetcher, preload []string) *dataloader.Loader[int64, serializer.Model] {
	batch := func(ctx context.Context, keys []int64) []*dataloader.Result[serializer.Model] {
		objects, err := f.Fetch(ctx, keys, preload)
		results := make([]*dataloader.Result[serializer.Model], len(keys))
		for i, key := range keys {
			if err != nil {
				results[i] = &dataloader.Result[serializer.Model]{Error: err}
				continue
			}
			results[i] = &dataloader.Result[serializer.Model]{Data: objects[key]}
		}
		return results
	}
	return dataloader.NewBatchedLoader(
		batch,
		dataloader.WithBatchCapacity[int64, serializer.Model](e.batchCapacity),
		dataloader.WithWait[int64, serializer.Model](e.wait),
	)
}
