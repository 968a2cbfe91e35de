// Package seeder loads YAML fixtures through the catalog and event services,
// so every object it creates passes the same validation as API input.
package seeder

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/heartmarshall/entity-events/internal/domain"
	"github.com/heartmarshall/entity-events/internal/service/catalog"
	"github.com/heartmarshall/entity-events/internal/service/events"
)

type catalogService interface {
	CreateEntityKind(ctx context.Context, input catalog.CreateEntityKindInput) (*domain.EntityKind, error)
	CreateEntity(ctx context.Context, input catalog.CreateEntityInput) (*domain.Entity, error)
	CreateSourceGroup(ctx context.Context, input catalog.CreateSourceGroupInput) (*domain.SourceGroup, error)
	CreateSource(ctx context.Context, input catalog.CreateSourceInput) (*domain.Source, error)
	CreateRenderingStyle(ctx context.Context, input catalog.CreateRenderingStyleInput) (*domain.RenderingStyle, error)
	CreateMedium(ctx context.Context, input catalog.CreateMediumInput) (*domain.Medium, error)
	CreateRenderer(ctx context.Context, input catalog.CreateRendererInput) (*domain.ContextRenderer, error)
	Subscribe(ctx context.Context, input catalog.SubscribeInput) (*domain.Subscription, error)
	Unsubscribe(ctx context.Context, input catalog.UnsubscribeInput) (*domain.Unsubscription, error)
}

type eventService interface {
	CreateEvents(ctx context.Context, inputs []events.CreateEventInput) ([]domain.Event, error)
}

// allPhases defines the canonical execution order. Each phase only
// references objects created by earlier ones.
var allPhases = []string{"kinds", "entities", "catalog", "renderers", "subscriptions", "events"}

// Phases returns the phase names in execution order.
func Phases() []string {
	return slices.Clone(allPhases)
}

// PhaseResult holds the outcome of a single pipeline phase.
type PhaseResult struct {
	Created  int
	Skipped  int
	Duration time.Duration
	Err      error
}

// Pipeline seeds one fixture. It is single use.
type Pipeline struct {
	log     *slog.Logger
	catalog catalogService
	events  eventService
	results map[string]PhaseResult

	kinds    map[string]int64
	entities map[string]int64
	groups   map[string]int64
	sources  map[string]int64
	styles   map[string]int64
	mediums  map[string]int64
}

// NewPipeline creates a new Pipeline.
func NewPipeline(log *slog.Logger, catalogSvc catalogService, eventSvc eventService) *Pipeline {
	return &Pipeline{
		log:      log.With("component", "seeder"),
		catalog:  catalogSvc,
		events:   eventSvc,
		results:  make(map[string]PhaseResult),
		kinds:    make(map[string]int64),
		entities: make(map[string]int64),
		groups:   make(map[string]int64),
		sources:  make(map[string]int64),
		styles:   make(map[string]int64),
		mediums:  make(map[string]int64),
	}
}

// Results returns phase results after Run completes.
func (p *Pipeline) Results() map[string]PhaseResult {
	return p.results
}

// EntityID returns the ID created for an entity key.
func (p *Pipeline) EntityID(key string) (int64, bool) {
	id, ok := p.entities[key]
	return id, ok
}

// Run executes every phase in order and stops at the first failure. Events
// are inserted with IgnoreDuplicates, so re-running the events of a fixture
// whose events carry UUIDs skips them.
func (p *Pipeline) Run(ctx context.Context, f *Fixture) error {
	phases := map[string]func(context.Context, *Fixture) (int, int, error){
		"kinds":         p.seedKinds,
		"entities":      p.seedEntities,
		"catalog":       p.seedCatalog,
		"renderers":     p.seedRenderers,
		"subscriptions": p.seedSubscriptions,
		"events":        p.seedEvents,
	}

	for _, name := range allPhases {
		if err := ctx.Err(); err != nil {
			return err
		}

		start := time.Now()
		created, skipped, err := phases[name](ctx, f)
		res := PhaseResult{Created: created, Skipped: skipped, Duration: time.Since(start), Err: err}
		p.results[name] = res

		if err != nil {
			p.log.ErrorContext(ctx, "phase failed", slog.String("phase", name), slog.String("error", err.Error()))
			return fmt.Errorf("phase %s: %w", name, err)
		}
		p.log.InfoContext(ctx, "phase completed",
			slog.String("phase", name),
			slog.Int("created", res.Created),
			slog.Int("skipped", res.Skipped),
			slog.Duration("duration", res.Duration),
		)
	}
	return nil
}

func lookup(what string, names map[string]int64, name string) (int64, error) {
	id, ok := names[name]
	if !ok {
		return 0, fmt.Errorf("%s %q is not defined in the fixture: %w", what, name, domain.ErrInvalidReference)
	}
	return id, nil
}

func (p *Pipeline) seedKinds(ctx context.Context, f *Fixture) (int, int, error) {
	for _, k := range f.EntityKinds {
		kind, err := p.catalog.CreateEntityKind(ctx, catalog.CreateEntityKindInput{Name: k.Name, DisplayName: k.DisplayName})
		if err != nil {
			return len(p.kinds), 0, fmt.Errorf("entity kind %q: %w", k.Name, err)
		}
		p.kinds[kind.Name] = kind.ID
	}
	return len(p.kinds), 0, nil
}

func (p *Pipeline) seedEntities(ctx context.Context, f *Fixture) (int, int, error) {
	for _, e := range f.Entities {
		if e.Key == "" {
			return len(p.entities), 0, fmt.Errorf("entity without key: %w", domain.ErrValidation)
		}
		if _, dup := p.entities[e.Key]; dup {
			return len(p.entities), 0, fmt.Errorf("entity key %q used twice: %w", e.Key, domain.ErrValidation)
		}
		kindID, err := lookup("entity kind", p.kinds, e.Kind)
		if err != nil {
			return len(p.entities), 0, err
		}
		supers := make([]int64, 0, len(e.Super))
		for _, key := range e.Super {
			id, err := lookup("entity", p.entities, key)
			if err != nil {
				return len(p.entities), 0, err
			}
			supers = append(supers, id)
		}

		entity, err := p.catalog.CreateEntity(ctx, catalog.CreateEntityInput{
			KindID:         kindID,
			DisplayName:    e.DisplayName,
			Meta:           e.Meta,
			Inactive:       e.Inactive,
			SuperEntityIDs: supers,
		})
		if err != nil {
			return len(p.entities), 0, fmt.Errorf("entity %q: %w", e.Key, err)
		}
		p.entities[e.Key] = entity.ID
	}
	return len(p.entities), 0, nil
}

func (p *Pipeline) seedCatalog(ctx context.Context, f *Fixture) (int, int, error) {
	created := 0
	for _, g := range f.SourceGroups {
		group, err := p.catalog.CreateSourceGroup(ctx, catalog.CreateSourceGroupInput(g))
		if err != nil {
			return created, 0, fmt.Errorf("source group %q: %w", g.Name, err)
		}
		p.groups[group.Name] = group.ID
		created++
	}

	for _, s := range f.Sources {
		groupID, err := lookup("source group", p.groups, s.Group)
		if err != nil {
			return created, 0, err
		}
		src, err := p.catalog.CreateSource(ctx, catalog.CreateSourceInput{
			Name:          s.Name,
			DisplayName:   s.DisplayName,
			Description:   s.Description,
			GroupID:       groupID,
			ContextLoader: s.ContextLoader,
		})
		if err != nil {
			return created, 0, fmt.Errorf("source %q: %w", s.Name, err)
		}
		p.sources[src.Name] = src.ID
		created++
	}

	for _, s := range f.RenderingStyles {
		style, err := p.catalog.CreateRenderingStyle(ctx, catalog.CreateRenderingStyleInput(s))
		if err != nil {
			return created, 0, fmt.Errorf("rendering style %q: %w", s.Name, err)
		}
		p.styles[style.Name] = style.ID
		created++
	}

	for _, m := range f.Mediums {
		input := catalog.CreateMediumInput{
			Name:              m.Name,
			DisplayName:       m.DisplayName,
			Description:       m.Description,
			AdditionalContext: m.AdditionalContext,
		}
		if m.RenderingStyle != "" {
			styleID, err := lookup("rendering style", p.styles, m.RenderingStyle)
			if err != nil {
				return created, 0, err
			}
			input.RenderingStyleID = &styleID
		}
		medium, err := p.catalog.CreateMedium(ctx, input)
		if err != nil {
			return created, 0, fmt.Errorf("medium %q: %w", m.Name, err)
		}
		p.mediums[medium.Name] = medium.ID
		created++
	}
	return created, 0, nil
}

func (p *Pipeline) seedRenderers(ctx context.Context, f *Fixture) (int, int, error) {
	created := 0
	for _, r := range f.Renderers {
		styleID, err := lookup("rendering style", p.styles, r.RenderingStyle)
		if err != nil {
			return created, 0, err
		}
		input := catalog.CreateRendererInput{
			Name:             r.Name,
			RenderingStyleID: styleID,
			TextTemplatePath: r.TextTemplatePath,
			HTMLTemplatePath: r.HTMLTemplatePath,
			TextTemplate:     r.TextTemplate,
			HTMLTemplate:     r.HTMLTemplate,
		}
		if r.Source != "" {
			id, err := lookup("source", p.sources, r.Source)
			if err != nil {
				return created, 0, err
			}
			input.SourceID = &id
		}
		if r.SourceGroup != "" {
			id, err := lookup("source group", p.groups, r.SourceGroup)
			if err != nil {
				return created, 0, err
			}
			input.SourceGroupID = &id
		}
		if len(r.ContextHints) > 0 {
			input.ContextHints = make(domain.ContextHints, len(r.ContextHints))
			for key, h := range r.ContextHints {
				input.ContextHints[key] = domain.ContextHint{Kind: h.Kind, Preload: h.Preload}
			}
		}

		if _, err := p.catalog.CreateRenderer(ctx, input); err != nil {
			return created, 0, fmt.Errorf("renderer %q: %w", r.Name, err)
		}
		created++
	}
	return created, 0, nil
}

func (p *Pipeline) seedSubscriptions(ctx context.Context, f *Fixture) (int, int, error) {
	created := 0
	for i, s := range f.Subscriptions {
		mediumID, sourceID, entityID, err := p.triple(s.Medium, s.Source, s.Entity)
		if err != nil {
			return created, 0, fmt.Errorf("subscriptions[%d]: %w", i, err)
		}
		input := catalog.SubscribeInput{
			MediumID:      mediumID,
			SourceID:      sourceID,
			EntityID:      entityID,
			OnlyFollowing: s.OnlyFollowing == nil || *s.OnlyFollowing,
		}
		if s.SubEntityKind != "" {
			kindID, err := lookup("entity kind", p.kinds, s.SubEntityKind)
			if err != nil {
				return created, 0, fmt.Errorf("subscriptions[%d]: %w", i, err)
			}
			input.SubEntityKindID = &kindID
		}
		if _, err := p.catalog.Subscribe(ctx, input); err != nil {
			return created, 0, fmt.Errorf("subscriptions[%d]: %w", i, err)
		}
		created++
	}

	for i, u := range f.Unsubscriptions {
		mediumID, sourceID, entityID, err := p.triple(u.Medium, u.Source, u.Entity)
		if err != nil {
			return created, 0, fmt.Errorf("unsubscriptions[%d]: %w", i, err)
		}
		if _, err := p.catalog.Unsubscribe(ctx, catalog.UnsubscribeInput{
			EntityID: entityID, MediumID: mediumID, SourceID: sourceID,
		}); err != nil {
			return created, 0, fmt.Errorf("unsubscriptions[%d]: %w", i, err)
		}
		created++
	}
	return created, 0, nil
}

func (p *Pipeline) triple(medium, source, entity string) (int64, int64, int64, error) {
	mediumID, err := lookup("medium", p.mediums, medium)
	if err != nil {
		return 0, 0, 0, err
	}
	sourceID, err := lookup("source", p.sources, source)
	if err != nil {
		return 0, 0, 0, err
	}
	entityID, err := lookup("entity", p.entities, entity)
	if err != nil {
		return 0, 0, 0, err
	}
	return mediumID, sourceID, entityID, nil
}

func (p *Pipeline) seedEvents(ctx context.Context, f *Fixture) (int, int, error) {
	if len(f.Events) == 0 {
		return 0, 0, nil
	}

	inputs := make([]events.CreateEventInput, len(f.Events))
	for i, e := range f.Events {
		sourceID, err := lookup("source", p.sources, e.Source)
		if err != nil {
			return 0, 0, fmt.Errorf("events[%d]: %w", i, err)
		}
		actors := make([]int64, 0, len(e.Actors))
		for _, key := range e.Actors {
			id, err := lookup("entity", p.entities, key)
			if err != nil {
				return 0, 0, fmt.Errorf("events[%d]: %w", i, err)
			}
			actors = append(actors, id)
		}
		ctxData, err := p.resolveRefs(e.Context)
		if err != nil {
			return 0, 0, fmt.Errorf("events[%d]: %w", i, err)
		}

		inputs[i] = events.CreateEventInput{
			SourceID:         sourceID,
			Context:          ctxData,
			ActorIDs:         actors,
			CreatedAt:        e.CreatedAt,
			ExpiresAt:        e.ExpiresAt,
			UUID:             e.UUID,
			IgnoreDuplicates: true,
		}
	}

	created := 0
	for batch := range slices.Chunk(inputs, events.MaxBatchSize) {
		evs, err := p.events.CreateEvents(ctx, batch)
		if err != nil {
			return created, 0, err
		}
		created += len(evs)
	}
	return created, len(inputs) - created, nil
}

// resolveRefs replaces "@key" strings, at any depth, by the ID of the entity
// with that key.
func (p *Pipeline) resolveRefs(v map[string]any) (map[string]any, error) {
	out, err := p.resolveValue(v)
	if err != nil {
		return nil, err
	}
	m, _ := out.(map[string]any)
	return m, nil
}

func (p *Pipeline) resolveValue(v any) (any, error) {
	switch t := v.(type) {
	case string:
		key, ok := strings.CutPrefix(t, "@")
		if !ok {
			return t, nil
		}
		return lookup("entity", p.entities, key)
	case map[string]any:
		if t == nil {
			return nil, nil
		}
		out := make(map[string]any, len(t))
		for k, child := range t {
			r, err := p.resolveValue(child)
			if err != nil {
				return nil, err
			}
			out[k] = r
		}
		return out, nil
	case []any:
		out := make([]any, len(t))
		for i, child := range t {
			r, err := p.resolveValue(child)
			if err != nil {
				return nil, err
			}
			out[i] = r
		}
		return out, nil
	default:
		return v, nil
	}
}
