package app

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/heartmarshall/entity-events/internal/config"
	"github.com/heartmarshall/entity-events/internal/service/catalog"
	"github.com/heartmarshall/entity-events/internal/service/contextload"
	"github.com/heartmarshall/entity-events/internal/service/events"
	"github.com/heartmarshall/entity-events/internal/service/matching"
	"github.com/heartmarshall/entity-events/internal/service/render"
)

// Services is the wired service layer.
type Services struct {
	Matching *matching.Engine
	Context  *contextload.Engine
	Events   *events.Service
	Catalog  *catalog.Service
	Registry *contextload.Registry
}

// NewRegistry returns a registry holding the built-in fetchers.
func NewRegistry(st *Storage) (*contextload.Registry, error) {
	registry := contextload.NewRegistry()
	if err := registry.RegisterFetcher(contextload.EntityKind, contextload.EntityFetcher(st.Entities)); err != nil {
		return nil, fmt.Errorf("register entity fetcher: %w", err)
	}
	return registry, nil
}

// NewServices wires every service on top of st. Context loaders and extra
// fetchers must be registered on registry before the first request.
func NewServices(cfg *config.Config, logger *slog.Logger, st *Storage, registry *contextload.Registry) *Services {
	var matchOpts []matching.Option
	matchOpts = append(matchOpts, matching.WithExclusiveEnd(cfg.Matching.ExclusiveEnd))
	for _, name := range cfg.Matching.DescendantFollowingMediums {
		matchOpts = append(matchOpts, matching.WithFollowingPolicy(name, matching.DescendantFollowing(st.Entities)))
	}

	renderer := render.NewEngine(nil)
	if cfg.Rendering.TemplateDir != "" {
		renderer = render.NewEngine(os.DirFS(cfg.Rendering.TemplateDir))
	}

	return &Services{
		Matching: matching.NewEngine(logger, st.Events, st.Subs, st.Entities, st.Catalog, st.Tx, matchOpts...),
		Context: contextload.NewEngine(logger, st.Catalog, registry, renderer,
			contextload.WithDefaultStyle(cfg.Rendering.DefaultStyle),
			contextload.WithBatching(cfg.ContextLoad.BatchCapacity, cfg.ContextLoad.Wait),
		),
		Events:   events.NewService(logger, st.Events, st.Tx),
		Catalog:  catalog.NewService(logger, st.Catalog, st.Subs, st.Entities, registry, st.Tx),
		Registry: registry,
	}
}
