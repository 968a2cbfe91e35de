package contextload

import (
	"context"
	"fmt"
	"slices"

	"github.com/heartmarshall/entity-events/internal/domain"
	"github.com/heartmarshall/entity-events/internal/service/serializer"
)

// EntityKind is the hint kind served by EntityFetcher.
const EntityKind = "entity"

// PreloadKind asks EntityFetcher to hydrate the entity kind.
const PreloadKind = "kind"

type entityStore interface {
	GetByIDs(ctx context.Context, ids []int64) ([]domain.Entity, error)
	GetKind(ctx context.Context, id int64) (*domain.EntityKind, error)
}

// EntityModel is an entity as it appears in a hydrated context.
type EntityModel struct {
	domain.Entity
	// Kind is set when the "kind" preload was requested.
	Kind *domain.EntityKind
}

func (m *EntityModel) Fields() map[string]any {
	fields := map[string]any{
		"id":           m.ID,
		"kind":         m.KindID,
		"display_name": m.DisplayName,
		"meta":         m.Meta,
		"is_active":    m.IsActive,
	}
	if m.Kind != nil {
		fields["kind"] = map[string]any{
			"id":           m.Kind.ID,
			"name":         m.Kind.Name,
			"display_name": m.Kind.DisplayName,
		}
	}
	return fields
}

// EntityFetcher serves hints that reference entities.
func EntityFetcher(store entityStore) Fetcher {
	return FetcherFunc(func(ctx context.Context, ids []int64, preload []string) (map[int64]serializer.Model, error) {
		entities, err := store.GetByIDs(ctx, ids)
		if err != nil {
			return nil, fmt.Errorf("fetch entities: %w", err)
		}

		var kinds map[int64]*domain.EntityKind
		if slices.Contains(preload, PreloadKind) {
			kinds = make(map[int64]*domain.EntityKind)
			for _, e := range entities {
				if _, ok := kinds[e.KindID]; ok {
					continue
				}
				kind, err := store.GetKind(ctx, e.KindID)
				if err != nil {
					return nil, fmt.Errorf("fetch entity kind %d: %w", e.KindID, err)
				}
				kinds[e.KindID] = kind
			}
		}

		out := make(map[int64]serializer.Model, len(entities))
		for _, e := range entities {
			out[e.ID] = &EntityModel{Entity: e, Kind: kinds[e.KindID]}
		}
		return out, nil
	})
}
