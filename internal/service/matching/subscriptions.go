package matching

import (
	"context"
	"fmt"
	"slices"

	"github.com/heartmarshall/entity-events/internal/domain"
)

// EntitySet is a set of entity IDs.
type EntitySet map[int64]struct{}

// Has reports whether id is in the set.
func (s EntitySet) Has(id int64) bool {
	_, ok := s[id]
	return ok
}

// Unsubscriptions returns the unsubscribed entities of the medium keyed by
// source ID. The result is loaded once per Medium.
func (m *Medium) Unsubscriptions(ctx context.Context) (map[int64]EntitySet, error) {
	if m.unsubs != nil {
		return m.unsubs, nil
	}

	rows, err := m.engine.subs.UnsubscriptionsByMedium(ctx, m.ID)
	if err != nil {
		return nil, fmt.Errorf("list unsubscriptions: %w", err)
	}

	unsubs := make(map[int64]EntitySet)
	for _, u := range rows {
		set, ok := unsubs[u.SourceID]
		if !ok {
			set = make(EntitySet)
			unsubs[u.SourceID] = set
		}
		set[u.EntityID] = struct{}{}
	}
	m.unsubs = unsubs
	return unsubs, nil
}

// SubsetSubscriptions keeps the subscriptions entity takes part in: its
// individual subscriptions, and group subscriptions of one of its ancestors
// whose sub-entity kind is the entity's kind. A nil entity keeps all.
func (m *Medium) SubsetSubscriptions(ctx context.Context, subs []domain.Subscription, entity *domain.Entity) ([]domain.Subscription, error) {
	if entity == nil {
		return subs, nil
	}

	var ancestors EntitySet
	if slices.ContainsFunc(subs, domain.Subscription.IsGroup) {
		closure, err := m.engine.entities.AncestorsOf(ctx, []int64{entity.ID})
		if err != nil {
			return nil, fmt.Errorf("ancestors of entity %d: %w", entity.ID, err)
		}
		ancestors = make(EntitySet, len(closure[entity.ID]))
		for _, id := range closure[entity.ID] {
			ancestors[id] = struct{}{}
		}
	}

	out := make([]domain.Subscription, 0, len(subs))
	for _, s := range subs {
		switch {
		case !s.IsGroup() && s.EntityID == entity.ID:
			out = append(out, s)
		case s.IsGroup() && *s.SubEntityKindID == entity.KindID && ancestors.Has(s.EntityID):
			out = append(out, s)
		}
	}
	return out, nil
}

// SubscribedEntities returns the entity IDs each subscription covers, keyed
// by subscription ID. An individual subscription covers its entity; a group
// subscription covers the descendants of its entity having the sub-entity
// kind, as of now.
func (m *Medium) SubscribedEntities(ctx context.Context, subs []domain.Subscription) (map[int64][]int64, error) {
	covered, _, err := m.resolve(ctx, subs, false)
	return covered, err
}

// resolve computes SubscribedEntities. With records it also returns every
// covered entity keyed by ID, fetched in the same lookup.
func (m *Medium) resolve(ctx context.Context, subs []domain.Subscription, records bool) (map[int64][]int64, map[int64]domain.Entity, error) {
	covered := make(map[int64][]int64, len(subs))

	var groupRoots, lookup []int64
	for _, s := range subs {
		if s.IsGroup() {
			groupRoots = append(groupRoots, s.EntityID)
		} else if records {
			lookup = append(lookup, s.EntityID)
		}
	}

	var descendants map[int64][]int64
	if len(groupRoots) > 0 {
		var err error
		descendants, err = m.engine.entities.DescendantsOf(ctx, uniqueSorted(groupRoots))
		if err != nil {
			return nil, nil, fmt.Errorf("resolve group subscriptions: %w", err)
		}
		for _, root := range groupRoots {
			lookup = append(lookup, descendants[root]...)
		}
	}

	byID := make(map[int64]domain.Entity)
	if len(lookup) > 0 {
		entities, err := m.engine.entities.GetByIDs(ctx, uniqueSorted(lookup))
		if err != nil {
			return nil, nil, fmt.Errorf("get subscribed entities: %w", err)
		}
		for _, e := range entities {
			byID[e.ID] = e
		}
	}

	for _, s := range subs {
		if !s.IsGroup() {
			covered[s.ID] = []int64{s.EntityID}
			continue
		}
		ids := []int64{}
		for _, id := range descendants[s.EntityID] {
			if e, ok := byID[id]; ok && e.KindID == *s.SubEntityKindID {
				ids = append(ids, id)
			}
		}
		slices.Sort(ids)
		covered[s.ID] = slices.Compact(ids)
	}
	return covered, byID, nil
}
