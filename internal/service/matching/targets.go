package matching

import (
	"cmp"
	"context"
	"fmt"
	"log/slog"
	"slices"

	"github.com/heartmarshall/entity-events/internal/domain"
	"github.com/heartmarshall/entity-events/internal/predicate"
)

// EventTargets pairs an event with the entities it should reach.
type EventTargets struct {
	Event   domain.Event
	Targets []domain.Entity
}

// EventsTargets returns every event visible on the medium together with the
// entities it targets, newest first.
//
// For each subscription to the event's source, the targets are its
// subscribed entities; for an only-following subscription, only those among
// the followers of the event's actors. Unsubscribed entities are removed,
// and with kindID only entities of that kind remain. Events without targets
// are dropped. Targets are ordered by entity ID.
func (m *Medium) EventsTargets(ctx context.Context, f Filter, kindID *int64) ([]EventTargets, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}

	if kindID != nil {
		if _, err := m.engine.entities.GetKind(ctx, *kindID); err != nil {
			return nil, invalidReference(err, fmt.Sprintf("entity kind %d", *kindID))
		}
	}

	subs, err := m.engine.subs.ListByMedium(ctx, m.ID)
	if err != nil {
		return nil, fmt.Errorf("list subscriptions: %w", err)
	}
	if len(subs) == 0 {
		if err := m.none(ctx, f); err != nil {
			return nil, err
		}
		return []EventTargets{}, nil
	}

	covered, entities, err := m.resolve(ctx, subs, true)
	if err != nil {
		return nil, err
	}

	bySource := make(map[int64][]domain.Subscription)
	var sources []int64
	for _, s := range subs {
		if _, ok := bySource[s.SourceID]; !ok {
			sources = append(sources, s.SourceID)
		}
		bySource[s.SourceID] = append(bySource[s.SourceID], s)
	}
	slices.Sort(sources)

	events, err := m.query(ctx, f, predicate.SourceIn{SourceIDs: sources})
	if err != nil {
		return nil, err
	}
	if len(events) == 0 {
		return []EventTargets{}, nil
	}

	var actors []int64
	for _, e := range events {
		if slices.ContainsFunc(bySource[e.SourceID], func(s domain.Subscription) bool { return s.OnlyFollowing }) {
			actors = append(actors, e.ActorIDs...)
		}
	}
	followers, err := m.policy.FollowersOf(ctx, actors)
	if err != nil {
		return nil, fmt.Errorf("followers of: %w", err)
	}

	unsubs, err := m.Unsubscriptions(ctx)
	if err != nil {
		return nil, err
	}

	result := make([]EventTargets, 0, len(events))
	for _, e := range events {
		var potential EntitySet
		targets := make(EntitySet)
		for _, s := range bySource[e.SourceID] {
			if s.OnlyFollowing && potential == nil {
				potential = make(EntitySet)
				for _, id := range followers.Union(e.ActorIDs...) {
					potential[id] = struct{}{}
				}
			}
			for _, id := range covered[s.ID] {
				if !s.OnlyFollowing || potential.Has(id) {
					targets[id] = struct{}{}
				}
			}
		}

		list := make([]domain.Entity, 0, len(targets))
		for id := range targets {
			if unsubs[e.SourceID].Has(id) {
				continue
			}
			ent, ok := entities[id]
			if !ok || (kindID != nil && ent.KindID != *kindID) {
				continue
			}
			list = append(list, ent)
		}
		if len(list) == 0 {
			continue
		}
		slices.SortFunc(list, func(a, b domain.Entity) int { return cmp.Compare(a.ID, b.ID) })
		result = append(result, EventTargets{Event: e, Targets: list})
	}

	m.engine.log.DebugContext(ctx, "events targets",
		slog.String("medium", m.Name),
		slog.Int("events", len(events)),
		slog.Int("targeted", len(result)),
	)
	return result, nil
}
