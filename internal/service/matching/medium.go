package matching

import (
	"context"
	"fmt"
	"log/slog"
	"slices"

	"github.com/heartmarshall/entity-events/internal/domain"
	"github.com/heartmarshall/entity-events/internal/predicate"
)

// Medium answers event queries for one medium within one request.
// It is not safe for concurrent use.
type Medium struct {
	domain.Medium

	engine *Engine
	policy FollowingPolicy
	unsubs map[int64]EntitySet
}

// Policy returns the following policy of the medium.
func (m *Medium) Policy() FollowingPolicy {
	return m.policy
}

// Events returns the events visible on the medium, newest first.
//
// Each subscription admits the events of its source; an only-following
// subscription admits only those with an actor followed by one of its
// subscribed entities. Unsubscriptions do not apply here.
func (m *Medium) Events(ctx context.Context, f Filter) ([]domain.Event, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}

	subs, err := m.engine.subs.ListByMedium(ctx, m.ID)
	if err != nil {
		return nil, fmt.Errorf("list subscriptions: %w", err)
	}
	if len(subs) == 0 {
		if err := m.none(ctx, f); err != nil {
			return nil, err
		}
		return []domain.Event{}, nil
	}

	var following []domain.Subscription
	for _, s := range subs {
		if s.OnlyFollowing {
			following = append(following, s)
		}
	}

	var (
		covered  map[int64][]int64
		followed Relation
	)
	if len(following) > 0 {
		if covered, err = m.SubscribedEntities(ctx, following); err != nil {
			return nil, err
		}
		var all []int64
		for _, ids := range covered {
			all = append(all, ids...)
		}
		if followed, err = m.policy.FollowedBy(ctx, all); err != nil {
			return nil, fmt.Errorf("followed by: %w", err)
		}
	}

	match := make(predicate.Or, 0, len(subs))
	for _, s := range subs {
		if !s.OnlyFollowing {
			match = append(match, predicate.SourceIs{SourceID: s.SourceID})
			continue
		}
		match = append(match, predicate.And{
			predicate.SourceIs{SourceID: s.SourceID},
			predicate.ActorIn{EntityIDs: followed.Union(covered[s.ID]...)},
		})
	}

	events, err := m.query(ctx, f, match)
	if err != nil {
		return nil, err
	}
	m.engine.log.DebugContext(ctx, "medium events",
		slog.String("medium", m.Name),
		slog.Int("subscriptions", len(subs)),
		slog.Int("events", len(events)),
	)
	return events, nil
}

// EntityEvents returns the events visible to one entity on the medium,
// newest first.
//
// Only the subscriptions the entity takes part in apply, and only-following
// subscriptions use the entity's own following closure. Events of sources
// the entity unsubscribed from on this medium are excluded.
func (m *Medium) EntityEvents(ctx context.Context, entityID int64, f Filter) ([]domain.Event, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}

	found, err := m.engine.entities.GetByIDs(ctx, []int64{entityID})
	if err != nil {
		return nil, fmt.Errorf("get entity %d: %w", entityID, err)
	}
	if len(found) == 0 {
		return nil, fmt.Errorf("entity %d: %w", entityID, domain.ErrInvalidReference)
	}
	entity := found[0]

	subs, err := m.engine.subs.ListByMedium(ctx, m.ID)
	if err != nil {
		return nil, fmt.Errorf("list subscriptions: %w", err)
	}
	if subs, err = m.SubsetSubscriptions(ctx, subs, &entity); err != nil {
		return nil, err
	}
	if len(subs) == 0 {
		if err := m.none(ctx, f); err != nil {
			return nil, err
		}
		return []domain.Event{}, nil
	}

	var followed []int64
	if slices.ContainsFunc(subs, func(s domain.Subscription) bool { return s.OnlyFollowing }) {
		rel, err := m.policy.FollowedBy(ctx, []int64{entity.ID})
		if err != nil {
			return nil, fmt.Errorf("followed by: %w", err)
		}
		followed = rel.Union(entity.ID)
	}

	unsubs, err := m.Unsubscriptions(ctx)
	if err != nil {
		return nil, err
	}

	match := make(predicate.Or, 0, len(subs))
	for _, s := range subs {
		switch {
		case unsubs[s.SourceID].Has(entity.ID):
			// Unsubscribing from a source overrides every subscription to it.
		case s.OnlyFollowing:
			match = append(match, predicate.And{
				predicate.SourceIs{SourceID: s.SourceID},
				predicate.ActorIn{EntityIDs: followed},
			})
		default:
			match = append(match, predicate.SourceIs{SourceID: s.SourceID})
		}
	}

	events, err := m.query(ctx, f, match)
	if err != nil {
		return nil, err
	}
	m.engine.log.DebugContext(ctx, "entity events",
		slog.String("medium", m.Name),
		slog.Int64("entity_id", entity.ID),
		slog.Int("events", len(events)),
	)
	return events, nil
}
