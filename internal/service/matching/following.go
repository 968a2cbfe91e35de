package matching

import (
	"context"
	"fmt"
	"slices"
)

// Hierarchy exposes the transitive super/sub closure of the entity graph.
// Neither direction includes the origin entity itself, unless it lies on a
// cycle.
type Hierarchy interface {
	AncestorsOf(ctx context.Context, ids []int64) (map[int64][]int64, error)
	DescendantsOf(ctx context.Context, ids []int64) (map[int64][]int64, error)
}

// Relation maps each requested entity to the entities related to it. Every
// requested entity has an entry, and the entry contains the entity itself.
type Relation map[int64][]int64

// Union returns the sorted, de-duplicated union of the relations of ids.
// An id missing from r contributes only itself.
func (r Relation) Union(ids ...int64) []int64 {
	var out []int64
	for _, id := range ids {
		related, ok := r[id]
		if !ok {
			out = append(out, id)
			continue
		}
		out = append(out, related...)
	}
	slices.Sort(out)
	return slices.Compact(out)
}

// FollowingPolicy defines who follows whom for only-following subscriptions.
// Implementations must be exact inverses: e2 is in FollowedBy(e1)[e1] if and
// only if e1 is in FollowersOf(e2)[e2].
type FollowingPolicy interface {
	// FollowedBy returns, for each entity, the entities it follows.
	FollowedBy(ctx context.Context, ids []int64) (Relation, error)
	// FollowersOf returns, for each entity, the entities that follow it.
	FollowersOf(ctx context.Context, ids []int64) (Relation, error)
}

type ancestorFollowing struct {
	h Hierarchy
}

// AncestorFollowing is the default policy: an entity follows itself and its
// super-entities, so the followers of an entity are itself and its
// sub-entities.
func AncestorFollowing(h Hierarchy) FollowingPolicy {
	return ancestorFollowing{h: h}
}

func (p ancestorFollowing) FollowedBy(ctx context.Context, ids []int64) (Relation, error) {
	return closure(ctx, p.h.AncestorsOf, ids)
}

func (p ancestorFollowing) FollowersOf(ctx context.Context, ids []int64) (Relation, error) {
	return closure(ctx, p.h.DescendantsOf, ids)
}

type descendantFollowing struct {
	h Hierarchy
}

// DescendantFollowing reverses the group direction: an entity follows itself
// and its sub-entities.
func DescendantFollowing(h Hierarchy) FollowingPolicy {
	return descendantFollowing{h: h}
}

func (p descendantFollowing) FollowedBy(ctx context.Context, ids []int64) (Relation, error) {
	return closure(ctx, p.h.DescendantsOf, ids)
}

func (p descendantFollowing) FollowersOf(ctx context.Context, ids []int64) (Relation, error) {
	return closure(ctx, p.h.AncestorsOf, ids)
}

func closure(ctx context.Context, walk func(context.Context, []int64) (map[int64][]int64, error), ids []int64) (Relation, error) {
	ids = uniqueSorted(ids)
	r := make(Relation, len(ids))
	if len(ids) == 0 {
		return r, nil
	}

	reached, err := walk(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("entity closure: %w", err)
	}
	for _, id := range ids {
		related := append([]int64{id}, reached[id]...)
		slices.Sort(related)
		r[id] = slices.Compact(related)
	}
	return r, nil
}

func uniqueSorted(ids []int64) []int64 {
	out := slices.Clone(ids)
	slices.Sort(out)
	return slices.Compact(out)
}
