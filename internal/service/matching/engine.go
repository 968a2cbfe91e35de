// Package matching resolves which events a medium, or an entity on a medium,
// is entitled to see.
//
// An Engine is long-lived and stateless. Each request obtains a Medium from
// it; the Medium caches per-request data such as unsubscriptions and must be
// discarded afterwards. Every query issues a bounded number of store calls
// regardless of how many events, subscriptions or entities are involved.
package matching

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/heartmarshall/entity-events/internal/domain"
	"github.com/heartmarshall/entity-events/internal/predicate"
)

type eventStore interface {
	Find(ctx context.Context, p predicate.Predicate, limit int) ([]domain.Event, error)
	FindIDs(ctx context.Context, p predicate.Predicate) ([]int64, error)
	MarkSeen(ctx context.Context, mediumID int64, eventIDs []int64, at time.Time) (int, error)
}

type subscriptionStore interface {
	ListByMedium(ctx context.Context, mediumID int64) ([]domain.Subscription, error)
	UnsubscriptionsByMedium(ctx context.Context, mediumID int64) ([]domain.Unsubscription, error)
}

type entityStore interface {
	Hierarchy
	GetByIDs(ctx context.Context, ids []int64) ([]domain.Entity, error)
	GetKind(ctx context.Context, id int64) (*domain.EntityKind, error)
}

type mediumStore interface {
	GetMedium(ctx context.Context, id int64) (*domain.Medium, error)
	GetMediumByName(ctx context.Context, name string) (*domain.Medium, error)
}

type txManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// Engine builds request-scoped Medium values.
type Engine struct {
	events   eventStore
	subs     subscriptionStore
	entities entityStore
	mediums  mediumStore
	tx       txManager
	log      *slog.Logger

	defaultPolicy FollowingPolicy
	policies      map[string]FollowingPolicy
	exclusiveEnd  bool
	now           func() time.Time
}

// Option configures an Engine.
type Option func(*Engine)

// WithFollowingPolicy attaches a following policy to the medium with the
// given name. Mediums without one use AncestorFollowing.
func WithFollowingPolicy(medium string, p FollowingPolicy) Option {
	return func(e *Engine) { e.policies[medium] = p }
}

// WithExclusiveEnd makes Filter.End exclusive.
func WithExclusiveEnd(exclusive bool) Option {
	return func(e *Engine) { e.exclusiveEnd = exclusive }
}

// WithClock replaces the clock used for expiry checks and seen timestamps.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// NewEngine creates a new matching Engine.
func NewEngine(
	log *slog.Logger,
	events eventStore,
	subs subscriptionStore,
	entities entityStore,
	mediums mediumStore,
	tx txManager,
	opts ...Option,
) *Engine {
	e := &Engine{
		events:        events,
		subs:          subs,
		entities:      entities,
		mediums:       mediums,
		tx:            tx,
		log:           log.With("service", "matching"),
		defaultPolicy: AncestorFollowing(entities),
		policies:      make(map[string]FollowingPolicy),
		now:           func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Medium loads the medium with the given ID.
func (e *Engine) Medium(ctx context.Context, id int64) (*Medium, error) {
	m, err := e.mediums.GetMedium(ctx, id)
	if err != nil {
		return nil, invalidReference(err, fmt.Sprintf("medium %d", id))
	}
	return e.bind(m), nil
}

// MediumByName loads the medium with the given name.
func (e *Engine) MediumByName(ctx context.Context, name string) (*Medium, error) {
	m, err := e.mediums.GetMediumByName(ctx, name)
	if err != nil {
		return nil, invalidReference(err, "medium "+name)
	}
	return e.bind(m), nil
}

func (e *Engine) bind(m *domain.Medium) *Medium {
	policy, ok := e.policies[m.Name]
	if !ok {
		policy = e.defaultPolicy
	}
	return &Medium{Medium: *m, engine: e, policy: policy}
}

// invalidReference turns a not-found lookup into domain.ErrInvalidReference.
func invalidReference(err error, what string) error {
	if errors.Is(err, domain.ErrNotFound) {
		return fmt.Errorf("%s: %w", what, domain.ErrInvalidReference)
	}
	return fmt.Errorf("get %s: %w", what, err)
}
