package matching

import (
	"context"
	"log/slog"
	"slices"
	"time"

	"github.com/heartmarshall/entity-events/internal/domain"
	"github.com/heartmarshall/entity-events/internal/predicate"
)

//go:generate moq -out event_store_mock_test.go -pkg matching . eventStore
//go:generate moq -out subscription_store_mock_test.go -pkg matching . subscriptionStore
//go:generate moq -out entity_store_mock_test.go -pkg matching . entityStore
//go:generate moq -out medium_store_mock_test.go -pkg matching . mediumStore
//go:generate moq -out tx_manager_mock_test.go -pkg matching . txManager

var testNow = time.Date(2014, 1, 16, 12, 0, 0, 0, time.UTC)

const (
	kindPerson int64 = 1
	kindGroup  int64 = 2
)

// graph maps a super-entity to its direct sub-entities.
type graph map[int64][]int64

func (g graph) reach(ids []int64, next func(int64) []int64) map[int64][]int64 {
	out := make(map[int64][]int64)
	for _, origin := range ids {
		seen := map[int64]bool{}
		queue := slices.Clone(next(origin))
		for len(queue) > 0 {
			id := queue[0]
			queue = queue[1:]
			if seen[id] {
				continue
			}
			seen[id] = true
			out[origin] = append(out[origin], id)
			queue = append(queue, next(id)...)
		}
		slices.Sort(out[origin])
	}
	return out
}

func (g graph) descendants(ids []int64) map[int64][]int64 {
	return g.reach(ids, func(id int64) []int64 { return g[id] })
}

func (g graph) ancestors(ids []int64) map[int64][]int64 {
	return g.reach(ids, func(id int64) []int64 {
		var supers []int64
		for super, subs := range g {
			if slices.Contains(subs, id) {
				supers = append(supers, super)
			}
		}
		slices.Sort(supers)
		return supers
	})
}

// fixture wires mocks backed by in-memory data. Find returns every stored
// event regardless of the predicate; tests inspect the predicate instead.
type fixture struct {
	events   *eventStoreMock
	subs     *subscriptionStoreMock
	entities *entityStoreMock
	mediums  *mediumStoreMock
	tx       *txManagerMock
}

type world struct {
	graph    graph
	entities []domain.Entity
	subs     []domain.Subscription
	unsubs   []domain.Unsubscription
	events   []domain.Event
}

func newFixture(w world) *fixture {
	byID := make(map[int64]domain.Entity)
	for _, e := range w.entities {
		byID[e.ID] = e
	}

	return &fixture{
		events: &eventStoreMock{
			FindFunc: func(ctx context.Context, p predicate.Predicate, limit int) ([]domain.Event, error) {
				return slices.Clone(w.events), nil
			},
			FindIDsFunc: func(ctx context.Context, p predicate.Predicate) ([]int64, error) {
				return domain.EventIDs(w.events), nil
			},
			MarkSeenFunc: func(ctx context.Context, mediumID int64, eventIDs []int64, at time.Time) (int, error) {
				return len(eventIDs), nil
			},
		},
		subs: &subscriptionStoreMock{
			ListByMediumFunc: func(ctx context.Context, mediumID int64) ([]domain.Subscription, error) {
				return slices.Clone(w.subs), nil
			},
			UnsubscriptionsByMediumFunc: func(ctx context.Context, mediumID int64) ([]domain.Unsubscription, error) {
				return slices.Clone(w.unsubs), nil
			},
		},
		entities: &entityStoreMock{
			AncestorsOfFunc: func(ctx context.Context, ids []int64) (map[int64][]int64, error) {
				return w.graph.ancestors(ids), nil
			},
			DescendantsOfFunc: func(ctx context.Context, ids []int64) (map[int64][]int64, error) {
				return w.graph.descendants(ids), nil
			},
			GetByIDsFunc: func(ctx context.Context, ids []int64) ([]domain.Entity, error) {
				var out []domain.Entity
				for _, id := range ids {
					if e, ok := byID[id]; ok {
						out = append(out, e)
					}
				}
				return out, nil
			},
			GetKindFunc: func(ctx context.Context, id int64) (*domain.EntityKind, error) {
				if id != kindPerson && id != kindGroup {
					return nil, domain.ErrNotFound
				}
				return &domain.EntityKind{ID: id}, nil
			},
		},
		mediums: &mediumStoreMock{
			GetMediumFunc: func(ctx context.Context, id int64) (*domain.Medium, error) {
				if id != 1 {
					return nil, domain.ErrNotFound
				}
				return &domain.Medium{ID: 1, Name: "inbox"}, nil
			},
			GetMediumByNameFunc: func(ctx context.Context, name string) (*domain.Medium, error) {
				if name != "inbox" && name != "digest" {
					return nil, domain.ErrNotFound
				}
				return &domain.Medium{ID: 1, Name: name}, nil
			},
		},
		tx: &txManagerMock{
			RunInTxFunc: func(ctx context.Context, fn func(ctx context.Context) error) error {
				return fn(ctx)
			},
		},
	}
}

func (f *fixture) engine(opts ...Option) *Engine {
	opts = append([]Option{WithClock(func() time.Time { return testNow })}, opts...)
	return NewEngine(slog.Default(), f.events, f.subs, f.entities, f.mediums, f.tx, opts...)
}

func (f *fixture) medium(opts ...Option) *Medium {
	return f.engine(opts...).bind(&domain.Medium{ID: 1, Name: "inbox"})
}

// storeCalls counts the calls made to the event, subscription and entity stores.
func (f *fixture) storeCalls() int {
	return len(f.events.FindCalls()) + len(f.events.FindIDsCalls()) + len(f.events.MarkSeenCalls()) +
		len(f.subs.ListByMediumCalls()) + len(f.subs.UnsubscriptionsByMediumCalls()) +
		len(f.entities.AncestorsOfCalls()) + len(f.entities.DescendantsOfCalls()) +
		len(f.entities.GetByIDsCalls()) + len(f.entities.GetKindCalls())
}

func person(id int64) domain.Entity { return domain.Entity{ID: id, KindID: kindPerson, IsActive: true} }
func group(id int64) domain.Entity  { return domain.Entity{ID: id, KindID: kindGroup, IsActive: true} }

func ptr[T any](v T) *T { return &v }
