package matching

import (
	"context"
	"github.com/heartmarshall/entity-events/internal/domain"
	"github.com/heartmarshall/entity-events/internal/predicate"
	"sync"
	"time"
)

var _ eventStore = &eventStoreMock{}

type eventStoreMock struct {
	FindFunc     func(ctx context.Context, p predicate.Predicate, limit int) ([]domain.Event, error)
	FindIDsFunc  func(ctx context.Context, p predicate.Predicate) ([]int64, error)
	MarkSeenFunc func(ctx context.Context, mediumID int64, eventIDs []int64, at time.Time) (int, error)

	calls struct {
		Find []struct {
			Ctx   context.Context
			P     predicate.Predicate
			Limit int
		}
		FindIDs []struct {
			Ctx context.Context
			P   predicate.Predicate
		}
		MarkSeen []struct {
			Ctx      context.Context
			MediumID int64
			EventIDs []int64
			At       time.Time
		}
	}
	lockFind     sync.RWMutex
	lockFindIDs  sync.RWMutex
	lockMarkSeen sync.RWMutex
}

func (mock *eventStoreMock) Find(ctx context.Context, p predicate.Predicate, limit int) ([]domain.Event, error) {
	if mock.FindFunc == nil {
		panic("eventStoreMock.FindFunc: method is nil but eventStore.Find was just called")
	}
	callInfo := struct {
		Ctx   context.Context
		P     predicate.Predicate
		Limit int
	}{
		Ctx:   ctx,
		P:     p,
		Limit: limit,
	}
	mock.lockFind.Lock()
	mock.calls.Find = append(mock.calls.Find, callInfo)
	mock.lockFind.Unlock()
	return mock.FindFunc(ctx, p, limit)
}

func (mock *eventStoreMock) FindCalls() []struct {
	Ctx   context.Context
	P     predicate.Predicate
	Limit int
} {
	var calls []struct {
		Ctx   context.Context
		P     predicate.Predicate
		Limit int
	}
	mock.lockFind.RLock()
	calls = mock.calls.Find
	mock.lockFind.RUnlock()
	return calls
}

func (mock *eventStoreMock) FindIDs(ctx context.Context, p predicate.Predicate) ([]int64, error) {
	if mock.FindIDsFunc == nil {
		panic("eventStoreMock.FindIDsFunc: method is nil but eventStore.FindIDs was just called")
	}
	callInfo := struct {
		Ctx context.Context
		P   predicate.Predicate
	}{
		Ctx: ctx,
		P:   p,
	}
	mock.lockFindIDs.Lock()
	mock.calls.FindIDs = append(mock.calls.FindIDs, callInfo)
	mock.lockFindIDs.Unlock()
	return mock.FindIDsFunc(ctx, p)
}

func (mock *eventStoreMock) FindIDsCalls() []struct {
	Ctx context.Context
	P   predicate.Predicate
} {
	var calls []struct {
		Ctx context.Context
		P   predicate.Predicate
	}
	mock.lockFindIDs.RLock()
	calls = mock.calls.FindIDs
	mock.lockFindIDs.RUnlock()
	return calls
}

func (mock *eventStoreMock) MarkSeen(ctx context.Context, mediumID int64, eventIDs []int64, at time.Time) (int, error) {
	if mock.MarkSeenFunc == nil {
		panic("eventStoreMock.MarkSeenFunc: method is nil but eventStore.MarkSeen was just called")
	}
	callInfo := struct {
		Ctx      context.Context
		MediumID int64
		EventIDs []int64
		At       time.Time
	}{
		Ctx:      ctx,
		MediumID: mediumID,
		EventIDs: eventIDs,
		At:       at,
	}
	mock.lockMarkSeen.Lock()
	mock.calls.MarkSeen = append(mock.calls.MarkSeen, callInfo)
	mock.lockMarkSeen.Unlock()
	return mock.MarkSeenFunc(ctx, mediumID, eventIDs, at)
}

func (mock *eventStoreMock) MarkSeenCalls() []struct {
	Ctx      context.Context
	MediumID int64
	EventIDs []int64
	At       time.Time
} {
	var calls []struct {
		Ctx      context.Context
		MediumID int64
		EventIDs []int64
		At       time.Time
	}
	mock.lockMarkSeen.RLock()
	calls = mock.calls.MarkSeen
	mock.lockMarkSeen.RUnlock()
	return calls
}
