package events

import (
	"context"
	"github.com/heartmarshall/entity-events/internal/domain"
	"sync"
	"time"
)

var _ eventRepo = &eventRepoMock{}

type eventRepoMock struct {
	DeleteExpiredBeforeFunc func(ctx context.Context, cutoff time.Time) (int64, error)
	DeleteSeenBeforeFunc    func(ctx context.Context, cutoff time.Time) (int64, error)
	InsertFunc              func(ctx context.Context, e domain.Event, ignoreDuplicates bool) (*domain.Event, error)
	MarkSeenFunc            func(ctx context.Context, mediumID int64, eventIDs []int64, at time.Time) (int, error)

	calls struct {
		DeleteExpiredBefore []struct {
			Ctx    context.Context
			Cutoff time.Time
		}
		DeleteSeenBefore []struct {
			Ctx    context.Context
			Cutoff time.Time
		}
		Insert []struct {
			Ctx              context.Context
			E                domain.Event
			IgnoreDuplicates bool
		}
		MarkSeen []struct {
			Ctx      context.Context
			MediumID int64
			EventIDs []int64
			At       time.Time
		}
	}
	lockDeleteExpiredBefore sync.RWMutex
	lockDeleteSeenBefore    sync.RWMutex
	lockInsert              sync.RWMutex
	lockMarkSeen            sync.RWMutex
}

func (mock *eventRepoMock) DeleteExpiredBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	if mock.DeleteExpiredBeforeFunc == nil {
		panic("eventRepoMock.DeleteExpiredBeforeFunc: method is nil but eventRepo.DeleteExpiredBefore was just called")
	}
	callInfo := struct {
		Ctx    context.Context
		Cutoff time.Time
	}{
		Ctx:    ctx,
		Cutoff: cutoff,
	}
	mock.lockDeleteExpiredBefore.Lock()
	mock.calls.DeleteExpiredBefore = append(mock.calls.DeleteExpiredBefore, callInfo)
	mock.lockDeleteExpiredBefore.Unlock()
	return mock.DeleteExpiredBeforeFunc(ctx, cutoff)
}

func (mock *eventRepoMock) DeleteExpiredBeforeCalls() []struct {
	Ctx    context.Context
	Cutoff time.Time
} {
	var calls []struct {
		Ctx    context.Context
		Cutoff time.Time
	}
	mock.lockDeleteExpiredBefore.RLock()
	calls = mock.calls.DeleteExpiredBefore
	mock.lockDeleteExpiredBefore.RUnlock()
	return calls
}

func (mock *eventRepoMock) DeleteSeenBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	if mock.DeleteSeenBeforeFunc == nil {
		panic("eventRepoMock.DeleteSeenBeforeFunc: method is nil but eventRepo.DeleteSeenBefore was just called")
	}
	callInfo := struct {
		Ctx    context.Context
		Cutoff time.Time
	}{
		Ctx:    ctx,
		Cutoff: cutoff,
	}
	mock.lockDeleteSeenBefore.Lock()
	mock.calls.DeleteSeenBefore = append(mock.calls.DeleteSeenBefore, callInfo)
	mock.lockDeleteSeenBefore.Unlock()
	return mock.DeleteSeenBeforeFunc(ctx, cutoff)
}

func (mock *eventRepoMock) DeleteSeenBeforeCalls() []struct {
	Ctx    context.Context
	Cutoff time.Time
} {
	var calls []struct {
		Ctx    context.Context
		Cutoff time.Time
	}
	mock.lockDeleteSeenBefore.RLock()
	calls = mock.calls.DeleteSeenBefore
	mock.lockDeleteSeenBefore.RUnlock()
	return calls
}

func (mock *eventRepoMock) Insert(ctx context.Context, e domain.Event, ignoreDuplicates bool) (*domain.Event, error) {
	if mock.InsertFunc == nil {
		panic("eventRepoMock.InsertFunc: method is nil but eventRepo.Insert was just called")
	}
	callInfo := struct {
		Ctx              context.Context
		E                domain.Event
		IgnoreDuplicates bool
	}{
		Ctx:              ctx,
		E:                e,
		IgnoreDuplicates: ignoreDuplicates,
	}
	mock.lockInsert.Lock()
	mock.calls.Insert = append(mock.calls.Insert, callInfo)
	mock.lockInsert.Unlock()
	return mock.InsertFunc(ctx, e, ignoreDuplicates)
}

func (mock *eventRepoMock) InsertCalls() []struct {
	Ctx              context.Context
	E                domain.Event
	IgnoreDuplicates bool
} {
	var calls []struct {
		Ctx              context.Context
		E                domain.Event
		IgnoreDuplicates bool
	}
	mock.lockInsert.RLock()
	calls = mock.calls.Insert
	mock.lockInsert.RUnlock()
	return calls
}

func (mock *eventRepoMock) MarkSeen(ctx context.Context, mediumID int64, eventIDs []int64, at time.Time) (int, error) {
	if mock.MarkSeenFunc == nil {
		panic("eventRepoMock.MarkSeenFunc: method is nil but eventRepo.MarkSeen was just called")
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

func (mock *eventRepoMock) MarkSeenCalls() []struct {
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
