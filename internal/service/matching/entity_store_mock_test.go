package matching

import (
	"context"
	"github.com/heartmarshall/entity-events/internal/domain"
	"sync"
)

var _ entityStore = &entityStoreMock{}

type entityStoreMock struct {
	AncestorsOfFunc   func(ctx context.Context, ids []int64) (map[int64][]int64, error)
	DescendantsOfFunc func(ctx context.Context, ids []int64) (map[int64][]int64, error)
	GetByIDsFunc      func(ctx context.Context, ids []int64) ([]domain.Entity, error)
	GetKindFunc       func(ctx context.Context, id int64) (*domain.EntityKind, error)

	calls struct {
		AncestorsOf []struct {
			Ctx context.Context
			Ids []int64
		}
		DescendantsOf []struct {
			Ctx context.Context
			Ids []int64
		}
		GetByIDs []struct {
			Ctx context.Context
			Ids []int64
		}
		GetKind []struct {
			Ctx context.Context
			Id  int64
		}
	}
	lockAncestorsOf   sync.RWMutex
	lockDescendantsOf sync.RWMutex
	lockGetByIDs      sync.RWMutex
	lockGetKind       sync.RWMutex
}

func (mock *entityStoreMock) AncestorsOf(ctx context.Context, ids []int64) (map[int64][]int64, error) {
	if mock.AncestorsOfFunc == nil {
		panic("entityStoreMock.AncestorsOfFunc: method is nil but entityStore.AncestorsOf was just called")
	}
	callInfo := struct {
		Ctx context.Context
		Ids []int64
	}{
		Ctx: ctx,
		Ids: ids,
	}
	mock.lockAncestorsOf.Lock()
	mock.calls.AncestorsOf = append(mock.calls.AncestorsOf, callInfo)
	mock.lockAncestorsOf.Unlock()
	return mock.AncestorsOfFunc(ctx, ids)
}

func (mock *entityStoreMock) AncestorsOfCalls() []struct {
	Ctx context.Context
	Ids []int64
} {
	var calls []struct {
		Ctx context.Context
		Ids []int64
	}
	mock.lockAncestorsOf.RLock()
	calls = mock.calls.AncestorsOf
	mock.lockAncestorsOf.RUnlock()
	return calls
}

func (mock *entityStoreMock) DescendantsOf(ctx context.Context, ids []int64) (map[int64][]int64, error) {
	if mock.DescendantsOfFunc == nil {
		panic("entityStoreMock.DescendantsOfFunc: method is nil but entityStore.DescendantsOf was just called")
	}
	callInfo := struct {
		Ctx context.Context
		Ids []int64
	}{
		Ctx: ctx,
		Ids: ids,
	}
	mock.lockDescendantsOf.Lock()
	mock.calls.DescendantsOf = append(mock.calls.DescendantsOf, callInfo)
	mock.lockDescendantsOf.Unlock()
	return mock.DescendantsOfFunc(ctx, ids)
}

func (mock *entityStoreMock) DescendantsOfCalls() []struct {
	Ctx context.Context
	Ids []int64
} {
	var calls []struct {
		Ctx context.Context
		Ids []int64
	}
	mock.lockDescendantsOf.RLock()
	calls = mock.calls.DescendantsOf
	mock.lockDescendantsOf.RUnlock()
	return calls
}

func (mock *entityStoreMock) GetByIDs(ctx context.Context, ids []int64) ([]domain.Entity, error) {
	if mock.GetByIDsFunc == nil {
		panic("entityStoreMock.GetByIDsFunc: method is nil but entityStore.GetByIDs was just called")
	}
	callInfo := struct {
		Ctx context.Context
		Ids []int64
	}{
		Ctx: ctx,
		Ids: ids,
	}
	mock.lockGetByIDs.Lock()
	mock.calls.GetByIDs = append(mock.calls.GetByIDs, callInfo)
	mock.lockGetByIDs.Unlock()
	return mock.GetByIDsFunc(ctx, ids)
}

func (mock *entityStoreMock) GetByIDsCalls() []struct {
	Ctx context.Context
	Ids []int64
} {
	var calls []struct {
		Ctx context.Context
		Ids []int64
	}
	mock.lockGetByIDs.RLock()
	calls = mock.calls.GetByIDs
	mock.lockGetByIDs.RUnlock()
	return calls
}

func (mock *entityStoreMock) GetKind(ctx context.Context, id int64) (*domain.EntityKind, error) {
	if mock.GetKindFunc == nil {
		panic("entityStoreMock.GetKindFunc: method is nil but entityStore.GetKind was just called")
	}
	callInfo := struct {
		Ctx context.Context
		Id  int64
	}{
		Ctx: ctx,
		Id:  id,
	}
	mock.lockGetKind.Lock()
	mock.calls.GetKind = append(mock.calls.GetKind, callInfo)
	mock.lockGetKind.Unlock()
	return mock.GetKindFunc(ctx, id)
}

func (mock *entityStoreMock) GetKindCalls() []struct {
	Ctx context.Context
	Id  int64
} {
	var calls []struct {
		Ctx context.Context
		Id  int64
	}
	mock.lockGetKind.RLock()
	calls = mock.calls.GetKind
	mock.lockGetKind.RUnlock()
	return calls
}
