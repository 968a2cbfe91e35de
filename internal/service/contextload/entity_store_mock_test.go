package contextload

import (
	"context"
	"github.com/heartmarshall/entity-events/internal/domain"
	"sync"
)

var _ entityStore = &entityStoreMock{}

type entityStoreMock struct {
	GetByIDsFunc func(ctx context.Context, ids []int64) ([]domain.Entity, error)
	GetKindFunc  func(ctx context.Context, id int64) (*domain.EntityKind, error)

	calls struct {
		GetByIDs []struct {
			Ctx context.Context
			Ids []int64
		}
		GetKind []struct {
			Ctx context.Context
			Id  int64
		}
	}
	lockGetByIDs sync.RWMutex
	lockGetKind  sync.RWMutex
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
