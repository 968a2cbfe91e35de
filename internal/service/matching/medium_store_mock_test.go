package matching

import (
	"context"
	"github.com/heartmarshall/entity-events/internal/domain"
	"sync"
)

var _ mediumStore = &mediumStoreMock{}

type mediumStoreMock struct {
	GetMediumFunc       func(ctx context.Context, id int64) (*domain.Medium, error)
	GetMediumByNameFunc func(ctx context.Context, name string) (*domain.Medium, error)

	calls struct {
		GetMedium []struct {
			Ctx context.Context
			Id  int64
		}
		GetMediumByName []struct {
			Ctx  context.Context
			Name string
		}
	}
	lockGetMedium       sync.RWMutex
	lockGetMediumByName sync.RWMutex
}

func (mock *mediumStoreMock) GetMedium(ctx context.Context, id int64) (*domain.Medium, error) {
	if mock.GetMediumFunc == nil {
		panic("mediumStoreMock.GetMediumFunc: method is nil but mediumStore.GetMedium was just called")
	}
	callInfo := struct {
		Ctx context.Context
		Id  int64
	}{
		Ctx: ctx,
		Id:  id,
	}
	mock.lockGetMedium.Lock()
	mock.calls.GetMedium = append(mock.calls.GetMedium, callInfo)
	mock.lockGetMedium.Unlock()
	return mock.GetMediumFunc(ctx, id)
}

func (mock *mediumStoreMock) GetMediumCalls() []struct {
	Ctx context.Context
	Id  int64
} {
	var calls []struct {
		Ctx context.Context
		Id  int64
	}
	mock.lockGetMedium.RLock()
	calls = mock.calls.GetMedium
	mock.lockGetMedium.RUnlock()
	return calls
}

func (mock *mediumStoreMock) GetMediumByName(ctx context.Context, name string) (*domain.Medium, error) {
	if mock.GetMediumByNameFunc == nil {
		panic("mediumStoreMock.GetMediumByNameFunc: method is nil but mediumStore.GetMediumByName was just called")
	}
	callInfo := struct {
		Ctx  context.Context
		Name string
	}{
		Ctx:  ctx,
		Name: name,
	}
	mock.lockGetMediumByName.Lock()
	mock.calls.GetMediumByName = append(mock.calls.GetMediumByName, callInfo)
	mock.lockGetMediumByName.Unlock()
	return mock.GetMediumByNameFunc(ctx, name)
}

func (mock *mediumStoreMock) GetMediumByNameCalls() []struct {
	Ctx  context.Context
	Name string
} {
	var calls []struct {
		Ctx  context.Context
		Name string
	}
	mock.lockGetMediumByName.RLock()
	calls = mock.calls.GetMediumByName
	mock.lockGetMediumByName.RUnlock()
	return calls
}
