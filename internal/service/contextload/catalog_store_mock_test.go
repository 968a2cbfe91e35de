package contextload

import (
	"context"
	"github.com/heartmarshall/entity-events/internal/domain"
	"sync"
)

var _ catalogStore = &catalogStoreMock{}

type catalogStoreMock struct {
	GetRenderingStyleByNameFunc func(ctx context.Context, name string) (*domain.RenderingStyle, error)
	GetSourcesByIDsFunc         func(ctx context.Context, ids []int64) ([]domain.Source, error)
	RenderersForFunc            func(ctx context.Context, sourceIDs []int64, styleIDs []int64) ([]domain.ContextRenderer, error)

	calls struct {
		GetRenderingStyleByName []struct {
			Ctx  context.Context
			Name string
		}
		GetSourcesByIDs []struct {
			Ctx context.Context
			Ids []int64
		}
		RenderersFor []struct {
			Ctx       context.Context
			SourceIDs []int64
			StyleIDs  []int64
		}
	}
	lockGetRenderingStyleByName sync.RWMutex
	lockGetSourcesByIDs         sync.RWMutex
	lockRenderersFor            sync.RWMutex
}

func (mock *catalogStoreMock) GetRenderingStyleByName(ctx context.Context, name string) (*domain.RenderingStyle, error) {
	if mock.GetRenderingStyleByNameFunc == nil {
		panic("catalogStoreMock.GetRenderingStyleByNameFunc: method is nil but catalogStore.GetRenderingStyleByName was just called")
	}
	callInfo := struct {
		Ctx  context.Context
		Name string
	}{
		Ctx:  ctx,
		Name: name,
	}
	mock.lockGetRenderingStyleByName.Lock()
	mock.calls.GetRenderingStyleByName = append(mock.calls.GetRenderingStyleByName, callInfo)
	mock.lockGetRenderingStyleByName.Unlock()
	return mock.GetRenderingStyleByNameFunc(ctx, name)
}

func (mock *catalogStoreMock) GetRenderingStyleByNameCalls() []struct {
	Ctx  context.Context
	Name string
} {
	var calls []struct {
		Ctx  context.Context
		Name string
	}
	mock.lockGetRenderingStyleByName.RLock()
	calls = mock.calls.GetRenderingStyleByName
	mock.lockGetRenderingStyleByName.RUnlock()
	return calls
}

func (mock *catalogStoreMock) GetSourcesByIDs(ctx context.Context, ids []int64) ([]domain.Source, error) {
	if mock.GetSourcesByIDsFunc == nil {
		panic("catalogStoreMock.GetSourcesByIDsFunc: method is nil but catalogStore.GetSourcesByIDs was just called")
	}
	callInfo := struct {
		Ctx context.Context
		Ids []int64
	}{
		Ctx: ctx,
		Ids: ids,
	}
	mock.lockGetSourcesByIDs.Lock()
	mock.calls.GetSourcesByIDs = append(mock.calls.GetSourcesByIDs, callInfo)
	mock.lockGetSourcesByIDs.Unlock()
	return mock.GetSourcesByIDsFunc(ctx, ids)
}

func (mock *catalogStoreMock) GetSourcesByIDsCalls() []struct {
	Ctx context.Context
	Ids []int64
} {
	var calls []struct {
		Ctx context.Context
		Ids []int64
	}
	mock.lockGetSourcesByIDs.RLock()
	calls = mock.calls.GetSourcesByIDs
	mock.lockGetSourcesByIDs.RUnlock()
	return calls
}

func (mock *catalogStoreMock) RenderersFor(ctx context.Context, sourceIDs []int64, styleIDs []int64) ([]domain.ContextRenderer, error) {
	if mock.RenderersForFunc == nil {
		panic("catalogStoreMock.RenderersForFunc: method is nil but catalogStore.RenderersFor was just called")
	}
	callInfo := struct {
		Ctx       context.Context
		SourceIDs []int64
		StyleIDs  []int64
	}{
		Ctx:       ctx,
		SourceIDs: sourceIDs,
		StyleIDs:  styleIDs,
	}
	mock.lockRenderersFor.Lock()
	mock.calls.RenderersFor = append(mock.calls.RenderersFor, callInfo)
	mock.lockRenderersFor.Unlock()
	return mock.RenderersForFunc(ctx, sourceIDs, styleIDs)
}

func (mock *catalogStoreMock) RenderersForCalls() []struct {
	Ctx       context.Context
	SourceIDs []int64
	StyleIDs  []int64
} {
	var calls []struct {
		Ctx       context.Context
		SourceIDs []int64
		StyleIDs  []int64
	}
	mock.lockRenderersFor.RLock()
	calls = mock.calls.RenderersFor
	mock.lockRenderersFor.RUnlock()
	return calls
}
