package catalog

import (
	"context"
	"github.com/heartmarshall/entity-events/internal/domain"
	"sync"
)

var _ catalogRepo = &catalogRepoMock{}

type catalogRepoMock struct {
	CreateMediumFunc         func(ctx context.Context, m domain.Medium) (*domain.Medium, error)
	CreateRendererFunc       func(ctx context.Context, cr domain.ContextRenderer) (*domain.ContextRenderer, error)
	CreateRenderingStyleFunc func(ctx context.Context, s domain.RenderingStyle) (*domain.RenderingStyle, error)
	CreateSourceFunc         func(ctx context.Context, s domain.Source) (*domain.Source, error)
	CreateSourceGroupFunc    func(ctx context.Context, g domain.SourceGroup) (*domain.SourceGroup, error)
	GetSourceFunc            func(ctx context.Context, id int64) (*domain.Source, error)
	ListMediumsFunc          func(ctx context.Context) ([]domain.Medium, error)
	UpdateSourceFunc         func(ctx context.Context, s domain.Source) (*domain.Source, error)

	calls struct {
		CreateMedium []struct {
			Ctx context.Context
			M   domain.Medium
		}
		CreateRenderer []struct {
			Ctx context.Context
			Cr  domain.ContextRenderer
		}
		CreateRenderingStyle []struct {
			Ctx context.Context
			S   domain.RenderingStyle
		}
		CreateSource []struct {
			Ctx context.Context
			S   domain.Source
		}
		CreateSourceGroup []struct {
			Ctx context.Context
			G   domain.SourceGroup
		}
		GetSource []struct {
			Ctx context.Context
			Id  int64
		}
		ListMediums []struct {
			Ctx context.Context
		}
		UpdateSource []struct {
			Ctx context.Context
			S   domain.Source
		}
	}
	lockCreateMedium         sync.RWMutex
	lockCreateRenderer       sync.RWMutex
	lockCreateRenderingStyle sync.RWMutex
	lockCreateSource         sync.RWMutex
	lockCreateSourceGroup    sync.RWMutex
	lockGetSource            sync.RWMutex
	lockListMediums          sync.RWMutex
	lockUpdateSource         sync.RWMutex
}

func (mock *catalogRepoMock) CreateMedium(ctx context.Context, m domain.Medium) (*domain.Medium, error) {
	if mock.CreateMediumFunc == nil {
		panic("catalogRepoMock.CreateMediumFunc: method is nil but catalogRepo.CreateMedium was just called")
	}
	callInfo := struct {
		Ctx context.Context
		M   domain.Medium
	}{
		Ctx: ctx,
		M:   m,
	}
	mock.lockCreateMedium.Lock()
	mock.calls.CreateMedium = append(mock.calls.CreateMedium, callInfo)
	mock.lockCreateMedium.Unlock()
	return mock.CreateMediumFunc(ctx, m)
}

func (mock *catalogRepoMock) CreateMediumCalls() []struct {
	Ctx context.Context
	M   domain.Medium
} {
	var calls []struct {
		Ctx context.Context
		M   domain.Medium
	}
	mock.lockCreateMedium.RLock()
	calls = mock.calls.CreateMedium
	mock.lockCreateMedium.RUnlock()
	return calls
}

func (mock *catalogRepoMock) CreateRenderer(ctx context.Context, cr domain.ContextRenderer) (*domain.ContextRenderer, error) {
	if mock.CreateRendererFunc == nil {
		panic("catalogRepoMock.CreateRendererFunc: method is nil but catalogRepo.CreateRenderer was just called")
	}
	callInfo := struct {
		Ctx context.Context
		Cr  domain.ContextRenderer
	}{
		Ctx: ctx,
		Cr:  cr,
	}
	mock.lockCreateRenderer.Lock()
	mock.calls.CreateRenderer = append(mock.calls.CreateRenderer, callInfo)
	mock.lockCreateRenderer.Unlock()
	return mock.CreateRendererFunc(ctx, cr)
}

func (mock *catalogRepoMock) CreateRendererCalls() []struct {
	Ctx context.Context
	Cr  domain.ContextRenderer
} {
	var calls []struct {
		Ctx context.Context
		Cr  domain.ContextRenderer
	}
	mock.lockCreateRenderer.RLock()
	calls = mock.calls.CreateRenderer
	mock.lockCreateRenderer.RUnlock()
	return calls
}

func (mock *catalogRepoMock) CreateRenderingStyle(ctx context.Context, s domain.RenderingStyle) (*domain.RenderingStyle, error) {
	if mock.CreateRenderingStyleFunc == nil {
		panic("catalogRepoMock.CreateRenderingStyleFunc: method is nil but catalogRepo.CreateRenderingStyle was just called")
	}
	callInfo := struct {
		Ctx context.Context
		S   domain.RenderingStyle
	}{
		Ctx: ctx,
		S:   s,
	}
	mock.lockCreateRenderingStyle.Lock()
	mock.calls.CreateRenderingStyle = append(mock.calls.CreateRenderingStyle, callInfo)
	mock.lockCreateRenderingStyle.Unlock()
	return mock.CreateRenderingStyleFunc(ctx, s)
}

func (mock *catalogRepoMock) CreateRenderingStyleCalls() []struct {
	Ctx context.Context
	S   domain.RenderingStyle
} {
	var calls []struct {
		Ctx context.Context
		S   domain.RenderingStyle
	}
	mock.lockCreateRenderingStyle.RLock()
	calls = mock.calls.CreateRenderingStyle
	mock.lockCreateRenderingStyle.RUnlock()
	return calls
}

func (mock *catalogRepoMock) CreateSource(ctx context.Context, s domain.Source) (*domain.Source, error) {
	if mock.CreateSourceFunc == nil {
		panic("catalogRepoMock.CreateSourceFunc: method is nil but catalogRepo.CreateSource was just called")
	}
	callInfo := struct {
		Ctx context.Context
		S   domain.Source
	}{
		Ctx: ctx,
		S:   s,
	}
	mock.lockCreateSource.Lock()
	mock.calls.CreateSource = append(mock.calls.CreateSource, callInfo)
	mock.lockCreateSource.Unlock()
	return mock.CreateSourceFunc(ctx, s)
}

func (mock *catalogRepoMock) CreateSourceCalls() []struct {
	Ctx context.Context
	S   domain.Source
} {
	var calls []struct {
		Ctx context.Context
		S   domain.Source
	}
	mock.lockCreateSource.RLock()
	calls = mock.calls.CreateSource
	mock.lockCreateSource.RUnlock()
	return calls
}

func (mock *catalogRepoMock) CreateSourceGroup(ctx context.Context, g domain.SourceGroup) (*domain.SourceGroup, error) {
	if mock.CreateSourceGroupFunc == nil {
		panic("catalogRepoMock.CreateSourceGroupFunc: method is nil but catalogRepo.CreateSourceGroup was just called")
	}
	callInfo := struct {
		Ctx context.Context
		G   domain.SourceGroup
	}{
		Ctx: ctx,
		G:   g,
	}
	mock.lockCreateSourceGroup.Lock()
	mock.calls.CreateSourceGroup = append(mock.calls.CreateSourceGroup, callInfo)
	mock.lockCreateSourceGroup.Unlock()
	return mock.CreateSourceGroupFunc(ctx, g)
}

func (mock *catalogRepoMock) CreateSourceGroupCalls() []struct {
	Ctx context.Context
	G   domain.SourceGroup
} {
	var calls []struct {
		Ctx context.Context
		G   domain.SourceGroup
	}
	mock.lockCreateSourceGroup.RLock()
	calls = mock.calls.CreateSourceGroup
	mock.lockCreateSourceGroup.RUnlock()
	return calls
}

func (mock *catalogRepoMock) GetSource(ctx context.Context, id int64) (*domain.Source, error) {
	if mock.GetSourceFunc == nil {
		panic("catalogRepoMock.GetSourceFunc: method is nil but catalogRepo.GetSource was just called")
	}
	callInfo := struct {
		Ctx context.Context
		Id  int64
	}{
		Ctx: ctx,
		Id:  id,
	}
	mock.lockGetSource.Lock()
	mock.calls.GetSource = append(mock.calls.GetSource, callInfo)
	mock.lockGetSource.Unlock()
	return mock.GetSourceFunc(ctx, id)
}

func (mock *catalogRepoMock) GetSourceCalls() []struct {
	Ctx context.Context
	Id  int64
} {
	var calls []struct {
		Ctx context.Context
		Id  int64
	}
	mock.lockGetSource.RLock()
	calls = mock.calls.GetSource
	mock.lockGetSource.RUnlock()
	return calls
}

func (mock *catalogRepoMock) ListMediums(ctx context.Context) ([]domain.Medium, error) {
	if mock.ListMediumsFunc == nil {
		panic("catalogRepoMock.ListMediumsFunc: method is nil but catalogRepo.ListMediums was just called")
	}
	callInfo := struct {
		Ctx context.Context
	}{
		Ctx: ctx,
	}
	mock.lockListMediums.Lock()
	mock.calls.ListMediums = append(mock.calls.ListMediums, callInfo)
	mock.lockListMediums.Unlock()
	return mock.ListMediumsFunc(ctx)
}

func (mock *catalogRepoMock) ListMediumsCalls() []struct {
	Ctx context.Context
} {
	var calls []struct {
		Ctx context.Context
	}
	mock.lockListMediums.RLock()
	calls = mock.calls.ListMediums
	mock.lockListMediums.RUnlock()
	return calls
}

func (mock *catalogRepoMock) UpdateSource(ctx context.Context, s domain.Source) (*domain.Source, error) {
	if mock.UpdateSourceFunc == nil {
		panic("catalogRepoMock.UpdateSourceFunc: method is nil but catalogRepo.UpdateSource was just called")
	}
	callInfo := struct {
		Ctx context.Context
		S   domain.Source
	}{
		Ctx: ctx,
		S:   s,
	}
	mock.lockUpdateSource.Lock()
	mock.calls.UpdateSource = append(mock.calls.UpdateSource, callInfo)
	mock.lockUpdateSource.Unlock()
	return mock.UpdateSourceFunc(ctx, s)
}

func (mock *catalogRepoMock) UpdateSourceCalls() []struct {
	Ctx context.Context
	S   domain.Source
} {
	var calls []struct {
		Ctx context.Context
		S   domain.Source
	}
	mock.lockUpdateSource.RLock()
	calls = mock.calls.UpdateSource
	mock.lockUpdateSource.RUnlock()
	return calls
}
