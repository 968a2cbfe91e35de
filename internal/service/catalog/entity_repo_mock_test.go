package catalog

import (
	"context"
	"github.com/heartmarshall/entity-events/internal/domain"
	"sync"
)

var _ entityRepo = &entityRepoMock{}

type entityRepoMock struct {
	AddRelationshipFunc    func(ctx context.Context, rel domain.EntityRelationship) error
	CreateFunc             func(ctx context.Context, e domain.Entity) (*domain.Entity, error)
	CreateKindFunc         func(ctx context.Context, kind domain.EntityKind) (*domain.EntityKind, error)
	RemoveRelationshipFunc func(ctx context.Context, rel domain.EntityRelationship) error

	calls struct {
		AddRelationship []struct {
			Ctx context.Context
			Rel domain.EntityRelationship
		}
		Create []struct {
			Ctx context.Context
			E   domain.Entity
		}
		CreateKind []struct {
			Ctx  context.Context
			Kind domain.EntityKind
		}
		RemoveRelationship []struct {
			Ctx context.Context
			Rel domain.EntityRelationship
		}
	}
	lockAddRelationship    sync.RWMutex
	lockCreate             sync.RWMutex
	lockCreateKind         sync.RWMutex
	lockRemoveRelationship sync.RWMutex
}

func (mock *entityRepoMock) AddRelationship(ctx context.Context, rel domain.EntityRelationship) error {
	if mock.AddRelationshipFunc == nil {
		panic("entityRepoMock.AddRelationshipFunc: method is nil but entityRepo.AddRelationship was just called")
	}
	callInfo := struct {
		Ctx context.Context
		Rel domain.EntityRelationship
	}{
		Ctx: ctx,
		Rel: rel,
	}
	mock.lockAddRelationship.Lock()
	mock.calls.AddRelationship = append(mock.calls.AddRelationship, callInfo)
	mock.lockAddRelationship.Unlock()
	return mock.AddRelationshipFunc(ctx, rel)
}

func (mock *entityRepoMock) AddRelationshipCalls() []struct {
	Ctx context.Context
	Rel domain.EntityRelationship
} {
	var calls []struct {
		Ctx context.Context
		Rel domain.EntityRelationship
	}
	mock.lockAddRelationship.RLock()
	calls = mock.calls.AddRelationship
	mock.lockAddRelationship.RUnlock()
	return calls
}

func (mock *entityRepoMock) Create(ctx context.Context, e domain.Entity) (*domain.Entity, error) {
	if mock.CreateFunc == nil {
		panic("entityRepoMock.CreateFunc: method is nil but entityRepo.Create was just called")
	}
	callInfo := struct {
		Ctx context.Context
		E   domain.Entity
	}{
		Ctx: ctx,
		E:   e,
	}
	mock.lockCreate.Lock()
	mock.calls.Create = append(mock.calls.Create, callInfo)
	mock.lockCreate.Unlock()
	return mock.CreateFunc(ctx, e)
}

func (mock *entityRepoMock) CreateCalls() []struct {
	Ctx context.Context
	E   domain.Entity
} {
	var calls []struct {
		Ctx context.Context
		E   domain.Entity
	}
	mock.lockCreate.RLock()
	calls = mock.calls.Create
	mock.lockCreate.RUnlock()
	return calls
}

func (mock *entityRepoMock) CreateKind(ctx context.Context, kind domain.EntityKind) (*domain.EntityKind, error) {
	if mock.CreateKindFunc == nil {
		panic("entityRepoMock.CreateKindFunc: method is nil but entityRepo.CreateKind was just called")
	}
	callInfo := struct {
		Ctx  context.Context
		Kind domain.EntityKind
	}{
		Ctx:  ctx,
		Kind: kind,
	}
	mock.lockCreateKind.Lock()
	mock.calls.CreateKind = append(mock.calls.CreateKind, callInfo)
	mock.lockCreateKind.Unlock()
	return mock.CreateKindFunc(ctx, kind)
}

func (mock *entityRepoMock) CreateKindCalls() []struct {
	Ctx  context.Context
	Kind domain.EntityKind
} {
	var calls []struct {
		Ctx  context.Context
		Kind domain.EntityKind
	}
	mock.lockCreateKind.RLock()
	calls = mock.calls.CreateKind
	mock.lockCreateKind.RUnlock()
	return calls
}

func (mock *entityRepoMock) RemoveRelationship(ctx context.Context, rel domain.EntityRelationship) error {
	if mock.RemoveRelationshipFunc == nil {
		panic("entityRepoMock.RemoveRelationshipFunc: method is nil but entityRepo.RemoveRelationship was just called")
	}
	callInfo := struct {
		Ctx context.Context
		Rel domain.EntityRelationship
	}{
		Ctx: ctx,
		Rel: rel,
	}
	mock.lockRemoveRelationship.Lock()
	mock.calls.RemoveRelationship = append(mock.calls.RemoveRelationship, callInfo)
	mock.lockRemoveRelationship.Unlock()
	return mock.RemoveRelationshipFunc(ctx, rel)
}

func (mock *entityRepoMock) RemoveRelationshipCalls() []struct {
	Ctx context.Context
	Rel domain.EntityRelationship
} {
	var calls []struct {
		Ctx context.Context
		Rel domain.EntityRelationship
	}
	mock.lockRemoveRelationship.RLock()
	calls = mock.calls.RemoveRelationship
	mock.lockRemoveRelationship.RUnlock()
	return calls
}
