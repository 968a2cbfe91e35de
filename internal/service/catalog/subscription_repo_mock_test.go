package catalog

import (
	"context"
	"github.com/heartmarshall/entity-events/internal/domain"
	"sync"
)

var _ subscriptionRepo = &subscriptionRepoMock{}

type subscriptionRepoMock struct {
	CreateFunc               func(ctx context.Context, s domain.Subscription) (*domain.Subscription, error)
	CreateUnsubscriptionFunc func(ctx context.Context, u domain.Unsubscription) (*domain.Unsubscription, error)
	DeleteFunc               func(ctx context.Context, id int64) error
	DeleteUnsubscriptionFunc func(ctx context.Context, entityID int64, mediumID int64, sourceID int64) error

	calls struct {
		Create []struct {
			Ctx context.Context
			S   domain.Subscription
		}
		CreateUnsubscription []struct {
			Ctx context.Context
			U   domain.Unsubscription
		}
		Delete []struct {
			Ctx context.Context
			Id  int64
		}
		DeleteUnsubscription []struct {
			Ctx      context.Context
			EntityID int64
			MediumID int64
			SourceID int64
		}
	}
	lockCreate               sync.RWMutex
	lockCreateUnsubscription sync.RWMutex
	lockDelete               sync.RWMutex
	lockDeleteUnsubscription sync.RWMutex
}

func (mock *subscriptionRepoMock) Create(ctx context.Context, s domain.Subscription) (*domain.Subscription, error) {
	if mock.CreateFunc == nil {
		panic("subscriptionRepoMock.CreateFunc: method is nil but subscriptionRepo.Create was just called")
	}
	callInfo := struct {
		Ctx context.Context
		S   domain.Subscription
	}{
		Ctx: ctx,
		S:   s,
	}
	mock.lockCreate.Lock()
	mock.calls.Create = append(mock.calls.Create, callInfo)
	mock.lockCreate.Unlock()
	return mock.CreateFunc(ctx, s)
}

func (mock *subscriptionRepoMock) CreateCalls() []struct {
	Ctx context.Context
	S   domain.Subscription
} {
	var calls []struct {
		Ctx context.Context
		S   domain.Subscription
	}
	mock.lockCreate.RLock()
	calls = mock.calls.Create
	mock.lockCreate.RUnlock()
	return calls
}

func (mock *subscriptionRepoMock) CreateUnsubscription(ctx context.Context, u domain.Unsubscription) (*domain.Unsubscription, error) {
	if mock.CreateUnsubscriptionFunc == nil {
		panic("subscriptionRepoMock.CreateUnsubscriptionFunc: method is nil but subscriptionRepo.CreateUnsubscription was just called")
	}
	callInfo := struct {
		Ctx context.Context
		U   domain.Unsubscription
	}{
		Ctx: ctx,
		U:   u,
	}
	mock.lockCreateUnsubscription.Lock()
	mock.calls.CreateUnsubscription = append(mock.calls.CreateUnsubscription, callInfo)
	mock.lockCreateUnsubscription.Unlock()
	return mock.CreateUnsubscriptionFunc(ctx, u)
}

func (mock *subscriptionRepoMock) CreateUnsubscriptionCalls() []struct {
	Ctx context.Context
	U   domain.Unsubscription
} {
	var calls []struct {
		Ctx context.Context
		U   domain.Unsubscription
	}
	mock.lockCreateUnsubscription.RLock()
	calls = mock.calls.CreateUnsubscription
	mock.lockCreateUnsubscription.RUnlock()
	return calls
}

func (mock *subscriptionRepoMock) Delete(ctx context.Context, id int64) error {
	if mock.DeleteFunc == nil {
		panic("subscriptionRepoMock.DeleteFunc: method is nil but subscriptionRepo.Delete was just called")
	}
	callInfo := struct {
		Ctx context.Context
		Id  int64
	}{
		Ctx: ctx,
		Id:  id,
	}
	mock.lockDelete.Lock()
	mock.calls.Delete = append(mock.calls.Delete, callInfo)
	mock.lockDelete.Unlock()
	return mock.DeleteFunc(ctx, id)
}

func (mock *subscriptionRepoMock) DeleteCalls() []struct {
	Ctx context.Context
	Id  int64
} {
	var calls []struct {
		Ctx context.Context
		Id  int64
	}
	mock.lockDelete.RLock()
	calls = mock.calls.Delete
	mock.lockDelete.RUnlock()
	return calls
}

func (mock *subscriptionRepoMock) DeleteUnsubscription(ctx context.Context, entityID int64, mediumID int64, sourceID int64) error {
	if mock.DeleteUnsubscriptionFunc == nil {
		panic("subscriptionRepoMock.DeleteUnsubscriptionFunc: method is nil but subscriptionRepo.DeleteUnsubscription was just called")
	}
	callInfo := struct {
		Ctx      context.Context
		EntityID int64
		MediumID int64
		SourceID int64
	}{
		Ctx:      ctx,
		EntityID: entityID,
		MediumID: mediumID,
		SourceID: sourceID,
	}
	mock.lockDeleteUnsubscription.Lock()
	mock.calls.DeleteUnsubscription = append(mock.calls.DeleteUnsubscription, callInfo)
	mock.lockDeleteUnsubscription.Unlock()
	return mock.DeleteUnsubscriptionFunc(ctx, entityID, mediumID, sourceID)
}

func (mock *subscriptionRepoMock) DeleteUnsubscriptionCalls() []struct {
	Ctx      context.Context
	EntityID int64
	MediumID int64
	SourceID int64
} {
	var calls []struct {
		Ctx      context.Context
		EntityID int64
		MediumID int64
		SourceID int64
	}
	mock.lockDeleteUnsubscription.RLock()
	calls = mock.calls.DeleteUnsubscription
	mock.lockDeleteUnsubscription.RUnlock()
	return calls
}
