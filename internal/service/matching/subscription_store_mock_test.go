package matching

import (
	"context"
	"github.com/heartmarshall/entity-events/internal/domain"
	"sync"
)

var _ subscriptionStore = &subscriptionStoreMock{}

type subscriptionStoreMock struct {
	ListByMediumFunc            func(ctx context.Context, mediumID int64) ([]domain.Subscription, error)
	UnsubscriptionsByMediumFunc func(ctx context.Context, mediumID int64) ([]domain.Unsubscription, error)

	calls struct {
		ListByMedium []struct {
			Ctx      context.Context
			MediumID int64
		}
		UnsubscriptionsByMedium []struct {
			Ctx      context.Context
			MediumID int64
		}
	}
	lockListByMedium            sync.RWMutex
	lockUnsubscriptionsByMedium sync.RWMutex
}

func (mock *subscriptionStoreMock) ListByMedium(ctx context.Context, mediumID int64) ([]domain.Subscription, error) {
	if mock.ListByMediumFunc == nil {
		panic("subscriptionStoreMock.ListByMediumFunc: method is nil but subscriptionStore.ListByMedium was just called")
	}
	callInfo := struct {
		Ctx      context.Context
		MediumID int64
	}{
		Ctx:      ctx,
		MediumID: mediumID,
	}
	mock.lockListByMedium.Lock()
	mock.calls.ListByMedium = append(mock.calls.ListByMedium, callInfo)
	mock.lockListByMedium.Unlock()
	return mock.ListByMediumFunc(ctx, mediumID)
}

func (mock *subscriptionStoreMock) ListByMediumCalls() []struct {
	Ctx      context.Context
	MediumID int64
} {
	var calls []struct {
		Ctx      context.Context
		MediumID int64
	}
	mock.lockListByMedium.RLock()
	calls = mock.calls.ListByMedium
	mock.lockListByMedium.RUnlock()
	return calls
}

func (mock *subscriptionStoreMock) UnsubscriptionsByMedium(ctx context.Context, mediumID int64) ([]domain.Unsubscription, error) {
	if mock.UnsubscriptionsByMediumFunc == nil {
		panic("subscriptionStoreMock.UnsubscriptionsByMediumFunc: method is nil but subscriptionStore.UnsubscriptionsByMedium was just called")
	}
	callInfo := struct {
		Ctx      context.Context
		MediumID int64
	}{
		Ctx:      ctx,
		MediumID: mediumID,
	}
	mock.lockUnsubscriptionsByMedium.Lock()
	mock.calls.UnsubscriptionsByMedium = append(mock.calls.UnsubscriptionsByMedium, callInfo)
	mock.lockUnsubscriptionsByMedium.Unlock()
	return mock.UnsubscriptionsByMediumFunc(ctx, mediumID)
}

func (mock *subscriptionStoreMock) UnsubscriptionsByMediumCalls() []struct {
	Ctx      context.Context
	MediumID int64
} {
	var calls []struct {
		Ctx      context.Context
		MediumID int64
	}
	mock.lockUnsubscriptionsByMedium.RLock()
	calls = mock.calls.UnsubscriptionsByMedium
	mock.lockUnsubscriptionsByMedium.RUnlock()
	return calls
}
