package catalog

import (
	"sync"
)

var _ registry = &registryMock{}

type registryMock struct {
	HasFetcherFunc func(kind string) bool
	HasLoaderFunc  func(name string) bool

	calls struct {
		HasFetcher []struct {
			Kind string
		}
		HasLoader []struct {
			Name string
		}
	}
	lockHasFetcher sync.RWMutex
	lockHasLoader  sync.RWMutex
}

func (mock *registryMock) HasFetcher(kind string) bool {
	if mock.HasFetcherFunc == nil {
		panic("registryMock.HasFetcherFunc: method is nil but registry.HasFetcher was just called")
	}
	callInfo := struct {
		Kind string
	}{
		Kind: kind,
	}
	mock.lockHasFetcher.Lock()
	mock.calls.HasFetcher = append(mock.calls.HasFetcher, callInfo)
	mock.lockHasFetcher.Unlock()
	return mock.HasFetcherFunc(kind)
}

func (mock *registryMock) HasFetcherCalls() []struct {
	Kind string
} {
	var calls []struct {
		Kind string
	}
	mock.lockHasFetcher.RLock()
	calls = mock.calls.HasFetcher
	mock.lockHasFetcher.RUnlock()
	return calls
}

func (mock *registryMock) HasLoader(name string) bool {
	if mock.HasLoaderFunc == nil {
		panic("registryMock.HasLoaderFunc: method is nil but registry.HasLoader was just called")
	}
	callInfo := struct {
		Name string
	}{
		Name: name,
	}
	mock.lockHasLoader.Lock()
	mock.calls.HasLoader = append(mock.calls.HasLoader, callInfo)
	mock.lockHasLoader.Unlock()
	return mock.HasLoaderFunc(name)
}

func (mock *registryMock) HasLoaderCalls() []struct {
	Name string
} {
	var calls []struct {
		Name string
	}
	mock.lockHasLoader.RLock()
	calls = mock.calls.HasLoader
	mock.lockHasLoader.RUnlock()
	return calls
}
