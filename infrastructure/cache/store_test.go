package cache_test

import (
	"context"
	"strings"
	"sync"
	"time"

	"media-catalog/domain/model"
	"media-catalog/domain/repository"
)

// memoryStore is an in-process ICacheStore used to exercise the coordinator
// and registry without a Redis instance.
type memoryStore struct {
	mu      sync.Mutex
	entries map[string][]byte
}

func newMemoryStore() *memoryStore {
	return &memoryStore{entries: make(map[string][]byte)}
}

func (s *memoryStore) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	payload, ok := s.entries[key]
	if !ok {
		return nil, repository.ErrCacheMiss
	}
	return payload, nil
}

func (s *memoryStore) Set(_ context.Context, key string, payload []byte, _ time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = payload
	return nil
}

func (s *memoryStore) Delete(_ context.Context, keys ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, key := range keys {
		delete(s.entries, key)
	}
	return nil
}

func (s *memoryStore) DeleteByPrefix(_ context.Context, prefix string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	deleted := 0
	for key := range s.entries {
		if strings.HasPrefix(key, prefix) {
			delete(s.entries, key)
			deleted++
		}
	}
	return deleted, nil
}

func (s *memoryStore) contains(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.entries[key]
	return ok
}

// failingStore reports every operation as a store-communication failure
type failingStore struct{}

func (failingStore) Get(context.Context, string) ([]byte, error) {
	return nil, model.NewCacheUnavailableError(errUnavailable)
}

func (failingStore) Set(context.Context, string, []byte, time.Duration) error {
	return model.NewCacheUnavailableError(errUnavailable)
}

func (failingStore) Delete(context.Context, ...string) error {
	return model.NewCacheUnavailableError(errUnavailable)
}

func (failingStore) DeleteByPrefix(context.Context, string) (int, error) {
	return 0, model.NewCacheUnavailableError(errUnavailable)
}

var errUnavailable = context.DeadlineExceeded
