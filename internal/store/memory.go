package store

import (
	"context"
	"fmt"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

type memoryItem struct {
	value     string
	expiresAt time.Time
}

// MemoryTokenStore is a bounded in-process TokenStore for development and tests.
// The least recently used token is evicted once the store is full.
type MemoryTokenStore struct {
	mu    sync.Mutex
	cache *lru.Cache[string, memoryItem]
	now   func() time.Time
}

func NewMemoryTokenStore(size int) (*MemoryTokenStore, error) {
	cache, err := lru.New[string, memoryItem](size)
	if err != nil {
		return nil, fmt.Errorf("failed to create token cache: %w", err)
	}
	return &MemoryTokenStore{cache: cache, now: time.Now}, nil
}

func (s *MemoryTokenStore) Set(_ context.Context, key, value string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cache.Add(key, memoryItem{value: value, expiresAt: s.now().Add(ttl)})
	return nil
}

func (s *MemoryTokenStore) Get(_ context.Context, key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	item, ok := s.cache.Get(key)
	if !ok {
		return "", ErrTokenNotFound
	}
	if !s.now().Before(item.expiresAt) {
		s.cache.Remove(key)
		return "", ErrTokenNotFound
	}
	return item.value, nil
}

func (s *MemoryTokenStore) Take(_ context.Context, key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	item, ok := s.cache.Peek(key)
	if !ok {
		return "", ErrTokenNotFound
	}
	s.cache.Remove(key)
	if !s.now().Before(item.expiresAt) {
		return "", ErrTokenNotFound
	}
	return item.value, nil
}

func (s *MemoryTokenStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cache.Remove(key)
	return nil
}
