package session

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// MemoryStore keeps session keys in process memory.
type MemoryStore struct {
	cache *gocache.Cache
}

// NewMemoryStore creates an in-memory store. Entries never expire on their
// own; a ttl > 0 bounds how long an abandoned session lingers.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	expiration := gocache.NoExpiration
	cleanup := time.Duration(0)
	if ttl > 0 {
		expiration = ttl
		cleanup = ttl
	}
	return &MemoryStore{cache: gocache.New(expiration, cleanup)}
}

func (s *MemoryStore) Get(_ context.Context, key string) (string, bool, error) {
	data, found := s.cache.Get(key)
	if !found {
		return "", false, nil
	}
	value, ok := data.(string)
	if !ok {
		s.cache.Delete(key)
		return "", false, nil
	}
	return value, true, nil
}

func (s *MemoryStore) Set(_ context.Context, key, value string) error {
	s.cache.SetDefault(key, value)
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, keys ...string) error {
	for _, key := range keys {
		s.cache.Delete(key)
	}
	return nil
}
