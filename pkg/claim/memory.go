package claim

import (
	"context"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

const memoryCapacity = 10000

type memoryStore struct {
	mu     sync.Mutex
	claims *expirable.LRU[string, time.Time]
	now    func() time.Time
}

// NewMemoryStore returns an in-process Store. Only correct for one replica.
// Entries live at most maxTTL in the cache; a shorter claim TTL is checked
// against the stored deadline.
func NewMemoryStore(maxTTL time.Duration) Store {
	return &memoryStore{
		claims: expirable.NewLRU[string, time.Time](memoryCapacity, nil, maxTTL),
		now:    time.Now,
	}
}

func (s *memoryStore) Claim(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if deadline, ok := s.claims.Get(key); ok && now.Before(deadline) {
		return false, nil
	}
	s.claims.Add(key, now.Add(ttl))
	return true, nil
}

func (s *memoryStore) Release(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.claims.Remove(key)
	return nil
}
