package session

import (
	"context"
	"time"

	"github.com/jellydator/ttlcache/v3"
)

// MemoryStore keeps records in process memory and evicts them on expiry.
type MemoryStore struct {
	cache *ttlcache.Cache[string, *Record]
	ttl   time.Duration
}

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	cache := ttlcache.New[string, *Record](
		ttlcache.WithTTL[string, *Record](ttl),
		ttlcache.WithDisableTouchOnHit[string, *Record](),
	)
	go cache.Start()
	return &MemoryStore{cache: cache, ttl: ttl}
}

func (s *MemoryStore) Get(_ context.Context, id string) (*Record, error) {
	item := s.cache.Get(id)
	if item == nil || item.IsExpired() {
		return nil, ErrNotFound
	}
	return item.Value().clone(), nil
}

func (s *MemoryStore) Save(_ context.Context, rec *Record) error {
	ttl := s.ttl
	if !rec.ExpiresAt.IsZero() {
		ttl = time.Until(rec.ExpiresAt)
		if ttl <= 0 {
			s.cache.Delete(rec.ID)
			return nil
		}
	}
	s.cache.Set(rec.ID, rec.clone(), ttl)
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.cache.Delete(id)
	return nil
}

func (s *MemoryStore) Close() error {
	s.cache.Stop()
	return nil
}

// Len is the number of live records.
func (s *MemoryStore) Len() int {
	return s.cache.Len()
}
