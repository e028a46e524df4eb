package session

import (
	"context"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"
)

// CacheStore is an in-memory store whose sessions expire after ttl without activity.
type CacheStore struct {
	// go-cache is safe for concurrent use, but read-modify-write of a
	// session needs to be atomic.
	mu         sync.Mutex
	cache      *cache.Cache
	ttl        time.Duration
	maxHistory int
}

func NewCacheStore(ttl time.Duration, maxHistory int) *CacheStore {
	cleanup := ttl / 6
	if cleanup < time.Second {
		cleanup = time.Second
	}
	return &CacheStore{
		cache:      cache.New(ttl, cleanup),
		ttl:        ttl,
		maxHistory: maxHistory,
	}
}

func (c *CacheStore) GetOrCreate(_ context.Context, id string) (*Session, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := c.getOrCreateLocked(id)
	c.cache.Set(id, s, c.ttl)
	return s.clone(), nil
}

func (c *CacheStore) Get(_ context.Context, id string) (*Session, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	x, found := c.cache.Get(id)
	if !found {
		return nil, nil
	}
	return x.(*Session).clone(), nil
}

func (c *CacheStore) SetOrder(_ context.Context, id, orderID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := c.getOrCreateLocked(id)
	s.OrderID = orderID
	s.UpdatedAt = time.Now()
	c.cache.Set(id, s, c.ttl)
	return nil
}

func (c *CacheStore) Append(_ context.Context, id string, ex Exchange) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := c.getOrCreateLocked(id)
	s.History = appendCapped(s.History, ex, c.maxHistory)
	s.UpdatedAt = time.Now()
	c.cache.Set(id, s, c.ttl)
	return nil
}

func (c *CacheStore) getOrCreateLocked(id string) *Session {
	if x, found := c.cache.Get(id); found {
		return x.(*Session)
	}
	return newSession(id, time.Now())
}

func (c *CacheStore) Close() error {
	c.cache.Flush()
	return nil
}
