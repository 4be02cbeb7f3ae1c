// Package cache provides the process-wide evidence cache.
//
// Entries expire after a TTL and the cache holds at most a fixed number of entries,
// evicting the least recently used one on overflow. Recency is refreshed on both reads
// and writes. GetOrCompute coalesces concurrent misses for the same key so identical
// in-flight lookups reach the upstream only once.
package cache

import (
	"container/list"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

const (
	DefaultTTL      = 7 * 24 * time.Hour
	DefaultCapacity = 1000
)

// Cache is a thread-safe TTL + LRU cache.
type Cache[V any] struct {
	mu       sync.Mutex
	ttl      time.Duration
	capacity int
	list     *list.List
	items    map[string]*list.Element
	group    singleflight.Group
	now      func() time.Time

	hits   uint64
	misses uint64
}

type entry[V any] struct {
	key       string
	value     V
	createdAt time.Time
}

type Stats struct {
	Size   int    `json:"size"`
	Hits   uint64 `json:"hits"`
	Misses uint64 `json:"misses"`
}

type Option[V any] func(*Cache[V])

// WithClock replaces time.Now; tests use it to age entries.
func WithClock[V any](now func() time.Time) Option[V] {
	return func(c *Cache[V]) {
		c.now = now
	}
}

func New[V any](ttl time.Duration, capacity int, opts ...Option[V]) *Cache[V] {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	c := &Cache[V]{
		ttl:      ttl,
		capacity: capacity,
		list:     list.New(),
		items:    make(map[string]*list.Element, capacity),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// TripleKey lowercases and trims each part so case-only differences share an entry.
func TripleKey(head, relation, tail string) string {
	return norm(head) + "||" + norm(relation) + "||" + norm(tail)
}

func norm(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Get returns the value when present and not older than the TTL. Expired entries are removed.
func (c *Cache[V]) Get(key string) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var zero V
	elem, ok := c.items[key]
	if !ok {
		c.misses++
		return zero, false
	}
	e := elem.Value.(*entry[V])
	if c.now().Sub(e.createdAt) > c.ttl {
		c.removeElement(elem)
		c.misses++
		return zero, false
	}
	c.list.MoveToFront(elem)
	c.hits++
	return e.value, true
}

// Set inserts or replaces a value, resetting its age.
func (c *Cache[V]) Set(key string, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.items[key]; ok {
		e := elem.Value.(*entry[V])
		e.value = value
		e.createdAt = c.now()
		c.list.MoveToFront(elem)
		return
	}

	elem := c.list.PushFront(&entry[V]{key: key, value: value, createdAt: c.now()})
	c.items[key] = elem
	for c.list.Len() > c.capacity {
		c.removeElement(c.list.Back())
	}
}

// GetOrCompute returns the cached value or runs compute once per key across concurrent
// callers and stores its result. Errors are returned to every waiter and not cached.
func (c *Cache[V]) GetOrCompute(key string, compute func() (V, error)) (V, error) {
	if v, ok := c.Get(key); ok {
		return v, nil
	}
	v, err, _ := c.group.Do(key, func() (interface{}, error) {
		// a concurrent flight for the same key may have just finished
		if v, ok := c.peek(key); ok {
			return v, nil
		}
		v, err := compute()
		if err != nil {
			return v, err
		}
		c.Set(key, v)
		return v, nil
	})
	if err != nil {
		var zero V
		return zero, err
	}
	return v.(V), nil
}

func (c *Cache[V]) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if elem, ok := c.items[key]; ok {
		c.removeElement(elem)
	}
}

func (c *Cache[V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.list.Len()
}

func (c *Cache[V]) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Stats{Size: c.list.Len(), Hits: c.hits, Misses: c.misses}
}

// peek reads without touching statistics.
func (c *Cache[V]) peek(key string) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	var zero V
	elem, ok := c.items[key]
	if !ok {
		return zero, false
	}
	e := elem.Value.(*entry[V])
	if c.now().Sub(e.createdAt) > c.ttl {
		return zero, false
	}
	return e.value, true
}

func (c *Cache[V]) removeElement(elem *list.Element) {
	e := elem.Value.(*entry[V])
	delete(c.items, e.key)
	c.list.Remove(elem)
}
