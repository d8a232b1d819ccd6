// Package cache provides a generic, thread-safe LRU memo for results that
// are expensive to compute and repeat across definitions.
package cache

import (
	"container/list"
	"sync"
	"sync/atomic"
)

// DefaultCapacity is used when New is given a non-positive capacity.
const DefaultCapacity = 256

// Cache is a generic thread-safe LRU cache. It remembers failed loads as
// well as successful ones, so a bad input is only processed once.
type Cache[K comparable, V any] struct {
	mu       sync.Mutex
	items    map[K]*list.Element
	order    *list.List
	capacity int

	hits   atomic.Uint64
	misses atomic.Uint64
	evicts atomic.Uint64
}

// entry holds a cached outcome.
type entry[K comparable, V any] struct {
	key   K
	value V
	err   error
}

// New creates a new Cache with the specified capacity.
func New[K comparable, V any](capacity int) *Cache[K, V] {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Cache[K, V]{
		items:    make(map[K]*list.Element, capacity),
		order:    list.New(),
		capacity: capacity,
	}
}

func (c *Cache[K, V]) lookup(key K) (entry[K, V], bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.items[key]
	if !ok {
		c.misses.Add(1)
		return entry[K, V]{}, false
	}
	c.hits.Add(1)
	c.order.MoveToFront(el)
	return *el.Value.(*entry[K, V]), true
}

// GetOrLoad returns the cached outcome for key, calling load on a miss.
// load runs outside the lock; concurrent misses for the same key may both
// call it and the last result wins.
func (c *Cache[K, V]) GetOrLoad(key K, load func() (V, error)) (V, error) {
	if e, ok := c.lookup(key); ok {
		return e.value, e.err
	}

	v, err := load()

	c.mu.Lock()
	c.store(key, v, err)
	c.mu.Unlock()

	return v, err
}

// store must be called with mu held.
func (c *Cache[K, V]) store(key K, value V, err error) {
	if el, ok := c.items[key]; ok {
		e := el.Value.(*entry[K, V])
		e.value, e.err = value, err
		c.order.MoveToFront(el)
		return
	}

	if len(c.items) >= c.capacity {
		c.evictOldest()
	}

	c.items[key] = c.order.PushFront(&entry[K, V]{key: key, value: value, err: err})
}

// evictOldest must be called with mu held.
func (c *Cache[K, V]) evictOldest() {
	oldest := c.order.Back()
	if oldest == nil {
		return
	}
	delete(c.items, oldest.Value.(*entry[K, V]).key)
	c.order.Remove(oldest)
	c.evicts.Add(1)
}

// Len returns the current number of items in the cache.
func (c *Cache[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

// Stats holds cache statistics.
type Stats struct {
	Size     int
	Capacity int
	Hits     uint64
	Misses   uint64
	Evicts   uint64
}

// HitRate returns hits over lookups, or 0 before the first lookup.
func (s Stats) HitRate() float64 {
	total := s.Hits + s.Misses
	if total == 0 {
		return 0
	}
	return float64(s.Hits) / float64(total)
}

// Stats returns cache statistics.
func (c *Cache[K, V]) Stats() Stats {
	return Stats{
		Size:     c.Len(),
		Capacity: c.capacity,
		Hits:     c.hits.Load(),
		Misses:   c.misses.Load(),
		Evicts:   c.evicts.Load(),
	}
}
