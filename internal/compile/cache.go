// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package compile

import (
	"container/list"
	"sync"

	"github.com/patrickcd/dilemma/internal/resolver"
)

// defaultCacheCapacity is used when a non-positive capacity is requested.
const defaultCacheCapacity = 256

// entry is a cache entry stored in the doubly-linked list.
type entry struct {
	key  string
	expr *CompiledExpression
}

// Cache is a thread-safe LRU cache mapping expression source text to its
// CompiledExpression, used by the façade's one-shot Evaluate(source,
// context) to amortize parsing when the same source string recurs.
// Grounded on sandrolain-gosonata's pkg/cache/cache.go container/list-based
// LRU design, adapted from caching *types.Expression to
// *CompiledExpression.
type Cache struct {
	mu       sync.RWMutex
	capacity int
	ll       *list.List
	items    map[string]*list.Element
}

// NewCache creates a new LRU cache with the given capacity. capacity <= 0
// uses defaultCacheCapacity.
func NewCache(capacity int) *Cache {
	if capacity <= 0 {
		capacity = defaultCacheCapacity
	}
	return &Cache{
		capacity: capacity,
		ll:       list.New(),
		items:    make(map[string]*list.Element, capacity),
	}
}

// Get retrieves a compiled expression from the cache, promoting it to
// most-recently-used on a hit.
func (c *Cache) Get(key string) (*CompiledExpression, bool) {
	c.mu.RLock()
	el, ok := c.items[key]
	alreadyFront := ok && c.ll.Front() == el
	c.mu.RUnlock()
	if !ok {
		return nil, false
	}

	if !alreadyFront {
		c.mu.Lock()
		el, ok = c.items[key]
		if ok {
			c.ll.MoveToFront(el)
		}
		c.mu.Unlock()
		if !ok {
			return nil, false
		}
	}
	return el.Value.(*entry).expr, true
}

// Set inserts or replaces a compiled expression, evicting the least
// recently used entry first if at capacity.
func (c *Cache) Set(key string, expr *CompiledExpression) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.items[key]; ok {
		el.Value.(*entry).expr = expr
		c.ll.MoveToFront(el)
		return
	}
	if c.ll.Len() >= c.capacity {
		c.evictLocked()
	}
	el := c.ll.PushFront(&entry{key: key, expr: expr})
	c.items[key] = el
}

// GetOrCompile returns the cached CompiledExpression for source, or
// compiles, caches, and returns a new one. compile is called at most once
// per miss; a compile error is never cached (no negative caching).
func (c *Cache) GetOrCompile(source string, reg *resolver.Registry) (*CompiledExpression, error) {
	if expr, ok := c.Get(source); ok {
		return expr, nil
	}
	expr, err := Compile(source, reg)
	if err != nil {
		recordParseError(err)
		return nil, err
	}
	c.Set(source, expr)
	recordCacheSize(c.Len())
	return expr, nil
}

// Len returns the number of entries currently cached.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

// Clear removes every cached entry.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ll.Init()
	c.items = make(map[string]*list.Element, c.capacity)
}

func (c *Cache) evictLocked() {
	el := c.ll.Back()
	if el == nil {
		return
	}
	c.ll.Remove(el)
	delete(c.items, el.Value.(*entry).key)
}
