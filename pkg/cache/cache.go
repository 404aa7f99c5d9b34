/*
 * Copyright 2026 The SOLV Authors. All rights reserved.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package cache provides an expiring LRU cache with hit statistics.
package cache

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// Stats holds cache statistics.
type Stats struct {
	hits   atomic.Int64
	misses atomic.Int64
}

// Hits returns the number of cache hits.
func (s *Stats) Hits() int64 {
	return s.hits.Load()
}

// Misses returns the number of cache misses.
func (s *Stats) Misses() int64 {
	return s.misses.Load()
}

// HitRate returns the cache hit rate as a percentage (0-100).
func (s *Stats) HitRate() float64 {
	total := s.Hits() + s.Misses()
	if total == 0 {
		return 0.0
	}
	return float64(s.Hits()) / float64(total) * 100.0
}

// ExpireCache is a size bounded LRU whose entries expire after a TTL.
type ExpireCache[K comparable, V any] struct {
	lru   *expirable.LRU[K, V]
	stats *Stats
	name  string
}

// NewExpireCache creates a cache holding at most size entries for ttl each.
func NewExpireCache[K comparable, V any](size int, ttl time.Duration, name string) (*ExpireCache[K, V], error) {
	if size <= 0 {
		return nil, fmt.Errorf("cache %s: size must be positive, given %d", name, size)
	}

	return &ExpireCache[K, V]{
		lru:   expirable.NewLRU[K, V](size, nil, ttl),
		stats: &Stats{},
		name:  name,
	}, nil
}

// Get returns the live value of key and records a hit or a miss.
func (c *ExpireCache[K, V]) Get(key K) (V, bool) {
	value, ok := c.lru.Get(key)
	if ok {
		c.stats.hits.Add(1)
	} else {
		c.stats.misses.Add(1)
	}
	return value, ok
}

// Add stores value under key, returning true if an entry was evicted.
func (c *ExpireCache[K, V]) Add(key K, value V) bool {
	return c.lru.Add(key, value)
}

// GetOrLoad returns the cached value of key, calling load and caching its
// result on a miss. Errors of load are not cached.
func (c *ExpireCache[K, V]) GetOrLoad(key K, load func() (V, error)) (V, error) {
	if value, ok := c.Get(key); ok {
		return value, nil
	}

	value, err := load()
	if err != nil {
		var zero V
		return zero, err
	}
	c.Add(key, value)

	return value, nil
}

// Len returns the number of items in the cache.
func (c *ExpireCache[K, V]) Len() int {
	return c.lru.Len()
}

// Stats returns the cache statistics.
func (c *ExpireCache[K, V]) Stats() *Stats {
	return c.stats
}

// Name returns the cache name.
func (c *ExpireCache[K, V]) Name() string {
	return c.name
}
