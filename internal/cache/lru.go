// Servicebridge - Services Marketplace Recommendation and Analytics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/servicebridge

package cache

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/tomtom215/servicebridge/internal/config"
	"github.com/tomtom215/servicebridge/internal/metrics"
)

// lruEntry is a node of the recency list.
type lruEntry struct {
	key       string
	value     []byte
	prev      *lruEntry
	next      *lruEntry
	expiresAt time.Time
}

// MemoryStore is a thread-safe LRU cache with per-entry expiry.
// Get, Set and eviction are O(1); DeletePrefix is O(n).
//
// The recency list uses sentinel head and tail nodes: head.next is the most
// recently used entry, tail.prev the least recently used.
type MemoryStore struct {
	mu sync.Mutex

	capacity int
	ttl      time.Duration
	items    map[string]*lruEntry
	head     *lruEntry
	tail     *lruEntry
	now      func() time.Time

	hits      int64
	misses    int64
	evictions int64
}

// MemoryStats is a snapshot of MemoryStore counters.
type MemoryStats struct {
	Hits      int64
	Misses    int64
	Evictions int64
	Entries   int
}

// NewMemoryStore creates an LRU store holding at most capacity entries.
func NewMemoryStore(capacity int, ttl time.Duration) *MemoryStore {
	if capacity <= 0 {
		capacity = 10000
	}
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}

	s := &MemoryStore{
		capacity: capacity,
		ttl:      ttl,
		items:    make(map[string]*lruEntry, capacity),
		head:     &lruEntry{},
		tail:     &lruEntry{},
		now:      time.Now,
	}
	s.head.next = s.tail
	s.tail.prev = s.head
	return s
}

// Name implements Store.
func (s *MemoryStore) Name() string { return config.CacheMemory }

// Get implements Store. Hits move the entry to the front.
func (s *MemoryStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, exists := s.items[key]
	if exists && s.now().After(entry.expiresAt) {
		s.removeEntry(entry)
		s.evictions++
		exists = false
	}
	if !exists {
		s.misses++
		metrics.RecordCacheLookup(config.CacheMemory, false)
		return nil, false, nil
	}

	s.moveToFront(entry)
	s.hits++
	metrics.RecordCacheLookup(config.CacheMemory, true)
	return entry.value, true, nil
}

// Set implements Store. The least recently used entry is evicted when the
// store is full.
func (s *MemoryStore) Set(_ context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	expiresAt := s.now().Add(s.ttl)
	if entry, exists := s.items[key]; exists {
		entry.value = value
		entry.expiresAt = expiresAt
		s.moveToFront(entry)
		return nil
	}

	entry := &lruEntry{key: key, value: value, expiresAt: expiresAt}
	s.addToFront(entry)
	s.items[key] = entry

	for len(s.items) > s.capacity {
		s.evictOldest()
	}
	return nil
}

// DeletePrefix implements Store.
func (s *MemoryStore) DeletePrefix(_ context.Context, prefix string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for key, entry := range s.items {
		if strings.HasPrefix(key, prefix) {
			s.removeEntry(entry)
			removed++
		}
	}
	return removed, nil
}

// Clear implements Store.
func (s *MemoryStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.evictions += int64(len(s.items))
	s.items = make(map[string]*lruEntry, s.capacity)
	s.head.next = s.tail
	s.tail.prev = s.head
	return nil
}

// Close implements Store.
func (s *MemoryStore) Close() error { return nil }

// CleanupExpired removes all expired entries and returns how many were removed.
func (s *MemoryStore) CleanupExpired() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	removed := 0
	for entry := s.tail.prev; entry != s.head; {
		prev := entry.prev
		if now.After(entry.expiresAt) {
			s.removeEntry(entry)
			removed++
		}
		entry = prev
	}
	s.evictions += int64(removed)
	return removed
}

// Stats returns a snapshot of the store counters.
func (s *MemoryStore) Stats() MemoryStats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return MemoryStats{Hits: s.hits, Misses: s.misses, Evictions: s.evictions, Entries: len(s.items)}
}

// Internal methods (must be called with lock held)

func (s *MemoryStore) addToFront(entry *lruEntry) {
	entry.prev = s.head
	entry.next = s.head.next
	s.head.next.prev = entry
	s.head.next = entry
}

func (s *MemoryStore) moveToFront(entry *lruEntry) {
	entry.prev.next = entry.next
	entry.next.prev = entry.prev
	s.addToFront(entry)
}

func (s *MemoryStore) removeEntry(entry *lruEntry) {
	entry.prev.next = entry.next
	entry.next.prev = entry.prev
	delete(s.items, entry.key)
}

func (s *MemoryStore) evictOldest() {
	oldest := s.tail.prev
	if oldest == s.head {
		return
	}
	s.removeEntry(oldest)
	s.evictions++
}
