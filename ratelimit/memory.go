// Copyright (c) 2025 Tsukkomi Project.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package ratelimit

import "sync"

// MemoryStore keeps buckets in a mutex-guarded map. Buckets are
// created lazily on first use and never explicitly destroyed; the map
// lives for the process lifetime and resets on restart.
type MemoryStore struct {
	mu      sync.Mutex
	buckets map[string]Bucket
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{buckets: make(map[string]Bucket)}
}

func (s *MemoryStore) Get(key string) (Bucket, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.buckets[key]
	return b, ok, nil
}

func (s *MemoryStore) Set(key string, b Bucket) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.buckets[key] = b
	return nil
}

// Len returns the number of tracked keys. Diagnostics only.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.buckets)
}
