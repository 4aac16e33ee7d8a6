// Copyright (c) 2025 Tsukkomi Project.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package client

import "sync"

// Feature identifies which per-answer state a cache entry holds.
type Feature string

const (
	FeatureFavorite Feature = "favorite"
	FeatureVote     Feature = "vote"
	FeatureComment  Feature = "comment"
)

// Key addresses one cached state slice. Actor is the effective profile
// ID for per-actor features (favorite, vote) and empty for shared ones
// (comments).
type Key struct {
	Feature  Feature
	AnswerID string
	Actor    string
}

// Snapshot is a point-in-time copy of a cache entry, including whether
// the entry existed at all. It is the unit of rollback.
type Snapshot struct {
	Key     Key
	Value   any
	Present bool
}

type entry struct {
	value any
	stale bool
}

// Cache holds feature state keyed by (feature, answer, actor). Every
// write bumps a per-key sequence number; rollbacks carry the sequence
// observed at write time and are dropped when a newer write has
// superseded them. Sequences survive entry deletion so a rollback that
// removes an entry cannot be confused with the key never having been
// written.
type Cache struct {
	mu      sync.Mutex
	entries map[Key]entry
	seqs    map[Key]uint64
}

func NewCache() *Cache {
	return &Cache{
		entries: make(map[Key]entry),
		seqs:    make(map[Key]uint64),
	}
}

// Get returns the cached value for key. Stale entries are still
// returned; staleness only signals that a refetch should replace them.
func (c *Cache) Get(key Key) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	return e.value, true
}

// Set writes value under key, clears any stale mark, and returns the
// new sequence number. Callers performing an optimistic write keep the
// returned tag to guard their rollback.
func (c *Cache) Set(key Key, value any) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.seqs[key]++
	c.entries[key] = entry{value: value}
	return c.seqs[key]
}

// Capture snapshots the current entry for key, for a later RestoreIf.
func (c *Cache) Capture(key Key) Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	if !ok {
		return Snapshot{Key: key}
	}
	return Snapshot{Key: key, Value: e.value, Present: true}
}

// RestoreIf rolls the entry back to snap, but only when the key's
// current sequence still equals tag. A mismatch means a newer write
// landed after the snapshot was taken; restoring would clobber fresher
// state, so the rollback is dropped and RestoreIf returns false.
func (c *Cache) RestoreIf(snap Snapshot, tag uint64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.seqs[snap.Key] != tag {
		return false
	}
	c.seqs[snap.Key]++
	if snap.Present {
		c.entries[snap.Key] = entry{value: snap.Value}
	} else {
		delete(c.entries, snap.Key)
	}
	return true
}

// Invalidate marks the entry under key as stale. The value stays
// readable until a refetch replaces it.
func (c *Cache) Invalidate(key Key) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	if !ok {
		return
	}
	e.stale = true
	c.entries[key] = e
}

// IsStale reports whether key holds an entry marked for refetch.
func (c *Cache) IsStale(key Key) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.entries[key].stale
}

// Seq returns the current sequence number for key (zero when the key
// was never written).
func (c *Cache) Seq(key Key) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.seqs[key]
}
