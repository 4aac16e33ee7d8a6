// Copyright (c) 2025 Tsukkomi Project.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package ratelimit

import (
	"log/slog"
	"time"
)

// Bucket is the per-key token bucket state.
// Invariant: 0 <= Tokens <= capacity.
type Bucket struct {
	Tokens     float64
	LastRefill time.Time
}

// Store holds bucket state keyed by actor. The in-memory MemoryStore
// is the default; a distributed backend can be substituted without
// touching the limiter or the dispatcher.
type Store interface {
	Get(key string) (Bucket, bool, error)
	Set(key string, b Bucket) error
}

// Limiter is a token-bucket rate limiter keyed by arbitrary actor
// strings (profile id or hashed IP for anonymous actors).
type Limiter struct {
	capacity     float64
	refillPerSec float64
	store        Store
	now          func() time.Time
}

// Option configures a Limiter.
type Option func(*Limiter)

// WithNow overrides the clock. Tests use this to step time explicitly.
func WithNow(now func() time.Time) Option {
	return func(l *Limiter) { l.now = now }
}

// New creates a Limiter with the given capacity and refill rate
// (tokens per second) over the provided store.
func New(capacity, refillPerSec float64, store Store, opts ...Option) *Limiter {
	l := &Limiter{
		capacity:     capacity,
		refillPerSec: refillPerSec,
		store:        store,
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Consume attempts to debit cost tokens from the key's bucket,
// refilling by elapsed time first (capped at capacity). Returns false
// when the bucket holds fewer than cost tokens; the caller rejects the
// request, typically with HTTP 429.
//
// Fails OPEN: a store failure or internal panic allows the request.
// Availability wins over strict enforcement here; a limiter bug must
// never block all traffic.
func (l *Limiter) Consume(key string, cost float64) (allowed bool) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("rate limiter panic, failing open", "key", key, "panic", r)
			allowed = true
		}
	}()

	b, ok, err := l.store.Get(key)
	if err != nil {
		slog.Error("rate limiter store get failed, failing open", "key", key, "error", err)
		return true
	}

	now := l.now()
	if !ok {
		// Lazily created buckets start full.
		b = Bucket{Tokens: l.capacity, LastRefill: now}
	} else {
		elapsed := now.Sub(b.LastRefill).Seconds()
		if elapsed > 0 {
			b.Tokens += elapsed * l.refillPerSec
			if b.Tokens > l.capacity {
				b.Tokens = l.capacity
			}
			b.LastRefill = now
		}
	}

	if b.Tokens < cost {
		if err := l.store.Set(key, b); err != nil {
			slog.Error("rate limiter store set failed", "key", key, "error", err)
		}
		return false
	}

	b.Tokens -= cost
	if err := l.store.Set(key, b); err != nil {
		slog.Error("rate limiter store set failed, failing open", "key", key, "error", err)
		return true
	}
	return true
}

// Capacity returns the configured bucket capacity.
func (l *Limiter) Capacity() float64 { return l.capacity }
