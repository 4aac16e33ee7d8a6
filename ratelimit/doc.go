// Copyright (c) 2025 Tsukkomi Project.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package ratelimit implements a token-bucket rate limiter keyed by
actor identity, gating the action dispatch endpoint.

# Usage

	limiter := ratelimit.New(5, 1, ratelimit.NewMemoryStore())
	if !limiter.Consume(profileID, 1) {
		// reject with HTTP 429
	}

Each key's bucket starts full (capacity tokens) and refills at
refillPerSec, capped at capacity. Consume debits when enough tokens
are available and reports false otherwise.

# Failure Policy

The limiter fails OPEN: store errors and internal panics allow the
request through. This is a deliberate tradeoff favoring availability
over strict enforcement.

# Deployment Limitation

MemoryStore is process-local and not persisted; a restart resets all
buckets, and multiple processes do not share state. The Store
interface exists so a shared backend can be injected for multi-process
deployments. Known limitation, not a defect.

# Testing

Inject a fake clock with WithNow to step time deterministically:

	now := time.Now()
	limiter := ratelimit.New(5, 1, store, ratelimit.WithNow(func() time.Time { return now }))
*/
package ratelimit
