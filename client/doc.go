// Copyright (c) 2025 Tsukkomi Project.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package client implements the optimistic mutation layer for Tsukkomi
interactions: favorite toggles, numeric votes, and comments.

# Design

Every interaction follows the same lifecycle, expressed by the generic
Mutation type:

 1. OnMutate snapshots the cached state, applies the optimistic
    transform, and records the sequence tag of that write.
 2. MutateFn posts the form payload to the action endpoint.
 3. OnSuccess keeps the optimistic value (no flicker); comments
    additionally schedule a delayed refetch of server truth.
 4. OnError rolls the cache back to the snapshot, but only if no
    newer write superseded it, then marks the entry stale.

The sequence-tag guard is what makes interleaved submissions safe: an
error response belonging to an old request cannot clobber the state a
newer successful request produced.

# Cache

Cache entries are keyed by (feature, answer, actor). Favorite and vote
state is per-actor; comment lists are shared (empty actor). Sequence
numbers are tracked per key and survive entry deletion.

# Identity and Failure Routing

Mutations resolve the acting profile through identity.Resolver (the
sub-profile wins when one is selected). With no identity resolved the
client navigates to the login path and performs no network call.

Failures route by class: 401 navigates to login, 5xx propagates to the
caller's error boundary, everything else (network, 429, decode) rolls
back and emits a transient inline notice through the Notifier.

# Usage

	resolver := identity.NewResolver(storage)
	c := client.New(resolver, nav, notif, client.Options{BaseURL: base})
	cache := client.NewCache()

	fav := client.NewFavoriteControl(c, cache, answerID)
	state, err := fav.Toggle(ctx)

	vote := client.NewVoteControl(c, cache, answerID)
	state, err := vote.Select(ctx, 2) // selecting 2 again clears

	comments := client.NewCommentSection(c, cache, answerID)
	comment, err := comments.Submit(ctx, "なるほど")
*/
package client
