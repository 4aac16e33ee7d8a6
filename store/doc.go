// Copyright (c) 2025 Tsukkomi Project.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package store provides the data-access layer behind the handlers.

# The Store Interface

Handlers depend on the Store interface, never on a concrete backend.
All operations are context-first with explicit error returns:

	users, err := st.GetUsers(ctx)
	result, err := st.ToggleFavorite(ctx, answerID, profileID)
	result, err := st.VoteAnswer(ctx, answerID, profileID, level)

# SQLStore

The production implementation over database/sql. Works on PostgreSQL
(lib/pq) and SQLite (modernc.org/sqlite); the SQL avoids anything one
of them lacks. Placeholders are $N, each used exactly once in
increasing order so positional argument binding agrees across both
drivers.

Vote semantics: level 1-3 upserts via ON CONFLICT on the
(answer_id, profile_id) primary key; level 0 deletes the row. Favorite
toggles run in a transaction so the returned count matches the write.

# MemStore

A mutex-guarded in-memory implementation for tests and local
development, with Seed* helpers and FailWith(err) to force failures
when exercising 500 paths.

# Errors

ErrNotFound is returned for missing entities; everything else is a
wrapped driver error the handlers surface as a ServerError.
*/
package store
