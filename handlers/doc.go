// Copyright (c) 2025 Tsukkomi Project.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the Tsukkomi API.

# Handler Types

Each handler is a struct with store and config dependencies:

  - ActionHandler: the mutation dispatch endpoint (favorite/vote/comment)
  - UserDataHandler: per-profile votes and favorites
  - TopicHandler: topic listing/creation and answer submission
  - CommentHandler: comment listing
  - UserHandler: profile listing
  - ResultsHandler: per-topic answer rankings

Handlers are created via constructor functions that accept a
store.Store and Config:

	actionHandler := handlers.NewActionHandler(st, limiter, cfg)

# Action Dispatch

POST /actions carries a form payload classified into exactly one
intent; first match wins:

	op=toggle        → toggle favorite (answerId, profileId)
	level present    → vote (answerId, level, userId); level 0 clears
	text, no op      → comment (answerId, text, profileId)

The dispatcher consults the rate limiter (keyed by acting identity)
before any store call. Missing fields are terminal 400s; exhausted
buckets are terminal 429s with {"ok":false,"error":"rate_limited"};
store failures map to 500 with {"ok":false,"error":...}.

# Rankings

RankAnswers orders a topic's answers by weighted vote score, breaking
ties by favorite count and then answer ID:

	rankings := handlers.RankAnswers(stats)

# User Data

GET /user-data seeds client caches: votes and favorites for one
profile across a set of answers. Store failures still return the empty
shape plus an error field so clients need no special case.
*/
package handlers
