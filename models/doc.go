// Copyright (c) 2025 Tsukkomi Project.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines request, response, and domain types for the API.

# Domain Types

  - UserProfile: an account, optionally with child SubProfiles
  - Topic: a question/theme that collects answers
  - Answer: a submission under a topic
  - Comment: a comment on an answer
  - VoteCounts: per-level (1-3) vote tallies for an answer
  - AnswerStats: aggregated results for topic rankings

# Intents

Intent is the tagged union produced by the action dispatcher's
classifier from a raw form payload:

	IntentToggleFavorite  op=toggle      requires answerId, profileId
	IntentVote            level present  requires answerId, level, userId
	IntentComment         text present   requires answerId, text, profileId

Level 0 is a valid vote value meaning "clear my vote"; it must not be
rejected as missing.

# Wire Shapes

Action endpoint responses carry an "ok" flag:

	200 {"ok":true, ...result}
	429 {"ok":false, "error":"rate_limited"}
	500 {"ok":false, "error":"..."}

Malformed payloads use ErrorResponse (400):

	{"error":"Bad Request", "message":"answerId is required"}

# Error Taxonomy

Typed errors with errors.As helpers:

  - ValidationError: malformed intent fields (400)
  - RateLimitError: bucket exhausted (429)
  - ServerError: data-store failure (500)

Client-side errors (AuthError, NetworkError) live in the client package.
*/
package models
