// Copyright (c) 2025 Tsukkomi Project.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the Tsukkomi API server.

Tsukkomi is a community Q&A service: users post topics, submit
answers, vote on them numerically (levels 1-3), favorite them, and
comment. The server exposes the mutation dispatch endpoint the client
library's optimistic hooks talk to, plus read endpoints for topics,
answers, comments, users, and results.

# Starting the Server

The server requires environment variables or CLI flags for
configuration (a .env file is honored):

	DATABASE_URL=file:tsukkomi.db IP_HASH_SALT=... go run main.go

Or with flags:

	go run main.go -p 3551 -d "postgres://..." -t postgres -ip-salt ...

# Configuration

Required settings:

  - DATABASE_URL (-d): Connection string
  - IP_HASH_SALT (--ip-salt): Secret for anonymous actor hashing

Optional settings:

  - PORT (-p): Server port (default: 3551)
  - DATABASE_TYPE (-t): sqlite (default) or postgres
  - RATE_LIMIT_CAPACITY / RATE_LIMIT_REFILL_PER_SEC: action rate limit

# Architecture

The server uses a handler-based architecture with dependency injection:

  - handlers: HTTP request handlers (actions, user-data, topics, results)
  - router: Route definitions using Go 1.22+ routing
  - store: Data-access layer (SQL or in-memory) behind an interface
  - ratelimit: Token-bucket limiter over an injectable bucket store
  - middleware: CORS, logging, JSON and form helpers
  - models: Request/response types and the intent union
  - identity: Persisted acting identity (used by the client library)
  - client: Optimistic-update client with rollback reconciliation
  - db: Schema creation
  - cliparse: Configuration parsing

See package documentation for each component.
*/
package main
