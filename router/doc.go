// Copyright (c) 2025 Tsukkomi Project.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the Tsukkomi API.

# Route Registration

NewRouter creates a configured http.ServeMux with all endpoints:

	mux := router.NewRouter(st, limiter, cfg)

# Endpoints

Health:

	GET /health

Mutations (rate limited, form payload):

	POST /actions - favorite toggle, numeric vote, or comment

Cache seeding:

	GET /user-data?profileId=...&answerIds=... - votes and favorites

Topics and answers:

	GET  /topics               - List topics
	POST /topics               - Create topic
	GET  /topics/{id}          - Topic with answers
	POST /topics/{id}/answers  - Submit answer
	GET  /topics/{id}/results  - Ranked answer statistics

Comments:

	GET /answers/{id}/comments

Users:

	GET /users - Profiles with sub-profiles

# Handler Initialization

The router creates handler instances with dependency injection:

	actionHandler := handlers.NewActionHandler(st, limiter, cfg)

All handlers receive the store interface and configuration; only the
action handler receives the rate limiter.
*/
package router
