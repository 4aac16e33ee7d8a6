// Copyright (c) 2025 Tsukkomi Project.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package middleware provides HTTP middleware and helper functions.

# Request Logging

Wrap handlers with request logging:

	mux.HandleFunc("GET /health", middleware.WithLogging(handler))

Logs request start (method, path, remote) and completion (duration_ms).

# CORS Middleware

Enable cross-origin requests for frontend access:

	server := http.Server{
		Handler: middleware.CORS(mux),
	}

# JSON Helpers

Write JSON responses:

	middleware.JSONResponse(w, http.StatusOK, data)
	middleware.ErrorResponse(w, http.StatusBadRequest, "message")
	middleware.ActionErrorResponse(w, http.StatusTooManyRequests, "rate_limited")

ErrorResponse writes the generic {"error","message"} shape for
malformed requests; ActionErrorResponse writes the action endpoint's
{"ok":false,"error"} shape.

# Body Parsing

Parse JSON request bodies:

	var req models.CreateTopicRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil { ... }

Parse action form payloads (urlencoded or multipart) into a flat map:

	values, err := middleware.ParseFormBody(r)

# Client IP Extraction

Get the original client IP (handles X-Forwarded-For, X-Real-IP):

	ip := middleware.GetClientIP(r)

Used to key the rate limiter for anonymous actors (after hashing).
*/
package middleware
