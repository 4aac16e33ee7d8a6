// Copyright (c) 2025 Tsukkomi Project.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package client

import (
	"errors"
	"fmt"
)

// ErrNoIdentity is returned when a mutation is attempted with no
// acting identity resolved. The client navigates to the login path
// instead of performing a network call.
var ErrNoIdentity = errors.New("no acting identity resolved")

// AuthError is an unauthenticated mutation attempt (HTTP 401). The
// client has already navigated to the login path when this surfaces.
type AuthError struct {
	Status int
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("authentication required (status %d)", e.Status)
}

// ServerError is a backend failure (HTTP >= 500). It propagates to the
// caller's error boundary rather than triggering an inline notice.
type ServerError struct {
	Status  int
	Message string
}

func (e *ServerError) Error() string {
	return fmt.Sprintf("server error %d: %s", e.Status, e.Message)
}

// RateLimitError is a rejected mutation (HTTP 429).
type RateLimitError struct {
	Message string
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("rate limited: %s", e.Message)
}

// RequestError is any other non-2xx response (e.g. a 400 the client
// should never have produced).
type RequestError struct {
	Status  int
	Message string
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("request failed %d: %s", e.Status, e.Message)
}

// NetworkError is a client-observed transport failure.
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error: %v", e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// notifiableInline reports whether a mutation failure should surface
// as a transient inline notification. Auth errors navigate instead;
// server errors escalate to a page-level boundary; a missing identity
// already navigated to login.
func notifiableInline(err error) bool {
	if err == nil || errors.Is(err, ErrNoIdentity) {
		return false
	}
	var authErr *AuthError
	if errors.As(err, &authErr) {
		return false
	}
	var srvErr *ServerError
	if errors.As(err, &srvErr) {
		return false
	}
	return true
}
