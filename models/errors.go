// Copyright (c) 2025 Tsukkomi Project.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import (
	"errors"
	"fmt"
)

// ValidationError reports a malformed or incomplete action payload.
// Terminal at the dispatcher; maps to HTTP 400, never retried.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// IsValidationError reports whether err is (or wraps) a ValidationError.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// RateLimitError reports a mutation rejected by the rate limiter.
// Terminal at the dispatcher; maps to HTTP 429.
type RateLimitError struct {
	Key string
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("rate limited: %s", e.Key)
}

func IsRateLimitError(err error) bool {
	var re *RateLimitError
	return errors.As(err, &re)
}

// ServerError wraps a data-store failure. Maps to HTTP 500 and is
// surfaced rather than silently swallowed.
type ServerError struct {
	Op  string
	Err error
}

func (e *ServerError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *ServerError) Unwrap() error { return e.Err }

func IsServerError(err error) bool {
	var se *ServerError
	return errors.As(err, &se)
}
