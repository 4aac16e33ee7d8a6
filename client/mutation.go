// Copyright (c) 2025 Tsukkomi Project.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package client

import (
	"context"
	"sync"
)

// Outcome records how the most recent mutation run finished.
type Outcome int

const (
	OutcomeNone Outcome = iota
	OutcomeSuccess
	OutcomeError
)

// Mutation runs a remote call with optimistic-update lifecycle hooks.
// V is the variables type, D the decoded response, C the context
// handed from OnMutate to OnSuccess/OnError (typically a cache
// snapshot plus its sequence tag).
//
// Do serializes: a second call blocks until the first settles, so
// overlapping submissions are applied in order. Each run goes
// pending -> settled and re-arms; both success and error leave the
// mutation ready for the next call.
type Mutation[V, D, C any] struct {
	runMu sync.Mutex

	mu      sync.Mutex
	pending bool
	last    Outcome

	// MutateFn performs the remote call.
	MutateFn func(ctx context.Context, vars V) (D, error)
	// OnMutate runs before MutateFn; it applies the optimistic write
	// and returns rollback context. An error here aborts the run
	// without a network call.
	OnMutate func(vars V) (C, error)
	// OnSuccess runs after a successful MutateFn.
	OnSuccess func(data D, vars V, mctx C)
	// OnError runs after a failed MutateFn; it is where rollback
	// happens.
	OnError func(err error, vars V, mctx C)
}

// Do executes one mutation run. Concurrent calls queue behind the
// in-flight one rather than overlapping.
func (m *Mutation[V, D, C]) Do(ctx context.Context, vars V) (D, error) {
	var zero D

	m.runMu.Lock()
	defer m.runMu.Unlock()

	m.setPending(true)
	defer m.setPending(false)

	var mctx C
	if m.OnMutate != nil {
		var err error
		mctx, err = m.OnMutate(vars)
		if err != nil {
			m.record(OutcomeError)
			return zero, err
		}
	}

	data, err := m.MutateFn(ctx, vars)
	if err != nil {
		if m.OnError != nil {
			m.OnError(err, vars, mctx)
		}
		m.record(OutcomeError)
		return zero, err
	}

	if m.OnSuccess != nil {
		m.OnSuccess(data, vars, mctx)
	}
	m.record(OutcomeSuccess)
	return data, nil
}

// Pending reports whether a run is currently in flight.
func (m *Mutation[V, D, C]) Pending() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.pending
}

// LastOutcome returns how the most recent run settled.
func (m *Mutation[V, D, C]) LastOutcome() Outcome {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.last
}

func (m *Mutation[V, D, C]) setPending(v bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pending = v
}

func (m *Mutation[V, D, C]) record(o Outcome) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.last = o
}
