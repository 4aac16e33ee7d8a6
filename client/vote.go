// Copyright (c) 2025 Tsukkomi Project.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package client

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/tsukkomi/tsukkomi/models"
)

// VoteState is the rendered state of a vote control: the actor's
// current selection (0 = none) and the per-level counts.
type VoteState struct {
	Selected int
	Counts   models.VoteCounts
}

type voteVars struct {
	actor string
	// target is the level being submitted, already resolved through
	// the toggle-clear rule (0 clears).
	target int
}

type voteContext struct {
	key  Key
	snap Snapshot
	tag  uint64
}

// VoteControl manages one answer's numeric vote for the current actor.
// Selecting the already-selected level clears the vote. The optimistic
// transform moves the actor's vote between count buckets atomically:
// selection and counts change in one cache write.
type VoteControl struct {
	client   *ActionClient
	cache    *Cache
	answerID string
	mutation *Mutation[voteVars, models.VoteResponse, voteContext]
}

func NewVoteControl(c *ActionClient, cache *Cache, answerID string) *VoteControl {
	v := &VoteControl{client: c, cache: cache, answerID: answerID}
	v.mutation = &Mutation[voteVars, models.VoteResponse, voteContext]{
		MutateFn:  v.mutate,
		OnMutate:  v.onMutate,
		OnSuccess: v.onSuccess,
		OnError:   v.onError,
	}
	return v
}

func (v *VoteControl) key(actor string) Key {
	return Key{Feature: FeatureVote, AnswerID: v.answerID, Actor: actor}
}

// State returns the cached vote state for the current actor.
func (v *VoteControl) State() VoteState {
	actor := v.client.Identity().EffectiveID()
	if val, ok := v.cache.Get(v.key(actor)); ok {
		return val.(VoteState)
	}
	return VoteState{}
}

// Seed writes server-known state into the cache (initial render).
func (v *VoteControl) Seed(st VoteState) {
	actor := v.client.Identity().EffectiveID()
	v.cache.Set(v.key(actor), st)
}

// Pending reports whether a vote submission is in flight.
func (v *VoteControl) Pending() bool { return v.mutation.Pending() }

// Select submits a vote at the given level (1-3). Selecting the level
// already held clears the vote.
func (v *VoteControl) Select(ctx context.Context, level int) (VoteState, error) {
	if level < models.VoteLevelMin || level > models.VoteLevelMax {
		return v.State(), fmt.Errorf("vote level %d out of range", level)
	}
	actor, err := v.client.RequireActor()
	if err != nil {
		return v.State(), err
	}

	target := level
	if v.State().Selected == level {
		target = models.VoteLevelNone
	}
	if _, err := v.mutation.Do(ctx, voteVars{actor: actor, target: target}); err != nil {
		return v.State(), err
	}
	return v.State(), nil
}

func (v *VoteControl) onMutate(vars voteVars) (voteContext, error) {
	key := v.key(vars.actor)
	snap := v.cache.Capture(key)

	cur := VoteState{}
	if snap.Present {
		cur = snap.Value.(VoteState)
	}
	counts := cur.Counts.Clone()
	if cur.Selected != models.VoteLevelNone {
		if counts[cur.Selected] > 1 {
			counts[cur.Selected]--
		} else {
			delete(counts, cur.Selected)
		}
	}
	if vars.target != models.VoteLevelNone {
		counts[vars.target]++
	}
	tag := v.cache.Set(key, VoteState{Selected: vars.target, Counts: counts})
	return voteContext{key: key, snap: snap, tag: tag}, nil
}

func (v *VoteControl) mutate(ctx context.Context, vars voteVars) (models.VoteResponse, error) {
	var out models.VoteResponse
	payload := url.Values{}
	payload.Set("answerId", v.answerID)
	payload.Set("level", strconv.Itoa(vars.target))
	payload.Set("userId", vars.actor)

	res, err := v.client.PerformAction(ctx, payload)
	if err != nil {
		return out, err
	}
	if err := res.Decode(&out); err != nil {
		return out, err
	}
	return out, nil
}

// Optimistic counts are kept on success rather than swapped for the
// server's, which may already include concurrent votes and would make
// the control jump mid-interaction.
func (v *VoteControl) onSuccess(models.VoteResponse, voteVars, voteContext) {}

func (v *VoteControl) onError(err error, vars voteVars, mctx voteContext) {
	if v.cache.RestoreIf(mctx.snap, mctx.tag) {
		v.cache.Invalidate(mctx.key)
	}
	if notifiableInline(err) {
		v.client.notifier.Notify("投票に失敗しました")
	}
}
