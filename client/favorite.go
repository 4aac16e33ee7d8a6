// Copyright (c) 2025 Tsukkomi Project.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package client

import (
	"context"
	"net/url"

	"github.com/tsukkomi/tsukkomi/models"
)

// FavoriteState is the rendered state of a favorite control.
type FavoriteState struct {
	Favorited bool
	Count     int
}

type favoriteContext struct {
	key  Key
	snap Snapshot
	tag  uint64
}

// FavoriteControl manages one answer's favorite toggle for the current
// actor. Toggle flips the flag and adjusts the count in a single
// optimistic cache write, then reconciles with the server result.
type FavoriteControl struct {
	client   *ActionClient
	cache    *Cache
	answerID string
	mutation *Mutation[string, models.ToggleFavoriteResponse, favoriteContext]
}

func NewFavoriteControl(c *ActionClient, cache *Cache, answerID string) *FavoriteControl {
	f := &FavoriteControl{client: c, cache: cache, answerID: answerID}
	f.mutation = &Mutation[string, models.ToggleFavoriteResponse, favoriteContext]{
		MutateFn:  f.mutate,
		OnMutate:  f.onMutate,
		OnSuccess: f.onSuccess,
		OnError:   f.onError,
	}
	return f
}

func (f *FavoriteControl) key(actor string) Key {
	return Key{Feature: FeatureFavorite, AnswerID: f.answerID, Actor: actor}
}

// State returns the cached favorite state for the current actor.
func (f *FavoriteControl) State() FavoriteState {
	actor := f.client.Identity().EffectiveID()
	if v, ok := f.cache.Get(f.key(actor)); ok {
		return v.(FavoriteState)
	}
	return FavoriteState{}
}

// Seed writes server-known state into the cache (initial render).
func (f *FavoriteControl) Seed(st FavoriteState) {
	actor := f.client.Identity().EffectiveID()
	f.cache.Set(f.key(actor), st)
}

// Pending reports whether a toggle is in flight.
func (f *FavoriteControl) Pending() bool { return f.mutation.Pending() }

// Toggle flips the favorite optimistically and submits the action.
// The returned state reflects the cache after the call settles.
func (f *FavoriteControl) Toggle(ctx context.Context) (FavoriteState, error) {
	actor, err := f.client.RequireActor()
	if err != nil {
		return f.State(), err
	}
	if _, err := f.mutation.Do(ctx, actor); err != nil {
		return f.State(), err
	}
	return f.State(), nil
}

func (f *FavoriteControl) onMutate(actor string) (favoriteContext, error) {
	key := f.key(actor)
	snap := f.cache.Capture(key)

	cur := FavoriteState{}
	if snap.Present {
		cur = snap.Value.(FavoriteState)
	}
	next := FavoriteState{Favorited: !cur.Favorited, Count: cur.Count}
	if next.Favorited {
		next.Count++
	} else if next.Count > 0 {
		next.Count--
	}
	tag := f.cache.Set(key, next)
	return favoriteContext{key: key, snap: snap, tag: tag}, nil
}

func (f *FavoriteControl) mutate(ctx context.Context, actor string) (models.ToggleFavoriteResponse, error) {
	var out models.ToggleFavoriteResponse
	payload := url.Values{}
	payload.Set("op", "toggle")
	payload.Set("answerId", f.answerID)
	payload.Set("profileId", actor)

	res, err := f.client.PerformAction(ctx, payload)
	if err != nil {
		return out, err
	}
	if err := res.Decode(&out); err != nil {
		return out, err
	}
	return out, nil
}

// The optimistic value is kept on success; the server result agrees on
// the flag and the count drift is corrected by the next seed. Swapping
// in the server count here would flicker when other actors toggled in
// the same window.
func (f *FavoriteControl) onSuccess(models.ToggleFavoriteResponse, string, favoriteContext) {}

func (f *FavoriteControl) onError(err error, actor string, mctx favoriteContext) {
	if f.cache.RestoreIf(mctx.snap, mctx.tag) {
		f.cache.Invalidate(mctx.key)
	}
	if notifiableInline(err) {
		f.client.notifier.Notify("お気に入りの更新に失敗しました")
	}
}
