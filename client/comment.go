// Copyright (c) 2025 Tsukkomi Project.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package client

import (
	"context"
	"errors"
	"net/url"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/tsukkomi/tsukkomi/models"
)

// ErrEmptyComment is returned when Submit is called with blank text.
var ErrEmptyComment = errors.New("comment text is empty")

type commentVars struct {
	actor     string
	actorName string
	text      string
}

type commentContext struct {
	key  Key
	snap Snapshot
	tag  uint64
}

// CommentSection manages one answer's comment list. Submit appends a
// provisional comment immediately; after the server confirms, a
// refetch scheduled one settle delay later replaces the list with
// server truth (real IDs, canonical ordering, comments from others).
type CommentSection struct {
	client   *ActionClient
	cache    *Cache
	answerID string
	mutation *Mutation[commentVars, models.CommentResponse, commentContext]

	mu     sync.Mutex
	timers []*time.Timer
}

func NewCommentSection(c *ActionClient, cache *Cache, answerID string) *CommentSection {
	cs := &CommentSection{client: c, cache: cache, answerID: answerID}
	cs.mutation = &Mutation[commentVars, models.CommentResponse, commentContext]{
		MutateFn:  cs.mutate,
		OnMutate:  cs.onMutate,
		OnSuccess: cs.onSuccess,
		OnError:   cs.onError,
	}
	return cs
}

func (cs *CommentSection) key() Key {
	// Comments are shared state, not per-actor.
	return Key{Feature: FeatureComment, AnswerID: cs.answerID}
}

// Comments returns the cached list, provisional entries included.
func (cs *CommentSection) Comments() []models.Comment {
	if v, ok := cs.cache.Get(cs.key()); ok {
		return v.([]models.Comment)
	}
	return nil
}

// Seed writes a server-fetched comment list into the cache.
func (cs *CommentSection) Seed(comments []models.Comment) {
	cs.cache.Set(cs.key(), comments)
}

// Refresh fetches server truth immediately and replaces the cache.
func (cs *CommentSection) Refresh(ctx context.Context) error {
	comments, err := cs.client.FetchComments(ctx, cs.answerID)
	if err != nil {
		return err
	}
	cs.cache.Set(cs.key(), comments)
	return nil
}

// Pending reports whether a submission is in flight.
func (cs *CommentSection) Pending() bool { return cs.mutation.Pending() }

// Submit posts a comment. The provisional entry is visible in Comments
// as soon as the optimistic write lands; the server-confirmed comment
// is returned once the call settles.
func (cs *CommentSection) Submit(ctx context.Context, text string) (models.Comment, error) {
	if text == "" {
		return models.Comment{}, ErrEmptyComment
	}
	actor, err := cs.client.RequireActor()
	if err != nil {
		return models.Comment{}, err
	}
	vars := commentVars{
		actor:     actor,
		actorName: cs.client.Identity().EffectiveName(),
		text:      text,
	}
	resp, err := cs.mutation.Do(ctx, vars)
	if err != nil {
		return models.Comment{}, err
	}
	return resp.Comment, nil
}

// Close stops any scheduled refetches.
func (cs *CommentSection) Close() {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	for _, t := range cs.timers {
		t.Stop()
	}
	cs.timers = nil
}

func (cs *CommentSection) onMutate(vars commentVars) (commentContext, error) {
	key := cs.key()
	snap := cs.cache.Capture(key)

	var cur []models.Comment
	if snap.Present {
		cur = snap.Value.([]models.Comment)
	}
	provisional := models.Comment{
		ID:          "provisional-" + uuid.NewString(),
		AnswerID:    cs.answerID,
		ProfileID:   vars.actor,
		ProfileName: vars.actorName,
		Text:        vars.text,
		CreatedAt:   time.Now(),
		Provisional: true,
	}
	next := make([]models.Comment, 0, len(cur)+1)
	next = append(next, cur...)
	next = append(next, provisional)

	tag := cs.cache.Set(key, next)
	return commentContext{key: key, snap: snap, tag: tag}, nil
}

func (cs *CommentSection) mutate(ctx context.Context, vars commentVars) (models.CommentResponse, error) {
	var out models.CommentResponse
	payload := url.Values{}
	payload.Set("answerId", cs.answerID)
	payload.Set("text", vars.text)
	payload.Set("profileId", vars.actor)

	res, err := cs.client.PerformAction(ctx, payload)
	if err != nil {
		return out, err
	}
	if err := res.Decode(&out); err != nil {
		return out, err
	}
	return out, nil
}

// The provisional entry stays visible through the settle window; the
// delayed refetch swaps in server truth so the real ID and any
// concurrent comments land at once.
func (cs *CommentSection) onSuccess(_ models.CommentResponse, _ commentVars, mctx commentContext) {
	timer := time.AfterFunc(cs.client.opts.SettleDelay, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		comments, err := cs.client.FetchComments(ctx, cs.answerID)
		if err != nil {
			// Leave the provisional list in place but flag it so the
			// next render path knows a refetch is still owed.
			cs.cache.Invalidate(mctx.key)
			return
		}
		cs.cache.Set(mctx.key, comments)
	})
	cs.mu.Lock()
	cs.timers = append(cs.timers, timer)
	cs.mu.Unlock()
}

func (cs *CommentSection) onError(err error, vars commentVars, mctx commentContext) {
	if cs.cache.RestoreIf(mctx.snap, mctx.tag) {
		cs.cache.Invalidate(mctx.key)
	}
	if notifiableInline(err) {
		cs.client.notifier.Notify("コメントの投稿に失敗しました")
	}
}
