// Copyright (c) 2025 Tsukkomi Project.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/tsukkomi/tsukkomi/identity"
	"github.com/tsukkomi/tsukkomi/models"
)

// Navigator receives route changes the client decides on (currently
// only the redirect to the login path).
type Navigator interface {
	Navigate(path string)
}

// NavigatorFunc adapts a function to the Navigator interface.
type NavigatorFunc func(path string)

func (f NavigatorFunc) Navigate(path string) { f(path) }

// Notifier receives transient inline failure messages.
type Notifier interface {
	Notify(message string)
}

// NotifierFunc adapts a function to the Notifier interface.
type NotifierFunc func(message string)

func (f NotifierFunc) Notify(message string) { f(message) }

// Options configures an ActionClient. Zero values get sensible
// defaults from New.
type Options struct {
	BaseURL      string
	ActionPath   string        // default "/actions"
	UserDataPath string        // default "/user-data"
	LoginPath    string        // default "/login"
	SettleDelay  time.Duration // comment refetch delay, default 1500ms
	HTTPClient   *http.Client
}

// ActionClient submits mutations to the action endpoint and classifies
// the responses. Submissions serialize: a second PerformAction blocks
// until the first settles, so optimistic writes and their rollbacks
// apply in order.
type ActionClient struct {
	resolver  *identity.Resolver
	navigator Navigator
	notifier  Notifier
	http      *http.Client
	opts      Options
}

// New creates an ActionClient. navigator and notifier may be nil, in
// which case redirects and inline notices are dropped.
func New(resolver *identity.Resolver, navigator Navigator, notifier Notifier, opts Options) *ActionClient {
	if opts.ActionPath == "" {
		opts.ActionPath = "/actions"
	}
	if opts.UserDataPath == "" {
		opts.UserDataPath = "/user-data"
	}
	if opts.LoginPath == "" {
		opts.LoginPath = "/login"
	}
	if opts.SettleDelay == 0 {
		opts.SettleDelay = 1500 * time.Millisecond
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = &http.Client{Timeout: 15 * time.Second}
	}
	if navigator == nil {
		navigator = NavigatorFunc(func(string) {})
	}
	if notifier == nil {
		notifier = NotifierFunc(func(string) {})
	}
	return &ActionClient{
		resolver:  resolver,
		navigator: navigator,
		notifier:  notifier,
		http:      opts.HTTPClient,
		opts:      opts,
	}
}

// Identity returns the current acting identity.
func (c *ActionClient) Identity() identity.Identity {
	return c.resolver.Current()
}

// RequireActor resolves the effective profile ID, or navigates to the
// login path and returns ErrNoIdentity when nobody is acting.
func (c *ActionClient) RequireActor() (string, error) {
	actor := c.resolver.Current().EffectiveID()
	if actor == "" {
		c.navigator.Navigate(c.opts.LoginPath)
		return "", ErrNoIdentity
	}
	return actor, nil
}

// ActionResult is the raw outcome of an action submission.
type ActionResult struct {
	StatusCode int
	Body       []byte
}

// Decode unmarshals the response body into v.
func (r *ActionResult) Decode(v any) error {
	if err := json.Unmarshal(r.Body, v); err != nil {
		return fmt.Errorf("decoding action response: %w", err)
	}
	return nil
}

// PerformAction posts the form payload to the action endpoint and
// classifies the response. A 401 navigates to login and returns
// *AuthError; 429 returns *RateLimitError; >=500 returns *ServerError;
// other non-2xx return *RequestError. Transport failures return
// *NetworkError. The raw result is returned alongside errors that
// carry a body so callers can inspect it.
func (c *ActionClient) PerformAction(ctx context.Context, payload url.Values) (*ActionResult, error) {
	if _, err := c.RequireActor(); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.opts.BaseURL+c.opts.ActionPath, strings.NewReader(payload.Encode()))
	if err != nil {
		return nil, &NetworkError{Err: err}
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &NetworkError{Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &NetworkError{Err: err}
	}
	result := &ActionResult{StatusCode: resp.StatusCode, Body: body}

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		c.navigator.Navigate(c.opts.LoginPath)
		return result, &AuthError{Status: resp.StatusCode}
	case resp.StatusCode == http.StatusTooManyRequests:
		return result, &RateLimitError{Message: errorMessage(body)}
	case resp.StatusCode >= 500:
		return result, &ServerError{Status: resp.StatusCode, Message: errorMessage(body)}
	case resp.StatusCode >= 400:
		return result, &RequestError{Status: resp.StatusCode, Message: errorMessage(body)}
	}
	return result, nil
}

// FetchComments retrieves the server-truth comment list for an answer.
func (c *ActionClient) FetchComments(ctx context.Context, answerID string) ([]models.Comment, error) {
	var out models.CommentsResponse
	err := c.getJSON(ctx, c.opts.BaseURL+"/answers/"+url.PathEscape(answerID)+"/comments", &out)
	if err != nil {
		return nil, err
	}
	return out.Comments, nil
}

// FetchUserData retrieves a profile's votes and favorites, optionally
// scoped to a set of answers, for seeding the cache.
func (c *ActionClient) FetchUserData(ctx context.Context, profileID string, answerIDs []string) (models.UserData, error) {
	q := url.Values{}
	q.Set("profileId", profileID)
	if len(answerIDs) > 0 {
		q.Set("answerIds", strings.Join(answerIDs, ","))
	}
	var out models.UserData
	err := c.getJSON(ctx, c.opts.BaseURL+c.opts.UserDataPath+"?"+q.Encode(), &out)
	return out, err
}

// SeedUserData fetches per-actor state and writes favorite and vote
// entries into the cache so controls render known state before any
// mutation. Counts are not part of user-data; seeded entries start
// from the counts already cached (if any).
func (c *ActionClient) SeedUserData(ctx context.Context, cache *Cache, answerIDs []string) error {
	actor := c.resolver.Current().EffectiveID()
	if actor == "" {
		return ErrNoIdentity
	}
	data, err := c.FetchUserData(ctx, actor, answerIDs)
	if err != nil {
		return err
	}
	favored := make(map[string]bool, len(data.Favorites))
	for _, id := range data.Favorites {
		favored[id] = true
	}
	for _, id := range answerIDs {
		favKey := Key{Feature: FeatureFavorite, AnswerID: id, Actor: actor}
		fav := FavoriteState{Favorited: favored[id]}
		if v, ok := cache.Get(favKey); ok {
			fav.Count = v.(FavoriteState).Count
		}
		cache.Set(favKey, fav)

		voteKey := Key{Feature: FeatureVote, AnswerID: id, Actor: actor}
		vote := VoteState{Selected: data.Votes[id]}
		if v, ok := cache.Get(voteKey); ok {
			vote.Counts = v.(VoteState).Counts
		}
		cache.Set(voteKey, vote)
	}
	return nil
}

func (c *ActionClient) getJSON(ctx context.Context, rawURL string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return &NetworkError{Err: err}
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return &NetworkError{Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return &NetworkError{Err: err}
	}
	switch {
	case resp.StatusCode >= 500:
		return &ServerError{Status: resp.StatusCode, Message: errorMessage(body)}
	case resp.StatusCode >= 400:
		return &RequestError{Status: resp.StatusCode, Message: errorMessage(body)}
	}
	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}

// errorMessage pulls the error string out of a failure body, falling
// back to the raw body when it is not the expected JSON shape.
func errorMessage(body []byte) string {
	var ae models.ActionError
	if err := json.Unmarshal(body, &ae); err == nil && ae.Error != "" {
		return ae.Error
	}
	var er models.ErrorResponse
	if err := json.Unmarshal(body, &er); err == nil && er.Error != "" {
		return er.Error
	}
	return strings.TrimSpace(string(body))
}
