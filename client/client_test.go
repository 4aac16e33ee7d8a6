// Copyright (c) 2025 Tsukkomi Project.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/tsukkomi/tsukkomi/cliparse"
	"github.com/tsukkomi/tsukkomi/identity"
	"github.com/tsukkomi/tsukkomi/models"
	"github.com/tsukkomi/tsukkomi/ratelimit"
	"github.com/tsukkomi/tsukkomi/router"
	"github.com/tsukkomi/tsukkomi/store"
)

type navRecorder struct {
	mu    sync.Mutex
	paths []string
}

func (n *navRecorder) Navigate(path string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.paths = append(n.paths, path)
}

func (n *navRecorder) last() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	if len(n.paths) == 0 {
		return ""
	}
	return n.paths[len(n.paths)-1]
}

type noteRecorder struct {
	mu       sync.Mutex
	messages []string
}

func (n *noteRecorder) Notify(message string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.messages = append(n.messages, message)
}

func (n *noteRecorder) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.messages)
}

type testEnv struct {
	store    *store.MemStore
	cache    *Cache
	client   *ActionClient
	resolver *identity.Resolver
	nav      *navRecorder
	notes    *noteRecorder
}

// newTestEnv spins up the real API over an in-memory store and wires a
// client against it. capacity bounds the action rate limit; refill is
// negligible so tests control token consumption precisely.
func newTestEnv(t *testing.T, capacity float64) *testEnv {
	t.Helper()

	st := store.NewMemStore()
	limiter := ratelimit.New(capacity, 0.0001, ratelimit.NewMemoryStore())
	cfg := cliparse.Config{IPHashSalt: "test-salt"}
	srv := httptest.NewServer(router.NewRouter(st, limiter, cfg))
	t.Cleanup(srv.Close)

	resolver := identity.NewResolver(identity.NewMemStorage())
	nav := &navRecorder{}
	notes := &noteRecorder{}
	c := New(resolver, nav, notes, Options{
		BaseURL:     srv.URL,
		SettleDelay: 250 * time.Millisecond,
	})
	return &testEnv{
		store:    st,
		cache:    NewCache(),
		client:   c,
		resolver: resolver,
		nav:      nav,
		notes:    notes,
	}
}

func TestPerformActionNoIdentityNavigatesWithoutNetwork(t *testing.T) {
	resolver := identity.NewResolver(identity.NewMemStorage())
	nav := &navRecorder{}
	// BaseURL points nowhere; a network attempt would fail loudly.
	c := New(resolver, nav, nil, Options{BaseURL: "http://127.0.0.1:1"})

	_, err := c.PerformAction(context.Background(), url.Values{"op": {"toggle"}})
	require.ErrorIs(t, err, ErrNoIdentity)
	require.Equal(t, "/login", nav.last())
}

func TestPerformActionClassifiesResponses(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		body      string
		check     func(t *testing.T, err error)
		wantLogin bool
	}{
		{
			name:   "unauthorized navigates to login",
			status: http.StatusUnauthorized,
			body:   `{"ok":false,"error":"unauthorized"}`,
			check: func(t *testing.T, err error) {
				var authErr *AuthError
				require.ErrorAs(t, err, &authErr)
			},
			wantLogin: true,
		},
		{
			name:   "rate limited",
			status: http.StatusTooManyRequests,
			body:   `{"ok":false,"error":"rate_limited"}`,
			check: func(t *testing.T, err error) {
				var rlErr *RateLimitError
				require.ErrorAs(t, err, &rlErr)
				require.Equal(t, "rate_limited", rlErr.Message)
			},
		},
		{
			name:   "server error",
			status: http.StatusInternalServerError,
			body:   `{"ok":false,"error":"storage unavailable"}`,
			check: func(t *testing.T, err error) {
				var srvErr *ServerError
				require.ErrorAs(t, err, &srvErr)
				require.Equal(t, http.StatusInternalServerError, srvErr.Status)
			},
		},
		{
			name:   "bad request",
			status: http.StatusBadRequest,
			body:   `{"error":"validation_error","message":"missing answerId"}`,
			check: func(t *testing.T, err error) {
				var reqErr *RequestError
				require.ErrorAs(t, err, &reqErr)
			},
		},
		{
			name:   "success",
			status: http.StatusOK,
			body:   `{"ok":true}`,
			check: func(t *testing.T, err error) {
				require.NoError(t, err)
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tc.status)
				w.Write([]byte(tc.body))
			}))
			defer srv.Close()

			resolver := identity.NewResolver(identity.NewMemStorage())
			require.NoError(t, resolver.Login("u1", "Alice"))
			nav := &navRecorder{}
			c := New(resolver, nav, nil, Options{BaseURL: srv.URL})

			res, err := c.PerformAction(context.Background(), url.Values{"answerId": {"a1"}})
			tc.check(t, err)
			if err == nil || res != nil {
				require.Equal(t, tc.status, res.StatusCode)
			}
			if tc.wantLogin {
				require.Equal(t, "/login", nav.last())
			} else {
				require.Empty(t, nav.last())
			}
		})
	}
}

func TestPerformActionNetworkFailure(t *testing.T) {
	resolver := identity.NewResolver(identity.NewMemStorage())
	require.NoError(t, resolver.Login("u1", "Alice"))
	c := New(resolver, nil, nil, Options{
		BaseURL:    "http://127.0.0.1:1",
		HTTPClient: &http.Client{Timeout: 500 * time.Millisecond},
	})

	_, err := c.PerformAction(context.Background(), url.Values{"answerId": {"a1"}})
	var netErr *NetworkError
	require.ErrorAs(t, err, &netErr)
}

func TestFetchCommentsAndUserData(t *testing.T) {
	env := newTestEnv(t, 10)
	user := env.store.SeedUser("Alice")
	topic := env.store.SeedTopic("best one-liner", user.ID)
	answer := env.store.SeedAnswer(topic.ID, user.ID, "it depends")
	require.NoError(t, env.resolver.Login(user.ID, user.Name))

	ctx := context.Background()
	_, err := env.store.AddComment(ctx, answer.ID, user.ID, "classic")
	require.NoError(t, err)
	_, err = env.store.VoteAnswer(ctx, answer.ID, user.ID, 2)
	require.NoError(t, err)
	_, err = env.store.ToggleFavorite(ctx, answer.ID, user.ID)
	require.NoError(t, err)

	comments, err := env.client.FetchComments(ctx, answer.ID)
	require.NoError(t, err)
	require.Len(t, comments, 1)
	require.Equal(t, "classic", comments[0].Text)

	data, err := env.client.FetchUserData(ctx, user.ID, []string{answer.ID})
	require.NoError(t, err)
	require.Equal(t, 2, data.Votes[answer.ID])
	require.Equal(t, []string{answer.ID}, data.Favorites)
}

func TestSeedUserDataPopulatesCache(t *testing.T) {
	env := newTestEnv(t, 10)
	user := env.store.SeedUser("Alice")
	topic := env.store.SeedTopic("t", user.ID)
	answer := env.store.SeedAnswer(topic.ID, user.ID, "a")
	require.NoError(t, env.resolver.Login(user.ID, user.Name))

	ctx := context.Background()
	_, err := env.store.VoteAnswer(ctx, answer.ID, user.ID, 3)
	require.NoError(t, err)
	_, err = env.store.ToggleFavorite(ctx, answer.ID, user.ID)
	require.NoError(t, err)

	require.NoError(t, env.client.SeedUserData(ctx, env.cache, []string{answer.ID}))

	fav := NewFavoriteControl(env.client, env.cache, answer.ID)
	require.True(t, fav.State().Favorited)

	vote := NewVoteControl(env.client, env.cache, answer.ID)
	require.Equal(t, 3, vote.State().Selected)
}

func TestSeedUserDataRequiresIdentity(t *testing.T) {
	env := newTestEnv(t, 10)
	err := env.client.SeedUserData(context.Background(), env.cache, []string{"a1"})
	require.ErrorIs(t, err, ErrNoIdentity)
}

func TestActionResultDecode(t *testing.T) {
	res := &ActionResult{Body: []byte(`{"ok":true,"answer_id":"a1","favorited":true,"count":4}`)}
	var out models.ToggleFavoriteResponse
	require.NoError(t, res.Decode(&out))
	require.True(t, out.OK)
	require.Equal(t, "a1", out.AnswerID)
	require.True(t, out.Favorited)
	require.Equal(t, 4, out.Count)

	bad := &ActionResult{Body: []byte("not json")}
	require.Error(t, bad.Decode(&out))
}
