// Copyright (c) 2025 Tsukkomi Project.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/tsukkomi/tsukkomi/models"
	"github.com/tsukkomi/tsukkomi/store"
	"github.com/tsukkomi/tsukkomi/testutil"
)

func TestClassifyIntent(t *testing.T) {
	tests := []struct {
		name       string
		values     url.Values
		wantIntent models.Intent
		wantErr    bool
	}{
		{
			name:   "favorite toggle",
			values: url.Values{"op": {"toggle"}, "answerId": {"a1"}, "profileId": {"u1"}},
			wantIntent: models.Intent{
				Kind:      models.IntentToggleFavorite,
				AnswerID:  "a1",
				ProfileID: "u1",
			},
		},
		{
			name:   "vote",
			values: url.Values{"answerId": {"a1"}, "level": {"2"}, "userId": {"u1"}},
			wantIntent: models.Intent{
				Kind:      models.IntentVote,
				AnswerID:  "a1",
				ProfileID: "u1",
				Level:     2,
			},
		},
		{
			name:   "vote level zero clears",
			values: url.Values{"answerId": {"5"}, "level": {"0"}, "userId": {"u1"}},
			wantIntent: models.Intent{
				Kind:      models.IntentVote,
				AnswerID:  "5",
				ProfileID: "u1",
				Level:     0,
			},
		},
		{
			name:   "comment",
			values: url.Values{"answerId": {"a1"}, "text": {"hello"}, "profileId": {"u1"}},
			wantIntent: models.Intent{
				Kind:      models.IntentComment,
				AnswerID:  "a1",
				ProfileID: "u1",
				Text:      "hello",
			},
		},
		{
			name: "op toggle wins over level and text",
			values: url.Values{
				"op": {"toggle"}, "answerId": {"a1"}, "profileId": {"u1"},
				"level": {"2"}, "userId": {"u2"}, "text": {"hi"},
			},
			wantIntent: models.Intent{
				Kind:      models.IntentToggleFavorite,
				AnswerID:  "a1",
				ProfileID: "u1",
			},
		},
		{
			name: "level wins over text",
			values: url.Values{
				"answerId": {"a1"}, "level": {"1"}, "userId": {"u1"}, "text": {"hi"},
			},
			wantIntent: models.Intent{
				Kind:      models.IntentVote,
				AnswerID:  "a1",
				ProfileID: "u1",
				Level:     1,
			},
		},
		{
			name:    "toggle missing answerId",
			values:  url.Values{"op": {"toggle"}, "profileId": {"u1"}},
			wantErr: true,
		},
		{
			name:    "toggle missing profileId",
			values:  url.Values{"op": {"toggle"}, "answerId": {"a1"}},
			wantErr: true,
		},
		{
			name:    "vote level not an integer",
			values:  url.Values{"answerId": {"a1"}, "level": {"two"}, "userId": {"u1"}},
			wantErr: true,
		},
		{
			name:    "vote level out of range",
			values:  url.Values{"answerId": {"a1"}, "level": {"4"}, "userId": {"u1"}},
			wantErr: true,
		},
		{
			name:    "vote level negative",
			values:  url.Values{"answerId": {"a1"}, "level": {"-1"}, "userId": {"u1"}},
			wantErr: true,
		},
		{
			name:    "vote missing userId",
			values:  url.Values{"answerId": {"a1"}, "level": {"2"}},
			wantErr: true,
		},
		{
			name:    "comment empty text",
			values:  url.Values{"answerId": {"a1"}, "text": {""}, "profileId": {"u1"}},
			wantErr: true,
		},
		{
			name:    "comment missing profileId",
			values:  url.Values{"answerId": {"a1"}, "text": {"hi"}},
			wantErr: true,
		},
		{
			name:    "unrecognized payload",
			values:  url.Values{"answerId": {"a1"}},
			wantErr: true,
		},
		{
			name:    "op other than toggle is not favorite",
			values:  url.Values{"op": {"delete"}, "answerId": {"a1"}, "profileId": {"u1"}},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			intent, err := ClassifyIntent(tt.values)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("Expected error, got intent %+v", intent)
				}
				var vErr *models.ValidationError
				if !errors.As(err, &vErr) {
					t.Errorf("Expected ValidationError, got %T", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ClassifyIntent failed: %v", err)
			}
			if intent != tt.wantIntent {
				t.Errorf("Expected intent %+v, got %+v", tt.wantIntent, intent)
			}
		})
	}
}

func TestHandleActionFavorite(t *testing.T) {
	conn := setupTestDB(t)
	cfg := getTestConfig()
	st := store.NewSQLStore(conn)
	handler := NewActionHandler(st, newTestLimiter(100), cfg)

	userID := testutil.CreateTestUser(t, conn, "Alice")
	topicID := testutil.CreateTestTopic(t, conn, "Test Topic", userID)
	answerID := testutil.CreateTestAnswer(t, conn, topicID, userID, "an answer")

	form := url.Values{"op": {"toggle"}, "answerId": {answerID}, "profileId": {userID}}

	// First toggle favorites
	w := httptest.NewRecorder()
	handler.HandleAction(w, testutil.MakeFormRequest("POST", "/actions", form))
	testutil.AssertStatus(t, w, http.StatusOK)

	var resp models.ToggleFavoriteResponse
	testutil.AssertJSON(t, w, &resp)
	if !resp.OK {
		t.Error("Expected ok=true")
	}
	if !resp.Favorited {
		t.Error("Expected favorited=true after first toggle")
	}
	if resp.Count != 1 {
		t.Errorf("Expected count 1, got %d", resp.Count)
	}

	// Second toggle unfavorites
	w = httptest.NewRecorder()
	handler.HandleAction(w, testutil.MakeFormRequest("POST", "/actions", form))
	testutil.AssertStatus(t, w, http.StatusOK)
	testutil.AssertJSON(t, w, &resp)
	if resp.Favorited {
		t.Error("Expected favorited=false after second toggle")
	}
	if resp.Count != 0 {
		t.Errorf("Expected count 0, got %d", resp.Count)
	}
}

func TestHandleActionVote(t *testing.T) {
	conn := setupTestDB(t)
	cfg := getTestConfig()
	st := store.NewSQLStore(conn)
	handler := NewActionHandler(st, newTestLimiter(100), cfg)

	userID := testutil.CreateTestUser(t, conn, "Alice")
	otherID := testutil.CreateTestUser(t, conn, "Bob")
	topicID := testutil.CreateTestTopic(t, conn, "Test Topic", userID)
	answerID := testutil.CreateTestAnswer(t, conn, topicID, userID, "an answer")
	testutil.CreateTestVote(t, conn, answerID, otherID, 1)

	// Cast a level-2 vote
	w := httptest.NewRecorder()
	handler.HandleAction(w, testutil.MakeFormRequest("POST", "/actions",
		url.Values{"answerId": {answerID}, "level": {"2"}, "userId": {userID}}))
	testutil.AssertStatus(t, w, http.StatusOK)

	var resp models.VoteResponse
	testutil.AssertJSON(t, w, &resp)
	if resp.Level != 2 {
		t.Errorf("Expected level 2, got %d", resp.Level)
	}
	if resp.Counts[1] != 1 || resp.Counts[2] != 1 {
		t.Errorf("Expected counts {1:1 2:1}, got %v", resp.Counts)
	}

	// Change to level 3: the vote moves, it does not double
	w = httptest.NewRecorder()
	handler.HandleAction(w, testutil.MakeFormRequest("POST", "/actions",
		url.Values{"answerId": {answerID}, "level": {"3"}, "userId": {userID}}))
	testutil.AssertStatus(t, w, http.StatusOK)
	resp = models.VoteResponse{}
	testutil.AssertJSON(t, w, &resp)
	if resp.Counts[2] != 0 || resp.Counts[3] != 1 {
		t.Errorf("Expected vote to move to level 3, got %v", resp.Counts)
	}

	// Level 0 clears the vote
	w = httptest.NewRecorder()
	handler.HandleAction(w, testutil.MakeFormRequest("POST", "/actions",
		url.Values{"answerId": {answerID}, "level": {"0"}, "userId": {userID}}))
	testutil.AssertStatus(t, w, http.StatusOK)
	resp = models.VoteResponse{}
	testutil.AssertJSON(t, w, &resp)
	if resp.Level != 0 {
		t.Errorf("Expected level 0 after clear, got %d", resp.Level)
	}
	if resp.Counts.Total() != 1 {
		t.Errorf("Expected only Bob's vote to remain, got %v", resp.Counts)
	}
}

func TestHandleActionComment(t *testing.T) {
	conn := setupTestDB(t)
	cfg := getTestConfig()
	st := store.NewSQLStore(conn)
	handler := NewActionHandler(st, newTestLimiter(100), cfg)

	userID := testutil.CreateTestUser(t, conn, "Alice")
	topicID := testutil.CreateTestTopic(t, conn, "Test Topic", userID)
	answerID := testutil.CreateTestAnswer(t, conn, topicID, userID, "an answer")

	w := httptest.NewRecorder()
	handler.HandleAction(w, testutil.MakeFormRequest("POST", "/actions",
		url.Values{"answerId": {answerID}, "text": {"nice one"}, "profileId": {userID}}))
	testutil.AssertStatus(t, w, http.StatusOK)

	var resp models.CommentResponse
	testutil.AssertJSON(t, w, &resp)
	if !resp.OK {
		t.Error("Expected ok=true")
	}
	if resp.Comment.ID == "" {
		t.Error("Expected a server-assigned comment ID")
	}
	if resp.Comment.Text != "nice one" {
		t.Errorf("Expected text %q, got %q", "nice one", resp.Comment.Text)
	}
	if resp.Comment.ProfileName != "Alice" {
		t.Errorf("Expected profile name Alice, got %q", resp.Comment.ProfileName)
	}
	if resp.Comment.CreatedAgo == "" {
		t.Error("Expected a humanized created_ago")
	}
}

func TestHandleActionValidation(t *testing.T) {
	conn := setupTestDB(t)
	cfg := getTestConfig()
	handler := NewActionHandler(store.NewSQLStore(conn), newTestLimiter(100), cfg)

	tests := []struct {
		name string
		form url.Values
	}{
		{"empty payload", url.Values{}},
		{"toggle without profile", url.Values{"op": {"toggle"}, "answerId": {"a1"}}},
		{"vote without answer", url.Values{"level": {"2"}, "userId": {"u1"}}},
		{"vote level out of range", url.Values{"answerId": {"a1"}, "level": {"9"}, "userId": {"u1"}}},
		{"comment without text value", url.Values{"answerId": {"a1"}, "text": {""}, "profileId": {"u1"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			handler.HandleAction(w, testutil.MakeFormRequest("POST", "/actions", tt.form))
			testutil.AssertStatus(t, w, http.StatusBadRequest)

			var resp models.ErrorResponse
			testutil.AssertJSON(t, w, &resp)
			if resp.Error == "" {
				t.Error("Expected an error field in the 400 body")
			}
		})
	}
}

func TestHandleActionRateLimited(t *testing.T) {
	conn := setupTestDB(t)
	cfg := getTestConfig()
	st := store.NewSQLStore(conn)
	handler := NewActionHandler(st, newTestLimiter(1), cfg)

	userID := testutil.CreateTestUser(t, conn, "Alice")
	topicID := testutil.CreateTestTopic(t, conn, "Test Topic", userID)
	answerID := testutil.CreateTestAnswer(t, conn, topicID, userID, "an answer")

	form := url.Values{"op": {"toggle"}, "answerId": {answerID}, "profileId": {userID}}

	w := httptest.NewRecorder()
	handler.HandleAction(w, testutil.MakeFormRequest("POST", "/actions", form))
	testutil.AssertStatus(t, w, http.StatusOK)

	w = httptest.NewRecorder()
	handler.HandleAction(w, testutil.MakeFormRequest("POST", "/actions", form))
	testutil.AssertStatus(t, w, http.StatusTooManyRequests)

	var resp models.ActionError
	testutil.AssertJSON(t, w, &resp)
	if resp.OK {
		t.Error("Expected ok=false")
	}
	if resp.Error != "rate_limited" {
		t.Errorf("Expected error rate_limited, got %q", resp.Error)
	}
}

func TestHandleActionRateLimitKeyedByProfile(t *testing.T) {
	conn := setupTestDB(t)
	cfg := getTestConfig()
	st := store.NewSQLStore(conn)
	handler := NewActionHandler(st, newTestLimiter(1), cfg)

	alice := testutil.CreateTestUser(t, conn, "Alice")
	bob := testutil.CreateTestUser(t, conn, "Bob")
	topicID := testutil.CreateTestTopic(t, conn, "Test Topic", alice)
	answerID := testutil.CreateTestAnswer(t, conn, topicID, alice, "an answer")

	// Alice exhausts her budget; Bob is unaffected.
	w := httptest.NewRecorder()
	handler.HandleAction(w, testutil.MakeFormRequest("POST", "/actions",
		url.Values{"op": {"toggle"}, "answerId": {answerID}, "profileId": {alice}}))
	testutil.AssertStatus(t, w, http.StatusOK)

	w = httptest.NewRecorder()
	handler.HandleAction(w, testutil.MakeFormRequest("POST", "/actions",
		url.Values{"op": {"toggle"}, "answerId": {answerID}, "profileId": {alice}}))
	testutil.AssertStatus(t, w, http.StatusTooManyRequests)

	w = httptest.NewRecorder()
	handler.HandleAction(w, testutil.MakeFormRequest("POST", "/actions",
		url.Values{"op": {"toggle"}, "answerId": {answerID}, "profileId": {bob}}))
	testutil.AssertStatus(t, w, http.StatusOK)
}

func TestHandleActionStoreFailure(t *testing.T) {
	cfg := getTestConfig()
	st := store.NewMemStore()
	st.FailWith(errors.New("storage unavailable"))
	handler := NewActionHandler(st, newTestLimiter(100), cfg)

	w := httptest.NewRecorder()
	handler.HandleAction(w, testutil.MakeFormRequest("POST", "/actions",
		url.Values{"op": {"toggle"}, "answerId": {"a1"}, "profileId": {"u1"}}))
	testutil.AssertStatus(t, w, http.StatusInternalServerError)

	var resp models.ActionError
	testutil.AssertJSON(t, w, &resp)
	if resp.OK {
		t.Error("Expected ok=false")
	}
	if resp.Error == "" {
		t.Error("Expected an error message")
	}
}
