// Copyright (c) 2025 Tsukkomi Project.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/tsukkomi/tsukkomi/models"
	"github.com/tsukkomi/tsukkomi/store"
	"github.com/tsukkomi/tsukkomi/testutil"
)

func TestGetTopicResults(t *testing.T) {
	conn := setupTestDB(t)
	handler := NewResultsHandler(store.NewSQLStore(conn), getTestConfig())

	alice := testutil.CreateTestUser(t, conn, "Alice")
	bob := testutil.CreateTestUser(t, conn, "Bob")
	carol := testutil.CreateTestUser(t, conn, "Carol")
	topicID := testutil.CreateTestTopic(t, conn, "Test Topic", alice)

	// weak: one level-1 vote (score 1)
	weak := testutil.CreateTestAnswer(t, conn, topicID, alice, "weak")
	testutil.CreateTestVote(t, conn, weak, bob, 1)

	// strong: level-3 and level-2 votes (score 5) plus a favorite
	strong := testutil.CreateTestAnswer(t, conn, topicID, bob, "strong")
	testutil.CreateTestVote(t, conn, strong, alice, 3)
	testutil.CreateTestVote(t, conn, strong, carol, 2)
	testutil.CreateTestFavorite(t, conn, strong, alice)

	// unvoted: no votes at all
	unvoted := testutil.CreateTestAnswer(t, conn, topicID, carol, "unvoted")

	req := httptest.NewRequest("GET", "/topics/"+topicID+"/results", nil)
	req.SetPathValue("id", topicID)
	w := httptest.NewRecorder()
	handler.GetTopicResults(w, req)
	testutil.AssertStatus(t, w, http.StatusOK)

	var resp models.TopicResultsResponse
	testutil.AssertJSON(t, w, &resp)
	if resp.TopicID != topicID {
		t.Errorf("Expected topic_id %s, got %s", topicID, resp.TopicID)
	}
	if len(resp.Rankings) != 3 {
		t.Fatalf("Expected 3 ranked answers, got %d", len(resp.Rankings))
	}

	first := resp.Rankings[0]
	if first.AnswerID != strong {
		t.Errorf("Expected %s ranked first, got %s", strong, first.AnswerID)
	}
	if first.Rank != 1 || first.Score != 5 || first.FavoriteCount != 1 {
		t.Errorf("Unexpected top stats: %+v", first)
	}
	if resp.Rankings[1].AnswerID != weak {
		t.Errorf("Expected %s ranked second, got %s", weak, resp.Rankings[1].AnswerID)
	}
	if resp.Rankings[2].AnswerID != unvoted {
		t.Errorf("Expected %s ranked last, got %s", unvoted, resp.Rankings[2].AnswerID)
	}
}

func TestGetTopicResultsNotFound(t *testing.T) {
	conn := setupTestDB(t)
	handler := NewResultsHandler(store.NewSQLStore(conn), getTestConfig())

	req := httptest.NewRequest("GET", "/topics/missing/results", nil)
	req.SetPathValue("id", "missing")
	w := httptest.NewRecorder()
	handler.GetTopicResults(w, req)
	testutil.AssertStatus(t, w, http.StatusNotFound)
}
