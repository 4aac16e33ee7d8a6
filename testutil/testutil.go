// Copyright (c) 2025 Tsukkomi Project.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	_ "modernc.org/sqlite"

	"github.com/tsukkomi/tsukkomi/auth"
	"github.com/tsukkomi/tsukkomi/cliparse"
	"github.com/tsukkomi/tsukkomi/db"
)

// SetupTestDB opens a fresh in-memory SQLite database with the full
// schema. One connection only: each :memory: connection is its own
// database.
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	conn, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	conn.SetMaxOpenConns(1)
	t.Cleanup(func() { conn.Close() })

	if err := db.CreateSchema(conn); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}
	return conn
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:                  3551,
		DatabaseURL:           ":memory:",
		DatabaseType:          "sqlite",
		RateLimitCapacity:     100,
		RateLimitRefillPerSec: 100,
		IPHashSalt:            "test-ip-salt",
	}
}

// CreateTestUser inserts a user profile and returns its ID
func CreateTestUser(t *testing.T, conn *sql.DB, name string) string {
	t.Helper()

	id, _ := auth.GenerateID(16)
	_, err := conn.Exec(`
		INSERT INTO user_profile (id, name, created_at)
		VALUES ($1, $2, $3)
	`, id, name, time.Now())
	if err != nil {
		t.Fatalf("Failed to create test user: %v", err)
	}
	return id
}

// CreateTestSubProfile inserts a sub-profile under a user and returns its ID
func CreateTestSubProfile(t *testing.T, conn *sql.DB, parentID, name string) string {
	t.Helper()

	id, _ := auth.GenerateID(16)
	_, err := conn.Exec(`
		INSERT INTO sub_profile (id, parent_id, name)
		VALUES ($1, $2, $3)
	`, id, parentID, name)
	if err != nil {
		t.Fatalf("Failed to create test sub-profile: %v", err)
	}
	return id
}

// CreateTestTopic inserts a topic and returns its ID
func CreateTestTopic(t *testing.T, conn *sql.DB, title, authorID string) string {
	t.Helper()

	id, _ := auth.GenerateID(16)
	_, err := conn.Exec(`
		INSERT INTO topic (id, title, author_id, created_at)
		VALUES ($1, $2, $3, $4)
	`, id, title, authorID, time.Now())
	if err != nil {
		t.Fatalf("Failed to create test topic: %v", err)
	}
	return id
}

// CreateTestAnswer inserts an answer and returns its ID
func CreateTestAnswer(t *testing.T, conn *sql.DB, topicID, authorID, body string) string {
	t.Helper()

	id, _ := auth.GenerateID(16)
	_, err := conn.Exec(`
		INSERT INTO answer (id, topic_id, author_id, body, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, id, topicID, authorID, body, time.Now())
	if err != nil {
		t.Fatalf("Failed to create test answer: %v", err)
	}
	return id
}

// CreateTestComment inserts a comment and returns its ID
func CreateTestComment(t *testing.T, conn *sql.DB, answerID, profileID, text string) string {
	t.Helper()

	id, _ := auth.GenerateID(16)
	_, err := conn.Exec(`
		INSERT INTO comment (id, answer_id, profile_id, text, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, id, answerID, profileID, text, time.Now())
	if err != nil {
		t.Fatalf("Failed to create test comment: %v", err)
	}
	return id
}

// CreateTestVote inserts or replaces a vote at the given level
func CreateTestVote(t *testing.T, conn *sql.DB, answerID, profileID string, level int) {
	t.Helper()

	_, err := conn.Exec(`
		INSERT INTO answer_vote (answer_id, profile_id, level, created_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (answer_id, profile_id) DO UPDATE SET level = excluded.level
	`, answerID, profileID, level, time.Now())
	if err != nil {
		t.Fatalf("Failed to create test vote: %v", err)
	}
}

// CreateTestFavorite inserts a favorite
func CreateTestFavorite(t *testing.T, conn *sql.DB, answerID, profileID string) {
	t.Helper()

	_, err := conn.Exec(`
		INSERT INTO favorite (answer_id, profile_id, created_at)
		VALUES ($1, $2, $3)
	`, answerID, profileID, time.Now())
	if err != nil {
		t.Fatalf("Failed to create test favorite: %v", err)
	}
}

// MakeRequest creates an HTTP test request with an optional JSON body
func MakeRequest(method, path string, body interface{}, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, strings.NewReader(string(jsonBody)))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// MakeFormRequest creates an HTTP test request with a urlencoded form body
func MakeFormRequest(method, path string, form url.Values) *http.Request {
	req := httptest.NewRequest(method, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}

// Ctx returns a context for store calls in tests
func Ctx() context.Context { return context.Background() }
