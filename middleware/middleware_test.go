// Copyright (c) 2025 Tsukkomi Project.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package middleware

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/tsukkomi/tsukkomi/models"
)

func TestWithLogging(t *testing.T) {
	// Create a simple handler that returns OK
	handlerCalled := false
	testHandler := func(w http.ResponseWriter, r *http.Request) {
		handlerCalled = true
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("success"))
	}

	// Wrap with logging middleware
	wrappedHandler := WithLogging(testHandler)

	// Create test request and recorder
	req := httptest.NewRequest("GET", "/test-path", nil)
	w := httptest.NewRecorder()

	// Execute
	wrappedHandler(w, req)

	// Verify handler was called
	if !handlerCalled {
		t.Error("Expected handler to be called")
	}

	// Verify response was written correctly
	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}
	if w.Body.String() != "success" {
		t.Errorf("Expected body 'success', got '%s'", w.Body.String())
	}
}

func TestJSONResponse(t *testing.T) {
	testCases := []struct {
		name       string
		statusCode int
		data       interface{}
		expected   string
	}{
		{
			name:       "simple struct",
			statusCode: http.StatusOK,
			data:       map[string]string{"message": "hello"},
			expected:   `{"message":"hello"}`,
		},
		{
			name:       "favorite toggle response",
			statusCode: http.StatusOK,
			data: models.ToggleFavoriteResponse{
				OK:             true,
				FavoriteResult: models.FavoriteResult{AnswerID: "a1", Favorited: true, Count: 3},
			},
			expected: `{"ok":true,"answer_id":"a1","favorited":true,"count":3}`,
		},
		{
			name:       "error response",
			statusCode: http.StatusBadRequest,
			data:       models.ErrorResponse{Error: "Bad Request", Message: "missing field"},
			expected:   `{"error":"Bad Request","message":"missing field"}`,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			JSONResponse(w, tc.statusCode, tc.data)

			if w.Code != tc.statusCode {
				t.Errorf("Expected status %d, got %d", tc.statusCode, w.Code)
			}
			if ct := w.Header().Get("Content-Type"); ct != "application/json" {
				t.Errorf("Expected JSON content type, got %s", ct)
			}
			if got := strings.TrimSpace(w.Body.String()); got != tc.expected {
				t.Errorf("Expected body %s, got %s", tc.expected, got)
			}
		})
	}
}

func TestActionErrorResponse(t *testing.T) {
	w := httptest.NewRecorder()
	ActionErrorResponse(w, http.StatusTooManyRequests, "rate_limited")

	if w.Code != http.StatusTooManyRequests {
		t.Errorf("Expected status 429, got %d", w.Code)
	}

	var body models.ActionError
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("Failed to decode body: %v", err)
	}
	if body.OK {
		t.Error("Expected ok=false")
	}
	if body.Error != "rate_limited" {
		t.Errorf("Expected error 'rate_limited', got '%s'", body.Error)
	}
}

func TestParseFormBody_URLEncoded(t *testing.T) {
	form := "op=toggle&answerId=a1&profileId=u1"
	req := httptest.NewRequest("POST", "/actions", strings.NewReader(form))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	values, err := ParseFormBody(req)
	if err != nil {
		t.Fatalf("ParseFormBody failed: %v", err)
	}
	if values.Get("op") != "toggle" {
		t.Errorf("Expected op=toggle, got %s", values.Get("op"))
	}
	if values.Get("answerId") != "a1" {
		t.Errorf("Expected answerId=a1, got %s", values.Get("answerId"))
	}
	if values.Get("profileId") != "u1" {
		t.Errorf("Expected profileId=u1, got %s", values.Get("profileId"))
	}
}

func TestParseFormBody_Multipart(t *testing.T) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	mw.WriteField("level", "2")
	mw.WriteField("answerId", "a1")
	mw.WriteField("userId", "u1")
	mw.Close()

	req := httptest.NewRequest("POST", "/actions", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	values, err := ParseFormBody(req)
	if err != nil {
		t.Fatalf("ParseFormBody failed: %v", err)
	}
	if values.Get("level") != "2" {
		t.Errorf("Expected level=2, got %s", values.Get("level"))
	}
	if values.Get("userId") != "u1" {
		t.Errorf("Expected userId=u1, got %s", values.Get("userId"))
	}
}

func TestGetClientIP(t *testing.T) {
	testCases := []struct {
		name       string
		headers    map[string]string
		remoteAddr string
		expected   string
	}{
		{
			name:       "X-Forwarded-For single",
			headers:    map[string]string{"X-Forwarded-For": "203.0.113.5"},
			remoteAddr: "10.0.0.1:1234",
			expected:   "203.0.113.5",
		},
		{
			name:       "X-Forwarded-For chain",
			headers:    map[string]string{"X-Forwarded-For": "203.0.113.5, 10.0.0.2"},
			remoteAddr: "10.0.0.1:1234",
			expected:   "203.0.113.5",
		},
		{
			name:       "X-Real-IP",
			headers:    map[string]string{"X-Real-IP": "203.0.113.9"},
			remoteAddr: "10.0.0.1:1234",
			expected:   "203.0.113.9",
		},
		{
			name:       "RemoteAddr fallback strips port",
			headers:    nil,
			remoteAddr: "192.168.1.50:5678",
			expected:   "192.168.1.50",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/", nil)
			req.RemoteAddr = tc.remoteAddr
			for k, v := range tc.headers {
				req.Header.Set(k, v)
			}
			if got := GetClientIP(req); got != tc.expected {
				t.Errorf("Expected %s, got %s", tc.expected, got)
			}
		})
	}
}
