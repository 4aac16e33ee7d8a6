// Copyright (c) 2025 Tsukkomi Project.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/tsukkomi/tsukkomi/cliparse"
	"github.com/tsukkomi/tsukkomi/middleware"
	"github.com/tsukkomi/tsukkomi/models"
	"github.com/tsukkomi/tsukkomi/store"
)

type TopicHandler struct {
	store store.Store
	cfg   cliparse.Config
}

func NewTopicHandler(st store.Store, cfg cliparse.Config) *TopicHandler {
	return &TopicHandler{store: st, cfg: cfg}
}

// ListTopics handles GET /topics
func (h *TopicHandler) ListTopics(w http.ResponseWriter, r *http.Request) {
	topics, err := h.store.GetTopics(r.Context())
	if err != nil {
		slog.Error("failed to query topics", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, models.TopicsResponse{Topics: topics})
}

// GetTopic handles GET /topics/{id}, returning the topic with its answers
func (h *TopicHandler) GetTopic(w http.ResponseWriter, r *http.Request) {
	topicID := r.PathValue("id")
	if topicID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "id is required")
		return
	}

	topic, err := h.store.GetTopic(r.Context(), topicID)
	if errors.Is(err, store.ErrNotFound) {
		middleware.ErrorResponse(w, http.StatusNotFound, "Topic not found")
		return
	}
	if err != nil {
		slog.Error("failed to query topic", "error", err, "topic_id", topicID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	answers, err := h.store.GetAnswersByTopic(r.Context(), topicID)
	if err != nil {
		slog.Error("failed to query answers", "error", err, "topic_id", topicID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.TopicWithAnswers{Topic: topic, Answers: answers})
}

// CreateTopic handles POST /topics
func (h *TopicHandler) CreateTopic(w http.ResponseWriter, r *http.Request) {
	var req models.CreateTopicRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if req.Title == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "title is required")
		return
	}
	if req.AuthorID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "author_id is required")
		return
	}

	topic, err := h.store.CreateTopic(r.Context(), req.Title, req.AuthorID)
	if err != nil {
		slog.Error("failed to create topic", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create topic")
		return
	}

	slog.Info("topic created", "topic_id", topic.ID, "author_id", topic.AuthorID)
	middleware.JSONResponse(w, http.StatusCreated, topic)
}

// CreateAnswer handles POST /topics/{id}/answers
func (h *TopicHandler) CreateAnswer(w http.ResponseWriter, r *http.Request) {
	topicID := r.PathValue("id")
	if topicID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "id is required")
		return
	}

	var req models.CreateAnswerRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if req.Body == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "body is required")
		return
	}
	if req.AuthorID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "author_id is required")
		return
	}

	// The topic must exist before an answer can be attached
	if _, err := h.store.GetTopic(r.Context(), topicID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			middleware.ErrorResponse(w, http.StatusNotFound, "Topic not found")
			return
		}
		slog.Error("failed to query topic", "error", err, "topic_id", topicID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	answer, err := h.store.CreateAnswer(r.Context(), topicID, req.AuthorID, req.Body)
	if err != nil {
		slog.Error("failed to create answer", "error", err, "topic_id", topicID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create answer")
		return
	}

	slog.Info("answer created", "answer_id", answer.ID, "topic_id", topicID)
	middleware.JSONResponse(w, http.StatusCreated, answer)
}
