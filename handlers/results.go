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

type ResultsHandler struct {
	store store.Store
	cfg   cliparse.Config
}

func NewResultsHandler(st store.Store, cfg cliparse.Config) *ResultsHandler {
	return &ResultsHandler{store: st, cfg: cfg}
}

// GetTopicResults handles GET /topics/{id}/results, returning the
// topic's answers ranked by vote score
func (h *ResultsHandler) GetTopicResults(w http.ResponseWriter, r *http.Request) {
	topicID := r.PathValue("id")
	if topicID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "id is required")
		return
	}

	if _, err := h.store.GetTopic(r.Context(), topicID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			middleware.ErrorResponse(w, http.StatusNotFound, "Topic not found")
			return
		}
		slog.Error("failed to query topic", "error", err, "topic_id", topicID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	stats, err := h.store.GetTopicResults(r.Context(), topicID)
	if err != nil {
		slog.Error("failed to query topic results", "error", err, "topic_id", topicID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.TopicResultsResponse{
		TopicID:  topicID,
		Rankings: RankAnswers(stats),
	})
}
