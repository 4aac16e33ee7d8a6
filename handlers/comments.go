// Copyright (c) 2025 Tsukkomi Project.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"log/slog"
	"net/http"

	"github.com/dustin/go-humanize"

	"github.com/tsukkomi/tsukkomi/cliparse"
	"github.com/tsukkomi/tsukkomi/middleware"
	"github.com/tsukkomi/tsukkomi/models"
	"github.com/tsukkomi/tsukkomi/store"
)

type CommentHandler struct {
	store store.Store
	cfg   cliparse.Config
}

func NewCommentHandler(st store.Store, cfg cliparse.Config) *CommentHandler {
	return &CommentHandler{store: st, cfg: cfg}
}

// ListComments handles GET /answers/{id}/comments
func (h *CommentHandler) ListComments(w http.ResponseWriter, r *http.Request) {
	answerID := r.PathValue("id")
	if answerID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "id is required")
		return
	}

	comments, err := h.store.GetCommentsByAnswer(r.Context(), answerID)
	if err != nil {
		slog.Error("failed to query comments", "error", err, "answer_id", answerID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	for i := range comments {
		comments[i].CreatedAgo = humanize.Time(comments[i].CreatedAt)
	}

	middleware.JSONResponse(w, http.StatusOK, models.CommentsResponse{Comments: comments})
}
