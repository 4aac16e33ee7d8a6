// Copyright (c) 2025 Tsukkomi Project.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"github.com/dustin/go-humanize"

	"github.com/tsukkomi/tsukkomi/auth"
	"github.com/tsukkomi/tsukkomi/cliparse"
	"github.com/tsukkomi/tsukkomi/middleware"
	"github.com/tsukkomi/tsukkomi/models"
	"github.com/tsukkomi/tsukkomi/ratelimit"
	"github.com/tsukkomi/tsukkomi/store"
)

type ActionHandler struct {
	store   store.Store
	limiter *ratelimit.Limiter
	cfg     cliparse.Config
}

func NewActionHandler(st store.Store, limiter *ratelimit.Limiter, cfg cliparse.Config) *ActionHandler {
	return &ActionHandler{store: st, limiter: limiter, cfg: cfg}
}

// HandleAction handles POST /actions.
//
// The body is a multipart/form-data or x-www-form-urlencoded payload
// classified into a single mutation intent, rate limited by acting
// identity, then executed against the data store. Responses:
//
//	200 {"ok":true, ...result}
//	400 {"error":..., "message":...}     malformed payload
//	429 {"ok":false, "error":"rate_limited"}
//	500 {"ok":false, "error":...}        data-store failure
func (h *ActionHandler) HandleAction(w http.ResponseWriter, r *http.Request) {
	values, err := middleware.ParseFormBody(r)
	if err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid form payload")
		return
	}

	intent, err := ClassifyIntent(values)
	if err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	// Rate limit before touching the data store. Actors without a
	// profile id are keyed by hashed client IP.
	key := intent.ProfileID
	if key == "" {
		key = auth.HashIP(middleware.GetClientIP(r), h.cfg.IPHashSalt)
	}
	if !h.limiter.Consume(key, 1) {
		slog.Warn("action rate limited", "actor", key, "kind", intent.Kind)
		middleware.ActionErrorResponse(w, http.StatusTooManyRequests, "rate_limited")
		return
	}

	switch intent.Kind {
	case models.IntentToggleFavorite:
		result, err := h.store.ToggleFavorite(r.Context(), intent.AnswerID, intent.ProfileID)
		if err != nil {
			slog.Error("toggle favorite failed", "error", err, "answer_id", intent.AnswerID)
			middleware.ActionErrorResponse(w, http.StatusInternalServerError, err.Error())
			return
		}
		slog.Info("favorite toggled", "answer_id", intent.AnswerID, "profile_id", intent.ProfileID, "favorited", result.Favorited)
		middleware.JSONResponse(w, http.StatusOK, models.ToggleFavoriteResponse{OK: true, FavoriteResult: result})

	case models.IntentVote:
		result, err := h.store.VoteAnswer(r.Context(), intent.AnswerID, intent.ProfileID, intent.Level)
		if err != nil {
			slog.Error("vote failed", "error", err, "answer_id", intent.AnswerID, "level", intent.Level)
			middleware.ActionErrorResponse(w, http.StatusInternalServerError, err.Error())
			return
		}
		slog.Info("vote recorded", "answer_id", intent.AnswerID, "profile_id", intent.ProfileID, "level", intent.Level)
		middleware.JSONResponse(w, http.StatusOK, models.VoteResponse{OK: true, VoteResult: result})

	case models.IntentComment:
		comment, err := h.store.AddComment(r.Context(), intent.AnswerID, intent.ProfileID, intent.Text)
		if err != nil {
			slog.Error("add comment failed", "error", err, "answer_id", intent.AnswerID)
			middleware.ActionErrorResponse(w, http.StatusInternalServerError, err.Error())
			return
		}
		comment.CreatedAgo = humanize.Time(comment.CreatedAt)
		slog.Info("comment added", "answer_id", intent.AnswerID, "comment_id", comment.ID)
		middleware.JSONResponse(w, http.StatusOK, models.CommentResponse{OK: true, Comment: comment})

	default:
		// Unreachable: ClassifyIntent only produces the three kinds
		middleware.ErrorResponse(w, http.StatusBadRequest, "Unrecognized action")
	}
}

// ClassifyIntent turns a flat form payload into a mutation intent.
// First match wins:
//
//  1. op == "toggle"   → toggle-favorite (answerId, profileId)
//  2. level present    → vote (answerId, level, userId); level 0 clears
//  3. text present and no op → comment (answerId, text, profileId)
func ClassifyIntent(values url.Values) (models.Intent, error) {
	has := func(key string) bool {
		_, ok := values[key]
		return ok
	}

	switch {
	case values.Get("op") == "toggle":
		intent := models.Intent{
			Kind:      models.IntentToggleFavorite,
			AnswerID:  values.Get("answerId"),
			ProfileID: values.Get("profileId"),
		}
		if intent.AnswerID == "" {
			return models.Intent{}, &models.ValidationError{Field: "answerId", Reason: "required"}
		}
		if intent.ProfileID == "" {
			return models.Intent{}, &models.ValidationError{Field: "profileId", Reason: "required"}
		}
		return intent, nil

	case has("level"):
		level, err := strconv.Atoi(values.Get("level"))
		if err != nil {
			return models.Intent{}, &models.ValidationError{Field: "level", Reason: "must be an integer"}
		}
		if level < models.VoteLevelNone || level > models.VoteLevelMax {
			return models.Intent{}, &models.ValidationError{Field: "level", Reason: "must be between 0 and 3"}
		}
		intent := models.Intent{
			Kind:      models.IntentVote,
			AnswerID:  values.Get("answerId"),
			ProfileID: values.Get("userId"),
			Level:     level,
		}
		if intent.AnswerID == "" {
			return models.Intent{}, &models.ValidationError{Field: "answerId", Reason: "required"}
		}
		if intent.ProfileID == "" {
			return models.Intent{}, &models.ValidationError{Field: "userId", Reason: "required"}
		}
		return intent, nil

	case has("text") && !has("op"):
		intent := models.Intent{
			Kind:      models.IntentComment,
			AnswerID:  values.Get("answerId"),
			ProfileID: values.Get("profileId"),
			Text:      values.Get("text"),
		}
		if intent.AnswerID == "" {
			return models.Intent{}, &models.ValidationError{Field: "answerId", Reason: "required"}
		}
		if intent.Text == "" {
			return models.Intent{}, &models.ValidationError{Field: "text", Reason: "required"}
		}
		if intent.ProfileID == "" {
			return models.Intent{}, &models.ValidationError{Field: "profileId", Reason: "required"}
		}
		return intent, nil

	default:
		return models.Intent{}, &models.ValidationError{Reason: "unrecognized action payload"}
	}
}
