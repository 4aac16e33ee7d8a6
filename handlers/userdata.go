// Copyright (c) 2025 Tsukkomi Project.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/tsukkomi/tsukkomi/cliparse"
	"github.com/tsukkomi/tsukkomi/middleware"
	"github.com/tsukkomi/tsukkomi/models"
	"github.com/tsukkomi/tsukkomi/store"
)

type UserDataHandler struct {
	store store.Store
	cfg   cliparse.Config
}

func NewUserDataHandler(st store.Store, cfg cliparse.Config) *UserDataHandler {
	return &UserDataHandler{store: st, cfg: cfg}
}

// GetUserData handles GET /user-data?profileId=...&answerIds=...&answerIds=...
//
// Returns the profile's votes and favorites across the requested
// answers. On a store failure the body still carries empty votes and
// favorites plus an error field, so clients can seed caches without
// special-casing the shape.
func (h *UserDataHandler) GetUserData(w http.ResponseWriter, r *http.Request) {
	profileID := r.URL.Query().Get("profileId")
	if profileID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "profileId is required")
		return
	}
	// answerIds may repeat or be comma-joined
	var answerIDs []string
	for _, raw := range r.URL.Query()["answerIds"] {
		for _, id := range strings.Split(raw, ",") {
			if id = strings.TrimSpace(id); id != "" {
				answerIDs = append(answerIDs, id)
			}
		}
	}

	data, err := h.store.GetUserData(r.Context(), profileID, answerIDs)
	if err != nil {
		slog.Error("user data query failed", "error", err, "profile_id", profileID)
		middleware.JSONResponse(w, http.StatusInternalServerError, models.UserData{
			Votes:     map[string]int{},
			Favorites: []string{},
			Error:     err.Error(),
		})
		return
	}

	middleware.JSONResponse(w, http.StatusOK, data)
}
