// Copyright (c) 2025 Tsukkomi Project.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"net/http"

	"github.com/tsukkomi/tsukkomi/cliparse"
	"github.com/tsukkomi/tsukkomi/handlers"
	"github.com/tsukkomi/tsukkomi/middleware"
	"github.com/tsukkomi/tsukkomi/ratelimit"
	"github.com/tsukkomi/tsukkomi/store"
)

func NewRouter(st store.Store, limiter *ratelimit.Limiter, cfg cliparse.Config) *http.ServeMux {
	mux := http.NewServeMux()

	// Initialize handlers
	actionHandler := handlers.NewActionHandler(st, limiter, cfg)
	userDataHandler := handlers.NewUserDataHandler(st, cfg)
	topicHandler := handlers.NewTopicHandler(st, cfg)
	commentHandler := handlers.NewCommentHandler(st, cfg)
	userHandler := handlers.NewUserHandler(st, cfg)
	resultsHandler := handlers.NewResultsHandler(st, cfg)

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Mutation dispatch (rate limited)
	mux.HandleFunc("POST /actions", middleware.WithLogging(actionHandler.HandleAction))

	// Per-profile state for cache seeding
	mux.HandleFunc("GET /user-data", middleware.WithLogging(userDataHandler.GetUserData))

	// Topics and answers
	mux.HandleFunc("GET /topics", middleware.WithLogging(topicHandler.ListTopics))
	mux.HandleFunc("POST /topics", middleware.WithLogging(topicHandler.CreateTopic))
	mux.HandleFunc("GET /topics/{id}", middleware.WithLogging(topicHandler.GetTopic))
	mux.HandleFunc("POST /topics/{id}/answers", middleware.WithLogging(topicHandler.CreateAnswer))
	mux.HandleFunc("GET /topics/{id}/results", middleware.WithLogging(resultsHandler.GetTopicResults))

	// Comments
	mux.HandleFunc("GET /answers/{id}/comments", middleware.WithLogging(commentHandler.ListComments))

	// Users
	mux.HandleFunc("GET /users", middleware.WithLogging(userHandler.ListUsers))

	// Root endpoint
	mux.HandleFunc("GET /", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("tsukkomi API v1"))
	})

	return mux
}
