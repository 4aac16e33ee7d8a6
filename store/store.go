// Copyright (c) 2025 Tsukkomi Project.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"errors"

	"github.com/tsukkomi/tsukkomi/models"
)

// ErrNotFound is returned when a requested entity does not exist.
var ErrNotFound = errors.New("not found")

// Store is the data-store collaborator consumed by the handlers. The
// action dispatcher and read handlers depend only on this interface;
// the hosted backend is opaque to them.
type Store interface {
	GetUsers(ctx context.Context) ([]models.UserProfile, error)

	GetTopics(ctx context.Context) ([]models.Topic, error)
	GetTopic(ctx context.Context, topicID string) (models.Topic, error)
	CreateTopic(ctx context.Context, title, authorID string) (models.Topic, error)

	GetAnswersByTopic(ctx context.Context, topicID string) ([]models.Answer, error)
	CreateAnswer(ctx context.Context, topicID, authorID, body string) (models.Answer, error)

	// ToggleFavorite flips the (answerID, profileID) favorite and
	// returns the new state plus the answer's favorite count.
	ToggleFavorite(ctx context.Context, answerID, profileID string) (models.FavoriteResult, error)

	// VoteAnswer records a vote at the given level (1-3); level 0
	// clears any existing vote. Returns the voter's selection and the
	// answer's per-level counts after the operation.
	VoteAnswer(ctx context.Context, answerID, profileID string, level int) (models.VoteResult, error)

	AddComment(ctx context.Context, answerID, profileID, text string) (models.Comment, error)
	GetCommentsByAnswer(ctx context.Context, answerID string) ([]models.Comment, error)

	// GetUserData returns the profile's votes and favorites restricted
	// to answerIDs. An empty answerIDs slice means "everything".
	GetUserData(ctx context.Context, profileID string, answerIDs []string) (models.UserData, error)

	// GetTopicResults returns unranked per-answer statistics for a
	// topic. Ranking is presentation-side.
	GetTopicResults(ctx context.Context, topicID string) ([]models.AnswerStats, error)
}
