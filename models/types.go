// Copyright (c) 2025 Tsukkomi Project.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import "time"

// Vote level constants. A vote is one of levels 1-3; level 0 clears
// an existing vote and is a valid value on the wire, never rejected.
const (
	VoteLevelNone = 0
	VoteLevelMin  = 1
	VoteLevelMax  = 3
)

// Intent kind constants
const (
	IntentToggleFavorite = "toggle_favorite"
	IntentVote           = "vote"
	IntentComment        = "comment"
)

// Intent is a classified mutation request derived from a raw form
// payload. It is constructed once by the dispatcher's classifier and
// consumed exactly once.
type Intent struct {
	Kind      string
	AnswerID  string
	ProfileID string
	Level     int    // vote only; 0 clears the vote
	Text      string // comment only
}

// Domain types

type UserProfile struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	CreatedAt   time.Time    `json:"created_at"`
	SubProfiles []SubProfile `json:"sub_profiles,omitempty"`
}

// SubProfile is a child profile operated under a parent account.
// When selected, it becomes the acting identity for mutations.
type SubProfile struct {
	ID       string `json:"id"`
	ParentID string `json:"parent_id"`
	Name     string `json:"name"`
}

type Topic struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	AuthorID  string    `json:"author_id"`
	CreatedAt time.Time `json:"created_at"`
}

type Answer struct {
	ID        string    `json:"id"`
	TopicID   string    `json:"topic_id"`
	AuthorID  string    `json:"author_id"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
}

type Comment struct {
	ID          string    `json:"id"`
	AnswerID    string    `json:"answer_id"`
	ProfileID   string    `json:"profile_id"`
	ProfileName string    `json:"profile_name,omitempty"`
	Text        string    `json:"text"`
	CreatedAt   time.Time `json:"created_at"`
	CreatedAgo  string    `json:"created_ago,omitempty"`
	Provisional bool      `json:"provisional,omitempty"`
}

// VoteCounts maps a vote level (1-3) to the number of votes at that level.
type VoteCounts map[int]int

// Total returns the total number of votes across all levels.
func (vc VoteCounts) Total() int {
	total := 0
	for _, n := range vc {
		total += n
	}
	return total
}

// Clone returns an independent copy. Optimistic transforms must never
// mutate a shared counts map in place.
func (vc VoteCounts) Clone() VoteCounts {
	out := make(VoteCounts, len(vc))
	for level, n := range vc {
		out[level] = n
	}
	return out
}

// FavoriteResult is the outcome of a favorite toggle.
type FavoriteResult struct {
	AnswerID  string `json:"answer_id"`
	Favorited bool   `json:"favorited"`
	Count     int    `json:"count"`
}

// VoteResult is the outcome of a vote. Level is the voter's current
// selection after the operation (0 when cleared).
type VoteResult struct {
	AnswerID string     `json:"answer_id"`
	Level    int        `json:"level"`
	Counts   VoteCounts `json:"counts"`
}

// UserData is a profile's votes and favorites across a set of answers.
type UserData struct {
	Votes     map[string]int `json:"votes"`
	Favorites []string       `json:"favorites"`
	Error     string         `json:"error,omitempty"`
}

// AnswerStats aggregates per-answer voting statistics for topic results.
type AnswerStats struct {
	AnswerID      string     `json:"answer_id"`
	Body          string     `json:"body"`
	Counts        VoteCounts `json:"counts"`
	FavoriteCount int        `json:"favorite_count"`
	Score         int        `json:"score"`
	Rank          int        `json:"rank"` // 1-indexed ranking
}

// Request types

type CreateTopicRequest struct {
	Title    string `json:"title"`
	AuthorID string `json:"author_id"`
}

type CreateAnswerRequest struct {
	Body     string `json:"body"`
	AuthorID string `json:"author_id"`
}

// Response types

// ToggleFavoriteResponse is the action endpoint body for a favorite
// toggle: {"ok":true, ...result}.
type ToggleFavoriteResponse struct {
	OK bool `json:"ok"`
	FavoriteResult
}

type VoteResponse struct {
	OK bool `json:"ok"`
	VoteResult
}

type CommentResponse struct {
	OK      bool    `json:"ok"`
	Comment Comment `json:"comment"`
}

// ActionError is the action endpoint failure body (429 and 500).
type ActionError struct {
	OK    bool   `json:"ok"`
	Error string `json:"error"`
}

type TopicWithAnswers struct {
	Topic   Topic    `json:"topic"`
	Answers []Answer `json:"answers"`
}

type TopicResultsResponse struct {
	TopicID  string        `json:"topic_id"`
	Rankings []AnswerStats `json:"rankings"`
}

type CommentsResponse struct {
	Comments []Comment `json:"comments"`
}

type UsersResponse struct {
	Users []UserProfile `json:"users"`
}

type TopicsResponse struct {
	Topics []Topic `json:"topics"`
}

// ErrorResponse is the generic error body for malformed requests (400).
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
