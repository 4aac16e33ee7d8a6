// Copyright (c) 2025 Tsukkomi Project.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/tsukkomi/tsukkomi/models"
)

// MemStore is an in-memory Store for tests and local development.
// All access is guarded by a single mutex; iteration order is kept
// deterministic by tracking insertion order explicitly.
type MemStore struct {
	mu sync.Mutex

	users      []models.UserProfile
	topics     []models.Topic
	answers    []models.Answer
	comments   map[string][]models.Comment  // answer_id -> comments
	votes      map[string]map[string]int    // answer_id -> profile_id -> level
	favorites  map[string]map[string]bool   // answer_id -> profile_id -> set
	favOrder   map[string][]string          // profile_id -> answer_ids in favorite order
	nextID     int
	forcedErr  error
}

func NewMemStore() *MemStore {
	return &MemStore{
		comments:  map[string][]models.Comment{},
		votes:     map[string]map[string]int{},
		favorites: map[string]map[string]bool{},
		favOrder:  map[string][]string{},
	}
}

// FailWith makes every subsequent operation return err. Pass nil to
// restore normal behavior. Used to exercise 500 paths in tests.
func (m *MemStore) FailWith(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.forcedErr = err
}

func (m *MemStore) genID() string {
	m.nextID++
	return fmt.Sprintf("mem-%04d", m.nextID)
}

// Seed helpers (not part of the Store interface)

func (m *MemStore) SeedUser(name string, subs ...models.SubProfile) models.UserProfile {
	m.mu.Lock()
	defer m.mu.Unlock()
	u := models.UserProfile{ID: m.genID(), Name: name, CreatedAt: time.Now().UTC()}
	for _, sp := range subs {
		sp.ParentID = u.ID
		if sp.ID == "" {
			sp.ID = m.genID()
		}
		u.SubProfiles = append(u.SubProfiles, sp)
	}
	m.users = append(m.users, u)
	return u
}

func (m *MemStore) SeedTopic(title, authorID string) models.Topic {
	m.mu.Lock()
	defer m.mu.Unlock()
	t := models.Topic{ID: m.genID(), Title: title, AuthorID: authorID, CreatedAt: time.Now().UTC()}
	m.topics = append(m.topics, t)
	return t
}

func (m *MemStore) SeedAnswer(topicID, authorID, body string) models.Answer {
	m.mu.Lock()
	defer m.mu.Unlock()
	a := models.Answer{ID: m.genID(), TopicID: topicID, AuthorID: authorID, Body: body, CreatedAt: time.Now().UTC()}
	m.answers = append(m.answers, a)
	return a
}

// Store implementation

func (m *MemStore) GetUsers(ctx context.Context) ([]models.UserProfile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.forcedErr != nil {
		return nil, m.forcedErr
	}
	out := make([]models.UserProfile, len(m.users))
	copy(out, m.users)
	return out, nil
}

func (m *MemStore) GetTopics(ctx context.Context) ([]models.Topic, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.forcedErr != nil {
		return nil, m.forcedErr
	}
	out := make([]models.Topic, len(m.topics))
	copy(out, m.topics)
	return out, nil
}

func (m *MemStore) GetTopic(ctx context.Context, topicID string) (models.Topic, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.forcedErr != nil {
		return models.Topic{}, m.forcedErr
	}
	for _, t := range m.topics {
		if t.ID == topicID {
			return t, nil
		}
	}
	return models.Topic{}, ErrNotFound
}

func (m *MemStore) CreateTopic(ctx context.Context, title, authorID string) (models.Topic, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.forcedErr != nil {
		return models.Topic{}, m.forcedErr
	}
	t := models.Topic{ID: m.genID(), Title: title, AuthorID: authorID, CreatedAt: time.Now().UTC()}
	m.topics = append(m.topics, t)
	return t, nil
}

func (m *MemStore) GetAnswersByTopic(ctx context.Context, topicID string) ([]models.Answer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.forcedErr != nil {
		return nil, m.forcedErr
	}
	out := []models.Answer{}
	for _, a := range m.answers {
		if a.TopicID == topicID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (m *MemStore) CreateAnswer(ctx context.Context, topicID, authorID, body string) (models.Answer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.forcedErr != nil {
		return models.Answer{}, m.forcedErr
	}
	a := models.Answer{ID: m.genID(), TopicID: topicID, AuthorID: authorID, Body: body, CreatedAt: time.Now().UTC()}
	m.answers = append(m.answers, a)
	return a, nil
}

func (m *MemStore) ToggleFavorite(ctx context.Context, answerID, profileID string) (models.FavoriteResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.forcedErr != nil {
		return models.FavoriteResult{}, m.forcedErr
	}

	set := m.favorites[answerID]
	if set == nil {
		set = map[string]bool{}
		m.favorites[answerID] = set
	}

	favorited := !set[profileID]
	if favorited {
		set[profileID] = true
		m.favOrder[profileID] = append(m.favOrder[profileID], answerID)
	} else {
		delete(set, profileID)
		order := m.favOrder[profileID]
		for i, id := range order {
			if id == answerID {
				m.favOrder[profileID] = append(order[:i], order[i+1:]...)
				break
			}
		}
	}

	return models.FavoriteResult{AnswerID: answerID, Favorited: favorited, Count: len(set)}, nil
}

func (m *MemStore) VoteAnswer(ctx context.Context, answerID, profileID string, level int) (models.VoteResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.forcedErr != nil {
		return models.VoteResult{}, m.forcedErr
	}
	if level < models.VoteLevelNone || level > models.VoteLevelMax {
		return models.VoteResult{}, fmt.Errorf("invalid vote level %d", level)
	}

	byProfile := m.votes[answerID]
	if byProfile == nil {
		byProfile = map[string]int{}
		m.votes[answerID] = byProfile
	}

	if level == models.VoteLevelNone {
		delete(byProfile, profileID)
	} else {
		byProfile[profileID] = level
	}

	counts := models.VoteCounts{}
	for _, lvl := range byProfile {
		counts[lvl]++
	}

	return models.VoteResult{AnswerID: answerID, Level: level, Counts: counts}, nil
}

func (m *MemStore) AddComment(ctx context.Context, answerID, profileID, text string) (models.Comment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.forcedErr != nil {
		return models.Comment{}, m.forcedErr
	}
	c := models.Comment{
		ID:          m.genID(),
		AnswerID:    answerID,
		ProfileID:   profileID,
		ProfileName: m.profileNameLocked(profileID),
		Text:        text,
		CreatedAt:   time.Now().UTC(),
	}
	m.comments[answerID] = append(m.comments[answerID], c)
	return c, nil
}

func (m *MemStore) GetCommentsByAnswer(ctx context.Context, answerID string) ([]models.Comment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.forcedErr != nil {
		return nil, m.forcedErr
	}
	out := make([]models.Comment, len(m.comments[answerID]))
	copy(out, m.comments[answerID])
	return out, nil
}

func (m *MemStore) GetUserData(ctx context.Context, profileID string, answerIDs []string) (models.UserData, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data := models.UserData{Votes: map[string]int{}, Favorites: []string{}}
	if m.forcedErr != nil {
		return data, m.forcedErr
	}

	wanted := map[string]bool{}
	for _, id := range answerIDs {
		wanted[id] = true
	}
	include := func(answerID string) bool {
		return len(wanted) == 0 || wanted[answerID]
	}

	for answerID, byProfile := range m.votes {
		if lvl, ok := byProfile[profileID]; ok && include(answerID) {
			data.Votes[answerID] = lvl
		}
	}
	for _, answerID := range m.favOrder[profileID] {
		if include(answerID) {
			data.Favorites = append(data.Favorites, answerID)
		}
	}
	return data, nil
}

func (m *MemStore) GetTopicResults(ctx context.Context, topicID string) ([]models.AnswerStats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.forcedErr != nil {
		return nil, m.forcedErr
	}

	stats := []models.AnswerStats{}
	for _, a := range m.answers {
		if a.TopicID != topicID {
			continue
		}
		counts := models.VoteCounts{}
		for _, lvl := range m.votes[a.ID] {
			counts[lvl]++
		}
		stats = append(stats, models.AnswerStats{
			AnswerID:      a.ID,
			Body:          a.Body,
			Counts:        counts,
			FavoriteCount: len(m.favorites[a.ID]),
		})
	}
	return stats, nil
}

func (m *MemStore) profileNameLocked(profileID string) string {
	for _, u := range m.users {
		if u.ID == profileID {
			return u.Name
		}
		for _, sp := range u.SubProfiles {
			if sp.ID == profileID {
				return sp.Name
			}
		}
	}
	return ""
}
